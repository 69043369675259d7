package main

import (
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/milk9111/wallrun/config"
	"github.com/milk9111/wallrun/level"
	"github.com/milk9111/wallrun/movement"
	"github.com/milk9111/wallrun/session"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	stepDt = 1.0 / 60
	// pixels per metre in the overhead view
	mapScale = 8.0
)

type gameOptions struct {
	preset       string
	settingsPath string
	course       string
	debug        bool
}

type Game struct {
	frames int
	debug  bool

	presets []string
	courses []string

	preset       string
	settingsPath string
	courseName   string

	settings config.Settings
	course   *level.Course
	session  *session.Session
	watcher  *config.Watcher

	input   *Input
	paused  bool
	pauseUI *ebitenui.UI
	quit    bool
	status  string
}

func NewGame(opts gameOptions) (*Game, error) {
	g := &Game{
		debug:        opts.debug,
		presets:      config.Presets(),
		courses:      level.Courses(),
		preset:       opts.preset,
		settingsPath: opts.settingsPath,
		courseName:   opts.course,
	}

	settings, err := g.loadSettings()
	if err != nil {
		return nil, err
	}
	course, err := level.Load(g.courseName)
	if err != nil {
		return nil, err
	}
	g.settings = settings
	g.course = course
	g.input = NewInput(0)
	g.respawn(course.Spawn)

	g.watcher = g.startWatcher()
	g.pauseUI = NewPauseUI(g)
	return g, nil
}

func (g *Game) loadSettings() (config.Settings, error) {
	if g.settingsPath != "" {
		return config.LoadFile(g.settingsPath)
	}
	return config.Load(g.preset)
}

// startWatcher watches whichever settings and course directories exist on
// disk. Without any, hot reload is simply off.
func (g *Game) startWatcher() *config.Watcher {
	var dirs []string
	candidates := []string{config.PresetDir, level.CourseDir}
	if g.settingsPath != "" {
		candidates = append(candidates, filepath.Dir(g.settingsPath))
	}
	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs = append(dirs, dir)
		}
	}
	if len(dirs) == 0 {
		return nil
	}
	w, err := config.NewWatcher(dirs...)
	if err != nil {
		log.Printf("hot reload disabled: %v", err)
		return nil
	}
	return w
}

func (g *Game) respawn(at mgl64.Vec3) {
	var tracer session.Tracer
	if g.debug {
		tracer = session.LogTracer{}
	}
	g.session = session.New(session.Options{
		Tuning: g.settings.Tuning(),
		Recoil: g.settings.RecoilConfig(),
		Camera: g.settings.CameraConfig(),
		World:  g.course,
		Spawn:  at,
		Tracer: tracer,
	})
}

// Reset puts the player back at the course spawn.
func (g *Game) Reset() {
	g.respawn(g.course.Spawn)
	g.status = "reset"
}

// CyclePreset switches to the next settings preset and keeps the player
// where they stand.
func (g *Game) CyclePreset() {
	if len(g.presets) == 0 {
		return
	}
	g.settingsPath = ""
	g.preset = nextName(g.presets, g.preset)
	g.reloadSettings()
}

// CycleCourse loads the next course and respawns on it.
func (g *Game) CycleCourse() {
	if len(g.courses) == 0 {
		return
	}
	g.courseName = nextName(g.courses, g.courseName)
	g.reloadCourse()
}

func (g *Game) reloadSettings() {
	settings, err := g.loadSettings()
	if err != nil {
		g.status = err.Error()
		log.Print(err)
		return
	}
	g.settings = settings
	g.respawn(g.session.Snapshot().Position)
	g.status = "settings: " + settings.Name
}

func (g *Game) reloadCourse() {
	course, err := level.Load(g.courseName)
	if err != nil {
		g.status = err.Error()
		log.Print(err)
		return
	}
	g.course = course
	g.respawn(course.Spawn)
	g.status = "course: " + course.Name
}

// pollReload drains pending file events without blocking.
func (g *Game) pollReload() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			if isCourseFile(path) {
				if sameName(path, g.courseName) {
					g.reloadCourse()
				}
				continue
			}
			if g.watchesSettings(path) {
				g.reloadSettings()
			}
		case err, ok := <-g.watcher.Errors:
			if ok {
				log.Printf("watch: %v", err)
			}
		default:
			return
		}
	}
}

func (g *Game) watchesSettings(path string) bool {
	if g.settingsPath != "" {
		return filepath.Clean(path) == filepath.Clean(g.settingsPath)
	}
	return sameName(path, g.preset)
}

func (g *Game) Close() error {
	if g.watcher == nil {
		return nil
	}
	return g.watcher.Close()
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}
	g.frames++

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.SetPaused(!g.paused)
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset()
	}
	g.pollReload()

	in := g.input.Poll(stepDt)
	g.session.Step(stepDt, in)
	return nil
}

func (g *Game) SetPaused(paused bool) {
	g.paused = paused
	if paused {
		ebiten.SetCursorMode(ebiten.CursorModeVisible)
		return
	}
	ebiten.SetCursorMode(ebiten.CursorModeCaptured)
	g.input.Unprime()
}

func (g *Game) Quit() { g.quit = true }

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Black)

	snap := g.session.Snapshot()
	g.drawCourse(screen, snap.Position)
	g.drawPlayer(screen, snap)

	ebitenutil.DebugPrint(screen, g.hud(snap))

	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

// toScreen maps world (x, z) to the overhead view centred on the player.
// +z points up the screen.
func toScreen(p, center mgl64.Vec3) (float32, float32) {
	x := baseWidth/2 + (p.X()-center.X())*mapScale
	y := baseHeight/2 - (p.Z()-center.Z())*mapScale
	return float32(x), float32(y)
}

func (g *Game) drawCourse(screen *ebiten.Image, center mgl64.Vec3) {
	solids := g.course.Solids()
	sort.SliceStable(solids, func(i, j int) bool { return solids[i].Top < solids[j].Top })

	under, _ := g.course.SolidAt(center)
	for _, s := range solids {
		width := float32(1)
		if s == under {
			width = 3
		}
		clr := solidColor(s, center.Y())
		n := len(s.Footprint)
		for i := range s.Footprint {
			a, b := s.Footprint[i], s.Footprint[(i+1)%n]
			x0, y0 := toScreen(mgl64.Vec3{a.X(), 0, a.Y()}, center)
			x1, y1 := toScreen(mgl64.Vec3{b.X(), 0, b.Y()}, center)
			vector.StrokeLine(screen, x0, y0, x1, y1, width, clr, true)
		}
	}
}

// solidColor picks by shape and by whether the top is above the player.
func solidColor(s *level.Solid, feet float64) color.Color {
	switch {
	case s.Ramp:
		return colornames.Goldenrod
	case s.Top > feet+1:
		return colornames.Lightslategray
	default:
		return colornames.Darkolivegreen
	}
}

func modeColor(m movement.Mode) color.Color {
	switch m.Kind() {
	case movement.KindSliding:
		return colornames.Orange
	case movement.KindWallRunning:
		return colornames.Deepskyblue
	case movement.KindAirborne:
		return colornames.Violet
	default:
		return colornames.Limegreen
	}
}

func (g *Game) drawPlayer(screen *ebiten.Image, snap movement.Snapshot) {
	view := g.session.View()
	cx, cy := toScreen(snap.Position, snap.Position)

	look := snap.Position.Add(movement.Input{Yaw: view.Yaw}.Forward().Mul(3))
	lx, ly := toScreen(look, snap.Position)
	vector.StrokeLine(screen, cx, cy, lx, ly, 1, colornames.White, true)

	vel := snap.Position.Add(snap.Velocity.Mul(0.25))
	vx, vy := toScreen(vel, snap.Position)
	vector.StrokeLine(screen, cx, cy, vx, vy, 2, colornames.Crimson, true)

	r := float32(g.settings.Body.Radius * mapScale)
	vector.DrawFilledCircle(screen, cx, cy, r, modeColor(snap.Mode), true)
	if snap.DashActive {
		vector.StrokeCircle(screen, cx, cy, r+3, 1, colornames.Yellow, true)
	}
}

func (g *Game) hud(snap movement.Snapshot) string {
	view := g.session.View()
	var b strings.Builder
	fmt.Fprintf(&b, "Frames: %d    FPS: %.2f\n", g.frames, ebiten.ActualFPS())
	fmt.Fprintf(&b, "course %s  settings %s\n", g.course.Name, g.settings.Name)
	fmt.Fprintf(&b, "mode %-12s speed %6.2f  vy %6.2f\n", snap.Mode, view.Speed, snap.Velocity.Y())
	fmt.Fprintf(&b, "pos (%.2f %.2f %.2f)\n", snap.Position.X(), snap.Position.Y(), snap.Position.Z())
	fmt.Fprintf(&b, "dash cooldown %.2f boost %.2f\n", snap.DashCooldown, snap.DashBoostFraction)
	if snap.Mode.Kind() == movement.KindSliding {
		fmt.Fprintf(&b, "slide speed %.2f\n", snap.SlideSpeed)
	}
	if snap.Mode.Kind() == movement.KindWallRunning {
		fmt.Fprintf(&b, "wall %v %.2fs\n", snap.WallSide, snap.WallRunElapsed)
	}
	fmt.Fprintf(&b, "eye %.2f  pitch %.3f  roll %.1f  recoil %.3f  shots %d\n",
		view.Eye.Y()-snap.Position.Y(), view.Pitch, view.Roll, view.Recoil, g.session.Recoil.Shots())
	if g.status != "" {
		b.WriteString(g.status + "\n")
	}
	b.WriteString("WASD move  mouse look  shift sprint  ctrl slide  space jump  E dash  R reset  esc menu")
	return b.String()
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

// nextName returns the entry after cur, wrapping. An unknown cur yields the
// first entry.
func nextName(names []string, cur string) string {
	for i, n := range names {
		if n == cur {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}

func isCourseFile(path string) bool {
	return filepath.Base(filepath.Dir(filepath.Clean(path))) == filepath.Base(level.CourseDir)
}

// sameName compares a changed file against a preset or course name with or
// without its extension.
func sameName(path, name string) bool {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return base == strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
}
