package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"

	"github.com/milk9111/wallrun/config"
	"github.com/milk9111/wallrun/level"
	"github.com/milk9111/wallrun/movement"
	"github.com/milk9111/wallrun/script"
	"github.com/milk9111/wallrun/session"
)

func main() {
	scriptName := flag.String("script", "corridor", "input script: embedded name or path to a .tengo file")
	courseName := flag.String("course", "training", "course name in level/courses (basename, .yaml optional)")
	preset := flag.String("preset", "default", "settings preset in config/presets")
	settingsPath := flag.String("config", "", "settings file; overrides -preset")
	every := flag.Int("every", 10, "print a trace line every N frames (0 disables)")
	quiet := flag.Bool("q", false, "do not log transitions and shots")
	flag.Parse()

	settings, err := loadSettings(*settingsPath, *preset)
	if err != nil {
		log.Fatal(err)
	}
	course, err := level.Load(*courseName)
	if err != nil {
		log.Fatal(err)
	}
	driver, err := script.Load(*scriptName)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var tracer session.Tracer
	if !*quiet {
		tracer = session.LogTracer{Logger: log.New(os.Stderr, "", 0)}
	}

	sum, err := replay(ctx, os.Stdout, replayConfig{
		settings: settings,
		course:   course,
		driver:   driver,
		tracer:   tracer,
		every:    *every,
	})
	if err != nil {
		log.Fatal(err)
	}
	sum.print(os.Stdout)
}

func loadSettings(path, preset string) (config.Settings, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load(preset)
}

type replayConfig struct {
	settings config.Settings
	course   *level.Course
	driver   *script.Driver
	tracer   session.Tracer
	every    int
}

type summary struct {
	frames   int
	seconds  float64
	maxSpeed float64
	shots    int
	modeTime map[string]float64
	final    movement.Snapshot
}

// replay runs the driver against a fresh session until the script finishes or
// its frame budget runs out.
func replay(ctx context.Context, out io.Writer, cfg replayConfig) (summary, error) {
	sess := session.New(session.Options{
		Tuning: cfg.settings.Tuning(),
		Recoil: cfg.settings.RecoilConfig(),
		Camera: cfg.settings.CameraConfig(),
		World:  cfg.course,
		Spawn:  cfg.course.Spawn,
		Tracer: cfg.tracer,
	})

	sum := summary{modeTime: map[string]float64{}}
	dt := cfg.driver.Dt()
	for i := 0; i < cfg.driver.Frames(); i++ {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		in, done, err := cfg.driver.Next(ctx, sess.Snapshot())
		if err != nil {
			return sum, err
		}

		view := sess.Step(dt, in)
		snap := sess.Snapshot()
		sum.frames++
		sum.seconds += dt
		sum.modeTime[snap.Mode.Kind().String()] += dt
		sum.maxSpeed = max(sum.maxSpeed, snap.Velocity.Len())

		if cfg.every > 0 && int(snap.Frame)%cfg.every == 0 {
			fmt.Fprintf(out, "%5d %-12s pos=(%7.2f %6.2f %7.2f) speed=%6.2f eye=%.2f roll=%5.1f recoil=%.3f\n",
				snap.Frame, snap.Mode, snap.Position.X(), snap.Position.Y(), snap.Position.Z(),
				view.Speed, view.Eye.Y()-snap.Position.Y(), view.Roll, view.Recoil)
		}
		if done {
			break
		}
	}
	sum.shots = sess.Recoil.Shots()
	sum.final = sess.Snapshot()
	return sum, nil
}

func (s summary) print(out io.Writer) {
	fmt.Fprintf(out, "frames=%d time=%.2fs max_speed=%.2f shots=%d\n", s.frames, s.seconds, s.maxSpeed, s.shots)
	modes := make([]string, 0, len(s.modeTime))
	for m := range s.modeTime {
		modes = append(modes, m)
	}
	sort.Strings(modes)
	for _, m := range modes {
		fmt.Fprintf(out, "  %-12s %.2fs\n", m, s.modeTime[m])
	}
	p := s.final.Position
	fmt.Fprintf(out, "final: %v at (%.2f %.2f %.2f)\n", s.final.Mode, p.X(), p.Y(), p.Z())
}
