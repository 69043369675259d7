package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	debug := flag.Bool("debug", false, "log transitions and shots")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	preset := flag.String("preset", "default", "settings preset in config/presets")
	settingsPath := flag.String("config", "", "settings file; overrides -preset")
	courseName := flag.String("course", "training", "course name in level/courses (basename, .yaml optional)")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	w, h := ebiten.Monitor().Size()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("wallrun")

	game, err := NewGame(gameOptions{
		preset:       *preset,
		settingsPath: *settingsPath,
		course:       *courseName,
		debug:        *debug,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	// Mouse look needs the cursor locked to the window.
	ebiten.SetCursorMode(ebiten.CursorModeCaptured)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
