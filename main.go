package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	debug := flag.Bool("debug", false, "show the feedback debug panel at start")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	watch := flag.Bool("watch", true, "hot reload prefabs/*.yaml and prefabs/scripts/*.tengo")
	seed := flag.Int64("seed", 0, "random seed for shakes, particles and dice (0 picks one)")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(1280, 720)
	ebiten.SetWindowTitle("shieldwall")

	game, err := NewGame(Options{Debug: *debug, Watch: *watch, Seed: *seed})
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
