//go:build ebiten

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"potlife/internal/app"
	_ "potlife/internal/kernel/cpu"
	_ "potlife/internal/kernel/shader"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()
	logger := cfg.Logger(os.Stderr)

	session, err := app.NewSession(cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	game := app.New(session, cfg.Viewport, logger)
	w, h := game.Layout(0, 0)

	ebiten.SetWindowTitle("potlife")
	ebiten.SetTPS(game.TPS())
	ebiten.SetWindowSize(w, h)

	logger.Info("starting", "size", session.Machine().Side(), "kernel", session.Machine().KernelName(), "speed", session.Speed().Name())
	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Error("run failed", "err", err)
		os.Exit(1)
	}
}
