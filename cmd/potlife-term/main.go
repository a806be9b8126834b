package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"

	"potlife/internal/app"
	_ "potlife/internal/kernel/cpu"
	"potlife/internal/terminal"
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

	screen, err := tcell.NewScreen()
	if err != nil {
		logger.Error("open terminal", "err", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		logger.Error("init terminal", "err", err)
		os.Exit(1)
	}
	screen.EnableMouse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = terminal.New(screen, session, logger).Run(ctx)
	stop()
	screen.Fini()
	if err != nil && ctx.Err() == nil {
		logger.Error("run failed", "err", err)
		os.Exit(1)
	}
}
