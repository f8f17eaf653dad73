package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/rl1809/stock-tally/internal/adapter/tui"
	"github.com/rl1809/stock-tally/internal/app"
	"github.com/rl1809/stock-tally/internal/config"
	"github.com/rl1809/stock-tally/internal/logger"
)

const defaultLogFile = "tally.log"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.LogFile == "" {
		cfg.LogFile = defaultLogFile
	}

	log, err := logger.New(logger.Options{
		Development: cfg.Development(),
		Level:       cfg.LogLevel,
		File:        cfg.LogFile,
		Service:     cfg.ServiceName,
	})
	if err != nil {
		return err
	}
	defer log.Sync()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(context.Background()); err != nil {
			log.Error("close app", zap.Error(err))
		}
	}()

	model, err := tui.NewModel(ctx, a.Service, cfg.NoticeTTL)
	if err != nil {
		return err
	}

	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(tui.Model); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}
