// Command replay feeds "name,quantity" lines through the inventory service,
// the same way the form would, and prints the resulting inventory.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rl1809/stock-tally/internal/app"
	"github.com/rl1809/stock-tally/internal/config"
	"github.com/rl1809/stock-tally/internal/logger"
)

func main() {
	concurrency := flag.Int("concurrency", 1, "number of submissions in flight")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: replay [-concurrency N] [file]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := run(flag.Arg(0), *concurrency); err != nil {
		fmt.Fprintf(os.Stderr, "replay: %v\n", err)
		os.Exit(1)
	}
}

func run(path string, concurrency int) error {
	ctx := context.Background()

	var in io.Reader = os.Stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	subs, err := readSubmissions(in)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
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

	runID := uuid.NewString()
	log = log.With(zap.String("run_id", runID))

	stats, err := replay(ctx, a.Service, subs, concurrency, log)
	if err != nil {
		a.Close(ctx)
		return err
	}

	display, err := a.Service.Render(ctx)
	if err != nil {
		a.Close(ctx)
		return err
	}

	if err := a.Close(ctx); err != nil {
		return err
	}

	printResults(os.Stdout, runID, cfg.Backend, stats, display)
	return nil
}
