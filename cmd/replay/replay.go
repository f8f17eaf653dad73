package main

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/rl1809/stock-tally/internal/core/domain"
	"github.com/rl1809/stock-tally/internal/core/service"
)

type replayStats struct {
	Submitted int
	Added     int
	Rejected  int
	Duration  time.Duration
}

// replay submits subs through concurrency workers. One worker keeps the input
// order. After a fatal error no further submission is started.
func replay(ctx context.Context, svc *service.InventoryService, subs []domain.Submission, concurrency int, log *zap.Logger) (replayStats, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var added, rejected, submitted atomic.Int32
	var fatal error
	var fatalOnce sync.Once

	submit := func(sub domain.Submission) {
		submitted.Add(1)
		_, err := svc.Submit(ctx, sub)
		switch {
		case err == nil:
			added.Add(1)
		case service.Notice(err) != "":
			rejected.Add(1)
			log.Info("submission rejected",
				zap.String("product", sub.Product),
				zap.String("quantity", sub.Quantity),
				zap.String("notice", service.Notice(err)),
			)
		default:
			fatalOnce.Do(func() {
				fatal = err
				cancel()
			})
		}
	}

	start := time.Now()

	jobs := make(chan domain.Submission)
	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sub := range jobs {
				if runCtx.Err() != nil {
					continue
				}
				submit(sub)
			}
		}()
	}

feed:
	for _, sub := range subs {
		select {
		case jobs <- sub:
		case <-runCtx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	stats := replayStats{
		Submitted: int(submitted.Load()),
		Added:     int(added.Load()),
		Rejected:  int(rejected.Load()),
		Duration:  time.Since(start),
	}
	if fatal != nil {
		return stats, fatal
	}
	if err := ctx.Err(); err != nil {
		return stats, err
	}
	return stats, nil
}

func printResults(w io.Writer, runID, backend string, stats replayStats, display string) {
	fmt.Fprintln(w, "========== REPLAY RESULTS ==========")
	fmt.Fprintf(w, "Run ID:       %s\n", runID)
	fmt.Fprintf(w, "Backend:      %s\n", backend)
	fmt.Fprintf(w, "Submissions:  %d\n", stats.Submitted)
	fmt.Fprintf(w, "Added:        %d\n", stats.Added)
	fmt.Fprintf(w, "Rejected:     %d\n", stats.Rejected)
	fmt.Fprintf(w, "Duration:     %v\n", stats.Duration)
	fmt.Fprintln(w, "====================================")
	fmt.Fprintln(w, display)
}
