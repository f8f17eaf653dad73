package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rl1809/stock-tally/internal/port"
)

const writeTimeout = 5 * time.Second

var ErrClosed = errors.New("preferences closed")

type writeJob struct {
	key   string
	value string
	seq   uint64

	// set only on flush barriers
	done chan struct{}
}

// WriteBehind gives a backend apply-style semantics: PutString updates an
// in-memory copy and returns, a single writer goroutine persists the value.
// Reads see the latest put immediately. Backend write failures are logged.
type WriteBehind struct {
	backend port.Preferences
	logger  *zap.Logger

	mu     sync.RWMutex
	cache  map[string]string
	seq    uint64
	closed bool

	// guarded by seqMu so the writer never waits on mu
	seqMu  sync.Mutex
	latest map[string]uint64

	queue chan writeJob
	wg    sync.WaitGroup
}

func NewWriteBehind(backend port.Preferences, queueSize int, logger *zap.Logger) *WriteBehind {
	if logger == nil {
		logger = zap.NewNop()
	}
	if queueSize < 1 {
		queueSize = 1
	}

	w := &WriteBehind{
		backend: backend,
		logger:  logger,
		cache:   make(map[string]string),
		latest:  make(map[string]uint64),
		queue:   make(chan writeJob, queueSize),
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.writerLoop()
	}()

	return w
}

func (w *WriteBehind) GetString(ctx context.Context, key, defValue string) (string, error) {
	w.mu.RLock()
	value, ok := w.cache[key]
	w.mu.RUnlock()
	if ok {
		return value, nil
	}

	const absent = "\x00absent"
	value, err := w.backend.GetString(ctx, key, absent)
	if err != nil {
		return "", err
	}
	if value == absent {
		return defValue, nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	// a put may have landed while the backend was read
	if cached, ok := w.cache[key]; ok {
		return cached, nil
	}
	w.cache[key] = value
	return value, nil
}

func (w *WriteBehind) PutString(ctx context.Context, key, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}

	prevValue, hadValue := w.cache[key]
	w.seq++
	w.cache[key] = value
	prevSeq := w.setLatest(key, w.seq)

	select {
	case w.queue <- writeJob{key: key, value: value, seq: w.seq}:
		return nil
	case <-ctx.Done():
		if hadValue {
			w.cache[key] = prevValue
		} else {
			delete(w.cache, key)
		}
		w.setLatest(key, prevSeq)
		return ctx.Err()
	}
}

// setLatest records seq as the newest write for key and returns the previous one.
func (w *WriteBehind) setLatest(key string, seq uint64) uint64 {
	w.seqMu.Lock()
	defer w.seqMu.Unlock()
	prev := w.latest[key]
	w.latest[key] = seq
	return prev
}

func (w *WriteBehind) isStale(job writeJob) bool {
	w.seqMu.Lock()
	defer w.seqMu.Unlock()
	return job.seq < w.latest[job.key]
}

// Flush blocks until every put issued before the call has reached the backend.
func (w *WriteBehind) Flush(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	done := make(chan struct{})
	select {
	case w.queue <- writeJob{done: done}:
	case <-ctx.Done():
		w.mu.Unlock()
		return ctx.Err()
	}
	w.mu.Unlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close drains pending writes, stops the writer and closes the backend if it
// holds resources.
func (w *WriteBehind) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.queue)
	w.mu.Unlock()

	w.wg.Wait()

	if c, ok := w.backend.(port.Closer); ok {
		return c.Close()
	}
	return nil
}

func (w *WriteBehind) writerLoop() {
	for job := range w.queue {
		if job.done != nil {
			close(job.done)
			continue
		}

		// only the newest value of a key is worth writing
		if w.isStale(job) {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := w.backend.PutString(ctx, job.key, job.value); err != nil {
			w.logger.Error("persist preference failed",
				zap.String("key", job.key),
				zap.Uint64("seq", job.seq),
				zap.Error(err),
			)
		} else {
			w.logger.Debug("persisted preference", zap.String("key", job.key), zap.Uint64("seq", job.seq))
		}
		cancel()
	}
}
