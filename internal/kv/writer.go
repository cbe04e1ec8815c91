// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package kv

import (
	"context"
	"log/slog"
	"sync"
)

// writerQueueSize bounds the number of queued writes before Enqueue blocks.
const writerQueueSize = 128

// writeJob is a batch of entries to store or, with nil entries, a flush
// barrier. result receives the outcome of this job alone when set.
type writeJob struct {
	entries map[string]string
	result  chan error
}

// Writer applies queued writes to a Store on a single goroutine, in the
// order they were enqueued. Failures of writes queued with Enqueue or
// EnqueueMany are logged only; Submit reports the failure of its own write.
type Writer struct {
	store  Store
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
	jobs   chan writeJob
	done   chan struct{}
}

// NewWriter creates a Writer and starts its worker goroutine.
func NewWriter(store Store, logger *slog.Logger) *Writer {
	w := &Writer{
		store:  store,
		logger: logger,
		jobs:   make(chan writeJob, writerQueueSize),
		done:   make(chan struct{}),
	}
	go w.run()
	return w
}

// Enqueue queues a single key write.
func (w *Writer) Enqueue(key, value string) error {
	return w.EnqueueMany(map[string]string{key: value})
}

// EnqueueMany queues entries to be stored together with one SetMany.
func (w *Writer) EnqueueMany(entries map[string]string) error {
	return w.send(writeJob{entries: entries})
}

// Submit queues entries like EnqueueMany and returns a channel that
// receives the result of this write once it has been applied.
func (w *Writer) Submit(entries map[string]string) (<-chan error, error) {
	result := make(chan error, 1)
	if err := w.send(writeJob{entries: entries, result: result}); err != nil {
		return nil, err
	}
	return result, nil
}

// Await waits for a result returned by Submit.
func Await(ctx context.Context, result <-chan error) error {
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Flush blocks until every write queued before the call has been applied.
// It does not report write failures.
func (w *Writer) Flush(ctx context.Context) error {
	result := make(chan error, 1)
	if err := w.send(writeJob{result: result}); err != nil {
		return err
	}
	return Await(ctx, result)
}

// Close stops accepting writes, drains the queue and waits for the worker.
// The underlying Store is not closed.
func (w *Writer) Close(ctx context.Context) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.jobs)
	}
	w.mu.Unlock()

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Writer) send(job writeJob) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}

	w.jobs <- job
	return nil
}

func (w *Writer) run() {
	defer close(w.done)

	for job := range w.jobs {
		var err error
		if job.entries != nil {
			err = w.write(job.entries)
		}

		if job.result != nil {
			job.result <- err
			continue
		}
		if err != nil {
			w.logger.Error("queued write failed", "keys", len(job.entries), "error", err)
		}
	}
}

func (w *Writer) write(entries map[string]string) error {
	ctx := context.Background()
	if len(entries) == 1 {
		for key, value := range entries {
			return w.store.Set(ctx, key, value)
		}
	}
	return w.store.SetMany(ctx, entries)
}
