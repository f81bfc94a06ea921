// Package sweeper runs a named maintenance task on a fixed interval.
// Tasks claim their rows with conditional updates, so running the same
// sweeper in several service instances is safe.
package sweeper

import (
	"context"
	"log/slog"
	"time"
)

// Task performs one sweep pass and reports how many rows it processed.
type Task func(ctx context.Context) (int, error)

type Sweeper struct {
	name     string
	interval time.Duration
	task     Task
	stop     chan struct{}
	done     chan struct{}
}

func New(name string, interval time.Duration, task Task) *Sweeper {
	return &Sweeper{
		name:     name,
		interval: interval,
		task:     task,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (s *Sweeper) Start() {
	go s.run()
}

// Stop blocks until any in-flight pass finishes.
func (s *Sweeper) Stop() {
	close(s.stop)
	<-s.done
}

func (s *Sweeper) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("sweeper started", "name", s.name, "interval", s.interval)
	for {
		select {
		case <-s.stop:
			slog.Info("sweeper stopped", "name", s.name)
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.interval)
	defer cancel()

	processed, err := s.task(ctx)
	if err != nil {
		slog.Error("sweep pass failed", "name", s.name, "error", err)
		return
	}
	if processed > 0 {
		slog.Info("sweep pass finished", "name", s.name, "processed", processed)
	}
}
