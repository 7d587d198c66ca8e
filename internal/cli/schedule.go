// Copyright (c) 2026 John Dewey

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
// DEALINGS IN THE SOFTWARE.

package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// ensure Scheduler can be run by RunServer.
var _ Lifecycle = (*Scheduler)(nil)

// Scheduler runs a job on a cron schedule. A run still in progress when the
// next tick fires is skipped.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// NewScheduler parses spec, a standard five field cron expression or a
// descriptor such as "@hourly" or "@every 10m", and schedules job on it.
func NewScheduler(
	logger *slog.Logger,
	spec string,
	job func(),
) (*Scheduler, error) {
	cl := &cronLogger{logger: logger}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	if _, err := c.AddFunc(spec, job); err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", spec, err)
	}

	return &Scheduler{
		cron:   c,
		logger: logger,
	}, nil
}

// Start starts the scheduler without blocking.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler")
	s.cron.Start()
}

// Stop stops scheduling and waits for a running job until ctx expires.
func (s *Scheduler) Stop(
	ctx context.Context,
) {
	s.logger.Info("stopping scheduler")

	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("scheduler stopped gracefully")
	case <-ctx.Done():
		s.logger.Error(
			"scheduler shutdown failed",
			slog.String("error", ctx.Err().Error()),
		)
	}
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l *cronLogger) Info(
	msg string,
	keysAndValues ...any,
) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l *cronLogger) Error(
	err error,
	msg string,
	keysAndValues ...any,
) {
	l.logger.Error(msg, append([]any{"error", err.Error()}, keysAndValues...)...)
}
