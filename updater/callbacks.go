// go-ds620
// Copyright (c) 2026 The go-ds620 Contributors.
// SPDX-License-Identifier: MIT

package updater

import "time"

// Progress is passed to the progress callback as the session advances.
type Progress struct {
	// Stage is the stage currently executing.
	Stage Stage
	// BytesSent counts firmware and CWD payload bytes transferred so far.
	BytesSent int
	// TotalBytes is the total payload size for the whole session.
	TotalBytes int
	// Percentage is BytesSent over TotalBytes, 0 to 100.
	Percentage float64
	// Elapsed is the time since the session started.
	Elapsed time.Duration
}

// ProgressCallback receives progress updates. Implementations should
// return quickly; the session blocks while the callback runs.
type ProgressCallback func(Progress)

// Logger is the logging hook accepted by the updater, shaped so any
// structured logging framework can be adapted to it.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
