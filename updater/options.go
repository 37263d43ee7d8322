// go-ds620
// Copyright (c) 2026 The go-ds620 Contributors.
// SPDX-License-Identifier: MIT

package updater

import (
	"time"

	ds620 "github.com/ds620-linux/go-ds620"
)

// Config holds the updater configuration.
type Config struct {
	// Logger receives session logging. Defaults to a no-op logger.
	Logger Logger
	// ProgressCallback receives progress updates, when set.
	ProgressCallback ProgressCallback
	// Exchange configures the transfer engine.
	Exchange *ds620.ExchangeConfig
	// FlashPoll configures the flash-completion poll. Flash programming
	// is slow, so its deadline is minutes, not seconds.
	FlashPoll *ds620.PollConfig
	// Clock drives elapsed-time reporting.
	Clock ds620.Clock
	// ExpectedVersion, when non-empty, is matched against the firmware
	// version the printer reports after reset.
	ExpectedVersion string
	// ChunkSize bounds each firmware data block.
	ChunkSize int
	// AllowUnsafeCancel permits context cancellation to interrupt the
	// flash-programming window. Leaving this off is strongly advised:
	// an interrupted flash program can brick the printer.
	AllowUnsafeCancel bool
}

// DefaultConfig returns the updater defaults: 4 KiB firmware chunks and a
// five-minute flash deadline polled every two seconds.
func DefaultConfig() *Config {
	return &Config{
		Logger:    nopLogger{},
		Exchange:  ds620.DefaultExchangeConfig(),
		Clock:     ds620.RealClock(),
		ChunkSize: 4096,
		FlashPoll: &ds620.PollConfig{
			Interval: 2 * time.Second,
			Deadline: 5 * time.Minute,
		},
	}
}

// Option is a functional option for configuring the Updater.
type Option func(*Config)

// WithLogger sets the session logger.
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// WithProgressCallback sets a callback for progress reporting.
func WithProgressCallback(callback ProgressCallback) Option {
	return func(c *Config) { c.ProgressCallback = callback }
}

// WithChunkSize bounds each firmware data block sent to the printer.
func WithChunkSize(size int) Option {
	return func(c *Config) {
		if size > 0 {
			c.ChunkSize = size
		}
	}
}

// WithExchangeConfig replaces the transfer engine configuration.
func WithExchangeConfig(config *ds620.ExchangeConfig) Option {
	return func(c *Config) {
		if config != nil {
			c.Exchange = config
		}
	}
}

// WithFlashPollConfig replaces the flash-completion poll configuration.
func WithFlashPollConfig(config *ds620.PollConfig) Option {
	return func(c *Config) {
		if config != nil {
			c.FlashPoll = config
		}
	}
}

// WithClock replaces the wall clock, for tests.
func WithClock(clock ds620.Clock) Option {
	return func(c *Config) {
		if clock != nil {
			c.Clock = clock
		}
	}
}

// WithExpectedVersion enables post-update version verification. The
// version the printer reports after reset must contain version as a
// substring.
func WithExpectedVersion(version string) Option {
	return func(c *Config) { c.ExpectedVersion = version }
}

// WithUnsafeCancel permits cancelling a session inside the
// flash-programming window. Only for operators who understand that an
// interrupted flash program can permanently damage the printer.
func WithUnsafeCancel(allow bool) Option {
	return func(c *Config) { c.AllowUnsafeCancel = allow }
}
