// go-ds620
// Copyright (c) 2026 The go-ds620 Contributors.
// SPDX-License-Identifier: MIT

package ds620

import (
	"context"
	"fmt"
	"time"
)

// PollConfig configures a status polling loop.
type PollConfig struct {
	// Clock drives interval spacing and the deadline. Defaults to the
	// wall clock.
	Clock Clock
	// Interval is the spacing between queries.
	Interval time.Duration
	// Deadline bounds the whole loop.
	Deadline time.Duration
}

// DefaultPollConfig returns polling defaults sized for ordinary status
// queries. Flash programming needs a much longer deadline; the orchestrator
// overrides it.
func DefaultPollConfig() *PollConfig {
	return &PollConfig{
		Clock:    RealClock(),
		Interval: 2 * time.Second,
		Deadline: 30 * time.Second,
	}
}

// Poller repeatedly issues a query frame until a terminal status or a
// deadline.
type Poller struct {
	exchanger *Exchanger
	config    *PollConfig
}

// NewPoller builds a poller on top of an exchanger.
func NewPoller(exchanger *Exchanger, config *PollConfig) *Poller {
	if config == nil {
		config = DefaultPollConfig()
	}
	if config.Clock == nil {
		config.Clock = RealClock()
	}
	return &Poller{exchanger: exchanger, config: config}
}

// PollUntil issues frame at the configured interval until isTerminal
// returns true for a response, the context is cancelled, or the deadline
// elapses. Individual exchange failures are transient: polling continues
// until the deadline. Deadline expiry returns *PollTimeoutError carrying
// the last status observed.
func (p *Poller) PollUntil(ctx context.Context, frame Frame, isTerminal func(Status) bool) (Status, error) {
	clock := p.config.Clock
	start := clock.Now()
	deadline := start.Add(p.config.Deadline)

	var last Status
	for {
		if err := ctx.Err(); err != nil {
			return last, fmt.Errorf("poll cancelled: %w", err)
		}

		status, err := p.exchanger.Exchange(ctx, frame, nil)
		if err == nil {
			last = status
			if isTerminal(status) {
				return status, nil
			}
		}
		// A failed query is a non-terminal blip; the deadline decides
		// when to give up.

		if !clock.Now().Add(p.config.Interval).Before(deadline) {
			return last, &PollTimeoutError{
				Command:    frame.Text,
				LastStatus: last,
				Elapsed:    clock.Now().Sub(start).Round(time.Millisecond).String(),
			}
		}
		clock.Sleep(p.config.Interval)
	}
}
