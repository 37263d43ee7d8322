// go-ds620
// Copyright (c) 2026 The go-ds620 Contributors.
// SPDX-License-Identifier: MIT

package ds620

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ExchangeConfig configures the transfer engine.
type ExchangeConfig struct {
	// Clock drives retry spacing. Defaults to the wall clock.
	Clock Clock
	// MaxAttempts is the total number of times a single exchange is
	// tried before it fails.
	MaxAttempts int
	// RetryDelay is the pause between attempts.
	RetryDelay time.Duration
	// WriteTimeout bounds each transport write.
	WriteTimeout time.Duration
	// ReadTimeout bounds the response read.
	ReadTimeout time.Duration
	// MaxResponseLen is the read buffer size for responses.
	MaxResponseLen int
}

// DefaultExchangeConfig returns the protocol defaults: three attempts with
// a short pause, generous timeouts for a printer that can be busy feeding
// media.
func DefaultExchangeConfig() *ExchangeConfig {
	return &ExchangeConfig{
		Clock:          RealClock(),
		MaxAttempts:    3,
		RetryDelay:     100 * time.Millisecond,
		WriteTimeout:   5 * time.Second,
		ReadTimeout:    5 * time.Second,
		MaxResponseLen: 1024,
	}
}

// Exchanger performs single command/response exchanges over a Transport.
//
// Exchanger is not safe for concurrent use: the printer has no notion of
// request multiplexing, so exchanges must be strictly sequential.
type Exchanger struct {
	transport Transport
	config    *ExchangeConfig
}

// NewExchanger wraps a transport with the exchange retry policy.
func NewExchanger(transport Transport, config *ExchangeConfig) *Exchanger {
	if config == nil {
		config = DefaultExchangeConfig()
	}
	if config.Clock == nil {
		config.Clock = RealClock()
	}
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	return &Exchanger{transport: transport, config: config}
}

// Transport returns the underlying transport.
func (x *Exchanger) Transport() Transport { return x.transport }

// Exchange sends frame, then data as a length-prefixed block when non-nil,
// and reads one classified response.
//
// Transport failures and read timeouts retry the entire exchange (frame
// plus data, since a partial resend is not assumed safe) up to
// MaxAttempts, with identical bytes on every attempt. Exhausted retries
// surface as *TransferError. A response the printer classifies as
// NAK/ERROR/FAIL is returned to the caller without retry; whether that
// rejection is fatal is the caller's decision.
//
// Retried sends that reached the device before the response was lost are
// not idempotent: the printer may have acted on them.
func (x *Exchanger) Exchange(ctx context.Context, frame Frame, data []byte) (Status, error) {
	encoded, err := frame.Encode()
	if err != nil {
		return Status{}, err
	}
	var block []byte
	if data != nil {
		if block, err = EncodeDataBlock(data); err != nil {
			return Status{}, err
		}
	}

	var lastErr error
	for attempt := 1; attempt <= x.config.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return Status{}, fmt.Errorf("exchange cancelled: %w", err)
		}
		if attempt > 1 && x.config.RetryDelay > 0 {
			x.config.Clock.Sleep(x.config.RetryDelay)
		}

		status, err := x.attempt(encoded, block)
		if err == nil {
			return status, nil
		}
		if !IsRetryable(err) {
			return Status{}, &TransferError{Command: frame.Text, Attempts: attempt, Err: err}
		}
		lastErr = err
	}

	return Status{}, &TransferError{
		Command:  frame.Text,
		Attempts: x.config.MaxAttempts,
		Err:      lastErr,
	}
}

// attempt performs one send/receive round trip.
func (x *Exchanger) attempt(frame, block []byte) (Status, error) {
	if err := x.transport.Write(frame, x.config.WriteTimeout); err != nil {
		return Status{}, wrapTransportErr("write frame", err)
	}
	if block != nil {
		if err := x.transport.Write(block, x.config.WriteTimeout); err != nil {
			return Status{}, wrapTransportErr("write data", err)
		}
	}

	raw, err := x.transport.Read(x.config.MaxResponseLen, x.config.ReadTimeout)
	if err != nil {
		return Status{}, wrapTransportErr("read response", err)
	}

	// Data-bearing replies arrive with the same 8-digit length header the
	// host uses for outbound blocks.
	if payload, declared, ok := SplitLengthPrefix(raw); ok {
		for len(payload) < declared {
			more, err := x.transport.Read(declared-len(payload), x.config.ReadTimeout)
			if err != nil {
				return Status{}, wrapTransportErr("read response body", err)
			}
			payload = append(payload, more...)
		}
		return ParseStatus(payload), nil
	}

	return ParseStatus(raw), nil
}

func wrapTransportErr(op string, err error) error {
	var te *TransportError
	if errors.As(err, &te) {
		return err
	}
	errType := ErrorTypeTransient
	if errors.Is(err, ErrTransportClosed) || errors.Is(err, ErrInvalidParameter) {
		errType = ErrorTypePermanent
	}
	return NewTransportError(op, err, errType)
}
