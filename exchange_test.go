// go-ds620
// Copyright (c) 2026 The go-ds620 Contributors.
// SPDX-License-Identifier: MIT

package ds620

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock advances synthetically so retry and poll tests run without
// real delays.
type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
}

func testExchangeConfig(clock Clock) *ExchangeConfig {
	cfg := DefaultExchangeConfig()
	cfg.Clock = clock
	cfg.RetryDelay = 10 * time.Millisecond
	return cfg
}

func TestExchangeSuccess(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport()
	mock.QueueResponse([]byte("ACK"))
	x := NewExchanger(mock, testExchangeConfig(newFakeClock()))

	status, err := x.Exchange(context.Background(), NewFrame(CmdFlashRewrite), nil)
	require.NoError(t, err)
	assert.True(t, status.OK())

	writes := mock.Writes()
	require.Len(t, writes, 1)
	assert.Len(t, writes[0], EncodedFrameLen)
	assert.Equal(t, byte(ESC), writes[0][0])
}

func TestExchangeSendsDataBlockAfterFrame(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport()
	mock.QueueResponse([]byte("ACK"))
	x := NewExchanger(mock, testExchangeConfig(newFakeClock()))

	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	_, err := x.Exchange(context.Background(), NewFrame(CmdWriteFirmware), payload)
	require.NoError(t, err)

	writes := mock.Writes()
	require.Len(t, writes, 2)
	assert.Len(t, writes[0], EncodedFrameLen)
	assert.Equal(t, append([]byte("00000004"), payload...), writes[1])
}

func TestExchangeRetriesThenSucceeds(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport()
	mock.QueueError(NewTimeoutError("read"))
	mock.QueueError(NewTimeoutError("read"))
	mock.QueueResponse([]byte("ACK"))

	clock := newFakeClock()
	x := NewExchanger(mock, testExchangeConfig(clock))

	status, err := x.Exchange(context.Background(), NewFrame(CmdStatus), nil)
	require.NoError(t, err)
	assert.True(t, status.OK())

	// Three full send attempts, identical bytes each time.
	writes := mock.Writes()
	require.Len(t, writes, 3)
	assert.Equal(t, writes[0], writes[1])
	assert.Equal(t, writes[1], writes[2])
	assert.Len(t, clock.sleeps, 2)
}

func TestExchangeRetriesResendDataBlock(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport()
	mock.QueueError(NewTimeoutError("read"))
	mock.QueueResponse([]byte("ACK"))
	x := NewExchanger(mock, testExchangeConfig(newFakeClock()))

	_, err := x.Exchange(context.Background(), NewFrame(CmdWriteCWD), []byte("cwd"))
	require.NoError(t, err)

	// Partial resend is not assumed safe: frame and data go out again
	// together, unchanged.
	writes := mock.Writes()
	require.Len(t, writes, 4)
	assert.Equal(t, writes[0], writes[2])
	assert.Equal(t, writes[1], writes[3])
}

func TestExchangeExhaustsAttempts(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport() // empty script: every read times out
	cfg := testExchangeConfig(newFakeClock())
	x := NewExchanger(mock, cfg)

	_, err := x.Exchange(context.Background(), NewFrame(CmdStatus), nil)

	var te *TransferError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, cfg.MaxAttempts, te.Attempts)
	assert.Equal(t, CmdStatus, te.Command)
	assert.Equal(t, cfg.MaxAttempts, mock.WriteCount())
}

func TestExchangeDoesNotRetryRejection(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport()
	mock.QueueResponse([]byte("FAIL"))
	x := NewExchanger(mock, testExchangeConfig(newFakeClock()))

	status, err := x.Exchange(context.Background(), NewFrame(CmdFlashRewrite), nil)

	// Rejection is a valid response, not a transfer failure; the caller
	// decides whether it is fatal.
	require.NoError(t, err)
	assert.True(t, status.Rejected())
	assert.Equal(t, 1, mock.WriteCount())
}

func TestExchangeDoesNotRetryPermanentError(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport()
	mock.QueueError(ErrTransportClosed)
	x := NewExchanger(mock, testExchangeConfig(newFakeClock()))

	_, err := x.Exchange(context.Background(), NewFrame(CmdStatus), nil)

	var te *TransferError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 1, te.Attempts)
	assert.Equal(t, 1, mock.WriteCount())
}

func TestExchangeEncodingErrorNeverTouchesTransport(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport()
	x := NewExchanger(mock, testExchangeConfig(newFakeClock()))

	_, err := x.Exchange(context.Background(),
		NewFrame("PTBL_THIS_COMMAND_IS_MUCH_TOO_LONG"), nil)

	require.ErrorIs(t, err, ErrFrameTooLong)
	assert.Zero(t, mock.WriteCount())
}

func TestExchangeLengthPrefixedResponse(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport()
	mock.QueueResponse([]byte("00000011DS620 04.52"))
	x := NewExchanger(mock, testExchangeConfig(newFakeClock()))

	status, err := x.Exchange(context.Background(), NewFrame(CmdFWVersion), nil)
	require.NoError(t, err)
	assert.Equal(t, StatusUnknown, status.Code)
	assert.Equal(t, "DS620 04.52", status.Raw)
}

func TestExchangeLengthPrefixedResponseAcrossReads(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport()
	mock.QueueResponse([]byte("00000011DS620"))
	mock.QueueResponse([]byte(" 04.52"))
	x := NewExchanger(mock, testExchangeConfig(newFakeClock()))

	status, err := x.Exchange(context.Background(), NewFrame(CmdFWVersion), nil)
	require.NoError(t, err)
	assert.Equal(t, "DS620 04.52", status.Raw)
}

func TestExchangeCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mock := NewMockTransport()
	x := NewExchanger(mock, testExchangeConfig(newFakeClock()))

	_, err := x.Exchange(ctx, NewFrame(CmdStatus), nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, mock.WriteCount())
}
