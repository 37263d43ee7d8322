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

func testPoller(mock *MockTransport, clock Clock, deadline time.Duration) *Poller {
	x := NewExchanger(mock, testExchangeConfig(clock))
	return NewPoller(x, &PollConfig{
		Clock:    clock,
		Interval: time.Second,
		Deadline: deadline,
	})
}

func TestPollUntilTerminal(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport()
	mock.QueueResponse([]byte("UPDATING 10"))
	mock.QueueResponse([]byte("UPDATING 80"))
	mock.QueueResponse([]byte("UPDATE_COMPLETE"))

	p := testPoller(mock, newFakeClock(), time.Minute)
	status, err := p.PollUntil(context.Background(),
		NewFrame(CmdUpdateStatus), Status.Terminal)

	require.NoError(t, err)
	assert.Equal(t, StatusComplete, status.Code)
	assert.Equal(t, 3, mock.WriteCount())
}

func TestPollUntilStopsOnFailStatus(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport()
	mock.QueueResponse([]byte("UPDATING 10"))
	mock.QueueResponse([]byte("UPDATE_ERROR"))

	p := testPoller(mock, newFakeClock(), time.Minute)
	status, err := p.PollUntil(context.Background(),
		NewFrame(CmdUpdateStatus), Status.Terminal)

	require.NoError(t, err)
	assert.Equal(t, StatusError, status.Code)
}

func TestPollUntilDeadline(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport()
	mock.ResponseFunc = func([]byte) ([]byte, error) {
		return []byte("UPDATING 50"), nil
	}

	p := testPoller(mock, newFakeClock(), 5*time.Second)
	_, err := p.PollUntil(context.Background(),
		NewFrame(CmdUpdateStatus), Status.Terminal)

	var pe *PollTimeoutError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, StatusInProgress, pe.LastStatus.Code)
	assert.Equal(t, CmdUpdateStatus, pe.Command)
}

// A query that fails at the transport level is a transient blip, not the
// end of the poll.
func TestPollUntilSurvivesQueryFailure(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport()
	// First poll cycle exhausts its exchange retries, second succeeds.
	mock.QueueError(NewTimeoutError("read"))
	mock.QueueError(NewTimeoutError("read"))
	mock.QueueError(NewTimeoutError("read"))
	mock.QueueResponse([]byte("UPDATE_COMPLETE"))

	p := testPoller(mock, newFakeClock(), time.Minute)
	status, err := p.PollUntil(context.Background(),
		NewFrame(CmdUpdateStatus), Status.Terminal)

	require.NoError(t, err)
	assert.Equal(t, StatusComplete, status.Code)
}

func TestPollUntilCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := testPoller(NewMockTransport(), newFakeClock(), time.Minute)
	_, err := p.PollUntil(ctx, NewFrame(CmdUpdateStatus), Status.Terminal)
	require.ErrorIs(t, err, context.Canceled)
}
