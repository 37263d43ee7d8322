// go-ds620
// Copyright (c) 2026 The go-ds620 Contributors.
// SPDX-License-Identifier: MIT

package updater

import (
	"strings"
	"sync"
	"time"

	ds620 "github.com/ds620-linux/go-ds620"
)

// simTransport is the simulated printer behind DryRun. It decodes the
// frames written to it, records every command, and acknowledges
// everything, so a rehearsal exercises the full session without a
// device.
type simTransport struct {
	mu        sync.Mutex
	version   string
	commands  []string
	responses [][]byte
	// pendingData is set after a command that is followed by a data
	// block; the acknowledgement is held back until the block arrives.
	pendingData string
	closed      bool
}

// newSimTransport builds the simulated printer. version is what it
// reports as its firmware version after the rehearsed update; empty
// picks a placeholder.
func newSimTransport(version string) *simTransport {
	if version == "" {
		version = "DS620 SIMULATED 00.00"
	}
	return &simTransport{version: version}
}

func (t *simTransport) Write(p []byte, _ time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ds620.ErrTransportClosed
	}

	if t.pendingData != "" {
		// This write is the data block for the previous command.
		t.responses = append(t.responses, t.respond(t.pendingData))
		t.pendingData = ""
		return nil
	}

	if len(p) != ds620.EncodedFrameLen || p[0] != ds620.ESC {
		return ds620.ErrInvalidParameter
	}
	command := strings.TrimRight(string(p[1:ds620.FrameLen]), " ")
	t.commands = append(t.commands, command)

	if command == ds620.CmdWriteFirmware || command == ds620.CmdWriteCWD {
		t.pendingData = command
		return nil
	}
	t.responses = append(t.responses, t.respond(command))
	return nil
}

// respond picks the reply a healthy printer would give.
func (t *simTransport) respond(command string) []byte {
	switch command {
	case ds620.CmdUpdateStatus:
		return []byte("UPDATE_COMPLETE")
	case ds620.CmdFWVersion:
		return []byte(t.version)
	case ds620.CmdSerialNumber:
		return []byte("DRYRUN0000000")
	default:
		return []byte("ACK")
	}
}

func (t *simTransport) Read(_ int, _ time.Duration) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, ds620.ErrTransportClosed
	}
	if len(t.responses) == 0 {
		return nil, ds620.NewTimeoutError("read response")
	}
	response := t.responses[0]
	t.responses = t.responses[1:]
	return response, nil
}

func (t *simTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	return nil
}

func (t *simTransport) Type() ds620.TransportType { return ds620.TransportMock }

// Commands returns every command decoded so far, in order.
func (t *simTransport) Commands() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.commands))
	copy(out, t.commands)
	return out
}
