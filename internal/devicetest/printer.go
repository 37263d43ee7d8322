// go-ds620
// Copyright (c) 2026 The go-ds620 Contributors.
// SPDX-License-Identifier: MIT

// Package devicetest provides a protocol-aware in-memory printer for
// tests. Unlike the byte-level mock transport, it decodes frames and
// data blocks and answers per command, so tests can script realistic
// whole-session conversations.
package devicetest

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	ds620 "github.com/ds620-linux/go-ds620"
)

// Printer is a scripted DS620A stand-in implementing ds620.Transport.
//
// By default it behaves like a healthy idle printer: it acknowledges
// every command, reports UPDATE_COMPLETE to update-status queries, and
// accepts data blocks. Respond overrides the reply script per command.
type Printer struct {
	mu sync.Mutex

	version  string
	commands []string
	payloads map[string][][]byte
	scripts  map[string][]string

	pendingData string
	queue       [][]byte
	failReads   int
	closed      bool
}

// NewPrinter returns a healthy scripted printer.
func NewPrinter() *Printer {
	return &Printer{
		version:  "DS620 Ver 01.52",
		payloads: make(map[string][][]byte),
		scripts:  make(map[string][]string),
	}
}

// SetVersion sets the firmware version string the printer reports.
func (p *Printer) SetVersion(version string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.version = version
}

// Respond scripts the replies for one command. Each exchange consumes
// one entry; once the script is exhausted the last entry repeats.
func (p *Printer) Respond(command string, responses ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scripts[command] = responses
}

// FailNextReads makes the next n reads time out, each dropping the
// response that would have been delivered, like a flaky cable losing
// replies in flight.
func (p *Printer) FailNextReads(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failReads = n
}

// Commands returns every decoded command in arrival order.
func (p *Printer) Commands() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.commands))
	copy(out, p.commands)
	return out
}

// CommandCount returns how many times command was received.
func (p *Printer) CommandCount(command string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, c := range p.commands {
		if c == command {
			n++
		}
	}
	return n
}

// Payloads returns the data-block payloads received for command, in
// order.
func (p *Printer) Payloads(command string) [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([][]byte, len(p.payloads[command]))
	copy(out, p.payloads[command])
	return out
}

// Write decodes a command frame or the data block that follows one.
func (p *Printer) Write(b []byte, _ time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ds620.ErrTransportClosed
	}

	if p.pendingData != "" {
		command := p.pendingData
		p.pendingData = ""
		payload, err := decodeDataBlock(b)
		if err != nil {
			return err
		}
		p.payloads[command] = append(p.payloads[command], payload)
		p.queue = append(p.queue, []byte(p.reply(command)))
		return nil
	}

	command, err := decodeFrame(b)
	if err != nil {
		return err
	}
	p.commands = append(p.commands, command)

	if command == ds620.CmdWriteFirmware || command == ds620.CmdWriteCWD {
		p.pendingData = command
		return nil
	}
	p.queue = append(p.queue, []byte(p.reply(command)))
	return nil
}

// reply consumes one scripted response for command, falling back to
// healthy-printer defaults. Callers hold p.mu.
func (p *Printer) reply(command string) string {
	if script, ok := p.scripts[command]; ok && len(script) > 0 {
		response := script[0]
		if len(script) > 1 {
			p.scripts[command] = script[1:]
		}
		return response
	}
	switch command {
	case ds620.CmdUpdateStatus:
		return "UPDATE_COMPLETE"
	case ds620.CmdFWVersion:
		return p.version
	default:
		return "ACK"
	}
}

// Read returns the next queued response.
func (p *Printer) Read(_ int, _ time.Duration) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ds620.ErrTransportClosed
	}
	if p.failReads > 0 {
		p.failReads--
		if len(p.queue) > 0 {
			p.queue = p.queue[1:]
		}
		return nil, ds620.NewTimeoutError("read response")
	}
	if len(p.queue) == 0 {
		return nil, ds620.NewTimeoutError("read response")
	}
	response := p.queue[0]
	p.queue = p.queue[1:]
	return response, nil
}

// Close marks the printer disconnected.
func (p *Printer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// Type identifies the transport as a mock.
func (p *Printer) Type() ds620.TransportType { return ds620.TransportMock }

func decodeFrame(b []byte) (string, error) {
	if len(b) != ds620.EncodedFrameLen {
		return "", fmt.Errorf("frame is %d bytes, want %d", len(b), ds620.EncodedFrameLen)
	}
	if b[0] != ds620.ESC {
		return "", fmt.Errorf("frame does not start with ESC: 0x%02X", b[0])
	}
	if b[ds620.FrameLen] != '\r' || b[ds620.FrameLen+1] != '\n' {
		return "", fmt.Errorf("frame is not CRLF terminated")
	}
	return strings.TrimRight(string(b[1:ds620.FrameLen]), " "), nil
}

func decodeDataBlock(b []byte) ([]byte, error) {
	if len(b) < ds620.DataLengthDigits {
		return nil, fmt.Errorf("data block shorter than length header")
	}
	declared, err := strconv.Atoi(string(b[:ds620.DataLengthDigits]))
	if err != nil {
		return nil, fmt.Errorf("data block length header: %w", err)
	}
	payload := b[ds620.DataLengthDigits:]
	if len(payload) != declared {
		return nil, fmt.Errorf("data block declares %d bytes, carries %d", declared, len(payload))
	}
	out := make([]byte, len(payload))
	copy(out, payload)
	return out, nil
}
