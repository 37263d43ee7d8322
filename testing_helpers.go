// go-ds620
// Copyright (c) 2026 The go-ds620 Contributors.
// SPDX-License-Identifier: MIT

package ds620

import (
	"sync"
	"time"
)

// MockTransport is an in-memory Transport for tests. It records every
// write and answers reads from a scripted queue or a response function.
type MockTransport struct {
	// ResponseFunc, when set, computes the reply to the most recent
	// write. It takes precedence over the queued responses.
	ResponseFunc func(lastWrite []byte) ([]byte, error)

	mu        sync.Mutex
	writes    [][]byte
	responses [][]byte
	errs      []error
	closed    bool
}

// NewMockTransport returns an empty mock transport.
func NewMockTransport() *MockTransport {
	return &MockTransport{}
}

// QueueResponse appends a canned response returned by a later Read.
func (m *MockTransport) QueueResponse(response []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, response)
	m.errs = append(m.errs, nil)
}

// QueueError appends an error returned by a later Read.
func (m *MockTransport) QueueError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, nil)
	m.errs = append(m.errs, err)
}

// Write records p.
func (m *MockTransport) Write(p []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrTransportClosed
	}
	buf := make([]byte, len(p))
	copy(buf, p)
	m.writes = append(m.writes, buf)
	return nil
}

// Read returns the next scripted response or error. An empty script
// behaves like a read timeout.
func (m *MockTransport) Read(_ int, _ time.Duration) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrTransportClosed
	}
	if m.ResponseFunc != nil {
		var last []byte
		if len(m.writes) > 0 {
			last = m.writes[len(m.writes)-1]
		}
		return m.ResponseFunc(last)
	}
	if len(m.responses) == 0 {
		return nil, NewTimeoutError("read")
	}
	resp, err := m.responses[0], m.errs[0]
	m.responses = m.responses[1:]
	m.errs = m.errs[1:]
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Close marks the transport closed; subsequent operations fail.
func (m *MockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Type returns TransportMock.
func (*MockTransport) Type() TransportType { return TransportMock }

// Writes returns a copy of everything written so far.
func (m *MockTransport) Writes() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.writes))
	for i, w := range m.writes {
		out[i] = append([]byte(nil), w...)
	}
	return out
}

// WriteCount returns the number of writes recorded.
func (m *MockTransport) WriteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.writes)
}
