// go-ds620
// Copyright (c) 2026 The go-ds620 Contributors.
// SPDX-License-Identifier: MIT

package ds620

import (
	"bytes"
	"strconv"
	"strings"
)

// StatusCode classifies a printer response. The protocol is only partially
// documented, so unrecognized responses are preserved as StatusUnknown
// rather than rejected.
type StatusCode int

// Known response classifications.
const (
	StatusUnknown StatusCode = iota
	StatusACK
	StatusNAK
	StatusError
	StatusFail
	StatusBusy
	StatusPrinting
	StatusInProgress
	StatusComplete
)

// String returns the classification name.
func (c StatusCode) String() string {
	switch c {
	case StatusACK:
		return "ACK"
	case StatusNAK:
		return "NAK"
	case StatusError:
		return "ERROR"
	case StatusFail:
		return "FAIL"
	case StatusBusy:
		return "BUSY"
	case StatusPrinting:
		return "PRINTING"
	case StatusInProgress:
		return "IN_PROGRESS"
	case StatusComplete:
		return "COMPLETE"
	default:
		return "UNKNOWN"
	}
}

// Status is a decoded printer response: the classification plus the raw
// response text with surrounding whitespace stripped.
type Status struct {
	Raw  string
	Code StatusCode
}

// OK reports whether the response is an acknowledgement.
func (s Status) OK() bool { return s.Code == StatusACK }

// Rejected reports whether the printer explicitly refused the command.
// Rejections are surfaced to the caller and never retried.
func (s Status) Rejected() bool {
	return s.Code == StatusNAK || s.Code == StatusError || s.Code == StatusFail
}

// Terminal reports whether the response ends an update-status poll.
func (s Status) Terminal() bool {
	return s.Code == StatusComplete || s.Code == StatusError || s.Code == StatusFail
}

func (s Status) String() string {
	if s.Code == StatusUnknown {
		return "UNKNOWN(" + s.Raw + ")"
	}
	return s.Code.String()
}

// ParseStatus classifies raw response bytes. Classification matches on
// whole tokens of the whitespace-trimmed text, so informational replies
// such as firmware versions or counter values come back as StatusUnknown
// with the text preserved verbatim in Raw.
func ParseStatus(raw []byte) Status {
	text := strings.TrimSpace(string(raw))
	return Status{Raw: text, Code: classify(text)}
}

func classify(text string) StatusCode {
	upper := strings.ToUpper(text)
	switch {
	case upper == "ACK" || upper == "OK":
		return StatusACK
	case upper == "NAK":
		return StatusNAK
	case containsToken(upper, "COMPLETE") || containsToken(upper, "FINISH"):
		return StatusComplete
	case containsToken(upper, "ERROR"):
		return StatusError
	case containsToken(upper, "FAIL"):
		return StatusFail
	case containsToken(upper, "BUSY"):
		return StatusBusy
	case containsToken(upper, "PRINTING"):
		return StatusPrinting
	case containsToken(upper, "UPDATING") || containsToken(upper, "PROGRESS"):
		return StatusInProgress
	default:
		return StatusUnknown
	}
}

// containsToken reports whether s contains word delimited by non-alphanumeric
// bytes. "UPDATE_ERROR" matches "ERROR"; "ERRORS_CLEARED" does not.
func containsToken(s, word string) bool {
	for i := 0; i+len(word) <= len(s); i++ {
		if s[i:i+len(word)] != word {
			continue
		}
		if i > 0 && isAlnum(s[i-1]) {
			continue
		}
		if end := i + len(word); end < len(s) && isAlnum(s[end]) {
			continue
		}
		return true
	}
	return false
}

func isAlnum(b byte) bool {
	return b >= 'A' && b <= 'Z' || b >= 'a' && b <= 'z' || b >= '0' && b <= '9'
}

// SplitLengthPrefix detects a response that begins with a DataLengthDigits
// ASCII decimal length header and returns the declared payload. Responses
// without a digit prefix are returned unchanged with ok=false.
func SplitLengthPrefix(raw []byte) (payload []byte, declared int, ok bool) {
	if len(raw) < DataLengthDigits {
		return raw, 0, false
	}
	head := raw[:DataLengthDigits]
	for _, b := range head {
		if b < '0' || b > '9' {
			return raw, 0, false
		}
	}
	n, err := strconv.Atoi(string(head))
	if err != nil {
		return raw, 0, false
	}
	body := raw[DataLengthDigits:]
	if len(body) > n {
		body = body[:n]
	}
	return bytes.Clone(body), n, true
}
