// go-ds620
// Copyright (c) 2026 The go-ds620 Contributors.
// SPDX-License-Identifier: MIT

package ds620

import "time"

// Clock abstracts time for the retry and polling loops so tests can
// simulate elapsed time without real delays.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Now() time.Time        { return time.Now() }
func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// RealClock returns the wall clock.
func RealClock() Clock { return realClock{} }
