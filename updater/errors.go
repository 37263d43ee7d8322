// go-ds620
// Copyright (c) 2026 The go-ds620 Contributors.
// SPDX-License-Identifier: MIT

package updater

import (
	"errors"
	"fmt"

	ds620 "github.com/ds620-linux/go-ds620"
)

// Updater errors.
var (
	// ErrUnsafeCancel is returned when a cancellation arrives inside the
	// flash-programming window and unsafe cancellation was not enabled.
	ErrUnsafeCancel = errors.New("cancellation refused inside flash-programming window")

	// ErrVersionMismatch is returned when the post-update firmware
	// version does not contain the expected version string.
	ErrVersionMismatch = errors.New("firmware version mismatch after update")

	// ErrNoFirmware is returned when an updater is built without a
	// firmware image.
	ErrNoFirmware = errors.New("no firmware image")
)

// AbortError is the terminal failure of an update session. It reports
// which stage failed, the last device status observed, the cause, and —
// most importantly — whether the printer was inside the unsafe
// flash-programming window when the session stopped.
type AbortError struct {
	Err        error
	LastStatus ds620.Status
	Stage      Stage
	Unsafe     bool
}

func (e *AbortError) Error() string {
	state := "device is in a safe state; re-run the update from the start"
	if e.Unsafe {
		state = "DEVICE MAY BE IN THE FLASH-PROGRAMMING WINDOW — " +
			"do not power off or disconnect; retry the update before using the printer"
	}
	return fmt.Sprintf("update aborted at %s: %v (last device status: %s); %s",
		e.Stage, e.Err, e.LastStatus, state)
}

func (e *AbortError) Unwrap() error { return e.Err }
