// go-ds620
// Copyright (c) 2026 The go-ds620 Contributors.
// SPDX-License-Identifier: MIT

// Package updater drives a complete DS620A firmware and color-table
// update session as an explicit state machine.
//
// A session moves through fixed stages: verify the printer is ready,
// switch it into update mode, stream the firmware image, trigger the
// flash program, wait for the flash to finish, stream each color table
// (CWD) file, finalize the tables, and reset the printer. Any failure
// aborts the session with an *AbortError naming the stage that failed
// and whether the printer was left inside the unsafe flash-programming
// window.
package updater

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ds620 "github.com/ds620-linux/go-ds620"
	"github.com/ds620-linux/go-ds620/cwd"
	"github.com/ds620-linux/go-ds620/srec"
)

// Updater orchestrates one update session against a single printer.
// It is not safe for concurrent use.
type Updater struct {
	transport ds620.Transport
	config    *Config
	image     *srec.Image
	cwds      []*cwd.File
}

// Report summarizes a finished or aborted session.
type Report struct {
	// StageReached is the last stage the session completed. StageDone
	// means the full session succeeded.
	StageReached Stage
	// LastStatus is the last device status observed.
	LastStatus ds620.Status
	// FirmwareVersion is the version the printer reported after reset,
	// when it could be read.
	FirmwareVersion string
	// BytesSent counts firmware and CWD payload bytes transferred.
	BytesSent int
	// TotalBytes is the payload size of the whole session.
	TotalBytes int
	// Elapsed is the session duration.
	Elapsed time.Duration
	// DryRun marks a rehearsal against the simulated printer.
	DryRun bool
	// Commands lists every command sent, dry runs only.
	Commands []string
}

// New builds an updater for one session. image is the firmware to
// install; it may be nil for a CWD-only session as long as cwds is
// non-empty. cwds may be empty for a firmware-only session.
func New(transport ds620.Transport, image *srec.Image, cwds []*cwd.File, opts ...Option) *Updater {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(config)
	}
	return &Updater{
		transport: transport,
		config:    config,
		image:     image,
		cwds:      cwds,
	}
}

// Run executes the full update session. On failure the returned error is
// an *AbortError and the report records how far the session got.
func (u *Updater) Run(ctx context.Context) (*Report, error) {
	return u.run(ctx, u.transport)
}

// DryRun rehearses the full session against a simulated printer that
// acknowledges every command. Nothing is written to the real transport.
// The report lists every command the session would send.
func (u *Updater) DryRun(ctx context.Context) (*Report, error) {
	// The simulated printer reports the expected version, so a
	// rehearsal with version verification enabled still completes.
	sim := newSimTransport(u.config.ExpectedVersion)
	report, err := u.run(ctx, sim)
	if report != nil {
		report.DryRun = true
		report.Commands = sim.Commands()
	}
	return report, err
}

func (u *Updater) run(ctx context.Context, transport ds620.Transport) (*Report, error) {
	if u.image == nil && len(u.cwds) == 0 {
		return nil, ErrNoFirmware
	}

	// The session clock is authoritative for all timing, including the
	// retry and poll loops inside the exchange configs.
	exchangeCfg := *u.config.Exchange
	exchangeCfg.Clock = u.config.Clock
	pollCfg := *u.config.FlashPoll
	pollCfg.Clock = u.config.Clock

	s := &session{
		config:    u.config,
		log:       u.config.Logger,
		exchanger: ds620.NewExchanger(transport, &exchangeCfg),
		flashPoll: &pollCfg,
		image:     u.image,
		cwds:      u.cwds,
		ctx:       ctx,
		start:     u.config.Clock.Now(),
	}
	if u.image != nil {
		s.totalBytes += u.image.Size()
	}
	for _, f := range u.cwds {
		s.totalBytes += f.Size()
	}

	err := s.run()
	report := &Report{
		StageReached:    s.stage,
		LastStatus:      s.lastStatus,
		FirmwareVersion: s.version,
		BytesSent:       s.bytesSent,
		TotalBytes:      s.totalBytes,
		Elapsed:         u.config.Clock.Now().Sub(s.start),
	}
	return report, err
}

// session is the mutable state of one running update.
type session struct {
	config    *Config
	log       Logger
	exchanger *ds620.Exchanger
	flashPoll *ds620.PollConfig
	image     *srec.Image
	cwds      []*cwd.File

	ctx   context.Context
	start time.Time

	stage      Stage
	unsafe     bool
	bytesSent  int
	totalBytes int
	lastStatus ds620.Status
	version    string
}

func (s *session) run() error {
	steps := []struct {
		stage Stage
		fn    func() error
	}{
		{StageVerifyReady, s.verifyReady},
		{StageEnterUpdateMode, s.enterUpdateMode},
		{StageTransferFirmware, s.transferFirmware},
		{StageProgramFlash, s.programFlash},
		{StageAwaitFlashComplete, s.awaitFlashComplete},
		{StageTransferEachCWD, s.transferEachCWD},
		{StageFinalize, s.finalize},
		{StageResetDevice, s.resetDevice},
	}

	for _, step := range steps {
		s.stage = step.stage
		s.log.Info("stage", "stage", step.stage.String())
		if err := step.fn(); err != nil {
			return s.abort(err)
		}
	}
	s.stage = StageDone
	s.log.Info("update complete",
		"bytes", s.bytesSent, "version", s.version,
		"elapsed", s.config.Clock.Now().Sub(s.start).String())
	return nil
}

// abort wraps err as the session's terminal failure. The reported stage
// is the stage whose device operation went wrong: a failure while waiting
// for the flash to finish is attributed to the flash program itself,
// since that is the operation still in flight.
func (s *session) abort(err error) *AbortError {
	stage := s.stage
	if stage == StageAwaitFlashComplete {
		stage = StageProgramFlash
	}
	ae := &AbortError{
		Err:        err,
		LastStatus: s.lastStatus,
		Stage:      stage,
		Unsafe:     s.unsafe,
	}
	s.log.Error("update aborted",
		"stage", stage.String(), "unsafe", s.unsafe, "error", err.Error())
	return ae
}

// send performs one exchange and records the status. An explicit
// NAK/ERROR/FAIL from the printer is returned as *DeviceRejectedError;
// any other response is accepted.
func (s *session) send(ctx context.Context, command string, data []byte) (ds620.Status, error) {
	status, err := s.exchanger.Exchange(ctx, ds620.NewFrame(command), data)
	if err != nil {
		return status, err
	}
	s.lastStatus = status
	if status.Rejected() {
		return status, &ds620.DeviceRejectedError{Command: command, Status: status}
	}
	s.log.Debug("exchange", "command", command, "status", status.String())
	return status, nil
}

func (s *session) verifyReady() error {
	status, err := s.send(s.ctx, ds620.CmdStatus, nil)
	if err != nil {
		return err
	}
	switch status.Code {
	case ds620.StatusBusy, ds620.StatusPrinting, ds620.StatusInProgress:
		return fmt.Errorf("%w: printer reported %s", ds620.ErrDeviceNotReady, status)
	}
	return nil
}

func (s *session) enterUpdateMode() error {
	if s.image == nil {
		// CWD-only session: the flash rewrite path is skipped entirely.
		return nil
	}
	_, err := s.send(s.ctx, ds620.CmdFlashRewrite, nil)
	return err
}

func (s *session) transferFirmware() error {
	if s.image == nil {
		return nil
	}
	chunks, err := s.image.Chunks(s.config.ChunkSize)
	if err != nil {
		return err
	}
	s.log.Info("transferring firmware",
		"bytes", s.image.Size(), "chunks", len(chunks))
	for _, chunk := range chunks {
		if _, err := s.send(s.ctx, ds620.CmdWriteFirmware, chunk); err != nil {
			return err
		}
		s.bytesSent += len(chunk)
		s.progress()
	}
	return nil
}

func (s *session) programFlash() error {
	if s.image == nil {
		return nil
	}
	if _, err := s.send(s.ctx, ds620.CmdFlashProgram, nil); err != nil {
		return err
	}
	// The printer is now erasing and rewriting its flash. Power loss or
	// an interrupted session in this window can brick the device.
	s.unsafe = true
	return nil
}

func (s *session) awaitFlashComplete() error {
	if s.image == nil {
		return nil
	}

	pollCtx := s.ctx
	if !s.config.AllowUnsafeCancel {
		// Cancellation must not interrupt the flash program; it is
		// honored once the printer reports a terminal state.
		pollCtx = context.WithoutCancel(s.ctx)
	}

	poller := ds620.NewPoller(s.exchanger, s.flashPoll)
	frame := ds620.NewFrame(ds620.CmdUpdateStatus)
	status, err := poller.PollUntil(pollCtx, frame, ds620.Status.Terminal)
	if status.Raw != "" {
		s.lastStatus = status
	}
	if err != nil {
		return err
	}
	if status.Code != ds620.StatusComplete {
		return &ds620.DeviceRejectedError{Command: ds620.CmdUpdateStatus, Status: status}
	}

	// The flash program finished; the device is back in a safe state.
	s.unsafe = false
	s.progress()

	if !s.config.AllowUnsafeCancel {
		if cause := s.ctx.Err(); cause != nil {
			return fmt.Errorf("%w; flash completed first, stopping now: %v",
				ErrUnsafeCancel, cause)
		}
	}
	return nil
}

func (s *session) transferEachCWD() error {
	for _, f := range s.cwds {
		s.log.Info("transferring color table",
			"name", f.Name, "bytes", f.Size())
		if _, err := s.send(s.ctx, ds620.CmdWriteCWD, f.Bytes()); err != nil {
			// One rejected table aborts the whole session rather than
			// leaving the printer with a partial table set.
			return fmt.Errorf("color table %q: %w", f.Name, err)
		}
		s.bytesSent += f.Size()
		s.progress()
	}
	return nil
}

func (s *session) finalize() error {
	if len(s.cwds) > 0 {
		if _, err := s.send(s.ctx, ds620.CmdCWDReset, nil); err != nil {
			return err
		}
	}
	_, err := s.send(s.ctx, ds620.CmdTableCleanup, nil)
	return err
}

func (s *session) resetDevice() error {
	// The reset usually drops the link before a response arrives, so a
	// failed read here is expected, not fatal.
	if _, err := s.send(s.ctx, ds620.CmdPrinterReset, nil); err != nil {
		var rejected *ds620.DeviceRejectedError
		if errors.As(err, &rejected) {
			return err
		}
		s.log.Debug("no response to reset (expected)", "error", err.Error())
	}

	status, err := s.send(s.ctx, ds620.CmdFWVersion, nil)
	if err != nil {
		if s.config.ExpectedVersion != "" {
			return fmt.Errorf("reading firmware version after reset: %w", err)
		}
		s.log.Warn("could not read firmware version after reset",
			"error", err.Error())
		return nil
	}
	s.version = status.Raw

	if want := s.config.ExpectedVersion; want != "" && !strings.Contains(status.Raw, want) {
		return fmt.Errorf("%w: want %q, printer reports %q",
			ErrVersionMismatch, want, status.Raw)
	}
	return nil
}

func (s *session) progress() {
	if s.config.ProgressCallback == nil {
		return
	}
	p := Progress{
		Stage:      s.stage,
		BytesSent:  s.bytesSent,
		TotalBytes: s.totalBytes,
		Elapsed:    s.config.Clock.Now().Sub(s.start),
	}
	if s.totalBytes > 0 {
		p.Percentage = float64(s.bytesSent) / float64(s.totalBytes) * 100
	}
	s.config.ProgressCallback(p)
}
