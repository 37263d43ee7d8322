// go-ds620
// Copyright (c) 2026 The go-ds620 Contributors.
// SPDX-License-Identifier: MIT

package ds620

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// DeviceConfig contains configuration options for the Device.
type DeviceConfig struct {
	// Exchange configures command/response behavior for all queries.
	Exchange *ExchangeConfig
}

// DefaultDeviceConfig returns default device configuration.
func DefaultDeviceConfig() *DeviceConfig {
	return &DeviceConfig{Exchange: DefaultExchangeConfig()}
}

// Device is a high-level handle on one printer for queries and simple
// control. Firmware updates go through the updater package; Device
// covers everything that does not change the printer's state beyond a
// reset.
//
// Device is not thread-safe. The printer answers one command at a time,
// so calls must come from a single goroutine or be externally
// serialized.
type Device struct {
	transport Transport
	exchanger *Exchanger
}

// NewDevice wraps a transport. A nil config uses defaults.
func NewDevice(transport Transport, config *DeviceConfig) *Device {
	if config == nil {
		config = DefaultDeviceConfig()
	}
	return &Device{
		transport: transport,
		exchanger: NewExchanger(transport, config.Exchange),
	}
}

// Transport returns the underlying transport.
func (d *Device) Transport() Transport { return d.transport }

// Close closes the underlying transport.
func (d *Device) Close() error { return d.transport.Close() }

// query runs one command and returns the response text, turning an
// explicit refusal into *DeviceRejectedError.
func (d *Device) query(ctx context.Context, command string) (string, error) {
	status, err := d.exchanger.Exchange(ctx, NewFrame(command), nil)
	if err != nil {
		return "", err
	}
	if status.Rejected() {
		return "", &DeviceRejectedError{Command: command, Status: status}
	}
	return status.Raw, nil
}

// Status queries the printer's current state.
func (d *Device) Status(ctx context.Context) (Status, error) {
	return d.exchanger.Exchange(ctx, NewFrame(CmdStatus), nil)
}

// Ready reports whether the printer will accept an update session now.
func (d *Device) Ready(ctx context.Context) (bool, error) {
	status, err := d.Status(ctx)
	if err != nil {
		return false, err
	}
	switch status.Code {
	case StatusBusy, StatusPrinting, StatusInProgress:
		return false, nil
	case StatusError, StatusFail:
		return false, nil
	}
	return true, nil
}

// FirmwareVersion reads the controller firmware version string.
func (d *Device) FirmwareVersion(ctx context.Context) (string, error) {
	return d.query(ctx, CmdFWVersion)
}

// SerialNumber reads the printer's serial number.
func (d *Device) SerialNumber(ctx context.Context) (string, error) {
	return d.query(ctx, CmdSerialNumber)
}

// Media reads the loaded media description.
func (d *Device) Media(ctx context.Context) (string, error) {
	return d.query(ctx, CmdMedia)
}

// MediaRemaining reads how many prints the loaded media has left.
func (d *Device) MediaRemaining(ctx context.Context) (int, error) {
	return d.queryInt(ctx, CmdMediaQty)
}

// LifeCounter reads the lifetime print counter.
func (d *Device) LifeCounter(ctx context.Context) (int, error) {
	return d.queryInt(ctx, CmdLifeCounter)
}

func (d *Device) queryInt(ctx context.Context, command string) (int, error) {
	raw, err := d.query(ctx, command)
	if err != nil {
		return 0, err
	}
	// Counters come back as decimal text, sometimes zero-padded and
	// sometimes prefixed with the field name.
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return 0, fmt.Errorf("%w: empty counter response", ErrInvalidParameter)
	}
	text := fields[len(fields)-1]
	n, err := strconv.Atoi(strings.TrimLeft(text, "0 "))
	if err != nil {
		if strings.Trim(text, "0") == "" {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %q is not a counter value", ErrInvalidParameter, raw)
	}
	return n, nil
}

// CWDVersion reads the version string of one color-table slot (1-based).
func (d *Device) CWDVersion(ctx context.Context, slot int) (string, error) {
	if err := checkSlot(slot); err != nil {
		return "", err
	}
	return d.query(ctx, CmdCWDVersion(slot))
}

// CWDChecksum reads the checksum string of one color-table slot (1-based).
func (d *Device) CWDChecksum(ctx context.Context, slot int) (string, error) {
	if err := checkSlot(slot); err != nil {
		return "", err
	}
	return d.query(ctx, CmdCWDChecksum(slot))
}

func checkSlot(slot int) error {
	if slot < 1 || slot > CWDSlotCount {
		return fmt.Errorf("%w: CWD slot %d out of range 1..%d",
			ErrInvalidParameter, slot, CWDSlotCount)
	}
	return nil
}

// Reset reboots the printer. The link usually drops before a response
// arrives; callers should reopen the transport afterwards.
func (d *Device) Reset(ctx context.Context) error {
	_, err := d.exchanger.Exchange(ctx, NewFrame(CmdPrinterReset), nil)
	return err
}
