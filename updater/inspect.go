// go-ds620
// Copyright (c) 2026 The go-ds620 Contributors.
// SPDX-License-Identifier: MIT

package updater

import (
	"context"

	ds620 "github.com/ds620-linux/go-ds620"
)

// CWDSlot is the reported state of one color-table slot.
type CWDSlot struct {
	// Slot is the 1-based slot number.
	Slot int
	// Version is the slot's version string, empty when the slot is
	// unprogrammed or the query was refused.
	Version string
	// Checksum is the slot's checksum string.
	Checksum string
}

// Info is a snapshot of everything the printer will report about
// itself without changing its state.
type Info struct {
	Status          ds620.Status
	FirmwareVersion string
	SerialNumber    string
	UnitStatus      string
	Media           string
	MediaClass      string
	MediaRemaining  string
	PrintQuantity   string
	FreeBuffer      string
	Sensor          string
	TableVersion    string
	LifeCounter     string
	USBSerialMode   string
	CWDSlots        []CWDSlot
}

// Inspect queries the printer for its identity, media state,
// maintenance counters, and per-slot color-table versions. Queries a
// printer refuses (older firmwares do not implement them all) are left
// empty rather than failing the sweep; only a dead transport is an
// error.
func Inspect(ctx context.Context, transport ds620.Transport, opts ...Option) (*Info, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(config)
	}
	exchanger := ds620.NewExchanger(transport, config.Exchange)

	status, err := exchanger.Exchange(ctx, ds620.NewFrame(ds620.CmdStatus), nil)
	if err != nil {
		return nil, err
	}
	info := &Info{Status: status}

	query := func(command string, dst *string) {
		s, err := exchanger.Exchange(ctx, ds620.NewFrame(command), nil)
		if err != nil {
			config.Logger.Debug("query failed",
				"command", command, "error", err.Error())
			return
		}
		if s.Rejected() {
			config.Logger.Debug("query refused",
				"command", command, "status", s.String())
			return
		}
		*dst = s.Raw
	}

	query(ds620.CmdFWVersion, &info.FirmwareVersion)
	query(ds620.CmdSerialNumber, &info.SerialNumber)
	query(ds620.CmdUnitStatus, &info.UnitStatus)
	query(ds620.CmdMedia, &info.Media)
	query(ds620.CmdMediaClass, &info.MediaClass)
	query(ds620.CmdMediaQty, &info.MediaRemaining)
	query(ds620.CmdPrintQty, &info.PrintQuantity)
	query(ds620.CmdFreeBuffer, &info.FreeBuffer)
	query(ds620.CmdSensor, &info.Sensor)
	query(ds620.CmdTableVersion, &info.TableVersion)
	query(ds620.CmdLifeCounter, &info.LifeCounter)
	query(ds620.CmdUSBSerialMode, &info.USBSerialMode)

	for slot := 1; slot <= ds620.CWDSlotCount; slot++ {
		entry := CWDSlot{Slot: slot}
		query(ds620.CmdCWDVersion(slot), &entry.Version)
		query(ds620.CmdCWDChecksum(slot), &entry.Checksum)
		info.CWDSlots = append(info.CWDSlots, entry)
	}

	return info, nil
}
