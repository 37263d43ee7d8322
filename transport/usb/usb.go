// go-ds620
// Copyright (c) 2026 The go-ds620 Contributors.
// SPDX-License-Identifier: MIT

// Package usb connects to a DS620A over its native USB printer
// interface using libusb. This is the transport the printer actually
// ships with; serial is only for bench setups behind an adapter.
package usb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/gousb"

	ds620 "github.com/ds620-linux/go-ds620"
)

// ErrNoDevice is returned when no known printer is on the bus.
var ErrNoDevice = errors.New("no DS620-family printer found on USB")

// Transport is a ds620.Transport over a claimed bulk USB interface.
type Transport struct {
	ctx     *gousb.Context
	device  *gousb.Device
	intf    *gousb.Interface
	release func()
	in      *gousb.InEndpoint
	out     *gousb.OutEndpoint
}

// Open scans the bus for the first known printer and claims it. The
// caller owns the transport and must Close it.
func Open() (*Transport, error) {
	ctx := gousb.NewContext()
	transport, err := open(ctx)
	if err != nil {
		_ = ctx.Close()
		return nil, err
	}
	return transport, nil
}

func open(ctx *gousb.Context) (*Transport, error) {
	devices, err := ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return ds620.KnownUSBID(uint16(desc.Vendor), uint16(desc.Product))
	})
	// OpenDevices can return both matches and an error when one device
	// on the bus refuses to open; a match wins.
	if len(devices) == 0 {
		if err != nil {
			return nil, fmt.Errorf("scanning USB bus: %w", err)
		}
		return nil, ErrNoDevice
	}
	for _, extra := range devices[1:] {
		_ = extra.Close()
	}
	device := devices[0]

	if err := device.SetAutoDetach(true); err != nil {
		_ = device.Close()
		return nil, fmt.Errorf("detaching kernel driver: %w", err)
	}
	intf, release, err := device.DefaultInterface()
	if err != nil {
		_ = device.Close()
		return nil, fmt.Errorf("claiming printer interface: %w", err)
	}

	transport := &Transport{
		ctx:     ctx,
		device:  device,
		intf:    intf,
		release: release,
	}
	if err := transport.findEndpoints(); err != nil {
		release()
		_ = device.Close()
		return nil, err
	}
	return transport, nil
}

// findEndpoints locates the bulk in/out pair on the claimed interface.
func (t *Transport) findEndpoints() error {
	for _, ep := range t.intf.Setting.Endpoints {
		if ep.TransferType != gousb.TransferTypeBulk {
			continue
		}
		switch ep.Direction {
		case gousb.EndpointDirectionIn:
			in, err := t.intf.InEndpoint(ep.Number)
			if err != nil {
				return fmt.Errorf("opening bulk-in endpoint: %w", err)
			}
			t.in = in
		case gousb.EndpointDirectionOut:
			out, err := t.intf.OutEndpoint(ep.Number)
			if err != nil {
				return fmt.Errorf("opening bulk-out endpoint: %w", err)
			}
			t.out = out
		}
	}
	if t.in == nil || t.out == nil {
		return errors.New("printer interface has no bulk endpoint pair")
	}
	return nil
}

// SerialNumber reads the device's USB serial string.
func (t *Transport) SerialNumber() (string, error) {
	serial, err := t.device.SerialNumber()
	if err != nil {
		return "", fmt.Errorf("reading USB serial number: %w", err)
	}
	return serial, nil
}

// Write sends p over the bulk-out endpoint.
func (t *Transport) Write(p []byte, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	n, err := t.out.WriteContext(ctx, p)
	if err != nil {
		return classify("usb write", err)
	}
	if n != len(p) {
		return ds620.NewTransportError("usb write",
			fmt.Errorf("short write: %d of %d bytes", n, len(p)),
			ds620.ErrorTypeTransient)
	}
	return nil
}

// Read receives up to maxLen bytes from the bulk-in endpoint.
func (t *Transport) Read(maxLen int, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	buf := make([]byte, maxLen)
	n, err := t.in.ReadContext(ctx, buf)
	if err != nil {
		return nil, classify("usb read", err)
	}
	return buf[:n], nil
}

// Close releases the interface and the device.
func (t *Transport) Close() error {
	if t.release != nil {
		t.release()
		t.release = nil
	}
	var errs []error
	if t.device != nil {
		errs = append(errs, t.device.Close())
		t.device = nil
	}
	if t.ctx != nil {
		errs = append(errs, t.ctx.Close())
		t.ctx = nil
	}
	return errors.Join(errs...)
}

// Type identifies this as the USB transport.
func (*Transport) Type() ds620.TransportType { return ds620.TransportUSB }

func classify(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ds620.NewTimeoutError(op)
	}
	errType := ds620.ErrorTypeTransient
	if errors.Is(err, gousb.ErrorNoDevice) {
		errType = ds620.ErrorTypePermanent
	}
	return ds620.NewTransportError(op, err, errType)
}
