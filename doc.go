// go-ds620
// Copyright (c) 2026 The go-ds620 Contributors.
// SPDX-License-Identifier: MIT

/*
Package ds620 implements the reverse-engineered command protocol of the DNP
DS620A photo printer, as used for firmware and configuration (CWD) updates.

The printer speaks a text-framed binary protocol over USB bulk endpoints:
every command is a fixed 24-byte frame (ESC, ASCII command text, space
padding) terminated by CRLF, and commands that carry data are followed by a
block prefixed with an 8-digit ASCII decimal length. Responses are short
ASCII strings classified here into a closed status set.

This package is the protocol core: frame codec, response classification,
the retrying transfer engine, and the status poller. Firmware images are
parsed by package srec, configuration payloads validated by package cwd,
and the full multi-stage update sequence lives in package updater.

Basic usage:

	import (
	    "github.com/ds620-linux/go-ds620"
	    "github.com/ds620-linux/go-ds620/transport/usb"
	)

	transport, err := usb.Open()
	if err != nil {
	    log.Fatal(err)
	}
	defer transport.Close()

	x := ds620.NewExchanger(transport, nil)
	status, err := x.Exchange(ctx, ds620.NewFrame(ds620.CmdFWVersion), nil)

Exchanges are strictly sequential: the printer has no request multiplexing,
and the transport must be exclusively owned for the duration of a session.

A firmware update interrupted in the flash-programming window can
permanently damage the printer. Package updater tracks that window and
reports it on every abort; operators must not power-cycle or disconnect
the device while it is open.
*/
package ds620
