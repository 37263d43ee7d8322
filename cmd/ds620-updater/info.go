// go-ds620
// Copyright (c) 2026 The go-ds620 Contributors.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ds620-linux/go-ds620/updater"
)

func newInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show printer identity, media state, and color-table slots",
		RunE: func(cmd *cobra.Command, _ []string) error {
			transport, err := openTransport()
			if err != nil {
				return err
			}
			defer func() { _ = transport.Close() }()

			info, err := updater.Inspect(cmd.Context(), transport,
				updater.WithLogger(sessionLogger{s: log}))
			if err != nil {
				return err
			}
			printInfo(cmd, info)
			return nil
		},
	}
}

func printInfo(cmd *cobra.Command, info *updater.Info) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	defer func() { _ = w.Flush() }()

	row := func(label, value string) {
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(w, "%s\t%s\n", label, value)
	}
	row("Status", info.Status.String())
	row("Firmware", info.FirmwareVersion)
	row("Serial", info.SerialNumber)
	row("Media", info.Media)
	row("Media class", info.MediaClass)
	row("Prints remaining", info.MediaRemaining)
	row("Free buffer", info.FreeBuffer)
	row("Sensor", info.Sensor)
	row("Unit status", info.UnitStatus)
	row("Life counter", info.LifeCounter)
	row("Table version", info.TableVersion)

	for _, slot := range info.CWDSlots {
		if slot.Version == "" && slot.Checksum == "" {
			continue
		}
		row(fmt.Sprintf("CWD slot %d", slot.Slot),
			fmt.Sprintf("%s (checksum %s)", slot.Version, slot.Checksum))
	}
}
