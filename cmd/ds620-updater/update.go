// go-ds620
// Copyright (c) 2026 The go-ds620 Contributors.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ds620-linux/go-ds620/cwd"
	"github.com/ds620-linux/go-ds620/srec"
	"github.com/ds620-linux/go-ds620/updater"
)

type updateFlags struct {
	firmware      string
	cwdFiles      []string
	cwdDir        string
	expectVersion string
	chunkSize     int
	unsafeCancel  bool
}

func (f *updateFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.firmware, "firmware", "",
		"firmware image in Motorola S-record format")
	cmd.Flags().StringArrayVar(&f.cwdFiles, "cwd", nil,
		"color table (.cwd) file; repeatable")
	cmd.Flags().StringVar(&f.cwdDir, "cwd-dir", "",
		"directory of .cwd files to install")
	cmd.Flags().StringVar(&f.expectVersion, "expect-version", "",
		"verify the printer reports this firmware version after reset")
	cmd.Flags().IntVar(&f.chunkSize, "chunk-size", 0,
		"firmware transfer block size in bytes (0 = default)")
	cmd.Flags().BoolVar(&f.unsafeCancel, "unsafe-cancel", false,
		"allow Ctrl-C to interrupt flash programming (can brick the printer)")
}

// loadPayload validates every input file before anything touches the
// printer.
func (f *updateFlags) loadPayload() (*srec.Image, []*cwd.File, error) {
	var img *srec.Image
	if f.firmware != "" {
		var err error
		if img, err = srec.ParseFile(f.firmware); err != nil {
			return nil, nil, err
		}
		log.Infow("firmware image loaded",
			"file", f.firmware, "bytes", img.Size(), "header", img.Header())
	}

	paths := append([]string(nil), f.cwdFiles...)
	if f.cwdDir != "" {
		found, err := filepath.Glob(filepath.Join(f.cwdDir, "*.cwd"))
		if err != nil {
			return nil, nil, fmt.Errorf("scanning %s: %w", f.cwdDir, err)
		}
		sort.Strings(found)
		paths = append(paths, found...)
	}

	var tables []*cwd.File
	for _, path := range paths {
		table, err := cwd.ValidateFile(path)
		if err != nil {
			return nil, nil, err
		}
		if slot, ok := cwd.SlotForName(table.Name); ok {
			log.Infow("color table loaded", "file", table.Name, "slot", slot)
		} else {
			log.Warnw("color table name does not follow the factory convention",
				"file", table.Name)
		}
		tables = append(tables, table)
	}

	if img == nil && len(tables) == 0 {
		return nil, nil, fmt.Errorf("nothing to install: pass --firmware and/or --cwd")
	}
	return img, tables, nil
}

func (f *updateFlags) options() []updater.Option {
	opts := []updater.Option{
		updater.WithLogger(sessionLogger{s: log}),
		updater.WithProgressCallback(reportProgress),
	}
	if f.chunkSize > 0 {
		opts = append(opts, updater.WithChunkSize(f.chunkSize))
	}
	if f.expectVersion != "" {
		opts = append(opts, updater.WithExpectedVersion(f.expectVersion))
	}
	if f.unsafeCancel {
		opts = append(opts, updater.WithUnsafeCancel(true))
	}
	return opts
}

var lastPercent = -1

func reportProgress(p updater.Progress) {
	percent := int(p.Percentage)
	if percent == lastPercent {
		return
	}
	lastPercent = percent
	fmt.Fprintf(os.Stderr, "\r%-18s %3d%% (%d/%d bytes)",
		p.Stage, percent, p.BytesSent, p.TotalBytes)
	if percent >= 100 {
		fmt.Fprintln(os.Stderr)
	}
}

func newUpdateCommand() *cobra.Command {
	flags := &updateFlags{}
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Install firmware and/or color tables on the printer",
		Long: strings.TrimSpace(`
Install firmware and/or color tables on the printer.

The session verifies the printer is idle, streams the payload, programs
the flash, and reboots the printer. Do not power off the printer while
this command runs.`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			img, tables, err := flags.loadPayload()
			if err != nil {
				return err
			}
			transport, err := openTransport()
			if err != nil {
				return err
			}
			defer func() { _ = transport.Close() }()

			u := updater.New(transport, img, tables, flags.options()...)
			report, err := u.Run(cmd.Context())
			if err != nil {
				return err
			}
			log.Infow("update finished",
				"version", report.FirmwareVersion,
				"bytes", report.BytesSent,
				"elapsed", report.Elapsed.String())
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newDryRunCommand() *cobra.Command {
	flags := &updateFlags{}
	cmd := &cobra.Command{
		Use:   "dry-run",
		Short: "Rehearse an update without touching the printer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			img, tables, err := flags.loadPayload()
			if err != nil {
				return err
			}
			// No transport is opened: the rehearsal runs against a
			// simulated printer.
			u := updater.New(nil, img, tables, flags.options()...)
			report, err := u.DryRun(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("dry run complete: %d commands, %d payload bytes\n",
				len(report.Commands), report.BytesSent)
			for _, command := range report.Commands {
				fmt.Println("  " + command)
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
