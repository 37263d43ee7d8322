// go-ds620
// Copyright (c) 2026 The go-ds620 Contributors.
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	ds620 "github.com/ds620-linux/go-ds620"
)

func newCountersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "counters",
		Short: "Show the printer's print counters",
		RunE: func(cmd *cobra.Command, _ []string) error {
			transport, err := openTransport()
			if err != nil {
				return err
			}
			device := ds620.NewDevice(transport, nil)
			defer func() { _ = device.Close() }()

			ctx := cmd.Context()
			life, err := device.LifeCounter(ctx)
			if err != nil {
				return fmt.Errorf("reading life counter: %w", err)
			}
			fmt.Printf("Life counter:     %d\n", life)

			remaining, err := device.MediaRemaining(ctx)
			switch {
			case err == nil:
				fmt.Printf("Prints remaining: %d\n", remaining)
			case errors.As(err, new(*ds620.DeviceRejectedError)):
				fmt.Println("Prints remaining: unavailable")
			default:
				return fmt.Errorf("reading media counter: %w", err)
			}
			return nil
		},
	}
}
