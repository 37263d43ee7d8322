// go-ds620
// Copyright (c) 2026 The go-ds620 Contributors.
// SPDX-License-Identifier: MIT

// ds620-updater installs firmware and color tables on DNP DS620A
// printers and inspects their state.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	ds620 "github.com/ds620-linux/go-ds620"
	"github.com/ds620-linux/go-ds620/transport/serialport"
	"github.com/ds620-linux/go-ds620/transport/usb"
	"github.com/ds620-linux/go-ds620/updater"
)

var (
	flagSerialPort string
	flagDebug      bool

	log *zap.SugaredLogger
)

func main() {
	root := &cobra.Command{
		Use:   "ds620-updater",
		Short: "Firmware and color-table updater for DNP DS620A printers",
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return setupLogging()
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&flagSerialPort, "serial-port", "",
		"talk to the printer over this serial port instead of USB")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false,
		"enable debug logging")

	root.AddCommand(newInfoCommand(), newCountersCommand(),
		newUpdateCommand(), newDryRunCommand())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func setupLogging() error {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.DisableCaller = true
	cfg.DisableStacktrace = true
	if flagDebug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	log = logger.Sugar()
	return nil
}

// openTransport connects to the printer over USB, or over the serial
// port named by --serial-port.
func openTransport() (ds620.Transport, error) {
	if flagSerialPort != "" {
		log.Infow("opening serial port", "port", flagSerialPort)
		return serialport.Open(flagSerialPort)
	}
	log.Debug("scanning USB bus for printer")
	return usb.Open()
}

// sessionLogger adapts zap to the updater's logging hook.
type sessionLogger struct {
	s *zap.SugaredLogger
}

func (l sessionLogger) Debug(msg string, kv ...any) { l.s.Debugw(msg, kv...) }
func (l sessionLogger) Info(msg string, kv ...any)  { l.s.Infow(msg, kv...) }
func (l sessionLogger) Warn(msg string, kv ...any)  { l.s.Warnw(msg, kv...) }
func (l sessionLogger) Error(msg string, kv ...any) { l.s.Errorw(msg, kv...) }

var _ updater.Logger = sessionLogger{}
