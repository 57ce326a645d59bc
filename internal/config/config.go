// Package config holds the flag-parsing helpers shared by cmd/shears and
// cmd/hub: both binaries take a log level, a serial device path, and a
// metrics listen address, so the boilerplate lives here once.
package config

import (
	"flag"
	"fmt"
)

// Common holds the flags every binary in this module accepts.
type Common struct {
	LogLevel      string
	SerialDevice  string
	MetricsListen string
}

// RegisterCommon installs the shared flags onto fs and returns the struct
// they populate after fs.Parse.
func RegisterCommon(fs *flag.FlagSet, defaultSerialDevice string) *Common {
	c := &Common{}
	fs.StringVar(&c.LogLevel, "log-level", "info", "Log level: debug|info|warn|error")
	fs.StringVar(&c.SerialDevice, "serial-device", defaultSerialDevice, "Path to the UART device")
	fs.StringVar(&c.MetricsListen, "metrics-listen", "", "Prometheus metrics listen address (empty disables the endpoint)")
	return c
}

// Validate checks the shared fields after parsing.
func (c *Common) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log-level %q", c.LogLevel)
	}
	if c.SerialDevice == "" {
		return fmt.Errorf("serial-device must not be empty")
	}
	return nil
}
