package config

import (
	"flag"
	"testing"
)

func TestRegisterCommonDefaults(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	c := RegisterCommon(fs, "/dev/ttyS0")
	if err := fs.Parse(nil); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.LogLevel != "info" {
		t.Fatalf("expected default log level info, got %q", c.LogLevel)
	}
	if c.SerialDevice != "/dev/ttyS0" {
		t.Fatalf("expected default serial device, got %q", c.SerialDevice)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("expected valid defaults: %v", err)
	}
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	c := &Common{LogLevel: "verbose", SerialDevice: "/dev/ttyS0"}
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for invalid log level")
	}
}

func TestValidateRejectsEmptyDevice(t *testing.T) {
	c := &Common{LogLevel: "info", SerialDevice: ""}
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for empty serial device")
	}
}
