package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mjmilez/Garden-E-Cutters/internal/config"
)

// version is injected at build time with -ldflags "-X main.version=...".
var version = "dev"

type cliConfig struct {
	common *config.Common

	transport   string
	dataDir     string
	gpsDevice   string
	csvLogPath  string
	showVersion bool
}

func parseFlags(args []string) (*cliConfig, error) {
	fs := flag.NewFlagSet("shears", flag.ContinueOnError)
	fs.SetOutput(os.Stdout)

	cfg := &cliConfig{}
	cfg.common = config.RegisterCommon(fs, "/dev/ttyUSB0")

	fs.StringVar(&cfg.transport, "transport", "loopback", "Radio transport: loopback (no real BLE stack is wired in)")
	fs.StringVar(&cfg.dataDir, "data-dir", "/storage", "Directory the log server reads requested files from")
	fs.StringVar(&cfg.gpsDevice, "gps-device", "/dev/ttyAMA0", "Path to the GPS NMEA byte-stream device")
	fs.StringVar(&cfg.csvLogPath, "csv-log", "/storage/gps_points.csv", "Path to the committed GPS CSV log")
	fs.BoolVar(&cfg.showVersion, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if err := cfg.common.Validate(); err != nil {
		return nil, err
	}
	if cfg.transport != "loopback" {
		return nil, fmt.Errorf("unsupported transport %q: only loopback is wired in this build", cfg.transport)
	}

	return cfg, nil
}
