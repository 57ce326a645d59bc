package nmea

import (
	"fmt"
	"os"
)

// CSVHeader is the fixed header row for the shears GPS log (spec §6: "CSV
// log format").
const CSVHeader = "utc_time,latitude,longitude,fix_quality,num_satellites,hdop,altitude,geoid_height"

// DefaultLogPath is the well-known on-device path for the CSV log.
const DefaultLogPath = "/storage/gps_points.csv"

// CSVLog appends committed Fix rows to a single file, creating it with a
// header row if it does not yet exist.
type CSVLog struct {
	path string
}

// NewCSVLog returns a CSV log handle for path. Nothing is opened or created
// until Append.
func NewCSVLog(path string) *CSVLog {
	return &CSVLog{path: path}
}

// Append opens, writes, and closes the log file for exactly one row (spec
// §4.B: "one CSV row is appended atomically (open-append-close)").
func (c *CSVLog) Append(fix Fix) error {
	needsHeader := false
	if _, err := os.Stat(c.path); os.IsNotExist(err) {
		needsHeader = true
	}
	f, err := os.OpenFile(c.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("nmea: open csv log: %w", err)
	}
	defer f.Close()

	if needsHeader {
		if _, err := fmt.Fprintln(f, CSVHeader); err != nil {
			return fmt.Errorf("nmea: write csv header: %w", err)
		}
	}
	if _, err := fmt.Fprintln(f, formatRow(fix)); err != nil {
		return fmt.Errorf("nmea: write csv row: %w", err)
	}
	return nil
}

// formatRow renders fix with the documented per-column precision (spec §6:
// lat/lon 7dp, hdop 1dp, altitude/geoid 3dp, others integer, utc_time raw).
func formatRow(fix Fix) string {
	return fmt.Sprintf("%s,%.7f,%.7f,%d,%d,%.1f,%.3f,%.3f",
		fix.UTCTime,
		fix.LatDegrees,
		fix.LonDegrees,
		fix.FixQuality,
		fix.NumSatellites,
		fix.HDOP,
		fix.Altitude,
		fix.GeoidHeight,
	)
}

// Size returns the current file size in bytes, or 0 if the file does not
// exist yet. The transfer session does not call it: it measures the opened
// file itself once at session start.
func (c *CSVLog) Size() (int64, error) {
	info, err := os.Stat(c.path)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// Path returns the underlying file path.
func (c *CSVLog) Path() string { return c.path }
