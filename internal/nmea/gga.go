package nmea

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// minGGATokens is the minimum comma-separated token count for a well-formed
// GGA sentence (spec §4.B: "Malformed sentences (fewer than 12 tokens) are
// logged and dropped without appending").
const minGGATokens = 12

// Fix holds the fields extracted from one GGA sentence, ready for CSV
// commitment (spec §4.B/§4: "CSV log record").
type Fix struct {
	UTCTime       string
	LatDegrees    float64
	LonDegrees    float64
	FixQuality    int
	NumSatellites int
	HDOP          float64
	Altitude      float64
	GeoidHeight   float64
}

// ParseGGA extracts a Fix from a raw $GPGGA or $GNGGA sentence. Both
// sentence leaders are accepted per spec §4.B. The trailing newline/CR and
// checksum suffix, if present, are tolerated and ignored.
func ParseGGA(line string) (Fix, error) {
	line = strings.TrimRight(line, "\r\n")
	if !strings.HasPrefix(line, "$GPGGA") && !strings.HasPrefix(line, "$GNGGA") {
		return Fix{}, fmt.Errorf("nmea: not a GGA sentence: %q", line)
	}
	if star := strings.IndexByte(line, '*'); star >= 0 {
		line = line[:star]
	}
	tokens := strings.Split(line, ",")
	if len(tokens) < minGGATokens {
		return Fix{}, fmt.Errorf("nmea: malformed GGA sentence: %d tokens, want >= %d", len(tokens), minGGATokens)
	}

	lat, err := decimalDegrees(tokens[2], tokens[3])
	if err != nil {
		return Fix{}, fmt.Errorf("nmea: latitude: %w", err)
	}
	lon, err := decimalDegrees(tokens[4], tokens[5])
	if err != nil {
		return Fix{}, fmt.Errorf("nmea: longitude: %w", err)
	}
	quality, err := strconv.Atoi(strings.TrimSpace(tokens[6]))
	if err != nil {
		return Fix{}, fmt.Errorf("nmea: fix quality: %w", err)
	}
	numSats, err := strconv.Atoi(strings.TrimSpace(tokens[7]))
	if err != nil {
		return Fix{}, fmt.Errorf("nmea: satellite count: %w", err)
	}
	hdop, err := strconv.ParseFloat(strings.TrimSpace(tokens[8]), 64)
	if err != nil {
		return Fix{}, fmt.Errorf("nmea: hdop: %w", err)
	}
	altitude, err := strconv.ParseFloat(strings.TrimSpace(tokens[9]), 64)
	if err != nil {
		return Fix{}, fmt.Errorf("nmea: altitude: %w", err)
	}
	geoid, err := strconv.ParseFloat(strings.TrimSpace(tokens[11]), 64)
	if err != nil {
		return Fix{}, fmt.Errorf("nmea: geoid height: %w", err)
	}

	return Fix{
		UTCTime:       tokens[1],
		LatDegrees:    lat,
		LonDegrees:    lon,
		FixQuality:    quality,
		NumSatellites: numSats,
		HDOP:          hdop,
		Altitude:      altitude,
		GeoidHeight:   geoid,
	}, nil
}

// decimalDegrees converts a ddmm.mmmm (or dddmm.mmmm) magnitude plus
// hemisphere letter into signed decimal degrees (spec §4.B: "degrees =
// floor(value / 100); minutes = value - 100*degrees; decimal = degrees +
// minutes/60; negate for 'S' or 'W'").
func decimalDegrees(magnitude, hemisphere string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(magnitude), 64)
	if err != nil {
		return 0, err
	}
	degrees := math.Floor(value / 100)
	minutes := value - 100*degrees
	decimal := degrees + minutes/60
	switch strings.TrimSpace(hemisphere) {
	case "S", "W":
		decimal = -decimal
	case "N", "E":
	default:
		return 0, fmt.Errorf("unrecognized hemisphere %q", hemisphere)
	}
	return decimal, nil
}
