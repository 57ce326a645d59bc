package nmea

import "testing"

func TestParseGGA(t *testing.T) {
	line := "$GPGGA,192928.00,2934.5678,N,08219.7654,W,1,08,0.9,10.0,M,-34.0,M,,*47\n"
	fix, err := ParseGGA(line)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if fix.UTCTime != "192928.00" {
		t.Fatalf("expected utc time 192928.00, got %q", fix.UTCTime)
	}
	if abs(fix.LatDegrees-29.5761300) > 1e-6 {
		t.Fatalf("expected lat 29.5761300, got %v", fix.LatDegrees)
	}
	if abs(fix.LonDegrees-(-82.3294233)) > 1e-6 {
		t.Fatalf("expected lon -82.3294233, got %v", fix.LonDegrees)
	}
	if fix.FixQuality != 1 {
		t.Fatalf("expected fix quality 1, got %d", fix.FixQuality)
	}
	if fix.NumSatellites != 8 {
		t.Fatalf("expected 8 satellites, got %d", fix.NumSatellites)
	}
	if fix.HDOP != 0.9 {
		t.Fatalf("expected hdop 0.9, got %v", fix.HDOP)
	}
	if fix.Altitude != 10.0 {
		t.Fatalf("expected altitude 10.0, got %v", fix.Altitude)
	}
	if fix.GeoidHeight != -34.0 {
		t.Fatalf("expected geoid -34.0, got %v", fix.GeoidHeight)
	}
}

func TestParseGGAAcceptsGNLeader(t *testing.T) {
	line := "$GNGGA,192928.00,2934.5678,N,08219.7654,W,1,08,0.9,10.0,M,-34.0,M,,*47"
	if _, err := ParseGGA(line); err != nil {
		t.Fatalf("expected GN leader to be accepted: %v", err)
	}
}

func TestParseGGARejectsWrongLeader(t *testing.T) {
	line := "$GPRMC,192928.00,A,2934.5678,N,08219.7654,W,0.0,0.0,191194,000.0,W*4D"
	if _, err := ParseGGA(line); err == nil {
		t.Fatal("expected error for non-GGA sentence")
	}
}

func TestParseGGARejectsShortSentence(t *testing.T) {
	line := "$GPGGA,192928.00,2934.5678,N*47"
	if _, err := ParseGGA(line); err == nil {
		t.Fatal("expected error for sentence with fewer than 12 tokens")
	}
}

func TestParseGGARejectsBadHemisphere(t *testing.T) {
	line := "$GPGGA,192928.00,2934.5678,Q,08219.7654,W,1,08,0.9,10.0,M,-34.0,M,,*00"
	if _, err := ParseGGA(line); err == nil {
		t.Fatal("expected error for unrecognized hemisphere letter")
	}
}

func TestDecimalDegreesSouthWestNegative(t *testing.T) {
	lat, err := decimalDegrees("2934.5678", "S")
	if err != nil {
		t.Fatalf("decimalDegrees: %v", err)
	}
	if lat >= 0 {
		t.Fatalf("expected negative latitude for S hemisphere, got %v", lat)
	}
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
