package nmea

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRecorderSaveCommitsAndClears(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gps_points.csv")
	a := NewAssembler(strings.NewReader(""))
	a.feed([]byte("$GPGGA,192928.00,2934.5678,N,08219.7654,W,1,08,0.9,10.0,M,-34.0,M,,*47\n"))

	r := NewRecorder(a, NewCSVLog(path))
	if err := r.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	_, valid := a.Latest()
	if valid {
		t.Fatal("expected latest-line slot cleared after commit")
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
}

func TestRecorderSaveDropsWhenInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gps_points.csv")
	a := NewAssembler(strings.NewReader(""))
	r := NewRecorder(a, NewCSVLog(path))
	if err := r.Save(); err != nil {
		t.Fatalf("save on invalid slot should not error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("expected no CSV file to be created for a dropped save")
	}
}

func TestRecorderSaveDropsMalformedSentence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gps_points.csv")
	a := NewAssembler(strings.NewReader(""))
	a.feed([]byte("$GPGGA,short\n"))
	r := NewRecorder(a, NewCSVLog(path))
	if err := r.Save(); err != nil {
		t.Fatalf("save on malformed sentence should not error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("expected no CSV file to be created for a malformed sentence")
	}
	_, valid := a.Latest()
	if !valid {
		t.Fatal("a dropped malformed sentence must not clear the latest-line slot; only a commit clears it")
	}
}
