//go:build linux

// Package serialport configures the base's UART for the 115200 8N1 raw
// framing that uplink.Writer and a serial frame reader speak (spec §4.E,
// §6: "UART ... 115200 8N1, no flow control"). Port acquisition is a thin
// os.OpenFile plus a termios ioctl; no line discipline, echo, or signal
// generation is left enabled.
package serialport

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// HostUplinkBaud is the fixed rate of the base->host serial uplink (spec
// §4.E, §6: "UART at 115200 baud, 8N1").
const HostUplinkBaud = 115200

// GPSBaud is the shears' GPS byte-stream rate (spec §4.B: "9600 or 115200
// baud, 8N1").
const GPSBaud = 9600

// termiosBaud maps the two rates this system speaks to their unix.B*
// constants; termios has no generic integer-baud field.
var termiosBaud = map[int]uint32{
	9600:   unix.B9600,
	115200: unix.B115200,
}

// Port wraps an opened, raw-configured serial device file.
type Port struct {
	*os.File
}

// Open opens path and puts the underlying tty into raw 8N1 mode at baud: no
// flow control, no line discipline (spec §6: "fixed at 115200 8N1, no flow
// control"; §4.B allows 9600 for the GPS source).
func Open(path string, baud int) (*Port, error) {
	rate, ok := termiosBaud[baud]
	if !ok {
		return nil, fmt.Errorf("serialport: unsupported baud rate %d", baud)
	}
	f, err := os.OpenFile(path, os.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		return nil, fmt.Errorf("serialport: open %s: %w", path, err)
	}
	if err := configureRaw(f, rate); err != nil {
		f.Close()
		return nil, err
	}
	return &Port{File: f}, nil
}

// configureRaw applies termios settings for 8N1, raw mode, no flow control,
// and the given baud rate via the TCGETS/TCSETS ioctls.
func configureRaw(f *os.File, baud uint32) error {
	fd := int(f.Fd())

	t, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return fmt.Errorf("serialport: get termios: %w", err)
	}

	// cfmakeraw equivalent: disable line discipline, echo, signal
	// generation, and all input/output processing.
	t.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	t.Oflag &^= unix.OPOST
	t.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	t.Cflag &^= unix.CSIZE | unix.PARENB | unix.CSTOPB | unix.CRTSCTS
	t.Cflag |= unix.CS8 | unix.CREAD | unix.CLOCAL

	t.Cc[unix.VMIN] = 1
	t.Cc[unix.VTIME] = 0

	// TCSETS takes the line rate from the CBAUD bits of Cflag; the speed
	// fields alone do not change it.
	t.Cflag &^= unix.CBAUD
	t.Cflag |= baud
	t.Ispeed = baud
	t.Ospeed = baud

	if err := unix.IoctlSetTermios(fd, unix.TCSETS, t); err != nil {
		return fmt.Errorf("serialport: set termios: %w", err)
	}
	return nil
}
