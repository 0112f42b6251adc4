package comms

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"go.bug.st/serial"
)

var supportedBauds = []int{4800, 9600, 19200, 38400, 57600, 115200, 230400}

// SupportedBaud reports whether b is a baud rate this package will open.
func SupportedBaud(b int) bool {
	for _, v := range supportedBauds {
		if v == b {
			return true
		}
	}
	return false
}

type SerialConfig struct {
	// Device is the serial device path. Empty auto-detects /dev/ttyACM*
	// then /dev/ttyUSB*.
	Device string
	// Baud defaults to 9600, the usual GNSS receiver default.
	Baud int
}

// SerialSource reads a GNSS receiver over a serial port in 8N1 mode.
type SerialSource struct {
	device string
	baud   int
	port   serial.Port
}

func OpenSerial(cfg SerialConfig) (*SerialSource, error) {
	baud := cfg.Baud
	if baud == 0 {
		baud = 9600
	}
	if !SupportedBaud(baud) {
		return nil, fmt.Errorf("serial: unsupported baud %d", baud)
	}

	device := strings.TrimSpace(cfg.Device)
	if device == "" {
		device = autoDetectDevice()
		if device == "" {
			return nil, fmt.Errorf("serial: auto-detect failed: no /dev/ttyACM* or /dev/ttyUSB* found")
		}
	}

	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("serial: open %s: %w", device, err)
	}

	log.Printf("serial open device=%s baud=%d", device, baud)
	return &SerialSource{device: device, baud: baud, port: port}, nil
}

func (s *SerialSource) ReadBytes(max int, timeout time.Duration) ([]byte, error) {
	if err := s.port.SetReadTimeout(timeout); err != nil {
		return nil, fmt.Errorf("serial: set timeout: %w", err)
	}
	buf := make([]byte, max)
	n, err := s.port.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("serial: read %s: %w", s.device, err)
	}
	// A zero-byte read is the port's read timeout: no data right now.
	return buf[:n], nil
}

func (s *SerialSource) Close() error {
	return s.port.Close()
}

func (s *SerialSource) String() string {
	return fmt.Sprintf("serial %s @%d", s.device, s.baud)
}

func autoDetectDevice() string {
	// Keep it intentionally tiny and predictable.
	candidates := []string{}
	for i := 0; i < 10; i++ {
		candidates = append(candidates, fmt.Sprintf("/dev/ttyACM%d", i))
	}
	for i := 0; i < 10; i++ {
		candidates = append(candidates, fmt.Sprintf("/dev/ttyUSB%d", i))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
