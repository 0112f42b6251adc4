// Package comms provides the byte transports the NMEA reader pulls from:
// a serial port, a TCP client, a UDP listener and a file replayer.
//
// Every transport implements the same contract: ReadBytes returns up to max
// bytes, waiting at most timeout; an empty slice with a nil error means no
// data arrived in time; a non-nil error means the transport has failed for
// good and should be reopened or abandoned by the caller.
package comms

import "time"

// Source is an open transport.
type Source interface {
	ReadBytes(max int, timeout time.Duration) ([]byte, error)
	Close() error
	// String is a short identity for logs, e.g. "serial /dev/ttyACM0 @9600".
	String() string
}
