package comms

import (
	"context"
	"fmt"
	"log"
	"net"
	"time"
)

type TCPConfig struct {
	// Addr is the host:port of the sentence server.
	Addr string
	// DialTimeout defaults to 2s.
	DialTimeout time.Duration
}

// TCPSource reads a byte stream from a TCP sentence server, e.g. gpsd's
// raw NMEA port or a network-attached receiver.
type TCPSource struct {
	addr string
	conn net.Conn
}

func DialTCP(ctx context.Context, cfg TCPConfig) (*TCPSource, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("tcp: no address")
	}
	dialTimeout := cfg.DialTimeout
	if dialTimeout == 0 {
		dialTimeout = 2 * time.Second
	}

	d := net.Dialer{Timeout: dialTimeout}
	conn, err := d.DialContext(ctx, "tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("tcp: dial %s: %w", cfg.Addr, err)
	}

	log.Printf("tcp connected addr=%s", cfg.Addr)
	return &TCPSource{addr: cfg.Addr, conn: conn}, nil
}

func (t *TCPSource) ReadBytes(max int, timeout time.Duration) ([]byte, error) {
	if err := t.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return nil, fmt.Errorf("tcp: set deadline: %w", err)
	}
	buf := make([]byte, max)
	n, err := t.conn.Read(buf)
	if n > 0 {
		return buf[:n], nil
	}
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return nil, nil
		}
		return nil, fmt.Errorf("tcp: read %s: %w", t.addr, err)
	}
	return nil, nil
}

func (t *TCPSource) Close() error {
	return t.conn.Close()
}

func (t *TCPSource) String() string {
	return "tcp " + t.addr
}
