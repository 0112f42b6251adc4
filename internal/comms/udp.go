package comms

import (
	"fmt"
	"log"
	"net"
	"time"
)

type UDPConfig struct {
	// Addr is the local listen address, e.g. ":10110".
	Addr string
}

// UDPSource receives datagrams on a local port. Each ReadBytes returns at
// most one datagram, so record boundaries survive intact. That matters for
// binary tactical feeds where one datagram is one message.
type UDPSource struct {
	addr string
	conn *net.UDPConn
}

func ListenUDP(cfg UDPConfig) (*UDPSource, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("udp: no address")
	}
	laddr, err := net.ResolveUDPAddr("udp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("udp: resolve %s: %w", cfg.Addr, err)
	}
	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return nil, fmt.Errorf("udp: listen %s: %w", cfg.Addr, err)
	}

	log.Printf("udp listening addr=%s", conn.LocalAddr())
	return &UDPSource{addr: cfg.Addr, conn: conn}, nil
}

// LocalAddr returns the bound address, useful when Addr asked for port 0.
func (u *UDPSource) LocalAddr() net.Addr {
	return u.conn.LocalAddr()
}

func (u *UDPSource) ReadBytes(max int, timeout time.Duration) ([]byte, error) {
	if err := u.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return nil, fmt.Errorf("udp: set deadline: %w", err)
	}
	buf := make([]byte, max)
	n, _, err := u.conn.ReadFromUDP(buf)
	if n > 0 {
		return buf[:n], nil
	}
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return nil, nil
		}
		return nil, fmt.Errorf("udp: read %s: %w", u.addr, err)
	}
	return nil, nil
}

func (u *UDPSource) Close() error {
	return u.conn.Close()
}

func (u *UDPSource) String() string {
	return "udp " + u.addr
}
