package comms

import (
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"time"
)

func TestDialTCPRequiresAddr(t *testing.T) {
	_, err := DialTCP(context.Background(), TCPConfig{})
	if err == nil {
		t.Fatal("expected error for empty address")
	}
}

func TestTCPSourceReadsStream(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	payload := "$GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W*6A\r\n"
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		conn.Write([]byte(payload))
		conn.Close()
	}()

	src, err := DialTCP(context.Background(), TCPConfig{Addr: ln.Addr().String()})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer src.Close()

	var got []byte
	deadline := time.Now().Add(2 * time.Second)
	for len(got) < len(payload) {
		if time.Now().After(deadline) {
			t.Fatalf("timed out with %d/%d bytes", len(got), len(payload))
		}
		data, err := src.ReadBytes(64, 200*time.Millisecond)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		got = append(got, data...)
	}
	if string(got) != payload {
		t.Fatalf("got %q want %q", got, payload)
	}
}

func TestTCPSourceReadTimeout(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		// Hold the connection open without writing.
		time.Sleep(time.Second)
		conn.Close()
	}()

	src, err := DialTCP(context.Background(), TCPConfig{Addr: ln.Addr().String()})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer src.Close()

	data, err := src.ReadBytes(16, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(data) != 0 {
		t.Fatalf("data=%q want none", data)
	}
}

func TestTCPSourcePeerCloseIsError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		conn.Close()
	}()

	src, err := DialTCP(context.Background(), TCPConfig{Addr: ln.Addr().String()})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer src.Close()

	deadline := time.Now().Add(2 * time.Second)
	for {
		if time.Now().After(deadline) {
			t.Fatal("never saw close")
		}
		_, err := src.ReadBytes(16, 100*time.Millisecond)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				t.Fatalf("err=%v want EOF", err)
			}
			return
		}
	}
}
