package comms

import (
	"net"
	"testing"
	"time"
)

func TestListenUDPRequiresAddr(t *testing.T) {
	_, err := ListenUDP(UDPConfig{})
	if err == nil {
		t.Fatal("expected error for empty address")
	}
}

func TestUDPSourcePreservesDatagramBoundaries(t *testing.T) {
	src, err := ListenUDP(UDPConfig{Addr: "127.0.0.1:0"})
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer src.Close()

	conn, err := net.Dial("udp", src.LocalAddr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("one")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := conn.Write([]byte("two")); err != nil {
		t.Fatalf("write: %v", err)
	}

	// Both datagrams fit in max, but each read hands back exactly one.
	first := mustReadDatagram(t, src)
	second := mustReadDatagram(t, src)
	if string(first) != "one" || string(second) != "two" {
		t.Fatalf("got %q,%q want one,two", first, second)
	}
}

func TestUDPSourceTruncatesOversizedDatagram(t *testing.T) {
	src, err := ListenUDP(UDPConfig{Addr: "127.0.0.1:0"})
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer src.Close()

	conn, err := net.Dial("udp", src.LocalAddr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	if _, err := conn.Write([]byte("12345678")); err != nil {
		t.Fatalf("write: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		if time.Now().After(deadline) {
			t.Fatal("datagram never arrived")
		}
		data, err := src.ReadBytes(4, 100*time.Millisecond)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if len(data) > 0 {
			if string(data) != "1234" {
				t.Fatalf("got %q want %q", data, "1234")
			}
			return
		}
	}
}

func TestUDPSourceReadTimeout(t *testing.T) {
	src, err := ListenUDP(UDPConfig{Addr: "127.0.0.1:0"})
	if err != nil {
		t.Fatalf("listen: %v", err)
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

func mustReadDatagram(t *testing.T, src *UDPSource) []byte {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		if time.Now().After(deadline) {
			t.Fatal("datagram never arrived")
		}
		data, err := src.ReadBytes(64, 100*time.Millisecond)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if len(data) > 0 {
			return data
		}
	}
}
