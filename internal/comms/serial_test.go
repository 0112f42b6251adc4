package comms

import (
	"strings"
	"testing"
)

func TestSupportedBaud(t *testing.T) {
	cases := []struct {
		baud int
		want bool
	}{
		{4800, true},
		{9600, true},
		{115200, true},
		{230400, true},
		{0, false},
		{1234, false},
		{250000, false},
	}
	for _, c := range cases {
		if got := SupportedBaud(c.baud); got != c.want {
			t.Errorf("SupportedBaud(%d)=%v want %v", c.baud, got, c.want)
		}
	}
}

func TestOpenSerialRejectsUnsupportedBaud(t *testing.T) {
	_, err := OpenSerial(SerialConfig{Device: "/dev/ttyACM0", Baud: 1234})
	if err == nil {
		t.Fatal("expected error for baud 1234")
	}
	if !strings.Contains(err.Error(), "unsupported baud") {
		t.Fatalf("err=%q want unsupported baud", err)
	}
}

func TestOpenSerialMissingDevice(t *testing.T) {
	_, err := OpenSerial(SerialConfig{Device: "/dev/navtap-no-such-port", Baud: 9600})
	if err == nil {
		t.Fatal("expected error for missing device")
	}
}
