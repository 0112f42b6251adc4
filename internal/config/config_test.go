package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	tmp := t.TempDir()
	path := filepath.Join(tmp, "cfg.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	return path
}

func requireErrEq(t *testing.T, err error, want string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error %q, got nil", want)
	}
	if err.Error() != want {
		t.Fatalf("error=%q want %q", err.Error(), want)
	}
}

func TestLoad_DefaultsApplied(t *testing.T) {
	path := writeTempConfig(t, "{}\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Protocol != ProtocolNMEA0183 {
		t.Fatalf("protocol=%q want %q", cfg.Protocol, ProtocolNMEA0183)
	}
	if cfg.Source.Kind != "serial" || cfg.Source.Baud != 9600 {
		t.Fatalf("source=%+v want serial @9600", cfg.Source)
	}
	if cfg.Source.ChunkBytes != 128 || cfg.Source.MaxPendingBytes != 4096 {
		t.Fatalf("buffering defaults not applied: %+v", cfg.Source)
	}
	if cfg.Source.ReadTimeout != 500*time.Millisecond || cfg.Source.IdleSleep != 100*time.Millisecond {
		t.Fatalf("timing defaults not applied: %+v", cfg.Source)
	}

	// Sink defaults should be populated even while disabled.
	if cfg.MQTT.Broker != "tcp://127.0.0.1:1883" || cfg.MQTT.ClientID != "navtap" || cfg.MQTT.Topic != "navtap/events" {
		t.Fatalf("mqtt defaults not applied: %+v", cfg.MQTT)
	}
	if cfg.Monitor.Listen != ":8080" {
		t.Fatalf("monitor.listen=%q want :8080", cfg.Monitor.Listen)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeTempConfig(t, "source: [unclosed\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for bad yaml")
	}
}

func TestLoad_UnknownProtocol(t *testing.T) {
	path := writeTempConfig(t, "protocol: ais\n")
	_, err := Load(path)
	requireErrEq(t, err, "protocol must be nmea0183 or link16")
}

func TestLoad_UnknownSourceKind(t *testing.T) {
	path := writeTempConfig(t, "source:\n  kind: carrier-pigeon\n")
	_, err := Load(path)
	requireErrEq(t, err, "source.kind must be one of serial, tcp, udp, file")
}

func TestLoad_SourceValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{
			name: "UnsupportedBaud",
			body: "source:\n  kind: serial\n  baud: 1234\n",
			want: "source.baud 1234 is not a supported rate",
		},
		{
			name: "TCPNeedsAddr",
			body: "source:\n  kind: tcp\n",
			want: "source.addr is required when source.kind is tcp",
		},
		{
			name: "UDPNeedsAddr",
			body: "source:\n  kind: udp\n",
			want: "source.addr is required when source.kind is udp",
		},
		{
			name: "FileNeedsPath",
			body: "source:\n  kind: file\n",
			want: "source.path is required when source.kind is file",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeTempConfig(t, tc.body)
			_, err := Load(path)
			requireErrEq(t, err, tc.want)
		})
	}
}

func TestLoad_Link16RequiresUDP(t *testing.T) {
	path := writeTempConfig(t, "protocol: link16\nsource:\n  kind: tcp\n  addr: '127.0.0.1:4000'\n")
	_, err := Load(path)
	requireErrEq(t, err, "protocol link16 requires source.kind udp")
}

func TestLoad_Link16OverUDP(t *testing.T) {
	path := writeTempConfig(t, "protocol: link16\nsource:\n  kind: udp\n  addr: ':10110'\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Protocol != ProtocolLink16 || cfg.Source.Addr != ":10110" {
		t.Fatalf("cfg=%+v", cfg)
	}
}

func TestLoad_RebroadcastNeedsDest(t *testing.T) {
	path := writeTempConfig(t, "rebroadcast:\n  enable: true\n")
	_, err := Load(path)
	requireErrEq(t, err, "rebroadcast.dest is required when rebroadcast.enable is true")
}

func TestLoad_FullSurface(t *testing.T) {
	path := writeTempConfig(t, `
source:
  kind: tcp
  addr: '10.1.1.5:10110'
  chunk_bytes: 64
  read_timeout: 250ms
  idle_sleep: 50ms
  max_pending_bytes: 2048
mqtt:
  enable: true
  broker: tcp://broker.local:1883
  topic: fleet/alpha
rebroadcast:
  enable: true
  dest: '239.0.0.1:4100'
monitor:
  enable: true
  listen: ':9090'
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Source.ChunkBytes != 64 || cfg.Source.ReadTimeout != 250*time.Millisecond {
		t.Fatalf("source=%+v", cfg.Source)
	}
	if !cfg.MQTT.Enable || cfg.MQTT.Broker != "tcp://broker.local:1883" || cfg.MQTT.Topic != "fleet/alpha" {
		t.Fatalf("mqtt=%+v", cfg.MQTT)
	}
	if cfg.MQTT.ClientID != "navtap" {
		t.Fatalf("client_id=%q want default navtap", cfg.MQTT.ClientID)
	}
	if !cfg.Rebroadcast.Enable || cfg.Rebroadcast.Dest != "239.0.0.1:4100" {
		t.Fatalf("rebroadcast=%+v", cfg.Rebroadcast)
	}
	if !cfg.Monitor.Enable || cfg.Monitor.Listen != ":9090" {
		t.Fatalf("monitor=%+v", cfg.Monitor)
	}
}
