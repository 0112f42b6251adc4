package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"navtap/internal/comms"
)

const (
	ProtocolNMEA0183 = "nmea0183"
	ProtocolLink16   = "link16"
)

type Config struct {
	Protocol    string            `yaml:"protocol"`
	Source      SourceConfig      `yaml:"source"`
	MQTT        MQTTConfig        `yaml:"mqtt"`
	Rebroadcast RebroadcastConfig `yaml:"rebroadcast"`
	Monitor     MonitorConfig     `yaml:"monitor"`
}

type SourceConfig struct {
	Kind            string        `yaml:"kind"`
	Device          string        `yaml:"device"`
	Baud            int           `yaml:"baud"`
	Addr            string        `yaml:"addr"`
	Path            string        `yaml:"path"`
	Loop            bool          `yaml:"loop"`
	ChunkDelay      time.Duration `yaml:"chunk_delay"`
	ChunkBytes      int           `yaml:"chunk_bytes"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	IdleSleep       time.Duration `yaml:"idle_sleep"`
	MaxPendingBytes int           `yaml:"max_pending_bytes"`
}

type MQTTConfig struct {
	Enable   bool   `yaml:"enable"`
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
	Topic    string `yaml:"topic"`
}

type RebroadcastConfig struct {
	Enable bool   `yaml:"enable"`
	Dest   string `yaml:"dest"`
}

type MonitorConfig struct {
	Enable bool   `yaml:"enable"`
	Listen string `yaml:"listen"`
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}

	if cfg.Protocol == "" {
		cfg.Protocol = ProtocolNMEA0183
	}
	if cfg.Protocol != ProtocolNMEA0183 && cfg.Protocol != ProtocolLink16 {
		return Config{}, fmt.Errorf("protocol must be %s or %s", ProtocolNMEA0183, ProtocolLink16)
	}

	if cfg.Source.Kind == "" {
		cfg.Source.Kind = "serial"
	}
	switch cfg.Source.Kind {
	case "serial":
		if cfg.Source.Baud == 0 {
			cfg.Source.Baud = 9600
		}
		if !comms.SupportedBaud(cfg.Source.Baud) {
			return Config{}, fmt.Errorf("source.baud %d is not a supported rate", cfg.Source.Baud)
		}
	case "tcp":
		if cfg.Source.Addr == "" {
			return Config{}, fmt.Errorf("source.addr is required when source.kind is tcp")
		}
	case "udp":
		if cfg.Source.Addr == "" {
			return Config{}, fmt.Errorf("source.addr is required when source.kind is udp")
		}
	case "file":
		if cfg.Source.Path == "" {
			return Config{}, fmt.Errorf("source.path is required when source.kind is file")
		}
	default:
		return Config{}, fmt.Errorf("source.kind must be one of serial, tcp, udp, file")
	}

	// Link16 messages arrive one per datagram, so only UDP framing works.
	if cfg.Protocol == ProtocolLink16 && cfg.Source.Kind != "udp" {
		return Config{}, fmt.Errorf("protocol link16 requires source.kind udp")
	}

	if cfg.Source.ChunkBytes <= 0 {
		cfg.Source.ChunkBytes = 128
	}
	if cfg.Source.ReadTimeout <= 0 {
		cfg.Source.ReadTimeout = 500 * time.Millisecond
	}
	if cfg.Source.IdleSleep <= 0 {
		cfg.Source.IdleSleep = 100 * time.Millisecond
	}
	if cfg.Source.MaxPendingBytes <= 0 {
		cfg.Source.MaxPendingBytes = 4096
	}

	// Sink defaults (safe even if disabled).
	if cfg.MQTT.Broker == "" {
		cfg.MQTT.Broker = "tcp://127.0.0.1:1883"
	}
	if cfg.MQTT.ClientID == "" {
		cfg.MQTT.ClientID = "navtap"
	}
	if cfg.MQTT.Topic == "" {
		cfg.MQTT.Topic = "navtap/events"
	}
	if cfg.Rebroadcast.Enable && cfg.Rebroadcast.Dest == "" {
		return Config{}, fmt.Errorf("rebroadcast.dest is required when rebroadcast.enable is true")
	}
	if cfg.Monitor.Listen == "" {
		cfg.Monitor.Listen = ":8080"
	}

	return cfg, nil
}
