package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"navtap/internal/comms"
	"navtap/internal/config"
	"navtap/internal/feed"
	"navtap/internal/monitor"
)

func main() {
	var configPath string
	var listenAddr string
	flag.StringVar(&configPath, "config", "./navtap.yaml", "Path to YAML config")
	flag.StringVar(&listenAddr, "listen", "", "Monitor listen address (enables the monitor, overrides config)")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if listenAddr != "" {
		cfg.Monitor.Enable = true
		cfg.Monitor.Listen = listenAddr
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	svc := feed.New(feed.Config{
		Protocol:    cfg.Protocol,
		Open:        openSource(cfg.Source),
		ChunkBytes:  cfg.Source.ChunkBytes,
		ReadTimeout: cfg.Source.ReadTimeout,
		IdleSleep:   cfg.Source.IdleSleep,
		MaxPending:  cfg.Source.MaxPendingBytes,
	})

	if cfg.MQTT.Enable {
		sink, err := feed.NewMQTTSink(feed.MQTTConfig{
			Broker:   cfg.MQTT.Broker,
			ClientID: cfg.MQTT.ClientID,
			Topic:    cfg.MQTT.Topic,
		})
		if err != nil {
			log.Fatalf("mqtt sink init failed: %v", err)
		}
		defer sink.Close()
		svc.AddSink(sink)
	}

	if cfg.Rebroadcast.Enable {
		sink, err := feed.NewUDPSink(cfg.Rebroadcast.Dest)
		if err != nil {
			log.Fatalf("udp sink init failed: %v", err)
		}
		defer sink.Close()
		svc.AddSink(sink)
	}

	var mon *monitor.Server
	if cfg.Monitor.Enable {
		mon = monitor.New(svc)
		svc.AddSink(mon)
	}

	log.Printf("navtap starting")
	log.Printf("source kind=%s protocol=%s", cfg.Source.Kind, cfg.Protocol)

	if err := svc.Start(ctx); err != nil {
		log.Fatalf("feed start failed: %v", err)
	}
	defer svc.Close()

	if mon != nil {
		go func() {
			err := monitor.Serve(ctx, cfg.Monitor.Listen, mon)
			if err != nil && ctx.Err() == nil {
				log.Printf("monitor stopped: %v", err)
				cancel()
			}
		}()
	}

	<-ctx.Done()
	log.Printf("navtap stopping")
}

func openSource(cfg config.SourceConfig) func(context.Context) (comms.Source, error) {
	switch cfg.Kind {
	case "tcp":
		return func(ctx context.Context) (comms.Source, error) {
			return comms.DialTCP(ctx, comms.TCPConfig{Addr: cfg.Addr})
		}
	case "udp":
		return func(context.Context) (comms.Source, error) {
			return comms.ListenUDP(comms.UDPConfig{Addr: cfg.Addr})
		}
	case "file":
		return func(context.Context) (comms.Source, error) {
			return comms.OpenFile(comms.FileConfig{Path: cfg.Path, ChunkDelay: cfg.ChunkDelay, Loop: cfg.Loop})
		}
	default:
		return func(context.Context) (comms.Source, error) {
			return comms.OpenSerial(comms.SerialConfig{Device: cfg.Device, Baud: cfg.Baud})
		}
	}
}
