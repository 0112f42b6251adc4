// Package feed runs the ingest pipeline: it pulls bytes from a comms
// source, decodes them as NMEA 0183 sentences or Link16 datagrams, and
// fans decoded events out to the configured sinks.
//
// Note: this is a best-effort bring-up service; source failures should
// not bring down the main process.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"navtap/internal/comms"
	"navtap/internal/nmea"
)

const (
	ProtocolNMEA0183 = "nmea0183"
	ProtocolLink16   = "link16"
)

// Config controls the feed service.
//
// Open is called for every connection attempt so a flaky source can be
// re-dialed with backoff. All other fields are optional.
type Config struct {
	Protocol string

	// Open produces a fresh byte source. Required.
	Open func(ctx context.Context) (comms.Source, error)

	ChunkBytes  int
	ReadTimeout time.Duration
	IdleSleep   time.Duration
	MaxPending  int
}

type Service struct {
	cfg Config

	cancel context.CancelFunc
	wg     sync.WaitGroup

	last atomic.Value // Snapshot

	mu     sync.Mutex
	closer io.Closer
	sinks  []Sink
}

func New(cfg Config) *Service {
	if cfg.Protocol == "" {
		cfg.Protocol = ProtocolNMEA0183
	}
	if cfg.ChunkBytes <= 0 {
		cfg.ChunkBytes = 128
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 500 * time.Millisecond
	}
	if cfg.IdleSleep <= 0 {
		cfg.IdleSleep = 100 * time.Millisecond
	}
	if cfg.MaxPending <= 0 {
		cfg.MaxPending = nmea.DefaultMaxPending
	}

	s := &Service{cfg: cfg}
	s.last.Store(Snapshot{Protocol: cfg.Protocol})
	return s
}

// AddSink registers a sink for decoded events. Call before Start.
func (s *Service) AddSink(snk Sink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sinks = append(s.sinks, snk)
}

func (s *Service) Start(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("feed service is nil")
	}
	if ctx == nil {
		return fmt.Errorf("ctx is nil")
	}
	if s.cfg.Open == nil {
		return fmt.Errorf("feed source factory is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return nil
	}

	childCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(childCtx)

	s.last.Store(Snapshot{Running: true, Protocol: s.cfg.Protocol})
	return nil
}

func (s *Service) run(ctx context.Context) {
	defer s.wg.Done()
	defer func() {
		snap := s.Snapshot()
		snap.Running = false
		s.last.Store(snap)
	}()

	log.Printf("feed starting protocol=%s", s.cfg.Protocol)

	var st track
	backoff := 250 * time.Millisecond
	maxBackoff := 10 * time.Second

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		src, err := s.cfg.Open(ctx)
		if err != nil {
			s.setError(fmt.Sprintf("feed open failed: %v", err))
			t := backoff
			if t > maxBackoff {
				t = maxBackoff
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(t):
			}
			if backoff < maxBackoff {
				backoff *= 2
			}
			continue
		}

		// Reset backoff after a successful open.
		backoff = 250 * time.Millisecond

		s.mu.Lock()
		// Swap the closer so Close() can interrupt an active source.
		s.closer = src
		s.mu.Unlock()

		log.Printf("feed connected source=%s protocol=%s", src, s.cfg.Protocol)
		base := Snapshot{Running: true, Protocol: s.cfg.Protocol, Source: src.String()}
		s.last.Store(st.snapshot(base))

		err = s.consume(ctx, src, &st, base)
		_ = src.Close()

		if ctx.Err() != nil {
			return
		}
		if errors.Is(err, io.EOF) {
			// A finished replay is not a reason to re-dial.
			log.Printf("feed source ended source=%s", src)
			s.setError(fmt.Sprintf("feed stopped: %v", err))
			return
		}
		if err != nil {
			s.setError(fmt.Sprintf("feed read failed: %v", err))
		}
		// Loop and reconnect.
	}
}

func (s *Service) consume(ctx context.Context, src comms.Source, st *track, base Snapshot) error {
	if s.cfg.Protocol == ProtocolLink16 {
		return s.consumeLink16(ctx, src, st, base)
	}
	return s.consumeNMEA(ctx, src, st, base)
}

func (s *Service) consumeNMEA(ctx context.Context, src comms.Source, st *track, base Snapshot) error {
	reader := nmea.NewReader(src, nmea.ReaderConfig{
		ChunkBytes: s.cfg.ChunkBytes,
		MaxPending: s.cfg.MaxPending,
	})

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		msg, err := reader.Next(s.cfg.ReadTimeout)
		if err != nil {
			if errors.Is(err, nmea.ErrNoMessage) {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(s.cfg.IdleSleep):
				}
				continue
			}
			return err
		}

		// Store before publishing so a sink failure recorded by setError
		// is not overwritten by this message's snapshot.
		ev := st.applyNMEA(time.Now().UTC(), msg)
		s.last.Store(st.snapshot(base))
		s.publish(ev)
	}
}

func (s *Service) consumeLink16(ctx context.Context, src comms.Source, st *track, base Snapshot) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		data, err := src.ReadBytes(s.cfg.ChunkBytes, s.cfg.ReadTimeout)
		if err != nil {
			return err
		}
		if len(data) == 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.cfg.IdleSleep):
			}
			continue
		}

		ev, err := st.applyLink16(time.Now().UTC(), data)
		if err != nil {
			// Avoid spamming on bad datagrams; just keep the last error.
			s.last.Store(st.snapshot(base))
			s.setError(err.Error())
			continue
		}
		s.last.Store(st.snapshot(base))
		s.publish(ev)
	}
}

func (s *Service) publish(ev Event) {
	s.mu.Lock()
	sinks := s.sinks
	s.mu.Unlock()

	for _, snk := range sinks {
		if err := snk.Publish(ev); err != nil {
			s.setError(fmt.Sprintf("sink publish failed: %v", err))
		}
	}
}

func (s *Service) Close() {
	if s == nil {
		return
	}
	s.mu.Lock()
	cancel := s.cancel
	closer := s.closer
	s.cancel = nil
	s.closer = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if closer != nil {
		_ = closer.Close()
	}
	s.wg.Wait()
}

func (s *Service) Snapshot() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	v := s.last.Load()
	if v == nil {
		return Snapshot{}
	}
	return v.(Snapshot)
}

func (s *Service) setError(msg string) {
	cur := s.Snapshot()
	cur.LastError = msg
	// Transient decode issues should not flip the running state.
	s.last.Store(cur)
}
