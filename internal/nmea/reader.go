package nmea

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoMessage reports that the read budget elapsed without a decodable
// sentence. It is a normal idle condition, not a transport failure.
var ErrNoMessage = errors.New("nmea: no message available")

// ByteSource is the transport the reader pulls from.
//
// ReadBytes returns up to max bytes, waiting at most timeout. An empty
// slice with a nil error means no data arrived in time. A non-nil error
// means the transport has failed for good.
type ByteSource interface {
	ReadBytes(max int, timeout time.Duration) ([]byte, error)
}

// ReaderConfig controls read granularity and framer bounds. The zero value
// selects the defaults.
type ReaderConfig struct {
	// ChunkBytes is the per-read ceiling handed to the source (default 128).
	ChunkBytes int
	// MaxPending bounds the framer accumulator (default DefaultMaxPending).
	MaxPending int
}

// Reader pulls bytes from a source and hands back decoded messages.
// Not goroutine-safe; one goroutine owns the pipeline end to end.
type Reader struct {
	src    ByteSource
	framer *Framer
	chunk  int
}

func NewReader(src ByteSource, cfg ReaderConfig) *Reader {
	chunk := cfg.ChunkBytes
	if chunk <= 0 {
		chunk = 128
	}
	return &Reader{
		src:    src,
		framer: NewFramer(cfg.MaxPending),
		chunk:  chunk,
	}
}

// Next returns the next message decoded from the stream, waiting at most
// budget for bytes to arrive. Sentences that fail validation or decoding
// are skipped; one bad sentence never ends the stream. Next returns
// ErrNoMessage when the budget is spent and a wrapped transport error when
// the source fails.
func (r *Reader) Next(budget time.Duration) (Message, error) {
	deadline := time.Now().Add(budget)
	for {
		// Drain everything already buffered before reading again.
		for {
			raw, ok := r.framer.Next()
			if !ok {
				break
			}
			sent, err := ParseSentence(raw)
			if err != nil {
				continue
			}
			msg, err := Decode(sent)
			if err != nil {
				continue
			}
			return msg, nil
		}

		remain := time.Until(deadline)
		if remain <= 0 {
			return nil, ErrNoMessage
		}
		p, err := r.src.ReadBytes(r.chunk, remain)
		if err != nil {
			return nil, fmt.Errorf("nmea: read: %w", err)
		}
		if len(p) == 0 {
			// Source idled out and nothing decodable is buffered.
			return nil, ErrNoMessage
		}
		r.framer.Push(p)
	}
}
