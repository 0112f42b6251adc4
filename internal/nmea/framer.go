package nmea

import (
	"bytes"
	"strings"
)

// DefaultMaxPending bounds the framer accumulator. NMEA sentences are at
// most 82 characters; a partial pending beyond this can never frame.
const DefaultMaxPending = 4096

var crlf = []byte("\r\n")

// Framer assembles complete "$...*HH" sentences from arbitrary byte
// fragments. Not goroutine-safe; one reader owns it.
type Framer struct {
	buf        []byte
	maxPending int
}

// NewFramer returns a framer whose pending partial is bounded at maxPending
// bytes (DefaultMaxPending when maxPending <= 0).
func NewFramer(maxPending int) *Framer {
	if maxPending <= 0 {
		maxPending = DefaultMaxPending
	}
	return &Framer{maxPending: maxPending}
}

// Push appends a fragment to the accumulator.
func (f *Framer) Push(p []byte) {
	f.buf = append(f.buf, p...)
}

// Next extracts the next complete sentence, '$' included, CR LF excluded.
// It returns false when nothing complete is buffered: with no '$' in sight
// the buffer is garbage and is discarded; with a '$' but no terminator the
// partial is kept for the next Push. Candidates without a '*' followed by
// two checksum characters are dropped and scanning continues, so one
// malformed sentence cannot hide a complete one buffered behind it.
func (f *Framer) Next() (string, bool) {
	for {
		start := bytes.IndexByte(f.buf, '$')
		if start == -1 {
			f.buf = f.buf[:0]
			return "", false
		}
		if start > 0 {
			f.drop(start)
		}
		end := bytes.Index(f.buf, crlf)
		if end == -1 {
			// Partial sentence. A later '$' supersedes an earlier one: the
			// interrupted sentence can never terminate.
			if last := bytes.LastIndexByte(f.buf, '$'); last > 0 {
				f.drop(last)
			}
			if len(f.buf) > f.maxPending {
				// Oversized partial can never become a valid sentence.
				f.buf = f.buf[:0]
			}
			return "", false
		}
		cand := f.buf[:end]
		if last := bytes.LastIndexByte(cand, '$'); last > 0 {
			cand = cand[last:]
		}
		sentence := string(cand)
		f.drop(end + len(crlf))

		star := strings.LastIndexByte(sentence, '*')
		if star == -1 || star+3 > len(sentence) {
			// Missing or short checksum: discard, keep scanning.
			continue
		}
		return sentence, true
	}
}

func (f *Framer) drop(n int) {
	m := copy(f.buf, f.buf[n:])
	f.buf = f.buf[:m]
}
