package comms

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeCapture(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capture.nmea")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write capture: %v", err)
	}
	return path
}

func TestOpenFileRequiresPath(t *testing.T) {
	_, err := OpenFile(FileConfig{})
	if err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestOpenFileMissing(t *testing.T) {
	_, err := OpenFile(FileConfig{Path: filepath.Join(t.TempDir(), "nope.nmea")})
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFileSourceReadsInChunks(t *testing.T) {
	src, err := OpenFile(FileConfig{Path: writeCapture(t, "hello world")})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer src.Close()

	var got []byte
	for {
		data, err := src.ReadBytes(5, time.Second)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				t.Fatalf("err=%v want EOF", err)
			}
			break
		}
		if len(data) > 5 {
			t.Fatalf("chunk %q exceeds max", data)
		}
		got = append(got, data...)
	}
	if string(got) != "hello world" {
		t.Fatalf("got %q want %q", got, "hello world")
	}
}

func TestFileSourceLoopRestartsAtEOF(t *testing.T) {
	src, err := OpenFile(FileConfig{Path: writeCapture(t, "abc"), Loop: true})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer src.Close()

	data, err := src.ReadBytes(16, time.Second)
	if err != nil || string(data) != "abc" {
		t.Fatalf("first read=%q err=%v", data, err)
	}
	// EOF rewinds and reports an idle read rather than an error.
	data, err = src.ReadBytes(16, time.Second)
	if err != nil || len(data) != 0 {
		t.Fatalf("rewind read=%q err=%v", data, err)
	}
	data, err = src.ReadBytes(16, time.Second)
	if err != nil || string(data) != "abc" {
		t.Fatalf("second pass read=%q err=%v", data, err)
	}
}

func TestFileSourcePacingHonorsBudget(t *testing.T) {
	src, err := OpenFile(FileConfig{
		Path:       writeCapture(t, "abc"),
		ChunkDelay: time.Hour,
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer src.Close()

	start := time.Now()
	if _, err := src.ReadBytes(16, 20*time.Millisecond); err != nil {
		t.Fatalf("read: %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("read blocked %v despite 20ms budget", elapsed)
	}
}
