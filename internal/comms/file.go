package comms

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

type FileConfig struct {
	// Path of the capture to replay.
	Path string
	// ChunkDelay paces reads to feel like a live device. Zero replays as
	// fast as the pipeline pulls.
	ChunkDelay time.Duration
	// Loop restarts from the top at EOF instead of ending the replay.
	Loop bool
}

// FileSource replays a raw capture file through the Source contract.
type FileSource struct {
	path  string
	delay time.Duration
	loop  bool
	f     *os.File
}

func OpenFile(cfg FileConfig) (*FileSource, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("file: no path")
	}
	f, err := os.Open(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("file: open: %w", err)
	}

	log.Printf("file replay path=%s loop=%v", cfg.Path, cfg.Loop)
	return &FileSource{path: cfg.Path, delay: cfg.ChunkDelay, loop: cfg.Loop, f: f}, nil
}

func (fs *FileSource) ReadBytes(max int, timeout time.Duration) ([]byte, error) {
	if fs.delay > 0 {
		d := fs.delay
		if timeout < d {
			d = timeout
		}
		time.Sleep(d)
	}
	buf := make([]byte, max)
	n, err := fs.f.Read(buf)
	if n > 0 {
		return buf[:n], nil
	}
	if err == io.EOF {
		if fs.loop {
			if _, serr := fs.f.Seek(0, io.SeekStart); serr != nil {
				return nil, fmt.Errorf("file: rewind %s: %w", fs.path, serr)
			}
			return nil, nil
		}
		return nil, fmt.Errorf("file: %s: %w", fs.path, io.EOF)
	}
	if err != nil {
		return nil, fmt.Errorf("file: read %s: %w", fs.path, err)
	}
	return nil, nil
}

func (fs *FileSource) Close() error {
	return fs.f.Close()
}

func (fs *FileSource) String() string {
	return "file " + fs.path
}
