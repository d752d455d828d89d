package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

const (
	// DefaultMaxSizeMB is the rotation threshold used when none is configured.
	DefaultMaxSizeMB = 10

	// DefaultMaxFiles is the number of rotated files kept when none is configured.
	DefaultMaxFiles = 5
)

// RotatingWriter is an io.Writer that appends to a log file and rotates it
// when it would exceed a size threshold. Rotated files are named path.1
// through path.N with path.1 the most recent; the oldest is removed.
type RotatingWriter struct {
	mu       sync.Mutex
	path     string
	maxBytes int64
	maxFiles int
	file     *os.File
	size     int64
}

// NewRotatingWriter opens (or creates) the log file at path, creating parent
// directories as needed. Zero or negative maxSizeMB and maxFiles fall back
// to DefaultMaxSizeMB and DefaultMaxFiles.
func NewRotatingWriter(path string, maxSizeMB, maxFiles int) (*RotatingWriter, error) {
	if maxSizeMB <= 0 {
		maxSizeMB = DefaultMaxSizeMB
	}
	if maxFiles <= 0 {
		maxFiles = DefaultMaxFiles
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	w := &RotatingWriter{
		path:     path,
		maxBytes: int64(maxSizeMB) * 1024 * 1024,
		maxFiles: maxFiles,
	}
	if err := w.open(); err != nil {
		return nil, err
	}
	return w, nil
}

// open opens the live log file in append mode and records its current size.
func (w *RotatingWriter) open() error {
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return err
	}
	w.file = f
	w.size = info.Size()
	return nil
}

// Write appends p to the live log file, rotating first when the write would
// push the file past the threshold. A single write larger than the threshold
// goes through without rotating an empty file.
func (w *RotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return 0, fmt.Errorf("rotating writer: %s is closed", w.path)
	}

	if w.size > 0 && w.size+int64(len(p)) > w.maxBytes {
		if err := w.rotate(); err != nil {
			return 0, err
		}
	}

	n, err := w.file.Write(p)
	w.size += int64(n)
	return n, err
}

// rotate shifts path.i to path.i+1 for each kept file, moves the live file
// to path.1 and reopens a fresh one. Caller holds the lock.
func (w *RotatingWriter) rotate() error {
	if err := w.file.Close(); err != nil {
		return err
	}
	w.file = nil

	os.Remove(w.path + "." + strconv.Itoa(w.maxFiles))
	for i := w.maxFiles - 1; i >= 1; i-- {
		from := w.path + "." + strconv.Itoa(i)
		to := w.path + "." + strconv.Itoa(i+1)
		if _, err := os.Stat(from); err == nil {
			os.Rename(from, to)
		}
	}
	if err := os.Rename(w.path, w.path+".1"); err != nil {
		return err
	}

	return w.open()
}

// Close closes the live log file. Subsequent writes fail.
func (w *RotatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

// Size returns the current size of the live log file in bytes.
func (w *RotatingWriter) Size() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.size
}
