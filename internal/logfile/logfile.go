// Package logfile provides a size-rotated append-only log file.
package logfile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
)

const megabyte = 1 << 20

// Writer appends to a file, rotating it once it grows past a size limit.
// On rotation path becomes path.1, path.1 becomes path.2, and so on, keeping
// at most the configured number of backups.
//
// Writer is safe for concurrent use.
type Writer struct {
	mu         sync.Mutex
	path       string
	limit      int64
	maxBackups int
	size       int64
	file       *os.File
}

var _ io.WriteCloser = (*Writer)(nil)

// Open opens path for appending, creating it and its directory as needed.
// maxSizeMB is clamped to at least 1, and maxBackups to at least 0. With no
// backups, rotation truncates.
func Open(path string, maxSizeMB, maxBackups int) (*Writer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("logfile: %w", err)
		}
	}
	w := &Writer{
		path:       path,
		limit:      int64(max(maxSizeMB, 1)) * megabyte,
		maxBackups: max(maxBackups, 0),
	}
	if err := w.open(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Writer) open() error {
	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("logfile: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("logfile: %w", err)
	}
	w.file = f
	w.size = info.Size()
	return nil
}

// Path returns the path of the live file.
func (w *Writer) Path() string { return w.path }

// Write appends p, rotating first if p would take a non-empty file past the
// limit. A single write is never split across files.
func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return 0, os.ErrClosed
	}
	if w.size > 0 && w.size+int64(len(p)) > w.limit {
		if err := w.rotate(); err != nil {
			return 0, fmt.Errorf("logfile: rotate: %w", err)
		}
	}
	n, err := w.file.Write(p)
	w.size += int64(n)
	return n, err
}

// Close closes the live file. Later writes fail with os.ErrClosed.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

func (w *Writer) rotate() error {
	if err := w.file.Close(); err != nil {
		return err
	}
	w.file = nil

	backups := w.backups()
	// highest first, so no rename overwrites a backup still to be moved
	slices.Reverse(backups)
	for _, n := range backups {
		if n >= w.maxBackups {
			_ = os.Remove(w.backup(n))
		} else {
			_ = os.Rename(w.backup(n), w.backup(n+1))
		}
	}
	if w.maxBackups > 0 {
		_ = os.Rename(w.path, w.backup(1))
	} else {
		_ = os.Remove(w.path)
	}
	return w.open()
}

func (w *Writer) backup(n int) string {
	return w.path + "." + strconv.Itoa(n)
}

// backups returns the numbers of existing backups, ascending.
func (w *Writer) backups() []int {
	entries, err := os.ReadDir(filepath.Dir(w.path))
	if err != nil {
		return nil
	}
	prefix := filepath.Base(w.path) + "."
	var out []int
	for _, e := range entries {
		suffix, ok := strings.CutPrefix(e.Name(), prefix)
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(suffix); err == nil && n > 0 {
			out = append(out, n)
		}
	}
	slices.Sort(out)
	return out
}
