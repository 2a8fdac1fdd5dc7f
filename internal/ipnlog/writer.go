package ipnlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/electricblue/paxum-gateway/internal/domain"
)

// Writer appends IPN records to a daily-rotated log file. The active file is
// rotated into dated generations logPath.1 .. logPath.N (1 is most recent)
// the first time a record arrives on a new calendar day, so at most N+1
// files exist at any time.
//
// The rotate+append sequence runs under one exclusive lock; concurrent
// deliveries serialize here and never interleave partial lines. The mutex
// serializes goroutines in this process, the flock guards against other
// processes appending to the same file.
type Writer struct {
	path      string
	retention int
	mu        sync.Mutex
	lock      *flock.Flock
}

// New creates a Writer for the given log path. retention is the number of
// archived generations to keep.
func New(path string, retention int) *Writer {
	return &Writer{
		path:      path,
		retention: retention,
		lock:      flock.New(path + ".lock"),
	}
}

// Append rotates the log if a new day has begun and writes the record as one
// newline-terminated JSON line. The whole sequence holds the writer's
// exclusive lock; acquisition blocks until the lock is released.
func (w *Writer) Append(n *domain.Notification) error {
	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.lock.Lock(); err != nil {
		return fmt.Errorf("acquire log lock: %w", err)
	}
	defer w.lock.Unlock()

	if err := w.rotateIfNeeded(); err != nil {
		return err
	}

	line, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	line = append(line, '\n')

	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	return nil
}

// rotateIfNeeded shifts the archive window when the active file was last
// written on an earlier calendar day (server local time, matching the file
// mtime). Slot retention is deleted first, then every occupied slot moves up
// one, then the active file becomes slot 1.
func (w *Writer) rotateIfNeeded() error {
	info, err := os.Stat(w.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat log: %w", err)
	}

	if sameDay(info.ModTime(), time.Now()) {
		return nil
	}

	oldest := w.slot(w.retention)
	if _, err := os.Stat(oldest); err == nil {
		if err := os.Remove(oldest); err != nil {
			return fmt.Errorf("drop oldest archive: %w", err)
		}
	}

	for i := w.retention; i > 0; i-- {
		src := w.slot(i)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		if err := os.Rename(src, w.slot(i+1)); err != nil {
			return fmt.Errorf("shift archive %d: %w", i, err)
		}
	}

	if err := os.Rename(w.path, w.slot(1)); err != nil {
		return fmt.Errorf("archive current log: %w", err)
	}
	return nil
}

func (w *Writer) slot(i int) string {
	return fmt.Sprintf("%s.%d", w.path, i)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
