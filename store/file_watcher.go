package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher tails an append-only action log. Each complete, non-empty line
// is emitted as one action document, so the file is typically JSON Lines or
// YAML flow mappings. Lines already present when Watch starts are emitted
// first. A truncated file is read again from the start.
type FileWatcher struct {
	path string
}

// NewFileWatcher creates a new FileWatcher for the given file path.
func NewFileWatcher(path string) *FileWatcher {
	return &FileWatcher{path: path}
}

// Watch begins tailing the file.
func (w *FileWatcher) Watch(ctx context.Context) (<-chan []byte, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	if err := watcher.Add(w.path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch file %s: %w", w.path, err)
	}

	out := make(chan []byte)

	go func() {
		defer close(out)
		defer watcher.Close()

		t := &tail{path: w.path}
		if !t.emit(ctx, out) {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if !t.emit(ctx, out) {
					return
				}

			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return out, nil
}

// tail tracks how far into the file complete lines have been emitted.
type tail struct {
	path   string
	offset int64
}

// emit sends every complete line appended since the last call. It returns
// false if ctx ended while sending.
func (t *tail) emit(ctx context.Context, out chan<- []byte) bool {
	f, err := os.Open(t.path)
	if err != nil {
		return true
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return true
	}
	if info.Size() < t.offset {
		t.offset = 0
	}
	if _, err := f.Seek(t.offset, io.SeekStart); err != nil {
		return true
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return true
	}

	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			return true
		}
		line := bytes.TrimSpace(data[:i])
		data = data[i+1:]
		t.offset += int64(i + 1)

		if len(line) == 0 {
			continue
		}
		select {
		case out <- line:
		case <-ctx.Done():
			return false
		}
	}
}
