package store

import (
	"bufio"
	"bytes"
	"context"
	"io"
)

// maxLineSize bounds a single action document read by a line watcher.
const maxLineSize = 1 << 20

// ChannelWatcher feeds action documents from an in-process producer: a
// channel owned by the caller, or a reader such as standard input.
type ChannelWatcher struct {
	ch     <-chan []byte
	lines  io.Reader
	direct bool
}

// NewChannelWatcher relays documents sent on ch until ch closes or the watch
// context ends.
func NewChannelWatcher(ch <-chan []byte) *ChannelWatcher {
	return &ChannelWatcher{ch: ch}
}

// NewSyncChannelWatcher hands ch to the store without a relay goroutine, so
// a document is dispatched before the producer's next send completes.
func NewSyncChannelWatcher(ch <-chan []byte) *ChannelWatcher {
	return &ChannelWatcher{ch: ch, direct: true}
}

// NewLineWatcher reads r line by line and emits each non-empty line as one
// action document. The source closes at end of input or on a read error.
// A blocked read is not interrupted by cancellation.
func NewLineWatcher(r io.Reader) *ChannelWatcher {
	return &ChannelWatcher{lines: r}
}

// Watch returns the channel of documents.
func (w *ChannelWatcher) Watch(ctx context.Context) (<-chan []byte, error) {
	switch {
	case w.lines != nil:
		return scanLines(ctx, w.lines), nil
	case w.direct:
		return w.ch, nil
	}
	return relay(ctx, w.ch), nil
}

func relay(ctx context.Context, in <-chan []byte) <-chan []byte {
	out := make(chan []byte)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case doc, ok := <-in:
				if !ok {
					return
				}
				select {
				case out <- doc:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

func scanLines(ctx context.Context, r io.Reader) <-chan []byte {
	out := make(chan []byte)
	go func() {
		defer close(out)
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for scanner.Scan() {
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}
			select {
			case out <- bytes.Clone(line):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
