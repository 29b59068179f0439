package store

import (
	"context"
	"fmt"
	"sync"
)

// SourceError reports which source of a merged watcher failed to start.
type SourceError struct {
	Index int
	Err   error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source %d: %v", e.Index, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// MergedWatcher fans several watchers into one. Documents from one source keep
// their order; documents from different sources interleave as they arrive.
type MergedWatcher struct {
	sources []Watcher
}

// Merge creates a watcher over sources.
//
//	st.Watch(ctx, store.Merge(
//	    store.NewFileWatcher("actions.jsonl"),
//	    redis.New(client, "todo:actions"),
//	))
func Merge(sources ...Watcher) *MergedWatcher {
	return &MergedWatcher{sources: sources}
}

// Watch starts every source. If one fails to start, the others are stopped
// and a *SourceError is returned. The merged channel closes once every source
// channel has closed.
func (m *MergedWatcher) Watch(ctx context.Context) (<-chan []byte, error) {
	ctx, cancel := context.WithCancel(ctx)

	chans := make([]<-chan []byte, 0, len(m.sources))
	for i, src := range m.sources {
		ch, err := src.Watch(ctx)
		if err != nil {
			cancel()
			return nil, &SourceError{Index: i, Err: err}
		}
		chans = append(chans, ch)
	}

	out := make(chan []byte)
	var wg sync.WaitGroup
	for _, ch := range chans {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case v, ok := <-ch:
					if !ok {
						return
					}
					select {
					case out <- v:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		cancel()
		close(out)
	}()

	return out, nil
}
