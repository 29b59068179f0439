package store

import (
	"context"
	"slices"
	"strings"
	"testing"
	"time"
)

func TestChannelWatcher_ForwardsDocumentsInOrder(t *testing.T) {
	source := make(chan []byte, 2)
	source <- []byte(`{"type":"ADD","payload":"x"}`)
	source <- []byte(`{"type":"ADD","payload":"y"}`)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	out, err := NewChannelWatcher(source).Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	for _, want := range []string{`{"type":"ADD","payload":"x"}`, `{"type":"ADD","payload":"y"}`} {
		select {
		case got := <-out:
			if string(got) != want {
				t.Errorf("expected %s, got %s", want, got)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("timeout waiting for %s", want)
		}
	}
}

func TestChannelWatcher_ClosesWithSource(t *testing.T) {
	source := make(chan []byte)
	close(source)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	out, err := NewChannelWatcher(source).Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	select {
	case _, ok := <-out:
		if ok {
			t.Error("expected channel to be closed")
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("timeout waiting for channel close")
	}
}

func TestChannelWatcher_ClosesOnContextCancel(t *testing.T) {
	source := make(chan []byte)

	ctx, cancel := context.WithCancel(context.Background())
	out, err := NewChannelWatcher(source).Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	cancel()

	select {
	case _, ok := <-out:
		if ok {
			t.Error("expected channel to be closed")
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("timeout waiting for channel close")
	}
}

func TestSyncChannelWatcher_ReturnsSourceChannel(t *testing.T) {
	source := make(chan []byte, 1)
	source <- []byte("doc")

	out, err := NewSyncChannelWatcher(source).Watch(context.Background())
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	select {
	case got := <-out:
		if string(got) != "doc" {
			t.Errorf("expected doc, got %s", got)
		}
	default:
		t.Fatal("expected value to be immediately available")
	}
}

func TestLineWatcher_EmitsNonEmptyLines(t *testing.T) {
	input := strings.NewReader("{\"type\":\"ADD\",\"payload\":\"x\"}\n\n  \n{\"type\":\"ADD\",\"payload\":\"y\"}")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	out, err := NewLineWatcher(input).Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	var got []string
	for doc := range out {
		got = append(got, string(doc))
	}
	want := []string{`{"type":"ADD","payload":"x"}`, `{"type":"ADD","payload":"y"}`}
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestLineWatcher_DrivesStoreUntilEOF(t *testing.T) {
	input := strings.NewReader("{\"type\":\"INCREMENT\",\"payload\":2}\n{\"type\":\"INCREMENT\",\"payload\":3}\n")

	st := New(tallyReducer)
	if err := st.Watch(context.Background(), NewLineWatcher(input)); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	if st.State().Count != 5 {
		t.Errorf("expected count 5, got %d", st.State().Count)
	}
}
