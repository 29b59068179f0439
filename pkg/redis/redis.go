// Package redis provides a store.Watcher that reads action documents from a
// Redis pub/sub channel.
//
// Producers publish one JSON or YAML document per message:
//
//	PUBLISH todo:actions '{"type":"ADD_TODO","payload":{"id":"a","todo":"get milk"}}'
//
// With WithBacklog the watcher first replays a Redis list, so actions pushed
// before the store started are not lost:
//
//	RPUSH todo:backlog '{"type":"ADD_TODO","payload":{"id":"a","todo":"get milk"}}'
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Watcher subscribes to a Redis channel and emits every message payload.
type Watcher struct {
	client  *redis.Client
	channel string
	backlog string
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithBacklog replays the list stored at key, in order, before live
// messages.
func WithBacklog(key string) Option {
	return func(w *Watcher) {
		w.backlog = key
	}
}

// New creates a Watcher for the given channel.
func New(client *redis.Client, channel string, opts ...Option) *Watcher {
	w := &Watcher{
		client:  client,
		channel: channel,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Watch subscribes to the channel and returns a channel of message payloads.
// The subscription is confirmed before Watch returns, so messages published
// afterwards are delivered.
func (w *Watcher) Watch(ctx context.Context) (<-chan []byte, error) {
	pubsub := w.client.Subscribe(ctx, w.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", w.channel, err)
	}

	var backlog []string
	if w.backlog != "" {
		entries, err := w.client.LRange(ctx, w.backlog, 0, -1).Result()
		if err != nil {
			pubsub.Close()
			return nil, fmt.Errorf("failed to read backlog %s: %w", w.backlog, err)
		}
		backlog = entries
	}

	out := make(chan []byte)

	go func() {
		defer close(out)
		defer pubsub.Close()

		for _, entry := range backlog {
			select {
			case out <- []byte(entry):
			case <-ctx.Done():
				return
			}
		}

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
