// Package feed carries full-collection snapshots over redis pub/sub. Every
// publish is the complete current state of one collection, never a diff, so
// subscribers reconcile by replacement.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const channelPrefix = "feed:"

type Feed struct {
	client *redis.Client
	log    *zap.Logger
}

func New(client *redis.Client, log *zap.Logger) *Feed {
	return &Feed{client: client, log: log}
}

// Publish marshals the snapshot and broadcasts it on the collection channel.
func (f *Feed) Publish(ctx context.Context, collection string, snapshot any) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal %s snapshot: %w", collection, err)
	}
	if err := f.client.Publish(ctx, channelPrefix+collection, data).Err(); err != nil {
		return fmt.Errorf("failed to publish %s snapshot: %w", collection, err)
	}
	return nil
}

// Subscribe opens the collection channel and relays raw snapshot payloads.
// The cancel func closes the subscription and the returned channel; calling
// it more than once is harmless.
func (f *Feed) Subscribe(ctx context.Context, collection string) (<-chan []byte, func(), error) {
	sub := f.client.Subscribe(ctx, channelPrefix+collection)

	// Confirm the subscription before handing out the channel, so no publish
	// between subscribe and first receive is missed.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("failed to subscribe to %s: %w", collection, err)
	}

	out := make(chan []byte)
	msgs := sub.Channel()
	done := make(chan struct{})

	go func() {
		defer close(out)
		for msg := range msgs {
			select {
			case out <- []byte(msg.Payload):
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			if err := sub.Close(); err != nil {
				f.log.Warn("failed to close subscription",
					zap.String("collection", collection), zap.Error(err))
			}
		})
	}
	return out, cancel, nil
}
