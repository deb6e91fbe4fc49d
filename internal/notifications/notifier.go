// Package notifications publishes feed activity to Redis for downstream consumers.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"runtime/debug"
	"time"

	"devconnector/internal/observability"

	"github.com/redis/go-redis/v9"
)

// FeedChannel carries every feed event as JSON.
const FeedChannel = "feed:events"

// EventType names a feed mutation.
type EventType string

const (
	PostCreated    EventType = "post_created"
	PostDeleted    EventType = "post_deleted"
	PostLiked      EventType = "post_liked"
	PostUnliked    EventType = "post_unliked"
	CommentAdded   EventType = "comment_added"
	CommentRemoved EventType = "comment_removed"
)

// FeedEvent is the payload published on FeedChannel.
type FeedEvent struct {
	Type      EventType `json:"type"`
	PostID    uint      `json:"post_id"`
	UserID    uint      `json:"user_id"`
	CommentID uint      `json:"comment_id,omitempty"`
	At        time.Time `json:"at"`
}

// Notifier provides helpers to publish feed events into Redis channels
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
// A nil client turns every publish into a no-op.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishFeedEvent sends ev to FeedChannel, stamping At when unset.
func (n *Notifier) PublishFeedEvent(ctx context.Context, ev FeedEvent) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		observability.FeedEventsPublished.WithLabelValues(string(ev.Type), "error").Inc()
		return fmt.Errorf("marshal feed event: %w", err)
	}
	if err := n.rdb.Publish(ctx, FeedChannel, payload).Err(); err != nil {
		observability.FeedEventsPublished.WithLabelValues(string(ev.Type), "error").Inc()
		return err
	}
	observability.FeedEventsPublished.WithLabelValues(string(ev.Type), "ok").Inc()
	return nil
}

// Subscribe listens on FeedChannel until ctx is cancelled and calls onEvent for
// each decodable event. It returns once the subscription is confirmed.
// This is the entry point for consumers outside the API process; cmd/feedtail
// is one.
func (n *Notifier) Subscribe(ctx context.Context, onEvent func(FeedEvent)) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	sub := n.rdb.Subscribe(ctx, FeedChannel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe %s: %w", FeedChannel, err)
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev FeedEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					log.Printf("feed subscriber: dropping malformed payload: %v", err)
					continue
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in feed subscriber: %v\n%s", r, debug.Stack())
						}
					}()
					onEvent(ev)
				}()
			}
		}
	}()

	return nil
}
