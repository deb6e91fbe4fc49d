package service

import (
	"context"
	"log/slog"

	"devconnector/internal/notifications"
)

// FeedPublisher receives feed mutations after they are committed.
type FeedPublisher interface {
	PublishFeedEvent(ctx context.Context, ev notifications.FeedEvent) error
}

// publish never fails the request; a lost event is only logged.
func publish(ctx context.Context, p FeedPublisher, ev notifications.FeedEvent) {
	if p == nil {
		return
	}
	if err := p.PublishFeedEvent(ctx, ev); err != nil {
		slog.WarnContext(ctx, "failed to publish feed event",
			"type", string(ev.Type), "post_id", ev.PostID, "err", err)
	}
}
