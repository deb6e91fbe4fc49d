// Command feedtail subscribes to the feed event channel and logs each event.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"devconnector/internal/cache"
	"devconnector/internal/config"
	"devconnector/internal/middleware"
	"devconnector/internal/notifications"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	middleware.Logger = middleware.NewLogger(cfg.Env, os.Stdout)

	rdb, err := cache.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Invalid REDIS_URL: %v", err)
	}
	defer func() { _ = rdb.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	err = rdb.Ping(pingCtx).Err()
	cancel()
	if err != nil {
		log.Fatalf("Redis unreachable: %v", err)
	}

	err = notifications.NewNotifier(rdb).Subscribe(ctx, func(ev notifications.FeedEvent) {
		middleware.Logger.Info("feed event",
			"type", string(ev.Type),
			"post_id", ev.PostID,
			"user_id", ev.UserID,
			"comment_id", ev.CommentID,
			"at", ev.At,
		)
	})
	if err != nil {
		log.Fatalf("Failed to subscribe: %v", err)
	}
	middleware.Logger.Info("tailing feed events", "channel", notifications.FeedChannel)

	<-ctx.Done()
	middleware.Logger.Info("feedtail stopped")
}
