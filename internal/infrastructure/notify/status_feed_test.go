package notify

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"offer_sniper/internal/domain/entity"
)

func testFeed(t *testing.T) *StatusFeed {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR is not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr}) //nolint:exhaustruct
	require.NoError(t, client.Ping(context.Background()).Err())
	t.Cleanup(func() { _ = client.Close() })

	return NewStatusFeed(client)
}

func TestStatusFeedDeliversValidStatuses(t *testing.T) {
	rq := require.New(t)
	feed := testFeed(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	updates, unsubscribe := feed.Subscribe(ctx, "sniper@example.com")
	defer unsubscribe()

	// Подписка в go-redis асинхронная: даём ей подняться.
	time.Sleep(100 * time.Millisecond)

	rq.NoError(feed.Publish(ctx, "sniper@example.com", entity.StatusStopped))

	select {
	case status := <-updates:
		rq.Equal(entity.StatusStopped, status)
	case <-ctx.Done():
		t.Fatal("timed out waiting for status update")
	}
}

func TestStatusFeedDropsGarbage(t *testing.T) {
	rq := require.New(t)
	feed := testFeed(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	updates, unsubscribe := feed.Subscribe(ctx, "sniper@example.com")
	defer unsubscribe()

	time.Sleep(100 * time.Millisecond)

	rq.NoError(feed.client.Publish(ctx, channelFor("sniper@example.com"), "NOT_A_STATUS").Err())
	rq.NoError(feed.Publish(ctx, "sniper@example.com", entity.StatusRunning))

	select {
	case status := <-updates:
		rq.Equal(entity.StatusRunning, status)
	case <-ctx.Done():
		t.Fatal("timed out waiting for status update")
	}
}
