package engagement

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pH-1491/Video-Backend/internal/models"
)

type countingStatsProvider struct {
	stats models.ChannelStats
	err   error
	calls int
}

func (c *countingStatsProvider) ChannelStats(context.Context, string) (models.ChannelStats, error) {
	c.calls++
	if c.err != nil {
		return models.ChannelStats{}, c.err
	}
	return c.stats, nil
}

func TestCachingStatsProviderServesFromCache(t *testing.T) {
	base := &countingStatsProvider{stats: models.ChannelStats{SubscriberCount: 3, VideoCount: 2, ViewTotal: 120, LikeTotal: 7}}
	cached := NewCachingStatsProvider(base, time.Minute)
	ctx := context.Background()

	first, err := cached.ChannelStats(ctx, "channel-1")
	if err != nil {
		t.Fatalf("ChannelStats returned error: %v", err)
	}
	second, err := cached.ChannelStats(ctx, "channel-1")
	if err != nil {
		t.Fatalf("ChannelStats returned error: %v", err)
	}

	if base.calls != 1 {
		t.Fatalf("expected a single base call, got %d", base.calls)
	}
	if first != second {
		t.Fatalf("expected identical cached stats, got %+v and %+v", first, second)
	}
}

func TestCachingStatsProviderKeysByChannel(t *testing.T) {
	base := &countingStatsProvider{}
	cached := NewCachingStatsProvider(base, time.Minute)
	ctx := context.Background()

	if _, err := cached.ChannelStats(ctx, "channel-1"); err != nil {
		t.Fatalf("ChannelStats returned error: %v", err)
	}
	if _, err := cached.ChannelStats(ctx, "channel-2"); err != nil {
		t.Fatalf("ChannelStats returned error: %v", err)
	}

	if base.calls != 2 {
		t.Fatalf("expected one base call per channel, got %d", base.calls)
	}
}

func TestCachingStatsProviderDoesNotCacheErrors(t *testing.T) {
	base := &countingStatsProvider{err: errors.New("store down")}
	cached := NewCachingStatsProvider(base, time.Minute)
	ctx := context.Background()

	if _, err := cached.ChannelStats(ctx, "channel-1"); err == nil {
		t.Fatal("expected error from base provider")
	}

	base.err = nil
	if _, err := cached.ChannelStats(ctx, "channel-1"); err != nil {
		t.Fatalf("expected recovery after base error, got %v", err)
	}
	if base.calls != 2 {
		t.Fatalf("expected errors to bypass the cache, got %d calls", base.calls)
	}
}
