package engagement

import (
	"context"
	"sync"
	"time"

	"github.com/pH-1491/Video-Backend/internal/models"
)

// StatsProvider produces channel statistics.
type StatsProvider interface {
	ChannelStats(ctx context.Context, channelID string) (models.ChannelStats, error)
}

type statsEntry struct {
	stats   models.ChannelStats
	expires time.Time
}

// CachingStatsProvider wraps another StatsProvider with a TTL-based
// in-memory cache keyed by channel id.
type CachingStatsProvider struct {
	base StatsProvider
	ttl  time.Duration

	mu    sync.RWMutex
	items map[string]statsEntry
}

var _ StatsProvider = (*CachingStatsProvider)(nil)

// NewCachingStatsProvider returns a StatsProvider that caches aggregates for
// the provided TTL.
func NewCachingStatsProvider(base StatsProvider, ttl time.Duration) *CachingStatsProvider {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CachingStatsProvider{
		base:  base,
		ttl:   ttl,
		items: make(map[string]statsEntry),
	}
}

// ChannelStats returns cached statistics when fresh, otherwise it delegates
// to the underlying provider and stores the result.
func (c *CachingStatsProvider) ChannelStats(ctx context.Context, channelID string) (models.ChannelStats, error) {
	now := time.Now()

	c.mu.RLock()
	entry, ok := c.items[channelID]
	c.mu.RUnlock()
	if ok && now.Before(entry.expires) {
		return entry.stats, nil
	}

	stats, err := c.base.ChannelStats(ctx, channelID)
	if err != nil {
		return models.ChannelStats{}, err
	}

	c.mu.Lock()
	c.items[channelID] = statsEntry{stats: stats, expires: now.Add(c.ttl)}
	c.mu.Unlock()

	return stats, nil
}
