// Package rediscache is the local fallback persistence: the same four keys
// the browser dashboard keeps in local storage, written after a successful
// reconciliation and read back on reload when the database is unavailable.
package rediscache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/GermanFOSSIL/precom-planner-backend/internal/precom/domain"
)

const (
	keyProjects   = "projects"
	keyActivities = "activities"
	keyITRItems   = "itrbItems" // historical key name, kept for compatibility
	keyTimestamp  = "timestamp"
)

// Cache stores snapshot collections as JSON blobs.
type Cache struct {
	client *redis.Client
}

// New wraps a redis client.
func New(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// SaveSnapshot writes all collections plus a write timestamp in one
// pipeline.
func (c *Cache) SaveSnapshot(ctx context.Context, snap domain.Snapshot) error {
	projects, err := json.Marshal(snap.Projects)
	if err != nil {
		return fmt.Errorf("marshal projects: %w", err)
	}
	activities, err := json.Marshal(snap.Activities)
	if err != nil {
		return fmt.Errorf("marshal activities: %w", err)
	}
	itrs, err := json.Marshal(snap.ITRs)
	if err != nil {
		return fmt.Errorf("marshal itr items: %w", err)
	}

	pipe := c.client.Pipeline()
	pipe.Set(ctx, keyProjects, projects, 0)
	pipe.Set(ctx, keyActivities, activities, 0)
	pipe.Set(ctx, keyITRItems, itrs, 0)
	pipe.Set(ctx, keyTimestamp, time.Now().UnixMilli(), 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads the cached collections. Missing keys yield empty
// collections, not errors, so a cold cache behaves like an empty store.
func (c *Cache) LoadSnapshot(ctx context.Context) (domain.Snapshot, error) {
	snap := domain.Snapshot{KPIConfig: domain.KPIConfig{}}

	if err := c.readInto(ctx, keyProjects, &snap.Projects); err != nil {
		return domain.Snapshot{}, err
	}
	if err := c.readInto(ctx, keyActivities, &snap.Activities); err != nil {
		return domain.Snapshot{}, err
	}
	if err := c.readInto(ctx, keyITRItems, &snap.ITRs); err != nil {
		return domain.Snapshot{}, err
	}
	return snap, nil
}

// SavedAt returns the timestamp of the last write, or the zero time for a
// cold cache.
func (c *Cache) SavedAt(ctx context.Context) (time.Time, error) {
	millis, err := c.client.Get(ctx, keyTimestamp).Int64()
	if err == redis.Nil {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("get %s: %w", keyTimestamp, err)
	}
	return time.UnixMilli(millis), nil
}

func (c *Cache) readInto(ctx context.Context, key string, dst any) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return nil
}
