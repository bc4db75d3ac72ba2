package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type snapshot struct {
	TotalRecords int64  `json:"total_records"`
	Cost         string `json:"cost"`
}

func newTestCache(t *testing.T) (*StatsCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewStatsCache(rdb, time.Minute), mr
}

func TestStatsCache(t *testing.T) {
	ctx := context.Background()

	t.Run("miss then hit", func(t *testing.T) {
		c, _ := newTestCache(t)
		var got snapshot
		hit, err := c.Get(ctx, &got)
		if err != nil || hit {
			t.Fatalf("Expected a clean miss, got hit=%v err=%v", hit, err)
		}

		if err := c.Set(ctx, 0, snapshot{TotalRecords: 3, Cost: "100.50"}); err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
		hit, err = c.Get(ctx, &got)
		if err != nil || !hit {
			t.Fatalf("Expected a hit, got hit=%v err=%v", hit, err)
		}
		if got.TotalRecords != 3 || got.Cost != "100.50" {
			t.Errorf("Unexpected cached value %+v", got)
		}
	})

	t.Run("invalidate clears the entry", func(t *testing.T) {
		c, _ := newTestCache(t)
		c.Set(ctx, 0, snapshot{TotalRecords: 1})
		if err := c.Invalidate(ctx); err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
		var got snapshot
		if hit, _ := c.Get(ctx, &got); hit {
			t.Error("Expected a miss after invalidation")
		}
	})

	t.Run("entries expire", func(t *testing.T) {
		c, mr := newTestCache(t)
		c.Set(ctx, 0, snapshot{TotalRecords: 1})
		mr.FastForward(2 * time.Minute)
		var got snapshot
		if hit, _ := c.Get(ctx, &got); hit {
			t.Error("Expected the entry to expire after its TTL")
		}
	})

	t.Run("snapshots from an old generation are dropped", func(t *testing.T) {
		c, _ := newTestCache(t)
		gen, err := c.Generation(ctx)
		if err != nil || gen != 0 {
			t.Fatalf("Expected generation 0, got %d (%v)", gen, err)
		}
		if err := c.Invalidate(ctx); err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
		if err := c.Set(ctx, gen, snapshot{TotalRecords: 1}); err != nil {
			t.Fatalf("Expected a dropped write to succeed quietly, got %v", err)
		}
		var got snapshot
		if hit, _ := c.Get(ctx, &got); hit {
			t.Error("Expected a snapshot computed before the invalidation not to be stored")
		}

		next, _ := c.Generation(ctx)
		if next != gen+1 {
			t.Fatalf("Expected generation %d, got %d", gen+1, next)
		}
		c.Set(ctx, next, snapshot{TotalRecords: 2})
		if hit, _ := c.Get(ctx, &got); !hit || got.TotalRecords != 2 {
			t.Errorf("Expected the current generation to be stored, got hit=%v %+v", hit, got)
		}
	})
}
