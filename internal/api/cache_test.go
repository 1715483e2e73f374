package api

import (
	"testing"

	"github.com/eqcoach/eqcoach/internal/submission"
)

func TestResultCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewResultCache(2)
	c.Put("a", submission.Record{ID: "a"})
	c.Put("b", submission.Record{ID: "b"})

	// Touch a so b becomes the oldest.
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected a in cache")
	}
	c.Put("c", submission.Record{ID: "c"})

	if _, ok := c.Get("b"); ok {
		t.Error("expected b to be evicted")
	}
	for _, k := range []string{"a", "c"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("expected %s in cache", k)
		}
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
}

func TestResultCacheReplace(t *testing.T) {
	c := NewResultCache(2)
	c.Put("a", submission.Record{ID: "a", StorageRef: "old"})
	c.Put("a", submission.Record{ID: "a", StorageRef: "new"})

	rec, ok := c.Get("a")
	if !ok || rec.StorageRef != "new" {
		t.Errorf("Get(a) = %+v, %v", rec, ok)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestResultCacheFromEnv(t *testing.T) {
	t.Setenv("RESULT_CACHE_SIZE", "3")
	c := NewResultCacheFromEnv()
	if c.maxSize != 3 {
		t.Errorf("maxSize = %d, want 3", c.maxSize)
	}

	t.Setenv("RESULT_CACHE_SIZE", "bogus")
	if c := NewResultCacheFromEnv(); c.maxSize != 256 {
		t.Errorf("maxSize = %d, want default 256", c.maxSize)
	}
}
