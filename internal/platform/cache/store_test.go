package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestStoreGetOrLoadCachesValue(t *testing.T) {
	store := NewStore(time.Minute)
	ctx := context.Background()

	var loads atomic.Int64
	loader := func(context.Context) (any, error) {
		loads.Add(1)
		return 42, nil
	}

	for i := 0; i < 3; i++ {
		v, err := store.GetOrLoad(ctx, "team:KC:2024", loader)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v != 42 {
			t.Fatalf("unexpected value: %v", v)
		}
	}

	if got := loads.Load(); got != 1 {
		t.Fatalf("expected one load, got %d", got)
	}
}

func TestStoreGetOrLoadDoesNotCacheErrors(t *testing.T) {
	store := NewStore(time.Minute)
	ctx := context.Background()

	var loads atomic.Int64
	loader := func(context.Context) (any, error) {
		loads.Add(1)
		return nil, errors.New("provider down")
	}

	for i := 0; i < 2; i++ {
		if _, err := store.GetOrLoad(ctx, "k", loader); err == nil {
			t.Fatal("expected error")
		}
	}

	if got := loads.Load(); got != 2 {
		t.Fatalf("expected two loads, got %d", got)
	}
}

func TestStoreExpiry(t *testing.T) {
	store := NewStore(time.Nanosecond)
	ctx := context.Background()

	store.Set(ctx, "k", "v")
	time.Sleep(time.Millisecond)

	if _, ok := store.Get(ctx, "k"); ok {
		t.Fatal("expected entry to expire")
	}
}

func TestStoreEmptyKeyBypassesCache(t *testing.T) {
	store := NewStore(time.Minute)
	ctx := context.Background()

	var loads atomic.Int64
	for i := 0; i < 2; i++ {
		if _, err := store.GetOrLoad(ctx, "", func(context.Context) (any, error) {
			loads.Add(1)
			return nil, nil
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := loads.Load(); got != 2 {
		t.Fatalf("expected loader to run every time, got %d", got)
	}
}
