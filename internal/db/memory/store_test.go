package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pricewise/pricesearch/internal/db"
)

func TestStore_GetSet(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	if _, err := s.Get(ctx, "k"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Fatalf("Get(missing) error = %v", err)
	}

	v := []byte("value")
	if err := s.Set(ctx, "k", v); err != nil {
		t.Fatal(err)
	}
	v[0] = 'X'

	got, err := s.Get(ctx, "k")
	if err != nil || string(got) != "value" {
		t.Fatalf("Get() = %q, %v", got, err)
	}

	if err := s.Del(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if ok, _ := s.Exists(ctx, "k"); ok {
		t.Error("key still exists after Del")
	}
}

func TestStore_TTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewStore()
	s.now = func() time.Time { return now }

	if err := s.SetWithTTL(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if ok, _ := s.Exists(ctx, "k"); !ok {
		t.Fatal("key should exist before expiry")
	}

	now = now.Add(time.Minute)
	if _, err := s.Get(ctx, "k"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("Get() after expiry error = %v", err)
	}
}
