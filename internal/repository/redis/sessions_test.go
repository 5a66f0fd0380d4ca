package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/alexandre-hallaine/Camagru/internal/core/domain"
	"github.com/alexandre-hallaine/Camagru/internal/repository"
)

func newTestStore(t *testing.T, ttl time.Duration) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()

	srv, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run: %v", err)
	}
	t.Cleanup(srv.Close)

	client := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewSessionStore(client, "test:session", ttl), srv
}

func TestSessionStore_SaveAndGet(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)

	session := domain.Session{
		ID:        "sid-1",
		UserID:    "user-1",
		CSRFToken: "csrf-1",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	if err := store.Save(context.Background(), session); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	got, err := store.Get(context.Background(), "sid-1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.UserID != "user-1" || got.CSRFToken != "csrf-1" {
		t.Fatalf("unexpected session: %+v", got)
	}
	if !got.CreatedAt.Equal(session.CreatedAt) {
		t.Fatalf("expected created_at to round-trip, got %v", got.CreatedAt)
	}
}

func TestSessionStore_SaveRotatesCSRFInPlace(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)

	session := domain.Session{ID: "sid-1", UserID: "user-1", CreatedAt: time.Now().UTC()}
	if err := store.Save(context.Background(), session); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	session.CSRFToken = "fresh-token"
	if err := store.Save(context.Background(), session); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	got, err := store.Get(context.Background(), "sid-1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.CSRFToken != "fresh-token" {
		t.Fatalf("expected rotated token, got %q", got.CSRFToken)
	}
}

func TestSessionStore_GetMissing(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)

	if _, err := store.Get(context.Background(), "ghost"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSessionStore_Delete(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)

	session := domain.Session{ID: "sid-1", UserID: "user-1", CreatedAt: time.Now().UTC()}
	if err := store.Save(context.Background(), session); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	if err := store.Delete(context.Background(), "sid-1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := store.Get(context.Background(), "sid-1"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected session gone, got %v", err)
	}

	// Deleting again is a no-op.
	if err := store.Delete(context.Background(), "sid-1"); err != nil {
		t.Fatalf("expected idempotent delete, got %v", err)
	}
}

func TestSessionStore_TTLExpiry(t *testing.T) {
	store, srv := newTestStore(t, time.Minute)

	session := domain.Session{ID: "sid-1", UserID: "user-1", CreatedAt: time.Now().UTC()}
	if err := store.Save(context.Background(), session); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	srv.FastForward(2 * time.Minute)

	if _, err := store.Get(context.Background(), "sid-1"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected expired session to be gone, got %v", err)
	}
}
