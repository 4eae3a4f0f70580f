package memory

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/scttfrdmn/inquire/agent"
)

func TestInMemoryStoreAppendList(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	if err := store.Append(ctx, "s1", agent.NewMessage("user", "first")); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := store.Append(ctx, "s1", agent.NewMessage("assistant", "second")); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := store.Append(ctx, "s2", agent.NewMessage("user", "other session")); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	msgs, err := store.List(ctx, "s1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[0].Content != "first" || msgs[1].Content != "second" {
		t.Errorf("order not preserved: %q, %q", msgs[0].Content, msgs[1].Content)
	}
}

func TestInMemoryStoreClear(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	if err := store.Append(ctx, "s1", agent.NewMessage("user", "x")); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := store.Clear(ctx, "s1"); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	msgs, err := store.List(ctx, "s1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("got %d messages after Clear, want 0", len(msgs))
	}
}

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStoreFromClient(client, WithTTL(time.Hour))
	t.Cleanup(func() { store.Close() })
	return store, mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	tool := agent.NewToolMessage("call-1", "web_search", "result text")
	if err := store.Append(ctx, "s1", agent.NewMessage("assistant", "searching")); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := store.Append(ctx, "s1", tool); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	msgs, err := store.List(ctx, "s1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[0].Content != "searching" {
		t.Errorf("first message = %q", msgs[0].Content)
	}
	if msgs[1].Role != "tool" || msgs[1].ToolCallID != "call-1" {
		t.Errorf("tool message not preserved: %+v", msgs[1])
	}
}

func TestRedisStoreSetsTTL(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	if err := store.Append(ctx, "s1", agent.NewMessage("user", "q")); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	ttl := mr.TTL(redisKeyPrefix + "s1")
	if ttl <= 0 || ttl > time.Hour {
		t.Errorf("ttl = %v, want (0, 1h]", ttl)
	}
}

func TestRedisStoreClear(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	if err := store.Append(ctx, "s1", agent.NewMessage("user", "q")); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := store.Clear(ctx, "s1"); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	msgs, err := store.List(ctx, "s1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("got %d messages after Clear, want 0", len(msgs))
	}
}
