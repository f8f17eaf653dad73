package storage

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
)

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return client
}

func TestRedisGetString_Default(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(client, "test_prefs")

	// Setup
	client.Del(ctx, "test_prefs:missing")

	value, err := adapter.GetString(ctx, "missing", "{}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != "{}" {
		t.Errorf("expected default, got %q", value)
	}
}

func TestRedisPutString_Replaces(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(client, "test_prefs")

	// Setup
	client.Del(ctx, "test_prefs:inventory_json")

	if err := adapter.PutString(ctx, "inventory_json", `{"apples":5}`); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := adapter.PutString(ctx, "inventory_json", `{"apples":8}`); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	// Verify
	raw, _ := client.Get(ctx, "test_prefs:inventory_json").Result()
	if raw != `{"apples":8}` {
		t.Errorf("expected replaced value, got %q", raw)
	}

	value, err := adapter.GetString(ctx, "inventory_json", "{}")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if value != `{"apples":8}` {
		t.Errorf("expected %q, got %q", `{"apples":8}`, value)
	}

	client.Del(ctx, "test_prefs:inventory_json")
}

func TestRedisNamespaces_Isolated(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	a := NewRedisAdapter(client, "ns_a")
	b := NewRedisAdapter(client, "ns_b")

	// Setup
	client.Del(ctx, "ns_a:k", "ns_b:k")

	a.PutString(ctx, "k", "from-a")

	value, err := b.GetString(ctx, "k", "none")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != "none" {
		t.Errorf("expected namespace isolation, got %q", value)
	}

	client.Del(ctx, "ns_a:k")
}
