package cache

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(10, 0)
	defer m.Close()

	if _, ok, _ := m.Get(ctx, "k"); ok {
		t.Fatal("empty cache should miss")
	}
	m.Set(ctx, "k", []byte("v"), time.Minute)
	v, ok, err := m.Get(ctx, "k")
	if err != nil || !ok || string(v) != "v" {
		t.Fatalf("Get = %q, %v, %v", v, ok, err)
	}
	hits, misses := m.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("stats = %d/%d, want 1/1", hits, misses)
	}

	m.Delete(ctx, "k")
	if _, ok, _ := m.Get(ctx, "k"); ok {
		t.Fatal("deleted key should miss")
	}
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	m := NewMemory(10, 0)
	m.now = func() time.Time { return now }

	m.Set(ctx, "k", []byte("v"), time.Second)
	now = now.Add(2 * time.Second)
	if _, ok, _ := m.Get(ctx, "k"); ok {
		t.Fatal("expired key should miss")
	}
	if m.Len() != 0 {
		t.Errorf("expired entry not removed, len = %d", m.Len())
	}
}

func TestMemorySweepEnforcesMaxSize(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(3, 0)
	for i := 0; i < 5; i++ {
		m.Set(ctx, fmt.Sprintf("k%d", i), []byte("v"), time.Duration(i+1)*time.Minute)
	}
	m.sweep()
	if m.Len() != 3 {
		t.Fatalf("len = %d, want 3", m.Len())
	}
	// shortest-lived entries are evicted first
	if _, ok, _ := m.Get(ctx, "k0"); ok {
		t.Error("k0 should have been evicted")
	}
	if _, ok, _ := m.Get(ctx, "k4"); !ok {
		t.Error("k4 should survive")
	}
}

func TestMemoryMultiple(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(10, 0)
	m.SetMultiple(ctx, map[string][]byte{"a": []byte("1"), "b": []byte("2")}, time.Minute)
	got, err := m.GetMultiple(ctx, []string{"a", "b", "c"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || string(got["a"]) != "1" || string(got["b"]) != "2" {
		t.Errorf("GetMultiple = %v", got)
	}
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(10, 0)
	type item struct{ Name string }

	if err := SetJSON(ctx, m, "x", item{Name: "alice"}, time.Minute); err != nil {
		t.Fatal(err)
	}
	got, ok := GetJSON[item](ctx, m, "x")
	if !ok || got.Name != "alice" {
		t.Errorf("GetJSON = %+v, %v", got, ok)
	}

	m.Set(ctx, "bad", []byte("{"), time.Minute)
	if _, ok := GetJSON[item](ctx, m, "bad"); ok {
		t.Error("corrupt value should be a miss")
	}
}

func TestRedisKeyPrefix(t *testing.T) {
	r := NewRedis(nil, "waves:")
	if got := r.Key("feed:explore"); got != "waves:feed:explore" {
		t.Errorf("Key = %q", got)
	}
}
