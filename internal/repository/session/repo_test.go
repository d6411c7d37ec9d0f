package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/recipedex/internal/db/memory"
)

// failingStore returns err from every call.
type failingStore struct{ err error }

func (f *failingStore) HSetWithTTL(context.Context, string, map[string]string, time.Duration) error {
	return f.err
}

func (f *failingStore) HGetAll(context.Context, string) (map[string]string, error) {
	return nil, f.err
}

func (f *failingStore) HDel(context.Context, string, ...string) error { return f.err }

func (f *failingStore) Del(context.Context, string) error { return f.err }

func (f *failingStore) Exists(context.Context, string) (bool, error) { return false, f.err }

func TestCreateExistsDelete(t *testing.T) {
	repo := New(memory.NewStore(memory.Config{}), time.Hour)
	ctx := context.Background()

	if ok, _ := repo.Exists(ctx, "s1"); ok {
		t.Fatal("session should not exist before Create")
	}
	if err := repo.Create(ctx, "s1"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if ok, _ := repo.Exists(ctx, "s1"); !ok {
		t.Fatal("session should exist after Create")
	}
	if err := repo.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if ok, _ := repo.Exists(ctx, "s1"); ok {
		t.Fatal("session should not exist after Delete")
	}
}

func TestSlots_SetLoadClear(t *testing.T) {
	repo := New(memory.NewStore(memory.Config{}), time.Hour)
	ctx := context.Background()
	_ = repo.Create(ctx, "s1")

	slots := repo.Slots("s1")
	if err := slots.Set(ctx, "recipe.state.query.key", "beef"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := slots.Set(ctx, "recipe.state.page.key", "2"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	m, err := slots.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(m) != 2 || m["recipe.state.query.key"] != "beef" || m["recipe.state.page.key"] != "2" {
		t.Errorf("unexpected slots: %v", m)
	}

	if err := slots.Clear(ctx, "recipe.state.query.key"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	m, _ = slots.Load(ctx)
	if _, ok := m["recipe.state.query.key"]; ok {
		t.Errorf("slot should be cleared: %v", m)
	}
}

func TestSlots_IsolatedPerSession(t *testing.T) {
	repo := New(memory.NewStore(memory.Config{}), time.Hour)
	ctx := context.Background()

	_ = repo.Slots("a").Set(ctx, "q", "soup")
	m, _ := repo.Slots("b").Load(ctx)
	if len(m) != 0 {
		t.Errorf("session b must not see session a slots: %v", m)
	}
}

func TestErrorsAreWrapped(t *testing.T) {
	boom := errors.New("boom")
	repo := New(&failingStore{err: boom}, time.Hour)
	ctx := context.Background()

	if err := repo.Create(ctx, "s"); !errors.Is(err, boom) {
		t.Errorf("Create: %v", err)
	}
	if _, err := repo.Exists(ctx, "s"); !errors.Is(err, boom) {
		t.Errorf("Exists: %v", err)
	}
	if err := repo.Delete(ctx, "s"); !errors.Is(err, boom) {
		t.Errorf("Delete: %v", err)
	}
	if _, err := repo.Slots("s").Load(ctx); !errors.Is(err, boom) {
		t.Errorf("Load: %v", err)
	}
	if err := repo.Slots("s").Set(ctx, "k", "v"); !errors.Is(err, boom) {
		t.Errorf("Set: %v", err)
	}
	if err := repo.Slots("s").Clear(ctx, "k"); !errors.Is(err, boom) {
		t.Errorf("Clear: %v", err)
	}
}

func TestSessionKey(t *testing.T) {
	if got := sessionKey("abc"); got != "recipedex:session:abc" {
		t.Errorf("sessionKey = %q", got)
	}
}
