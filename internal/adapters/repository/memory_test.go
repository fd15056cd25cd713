package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/usersapi/internal/domain/ids"
	"github.com/okian/usersapi/internal/domain/model"
)

func newTestStore(t *testing.T, opts ...Option) *MemoryStore {
	t.Helper()
	s, err := NewMemoryStore(context.Background(), opts...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}

func ptr[T any](v T) *T { return &v }

func TestMemoryStore_Seeded(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	users := store.List(ctx)
	if len(users) != 4 {
		t.Fatalf("expected 4 seeded users, got %d", len(users))
	}
	for i, sd := range DefaultSeed() {
		if users[i].Name != sd.Name || users[i].Age != sd.Age {
			t.Errorf("seed %d: expected %s/%v, got %s/%v", i, sd.Name, sd.Age, users[i].Name, users[i].Age)
		}
		if users[i].ID == "" {
			t.Errorf("seed %d: empty id", i)
		}
	}
	if count := store.Count(ctx); count != 4 {
		t.Errorf("expected count 4, got %d", count)
	}
}

func TestMemoryStore_InsertAndGet(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	u, err := store.Insert(ctx, "Amy", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID == "" || u.Name != "Amy" || u.Age != 30 {
		t.Fatalf("unexpected user: %+v", u)
	}
	if count := store.Count(ctx); count != 5 {
		t.Errorf("expected count 5, got %d", count)
	}

	got, err := store.Get(ctx, u.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != u {
		t.Errorf("expected %+v, got %+v", u, got)
	}

	seen := map[string]bool{}
	for _, x := range store.List(ctx) {
		if seen[x.ID] {
			t.Errorf("duplicate id %s", x.ID)
		}
		seen[x.ID] = true
	}
}

func TestMemoryStore_InsertDuplicateName(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.Insert(ctx, "John", 99)
	if !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
	if count := store.Count(ctx); count != 4 {
		t.Errorf("duplicate insert must not append; count %d", count)
	}
}

func TestMemoryStore_GetMissing(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_Remove(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	before := store.List(ctx)
	victim := before[1]

	removed, err := store.Remove(ctx, victim.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed != victim {
		t.Errorf("expected %+v removed, got %+v", victim, removed)
	}

	after := store.List(ctx)
	if len(after) != 3 {
		t.Fatalf("expected 3 users, got %d", len(after))
	}
	want := []model.User{before[0], before[2], before[3]}
	for i := range want {
		if after[i] != want[i] {
			t.Errorf("position %d: expected %+v, got %+v", i, want[i], after[i])
		}
	}

	// The name is free again.
	if _, err := store.Insert(ctx, victim.Name, 1); err != nil {
		t.Errorf("expected name %q to be reusable, got %v", victim.Name, err)
	}
}

func TestMemoryStore_RemoveMissing(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if _, err := store.Remove(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if count := store.Count(ctx); count != 4 {
		t.Errorf("collection changed; count %d", count)
	}
}

func TestMemoryStore_Update(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	john := store.List(ctx)[0]

	got, err := store.Update(ctx, john.ID, model.Patch{Age: ptr(26.0)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != john.Name || got.Age != 26 || got.ID != john.ID {
		t.Errorf("partial update merged wrong: %+v", got)
	}

	got, err = store.Update(ctx, john.ID, model.Patch{Name: ptr("Johnny")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Johnny" || got.Age != 26 {
		t.Errorf("rename merged wrong: %+v", got)
	}

	// Old name released, new one taken.
	if _, err := store.Insert(ctx, "John", 1); err != nil {
		t.Errorf("expected old name to be free: %v", err)
	}
	if _, err := store.Insert(ctx, "Johnny", 1); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("expected new name to be taken, got %v", err)
	}
}

func TestMemoryStore_UpdateKeepsOwnName(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	jane := store.List(ctx)[1]

	if _, err := store.Update(ctx, jane.ID, model.Patch{Name: ptr("Jane"), Age: ptr(31.0)}); err != nil {
		t.Fatalf("renaming to own name must succeed: %v", err)
	}
}

func TestMemoryStore_UpdateConflictAndMissing(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	before := store.List(ctx)

	if _, err := store.Update(ctx, before[0].ID, model.Patch{Name: ptr("Jane")}); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("expected ErrDuplicateName, got %v", err)
	}
	if _, err := store.Update(ctx, "nope", model.Patch{Age: ptr(1.0)}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	after := store.List(ctx)
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("position %d changed: %+v -> %+v", i, before[i], after[i])
		}
	}
}

func TestMemoryStore_Reset(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	original := store.List(ctx)

	_, _ = store.Insert(ctx, "Amy", 30)
	_, _ = store.Remove(ctx, original[0].ID)
	_, _ = store.Update(ctx, original[2].ID, model.Patch{Name: ptr("Robert"), Age: ptr(36.0)})

	store.Reset(ctx)

	restored := store.List(ctx)
	if len(restored) != len(original) {
		t.Fatalf("expected %d users, got %d", len(original), len(restored))
	}
	for i := range original {
		if restored[i] != original[i] {
			t.Errorf("position %d: expected %+v, got %+v", i, original[i], restored[i])
		}
	}

	// Names from the discarded state are free, seed names are taken.
	if _, err := store.Insert(ctx, "Robert", 1); err != nil {
		t.Errorf("expected Robert to be free after reset: %v", err)
	}
	if _, err := store.Insert(ctx, "Bob", 1); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("expected Bob to be taken after reset, got %v", err)
	}
}

func TestMemoryStore_ListReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	users := store.List(ctx)
	users[0].Name = "mutated"

	if store.List(ctx)[0].Name == "mutated" {
		t.Error("List must not expose internal state")
	}
}

func TestMemoryStore_Options(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t,
		WithSeed([]Seed{{Name: "Only", Age: 1}}),
		WithIDGenerator(ids.NewCounter("u-")),
	)

	users := store.List(ctx)
	if len(users) != 1 || users[0].ID != "u-1" {
		t.Fatalf("unexpected seed: %+v", users)
	}
	u, _ := store.Insert(ctx, "Next", 2)
	if u.ID != "u-2" {
		t.Errorf("expected id u-2, got %s", u.ID)
	}

	empty := newTestStore(t, WithSeed([]Seed{}))
	if empty.Count(ctx) != 0 {
		t.Errorf("expected empty store")
	}
}

func TestMemoryStore_InvalidSeed(t *testing.T) {
	_, err := NewMemoryStore(context.Background(), WithSeed([]Seed{{Name: "A"}, {Name: "A"}}))
	if !errors.Is(err, ErrInvalidSeed) {
		t.Errorf("expected ErrInvalidSeed, got %v", err)
	}
}

func TestMemoryStore_ConcurrentInserts(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, WithSeed([]Seed{}))

	const workers, per = 8, 50
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < per; i++ {
				if _, err := store.Insert(ctx, fmt.Sprintf("user-%d-%d", w, i), float64(i)); err != nil {
					t.Errorf("insert failed: %v", err)
				}
				// Contended name: only one insert may win overall.
				_, _ = store.Insert(ctx, "shared", 0)
			}
		}(w)
	}
	wg.Wait()

	if count := store.Count(ctx); count != workers*per+1 {
		t.Errorf("expected %d users, got %d", workers*per+1, count)
	}
}
