package repository

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/okian/feeshock/internal/domain/model"
)

func testSnapshot() Snapshot {
	return Snapshot{
		RunID:       "run-1",
		CompletedAt: time.Date(2025, 9, 21, 0, 0, 0, 0, time.UTC),
		Years:       []model.YearSummary{{Year: 2020, Applications: 10}},
		Profiles: []model.EmployerProfile{
			{Key: "gamma", Name: "Gamma", TotalApprovals: 5},
			{Key: "alpha", Name: "Alpha", TotalApprovals: 10},
			{Key: "beta", Name: "Beta", TotalApprovals: 10},
			{Key: "delta", Name: "Delta", TotalApprovals: 1},
		},
	}
}

func TestMemoryStore_Empty(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if count := store.Count(ctx); count != 0 {
		t.Errorf("expected count 0, got %d", count)
	}
	if _, err := store.Snapshot(ctx); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("expected ErrNoSnapshot, got %v", err)
	}
	if _, err := store.Employer(ctx, "alpha"); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("expected ErrNoSnapshot, got %v", err)
	}
	if _, err := store.TopN(ctx, 5); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("expected ErrNoSnapshot, got %v", err)
	}
	if _, err := store.TopN(ctx, 0); !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("expected ErrInvalidLimit before the snapshot check, got %v", err)
	}
}

func TestMemoryStore_Ranking(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Replace(ctx, testSnapshot()); err != nil {
		t.Fatalf("replace: %v", err)
	}

	entries, err := store.TopN(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []struct {
		key  string
		rank int
	}{{"alpha", 1}, {"beta", 1}, {"gamma", 2}, {"delta", 3}}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	for i, w := range want {
		if entries[i].Key != w.key || entries[i].Rank != w.rank {
			t.Errorf("entry %d: expected %s@%d, got %s@%d", i, w.key, w.rank, entries[i].Key, entries[i].Rank)
		}
	}

	top2, _ := store.TopN(ctx, 2)
	if len(top2) != 2 || top2[1].Key != "beta" {
		t.Errorf("unexpected top 2: %+v", top2)
	}

	if _, err := store.TopN(ctx, 0); !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("expected ErrInvalidLimit, got %v", err)
	}
}

func TestMemoryStore_Lookup(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(WithKeyFunc(func(name string) (string, error) {
		if strings.TrimSpace(name) == "" {
			return "", errors.New("empty")
		}
		return strings.ToLower(strings.TrimSpace(name)), nil
	}))
	_ = store.Replace(ctx, testSnapshot())

	entry, err := store.Employer(ctx, "  GAMMA ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Name != "Gamma" || entry.Rank != 2 {
		t.Errorf("unexpected entry: %+v", entry)
	}

	if _, err := store.Employer(ctx, " "); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unkeyable name, got %v", err)
	}
	if _, err := store.Employer(ctx, "omega"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_ReplaceIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	snap := testSnapshot()
	_ = store.Replace(ctx, snap)

	top, _ := store.TopN(ctx, 1)
	top[0].Name = "mutated"
	again, _ := store.TopN(ctx, 1)
	if again[0].Name != "Alpha" {
		t.Errorf("TopN result aliases store state")
	}

	next := testSnapshot()
	next.RunID = "run-2"
	next.Profiles = next.Profiles[:1]
	_ = store.Replace(ctx, next)

	got, _ := store.Snapshot(ctx)
	if got.RunID != "run-2" {
		t.Errorf("expected run-2, got %s", got.RunID)
	}
	if count := store.Count(ctx); count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	_ = store.Replace(ctx, testSnapshot())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, _ = store.TopN(ctx, 3)
				_, _ = store.Employer(ctx, "beta")
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_ = store.Replace(ctx, testSnapshot())
			}
		}()
	}
	wg.Wait()

	if count := store.Count(ctx); count != 4 {
		t.Errorf("expected count 4, got %d", count)
	}
}
