package repository

import (
	"context"
	"sync"

	"github.com/okian/feeshock/internal/domain/summary"
	"github.com/okian/feeshock/pkg/metrics"
)

// MemoryStore is an in-memory Store. Ordering: approvals DESC, then key ASC.
type MemoryStore struct {
	mu     sync.RWMutex
	snap   *Snapshot
	ranked []Entry
	byKey  map[string]int // key -> index into ranked
	keyOf  func(string) (string, error)
}

// NewMemoryStore creates an empty store. Without WithKeyFunc, lookups match
// stored keys exactly.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		byKey: map[string]int{},
		keyOf: func(name string) (string, error) { return name, nil },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Replace ranks snap's profiles and makes snap current.
func (s *MemoryStore) Replace(_ context.Context, snap Snapshot) error {
	profiles := summary.TopEmployers(snap.Profiles, len(snap.Profiles))
	ranked := make([]Entry, len(profiles))
	byKey := make(map[string]int, len(profiles))
	for i, p := range profiles {
		ranked[i] = Entry{EmployerProfile: p}
		byKey[p.Key] = i
	}
	assignRanksWithTies(ranked)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = &snap
	s.ranked = ranked
	s.byKey = byKey
	return nil
}

// Snapshot returns the current run.
func (s *MemoryStore) Snapshot(_ context.Context) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return Snapshot{}, ErrNoSnapshot
	}
	return *s.snap, nil
}

// Employer looks name up by its normalized key. Before the first Replace it
// returns ErrNoSnapshot.
func (s *MemoryStore) Employer(_ context.Context, name string) (Entry, error) {
	key, err := s.keyOf(name)
	if err != nil {
		return Entry{}, ErrNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return Entry{}, ErrNoSnapshot
	}
	i, ok := s.byKey[key]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return s.ranked[i], nil
}

// TopN returns up to n ranked employers. n below one is ErrInvalidLimit;
// before the first Replace it returns ErrNoSnapshot.
func (s *MemoryStore) TopN(_ context.Context, n int) ([]Entry, error) {
	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return nil, ErrNoSnapshot
	}
	n = min(n, len(s.ranked))
	out := make([]Entry, n)
	copy(out, s.ranked[:n])
	return out, nil
}

// Count returns the number of employers.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ranked)
}

// assignRanksWithTies gives employers with equal approvals the same rank.
// Ranks are dense: 1, 1, 2.
func assignRanksWithTies(entries []Entry) {
	rank := 0
	for i := range entries {
		if i == 0 || entries[i].TotalApprovals != entries[i-1].TotalApprovals {
			rank++
		}
		entries[i].Rank = rank
	}
}
