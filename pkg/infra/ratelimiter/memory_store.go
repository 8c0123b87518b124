package ratelimiter

import (
	"context"
	"sync"
	"time"

	"github.com/asca-arts/gatekeeper/pkg/domain/ratelimit"
	"github.com/cespare/xxhash/v2"
)

const DefaultShards = 64

type shard struct {
	mu      sync.RWMutex
	entries map[string]*ratelimit.Entry
}

// MemoryStore keeps fixed-window counters in a sharded map. Updates to the
// same key serialize on its shard; keys on different shards never contend.
type MemoryStore struct {
	shards []*shard
}

func NewMemoryStore(shards int) *MemoryStore {
	if shards <= 0 {
		shards = DefaultShards
	}
	s := &MemoryStore{shards: make([]*shard, shards)}
	for i := range s.shards {
		s.shards[i] = &shard{entries: make(map[string]*ratelimit.Entry)}
	}
	return s
}

func (s *MemoryStore) shardFor(key string) *shard {
	return s.shards[xxhash.Sum64String(key)%uint64(len(s.shards))]
}

func (s *MemoryStore) Increment(_ context.Context, key string, now time.Time, window time.Duration) (ratelimit.Entry, error) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	entry, ok := sh.entries[key]
	if !ok || entry.Expired(now) {
		entry = &ratelimit.Entry{Key: key, WindowResetAt: now.Add(window)}
		sh.entries[key] = entry
	}
	entry.Count++
	return *entry, nil
}

// Sweep removes every entry whose window has ended. Candidates are collected
// under the read lock and each removal re-checks expiry under the write lock,
// so a key that started a fresh window in between is kept.
func (s *MemoryStore) Sweep(ctx context.Context, now time.Time) (int, error) {
	removed := 0
	for _, sh := range s.shards {
		if err := ctx.Err(); err != nil {
			return removed, err
		}

		sh.mu.RLock()
		var expired []string
		for key, entry := range sh.entries {
			if entry.Expired(now) {
				expired = append(expired, key)
			}
		}
		sh.mu.RUnlock()

		for _, key := range expired {
			sh.mu.Lock()
			if entry, ok := sh.entries[key]; ok && entry.Expired(now) {
				delete(sh.entries, key)
				removed++
			}
			sh.mu.Unlock()
		}
	}
	return removed, nil
}

func (s *MemoryStore) Len() int {
	total := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		total += len(sh.entries)
		sh.mu.RUnlock()
	}
	return total
}

// Get returns a copy of the entry for key, if any.
func (s *MemoryStore) Get(key string) (ratelimit.Entry, bool) {
	sh := s.shardFor(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	entry, ok := sh.entries[key]
	if !ok {
		return ratelimit.Entry{}, false
	}
	return *entry, true
}
