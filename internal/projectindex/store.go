package projectindex

import (
	"math/bits"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// DefaultShards is the shard count used when none is configured.
const DefaultShards = 32

// Store holds the current Index of each user. It is striped by user ID so
// rebuilds for different users do not contend.
type Store struct {
	shards []*shard
	mask   uint64
}

type shard struct {
	mu      sync.RWMutex
	indexes map[string]*Index
}

// NewStore creates a store with n shards, rounded up to a power of two.
func NewStore(n int) *Store {
	if n <= 0 {
		n = DefaultShards
	}
	size := 1 << bits.Len(uint(n-1))
	s := &Store{
		shards: make([]*shard, size),
		mask:   uint64(size - 1),
	}
	for i := range s.shards {
		s.shards[i] = &shard{indexes: make(map[string]*Index)}
	}
	return s
}

func (s *Store) shardFor(userID string) *shard {
	return s.shards[xxhash.Sum64String(userID)&s.mask]
}

// Put installs idx for userID, replacing any previous index.
func (s *Store) Put(userID string, idx *Index) {
	sh := s.shardFor(userID)
	sh.mu.Lock()
	sh.indexes[userID] = idx
	sh.mu.Unlock()
}

// Get returns the index installed for userID.
func (s *Store) Get(userID string) (*Index, bool) {
	sh := s.shardFor(userID)
	sh.mu.RLock()
	idx, ok := sh.indexes[userID]
	sh.mu.RUnlock()
	return idx, ok
}

// Len returns the number of users with an installed index.
func (s *Store) Len() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		n += len(sh.indexes)
		sh.mu.RUnlock()
	}
	return n
}

// ShardCount returns the number of shards.
func (s *Store) ShardCount() int {
	return len(s.shards)
}
