package trie

import (
	"strconv"
	"sync"

	"github.com/dgraph-io/ristretto/v2"
)

/*
Thread-safe front over the copy-on-write trie.

Readers copy the current root under a short root latch and then walk
their private snapshot without any lock; writers are serialised by a
writer latch held for the whole operation and take the root latch only
to swap in the new root. Readers therefore never block on writers
beyond the two pointer-copy windows.

The store also keeps a lookup memo in a ristretto cache keyed by
(root version, key). The version is bumped at every root swap, and a
published snapshot never changes, so a memo entry cannot go stale: a
hit returns the exact payload pointer a fresh walk of that snapshot
would. Every entry owns the snapshot it was resolved against, the same
way a ValueGuard does, which keeps the nodes reachable.
*/

// ValueGuard keeps a read snapshot alive so that the borrowed value
// pointer stays valid even after the store's root advances.
type ValueGuard[T any] struct {
	snapshot Trie
	value    *T
}

// Value returns the guarded pointer. It is valid for the lifetime of
// the guard.
func (g ValueGuard[T]) Value() *T { return g.value }

type lookupEntry struct {
	snapshot Trie
	value    any
}

// TrieStore allows concurrent readers and one writer at a time over a
// sequence of trie versions.
type TrieStore struct {
	rootMu  sync.Mutex // guards root and version; held only to copy or swap
	writeMu sync.Mutex // serialises writers for their full duration
	root    Trie
	version uint64
	lookups *ristretto.Cache[string, lookupEntry]
}

// NewTrieStore returns a store holding an empty trie.
func NewTrieStore() *TrieStore {
	lookups, err := ristretto.NewCache(&ristretto.Config[string, lookupEntry]{
		NumCounters: 1 << 16,
		MaxCost:     1 << 13,
		BufferItems: 64,
	})
	if err != nil {
		lookups = nil
	}
	return &TrieStore{root: New(), lookups: lookups}
}

// Close releases the lookup memo.
func (s *TrieStore) Close() {
	if s.lookups != nil {
		s.lookups.Close()
	}
}

func (s *TrieStore) snapshot() (Trie, uint64) {
	s.rootMu.Lock()
	root, version := s.root, s.version
	s.rootMu.Unlock()
	return root, version
}

func (s *TrieStore) swap(root Trie) {
	s.rootMu.Lock()
	s.root = root
	s.version++
	s.rootMu.Unlock()
}

func lookupKey(version uint64, key string) string {
	return strconv.FormatUint(version, 10) + "/" + key
}

// StoreGet reads key against a private snapshot of the store. On a hit
// it returns a guard that owns the snapshot; the guarded pointer stays
// valid even if the store's root advances afterwards.
func StoreGet[T any](s *TrieStore, key string) (ValueGuard[T], bool) {
	snap, version := s.snapshot()
	if s.lookups != nil {
		if entry, ok := s.lookups.Get(lookupKey(version, key)); ok {
			if v, ok := entry.value.(*T); ok {
				return ValueGuard[T]{snapshot: entry.snapshot, value: v}, true
			}
		}
	}
	v := Get[T](snap, key)
	if v == nil {
		return ValueGuard[T]{}, false
	}
	if s.lookups != nil {
		s.lookups.Set(lookupKey(version, key), lookupEntry{snapshot: snap, value: v}, 1)
	}
	return ValueGuard[T]{snapshot: snap, value: v}, true
}

// StorePut maps key to value, overwriting any previous payload.
func StorePut[T any](s *TrieStore, key string, value T) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	snap, _ := s.snapshot()
	s.swap(Put(snap, key, value))
}

// Remove drops the value at key, if any.
func (s *TrieStore) Remove(key string) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	snap, _ := s.snapshot()
	s.swap(snap.Remove(key))
}
