// Package syncutil contains small synchronization helpers shared by
// the store and index packages.
package syncutil

import (
	"hash/fnv"
	"sync"
)

// NamedMutex locks and unlocks by key instead of as a single global
// lock. Two distinct keys may hash to the same shard and therefore
// contend with each other; this is expected.
type NamedMutex struct {
	locks []sync.RWMutex
	size  uint32
}

// NewNamedMutex creates a NamedMutex with the given number of shards.
// Values below 2 are rounded up to 2.
func NewNamedMutex(shards uint32) *NamedMutex {
	if shards < 2 {
		shards = 2
	}

	return &NamedMutex{
		size:  shards,
		locks: make([]sync.RWMutex, shards),
	}
}

func (mu *NamedMutex) shard(key []byte) uint32 {
	h := fnv.New32a()
	_, _ = h.Write(key)
	return h.Sum32() % mu.size
}

// Lock locks the shard the key hashes to. If that shard is already
// locked, the calling goroutine blocks until it's available.
func (mu *NamedMutex) Lock(key []byte) {
	mu.locks[mu.shard(key)].Lock()
}

// Unlock unlocks the shard the key hashes to. It is a run-time error
// if that shard isn't locked on entry.
func (mu *NamedMutex) Unlock(key []byte) {
	mu.locks[mu.shard(key)].Unlock()
}

// RLock locks the shard the key hashes to for reading.
func (mu *NamedMutex) RLock(key []byte) {
	mu.locks[mu.shard(key)].RLock()
}

// RUnlock undoes a single RLock call for the shard the key hashes to.
func (mu *NamedMutex) RUnlock(key []byte) {
	mu.locks[mu.shard(key)].RUnlock()
}
