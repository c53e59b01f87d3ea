package service

import (
	"sort"
	"sync"
)

// KeyedMutex serializes operations per string key. Two operations on
// different keys proceed in parallel; two on the same key queue up.
//
// Lock takes every key in sorted order, which makes acquisition
// deterministic across callers: two transfers moving stock in opposite
// directions between the same warehouse pair cannot deadlock.
//
// Per-key mutexes are never reclaimed; the key space is bounded by the
// number of (warehouse, product) pairs.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*sync.Mutex)}
}

func (k *KeyedMutex) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	return m
}

// Lock acquires all keys (deduplicated, sorted) and returns the release
// function. Release order is the reverse of acquisition.
func (k *KeyedMutex) Lock(keys ...string) (release func()) {
	uniq := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		uniq = append(uniq, key)
	}
	sort.Strings(uniq)

	held := make([]*sync.Mutex, 0, len(uniq))
	for _, key := range uniq {
		m := k.get(key)
		m.Lock()
		held = append(held, m)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
