package core

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
)

type keyLock struct {
	mu      sync.Mutex
	holders atomic.Int32
}

// KeyLocker serializes operations that share a composite key, such as an
// action noun plus a record key. Entries are created on first use and
// dropped again once the last holder releases.
type KeyLocker struct {
	locks sync.Map
	sep   string
}

func NewKeyLocker() *KeyLocker {
	return &KeyLocker{sep: ":"}
}

func (kl *KeyLocker) composite(keys []any) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%v", k))
	}
	return strings.Join(parts, kl.sep)
}

// Lock blocks until the composite key is free and returns the matching
// unlock function. Distinct keys never contend with each other.
func (kl *KeyLocker) Lock(keys ...any) func() {
	key := kl.composite(keys)

	entry, _ := kl.locks.LoadOrStore(key, &keyLock{})
	lock := entry.(*keyLock)

	lock.holders.Add(1)
	lock.mu.Lock()

	return func() {
		lock.mu.Unlock()
		if lock.holders.Add(-1) == 0 {
			kl.locks.Delete(key)
		}
	}
}
