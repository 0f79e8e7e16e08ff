package core

import (
	"sync"
	"testing"
)

func TestNewKeyLocker(t *testing.T) {
	kl := NewKeyLocker()
	if kl == nil {
		t.Fatal("NewKeyLocker() should not return nil")
	}
	if kl.sep != ":" {
		t.Errorf("separator = %q, want :", kl.sep)
	}
}

func TestKeyLockerLockUnlock(t *testing.T) {
	kl := NewKeyLocker()

	unlock := kl.Lock("tenants", int64(3))
	if unlock == nil {
		t.Fatal("Lock() should return an unlock function")
	}
	unlock()

	// Lock must be released and reusable
	unlock = kl.Lock("tenants", int64(3))
	unlock()
}

func TestKeyLockerConcurrency(t *testing.T) {
	kl := NewKeyLocker()
	const goroutines = 20

	var counter int
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := kl.Lock("vms", 7)
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	if counter != goroutines {
		t.Errorf("counter = %d, want %d", counter, goroutines)
	}
}

func TestKeyLockerIndependentKeys(t *testing.T) {
	kl := NewKeyLocker()

	unlockA := kl.Lock("vms", 1)
	// A different key must not block
	done := make(chan struct{})
	go func() {
		unlockB := kl.Lock("vms", 2)
		unlockB()
		close(done)
	}()
	<-done
	unlockA()
}

func TestKeyLockerCleanup(t *testing.T) {
	kl := NewKeyLocker()

	unlock := kl.Lock("vnets", 5)
	unlock()

	count := 0
	kl.locks.Range(func(_, _ any) bool {
		count++
		return true
	})
	if count != 0 {
		t.Errorf("released locks should be removed, %d remaining", count)
	}
}
