package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	km := NewKeyedMutex()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := km.Lock("balance-1")
			counter++
			release()
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestKeyedMutexOpposingOrderNoDeadlock(t *testing.T) {
	km := NewKeyedMutex()
	done := make(chan struct{})

	go func() {
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				release := km.Lock("a", "b")
				release()
			}()
			go func() {
				defer wg.Done()
				release := km.Lock("b", "a")
				release()
			}()
		}
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("lock ordering deadlocked")
	}
}

func TestKeyedMutexDeduplicatesKeys(t *testing.T) {
	km := NewKeyedMutex()

	done := make(chan struct{})
	go func() {
		release := km.Lock("x", "x", "x")
		release()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("duplicate keys self-deadlocked")
	}
}
