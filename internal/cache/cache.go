package cache

import (
	"sync"
	"time"
)

// Cache is the read/write surface the summary caches expose.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T)
	Delete(key string)
	Size() int
}

// Cleaner is implemented by caches whose expired entries need sweeping.
type Cleaner interface {
	CleanExpired() int
}

// Manager sweeps expired entries out of every registered cache on a fixed
// interval. Register caches before StartCleanup; Stop is idempotent and safe
// to call even when no sweep was started.
type Manager struct {
	caches  []Cleaner
	stop    chan struct{}
	done    chan struct{}
	started bool
	once    sync.Once
}

func NewManager() *Manager {
	return &Manager{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// Register adds a cache to the sweep set.
func (m *Manager) Register(c Cleaner) {
	m.caches = append(m.caches, c)
}

// StartCleanup begins the periodic sweep in a background goroutine.
func (m *Manager) StartCleanup(interval time.Duration) {
	m.started = true
	go m.sweep(interval)
}

func (m *Manager) sweep(interval time.Duration) {
	defer close(m.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			for _, c := range m.caches {
				c.CleanExpired()
			}
		case <-m.stop:
			return
		}
	}
}

// Stop halts the sweep and waits for it to exit.
func (m *Manager) Stop() {
	m.once.Do(func() {
		close(m.stop)
		if m.started {
			<-m.done
		}
	})
}
