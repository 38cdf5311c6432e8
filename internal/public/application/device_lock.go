package application

import "sync"

// deviceLocks hands out one mutex per device id. Entries are reference
// counted and dropped once no caller holds or waits on them.
type deviceLocks struct {
	mu    sync.Mutex
	locks map[string]*deviceLock
}

type deviceLock struct {
	mu   sync.Mutex
	refs int
}

func newDeviceLocks() *deviceLocks {
	return &deviceLocks{locks: make(map[string]*deviceLock)}
}

// lock blocks until deviceID is free and returns the matching unlock.
func (l *deviceLocks) lock(deviceID string) func() {
	l.mu.Lock()
	entry, ok := l.locks[deviceID]
	if !ok {
		entry = &deviceLock{}
		l.locks[deviceID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, deviceID)
		}
		l.mu.Unlock()
	}
}

func (l *deviceLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
