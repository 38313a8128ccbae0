package service

import "sync"

// clientLocks serializes the check-then-act sequences (admission, queue
// reorder) per client id. Operations on different clients never contend.
type clientLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newClientLocks() *clientLocks {
	return &clientLocks{locks: make(map[string]*sync.Mutex)}
}

func (c *clientLocks) lock(clientID string) func() {
	c.mu.Lock()
	m, ok := c.locks[clientID]
	if !ok {
		m = &sync.Mutex{}
		c.locks[clientID] = m
	}
	c.mu.Unlock()

	m.Lock()
	return m.Unlock
}
