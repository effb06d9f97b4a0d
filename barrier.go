package shell

import "sync"

// Barrier is a single-use startup barrier. All n participants block in
// Wait until the last one arrives, then all are released together. It is
// created fresh per run; it cannot be reused for another rendezvous.
//
// The coordinator sizes it to workers+1 so that no thread pumps messages
// before every channel endpoint has been handed out.
type Barrier struct {
	mu      sync.Mutex
	n       int
	arrived int
	release chan struct{}
}

// NewBarrier creates a barrier for n participants. n must be >= 1.
func NewBarrier(n int) *Barrier {
	if n < 1 {
		panic("shell: barrier size must be >= 1")
	}
	return &Barrier{n: n, release: make(chan struct{})}
}

// Wait blocks until all n participants have called Wait. Each participant
// must call it exactly once; calls after the barrier has opened return
// immediately.
func (b *Barrier) Wait() {
	b.mu.Lock()
	if b.arrived >= b.n {
		// Already open.
		b.mu.Unlock()
		return
	}
	b.arrived++
	if b.arrived == b.n {
		close(b.release)
		b.mu.Unlock()
		return
	}
	release := b.release
	b.mu.Unlock()
	<-release
}
