package node

import (
	"sync"
	"sync/atomic"
)

// State captures the state of a node: Idle, Serving, or Shutdown
type State uint32

const (
	//Idle is the initial state. An idle node can still ping peers.
	Idle State = iota
	//Serving is accepting handshakes
	Serving
	//Shutdown is shutdown
	Shutdown
)

// String ...
func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Serving:
		return "Serving"
	case Shutdown:
		return "Shutdown"
	default:
		return "Unknown"
	}
}

type state struct {
	state   State
	wg      sync.WaitGroup
	wgCount int32

	// guards wg.Add against a concurrent waitRoutines
	wgLock  sync.Mutex
	waiting bool
}

func (b *state) getState() State {
	stateAddr := (*uint32)(&b.state)
	return State(atomic.LoadUint32(stateAddr))
}

func (b *state) setState(s State) {
	stateAddr := (*uint32)(&b.state)
	atomic.StoreUint32(stateAddr, uint32(s))
}

// Start a goroutine and add it to waitgroup. It returns false, without
// running f, once waitRoutines has been called.
func (b *state) goFunc(f func()) bool {
	b.wgLock.Lock()
	defer b.wgLock.Unlock()

	if b.waiting {
		return false
	}

	b.wg.Add(1)
	atomic.AddInt32(&b.wgCount, 1)
	go func() {
		defer b.wg.Done()
		defer atomic.AddInt32(&b.wgCount, -1)
		f()
	}()
	return true
}

// activeRoutines is the number of goroutines started by goFunc that have not
// returned yet.
func (b *state) activeRoutines() int32 {
	return atomic.LoadInt32(&b.wgCount)
}

// waitRoutines refuses further goFunc calls and waits for the running ones.
func (b *state) waitRoutines() {
	b.wgLock.Lock()
	b.waiting = true
	b.wgLock.Unlock()

	b.wg.Wait()
}
