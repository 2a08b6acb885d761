// Package circuit implements a consecutive-count circuit breaker for outbound
// collaborators. Callers record outcomes; the breaker decides when to shed
// calls entirely so a dead dependency stops costing a timeout per request.
package circuit

import (
	"sync"
	"time"
)

// State of a breaker: closed means calls flow to the primary, open means
// callers should fail fast or use a fallback.
type State int

const (
	StateClosed State = iota
	StateOpen
)

func (s State) String() string {
	if s == StateOpen {
		return "open"
	}
	return "closed"
}

// Change reports a state transition caused by a recorded outcome, so callers
// can log transitions exactly once.
type Change struct {
	Opened bool
	Closed bool
}

// Breaker counts consecutive failures and successes. Opening requires
// failureThreshold consecutive failures; closing requires successThreshold
// consecutive successes while open. Any success resets the failure count and
// any failure resets the success count.
type Breaker struct {
	mu               sync.Mutex
	name             string
	state            State
	failureCount     int
	successCount     int
	failureThreshold int
	successThreshold int
	cooldown         time.Duration
	nextProbe        time.Time
}

// Option configures a Breaker.
type Option func(*Breaker)

// WithFailureThreshold sets how many consecutive failures open the circuit.
func WithFailureThreshold(n int) Option {
	return func(b *Breaker) { b.failureThreshold = n }
}

// WithSuccessThreshold sets how many consecutive successes close it again.
func WithSuccessThreshold(n int) Option {
	return func(b *Breaker) { b.successThreshold = n }
}

// WithCooldown lets an open breaker admit probe calls, one per elapsed
// cooldown, so a recovered dependency can close the circuit again.
func WithCooldown(d time.Duration) Option {
	return func(b *Breaker) { b.cooldown = d }
}

// New creates a closed Breaker named for logs and metrics.
func New(name string, opts ...Option) *Breaker {
	b := &Breaker{
		name:             name,
		state:            StateClosed,
		failureThreshold: 5,
		successThreshold: 3,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns the breaker's label.
func (b *Breaker) Name() string { return b.name }

// State returns the current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// IsOpen reports whether calls should currently be shed.
func (b *Breaker) IsOpen() bool {
	return b.State() == StateOpen
}

// Allow reports whether a call may proceed. A closed breaker always allows;
// an open one with a cooldown admits one probe per elapsed cooldown window.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateClosed {
		return true
	}
	if b.cooldown > 0 && !time.Now().Before(b.nextProbe) {
		b.nextProbe = time.Now().Add(b.cooldown)
		return true
	}
	return false
}

// RecordFailure notes a failed call. It returns whether the caller should now
// use its fallback, plus the transition if this failure opened the circuit.
func (b *Breaker) RecordFailure() (useFallback bool, change Change) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failureCount++
	b.successCount = 0
	if b.state == StateOpen {
		return true, Change{}
	}
	if b.failureCount >= b.failureThreshold {
		b.state = StateOpen
		b.nextProbe = time.Now().Add(b.cooldown)
		return true, Change{Opened: true}
	}
	return false, Change{}
}

// RecordSuccess notes a successful call. It returns whether the primary is
// usable, plus the transition if this success closed the circuit.
func (b *Breaker) RecordSuccess() (usePrimary bool, change Change) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateOpen {
		b.successCount++
		if b.successCount >= b.successThreshold {
			b.state = StateClosed
			b.failureCount = 0
			b.successCount = 0
			return true, Change{Closed: true}
		}
		return false, Change{}
	}
	b.failureCount = 0
	return true, Change{}
}

// Reset forces the breaker closed and clears all counts.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateClosed
	b.failureCount = 0
	b.successCount = 0
}
