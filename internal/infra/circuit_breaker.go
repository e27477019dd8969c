package infra

import (
	"errors"
	"sync"
	"time"
)

// Circuit breaker guarding the SMTP relay. A dead relay would otherwise pin
// every receipt worker on a dial timeout; tripping open turns those into
// instant failures that the retry cron can reschedule.
//
// Closed lets sends flow, Open fast-fails them, HalfOpen lets probes through
// until enough succeed to close again.

// CBState is the breaker state, exposed on the health endpoint.
type CBState int

const (
	CBClosed CBState = iota
	CBOpen
	CBHalfOpen
)

func (s CBState) String() string {
	switch s {
	case CBClosed:
		return "closed"
	case CBOpen:
		return "open"
	case CBHalfOpen:
		return "half-open"
	}
	return "unknown"
}

// ErrCircuitOpen is returned without attempting the call while the breaker
// is open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitBreakerConfig struct {
	// FailureThreshold consecutive failures trip the breaker open.
	FailureThreshold int
	// SuccessThreshold consecutive half-open successes close it again.
	SuccessThreshold int
	// OpenTimeout is how long to fast-fail before probing the relay.
	OpenTimeout time.Duration
}

func DefaultCBConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		OpenTimeout:      60 * time.Second,
	}
}

type CircuitBreaker struct {
	cfg CircuitBreakerConfig

	mu        sync.Mutex
	state     CBState
	failures  int
	successes int
	openedAt  time.Time
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	def := DefaultCBConfig()
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = def.SuccessThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = def.OpenTimeout
	}
	return &CircuitBreaker{cfg: cfg, state: CBClosed}
}

// State reports the current state, moving an open breaker to half-open once
// the open timeout has elapsed.
func (cb *CircuitBreaker) State() CBState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.stateLocked()
}

func (cb *CircuitBreaker) stateLocked() CBState {
	if cb.state == CBOpen && time.Since(cb.openedAt) >= cb.cfg.OpenTimeout {
		cb.state = CBHalfOpen
		cb.successes = 0
	}
	return cb.state
}

// Execute runs fn unless the breaker is open, and feeds the outcome back
// into the state machine.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	cb.mu.Lock()
	if cb.stateLocked() == CBOpen {
		cb.mu.Unlock()
		return ErrCircuitOpen
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.record(err == nil)
	return err
}

// record applies one call outcome. Must be called under cb.mu.
func (cb *CircuitBreaker) record(ok bool) {
	if ok {
		switch cb.state {
		case CBClosed:
			cb.failures = 0
		case CBHalfOpen:
			cb.successes++
			if cb.successes >= cb.cfg.SuccessThreshold {
				cb.state = CBClosed
				cb.failures = 0
				cb.successes = 0
			}
		}
		return
	}

	cb.openedAt = time.Now()
	switch cb.state {
	case CBClosed:
		cb.failures++
		if cb.failures >= cb.cfg.FailureThreshold {
			cb.state = CBOpen
			cb.successes = 0
		}
	case CBHalfOpen:
		// Probe failed, back to fast-failing.
		cb.state = CBOpen
		cb.failures = 0
	}
}
