package kafka

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tair/inventory-invoicing/pkg/logger"
)

// ErrCircuitOpen is returned while the breaker is rejecting calls
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitState represents the state of a circuit breaker
type CircuitState string

const (
	StateClosed   CircuitState = "closed"
	StateOpen     CircuitState = "open"
	StateHalfOpen CircuitState = "half-open"
)

// halfOpenSuccesses closes a half-open circuit
const halfOpenSuccesses = 3

// CircuitBreaker opens after maxFailures consecutive failures and probes again after cooldown
type CircuitBreaker struct {
	name        string
	maxFailures int
	cooldown    time.Duration
	now         func() time.Time

	mu              sync.Mutex
	state           CircuitState
	failures        int
	successCount    int
	lastStateChange time.Time
}

// NewCircuitBreaker creates a closed circuit breaker
func NewCircuitBreaker(name string, maxFailures int, cooldown time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		name:            name,
		maxFailures:     maxFailures,
		cooldown:        cooldown,
		now:             time.Now,
		state:           StateClosed,
		lastStateChange: time.Now(),
	}
}

// Call runs fn unless the circuit is open
func (cb *CircuitBreaker) Call(fn func() error) error {
	cb.mu.Lock()
	if cb.state == StateOpen && cb.now().Sub(cb.lastStateChange) >= cb.cooldown {
		cb.transition(StateHalfOpen)
		cb.successCount = 0
		logger.Logger.Info().
			Str("circuit", cb.name).
			Msg("Circuit breaker transitioning to half-open")
	}
	state := cb.state
	cb.mu.Unlock()

	if state == StateOpen {
		return ErrCircuitOpen
	}

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil {
		cb.onFailure()
	} else {
		cb.onSuccess()
	}
	return err
}

// State returns the current state
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *CircuitBreaker) transition(state CircuitState) {
	cb.state = state
	cb.lastStateChange = cb.now()
}

func (cb *CircuitBreaker) onFailure() {
	cb.failures++

	switch {
	case cb.state == StateHalfOpen:
		cb.transition(StateOpen)
		logger.Logger.Warn().
			Str("circuit", cb.name).
			Msg("Circuit breaker reopened after half-open failure")
	case cb.state == StateClosed && cb.failures >= cb.maxFailures:
		cb.transition(StateOpen)
		logger.Logger.Error().
			Str("circuit", cb.name).
			Int("failures", cb.failures).
			Int("threshold", cb.maxFailures).
			Msg("Circuit breaker opened")
	}
}

func (cb *CircuitBreaker) onSuccess() {
	switch cb.state {
	case StateHalfOpen:
		cb.successCount++
		if cb.successCount >= halfOpenSuccesses {
			cb.transition(StateClosed)
			cb.failures = 0
			cb.successCount = 0
			logger.Logger.Info().
				Str("circuit", cb.name).
				Msg("Circuit breaker closed after successful recovery")
		}
	case StateClosed:
		cb.failures = 0
	}
}

type invoicePublisher interface {
	PublishInvoiceEvent(ctx context.Context, event InvoiceEvent) error
	Close() error
}

// BreakerPublisher stops calling an unreachable broker until the breaker cools down
type BreakerPublisher struct {
	next    invoicePublisher
	breaker *CircuitBreaker
}

// NewBreakerPublisher wraps next with a circuit breaker
func NewBreakerPublisher(next invoicePublisher, breaker *CircuitBreaker) *BreakerPublisher {
	return &BreakerPublisher{next: next, breaker: breaker}
}

func (p *BreakerPublisher) PublishInvoiceEvent(ctx context.Context, event InvoiceEvent) error {
	return p.breaker.Call(func() error {
		return p.next.PublishInvoiceEvent(ctx, event)
	})
}

func (p *BreakerPublisher) Close() error {
	return p.next.Close()
}
