package resilience

import (
	"sync"
	"time"

	"github.com/kart-io/logger"
)

// State 熔断器状态。
type State int

const (
	// StateClosed 正常放行。
	StateClosed State = iota
	// StateOpen 拒绝所有调用。
	StateOpen
	// StateHalfOpen 放行一次探测调用。
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreaker 连续失败计数熔断器。半开状态只允许一个探测调用。
type CircuitBreaker struct {
	maxFailures int
	timeout     time.Duration
	now         func() time.Time

	mu       sync.Mutex
	state    State
	failures int
	openedAt time.Time
	probing  bool
}

// NewCircuitBreaker 创建熔断器。maxFailures <= 0 时取 5。
func NewCircuitBreaker(maxFailures int, timeout time.Duration) *CircuitBreaker {
	if maxFailures <= 0 {
		maxFailures = 5
	}
	return &CircuitBreaker{
		maxFailures: maxFailures,
		timeout:     timeout,
		now:         time.Now,
	}
}

// Execute 通过熔断器执行 fn。
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if err := cb.acquire(); err != nil {
		return err
	}
	err := fn()
	cb.record(err)
	return err
}

func (cb *CircuitBreaker) acquire() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateOpen:
		if cb.now().Sub(cb.openedAt) < cb.timeout {
			return ErrCircuitBreakerOpen
		}
		logger.Infow("circuit breaker half-open")
		cb.state = StateHalfOpen
		cb.probing = true
		return nil
	case StateHalfOpen:
		if cb.probing {
			return ErrCircuitBreakerOpen
		}
		cb.probing = true
		return nil
	default:
		return nil
	}
}

func (cb *CircuitBreaker) record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err == nil {
		if cb.state != StateClosed {
			logger.Infow("circuit breaker closed")
		}
		cb.state = StateClosed
		cb.failures = 0
		cb.probing = false
		return
	}

	cb.failures++
	if cb.state == StateHalfOpen || cb.failures >= cb.maxFailures {
		if cb.state != StateOpen {
			logger.Warnw("circuit breaker opened",
				"failures", cb.failures,
				"max_failures", cb.maxFailures,
			)
		}
		cb.state = StateOpen
		cb.openedAt = cb.now()
		cb.probing = false
	}
}

// State 返回当前状态。
func (cb *CircuitBreaker) State() State {
	state, _ := cb.snapshot()
	return state
}

func (cb *CircuitBreaker) snapshot() (State, int) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state, cb.failures
}

// Reset 回到关闭状态。
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.state = StateClosed
	cb.failures = 0
	cb.probing = false
}
