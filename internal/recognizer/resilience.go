package recognizer

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"

	"docscan/internal/config"
)

// breaker guards engine invocations so a crashed or wedged engine binary
// fails fast instead of burning the full timeout on every file.
type breaker struct {
	cb *gobreaker.CircuitBreaker[[]PageResult]
}

func newBreaker(cfg config.Recognizer) *breaker {
	threshold := cfg.BreakerFailureThreshold
	if threshold <= 0 {
		threshold = 5
	}
	cooldown := time.Duration(cfg.BreakerCooldown) * time.Second
	if cooldown <= 0 {
		cooldown = time.Minute
	}
	settings := gobreaker.Settings{
		Name:    "recognition-engine",
		Timeout: cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(threshold)
		},
		// Operator-initiated cancellation says nothing about engine health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}
	return &breaker{cb: gobreaker.NewCircuitBreaker[[]PageResult](settings)}
}

func (b *breaker) execute(fn func() ([]PageResult, error)) ([]PageResult, error) {
	return b.cb.Execute(fn)
}

func (b *breaker) isOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
