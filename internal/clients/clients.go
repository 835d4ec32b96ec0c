package clients

import (
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/tecsup/order-svc/internal/errs"
)

// Config holds the settings of one remote directory client.
type Config struct {
	BaseURL          string
	Timeout          time.Duration
	BreakerThreshold uint32
	BreakerCooldown  time.Duration
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return 5 * time.Second
	}
	return c.Timeout
}

// newBreaker builds the short-circuit policy shared by both clients: the
// breaker opens after a run of consecutive failures and probes a single
// request once the cool-down lapses. A not-found reply counts as success,
// since it proves the dependency answered.
func newBreaker[T any](name string, cfg Config) *gobreaker.CircuitBreaker[T] {
	threshold := cfg.BreakerThreshold
	if threshold == 0 {
		threshold = 5
	}
	cooldown := cfg.BreakerCooldown
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}

	return gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errs.ErrNotFound)
		},
	})
}

// breakerErr maps breaker short-circuit sentinels onto the unavailable
// taxonomy; other errors already carry the right type from the fetch.
func breakerErr(service string, err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &errs.UnavailableError{Service: service, Err: err}
	}
	return err
}
