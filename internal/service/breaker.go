package service

import (
	"context"
	"errors"
	"time"

	"farming-engine/internal/metrics"
	"farming-engine/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

// StoreBreaker stops a tick from hammering a store that keeps failing. Only
// transient errors count as failures; conflicts and integrity skips do not.
type StoreBreaker struct {
	cb *gobreaker.CircuitBreaker[struct{}]
}

// NewStoreBreaker trips after maxFailures consecutive transient failures and
// lets one call through again after openTimeout.
func NewStoreBreaker(name string, maxFailures uint32, openTimeout time.Duration, log zerolog.Logger) *StoreBreaker {
	if maxFailures == 0 {
		maxFailures = 5
	}
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		// A cancelled or expired caller says nothing about the store.
		IsSuccessful: func(err error) bool {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				return true
			}
			return !apperror.IsTransient(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Store breaker state changed")
			metrics.BreakerState.Set(float64(to))
		},
	}
	return &StoreBreaker{cb: gobreaker.NewCircuitBreaker[struct{}](settings)}
}

// Do runs fn through the breaker. An open breaker returns STORE_002 without
// calling fn.
func (b *StoreBreaker) Do(fn func() error) error {
	_, err := b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return apperror.ErrCircuitOpen(err)
	}
	return err
}

// Open reports whether calls are currently being rejected.
func (b *StoreBreaker) Open() bool {
	return b.cb.State() == gobreaker.StateOpen
}
