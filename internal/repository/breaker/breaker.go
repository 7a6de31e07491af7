// Package breaker guards the catalog and user stores with circuit breakers so
// a failing backend is rejected fast instead of stalling every job.
package breaker

import (
	"context"
	stderrors "errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"property-matching/internal/common/errors"
	"property-matching/internal/common/logger"
	"property-matching/internal/common/metrics"
	"property-matching/internal/models"
)

type PropertyRepository interface {
	Search(ctx context.Context, criteria models.SearchCriteria) ([]models.Property, error)
	GetByID(ctx context.Context, id int64) (*models.Property, error)
}

type UserRepository interface {
	GetFavorites(ctx context.Context, userID int64) ([]models.Property, error)
	GetPreferences(ctx context.Context, userID int64) (*models.UserPreferences, error)
	GetSearchLog(ctx context.Context, userID int64) ([]models.SearchLogEntry, error)
}

type Settings struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

func newBreaker(name string, s Settings, log logger.Logger) *gobreaker.CircuitBreaker[any] {
	threshold := s.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	metrics.BreakerState.WithLabelValues(name).Set(0)

	return gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// Callers giving up are not a backend failure.
		IsSuccessful: func(err error) bool {
			return err == nil || stderrors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed", map[string]interface{}{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
			metrics.BreakerStateChanges.WithLabelValues(name, from.String(), to.String()).Inc()
			metrics.BreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

func run[T any](cb *gobreaker.CircuitBreaker[any], fn func() (T, error)) (T, error) {
	var zero T
	result, err := cb.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		if stderrors.Is(err, gobreaker.ErrOpenState) || stderrors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, errors.NewCircuitOpenError(cb.Name(), err)
		}
		return zero, err
	}
	typed, _ := result.(T)
	return typed, nil
}

// Properties guards a PropertyRepository.
type Properties struct {
	next PropertyRepository
	cb   *gobreaker.CircuitBreaker[any]
}

func NewProperties(next PropertyRepository, s Settings, log logger.Logger) *Properties {
	return &Properties{next: next, cb: newBreaker("properties", s, log)}
}

func (p *Properties) Search(ctx context.Context, c models.SearchCriteria) ([]models.Property, error) {
	return run(p.cb, func() ([]models.Property, error) { return p.next.Search(ctx, c) })
}

func (p *Properties) GetByID(ctx context.Context, id int64) (*models.Property, error) {
	return run(p.cb, func() (*models.Property, error) { return p.next.GetByID(ctx, id) })
}

func (p *Properties) State() gobreaker.State { return p.cb.State() }

// Users guards a UserRepository.
type Users struct {
	next UserRepository
	cb   *gobreaker.CircuitBreaker[any]
}

func NewUsers(next UserRepository, s Settings, log logger.Logger) *Users {
	return &Users{next: next, cb: newBreaker("users", s, log)}
}

func (u *Users) GetFavorites(ctx context.Context, userID int64) ([]models.Property, error) {
	return run(u.cb, func() ([]models.Property, error) { return u.next.GetFavorites(ctx, userID) })
}

func (u *Users) GetPreferences(ctx context.Context, userID int64) (*models.UserPreferences, error) {
	return run(u.cb, func() (*models.UserPreferences, error) { return u.next.GetPreferences(ctx, userID) })
}

func (u *Users) GetSearchLog(ctx context.Context, userID int64) ([]models.SearchLogEntry, error) {
	return run(u.cb, func() ([]models.SearchLogEntry, error) { return u.next.GetSearchLog(ctx, userID) })
}

func (u *Users) State() gobreaker.State { return u.cb.State() }
