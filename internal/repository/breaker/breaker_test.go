package breaker

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-matching/internal/common/errors"
	"property-matching/internal/common/logger"
	"property-matching/internal/models"
	"property-matching/internal/repository/memory"
)

func testSettings() Settings {
	return Settings{MaxRequests: 1, Interval: time.Minute, Timeout: 50 * time.Millisecond, FailureThreshold: 3}
}

func TestProperties_TripsAfterConsecutiveFailures(t *testing.T) {
	store := memory.NewStore(models.Property{ID: 1, Price: 100000, Type: models.PropertyTypeStudio, Available: true})
	store.Err = stderrors.New("connection reset")
	repo := NewProperties(store, testSettings(), logger.NewTestLogger(t))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := repo.Search(ctx, models.SearchCriteria{})
		require.Error(t, err)
		assert.Equal(t, "connection reset", err.Error(), "underlying error passes through while closed")
	}
	assert.Equal(t, gobreaker.StateOpen, repo.State())

	_, err := repo.GetByID(ctx, 1)
	require.Error(t, err)
	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeCircuitOpen, stdErr.Code)
	assert.True(t, stderrors.Is(err, gobreaker.ErrOpenState))

	// recovers through half-open once the backend is healthy
	store.Err = nil
	time.Sleep(80 * time.Millisecond)
	p, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, gobreaker.StateClosed, repo.State())
}

func TestProperties_PassThrough(t *testing.T) {
	store := memory.NewStore(models.Property{ID: 7, Price: 250000, Type: models.PropertyTypeApartment, Location: "Nice", Available: true})
	repo := NewProperties(store, testSettings(), logger.NewNoOpLogger())
	ctx := context.Background()

	results, err := repo.Search(ctx, models.SearchCriteria{Location: "nice"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, int64(7), results[0].ID)

	missing, err := repo.GetByID(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestBreaker_CancellationDoesNotTrip(t *testing.T) {
	repo := NewUsers(memory.NewStore(), testSettings(), logger.NewNoOpLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for i := 0; i < 5; i++ {
		_, err := repo.GetFavorites(ctx, 1)
		require.ErrorIs(t, err, context.Canceled)
	}
	assert.Equal(t, gobreaker.StateClosed, repo.State())
}

func TestUsers(t *testing.T) {
	store := memory.NewStore(models.Property{ID: 3, Price: 500000, Type: models.PropertyTypeVilla, Available: true})
	store.SetFavorites(42, 3)
	store.SetPreferences(42, &models.UserPreferences{BudgetMax: models.Int64Ptr(600000)})
	repo := NewUsers(store, testSettings(), logger.NewNoOpLogger())
	ctx := context.Background()

	favorites, err := repo.GetFavorites(ctx, 42)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, int64(3), favorites[0].ID)

	prefs, err := repo.GetPreferences(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, prefs)
	assert.Equal(t, int64(600000), *prefs.BudgetMax)

	log, err := repo.GetSearchLog(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, log)

	none, err := repo.GetPreferences(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, none)
}
