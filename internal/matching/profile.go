package matching

import (
	"context"

	"property-matching/internal/common/errors"
	"property-matching/internal/models"
)

// BuildProfile fuses stored preferences, favorites and the search log. The
// three reads are sequential; any failure aborts the profile.
func BuildProfile(ctx context.Context, users UserRepository, userID int64, recentQueries int) (*models.UnifiedProfile, error) {
	prefs, err := users.GetPreferences(ctx, userID)
	if err != nil {
		return nil, errors.NewRepositoryError("get_preferences", err)
	}
	favorites, err := users.GetFavorites(ctx, userID)
	if err != nil {
		return nil, errors.NewRepositoryError("get_favorites", err)
	}
	log, err := users.GetSearchLog(ctx, userID)
	if err != nil {
		return nil, errors.NewRepositoryError("get_search_log", err)
	}

	profile := &models.UnifiedProfile{
		Explicit:    copyPreferences(prefs),
		Implicit:    AggregateFavorites(favorites),
		Patterns:    AggregateSearchLog(log, recentQueries),
		FavoriteIDs: make(map[int64]struct{}, len(favorites)),
	}
	for _, f := range favorites {
		profile.FavoriteIDs[f.ID] = struct{}{}
	}
	return profile, nil
}

func copyPreferences(p *models.UserPreferences) *models.UserPreferences {
	if p == nil {
		return nil
	}
	out := *p
	if p.Advanced != nil {
		out.Advanced = make(map[models.Wish]bool, len(p.Advanced))
		for k, v := range p.Advanced {
			out.Advanced[k] = v
		}
	}
	return &out
}
