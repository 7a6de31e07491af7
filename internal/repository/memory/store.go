// Package memory is an in-process catalog and user store, loaded from a JSON
// fixture file for local runs and used directly in tests.
package memory

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/goccy/go-json"

	"property-matching/internal/models"
)

// Fixture is the on-disk layout read by LoadFile.
type Fixture struct {
	Properties []models.Property      `json:"properties"`
	Users      map[string]UserFixture `json:"users,omitempty"`
}

type UserFixture struct {
	FavoriteIDs []int64                 `json:"favoriteIds,omitempty"`
	Preferences *models.UserPreferences `json:"preferences,omitempty"`
	SearchLog   []models.SearchLogEntry `json:"searchLog,omitempty"`
}

type user struct {
	favorites   []int64
	preferences *models.UserPreferences
	log         []models.SearchLogEntry
}

// Store satisfies both repository interfaces of the matching engine.
type Store struct {
	mu         sync.RWMutex
	properties []models.Property
	users      map[int64]*user

	// Err, when set, is returned by every read.
	Err error
}

func NewStore(properties ...models.Property) *Store {
	return &Store{
		properties: append([]models.Property(nil), properties...),
		users:      make(map[int64]*user),
	}
}

func LoadFile(path string) (*Store, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	var fx Fixture
	if err := json.Unmarshal(raw, &fx); err != nil {
		return nil, fmt.Errorf("decode fixture %s: %w", path, err)
	}

	s := NewStore(fx.Properties...)
	for key, u := range fx.Users {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("fixture user id %q: %w", key, err)
		}
		s.SetFavorites(id, u.FavoriteIDs...)
		s.SetPreferences(id, u.Preferences)
		for _, e := range u.SearchLog {
			s.AppendSearch(id, e)
		}
	}
	return s, nil
}

func (s *Store) Add(properties ...models.Property) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.properties = append(s.properties, properties...)
}

func (s *Store) SetFavorites(userID int64, ids ...int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user(userID).favorites = append([]int64(nil), ids...)
}

func (s *Store) SetPreferences(userID int64, prefs *models.UserPreferences) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user(userID).preferences = prefs
}

func (s *Store) AppendSearch(userID int64, entry models.SearchLogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.user(userID)
	u.log = append(u.log, entry)
}

func (s *Store) user(id int64) *user {
	u, ok := s.users[id]
	if !ok {
		u = &user{}
		s.users[id] = u
	}
	return u
}

// Search applies the base criteria, newest first with id as tie-break.
func (s *Store) Search(ctx context.Context, c models.SearchCriteria) ([]models.Property, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Property, 0)
	for _, p := range s.properties {
		if matches(p, c) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if c.Limit > 0 && len(out) > c.Limit {
		out = out[:c.Limit]
	}
	return out, nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (*models.Property, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.properties {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}

func (s *Store) GetFavorites(ctx context.Context, userID int64) ([]models.Property, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return []models.Property{}, nil
	}
	out := make([]models.Property, 0, len(u.favorites))
	for _, id := range u.favorites {
		for _, p := range s.properties {
			if p.ID == id {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (s *Store) GetPreferences(ctx context.Context, userID int64) (*models.UserPreferences, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[userID]; ok && u.preferences != nil {
		prefs := *u.preferences
		return &prefs, nil
	}
	return nil, nil
}

// GetSearchLog returns the log most recent first.
func (s *Store) GetSearchLog(ctx context.Context, userID int64) ([]models.SearchLogEntry, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return []models.SearchLogEntry{}, nil
	}
	out := append([]models.SearchLogEntry(nil), u.log...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].SearchedAt.After(out[j].SearchedAt) })
	return out, nil
}

func (s *Store) check(ctx context.Context) error {
	if s.Err != nil {
		return s.Err
	}
	return ctx.Err()
}

func matches(p models.Property, c models.SearchCriteria) bool {
	if !p.Available {
		return false
	}
	if c.PriceMin != nil && p.Price < *c.PriceMin {
		return false
	}
	if c.PriceMax != nil && p.Price > *c.PriceMax {
		return false
	}
	if c.PropertyType != "" && p.Type != c.PropertyType {
		return false
	}
	if !atLeast(p.Bedrooms, c.BedroomsMin) || !atLeast(p.Bathrooms, c.BathroomsMin) || !atLeast(p.Surface, c.SurfaceMin) {
		return false
	}
	if c.Location != "" && !strings.Contains(strings.ToLower(p.Location), strings.ToLower(c.Location)) {
		return false
	}
	return true
}

func atLeast(v, min *int) bool {
	return min == nil || (v != nil && *v >= *min)
}
