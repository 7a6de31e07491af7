// internal/repository/postgres/repository.go
package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/goccy/go-json"

	"property-matching/internal/common/database"
	"property-matching/internal/common/errors"
	"property-matching/internal/common/logger"
	"property-matching/internal/models"
)

// Repository serves both the property catalog and user data from PostgreSQL.
// It only reads; the schema is owned elsewhere.
type Repository struct {
	client          *database.PostgresClient
	searchLogWindow int
	logger          logger.Logger
}

func NewRepository(client *database.PostgresClient, searchLogWindow int, log logger.Logger) *Repository {
	if searchLogWindow <= 0 {
		searchLogWindow = 50
	}
	return &Repository{
		client:          client,
		searchLogWindow: searchLogWindow,
		logger:          log.WithFields(map[string]interface{}{"repository": "postgres"}),
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) Search(ctx context.Context, c models.SearchCriteria) ([]models.Property, error) {
	ctx, cancel := r.client.WithQueryTimeout(ctx)
	defer cancel()

	query, args := buildSearchQuery(c)
	start := time.Now()

	rows, err := r.client.Query(ctx, query, args...)
	if err != nil {
		return nil, r.wrap(ctx, models.QueryTypePropertySearch, err)
	}
	properties, err := scanProperties(rows)
	if err != nil {
		return nil, r.wrap(ctx, models.QueryTypePropertySearch, err)
	}

	r.logger.Debug("query executed", map[string]interface{}{
		"queryType":  models.QueryTypePropertySearch,
		"rowCount":   len(properties),
		"durationMs": time.Since(start).Milliseconds(),
	})
	return properties, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Property, error) {
	ctx, cancel := r.client.WithQueryTimeout(ctx)
	defer cancel()

	p, err := scanProperty(r.client.QueryRow(ctx, queries[models.QueryTypePropertyByID], id))
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, r.wrap(ctx, models.QueryTypePropertyByID, err)
	}
	return &p, nil
}

func (r *Repository) GetFavorites(ctx context.Context, userID int64) ([]models.Property, error) {
	ctx, cancel := r.client.WithQueryTimeout(ctx)
	defer cancel()

	rows, err := r.client.Query(ctx, queries[models.QueryTypeUserFavorites], userID)
	if err != nil {
		return nil, r.wrap(ctx, models.QueryTypeUserFavorites, err)
	}
	favorites, err := scanProperties(rows)
	if err != nil {
		return nil, r.wrap(ctx, models.QueryTypeUserFavorites, err)
	}
	return favorites, nil
}

func (r *Repository) GetPreferences(ctx context.Context, userID int64) (*models.UserPreferences, error) {
	ctx, cancel := r.client.WithQueryTimeout(ctx)
	defer cancel()

	var (
		prefs                                models.UserPreferences
		budgetMin, budgetMax                 sql.NullInt64
		bedroomsMin, bathroomsMin, surfaceMn sql.NullInt32
		propertyType, location               sql.NullString
		advanced                             []byte
	)
	err := r.client.QueryRow(ctx, queries[models.QueryTypeUserPreferences], userID).Scan(
		&budgetMin, &budgetMax, &propertyType, &bedroomsMin, &bathroomsMin,
		&surfaceMn, &location, &advanced,
	)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, r.wrap(ctx, models.QueryTypeUserPreferences, err)
	}

	prefs.BudgetMin = nullInt64(budgetMin)
	prefs.BudgetMax = nullInt64(budgetMax)
	prefs.BedroomsMin = nullInt(bedroomsMin)
	prefs.BathroomsMin = nullInt(bathroomsMin)
	prefs.SurfaceMin = nullInt(surfaceMn)
	prefs.Location = location.String
	if t, ok := models.ParsePropertyType(propertyType.String); ok {
		prefs.PropertyType = t
	}
	if len(advanced) > 0 {
		if err := json.Unmarshal(advanced, &prefs.Advanced); err != nil {
			r.logger.Warn("ignoring malformed advanced_criteria", map[string]interface{}{"error": err.Error()})
			prefs.Advanced = nil
		}
	}
	return &prefs, nil
}

func (r *Repository) GetSearchLog(ctx context.Context, userID int64) ([]models.SearchLogEntry, error) {
	ctx, cancel := r.client.WithQueryTimeout(ctx)
	defer cancel()

	rows, err := r.client.Query(ctx, queries[models.QueryTypeUserSearchLog], userID, r.searchLogWindow)
	if err != nil {
		return nil, r.wrap(ctx, models.QueryTypeUserSearchLog, err)
	}
	defer rows.Close()

	entries := make([]models.SearchLogEntry, 0)
	for rows.Next() {
		var (
			entry   models.SearchLogEntry
			query   sql.NullString
			filters []byte
			count   sql.NullInt64
		)
		if err := rows.Scan(&query, &filters, &count, &entry.SearchedAt); err != nil {
			return nil, r.wrap(ctx, models.QueryTypeUserSearchLog, err)
		}
		entry.Query = query.String
		entry.ResultsCount = int(count.Int64)
		if len(filters) > 0 {
			// A row with unreadable filters still counts as a search.
			_ = json.Unmarshal(filters, &entry.Filters)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, r.wrap(ctx, models.QueryTypeUserSearchLog, err)
	}
	return entries, nil
}

func (r *Repository) wrap(ctx context.Context, queryType models.QueryType, err error) error {
	if stderrors.Is(ctx.Err(), context.DeadlineExceeded) || stderrors.Is(err, context.DeadlineExceeded) {
		return errors.NewQueryTimeoutError(string(queryType))
	}
	return errors.NewQueryExecutionFailedError(string(queryType), err)
}

func scanProperties(rows *sql.Rows) ([]models.Property, error) {
	defer rows.Close()

	out := make([]models.Property, 0)
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanProperty(row rowScanner) (models.Property, error) {
	var (
		p                            models.Property
		title, propertyType          sql.NullString
		bedrooms, bathrooms, surface sql.NullInt32
		yearBuilt                    sql.NullInt32
		latitude, longitude          sql.NullFloat64
		features                     []byte
	)
	err := row.Scan(
		&p.ID, &title, &p.Price, &propertyType, &bedrooms, &bathrooms, &surface,
		&p.Location, &latitude, &longitude, &features, &p.Available, &yearBuilt, &p.CreatedAt,
	)
	if err != nil {
		return p, err
	}

	p.Title = title.String
	p.Type = models.NormalizePropertyType(propertyType.String)
	p.Bedrooms = nullInt(bedrooms)
	p.Bathrooms = nullInt(bathrooms)
	p.Surface = nullInt(surface)
	p.YearBuilt = nullInt(yearBuilt)
	if latitude.Valid {
		p.Latitude = models.Float64Ptr(latitude.Float64)
	}
	if longitude.Valid {
		p.Longitude = models.Float64Ptr(longitude.Float64)
	}
	if len(features) > 0 {
		if err := json.Unmarshal(features, &p.Features); err != nil {
			p.Features = nil
		}
	}
	return p, nil
}

func nullInt(v sql.NullInt32) *int {
	if !v.Valid {
		return nil
	}
	return models.IntPtr(int(v.Int32))
}

func nullInt64(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return models.Int64Ptr(v.Int64)
}
