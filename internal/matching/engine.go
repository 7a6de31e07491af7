// Package matching ranks catalog properties against user preferences, user
// behavior and other properties.
package matching

import (
	"context"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"property-matching/internal/common/errors"
	"property-matching/internal/common/logger"
	"property-matching/internal/common/metrics"
	"property-matching/internal/models"
)

// PropertyRepository is the read-only catalog. Search applies only the base
// criteria and orders newest first; GetByID returns nil, nil when absent.
type PropertyRepository interface {
	Search(ctx context.Context, criteria models.SearchCriteria) ([]models.Property, error)
	GetByID(ctx context.Context, id int64) (*models.Property, error)
}

// UserRepository exposes what the engine reads about a user. GetPreferences
// returns nil, nil when nothing is stored.
type UserRepository interface {
	GetFavorites(ctx context.Context, userID int64) ([]models.Property, error)
	GetPreferences(ctx context.Context, userID int64) (*models.UserPreferences, error)
	GetSearchLog(ctx context.Context, userID int64) ([]models.SearchLogEntry, error)
}

// Engine is safe for concurrent use; it holds only frozen configuration.
type Engine struct {
	cfg        Config
	properties PropertyRepository
	users      UserRepository
	scorer     *Scorer
	parser     *QueryParser
	gazetteer  *Gazetteer
	logger     logger.Logger
	tracer     trace.Tracer
}

func NewEngine(cfg Config, properties PropertyRepository, users UserRepository, log logger.Logger) *Engine {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	gaz := NewGazetteer(cfg.Cities)
	e := &Engine{
		cfg:        cfg,
		properties: properties,
		users:      users,
		gazetteer:  gaz,
		parser:     NewQueryParser(cfg.Locale, gaz),
		logger:     log.WithFields(map[string]interface{}{"component": "matching"}),
		tracer:     otel.Tracer("property-matching/matching"),
	}
	e.scorer = NewScorer(&e.cfg)
	return e
}

func (e *Engine) Config() Config {
	return e.cfg
}

func (e *Engine) ParseQuery(text string) models.SearchCriteria {
	return e.parser.Parse(text)
}

func (e *Engine) Geocode(location string) (Coordinates, bool) {
	return e.gazetteer.Geocode(location)
}

// MatchScore is the compatibility of p with prefs in [0, 1]. behavior may be nil.
func (e *Engine) MatchScore(p models.Property, prefs *models.UserPreferences, behavior *models.UserBehavior) float64 {
	return e.scorer.Score(p, prefs, behavior)
}

// Similarity compares two properties, filling missing coordinates first.
func (e *Engine) Similarity(a, b models.Property) float64 {
	return Similarity(e.gazetteer.enrichCoordinates(a), e.gazetteer.enrichCoordinates(b), e.cfg.Similarity)
}

// Search returns available properties matching every criterion, scored when
// prefs is non-nil, sorted and paginated.
func (e *Engine) Search(ctx context.Context, criteria models.SearchCriteria, prefs *models.UserPreferences) (results []models.ScoredProperty, err error) {
	ctx, done := e.observe(ctx, "search")
	defer func() { done(err, map[string]interface{}{"results": len(results)}) }()

	if err := ValidateCriteria(criteria); err != nil {
		return nil, err
	}
	if err := ValidatePreferences(prefs); err != nil {
		return nil, err
	}
	return e.search(ctx, "search", criteria, prefs, nil)
}

// SearchByQuery parses text and lets the parsed fields override prefs.
func (e *Engine) SearchByQuery(ctx context.Context, text string, prefs *models.UserPreferences) ([]models.ScoredProperty, error) {
	criteria := MergeParsed(e.parser.Parse(text), prefs)
	return e.Search(ctx, criteria, prefs)
}

func (e *Engine) search(ctx context.Context, op string, criteria models.SearchCriteria, prefs *models.UserPreferences, behavior *models.UserBehavior) ([]models.ScoredProperty, error) {
	candidates, err := e.candidates(ctx, op, criteria)
	if err != nil {
		return nil, err
	}

	scored := prefs != nil
	if scored {
		for i := range candidates {
			s := e.scorer.Score(candidates[i].Property, prefs, behavior)
			candidates[i].Score = &s
		}
		metrics.CandidatesScored.WithLabelValues(op).Add(float64(len(candidates)))
		if err := ctx.Err(); err != nil {
			return nil, errors.NewCancelledError(op, err)
		}
	}

	sortResults(candidates, criteria.SortBy, scored)
	return paginate(candidates, criteria.Offset, criteria.Limit), nil
}

// candidates fetches the base slice and applies enrichment and the advanced
// predicates. The context is checked once the fetch returns.
func (e *Engine) candidates(ctx context.Context, op string, criteria models.SearchCriteria) ([]models.ScoredProperty, error) {
	fetched, err := e.properties.Search(ctx, criteria.Base(e.cfg.MaxCandidates))
	if err != nil {
		return nil, errors.NewRepositoryError("search", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.NewCancelledError(op, err)
	}

	out := make([]models.ScoredProperty, 0, len(fetched))
	for _, p := range fetched {
		if !matchesBase(p, criteria) {
			continue
		}
		sp := enrich(e.gazetteer.enrichCoordinates(p))
		if !matchesAdvanced(&sp, criteria) {
			continue
		}
		out = append(out, sp)
	}
	e.logger.Debug("candidates collected", map[string]interface{}{
		"operation": op,
		"fetched":   len(fetched),
		"kept":      len(out),
	})
	return out, nil
}

// Similar returns properties resembling the reference. An unknown reference
// yields an empty list.
func (e *Engine) Similar(ctx context.Context, propertyID int64, limit int) (results []models.ScoredProperty, err error) {
	ctx, done := e.observe(ctx, "similar")
	defer func() { done(err, map[string]interface{}{"results": len(results)}) }()

	if limit < 0 {
		return nil, errors.NewInvalidCriteriaError("limit", "must not be negative")
	}
	ref, err := e.properties.GetByID(ctx, propertyID)
	if err != nil {
		return nil, errors.NewRepositoryError("get_by_id", err)
	}
	if ref == nil {
		return []models.ScoredProperty{}, nil
	}

	candidates, err := e.properties.Search(ctx, similarCriteria(*ref, e.cfg.Similarity, e.cfg.MaxCandidates))
	if err != nil {
		return nil, errors.NewRepositoryError("search", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.NewCancelledError("similar", err)
	}
	metrics.CandidatesScored.WithLabelValues("similar").Add(float64(len(candidates)))

	return rankSimilar(*ref, candidates, e.cfg.Similarity, e.gazetteer, limit), nil
}

// FindMatches scores the profile's candidates and keeps those at or above
// minScore, each with its explanation. An empty profile yields an empty list.
func (e *Engine) FindMatches(ctx context.Context, userID int64, limit int, minScore float64) (matches []models.Match, err error) {
	ctx, done := e.observe(ctx, "find_matches")
	defer func() { done(err, map[string]interface{}{"results": len(matches)}) }()

	if limit < 0 {
		return nil, errors.NewInvalidCriteriaError("limit", "must not be negative")
	}
	if minScore < 0 || minScore > 1 {
		return nil, errors.NewInvalidCriteriaError("minScore", "must be within [0, 1]")
	}

	profile, err := BuildProfile(ctx, e.users, userID, e.cfg.RecentQueries)
	if err != nil {
		return nil, err
	}
	if profile.IsEmpty() {
		return []models.Match{}, nil
	}

	prefs := profile.Explicit
	if prefs == nil {
		prefs = &models.UserPreferences{}
	}
	criteria := CriteriaFromProfile(profile, &e.cfg)
	criteria.SortBy = models.SortCompatibility
	candidates, err := e.search(ctx, "find_matches", criteria, prefs, profile.Behavior())
	if err != nil {
		return nil, err
	}

	matches = make([]models.Match, 0, len(candidates))
	for _, c := range candidates {
		score := scoreOf(c)
		if score < minScore {
			continue
		}
		matches = append(matches, models.Match{
			Property:    c,
			Score:       score,
			Explanation: e.Explain(c.Property, prefs, score),
		})
		if limit > 0 && len(matches) == limit {
			break
		}
	}
	return matches, nil
}

// Recommend returns diversified, personalized suggestions that exclude the
// user's favorites. An empty profile yields an empty list.
func (e *Engine) Recommend(ctx context.Context, userID int64, limit int) (results []models.ScoredProperty, err error) {
	ctx, done := e.observe(ctx, "recommend")
	defer func() {
		if err == nil {
			metrics.RecommendationsReturned.Observe(float64(len(results)))
		}
		done(err, map[string]interface{}{"results": len(results)})
	}()

	if limit < 0 {
		return nil, errors.NewInvalidCriteriaError("limit", "must not be negative")
	}

	profile, err := BuildProfile(ctx, e.users, userID, e.cfg.RecentQueries)
	if err != nil {
		return nil, err
	}
	if profile.IsEmpty() {
		return []models.ScoredProperty{}, nil
	}

	candidates, err := e.search(ctx, "recommend", CriteriaFromProfile(profile, &e.cfg), nil, nil)
	if err != nil {
		return nil, err
	}

	behavior := profile.Behavior()
	ranked := make([]models.ScoredProperty, 0, len(candidates))
	for _, c := range candidates {
		if _, fav := profile.FavoriteIDs[c.ID]; fav {
			continue
		}
		s := e.blendScore(c.Property, profile, behavior)
		c.Score = &s
		ranked = append(ranked, c)
	}
	metrics.CandidatesScored.WithLabelValues("recommend").Add(float64(len(ranked)))
	if err := ctx.Err(); err != nil {
		return nil, errors.NewCancelledError("recommend", err)
	}

	sort.SliceStable(ranked, func(i, j int) bool { return scoreOf(ranked[i]) > scoreOf(ranked[j]) })
	return Diversify(ranked, limit, e.cfg.Diversity), nil
}

// MarketStats aggregates every available property matching the optional
// location and type filters.
func (e *Engine) MarketStats(ctx context.Context, location string, propertyType models.PropertyType) (summary models.StatsSummary, err error) {
	ctx, done := e.observe(ctx, "market_stats")
	defer func() { done(err, map[string]interface{}{"count": summary.Count}) }()

	criteria := models.SearchCriteria{Location: location, PropertyType: propertyType}
	if err := ValidateCriteria(criteria); err != nil {
		return models.StatsSummary{}, err
	}

	fetched, err := e.properties.Search(ctx, criteria.Base(0))
	if err != nil {
		return models.StatsSummary{}, errors.NewRepositoryError("search", err)
	}
	if err := ctx.Err(); err != nil {
		return models.StatsSummary{}, errors.NewCancelledError("market_stats", err)
	}

	slice := make([]models.Property, 0, len(fetched))
	for _, p := range fetched {
		if matchesBase(p, criteria) {
			slice = append(slice, p)
		}
	}
	return ComputeStats(slice), nil
}

// observe opens a span and returns the function that closes it, records the
// operation metrics and logs the outcome.
func (e *Engine) observe(ctx context.Context, operation string) (context.Context, func(error, map[string]interface{})) {
	ctx, span := e.tracer.Start(ctx, "matching."+operation)
	start := time.Now()

	return ctx, func(err error, fields map[string]interface{}) {
		elapsed := time.Since(start)
		metrics.MatchingDuration.WithLabelValues(operation).Observe(elapsed.Seconds())

		logFields := map[string]interface{}{
			"operation":  operation,
			"durationMs": elapsed.Milliseconds(),
		}
		for k, v := range fields {
			logFields[k] = v
		}

		status := "success"
		if err != nil {
			status = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.SetAttributes(attribute.String("error.code", string(errors.CodeOf(err))))
			logFields["errorCode"] = string(errors.CodeOf(err))
			e.logger.Debug("operation failed", logFields)
		} else if e.cfg.SlowOperation > 0 && elapsed > e.cfg.SlowOperation {
			e.logger.Warn("slow operation", logFields)
		} else {
			e.logger.Debug("operation completed", logFields)
		}
		metrics.MatchingOperations.WithLabelValues(operation, status).Inc()
		span.End()
	}
}
