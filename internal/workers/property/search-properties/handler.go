// internal/workers/property/search-properties/handler.go
package searchproperties

import (
	"context"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"property-matching/internal/common/camunda"
	"property-matching/internal/common/errors"
	"property-matching/internal/common/logger"
	"property-matching/internal/common/observability"
	"property-matching/internal/common/validation"
	"property-matching/internal/matching"
	"property-matching/internal/models"
)

const (
	TaskType = "search-properties"
)

var inputSchema = validation.JobSchema(TaskType, map[string]string{
	"criteria":    validation.CriteriaObject,
	"query":       validation.Text,
	"preferences": validation.PreferencesObject,
})

type Searcher interface {
	ParseQuery(text string) models.SearchCriteria
	Search(ctx context.Context, criteria models.SearchCriteria, prefs *models.UserPreferences) ([]models.ScoredProperty, error)
	SearchByQuery(ctx context.Context, text string, prefs *models.UserPreferences) ([]models.ScoredProperty, error)
}

type Handler struct {
	config   *Config
	searcher Searcher
	runner   *camunda.JobRunner
	logger   logger.Logger
}

func NewHandler(config *Config, searcher Searcher, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		searcher: searcher,
		runner:   camunda.NewJobRunner(TaskType, config.Timeout, obs, log),
		logger:   log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.runner.Run(client, job, func(ctx context.Context, variables string, log logger.Logger) (interface{}, error) {
		var input Input
		if err := camunda.DecodeVariables(variables, inputSchema, &input); err != nil {
			return nil, err
		}
		return h.execute(ctx, &input)
	})
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.NewInvalidInputError("input cannot be nil")
	}
	if input.Criteria == nil && input.Query == "" {
		return nil, errors.NewInvalidInputError("criteria or query is required")
	}

	var (
		results []models.ScoredProperty
		err     error
	)
	switch {
	case input.Criteria == nil:
		results, err = h.searcher.SearchByQuery(ctx, input.Query, input.Preferences)
	case input.Query != "":
		criteria := h.searcher.ParseQuery(input.Query).Merge(*input.Criteria)
		results, err = h.searcher.Search(ctx, matching.MergeParsed(criteria, input.Preferences), input.Preferences)
	default:
		results, err = h.searcher.Search(ctx, *input.Criteria, input.Preferences)
	}
	if err != nil {
		return nil, err
	}

	h.logger.Info("search completed", map[string]interface{}{
		"hasQuery":  input.Query != "",
		"scored":    input.Preferences != nil,
		"resultSet": len(results),
	})
	return &Output{Properties: results, Count: len(results)}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
