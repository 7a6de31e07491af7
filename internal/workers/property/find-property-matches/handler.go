// internal/workers/property/find-property-matches/handler.go
package findpropertymatches

import (
	"context"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"property-matching/internal/common/camunda"
	"property-matching/internal/common/errors"
	"property-matching/internal/common/logger"
	"property-matching/internal/common/observability"
	"property-matching/internal/common/validation"
	"property-matching/internal/models"
)

const (
	TaskType = "find-property-matches"
)

var inputSchema = validation.JobSchema(TaskType, map[string]string{
	"userId":   validation.PositiveID,
	"limit":    validation.Limit,
	"minScore": validation.UnitInterval,
}, "userId")

type Matcher interface {
	FindMatches(ctx context.Context, userID int64, limit int, minScore float64) ([]models.Match, error)
}

type Handler struct {
	config  *Config
	matcher Matcher
	runner  *camunda.JobRunner
	logger  logger.Logger
}

func NewHandler(config *Config, matcher Matcher, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:  config,
		matcher: matcher,
		runner:  camunda.NewJobRunner(TaskType, config.Timeout, obs, log),
		logger:  log,
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
	if input.UserID <= 0 {
		return nil, errors.NewInvalidInputError("userId must be positive")
	}

	limit, minScore := h.config.DefaultLimit, h.config.DefaultMinScore
	if input.Limit != nil {
		limit = *input.Limit
	}
	if input.MinScore != nil {
		minScore = *input.MinScore
	}

	matches, err := h.matcher.FindMatches(ctx, input.UserID, limit, minScore)
	if err != nil {
		return nil, err
	}

	h.logger.Info("matches found", map[string]interface{}{
		"count":    len(matches),
		"minScore": minScore,
	})
	return &Output{Matches: matches, Count: len(matches)}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
