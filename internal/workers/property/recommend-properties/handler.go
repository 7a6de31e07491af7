// internal/workers/property/recommend-properties/handler.go
package recommendproperties

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
	TaskType = "recommend-properties"
)

var inputSchema = validation.JobSchema(TaskType, map[string]string{
	"userId": validation.PositiveID,
	"limit":  validation.Limit,
}, "userId")

type Recommender interface {
	Recommend(ctx context.Context, userID int64, limit int) ([]models.ScoredProperty, error)
}

type Handler struct {
	config      *Config
	recommender Recommender
	runner      *camunda.JobRunner
	logger      logger.Logger
}

func NewHandler(config *Config, recommender Recommender, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:      config,
		recommender: recommender,
		runner:      camunda.NewJobRunner(TaskType, config.Timeout, obs, log),
		logger:      log,
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

	limit := h.config.DefaultLimit
	if input.Limit != nil {
		limit = *input.Limit
	}

	results, err := h.recommender.Recommend(ctx, input.UserID, limit)
	if err != nil {
		return nil, err
	}

	h.logger.Info("recommendations built", map[string]interface{}{
		"count": len(results),
		"limit": limit,
	})
	return &Output{Properties: results, Count: len(results)}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
