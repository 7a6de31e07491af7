// internal/workers/property/calculate-property-match/handler.go
package calculatepropertymatch

import (
	"context"
	"fmt"

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
	TaskType = "calculate-property-match"
)

var inputSchema = validation.JobSchema(TaskType, map[string]string{
	"property":    `{"type": "object", "required": ["id", "price", "propertyType"]}`,
	"preferences": validation.PreferencesObject,
	"behavior":    `{"type": "object"}`,
}, "property")

type Scorer interface {
	MatchScore(p models.Property, prefs *models.UserPreferences, behavior *models.UserBehavior) float64
	Explain(p models.Property, prefs *models.UserPreferences, score float64) models.Explanation
}

type Handler struct {
	config *Config
	scorer Scorer
	runner *camunda.JobRunner
	logger logger.Logger
}

func NewHandler(config *Config, scorer Scorer, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		scorer: scorer,
		runner: camunda.NewJobRunner(TaskType, config.Timeout, obs, log),
		logger: log,
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
	if input == nil || input.Property == nil {
		return nil, errors.NewInvalidInputError("property is required")
	}
	if result, err := validation.PropertySchema.ValidateValue(input.Property); err != nil {
		return nil, err
	} else if err := result.Err(); err != nil {
		return nil, err
	}
	if err := matching.ValidatePreferences(input.Preferences); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.NewCancelledError("match_score", err)
	}

	score := h.scorer.MatchScore(*input.Property, input.Preferences, input.Behavior)
	explanation := h.scorer.Explain(*input.Property, input.Preferences, score)

	h.logger.Debug("match scored", map[string]interface{}{
		"propertyId": input.Property.ID,
		"score":      fmt.Sprintf("%.3f", score),
	})
	return &Output{Score: score, Explanation: explanation}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
