// internal/workers/property/compute-market-stats/handler.go
package computemarketstats

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
	TaskType = "compute-market-stats"
)

// propertyType is matched case-insensitively, so the schema only bounds it.
var inputSchema = validation.JobSchema(TaskType, map[string]string{
	"location":     validation.Text,
	"propertyType": `{"type": "string", "maxLength": 32}`,
})

type StatsProvider interface {
	MarketStats(ctx context.Context, location string, propertyType models.PropertyType) (models.StatsSummary, error)
}

type Handler struct {
	config *Config
	stats  StatsProvider
	runner *camunda.JobRunner
	logger logger.Logger
}

func NewHandler(config *Config, stats StatsProvider, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		stats:  stats,
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
	if input == nil {
		return nil, errors.NewInvalidInputError("input cannot be nil")
	}

	var propertyType models.PropertyType
	if input.PropertyType != "" {
		t, ok := models.ParsePropertyType(input.PropertyType)
		if !ok {
			return nil, errors.NewInvalidCriteriaError("propertyType", "unknown property type "+input.PropertyType)
		}
		propertyType = t
	}

	stats, err := h.stats.MarketStats(ctx, input.Location, propertyType)
	if err != nil {
		return nil, err
	}

	h.logger.Info("market stats computed", map[string]interface{}{
		"location":     input.Location,
		"propertyType": string(propertyType),
		"count":        stats.Count,
	})
	return &Output{Stats: stats}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
