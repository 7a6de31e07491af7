// internal/workers/property/parse-property-query/handler.go
package parsepropertyquery

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
	TaskType = "parse-property-query"
)

var inputSchema = validation.JobSchema(TaskType, map[string]string{
	"query": validation.Text,
}, "query")

type Parser interface {
	ParseQuery(text string) models.SearchCriteria
}

type Handler struct {
	config *Config
	parser Parser
	runner *camunda.JobRunner
	logger logger.Logger
}

func NewHandler(config *Config, parser Parser, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		parser: parser,
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
	if err := ctx.Err(); err != nil {
		return nil, errors.NewCancelledError("parse_query", err)
	}

	criteria := h.parser.ParseQuery(input.Query)
	h.logger.Debug("query parsed", map[string]interface{}{
		"queryLength":  len(input.Query),
		"propertyType": string(criteria.PropertyType),
		"location":     criteria.Location,
	})
	return &Output{Criteria: criteria}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
