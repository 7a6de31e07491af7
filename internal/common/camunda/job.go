// internal/common/camunda/job.go
package camunda

import (
	"context"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"property-matching/internal/common/errors"
	"property-matching/internal/common/logger"
	"property-matching/internal/common/metrics"
	"property-matching/internal/common/observability"
	"property-matching/internal/common/validation"
)

// JobFunc does the work of one job and returns the variables to complete it with.
type JobFunc func(ctx context.Context, variables string, log logger.Logger) (interface{}, error)

// JobRunner owns the per-job plumbing shared by every handler: request id,
// timeout, metrics, completion and error hand-off.
type JobRunner struct {
	taskType string
	timeout  time.Duration
	logger   logger.Logger
	obs      *observability.Observability
}

func NewJobRunner(taskType string, timeout time.Duration, obs *observability.Observability, log logger.Logger) *JobRunner {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &JobRunner{
		taskType: taskType,
		timeout:  timeout,
		logger:   log,
		obs:      obs,
	}
}

func (r *JobRunner) Run(client worker.JobClient, job entities.Job, fn JobFunc) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(r.taskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(r.taskType).Dec()

	log := r.logger.WithFields(map[string]interface{}{"requestId": uuid.New().String()})
	log.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	output, err := fn(ctx, job.Variables, log)
	if err != nil {
		code := string(errors.Normalize(err).Code)
		metrics.WorkerJobsFailed.WithLabelValues(r.taskType, code).Inc()
		r.obs.RecordJobProcessed(context.Background(), r.taskType, "failed")
		r.obs.RecordJobDuration(context.Background(), r.taskType, time.Since(start), "failed")

		if herr := errors.NewErrorHandler(log).HandleJobError(context.Background(), client, job, err); herr != nil {
			log.Error("failed to report job error", map[string]interface{}{"error": herr.Error()})
		}
		return
	}

	if err := CompleteJob(context.Background(), client, job, output); err != nil {
		log.Error("failed to complete job", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		r.obs.RecordJobProcessed(context.Background(), r.taskType, "failed")
		return
	}

	elapsed := time.Since(start)
	metrics.WorkerJobsCompleted.WithLabelValues(r.taskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(r.taskType).Observe(elapsed.Seconds())
	r.obs.RecordJobProcessed(context.Background(), r.taskType, "completed")
	r.obs.RecordJobDuration(context.Background(), r.taskType, elapsed, "completed")

	log.Info("job completed", map[string]interface{}{
		"jobKey":     job.Key,
		"durationMs": elapsed.Milliseconds(),
	})
}

func CompleteJob(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		return err
	}
	_, err = cmd.Send(ctx)
	return err
}

// DecodeVariables validates the job variables against schema, when given, and
// decodes them into dst.
func DecodeVariables(variables string, schema *validation.Schema, dst interface{}) error {
	if variables == "" {
		variables = "{}"
	}
	if schema != nil {
		if err := schema.Check(variables); err != nil {
			return err
		}
	}
	if err := json.Unmarshal([]byte(variables), dst); err != nil {
		return errors.NewInvalidInputError("parse input: " + err.Error())
	}
	return nil
}
