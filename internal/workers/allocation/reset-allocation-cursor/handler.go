package resetallocationcursor

import (
	"context"
	"errors"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"recruiter-allocation/internal/allocation/cursor"
	"recruiter-allocation/internal/allocation/orchestrator"
	apperrors "recruiter-allocation/internal/common/errors"
	"recruiter-allocation/internal/common/logger"
	"recruiter-allocation/internal/common/metrics"
	"recruiter-allocation/internal/common/validation"
)

const (
	TaskType = "reset-allocation-cursor"
)

type CursorResetter interface {
	ResetCursor(ctx context.Context, projectID, roleID string) error
}

type Handler struct {
	config    *Config
	resetter  CursorResetter
	validator *validation.Validator
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
}

func NewHandler(config *Config, resetter CursorResetter, validator *validation.Validator, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		resetter:  resetter,
		validator: validator,
		errors:    apperrors.NewErrorHandler(log),
		logger:    log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := h.validator.Decode(TaskType, job.Variables, &input); err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(ctx, client, job, classify(err, &input))
		return
	}

	h.completeJob(client, job, output)
}

// classify reports store failures as CURSOR_UPDATE_FAILED rather than a
// generic query failure.
func classify(err error, input *Input) *apperrors.StandardError {
	var stdErr *apperrors.StandardError
	switch {
	case errors.As(err, &stdErr):
		return stdErr
	case errors.Is(err, cursor.ErrInvalidKey), errors.Is(err, orchestrator.ErrInvalidInput),
		errors.Is(err, context.DeadlineExceeded):
		return orchestrator.Classify(err, input.ProjectID, input.RoleID, "")
	default:
		return apperrors.NewCursorUpdateFailedError(err).
			WithMetadata("projectId", input.ProjectID).
			WithMetadata("roleId", input.RoleID)
	}
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: input cannot be nil", orchestrator.ErrInvalidInput)
	}
	if err := h.resetter.ResetCursor(ctx, input.ProjectID, input.RoleID); err != nil {
		return nil, err
	}
	return &Output{ProjectID: input.ProjectID, RoleID: input.RoleID, Reset: true}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	stdErr := apperrors.Normalize(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	h.errors.HandleJobError(context.WithoutCancel(ctx), client, job, stdErr)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
