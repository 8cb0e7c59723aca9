package checkcandidateeligibility

import (
	"context"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"recruiter-allocation/internal/allocation/matching"
	"recruiter-allocation/internal/allocation/orchestrator"
	apperrors "recruiter-allocation/internal/common/errors"
	"recruiter-allocation/internal/common/logger"
	"recruiter-allocation/internal/common/metrics"
	"recruiter-allocation/internal/common/validation"
)

const (
	TaskType = "check-candidate-eligibility"
)

type Checker interface {
	CheckEligibility(ctx context.Context, projectID, roleID, candidateID string) (*matching.Evaluation, error)
}

type Handler struct {
	config    *Config
	checker   Checker
	validator *validation.Validator
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
}

func NewHandler(config *Config, checker Checker, validator *validation.Validator, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		checker:   checker,
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
		h.failJob(ctx, client, job, orchestrator.Classify(err, input.ProjectID, input.RoleID, input.CandidateID))
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: input cannot be nil", orchestrator.ErrInvalidInput)
	}

	eval, err := h.checker.CheckEligibility(ctx, input.ProjectID, input.RoleID, input.CandidateID)
	if err != nil {
		return nil, err
	}

	output := &Output{
		Eligible:            eval.Eligible,
		Fallback:            eval.Fallback,
		Reasons:             []string{},
		MissingRequirements: []string{},
	}
	if r := eval.Result; r != nil {
		output.Passes = r.Passes
		output.Score = r.Score
		output.FactorScores = r.FactorScores
		if r.Reasons != nil {
			output.Reasons = r.Reasons
		}
		if r.MissingRequirements != nil {
			output.MissingRequirements = r.MissingRequirements
		}
	}
	return output, nil
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
