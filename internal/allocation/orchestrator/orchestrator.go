// Package orchestrator runs allocation: it ranks eligible candidates for a
// role, hands each one to the next recruiter in round-robin order and
// records the assignment.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"recruiter-allocation/internal/allocation/assignment"
	"recruiter-allocation/internal/allocation/cursor"
	"recruiter-allocation/internal/allocation/matching"
	"recruiter-allocation/internal/allocation/notify"
	"recruiter-allocation/internal/common/logger"
	"recruiter-allocation/internal/common/metrics"
	"recruiter-allocation/internal/common/observability"
	"recruiter-allocation/internal/models"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var (
	ErrProjectNotFound = errors.New("PROJECT_NOT_FOUND")
	ErrInvalidInput    = errors.New("INVALID_INPUT")
)

const defaultNotifyTimeout = 5 * time.Second

type Matcher interface {
	FindEligible(ctx context.Context, projectID, roleID, candidateID string) (*matching.Outcome, error)
	Evaluate(ctx context.Context, projectID, roleID string, c *models.Candidate) (*matching.Evaluation, error)
}

type CandidateLoader interface {
	LoadCandidate(ctx context.Context, candidateID string) (*models.Candidate, error)
}

type ProjectCatalog interface {
	ProjectExists(ctx context.Context, projectID string) (bool, error)
	ListOpenRoles(ctx context.Context, projectID string) ([]string, error)
}

type AssignmentWriter interface {
	Create(ctx context.Context, a *models.Assignment) error
}

// Dependencies groups the collaborators of an Orchestrator. Publisher and
// Observability may be nil.
type Dependencies struct {
	Matcher       Matcher
	Candidates    CandidateLoader
	Projects      ProjectCatalog
	Assignments   AssignmentWriter
	Cursor        cursor.Store
	Publisher     notify.Publisher
	Observability *observability.Observability
}

type Orchestrator struct {
	deps          Dependencies
	notifyTimeout time.Duration
	logger        logger.Logger
}

type Option func(*Orchestrator)

// WithNotifyTimeout bounds each notification publish.
func WithNotifyTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.notifyTimeout = d
		}
	}
}

func New(deps Dependencies, log logger.Logger, opts ...Option) *Orchestrator {
	if deps.Publisher == nil {
		deps.Publisher = notify.NopPublisher{}
	}
	o := &Orchestrator{
		deps:          deps,
		notifyTimeout: defaultNotifyTimeout,
		logger:        log.WithFields(map[string]interface{}{"component": "orchestrator"}),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type RoleRequest struct {
	ProjectID   string
	RoleID      string
	Recruiters  []models.Recruiter
	CandidateID string
	BatchSize   int
}

type RoleResult struct {
	ProjectID         string              `json:"projectId"`
	RoleID            string              `json:"roleId"`
	Considered        int                 `json:"considered"`
	Assigned          int                 `json:"assigned"`
	SkippedDuplicates int                 `json:"skippedDuplicates"`
	Errors            []string            `json:"errors"`
	Assignments       []models.Assignment `json:"assignments"`
	Stopped           bool                `json:"stopped"`
}

type ProjectRequest struct {
	ProjectID  string
	Recruiters []models.Recruiter
	BatchSize  int
}

// RoleOutcome isolates one role of a project run. Error is set when the
// role could not be allocated at all.
type RoleOutcome struct {
	RoleID string      `json:"roleId"`
	Result *RoleResult `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

type ProjectResult struct {
	ProjectID string        `json:"projectId"`
	Roles     []RoleOutcome `json:"roles"`
	Assigned  int           `json:"assigned"`
}

// Status summarizes the run for metrics: "error" when every role failed,
// "partial" when some did, "stopped" when a role was cut short.
func (r *ProjectResult) Status() string {
	failed, stopped := 0, false
	for _, role := range r.Roles {
		if role.Error != "" {
			failed++
			continue
		}
		if role.Result != nil && role.Result.Stopped {
			stopped = true
		}
	}
	switch {
	case failed > 0 && failed == len(r.Roles):
		return "error"
	case failed > 0:
		return "partial"
	case stopped:
		return "stopped"
	}
	return "success"
}

// AllocateForRole ranks eligible candidates for one role and assigns them in
// rank order. Per-candidate failures are collected in the result; only
// validation errors and failures before the first candidate are returned.
func (o *Orchestrator) AllocateForRole(ctx context.Context, req RoleRequest) (*RoleResult, error) {
	if req.ProjectID == "" || req.RoleID == "" {
		return nil, fmt.Errorf("%w: projectId and roleId are required", ErrInvalidInput)
	}
	if len(req.Recruiters) == 0 {
		return nil, cursor.ErrNoRecruitersAvailable
	}

	start := time.Now()
	ctx, span := o.deps.Observability.StartSpan(ctx, "allocation.role",
		attribute.String("project.id", req.ProjectID),
		attribute.String("role.id", req.RoleID),
	)
	defer span.End()

	result, err := o.allocateRole(ctx, req)

	status := "success"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else if result.Stopped {
		status = "stopped"
	}
	metrics.RunDuration.WithLabelValues("role").Observe(time.Since(start).Seconds())
	o.deps.Observability.RecordRun(ctx, "role", status, time.Since(start))
	return result, err
}

func (o *Orchestrator) allocateRole(ctx context.Context, req RoleRequest) (*RoleResult, error) {
	log := o.logger.WithFields(map[string]interface{}{
		"projectId": req.ProjectID,
		"roleId":    req.RoleID,
	})

	outcome, err := o.deps.Matcher.FindEligible(ctx, req.ProjectID, req.RoleID, req.CandidateID)
	if err != nil {
		return nil, err
	}

	result := &RoleResult{
		ProjectID:   req.ProjectID,
		RoleID:      req.RoleID,
		Errors:      []string{},
		Assignments: []models.Assignment{},
	}
	for _, f := range outcome.Failures {
		result.Errors = append(result.Errors, fmt.Sprintf("candidate %s: scoring failed: %s", f.CandidateID, f.Error))
		metrics.CandidateErrors.WithLabelValues("scoring").Inc()
	}

	ranked := outcome.Candidates
	if req.CandidateID == "" && req.BatchSize > 0 && len(ranked) > req.BatchSize {
		ranked = ranked[:req.BatchSize]
	}
	result.Considered = len(ranked)
	metrics.CandidatesConsidered.Add(float64(len(ranked)))

	for i, candidate := range ranked {
		if ctx.Err() != nil {
			result.Stopped = true
			log.Warn("allocation stopped before completing the batch", map[string]interface{}{
				"assigned":  result.Assigned,
				"remaining": len(ranked) - i,
				"error":     ctx.Err(),
			})
			break
		}
		o.assignOne(ctx, req, candidate, result, log)
	}

	log.Info("role allocation finished", map[string]interface{}{
		"considered":        result.Considered,
		"assigned":          result.Assigned,
		"skippedDuplicates": result.SkippedDuplicates,
		"errors":            len(result.Errors),
		"stopped":           result.Stopped,
	})
	return result, nil
}

func (o *Orchestrator) assignOne(ctx context.Context, req RoleRequest, candidate models.EligibleCandidate, result *RoleResult, log logger.Logger) {
	recruiter, err := cursor.NextRecruiter(ctx, o.deps.Cursor, req.ProjectID, req.RoleID, req.Recruiters)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("candidate %s: select recruiter: %v", candidate.CandidateID, err))
		metrics.CandidateErrors.WithLabelValues("cursor").Inc()
		log.Error("failed to advance allocation cursor", map[string]interface{}{
			"candidateId": candidate.CandidateID,
			"error":       err,
		})
		return
	}
	metrics.CursorAdvances.Inc()

	record := &models.Assignment{
		CandidateID: candidate.CandidateID,
		ProjectID:   req.ProjectID,
		RoleID:      req.RoleID,
		RecruiterID: recruiter.ID,
		MatchScore:  candidate.Score,
	}
	if err := o.deps.Assignments.Create(ctx, record); err != nil {
		if errors.Is(err, assignment.ErrDuplicateAssignment) {
			result.SkippedDuplicates++
			metrics.DuplicateAssignments.Inc()
			log.Debug("candidate already assigned", map[string]interface{}{
				"candidateId": candidate.CandidateID,
			})
			return
		}
		result.Errors = append(result.Errors, fmt.Sprintf("candidate %s: record assignment: %v", candidate.CandidateID, err))
		metrics.CandidateErrors.WithLabelValues("assignment").Inc()
		log.Error("failed to record assignment", map[string]interface{}{
			"candidateId": candidate.CandidateID,
			"recruiterId": recruiter.ID,
			"error":       err,
		})
		return
	}

	result.Assigned++
	result.Assignments = append(result.Assignments, *record)
	metrics.CandidatesAssigned.Inc()
	log.Info("candidate assigned", map[string]interface{}{
		"candidateId": candidate.CandidateID,
		"recruiterId": recruiter.ID,
		"score":       candidate.Score,
	})

	o.notify(ctx, notify.NewCandidateAssignedEvent(*record, recruiter, candidate.MatchReasons), log)
}

// notify publishes outside the run's cancellation so a stopping run still
// announces what it already committed.
func (o *Orchestrator) notify(ctx context.Context, event models.CandidateAssignedEvent, log logger.Logger) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.notifyTimeout)
	defer cancel()

	if err := o.deps.Publisher.Publish(pubCtx, event); err != nil {
		metrics.NotificationFailures.Inc()
		log.Warn("failed to publish candidate assigned event", map[string]interface{}{
			"candidateId":  event.CandidateID,
			"assignmentId": event.AssignmentID,
			"error":        err,
		})
	}
}

// AllocateForProject runs AllocateForRole for every open role of the
// project. A failing role does not stop the others.
func (o *Orchestrator) AllocateForProject(ctx context.Context, req ProjectRequest) (*ProjectResult, error) {
	if req.ProjectID == "" {
		return nil, fmt.Errorf("%w: projectId is required", ErrInvalidInput)
	}
	if len(req.Recruiters) == 0 {
		return nil, cursor.ErrNoRecruitersAvailable
	}

	start := time.Now()
	ctx, span := o.deps.Observability.StartSpan(ctx, "allocation.project",
		attribute.String("project.id", req.ProjectID),
	)
	defer span.End()

	exists, err := o.deps.Projects.ProjectExists(ctx, req.ProjectID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, req.ProjectID)
	}

	roleIDs, err := o.deps.Projects.ListOpenRoles(ctx, req.ProjectID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	result := &ProjectResult{ProjectID: req.ProjectID, Roles: make([]RoleOutcome, 0, len(roleIDs))}
	for _, roleID := range roleIDs {
		if ctx.Err() != nil {
			result.Roles = append(result.Roles, RoleOutcome{RoleID: roleID, Error: ctx.Err().Error()})
			continue
		}

		roleResult, err := o.AllocateForRole(ctx, RoleRequest{
			ProjectID:  req.ProjectID,
			RoleID:     roleID,
			Recruiters: req.Recruiters,
			BatchSize:  req.BatchSize,
		})
		if err != nil {
			o.logger.Error("role allocation failed", map[string]interface{}{
				"projectId": req.ProjectID,
				"roleId":    roleID,
				"error":     err,
			})
			result.Roles = append(result.Roles, RoleOutcome{RoleID: roleID, Error: err.Error()})
			continue
		}
		result.Assigned += roleResult.Assigned
		result.Roles = append(result.Roles, RoleOutcome{RoleID: roleID, Result: roleResult})
	}

	metrics.RunDuration.WithLabelValues("project").Observe(time.Since(start).Seconds())
	o.deps.Observability.RecordRun(ctx, "project", result.Status(), time.Since(start))
	return result, nil
}

// CheckEligibility evaluates one candidate against a role without touching
// the cursor or assignments.
func (o *Orchestrator) CheckEligibility(ctx context.Context, projectID, roleID, candidateID string) (*matching.Evaluation, error) {
	if projectID == "" || roleID == "" || candidateID == "" {
		return nil, fmt.Errorf("%w: projectId, roleId and candidateId are required", ErrInvalidInput)
	}

	ctx, span := o.deps.Observability.StartSpan(ctx, "allocation.check",
		attribute.String("role.id", roleID),
		attribute.String("candidate.id", candidateID),
	)
	defer span.End()

	c, err := o.deps.Candidates.LoadCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	return o.deps.Matcher.Evaluate(ctx, projectID, roleID, c)
}

// FindEligible exposes the ranked list without allocating.
func (o *Orchestrator) FindEligible(ctx context.Context, projectID, roleID, candidateID string) (*matching.Outcome, error) {
	if projectID == "" || roleID == "" {
		return nil, fmt.Errorf("%w: projectId and roleId are required", ErrInvalidInput)
	}
	ctx, span := o.deps.Observability.StartSpan(ctx, "allocation.eligible",
		attribute.String("role.id", roleID),
	)
	defer span.End()
	return o.deps.Matcher.FindEligible(ctx, projectID, roleID, candidateID)
}

// ResetCursor restarts round-robin for a role at the first recruiter.
func (o *Orchestrator) ResetCursor(ctx context.Context, projectID, roleID string) error {
	if err := o.deps.Cursor.Reset(ctx, projectID, roleID); err != nil {
		return err
	}
	o.logger.Info("allocation cursor reset", map[string]interface{}{
		"projectId": projectID,
		"roleId":    roleID,
	})
	return nil
}
