// Package notify publishes "candidate assigned" events. Delivery is best
// effort: callers log a failed publish and never undo the assignment.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"recruiter-allocation/internal/models"

	"github.com/google/uuid"
)

var ErrPublishFailed = errors.New("NOTIFICATION_PUBLISH_FAILED")

type Publisher interface {
	Publish(ctx context.Context, event models.CandidateAssignedEvent) error
}

// NewCandidateAssignedEvent builds the outbound payload for a stored
// assignment.
func NewCandidateAssignedEvent(a models.Assignment, recruiter models.Recruiter, reasons []string) models.CandidateAssignedEvent {
	if reasons == nil {
		reasons = []string{}
	}
	return models.CandidateAssignedEvent{
		EventID:        uuid.New().String(),
		Type:           models.EventCandidateAssigned,
		AssignmentID:   a.ID,
		CandidateID:    a.CandidateID,
		ProjectID:      a.ProjectID,
		RoleID:         a.RoleID,
		RecruiterID:    recruiter.ID,
		RecruiterName:  recruiter.Name,
		RecruiterEmail: recruiter.Email,
		Score:          a.MatchScore,
		Reasons:        reasons,
		OccurredAt:     a.AssignedAt.UTC().Format(time.RFC3339),
	}
}

func encode(event models.CandidateAssignedEvent) ([]byte, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("%w: encode event: %v", ErrPublishFailed, err)
	}
	return body, nil
}

// NopPublisher drops every event. Used when notifications are disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, models.CandidateAssignedEvent) error { return nil }

// MultiPublisher fans an event out to every publisher and joins the errors.
// One failing driver does not stop the others.
type MultiPublisher struct {
	publishers []Publisher
}

func NewMultiPublisher(publishers ...Publisher) *MultiPublisher {
	return &MultiPublisher{publishers: publishers}
}

func (m *MultiPublisher) Publish(ctx context.Context, event models.CandidateAssignedEvent) error {
	var errs []error
	for _, p := range m.publishers {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiPublisher) Len() int {
	return len(m.publishers)
}
