// Package assignment persists candidate-to-recruiter assignment records.
package assignment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"recruiter-allocation/internal/common/database"
	"recruiter-allocation/internal/models"

	"github.com/google/uuid"
)

var (
	// ErrDuplicateAssignment means a record for the same (candidate,
	// project, role) already exists. Callers treat it as lost race, not as
	// a failure.
	ErrDuplicateAssignment = errors.New("DUPLICATE_ASSIGNMENT")
	ErrInsertFailed        = errors.New("ASSIGNMENT_INSERT_FAILED")
)

const insertAssignmentQuery = `
	INSERT INTO candidate_assignments (
		id, candidate_id, project_id, role_id, recruiter_id, match_score, assigned_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7)`

// Store writes assignment records. Uniqueness is enforced by the
// candidate_assignments unique constraint, not by a prior lookup.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Create inserts one assignment in its own transaction and fills in the
// generated ID and timestamp.
func (s *Store) Create(ctx context.Context, a *models.Assignment) error {
	if a.CandidateID == "" || a.ProjectID == "" || a.RoleID == "" || a.RecruiterID == "" {
		return fmt.Errorf("%w: candidate, project, role and recruiter are required", ErrInsertFailed)
	}

	id := uuid.New().String()
	assignedAt := s.now().UTC()

	err := database.WithTx(ctx, s.db, nil, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, insertAssignmentQuery,
			id, a.CandidateID, a.ProjectID, a.RoleID, a.RecruiterID, a.MatchScore, assignedAt)
		return err
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("%w: candidate %s already assigned for %s/%s",
				ErrDuplicateAssignment, a.CandidateID, a.ProjectID, a.RoleID)
		}
		return fmt.Errorf("%w: candidate %s: %v", ErrInsertFailed, a.CandidateID, err)
	}

	a.ID = id
	a.AssignedAt = assignedAt
	return nil
}
