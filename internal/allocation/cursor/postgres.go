package cursor

import (
	"context"
	"database/sql"
	"fmt"

	"recruiter-allocation/internal/common/database"
)

const (
	ensureCursorQuery = `
		INSERT INTO allocation_cursors (project_id, role_id, last_index, updated_at)
		VALUES ($1, $2, 0, NOW())
		ON CONFLICT (project_id, role_id) DO NOTHING`

	lockCursorQuery = `
		SELECT last_index
		FROM allocation_cursors
		WHERE project_id = $1 AND role_id = $2
		FOR UPDATE`

	advanceCursorQuery = `
		UPDATE allocation_cursors
		SET last_index = $3, updated_at = NOW()
		WHERE project_id = $1 AND role_id = $2`

	resetCursorQuery = `
		INSERT INTO allocation_cursors (project_id, role_id, last_index, updated_at)
		VALUES ($1, $2, 0, NOW())
		ON CONFLICT (project_id, role_id) DO UPDATE SET last_index = 0, updated_at = NOW()`
)

// PostgresStore keeps cursors in the allocation_cursors table. The row lock
// taken by SELECT ... FOR UPDATE serializes concurrent advances per key.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Next(ctx context.Context, projectID, roleID string, poolSize int) (int, error) {
	if poolSize <= 0 {
		return 0, ErrNoRecruitersAvailable
	}
	if err := validateKey(projectID, roleID); err != nil {
		return 0, err
	}

	var next int
	err := database.WithTx(ctx, s.db, nil, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, ensureCursorQuery, projectID, roleID); err != nil {
			return fmt.Errorf("create cursor: %w", err)
		}

		var last int
		if err := tx.QueryRowContext(ctx, lockCursorQuery, projectID, roleID).Scan(&last); err != nil {
			return fmt.Errorf("lock cursor: %w", err)
		}

		next = advance(last, poolSize)
		if _, err := tx.ExecContext(ctx, advanceCursorQuery, projectID, roleID, next); err != nil {
			return fmt.Errorf("advance cursor: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("cursor %s/%s: %w", projectID, roleID, err)
	}
	return next, nil
}

func (s *PostgresStore) Reset(ctx context.Context, projectID, roleID string) error {
	if err := validateKey(projectID, roleID); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, resetCursorQuery, projectID, roleID); err != nil {
		return fmt.Errorf("reset cursor %s/%s: %w", projectID, roleID, err)
	}
	return nil
}
