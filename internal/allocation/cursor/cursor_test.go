package cursor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"testing"

	"recruiter-allocation/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func recruiterPool(ids ...string) []models.Recruiter {
	pool := make([]models.Recruiter, 0, len(ids))
	for _, id := range ids {
		pool = append(pool, models.Recruiter{ID: id, Name: "Recruiter " + id})
	}
	return pool
}

func setupRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client), mr
}

func expectAdvance(mock sqlmock.Sqlmock, projectID, roleID string, last, next int) {
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO allocation_cursors")).
		WithArgs(projectID, roleID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT last_index")).
		WithArgs(projectID, roleID).
		WillReturnRows(sqlmock.NewRows([]string{"last_index"}).AddRow(last))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE allocation_cursors")).
		WithArgs(projectID, roleID, next).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
}

type countingStore struct {
	calls int
}

func (s *countingStore) Next(context.Context, string, string, int) (int, error) {
	s.calls++
	return 0, nil
}

func (s *countingStore) Reset(context.Context, string, string) error { return nil }

// ==========================
// NextRecruiter Tests
// ==========================

func TestNextRecruiter_EmptyPoolFailsBeforeIO(t *testing.T) {
	store := &countingStore{}

	_, err := NextRecruiter(context.Background(), store, "project-1", "role-1", nil)

	assert.ErrorIs(t, err, ErrNoRecruitersAvailable)
	assert.Zero(t, store.calls)
}

func TestNextRecruiter_CyclesFromStart(t *testing.T) {
	store, _ := setupRedisStore(t)
	pool := recruiterPool("r-a", "r-b", "r-c")
	ctx := context.Background()

	var got []string
	for i := 0; i < 3; i++ {
		r, err := NextRecruiter(ctx, store, "project-1", "role-1", pool)
		require.NoError(t, err)
		got = append(got, r.ID)
	}

	// cursor starts at 0, so the first pick is index 1
	assert.Equal(t, []string{"r-b", "r-c", "r-a"}, got)
}

// ==========================
// PostgresStore Tests
// ==========================

func TestPostgresStore_Next_SequentialIndices(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresStore(db)
	ctx := context.Background()

	expectAdvance(mock, "project-1", "role-1", 0, 1)
	expectAdvance(mock, "project-1", "role-1", 1, 2)
	expectAdvance(mock, "project-1", "role-1", 2, 0)

	var got []int
	for i := 0; i < 3; i++ {
		idx, err := store.Next(ctx, "project-1", "role-1", 3)
		require.NoError(t, err)
		got = append(got, idx)
	}

	assert.Equal(t, []int{1, 2, 0}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Next_FoldsStaleIndexIntoShrunkPool(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectAdvance(mock, "project-1", "role-1", 7, 0)

	idx, err := NewPostgresStore(db).Next(context.Background(), "project-1", "role-1", 2)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Next_RollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO allocation_cursors")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT last_index")).
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	_, err = NewPostgresStore(db).Next(context.Background(), "project-1", "role-1", 3)

	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Next_Validation(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresStore(db)

	_, err = store.Next(context.Background(), "project-1", "role-1", 0)
	assert.ErrorIs(t, err, ErrNoRecruitersAvailable)

	_, err = store.Next(context.Background(), "", "role-1", 3)
	assert.ErrorIs(t, err, ErrInvalidKey)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Reset(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (project_id, role_id) DO UPDATE SET last_index = 0")).
		WithArgs("project-1", "role-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (project_id, role_id) DO UPDATE SET last_index = 0")).
		WithArgs("project-1", "role-1").
		WillReturnError(errors.New("connection reset"))

	store := NewPostgresStore(db)
	require.NoError(t, store.Reset(context.Background(), "project-1", "role-1"))
	assert.Error(t, store.Reset(context.Background(), "project-1", "role-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// RedisStore Tests
// ==========================

func TestRedisStore_Distribution(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	tests := []struct {
		calls int
		pool  int
	}{
		{calls: 10, pool: 3},
		{calls: 7, pool: 7},
		{calls: 5, pool: 2},
		{calls: 13, pool: 1},
	}

	for i, tt := range tests {
		t.Run(fmt.Sprintf("%d calls on %d", tt.calls, tt.pool), func(t *testing.T) {
			roleID := fmt.Sprintf("role-%d", i)
			counts := make(map[int]int)
			prev := 0
			for n := 0; n < tt.calls; n++ {
				idx, err := store.Next(ctx, "project-1", roleID, tt.pool)
				require.NoError(t, err)
				assert.Equal(t, (prev+1)%tt.pool, idx, "cyclic order")
				prev = idx
				counts[idx]++
			}

			low, high := tt.calls/tt.pool, (tt.calls+tt.pool-1)/tt.pool
			for idx := 0; idx < tt.pool; idx++ {
				assert.GreaterOrEqual(t, counts[idx], low, "index %d", idx)
				assert.LessOrEqual(t, counts[idx], high, "index %d", idx)
			}
		})
	}
}

func TestRedisStore_ResumesAfterLastUsedIndex(t *testing.T) {
	store, mr := setupRedisStore(t)
	require.NoError(t, mr.Set(Key("project-1", "role-1"), "1"))

	var got []int
	for i := 0; i < 5; i++ {
		idx, err := store.Next(context.Background(), "project-1", "role-1", 2)
		require.NoError(t, err)
		got = append(got, idx)
	}

	assert.Equal(t, []int{0, 1, 0, 1, 0}, got)
}

func TestRedisStore_ConcurrentCallersGetDistinctPositions(t *testing.T) {
	store, _ := setupRedisStore(t)
	const workers, perWorker, pool = 10, 10, 5

	var (
		mu     sync.Mutex
		counts = make(map[int]int)
		wg     sync.WaitGroup
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				idx, err := store.Next(context.Background(), "project-1", "role-1", pool)
				if !assert.NoError(t, err) {
					return
				}
				mu.Lock()
				counts[idx]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	for idx := 0; idx < pool; idx++ {
		assert.Equal(t, workers*perWorker/pool, counts[idx], "index %d", idx)
	}
}

func TestRedisStore_Reset(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()

	_, err := store.Next(ctx, "project-1", "role-1", 4)
	require.NoError(t, err)
	_, err = store.Next(ctx, "project-1", "role-1", 4)
	require.NoError(t, err)

	require.NoError(t, store.Reset(ctx, "project-1", "role-1"))
	require.NoError(t, store.Reset(ctx, "project-1", "role-1"))

	val, err := mr.Get(Key("project-1", "role-1"))
	require.NoError(t, err)
	assert.Equal(t, "0", val)

	idx, err := store.Next(ctx, "project-1", "role-1", 4)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
}

func TestRedisStore_KeysAreScopedPerRole(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	a, err := store.Next(ctx, "project-1", "role-1", 3)
	require.NoError(t, err)
	b, err := store.Next(ctx, "project-1", "role-2", 3)
	require.NoError(t, err)

	assert.Equal(t, 1, a)
	assert.Equal(t, 1, b)
}
