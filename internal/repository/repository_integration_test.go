package repository

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/enrollment-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestPool migrates TEST_DATABASE_URL to the latest schema and empties it.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	m, err := migrate.New("file://../../migrations", url)
	require.NoError(t, err)
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		t.Fatalf("migrate up: %v", err)
	}
	_, _ = m.Close()

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `TRUNCATE student_subjects, students, subjects`)
	require.NoError(t, err)
	return pool
}

func insertSubject(t *testing.T, repo *SubjectRepository, name string, credits int) model.Subject {
	t.Helper()
	s := model.Subject{ID: uuid.New(), Name: name, Code: name[:3], Credits: credits}
	require.NoError(t, repo.Insert(context.Background(), &s))
	return s
}

func TestPostgres_StudentLifecycle(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	subjects := NewSubjectRepository(pool)
	students := NewStudentRepository(pool)

	math := insertSubject(t, subjects, "Math", 5)
	art := insertSubject(t, subjects, "Art", 2)

	st := &model.Student{ID: uuid.New(), Name: "Ana", Document: "123", Email: "ana@example.com"}
	require.NoError(t, students.Insert(ctx, st, []model.Subject{math, art}))
	assert.False(t, st.CreatedAt.IsZero())

	got, err := students.FindByID(ctx, st.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.ElementsMatch(t, []uuid.UUID{math.ID, art.ID}, got.SubjectIDs)

	require.NoError(t, students.ReplaceSubjects(ctx, st.ID, []model.Subject{art}))
	got, err = students.FindByID(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{art.ID}, got.SubjectIDs)

	st.Name = "Ana Maria"
	require.NoError(t, students.Update(ctx, st, []model.Subject{math}))
	got, err = students.FindByID(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", got.Name)
	assert.Equal(t, []uuid.UUID{math.ID}, got.SubjectIDs)

	bySubject, err := students.FindBySubject(ctx, math.ID)
	require.NoError(t, err)
	require.Len(t, bySubject, 1)
	assert.Equal(t, st.ID, bySubject[0].ID)

	require.NoError(t, subjects.Delete(ctx, math.ID))
	got, err = students.FindByID(ctx, st.ID)
	require.NoError(t, err)
	assert.Empty(t, got.SubjectIDs)

	require.NoError(t, students.Delete(ctx, st.ID))
	got, err = students.FindByID(ctx, st.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPostgres_DuplicateDocument(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	students := NewStudentRepository(pool)

	require.NoError(t, students.Insert(ctx, &model.Student{ID: uuid.New(), Name: "Ana", Document: "123", Email: "a@example.com"}, nil))
	err := students.Insert(ctx, &model.Student{ID: uuid.New(), Name: "Bea", Document: "123", Email: "b@example.com"}, nil)
	assert.ErrorIs(t, err, ErrDuplicateDocument)
}

func TestPostgres_ReplaceSubjectsMissingStudent(t *testing.T) {
	pool := newTestPool(t)
	err := NewStudentRepository(pool).ReplaceSubjects(context.Background(), uuid.New(), nil)
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

func TestPostgres_FindByIDsOmitsUnknown(t *testing.T) {
	pool := newTestPool(t)
	subjects := NewSubjectRepository(pool)
	math := insertSubject(t, subjects, "Math", 5)

	found, err := subjects.FindByIDs(context.Background(), []uuid.UUID{math.ID, uuid.New(), math.ID})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, math.ID, found[0].ID)

	none, err := subjects.FindByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}
