package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/enrollment-backend/internal/model"
)

const subjectColumns = `id, name, code, credits, created_at, updated_at`

// SubjectRepository handles subject data access.
type SubjectRepository struct {
	pool *pgxpool.Pool
}

// NewSubjectRepository creates a new SubjectRepository.
func NewSubjectRepository(pool *pgxpool.Pool) *SubjectRepository {
	return &SubjectRepository{pool: pool}
}

func scanSubject(row pgx.Row, s *model.Subject) error {
	return row.Scan(&s.ID, &s.Name, &s.Code, &s.Credits, &s.CreatedAt, &s.UpdatedAt)
}

func collectSubjects(rows pgx.Rows) ([]model.Subject, error) {
	defer rows.Close()

	subjects := []model.Subject{}
	for rows.Next() {
		var s model.Subject
		if err := scanSubject(rows, &s); err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

// FindAll returns every subject ordered by name.
func (r *SubjectRepository) FindAll(ctx context.Context) ([]model.Subject, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+subjectColumns+` FROM subjects ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	return collectSubjects(rows)
}

// FindByID returns the subject or nil when it does not exist.
func (r *SubjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Subject, error) {
	s := &model.Subject{}
	err := scanSubject(r.pool.QueryRow(ctx, `SELECT `+subjectColumns+` FROM subjects WHERE id = $1`, id), s)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// FindByIDs returns the subjects matching ids. Unknown ids are omitted and
// repeated ids yield a single subject.
func (r *SubjectRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Subject, error) {
	if len(ids) == 0 {
		return []model.Subject{}, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+subjectColumns+` FROM subjects WHERE id = ANY($1) ORDER BY name ASC`, ids)
	if err != nil {
		return nil, err
	}
	return collectSubjects(rows)
}

// Insert stores a new subject. The caller assigns the ID.
func (r *SubjectRepository) Insert(ctx context.Context, s *model.Subject) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO subjects (id, name, code, credits) VALUES ($1, $2, $3, $4)
		 RETURNING created_at, updated_at`,
		s.ID, s.Name, s.Code, s.Credits,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
}

// Update overwrites name, code and credits. A missing id affects no rows.
func (r *SubjectRepository) Update(ctx context.Context, s *model.Subject) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE subjects SET name = $1, code = $2, credits = $3, updated_at = NOW() WHERE id = $4`,
		s.Name, s.Code, s.Credits, s.ID)
	return err
}

// Delete removes a subject. Enrollment rows go with it through ON DELETE CASCADE.
func (r *SubjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	return err
}
