package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/enrollment-backend/internal/model"
)

const studentColumns = `st.id, st.name, st.document, st.email, st.created_at, st.updated_at`

// StudentRepository handles student data access, including the
// student_subjects relationship rows.
type StudentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

// FindAll returns every student with its subjects resolved.
func (r *StudentRepository) FindAll(ctx context.Context) ([]model.Student, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+studentColumns+` FROM students st ORDER BY st.created_at ASC, st.id ASC`)
	if err != nil {
		return nil, err
	}
	students, err := collectStudents(rows)
	if err != nil {
		return nil, err
	}

	subjectRows, err := r.pool.Query(ctx,
		`SELECT ss.student_id, s.id, s.name, s.code, s.credits, s.created_at, s.updated_at
		 FROM student_subjects ss
		 JOIN subjects s ON s.id = ss.subject_id
		 ORDER BY s.name ASC`)
	if err != nil {
		return nil, err
	}
	if err := attachSubjects(subjectRows, students); err != nil {
		return nil, err
	}
	return students, nil
}

// FindByID returns the student with its subjects, or nil when it does not exist.
func (r *StudentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	return findStudent(ctx, r.pool, id)
}

// FindBySubject returns the students enrolled in subjectID, each with its
// full subject set.
func (r *StudentRepository) FindBySubject(ctx context.Context, subjectID uuid.UUID) ([]model.Student, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+studentColumns+`
		 FROM students st
		 JOIN student_subjects ss ON ss.student_id = st.id
		 WHERE ss.subject_id = $1
		 ORDER BY st.created_at ASC, st.id ASC`, subjectID)
	if err != nil {
		return nil, err
	}
	students, err := collectStudents(rows)
	if err != nil {
		return nil, err
	}
	if len(students) == 0 {
		return students, nil
	}

	ids := make([]uuid.UUID, len(students))
	for i := range students {
		ids[i] = students[i].ID
	}
	subjectRows, err := r.pool.Query(ctx,
		`SELECT ss.student_id, s.id, s.name, s.code, s.credits, s.created_at, s.updated_at
		 FROM student_subjects ss
		 JOIN subjects s ON s.id = ss.subject_id
		 WHERE ss.student_id = ANY($1)
		 ORDER BY s.name ASC`, ids)
	if err != nil {
		return nil, err
	}
	if err := attachSubjects(subjectRows, students); err != nil {
		return nil, err
	}
	return students, nil
}

// Insert stores a new student and its relationship rows in one transaction.
func (r *StudentRepository) Insert(ctx context.Context, s *model.Student, subjects []model.Subject) error {
	return withTx(ctx, r.pool, enrollmentTxOptions, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO students (id, name, document, email) VALUES ($1, $2, $3, $4)
			 RETURNING created_at, updated_at`,
			s.ID, s.Name, s.Document, s.Email,
		).Scan(&s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateDocument
			}
			return fmt.Errorf("insert student: %w", err)
		}
		return insertEnrollments(ctx, tx, s.ID, subjects)
	})
}

// Update overwrites the scalar fields and replaces the relationship rows in
// one transaction.
func (r *StudentRepository) Update(ctx context.Context, s *model.Student, subjects []model.Subject) error {
	return withTx(ctx, r.pool, enrollmentTxOptions, func(tx pgx.Tx) error {
		if err := lockStudent(ctx, tx, s.ID); err != nil {
			return err
		}
		if err := updateFields(ctx, tx, s.ID, s.Name, s.Document, s.Email); err != nil {
			return err
		}
		return replaceEnrollments(ctx, tx, s.ID, subjects)
	})
}

// UpdateFields overwrites name, document and email. A missing id affects no rows.
func (r *StudentRepository) UpdateFields(ctx context.Context, id uuid.UUID, name, document, email string) error {
	return updateFields(ctx, r.pool, id, name, document, email)
}

// ReplaceSubjects swaps the whole relationship set of a student.
func (r *StudentRepository) ReplaceSubjects(ctx context.Context, studentID uuid.UUID, subjects []model.Subject) error {
	return withTx(ctx, r.pool, enrollmentTxOptions, func(tx pgx.Tx) error {
		if err := lockStudent(ctx, tx, studentID); err != nil {
			return err
		}
		return replaceEnrollments(ctx, tx, studentID, subjects)
	})
}

// Delete removes a student. Relationship rows go with it through ON DELETE CASCADE.
func (r *StudentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	return err
}

// ────────────────────────────────────────────────────────────────────────────
// Internal helpers
// ────────────────────────────────────────────────────────────────────────────

func findStudent(ctx context.Context, q querier, id uuid.UUID) (*model.Student, error) {
	s := &model.Student{}
	err := q.QueryRow(ctx, `SELECT `+studentColumns+` FROM students st WHERE st.id = $1`, id).
		Scan(&s.ID, &s.Name, &s.Document, &s.Email, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx,
		`SELECT ss.student_id, s.id, s.name, s.code, s.credits, s.created_at, s.updated_at
		 FROM student_subjects ss
		 JOIN subjects s ON s.id = ss.subject_id
		 WHERE ss.student_id = $1
		 ORDER BY s.name ASC`, id)
	if err != nil {
		return nil, err
	}
	students := []model.Student{*s}
	if err := attachSubjects(rows, students); err != nil {
		return nil, err
	}
	return &students[0], nil
}

func collectStudents(rows pgx.Rows) ([]model.Student, error) {
	defer rows.Close()

	students := []model.Student{}
	for rows.Next() {
		var s model.Student
		if err := rows.Scan(&s.ID, &s.Name, &s.Document, &s.Email, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		s.SubjectIDs = []uuid.UUID{}
		s.Subjects = []model.Subject{}
		students = append(students, s)
	}
	return students, rows.Err()
}

// attachSubjects reads (student_id, subject...) rows and appends each
// subject to the matching student in place.
func attachSubjects(rows pgx.Rows, students []model.Student) error {
	defer rows.Close()

	index := make(map[uuid.UUID]int, len(students))
	for i := range students {
		index[students[i].ID] = i
		if students[i].Subjects == nil {
			students[i].Subjects = []model.Subject{}
		}
		if students[i].SubjectIDs == nil {
			students[i].SubjectIDs = []uuid.UUID{}
		}
	}

	for rows.Next() {
		var studentID uuid.UUID
		var sub model.Subject
		if err := rows.Scan(&studentID, &sub.ID, &sub.Name, &sub.Code, &sub.Credits, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
			return err
		}
		i, ok := index[studentID]
		if !ok {
			continue
		}
		students[i].Subjects = append(students[i].Subjects, sub)
		students[i].SubjectIDs = append(students[i].SubjectIDs, sub.ID)
	}
	return rows.Err()
}

// lockStudent takes a row lock on the student so concurrent replacements of
// the same relationship set queue up behind each other.
func lockStudent(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	var locked uuid.UUID
	err := tx.QueryRow(ctx, `SELECT id FROM students WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrStudentNotFound
	}
	return err
}

func updateFields(ctx context.Context, q querier, id uuid.UUID, name, document, email string) error {
	_, err := q.Exec(ctx,
		`UPDATE students SET name = $1, document = $2, email = $3, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $4`,
		name, document, email, id)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateDocument
		}
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

func replaceEnrollments(ctx context.Context, tx pgx.Tx, studentID uuid.UUID, subjects []model.Subject) error {
	if _, err := tx.Exec(ctx, `DELETE FROM student_subjects WHERE student_id = $1`, studentID); err != nil {
		return fmt.Errorf("clear enrollments: %w", err)
	}
	return insertEnrollments(ctx, tx, studentID, subjects)
}

func insertEnrollments(ctx context.Context, tx pgx.Tx, studentID uuid.UUID, subjects []model.Subject) error {
	if len(subjects) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, sub := range subjects {
		batch.Queue(
			`INSERT INTO student_subjects (student_id, subject_id) VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`,
			studentID, sub.ID)
	}

	br := tx.SendBatch(ctx, batch)
	defer br.Close()

	for range subjects {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert enrollment: %w", err)
		}
	}
	return nil
}
