package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/enrollment-backend/internal/config"
	"github.com/stemsi/enrollment-backend/internal/enrollment"
	"github.com/stemsi/enrollment-backend/internal/lock"
	"github.com/stemsi/enrollment-backend/internal/model"
	"github.com/stemsi/enrollment-backend/internal/repository"
)

// ErrStudentNotFound is returned by AssignSubjects when the student does not exist.
var ErrStudentNotFound = repository.ErrStudentNotFound

// StudentService handles student lifecycle and enrollment. Every write that
// changes a subject set passes the enrollment policy before the store is
// touched.
type StudentService struct {
	studentRepo StudentStore
	subjectRepo SubjectStore
	locker      lock.Locker
	log         zerolog.Logger
}

// NewStudentService creates a new StudentService.
func NewStudentService(studentRepo StudentStore, subjectRepo SubjectStore, locker lock.Locker, log zerolog.Logger) *StudentService {
	return &StudentService{
		studentRepo: studentRepo,
		subjectRepo: subjectRepo,
		locker:      locker,
		log:         log.With().Str("component", "student_service").Logger(),
	}
}

// ListAll returns every student with its subjects resolved.
func (s *StudentService) ListAll(ctx context.Context) ([]model.Student, error) {
	return s.studentRepo.FindAll(ctx)
}

// GetByID returns the student, or nil when it does not exist.
func (s *StudentService) GetByID(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	return s.studentRepo.FindByID(ctx, id)
}

// ListBySubject returns the students enrolled in a subject.
func (s *StudentService) ListBySubject(ctx context.Context, subjectID uuid.UUID) ([]model.Student, error) {
	return s.studentRepo.FindBySubject(ctx, subjectID)
}

// Create stores a new student enrolled in the subjects that subjectIDs
// resolve to. Unknown ids are dropped.
func (s *StudentService) Create(ctx context.Context, in model.CreateStudentInput) (*model.Student, error) {
	if err := validate(&model.CreateStudentRequest{Name: in.Name, Document: in.Document, Email: in.Email}); err != nil {
		return nil, err
	}

	subjects, err := s.admit(ctx, uuid.Nil, in.SubjectIDs)
	if err != nil {
		return nil, err
	}

	student := &model.Student{
		ID:       uuid.New(),
		Name:     in.Name,
		Document: in.Document,
		Email:    in.Email,
	}
	if err := s.studentRepo.Insert(ctx, student, subjects); err != nil {
		return nil, err
	}
	setSubjects(student, subjects)

	s.log.Info().
		Str("student_id", student.ID.String()).
		Int("subject_count", len(subjects)).
		Msg("Student created")
	return student, nil
}

// Update overwrites a student's fields and replaces its subject set. A
// missing student is a no-op.
func (s *StudentService) Update(ctx context.Context, in model.UpdateStudentInput) error {
	if err := validate(&model.UpdateStudentRequest{Name: in.Name, Document: in.Document, Email: in.Email}); err != nil {
		return err
	}

	unlock, err := s.locker.Lock(ctx, config.LockKey.Student(in.ID))
	if err != nil {
		return fmt.Errorf("lock student: %w", err)
	}
	defer unlock()

	existing, err := s.studentRepo.FindByID(ctx, in.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}

	subjects, err := s.admit(ctx, in.ID, in.SubjectIDs)
	if err != nil {
		return err
	}

	existing.Name = in.Name
	existing.Document = in.Document
	existing.Email = in.Email
	if err := s.studentRepo.Update(ctx, existing, subjects); err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			return nil
		}
		return err
	}

	s.log.Info().
		Str("student_id", in.ID.String()).
		Int("subject_count", len(subjects)).
		Msg("Student updated")
	return nil
}

// UpdateProfile changes name, document and email without touching the
// enrollment. A missing student is a no-op.
func (s *StudentService) UpdateProfile(ctx context.Context, id uuid.UUID, name, document, email string) error {
	if err := validate(&model.UpdateStudentProfileRequest{Name: name, Document: document, Email: email}); err != nil {
		return err
	}

	unlock, err := s.locker.Lock(ctx, config.LockKey.Student(id))
	if err != nil {
		return fmt.Errorf("lock student: %w", err)
	}
	defer unlock()

	return s.studentRepo.UpdateFields(ctx, id, name, document, email)
}

// Delete removes a student and its enrollment. Deleting a missing student
// is a no-op.
func (s *StudentService) Delete(ctx context.Context, id uuid.UUID) error {
	unlock, err := s.locker.Lock(ctx, config.LockKey.Student(id))
	if err != nil {
		return fmt.Errorf("lock student: %w", err)
	}
	defer unlock()

	return s.studentRepo.Delete(ctx, id)
}

// AssignSubjects replaces the student's whole subject set with the subjects
// subjectIDs resolve to. It returns ErrStudentNotFound for an unknown
// student and enrollment.ErrCreditLimitExceeded when the new set is not
// admissible; in both cases nothing is written.
func (s *StudentService) AssignSubjects(ctx context.Context, studentID uuid.UUID, subjectIDs []uuid.UUID) error {
	unlock, err := s.locker.Lock(ctx, config.LockKey.Student(studentID))
	if err != nil {
		return fmt.Errorf("lock student: %w", err)
	}
	defer unlock()

	existing, err := s.studentRepo.FindByID(ctx, studentID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrStudentNotFound
	}

	subjects, err := s.admit(ctx, studentID, subjectIDs)
	if err != nil {
		return err
	}

	if err := s.studentRepo.ReplaceSubjects(ctx, studentID, subjects); err != nil {
		return err
	}

	s.log.Info().
		Str("student_id", studentID.String()).
		Int("previous_count", len(existing.Subjects)).
		Int("subject_count", len(subjects)).
		Msg("Subjects assigned")
	return nil
}

// admit resolves subjectIDs, dropping unknown ids, and runs the enrollment
// policy over the result.
func (s *StudentService) admit(ctx context.Context, studentID uuid.UUID, subjectIDs []uuid.UUID) ([]model.Subject, error) {
	subjects, err := s.subjectRepo.FindByIDs(ctx, subjectIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve subjects: %w", err)
	}

	if dropped := len(uniqueIDs(subjectIDs)) - len(subjects); dropped > 0 {
		s.log.Debug().
			Str("student_id", studentID.String()).
			Int("dropped", dropped).
			Msg("Ignoring unknown subject ids")
	}

	if err := enrollment.Validate(subjects); err != nil {
		s.log.Warn().
			Str("student_id", studentID.String()).
			Int("subject_count", len(subjects)).
			Int("high_credit_count", enrollment.HighCreditCount(subjects)).
			Msg("Enrollment rejected by credit limit")
		return nil, err
	}
	return subjects, nil
}

func setSubjects(st *model.Student, subjects []model.Subject) {
	st.Subjects = subjects
	st.SubjectIDs = make([]uuid.UUID, len(subjects))
	for i, sub := range subjects {
		st.SubjectIDs[i] = sub.ID
	}
}

func uniqueIDs(ids []uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
