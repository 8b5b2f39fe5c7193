package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/enrollment-backend/internal/model"
)

// SubjectService is plain CRUD over subjects. Unknown ids are absence or
// no-ops, never errors.
type SubjectService struct {
	subjectRepo SubjectStore
	log         zerolog.Logger
}

// NewSubjectService creates a new SubjectService.
func NewSubjectService(subjectRepo SubjectStore, log zerolog.Logger) *SubjectService {
	return &SubjectService{
		subjectRepo: subjectRepo,
		log:         log.With().Str("component", "subject_service").Logger(),
	}
}

// ListAll returns every subject ordered by name.
func (s *SubjectService) ListAll(ctx context.Context) ([]model.Subject, error) {
	return s.subjectRepo.FindAll(ctx)
}

// GetByID returns the subject, or nil when it does not exist.
func (s *SubjectService) GetByID(ctx context.Context, id uuid.UUID) (*model.Subject, error) {
	return s.subjectRepo.FindByID(ctx, id)
}

// Create validates the subject, assigns a fresh ID and stores it.
func (s *SubjectService) Create(ctx context.Context, sub *model.Subject) error {
	if err := validate(&model.CreateSubjectRequest{Name: sub.Name, Code: sub.Code, Credits: sub.Credits}); err != nil {
		return err
	}
	sub.ID = uuid.New()
	if err := s.subjectRepo.Insert(ctx, sub); err != nil {
		return err
	}
	s.log.Info().Str("subject_id", sub.ID.String()).Str("code", sub.Code).Msg("Subject created")
	return nil
}

// Update overwrites name, code and credits. An unknown id is a no-op.
func (s *SubjectService) Update(ctx context.Context, sub *model.Subject) error {
	if err := validate(&model.UpdateSubjectRequest{Name: sub.Name, Code: sub.Code, Credits: sub.Credits}); err != nil {
		return err
	}
	return s.subjectRepo.Update(ctx, sub)
}

// Delete removes the subject; existing enrollments do not block it.
func (s *SubjectService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.subjectRepo.Delete(ctx, id)
}
