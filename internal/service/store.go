package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/stemsi/enrollment-backend/internal/model"
)

// SubjectStore is the subject persistence the services depend on.
// FindByID returns nil without error when the subject does not exist, and
// FindByIDs silently omits unknown ids.
type SubjectStore interface {
	FindAll(ctx context.Context) ([]model.Subject, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Subject, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Subject, error)
	Insert(ctx context.Context, s *model.Subject) error
	Update(ctx context.Context, s *model.Subject) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// StudentStore is the student persistence the services depend on. Reads
// return students with their subjects resolved. Insert, Update and
// ReplaceSubjects write the relationship rows atomically.
type StudentStore interface {
	FindAll(ctx context.Context) ([]model.Student, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Student, error)
	FindBySubject(ctx context.Context, subjectID uuid.UUID) ([]model.Student, error)
	Insert(ctx context.Context, s *model.Student, subjects []model.Subject) error
	Update(ctx context.Context, s *model.Student, subjects []model.Subject) error
	UpdateFields(ctx context.Context, id uuid.UUID, name, document, email string) error
	ReplaceSubjects(ctx context.Context, studentID uuid.UUID, subjects []model.Subject) error
	Delete(ctx context.Context, id uuid.UUID) error
}
