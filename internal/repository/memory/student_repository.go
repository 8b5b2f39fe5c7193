package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/stemsi/enrollment-backend/internal/model"
	"github.com/stemsi/enrollment-backend/internal/repository"
)

// StudentRepository is the in-memory counterpart of repository.StudentRepository.
type StudentRepository struct {
	store *Store
}

func (r *StudentRepository) FindAll(_ context.Context) ([]model.Student, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := []model.Student{}
	for _, row := range r.store.orderedStudentsLocked() {
		out = append(out, r.store.resolveLocked(row))
	}
	return out, nil
}

func (r *StudentRepository) FindByID(_ context.Context, id uuid.UUID) (*model.Student, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	row, ok := r.store.students[id]
	if !ok {
		return nil, nil
	}
	s := r.store.resolveLocked(row)
	return &s, nil
}

func (r *StudentRepository) FindBySubject(_ context.Context, subjectID uuid.UUID) ([]model.Student, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := []model.Student{}
	for _, row := range r.store.orderedStudentsLocked() {
		if _, ok := r.store.enrollment[row.id][subjectID]; ok {
			out = append(out, r.store.resolveLocked(row))
		}
	}
	return out, nil
}

func (r *StudentRepository) Insert(_ context.Context, s *model.Student, subjects []model.Subject) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.documentTakenLocked(s.Document, s.ID) {
		return repository.ErrDuplicateDocument
	}

	now := r.store.now()
	r.store.seq++
	r.store.students[s.ID] = studentRow{
		id:        s.ID,
		name:      s.Name,
		document:  s.Document,
		email:     s.Email,
		seq:       r.store.seq,
		createdAt: now,
		updatedAt: now,
	}
	r.setEnrollmentLocked(s.ID, subjects)
	s.CreatedAt, s.UpdatedAt = now, now
	return nil
}

func (r *StudentRepository) Update(_ context.Context, s *model.Student, subjects []model.Subject) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	row, ok := r.store.students[s.ID]
	if !ok {
		return repository.ErrStudentNotFound
	}
	if r.documentTakenLocked(s.Document, s.ID) {
		return repository.ErrDuplicateDocument
	}

	row.name, row.document, row.email = s.Name, s.Document, s.Email
	row.updatedAt = r.store.now()
	r.store.students[s.ID] = row
	r.setEnrollmentLocked(s.ID, subjects)
	return nil
}

func (r *StudentRepository) UpdateFields(_ context.Context, id uuid.UUID, name, document, email string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	row, ok := r.store.students[id]
	if !ok {
		return nil
	}
	if r.documentTakenLocked(document, id) {
		return repository.ErrDuplicateDocument
	}

	row.name, row.document, row.email = name, document, email
	row.updatedAt = r.store.now()
	r.store.students[id] = row
	return nil
}

func (r *StudentRepository) ReplaceSubjects(_ context.Context, studentID uuid.UUID, subjects []model.Subject) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.students[studentID]; !ok {
		return repository.ErrStudentNotFound
	}
	r.setEnrollmentLocked(studentID, subjects)
	return nil
}

func (r *StudentRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.students, id)
	delete(r.store.enrollment, id)
	return nil
}

func (r *StudentRepository) documentTakenLocked(document string, self uuid.UUID) bool {
	for id, row := range r.store.students {
		if id != self && row.document == document {
			return true
		}
	}
	return false
}

// setEnrollmentLocked replaces the relationship rows. Subjects deleted in
// the meantime are skipped.
func (r *StudentRepository) setEnrollmentLocked(studentID uuid.UUID, subjects []model.Subject) {
	set := make(map[uuid.UUID]struct{}, len(subjects))
	for _, sub := range subjects {
		if _, ok := r.store.subjects[sub.ID]; ok {
			set[sub.ID] = struct{}{}
		}
	}
	r.store.enrollment[studentID] = set
}
