package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/stemsi/enrollment-backend/internal/model"
)

// SubjectRepository is the in-memory counterpart of repository.SubjectRepository.
type SubjectRepository struct {
	store *Store
}

func (r *SubjectRepository) FindAll(_ context.Context) ([]model.Subject, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]model.Subject, 0, len(r.store.subjects))
	for _, s := range r.store.subjects {
		out = append(out, s)
	}
	sortSubjects(out)
	return out, nil
}

func (r *SubjectRepository) FindByID(_ context.Context, id uuid.UUID) (*model.Subject, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	s, ok := r.store.subjects[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *SubjectRepository) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.Subject, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := []model.Subject{}
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if s, ok := r.store.subjects[id]; ok {
			out = append(out, s)
		}
	}
	sortSubjects(out)
	return out, nil
}

func (r *SubjectRepository) Insert(_ context.Context, s *model.Subject) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := r.store.now()
	s.CreatedAt, s.UpdatedAt = now, now
	r.store.subjects[s.ID] = *s
	return nil
}

func (r *SubjectRepository) Update(_ context.Context, s *model.Subject) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	cur, ok := r.store.subjects[s.ID]
	if !ok {
		return nil
	}
	cur.Name, cur.Code, cur.Credits = s.Name, s.Code, s.Credits
	cur.UpdatedAt = r.store.now()
	r.store.subjects[s.ID] = cur
	return nil
}

// Delete removes the subject and every relationship row pointing at it.
func (r *SubjectRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.subjects, id)
	for _, set := range r.store.enrollment {
		delete(set, id)
	}
	return nil
}
