// Package memory keeps students, subjects and their relationship rows in
// process memory. It mirrors the PostgreSQL repositories, including the
// cascade on delete and the unique document constraint, and backs the
// service tests and STORAGE_BACKEND=memory.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stemsi/enrollment-backend/internal/model"
)

type studentRow struct {
	id        uuid.UUID
	name      string
	document  string
	email     string
	seq       int64
	createdAt time.Time
	updatedAt time.Time
}

// Store is the shared state behind SubjectRepository and StudentRepository.
type Store struct {
	mu         sync.RWMutex
	subjects   map[uuid.UUID]model.Subject
	students   map[uuid.UUID]studentRow
	enrollment map[uuid.UUID]map[uuid.UUID]struct{} // student id -> subject ids
	seq        int64
	now        func() time.Time
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		subjects:   make(map[uuid.UUID]model.Subject),
		students:   make(map[uuid.UUID]studentRow),
		enrollment: make(map[uuid.UUID]map[uuid.UUID]struct{}),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Subjects returns a SubjectRepository over the store.
func (st *Store) Subjects() *SubjectRepository {
	return &SubjectRepository{store: st}
}

// Students returns a StudentRepository over the store.
func (st *Store) Students() *StudentRepository {
	return &StudentRepository{store: st}
}

// resolveLocked builds the read model of a student. Caller holds mu.
func (st *Store) resolveLocked(row studentRow) model.Student {
	s := model.Student{
		ID:         row.id,
		Name:       row.name,
		Document:   row.document,
		Email:      row.email,
		CreatedAt:  row.createdAt,
		UpdatedAt:  row.updatedAt,
		SubjectIDs: []uuid.UUID{},
		Subjects:   []model.Subject{},
	}
	for subID := range st.enrollment[row.id] {
		if sub, ok := st.subjects[subID]; ok {
			s.Subjects = append(s.Subjects, sub)
		}
	}
	sortSubjects(s.Subjects)
	for _, sub := range s.Subjects {
		s.SubjectIDs = append(s.SubjectIDs, sub.ID)
	}
	return s
}

// orderedStudentsLocked returns rows in insertion order. Caller holds mu.
func (st *Store) orderedStudentsLocked() []studentRow {
	rows := make([]studentRow, 0, len(st.students))
	for _, row := range st.students {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
	return rows
}

func sortSubjects(subjects []model.Subject) {
	sort.Slice(subjects, func(i, j int) bool {
		if subjects[i].Name != subjects[j].Name {
			return subjects[i].Name < subjects[j].Name
		}
		return subjects[i].ID.String() < subjects[j].ID.String()
	})
}
