package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stemsi/enrollment-backend/internal/config"
	"github.com/stemsi/enrollment-backend/internal/lock"
	"github.com/stemsi/enrollment-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingLocker records every key it hands out together with how many
// student store calls had happened at acquisition and at release.
type recordingLocker struct {
	inner    lock.Locker
	students *countingStudents

	mu       sync.Mutex
	keys     []string
	atLock   []int32
	atUnlock []int32
}

func (r *recordingLocker) calls() int32 {
	return r.students.reads.Load() + r.students.writes.Load()
}

func (r *recordingLocker) Lock(ctx context.Context, key string) (lock.Unlock, error) {
	unlock, err := r.inner.Lock(ctx, key)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.keys = append(r.keys, key)
	r.atLock = append(r.atLock, r.calls())
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		r.atUnlock = append(r.atUnlock, r.calls())
		r.mu.Unlock()
		unlock()
	}, nil
}

type studentWrite struct {
	name string
	run  func(ctx context.Context, svc *StudentService, st *model.Student, subjectIDs []uuid.UUID) error
}

var studentWrites = []studentWrite{
	{"Update", func(ctx context.Context, svc *StudentService, st *model.Student, ids []uuid.UUID) error {
		return svc.Update(ctx, model.UpdateStudentInput{
			ID: st.ID, Name: "Locked", Document: st.Document, Email: st.Email, SubjectIDs: ids,
		})
	}},
	{"AssignSubjects", func(ctx context.Context, svc *StudentService, st *model.Student, ids []uuid.UUID) error {
		return svc.AssignSubjects(ctx, st.ID, ids)
	}},
	{"UpdateProfile", func(ctx context.Context, svc *StudentService, st *model.Student, _ []uuid.UUID) error {
		return svc.UpdateProfile(ctx, st.ID, "Locked", st.Document, st.Email)
	}},
	{"Delete", func(ctx context.Context, svc *StudentService, st *model.Student, _ []uuid.UUID) error {
		return svc.Delete(ctx, st.ID)
	}},
}

func TestStudentWrites_TakeStudentLockBeforeStore(t *testing.T) {
	for _, w := range studentWrites {
		t.Run(w.name, func(t *testing.T) {
			locker := &recordingLocker{inner: lock.NewKeyedMutex(0)}
			f := newFixtureWithLocker(t, locker)
			locker.students = f.students

			ids := f.subjectIDs(t, 5, 2)
			st := f.student(t, ids[:1])
			require.Empty(t, locker.keys, "Create does not lock")
			before := locker.calls()

			require.NoError(t, w.run(context.Background(), f.svc, st, ids))

			require.Equal(t, []string{config.LockKey.Student(st.ID)}, locker.keys)
			assert.Equal(t, before, locker.atLock[0], "store touched before the lock was held")
			require.Len(t, locker.atUnlock, 1)
			assert.Greater(t, locker.atUnlock[0], before, "store not reached while the lock was held")
			assert.Equal(t, locker.atUnlock[0], locker.calls(), "store touched after unlock")
		})
	}
}

func TestStudentWrites_WaitForHeldStudentLock(t *testing.T) {
	for _, w := range studentWrites {
		t.Run(w.name, func(t *testing.T) {
			locker := lock.NewKeyedMutex(0)
			f := newFixtureWithLocker(t, locker)
			ctx := context.Background()

			ids := f.subjectIDs(t, 5, 2)
			st := f.student(t, ids[:1])

			unlock, err := locker.Lock(ctx, config.LockKey.Student(st.ID))
			require.NoError(t, err)

			reads, writes := f.students.reads.Load(), f.students.writes.Load()
			done := make(chan error, 1)
			go func() { done <- w.run(ctx, f.svc, st, ids) }()

			assert.Never(t, func() bool {
				return f.students.reads.Load() != reads || f.students.writes.Load() != writes
			}, 50*time.Millisecond, 5*time.Millisecond)

			unlock()

			select {
			case err := <-done:
				require.NoError(t, err)
			case <-time.After(time.Second):
				t.Fatal("writer did not proceed after unlock")
			}
			assert.Equal(t, writes+1, f.students.writes.Load())
		})
	}
}

func TestStudentWrites_OtherStudentDoesNotWait(t *testing.T) {
	locker := lock.NewKeyedMutex(0)
	f := newFixtureWithLocker(t, locker)
	ctx := context.Background()

	ids := f.subjectIDs(t, 5)
	held := f.student(t, nil)
	free := f.student(t, nil)

	unlock, err := locker.Lock(ctx, config.LockKey.Student(held.ID))
	require.NoError(t, err)
	defer unlock()

	done := make(chan error, 1)
	go func() { done <- f.svc.AssignSubjects(ctx, free.ID, ids) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("writer on another student was blocked")
	}
}

func TestUpdate_LockWaitElapsed(t *testing.T) {
	locker := lock.NewKeyedMutex(20 * time.Millisecond)
	f := newFixtureWithLocker(t, locker)
	ctx := context.Background()
	st := f.student(t, nil)

	unlock, err := locker.Lock(ctx, config.LockKey.Student(st.ID))
	require.NoError(t, err)
	defer unlock()

	writes := f.students.writes.Load()
	err = f.svc.Update(ctx, model.UpdateStudentInput{
		ID: st.ID, Name: "Late", Document: st.Document, Email: st.Email,
	})
	assert.ErrorIs(t, err, lock.ErrLockTimeout)
	assert.Equal(t, writes, f.students.writes.Load())
}
