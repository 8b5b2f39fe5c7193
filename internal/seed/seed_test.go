package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stemsi/enrollment-backend/internal/enrollment"
	"github.com/stemsi/enrollment-backend/internal/lock"
	"github.com/stemsi/enrollment-backend/internal/model"
	"github.com/stemsi/enrollment-backend/internal/repository/memory"
	"github.com/stemsi/enrollment-backend/internal/service"
	"github.com/stemsi/enrollment-backend/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	validator.Setup()
	m.Run()
}

func newServices() (*service.SubjectService, *service.StudentService) {
	store := memory.NewStore()
	log := zerolog.Nop()
	return service.NewSubjectService(store.Subjects(), log),
		service.NewStudentService(store.Students(), store.Subjects(), lock.NewKeyedMutex(0), log)
}

func TestRun_CreatesCatalogue(t *testing.T) {
	ctx := context.Background()
	subjects, students := newServices()

	res, err := Run(ctx, subjects, students, zerolog.Nop())
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.Equal(t, len(Subjects), res.Subjects)
	assert.Equal(t, len(Students), res.Students)

	all, err := students.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, len(Students))

	byDocument := make(map[string]int)
	for _, st := range all {
		byDocument[st.Document] = len(st.Subjects)
		assert.NoError(t, enrollment.Validate(st.Subjects), st.Document)
	}
	for _, st := range Students {
		assert.Equal(t, len(st.Subjects), byDocument[st.Document], st.Document)
	}
}

func TestRun_SkipsWhenDataExists(t *testing.T) {
	ctx := context.Background()
	subjects, students := newServices()

	_, err := Run(ctx, subjects, students, zerolog.Nop())
	require.NoError(t, err)

	res, err := Run(ctx, subjects, students, zerolog.Nop())
	require.NoError(t, err)
	assert.True(t, res.Skipped)

	all, err := subjects.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, len(Subjects))
}

func TestCatalogue_RespectsCreditPolicy(t *testing.T) {
	for _, st := range Students {
		high := 0
		for _, idx := range st.Subjects {
			if enrollment.IsHighCredit(model.Subject{Credits: Subjects[idx].Credits}) {
				high++
			}
		}
		assert.LessOrEqual(t, high, enrollment.MaxHighCreditSubjects, st.Name)
	}
}
