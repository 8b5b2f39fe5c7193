package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/enrollment-backend/internal/model"
	"github.com/stemsi/enrollment-backend/internal/repository/memory"
	"github.com/stemsi/enrollment-backend/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	validator.Setup()
	m.Run()
}

func TestSubjectService_RejectsInvalidFields(t *testing.T) {
	store := memory.NewStore()
	svc := NewSubjectService(store.Subjects(), zerolog.Nop())
	ctx := context.Background()

	tests := []struct {
		name  string
		sub   model.Subject
		field string
	}{
		{"zero credits", model.Subject{Name: "Math", Code: "MAT", Credits: 0}, "credits"},
		{"too many credits", model.Subject{Name: "Math", Code: "MAT", Credits: 50}, "credits"},
		{"empty name", model.Subject{Name: "", Code: "MAT", Credits: 3}, "name"},
		{"long code", model.Subject{Name: "Math", Code: strings.Repeat("C", 21), Credits: 3}, "code"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := tt.sub
			err := svc.Create(ctx, &sub)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSubjectService_UpdateRejectsInvalidCredits(t *testing.T) {
	store := memory.NewStore()
	svc := NewSubjectService(store.Subjects(), zerolog.Nop())
	ctx := context.Background()

	sub := &model.Subject{Name: "Math", Code: "MAT", Credits: 3}
	require.NoError(t, svc.Create(ctx, sub))

	err := svc.Update(ctx, &model.Subject{ID: sub.ID, Name: "Math", Code: "MAT", Credits: 11})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	got, err := svc.GetByID(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Credits)
}

func TestStudentService_RejectsInvalidFieldsBeforeWriting(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	st := f.student(t, nil)
	writes := f.students.writes.Load()

	_, err := f.svc.Create(ctx, model.CreateStudentInput{Name: "Ana", Document: "77", Email: "not-an-email"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")

	err = f.svc.Update(ctx, model.UpdateStudentInput{ID: st.ID, Name: "", Document: st.Document, Email: st.Email})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")

	err = f.svc.UpdateProfile(ctx, st.ID, "Ana", strings.Repeat("9", 21), st.Email)
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "document")

	assert.Equal(t, writes, f.students.writes.Load())
	assert.Contains(t, verr.Error(), "document")
}

func TestStudentService_ValidationPrecedesMissingStudentNoOp(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Update(context.Background(), model.UpdateStudentInput{ID: uuid.New(), Email: "x@example.com"})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}
