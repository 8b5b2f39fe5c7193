package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/enrollment-backend/internal/model"
	"github.com/stemsi/enrollment-backend/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSubjectService() *SubjectService {
	return NewSubjectService(memory.NewStore().Subjects(), zerolog.Nop())
}

func TestSubjectService_Create(t *testing.T) {
	svc := newSubjectService()
	ctx := context.Background()

	sub := &model.Subject{Name: "Physics", Code: "PHY101", Credits: 3}
	require.NoError(t, svc.Create(ctx, sub))
	assert.NotEqual(t, uuid.Nil, sub.ID)

	got, err := svc.GetByID(ctx, sub.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Physics", got.Name)
}

func TestSubjectService_ListAll(t *testing.T) {
	svc := newSubjectService()
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, &model.Subject{Name: "Chemistry", Code: "CHEM", Credits: 4}))
	require.NoError(t, svc.Create(ctx, &model.Subject{Name: "English", Code: "ENG", Credits: 2}))

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSubjectService_Update(t *testing.T) {
	svc := newSubjectService()
	ctx := context.Background()

	sub := &model.Subject{Name: "Biology", Code: "BIO", Credits: 3}
	require.NoError(t, svc.Create(ctx, sub))

	require.NoError(t, svc.Update(ctx, &model.Subject{ID: sub.ID, Name: "Advanced Biology", Code: "BIO2", Credits: 4}))

	got, err := svc.GetByID(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, "Advanced Biology", got.Name)
	assert.Equal(t, "BIO2", got.Code)
	assert.Equal(t, 4, got.Credits)
}

func TestSubjectService_Delete(t *testing.T) {
	svc := newSubjectService()
	ctx := context.Background()

	sub := &model.Subject{Name: "Art", Code: "ART", Credits: 2}
	require.NoError(t, svc.Create(ctx, sub))
	require.NoError(t, svc.Delete(ctx, sub.ID))

	got, err := svc.GetByID(ctx, sub.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSubjectService_UnknownIDs(t *testing.T) {
	svc := newSubjectService()
	ctx := context.Background()

	got, err := svc.GetByID(ctx, uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, svc.Update(ctx, &model.Subject{ID: uuid.New(), Name: "x", Code: "x", Credits: 1}))
	assert.NoError(t, svc.Delete(ctx, uuid.New()))
}
