package model

import (
	"time"

	"github.com/google/uuid"
)

// Subject represents an academic subject a student can enroll in.
type Subject struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Credits   int       `json:"credits"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateSubjectRequest is the payload for creating a subject.
type CreateSubjectRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Code    string `json:"code" binding:"required,max=20"`
	Credits int    `json:"credits" binding:"required,min=1,max=10"`
}

// UpdateSubjectRequest is the payload for updating a subject.
type UpdateSubjectRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Code    string `json:"code" binding:"required,max=20"`
	Credits int    `json:"credits" binding:"required,min=1,max=10"`
}
