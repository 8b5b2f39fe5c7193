package model

import (
	"time"

	"github.com/google/uuid"
)

// Student represents an enrolled student together with the subjects
// currently assigned to them. Subjects holds value copies resolved at read
// time; SubjectIDs mirrors the same set as identifiers.
type Student struct {
	ID         uuid.UUID   `json:"id"`
	Name       string      `json:"name"`
	Document   string      `json:"document"`
	Email      string      `json:"email"`
	SubjectIDs []uuid.UUID `json:"subject_ids"`
	Subjects   []Subject   `json:"subjects"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// CreateStudentRequest is the payload for creating a new student.
type CreateStudentRequest struct {
	Name       string      `json:"name" binding:"required,max=100"`
	Document   string      `json:"document" binding:"required,max=20"`
	Email      string      `json:"email" binding:"required,email"`
	SubjectIDs []uuid.UUID `json:"subject_ids"`
}

// UpdateStudentRequest is the payload for replacing a student's details
// and enrollment in one call.
type UpdateStudentRequest struct {
	Name       string      `json:"name" binding:"required,max=100"`
	Document   string      `json:"document" binding:"required,max=20"`
	Email      string      `json:"email" binding:"required,email"`
	SubjectIDs []uuid.UUID `json:"subject_ids"`
}

// UpdateStudentProfileRequest changes the scalar fields only.
type UpdateStudentProfileRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Document string `json:"document" binding:"required,max=20"`
	Email    string `json:"email" binding:"required,email"`
}

// AssignSubjectsRequest replaces a student's enrollment.
type AssignSubjectsRequest struct {
	SubjectIDs []uuid.UUID `json:"subject_ids"`
}

// CreateStudentInput carries the fields the service needs to create a student.
type CreateStudentInput struct {
	Name       string
	Document   string
	Email      string
	SubjectIDs []uuid.UUID
}

// UpdateStudentInput carries the fields the service needs to update a student.
type UpdateStudentInput struct {
	ID         uuid.UUID
	Name       string
	Document   string
	Email      string
	SubjectIDs []uuid.UUID
}
