// Package seed loads the demo catalogue of subjects and students.
package seed

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/enrollment-backend/internal/model"
	"github.com/stemsi/enrollment-backend/internal/service"
)

// Subjects is the demo subject catalogue, in insertion order.
var Subjects = []model.CreateSubjectRequest{
	{Name: "Literatura", Code: "LIT201", Credits: 5},
	{Name: "Historia", Code: "HIS202", Credits: 6},
	{Name: "Biología", Code: "BIO301", Credits: 7},
	{Name: "Programación I", Code: "PROG302", Credits: 3},
	{Name: "Economía", Code: "ECO401", Credits: 4},
	{Name: "Derecho Constitucional", Code: "DER402", Credits: 8},
	{Name: "Arte y Diseño", Code: "ART501", Credits: 2},
	{Name: "Filosofía", Code: "FIL502", Credits: 3},
	{Name: "Gastronomia", Code: "GAS501", Credits: 6},
	{Name: "Bases de datos", Code: "BAB502", Credits: 5},
}

// Student is a demo student; Subjects indexes into the Subjects catalogue.
type Student struct {
	Name     string
	Document string
	Email    string
	Subjects []int
}

var Students = []Student{
	{Name: "Derain Julian Atehortua Montes", Document: "123456789", Email: "derain@q10.com", Subjects: []int{0, 1, 2}},
	{Name: "Yeris Paola Vergara Díaz", Document: "987654321", Email: "yvergara@q10.com", Subjects: []int{3, 6}},
	{Name: "Jesús Ortiz Paz", Document: "777777777", Email: "jortiz@q10.com", Subjects: []int{4, 5, 7}},
	{Name: "Benito Martinez", Document: "2222222222", Email: "Benito@q10.com", Subjects: []int{8, 9}},
	{Name: "Daniela Atehortua", Document: "1111111111", Email: "Daniela@q10.com", Subjects: []int{7}},
}

// Result reports what Run created.
type Result struct {
	Skipped  bool
	Subjects int
	Students int
}

// Run creates the catalogue through the services, so every enrollment
// passes the credit policy. Nothing is written when any subject or
// student already exists.
func Run(ctx context.Context, subjects *service.SubjectService, students *service.StudentService, log zerolog.Logger) (Result, error) {
	existingSubjects, err := subjects.ListAll(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("list subjects: %w", err)
	}
	existingStudents, err := students.ListAll(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("list students: %w", err)
	}
	if len(existingSubjects) > 0 || len(existingStudents) > 0 {
		log.Info().
			Int("subjects", len(existingSubjects)).
			Int("students", len(existingStudents)).
			Msg("Data already present, skipping seed")
		return Result{Skipped: true}, nil
	}

	var res Result
	ids := make([]uuid.UUID, len(Subjects))
	for i, req := range Subjects {
		sub := &model.Subject{Name: req.Name, Code: req.Code, Credits: req.Credits}
		if err := subjects.Create(ctx, sub); err != nil {
			return res, fmt.Errorf("create subject %s: %w", req.Code, err)
		}
		ids[i] = sub.ID
		res.Subjects++
	}

	for _, st := range Students {
		subjectIDs := make([]uuid.UUID, 0, len(st.Subjects))
		for _, idx := range st.Subjects {
			subjectIDs = append(subjectIDs, ids[idx])
		}

		if _, err := students.Create(ctx, model.CreateStudentInput{
			Name:       st.Name,
			Document:   st.Document,
			Email:      st.Email,
			SubjectIDs: subjectIDs,
		}); err != nil {
			return res, fmt.Errorf("create student %s: %w", st.Document, err)
		}
		res.Students++
	}

	log.Info().Int("subjects", res.Subjects).Int("students", res.Students).Msg("Seed completed")
	return res, nil
}
