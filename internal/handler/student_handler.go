package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stemsi/enrollment-backend/internal/model"
	"github.com/stemsi/enrollment-backend/internal/response"
	"github.com/stemsi/enrollment-backend/internal/service"
	"github.com/stemsi/enrollment-backend/internal/validator"
)

// StudentHandler exposes student CRUD and enrollment over HTTP.
type StudentHandler struct {
	studentService *service.StudentService
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(studentService *service.StudentService) *StudentHandler {
	return &StudentHandler{studentService: studentService}
}

// List godoc
// GET /api/v1/students
func (h *StudentHandler) List(c *gin.Context) {
	students, err := h.studentService.ListAll(c.Request.Context())
	if err != nil {
		failService(c, err)
		return
	}

	if students == nil {
		students = []model.Student{}
	}
	response.Success(c, http.StatusOK, gin.H{"students": students})
}

// Get godoc
// GET /api/v1/students/:id
func (h *StudentHandler) Get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	student, err := h.studentService.GetByID(c.Request.Context(), id)
	if err != nil {
		failService(c, err)
		return
	}
	if student == nil {
		response.Fail(c, http.StatusNotFound, response.ErrStudentNotFound)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"student": student})
}

// Create godoc
// POST /api/v1/students
func (h *StudentHandler) Create(c *gin.Context) {
	var req model.CreateStudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student, err := h.studentService.Create(c.Request.Context(), model.CreateStudentInput{
		Name:       req.Name,
		Document:   req.Document,
		Email:      req.Email,
		SubjectIDs: req.SubjectIDs,
	})
	if err != nil {
		failService(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"student": student})
}

// Update godoc
// PUT /api/v1/students/:id
// Replaces the student's details and whole subject set.
func (h *StudentHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req model.UpdateStudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	// The service treats a missing student as a no-op; HTTP callers get a 404.
	if !h.exists(c, id) {
		return
	}

	err := h.studentService.Update(c.Request.Context(), model.UpdateStudentInput{
		ID:         id,
		Name:       req.Name,
		Document:   req.Document,
		Email:      req.Email,
		SubjectIDs: req.SubjectIDs,
	})
	if err != nil {
		failService(c, err)
		return
	}
	h.respondCurrent(c, id)
}

// UpdateProfile godoc
// PATCH /api/v1/students/:id
// Changes name, document and email; the enrollment is left as is.
func (h *StudentHandler) UpdateProfile(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req model.UpdateStudentProfileRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if !h.exists(c, id) {
		return
	}

	if err := h.studentService.UpdateProfile(c.Request.Context(), id, req.Name, req.Document, req.Email); err != nil {
		failService(c, err)
		return
	}
	h.respondCurrent(c, id)
}

// Delete godoc
// DELETE /api/v1/students/:id
func (h *StudentHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if !h.exists(c, id) {
		return
	}

	if err := h.studentService.Delete(c.Request.Context(), id); err != nil {
		failService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "student deleted successfully"})
}

// AssignSubjects godoc
// PUT /api/v1/students/:id/subjects
// Replaces the student's subject set; it is never merged with the old one.
func (h *StudentHandler) AssignSubjects(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req model.AssignSubjectsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.studentService.AssignSubjects(c.Request.Context(), id, req.SubjectIDs); err != nil {
		failService(c, err)
		return
	}
	h.respondCurrent(c, id)
}

func (h *StudentHandler) exists(c *gin.Context, id uuid.UUID) bool {
	student, err := h.studentService.GetByID(c.Request.Context(), id)
	if err != nil {
		failService(c, err)
		return false
	}
	if student == nil {
		response.Fail(c, http.StatusNotFound, response.ErrStudentNotFound)
		return false
	}
	return true
}

func (h *StudentHandler) respondCurrent(c *gin.Context, id uuid.UUID) {
	student, err := h.studentService.GetByID(c.Request.Context(), id)
	if err != nil {
		failService(c, err)
		return
	}
	if student == nil {
		response.Fail(c, http.StatusNotFound, response.ErrStudentNotFound)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"student": student})
}
