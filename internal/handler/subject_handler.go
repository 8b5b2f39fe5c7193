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

type SubjectHandler struct {
	subjectService *service.SubjectService
	studentService *service.StudentService
}

func NewSubjectHandler(subjectService *service.SubjectService, studentService *service.StudentService) *SubjectHandler {
	return &SubjectHandler{subjectService: subjectService, studentService: studentService}
}

// GetAll godoc
// GET /api/v1/subjects
func (h *SubjectHandler) GetAll(c *gin.Context) {
	subjects, err := h.subjectService.ListAll(c.Request.Context())
	if err != nil {
		failService(c, err)
		return
	}

	if subjects == nil {
		subjects = []model.Subject{}
	}

	response.Success(c, http.StatusOK, gin.H{"subjects": subjects})
}

// Get godoc
// GET /api/v1/subjects/:id
func (h *SubjectHandler) Get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	sub, ok := h.find(c, id)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, gin.H{"subject": sub})
}

// Create godoc
// POST /api/v1/subjects
func (h *SubjectHandler) Create(c *gin.Context) {
	var req model.CreateSubjectRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sub := &model.Subject{Name: req.Name, Code: req.Code, Credits: req.Credits}
	if err := h.subjectService.Create(c.Request.Context(), sub); err != nil {
		failService(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"subject": sub})
}

// Update godoc
// PUT /api/v1/subjects/:id
func (h *SubjectHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req model.UpdateSubjectRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if _, ok := h.find(c, id); !ok {
		return
	}

	sub := &model.Subject{ID: id, Name: req.Name, Code: req.Code, Credits: req.Credits}
	if err := h.subjectService.Update(c.Request.Context(), sub); err != nil {
		failService(c, err)
		return
	}

	updated, ok := h.find(c, id)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, gin.H{"subject": updated})
}

// Delete godoc
// DELETE /api/v1/subjects/:id
// Enrollments of the subject are removed along with it.
func (h *SubjectHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if _, ok := h.find(c, id); !ok {
		return
	}

	if err := h.subjectService.Delete(c.Request.Context(), id); err != nil {
		failService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "subject deleted successfully"})
}

// Students godoc
// GET /api/v1/subjects/:id/students
func (h *SubjectHandler) Students(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if _, ok := h.find(c, id); !ok {
		return
	}

	students, err := h.studentService.ListBySubject(c.Request.Context(), id)
	if err != nil {
		failService(c, err)
		return
	}
	if students == nil {
		students = []model.Student{}
	}
	response.Success(c, http.StatusOK, gin.H{"students": students})
}

func (h *SubjectHandler) find(c *gin.Context, id uuid.UUID) (*model.Subject, bool) {
	sub, err := h.subjectService.GetByID(c.Request.Context(), id)
	if err != nil {
		failService(c, err)
		return nil, false
	}
	if sub == nil {
		response.Fail(c, http.StatusNotFound, response.ErrSubjectNotFound)
		return nil, false
	}
	return sub, true
}
