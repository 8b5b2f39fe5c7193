package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound          ErrCode = "NOT_FOUND"
	ErrStudentNotFound   ErrCode = "STUDENT_NOT_FOUND"
	ErrSubjectNotFound   ErrCode = "SUBJECT_NOT_FOUND"
	ErrDuplicateDocument ErrCode = "DUPLICATE_DOCUMENT"

	// ─── Enrollment ────────────────────────────────────────────────────
	ErrCreditLimitExceeded ErrCode = "CREDIT_LIMIT_EXCEEDED"
	ErrStudentBusy         ErrCode = "STUDENT_BUSY"

	// ─── Server ────────────────────────────────────────────────────────
	ErrServiceUnavailable ErrCode = "SERVICE_UNAVAILABLE"
	ErrInternal           ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrStudentNotFound:
		return "Student not found."
	case ErrSubjectNotFound:
		return "Subject not found."
	case ErrDuplicateDocument:
		return "A student with this document already exists."

	// ─── Enrollment ────────────────────────────────────────────────────
	case ErrCreditLimitExceeded:
		return "Cannot enroll in more than 3 subjects with more than 4 credits."
	case ErrStudentBusy:
		return "Another change to this student is in progress. Please try again."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrServiceUnavailable:
		return "A required service is unavailable."
	case ErrInternal:
		return "Internal server error."
	default:
		return "An unexpected error occurred."
	}
}
