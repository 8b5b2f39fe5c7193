package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrStudentNotFound is returned when a write targets a student row that does not exist.
	ErrStudentNotFound = errors.New("student not found")

	// ErrDuplicateDocument is returned when another student already holds the document.
	ErrDuplicateDocument = errors.New("student with this document already exists")
)

const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
