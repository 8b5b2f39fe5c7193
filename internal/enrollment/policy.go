// Package enrollment holds the admission rule applied to every change of a
// student's subject set.
package enrollment

import (
	"errors"

	"github.com/google/uuid"
	"github.com/stemsi/enrollment-backend/internal/model"
)

const (
	// HighCreditThreshold is the credit value a subject must exceed to count
	// as high-credit.
	HighCreditThreshold = 4

	// MaxHighCreditSubjects is the number of high-credit subjects a student
	// may hold at the same time.
	MaxHighCreditSubjects = 3
)

// ErrCreditLimitExceeded is returned when a proposed subject set holds too
// many high-credit subjects.
var ErrCreditLimitExceeded = errors.New("cannot enroll in more than 3 subjects with more than 4 credits")

// IsHighCredit reports whether s counts towards the high-credit limit.
func IsHighCredit(s model.Subject) bool {
	return s.Credits > HighCreditThreshold
}

// HighCreditCount returns the number of distinct high-credit subjects in
// subjects. A subject listed twice is counted once.
func HighCreditCount(subjects []model.Subject) int {
	seen := make(map[uuid.UUID]struct{}, len(subjects))
	count := 0
	for _, s := range subjects {
		if _, dup := seen[s.ID]; dup {
			continue
		}
		seen[s.ID] = struct{}{}
		if IsHighCredit(s) {
			count++
		}
	}
	return count
}

// Validate checks the full subject set a student would hold after a write.
// It never performs I/O.
func Validate(subjects []model.Subject) error {
	if HighCreditCount(subjects) > MaxHighCreditSubjects {
		return ErrCreditLimitExceeded
	}
	return nil
}
