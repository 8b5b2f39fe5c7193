package enrollment

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stemsi/enrollment-backend/internal/model"
	"github.com/stretchr/testify/assert"
)

func subjectsWithCredits(credits ...int) []model.Subject {
	out := make([]model.Subject, 0, len(credits))
	for _, c := range credits {
		out = append(out, model.Subject{ID: uuid.New(), Credits: c})
	}
	return out
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		credits []int
		wantErr bool
	}{
		{name: "empty set", credits: nil},
		{name: "only low credit", credits: []int{1, 2, 3, 4, 4, 4, 4, 4, 3}},
		{name: "three high credit", credits: []int{5, 6, 10}},
		{name: "three high credit plus many low", credits: []int{5, 6, 7, 1, 2, 3, 4}},
		{name: "four high credit", credits: []int{5, 6, 7, 8}, wantErr: true},
		{name: "four high credit among low", credits: []int{2, 5, 3, 6, 7, 4, 8}, wantErr: true},
		{name: "threshold is exclusive", credits: []int{4, 4, 4, 4, 5, 5, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(subjectsWithCredits(tt.credits...))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrCreditLimitExceeded)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidate_MatchesCountRule(t *testing.T) {
	for high := 0; high <= 6; high++ {
		for low := 0; low <= 3; low++ {
			var credits []int
			for i := 0; i < high; i++ {
				credits = append(credits, 5+i%6)
			}
			for i := 0; i < low; i++ {
				credits = append(credits, 1+i%4)
			}
			err := Validate(subjectsWithCredits(credits...))
			if high <= MaxHighCreditSubjects {
				assert.NoError(t, err, "high=%d low=%d", high, low)
			} else {
				assert.ErrorIs(t, err, ErrCreditLimitExceeded, "high=%d low=%d", high, low)
			}
		}
	}
}

func TestValidate_DuplicatesCountOnce(t *testing.T) {
	high := subjectsWithCredits(5, 6, 7)
	withDup := append(high, high[0])

	assert.Equal(t, 3, HighCreditCount(withDup))
	assert.NoError(t, Validate(withDup))
}

func TestErrCreditLimitExceeded_Message(t *testing.T) {
	assert.Equal(t, "cannot enroll in more than 3 subjects with more than 4 credits", ErrCreditLimitExceeded.Error())
}
