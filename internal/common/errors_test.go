package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
		want    string
	}{
		{
			name:    "message only",
			message: "no files found to import",
			want:    "no files found to import",
		},
		{
			name:    "wrapped error is appended",
			err:     errors.New("permission denied"),
			message: "could not open statement",
			want:    "could not open statement: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewUserError(tt.message, tt.err)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestUserErrorUnwrap(t *testing.T) {
	err := NewUserError("series already exists", ErrDuplicateEntry)
	assert.ErrorIs(t, err, ErrDuplicateEntry)

	var userErr *UserError
	assert.ErrorAs(t, fmt.Errorf("create: %w", err), &userErr)
	assert.Equal(t, "series already exists", userErr.UserMessage)
}
