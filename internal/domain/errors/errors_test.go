package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError_CollectsItems(t *testing.T) {
	var ve ValidationError
	require.NoError(t, ve.Err())

	ve.Add("profile.name", "must not be empty")
	ve.Addf("projects[2].id", "duplicate id %q", "pr1")

	err := ve.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
	assert.Contains(t, err.Error(), "profile.name: must not be empty")
	assert.Contains(t, err.Error(), `projects[2].id: duplicate id "pr1"`)
}

func TestFieldError_WithoutField(t *testing.T) {
	assert.Equal(t, "boom", FieldError{Message: "boom"}.Error())
}
