package service

import (
	"errors"
	"testing"

	"imageboard/internal/imaging"
	"imageboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultTestValidator() *imaging.Validator {
	return imaging.NewValidator(imaging.DefaultMaxSizeBytes)
}

func assertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T", err)
	assert.Equal(t, code, appErr.Code)
}
