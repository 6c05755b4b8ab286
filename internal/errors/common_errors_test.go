package errors

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorType_Constants(t *testing.T) {
	tests := []struct {
		name     string
		errType  ErrorType
		expected string
	}{
		{name: "parsing error type", errType: ErrTypeParsing, expected: "PARSING"},
		{name: "storage error type", errType: ErrTypeStorage, expected: "STORAGE"},
		{name: "validation error type", errType: ErrTypeValidation, expected: "VALIDATION"},
		{name: "not found error type", errType: ErrTypeNotFound, expected: "NOT_FOUND"},
		{name: "permission error type", errType: ErrTypePermission, expected: "PERMISSION"},
		{name: "config error type", errType: ErrTypeConfig, expected: "CONFIG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.errType))
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name: "error without cause",
			appError: &AppError{
				Type:    ErrTypeNotFound,
				Message: "input file not found",
			},
			wantMessage: "[NOT_FOUND] input file not found",
		},
		{
			name: "error with cause",
			appError: &AppError{
				Type:    ErrTypeStorage,
				Message: "failed to write report",
				Cause:   fmt.Errorf("disk full"),
			},
			wantMessage: "[STORAGE] failed to write report: disk full",
		},
		{
			name: "error with row context",
			appError: &AppError{
				Type:    ErrTypeParsing,
				Message: "wrong column count",
				Context: map[string]interface{}{ContextRow: 7},
			},
			wantMessage: "[PARSING] wrong column count (row 7)",
		},
		{
			name: "error with row and column context",
			appError: &AppError{
				Type:    ErrTypeParsing,
				Message: "invalid Age value \"abc\"",
				Cause:   fmt.Errorf("not an integer"),
				Context: map[string]interface{}{ContextRow: 3, ContextColumn: "Age"},
			},
			wantMessage: "[PARSING] invalid Age value \"abc\" (row 3, column Age): not an integer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("original error")
	appErr := NewStorageError("storage error", cause)
	assert.Same(t, cause, appErr.Unwrap())

	assert.Nil(t, NewNotFoundError("input").Unwrap())
}

func TestAppError_WithContext(t *testing.T) {
	tests := []struct {
		name          string
		appError      *AppError
		key           string
		value         interface{}
		expectedValue interface{}
	}{
		{
			name:          "add string context",
			appError:      &AppError{Type: ErrTypeParsing, Message: "parse error"},
			key:           ContextColumn,
			value:         "Age",
			expectedValue: "Age",
		},
		{
			name:          "add integer context",
			appError:      &AppError{Type: ErrTypeParsing, Message: "parse error"},
			key:           ContextRow,
			value:         12,
			expectedValue: 12,
		},
		{
			name: "add context to error with existing context",
			appError: &AppError{
				Type:    ErrTypeValidation,
				Message: "validation error",
				Context: map[string]interface{}{"field": "format"},
			},
			key:           "value",
			value:         "pdf",
			expectedValue: "pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.appError.WithContext(tt.key, tt.value)

			assert.Same(t, tt.appError, result)
			require.Contains(t, result.Context, tt.key)
			assert.Equal(t, tt.expectedValue, result.Context[tt.key])
		})
	}
}

func TestAppError_WithContext_NilContext(t *testing.T) {
	appError := &AppError{Type: ErrTypeConfig, Message: "test error"}

	result := appError.WithContext("test_key", "test_value")

	assert.NotNil(t, result.Context)
	assert.Equal(t, "test_value", result.Context["test_key"])
}

func TestRowParseError(t *testing.T) {
	cause := fmt.Errorf("strconv.Atoi: parsing \"x\": invalid syntax")
	err := RowParseError(4, "Age", "x", cause)

	assert.Equal(t, ErrTypeParsing, err.Type)
	assert.Same(t, cause, err.Unwrap())

	row, ok := err.Row()
	require.True(t, ok)
	assert.Equal(t, 4, row)

	col, ok := err.Column()
	require.True(t, ok)
	assert.Equal(t, "Age", col)
	assert.Equal(t, "x", err.Context[ContextValue])

	assert.Contains(t, err.Error(), "(row 4, column Age)")
}

func TestAppError_RowColumnMissing(t *testing.T) {
	err := NewParsingError("header mismatch", nil)

	_, ok := err.Row()
	assert.False(t, ok)
	_, ok = err.Column()
	assert.False(t, ok)
}

func TestConstructors(t *testing.T) {
	cause := fmt.Errorf("cause")

	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
		wantMsg  string
		wantErr  error
	}{
		{"parsing", NewParsingError("bad row", cause), ErrTypeParsing, "bad row", cause},
		{"storage", NewStorageError("write failed", cause), ErrTypeStorage, "write failed", cause},
		{"validation", NewAppValidationError("unknown format"), ErrTypeValidation, "unknown format", nil},
		{"not found", NewNotFoundError("input file"), ErrTypeNotFound, "input file not found", nil},
		{"permission", NewPermissionError("cannot write"), ErrTypePermission, "cannot write", nil},
		{"config", NewConfigError("invalid config", cause), ErrTypeConfig, "invalid config", cause},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantMsg, tt.err.Message)
			assert.Equal(t, tt.wantErr, tt.err.Cause)
			assert.NotNil(t, tt.err.Context)
		})
	}
}

func TestTypeHelpers(t *testing.T) {
	notFound := NewNotFoundError("input file").WithContext(ContextPath, "noshow.csv")
	wrapped := fmt.Errorf("load dataset: %w", notFound)

	errType, ok := TypeOf(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrTypeNotFound, errType)

	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsParsing(wrapped))
	assert.True(t, IsParsing(RowParseError(0, "Age", "", nil)))

	_, ok = TypeOf(os.ErrNotExist)
	assert.False(t, ok)
	assert.False(t, IsType(nil, ErrTypeNotFound))
}

func TestAppError_ErrorsIntegration(t *testing.T) {
	t.Run("errors.Is works with AppError", func(t *testing.T) {
		originalErr := fmt.Errorf("original error")
		appErr := NewParsingError("parse failed", originalErr)

		assert.True(t, errors.Is(appErr, originalErr))
		assert.False(t, errors.Is(appErr, fmt.Errorf("other error")))
	})

	t.Run("errors.As works with AppError", func(t *testing.T) {
		wrappedErr := fmt.Errorf("wrapped: %w", RowParseError(2, "PatientId", "abc", nil))

		var appErr *AppError
		require.True(t, errors.As(wrappedErr, &appErr))
		assert.Equal(t, ErrTypeParsing, appErr.Type)
		row, _ := appErr.Row()
		assert.Equal(t, 2, row)
	})
}
