package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Error taxonomy for the whole service layer. Handlers never inspect raw
// gorm errors; services translate them into one of these and
// RespondError maps them onto HTTP statuses.

// ValidationError signals missing or malformed required input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s is required", e.Field)
}

// NewValidationError creates a field-naming validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError signals a missing or soft-deleted entity. KnownKeys, when
// set, is included in the response body to aid operator debugging.
type NotFoundError struct {
	Resource  string
	Key       string
	KnownKeys []string
}

func (e *NotFoundError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s '%s' not found", e.Resource, e.Key)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// ConflictError signals a lost concurrency race (e.g. duplicate version
// number) that the caller may retry.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// EvaluationError carries a rejection from the external decision engine.
type EvaluationError struct {
	Message string
}

func (e *EvaluationError) Error() string {
	return e.Message
}

// StorageError wraps an unexpected database failure without leaking query
// internals to API clients.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// WrapStorage classifies a gorm error: record-not-found becomes a
// NotFoundError for the given resource, everything else a StorageError.
func WrapStorage(op, resource string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Resource: resource}
	}
	return &StorageError{Op: op, Err: err}
}

// IsDuplicateKey reports whether err is a unique-constraint violation on
// either postgres or sqlite.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// RespondError writes the structured JSON error envelope for err.
func RespondError(ctx *gin.Context, err error) {
	var (
		validationErr *ValidationError
		notFoundErr   *NotFoundError
		conflictErr   *ConflictError
		evalErr       *EvaluationError
		storageErr    *StorageError
	)

	switch {
	case errors.As(err, &validationErr):
		ctx.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": validationErr.Error()})
	case errors.As(err, &notFoundErr):
		body := gin.H{"ok": false, "error": notFoundErr.Error()}
		if notFoundErr.KnownKeys != nil {
			body["knownKeys"] = notFoundErr.KnownKeys
		}
		ctx.JSON(http.StatusNotFound, body)
	case errors.As(err, &conflictErr):
		ctx.JSON(http.StatusConflict, gin.H{"ok": false, "error": conflictErr.Error(), "retryable": true})
	case errors.As(err, &evalErr):
		ctx.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": evalErr.Error()})
	case errors.As(err, &storageErr):
		ctx.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal storage error"})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
	}
}
