package errors

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Postgres SQLSTATE codes
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

// ErrorInfo is a classified error ready to be sent to the client.
type ErrorInfo struct {
	Status  int
	Code    string
	Message string
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsUniqueViolation reports whether err comes from a unique constraint.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || pgCode(err) == pgUniqueViolation {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

// IsForeignKeyViolation reports whether err comes from a foreign key constraint.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) || pgCode(err) == pgForeignKeyViolation {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint")
}

// IsNotFound reports whether err is gorm's missing record error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// ParseError turns a storage error into a client-facing ErrorInfo. The
// resource name is used to build messages, e.g. "category".
func ParseError(err error, resource string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Status: http.StatusInternalServerError, Code: InternalServerError, Message: "Unexpected error"}
	}
	if resource == "" {
		resource = "resource"
	}

	switch {
	case IsNotFound(err):
		return ErrorInfo{Status: http.StatusNotFound, Code: ResourceNotFound, Message: capitalize(resource) + " not found"}
	case IsUniqueViolation(err):
		return ErrorInfo{Status: http.StatusConflict, Code: ResourceAlreadyExists, Message: capitalize(resource) + " already exists"}
	case IsForeignKeyViolation(err):
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "still referenced") {
			return ErrorInfo{Status: http.StatusConflict, Code: ResourceInUse, Message: capitalize(resource) + " is still referenced"}
		}
		return ErrorInfo{Status: http.StatusBadRequest, Code: ValidationInvalidInput, Message: "Referenced record does not exist"}
	}

	switch pgCode(err) {
	case pgNotNullViolation:
		return ErrorInfo{Status: http.StatusBadRequest, Code: ValidationRequired, Message: "A required field is missing"}
	case pgCheckViolation:
		return ErrorInfo{Status: http.StatusBadRequest, Code: ValidationInvalidInput, Message: "Invalid input"}
	}

	return ErrorInfo{Status: http.StatusInternalServerError, Code: InternalDatabaseError, Message: "Failed to process " + resource}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseAndRespond classifies err and writes the matching response.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, err error, resource string) {
	info := ParseError(err, resource)
	c.JSON(info.Status, ErrorResponse{
		Error:   info.Code,
		Message: info.Message,
	})
}
