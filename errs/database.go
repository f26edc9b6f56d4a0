package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrDatabaseQuery      = errors.New("database query failed")
	ErrDatabaseConnection = errors.New("database connection failed")
)

// NewDatabaseError classifies a driver error from an operation on an
// entity into a typed ApiErr. Unique-constraint violations (e.g. a slug
// collision on create) become Conflict rather than an opaque 500.
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	details := fmt.Sprintf("failed to %s %s", operation, entity)

	if cause != nil {
		if errors.Is(cause, gorm.ErrRecordNotFound) {
			return &ApiErr{
				StatusCode: http.StatusNotFound,
				err:        wrap(fmt.Sprintf("%s not found", entity), ErrNotFound),
				Details:    details,
				Cause:      cause,
			}
		}
		if errors.Is(cause, gorm.ErrDuplicatedKey) || isUniqueViolation(cause) {
			return &ApiErr{
				StatusCode: http.StatusConflict,
				err:        wrap(fmt.Sprintf("%s already exists", entity), ErrConflict),
				Details:    details,
				Cause:      cause,
			}
		}
		if errors.Is(cause, gorm.ErrForeignKeyViolated) {
			return &ApiErr{
				StatusCode: http.StatusBadRequest,
				err:        wrap(fmt.Sprintf("invalid reference in %s", entity), ErrBadRequest),
				Details:    "the referenced resource does not exist or cannot be linked",
				Cause:      cause,
			}
		}
		if strings.Contains(cause.Error(), "connection") {
			return &ApiErr{
				StatusCode: http.StatusServiceUnavailable,
				err:        ErrDatabaseConnection,
				Details:    "unable to connect to database",
				Cause:      cause,
			}
		}
	}

	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrDatabaseQuery,
		Details:    details,
		Cause:      cause,
	}
}

// isUniqueViolation catches drivers that report constraint violations
// only through the error text (postgres "duplicate key", sqlite
// "UNIQUE constraint failed").
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
