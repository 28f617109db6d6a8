// Package errs defines the error taxonomy surfaced to API clients and a
// sanitizing formatter that keeps backend/vendor terminology out of
// user-facing messages.
package errs

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Kind classifies an error for HTTP mapping and client handling.
type Kind string

const (
	KindValidation Kind = "validation_error" // bad input, recovered locally
	KindAuth       Kind = "auth_error"       // credential/permission failure
	KindStore      Kind = "store_error"      // database failure
	KindPolicy     Kind = "policy_error"     // action outside its legal window
	KindConflict   Kind = "conflict_error"   // lost a first-writer-wins race
	KindNotFound   Kind = "not_found"
)

// Error carries a kind plus a human-readable message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func Validation(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }
func Policy(msg string) *Error     { return &Error{Kind: KindPolicy, Message: msg} }
func Conflict(msg string) *Error   { return &Error{Kind: KindConflict, Message: msg} }
func NotFound(msg string) *Error   { return &Error{Kind: KindNotFound, Message: msg} }
func Auth(msg string) *Error       { return &Error{Kind: KindAuth, Message: msg} }
func Store(msg string) *Error      { return &Error{Kind: KindStore, Message: msg} }

// HTTPStatus maps an error kind to a response code.
func HTTPStatus(k Kind) int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindPolicy:
		return http.StatusUnprocessableEntity
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Abort writes the error in the standard response envelope with the
// status code its kind maps to.
func Abort(c *gin.Context, err *Error) {
	c.JSON(HTTPStatus(err.Kind), gin.H{"error": err.Message})
}

// knownMessages maps well-known backend errors to user-friendly strings.
var knownMessages = []struct {
	err error
	msg string
}{
	{gorm.ErrRecordNotFound, "The requested record was not found"},
	{gorm.ErrDuplicatedKey, "A record with these details already exists"},
	{gorm.ErrInvalidTransaction, "The operation could not be completed. Please try again"},
}

var vendorTerms = regexp.MustCompile(`(?i)\b(gorm|sqlite|sql|redis|firestore|firebase)\b`)

// Sanitize strips vendor-specific terminology from a backend error so it
// can be shown to users, falling back to the cleaned raw message when the
// error is not in the known table.
func Sanitize(err error) string {
	if err == nil {
		return "An unknown error occurred"
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	for _, k := range knownMessages {
		if errors.Is(err, k.err) {
			return k.msg
		}
	}
	cleaned := vendorTerms.ReplaceAllString(err.Error(), "database")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return "An error occurred. Please try again"
	}
	return cleaned
}
