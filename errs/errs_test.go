package errs

import (
	"errors"
	"net/http"
	"testing"

	"gorm.io/gorm"
)

func TestSanitizeStripsVendorTerms(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"sqlite term", errors.New("sqlite constraint failed"), "database constraint failed"},
		{"gorm term", errors.New("GORM: invalid value"), "database: invalid value"},
		{"redis term", errors.New("redis connection refused"), "database connection refused"},
		{"clean message untouched", errors.New("something went wrong"), "something went wrong"},
		{"nil", nil, "An unknown error occurred"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.err); got != tt.want {
				t.Errorf("Sanitize(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestSanitizeKnownErrors(t *testing.T) {
	if got := Sanitize(gorm.ErrRecordNotFound); got != "The requested record was not found" {
		t.Errorf("ErrRecordNotFound -> %q", got)
	}
	if got := Sanitize(gorm.ErrDuplicatedKey); got != "A record with these details already exists" {
		t.Errorf("ErrDuplicatedKey -> %q", got)
	}
}

func TestSanitizePassesAppErrors(t *testing.T) {
	err := Policy("Payment can only be submitted between 12:00 AM to 5:59 AM")
	if got := Sanitize(err); got != err.Message {
		t.Errorf("app error message rewritten: %q", got)
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindAuth, http.StatusUnauthorized},
		{KindPolicy, http.StatusUnprocessableEntity},
		{KindConflict, http.StatusConflict},
		{KindNotFound, http.StatusNotFound},
		{KindStore, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.kind); got != tt.want {
			t.Errorf("HTTPStatus(%s) = %d, want %d", tt.kind, got, tt.want)
		}
	}
}
