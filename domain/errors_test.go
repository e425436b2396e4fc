package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind ErrorKind
		code string
	}{
		{"validation", NewValidationError("email", "invalid"), KindValidation, "VALIDATION_ERROR"},
		{"credential missing", ErrCredentialMissing, KindAuthentication, "CREDENTIAL_MISSING"},
		{"credential expired", ErrCredentialExpired, KindAuthentication, "CREDENTIAL_EXPIRED"},
		{"credential invalid", ErrCredentialInvalid, KindAuthentication, "CREDENTIAL_INVALID"},
		{"subject not found", ErrSubjectNotFound, KindAuthentication, "SUBJECT_NOT_FOUND"},
		{"forbidden", ErrForbidden, KindAuthorization, "FORBIDDEN"},
		{"token revoked", ErrTokenRevoked, KindAuthorization, "TOKEN_REVOKED"},
		{"already approved", ErrAlreadyApproved, KindStateConflict, "ALREADY_APPROVED"},
		{"course not assigned", ErrCourseNotAssigned, KindStateConflict, "COURSE_NOT_ASSIGNED"},
		{"already initialized", ErrAlreadyInitialized, KindStateConflict, "ALREADY_INITIALIZED"},
		{"not found", ErrNotFound, KindNotFound, "NOT_FOUND"},
		{"token not found", ErrTokenNotFound, KindNotFound, "TOKEN_NOT_FOUND"},
		{"upstream", Upstream("load enrollment", errors.New("connection refused")), KindUpstream, "UPSTREAM_FAILURE"},
		{"unknown", errors.New("boom"), KindInternal, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Kind(tt.err); got != tt.kind {
				t.Errorf("expected kind %s, got %s", tt.kind, got)
			}
			if got := Code(tt.err); got != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, got)
			}
		})
	}
}

func TestErrorTaxonomy_Wrapped(t *testing.T) {
	err := fmt.Errorf("approve enrollment 7: %w", ErrAlreadyApproved)
	if Kind(err) != KindStateConflict {
		t.Errorf("wrapped error should keep its kind, got %s", Kind(err))
	}

	// a domain error wrapped by Upstream keeps the more specific classification
	err = Upstream("find", ErrNotFound)
	if Code(err) != "NOT_FOUND" {
		t.Errorf("expected NOT_FOUND, got %s", Code(err))
	}

	if Kind(nil) != "" || Code(nil) != "" {
		t.Error("nil error should have no classification")
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("phone", "is required")
	if err.Error() != "phone: is required" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, ErrValidation) {
		t.Error("validation error should match ErrValidation")
	}

	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "phone" {
		t.Error("expected errors.As to extract the field")
	}

	if (&ValidationError{Message: "bad input"}).Error() != "bad input" {
		t.Error("field-less validation error should print the message only")
	}
}
