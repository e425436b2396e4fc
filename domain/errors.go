package domain

import (
	"errors"
	"fmt"
)

// Validation errors
var (
	ErrValidation = errors.New("validation failed")
)

// Credential errors
var (
	ErrCredentialMissing = errors.New("credential missing")
	ErrCredentialInvalid = errors.New("credential invalid")
	ErrCredentialExpired = errors.New("credential expired")
	ErrCredentialRevoked = errors.New("credential revoked")
	ErrSubjectNotFound   = errors.New("credential subject not found")
)

// Authentication errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("user already exists")
)

// Authorization errors
var (
	ErrForbidden   = errors.New("insufficient role permissions")
	ErrNotEnrolled = errors.New("not enrolled in course")
)

// Enrollment errors
var (
	ErrNotFound          = errors.New("enrollment not found")
	ErrAlreadyApproved   = errors.New("enrollment already approved")
	ErrCourseNotAssigned = errors.New("enrollment has no course assigned")
	ErrInvalidState      = errors.New("enrollment is not in a valid state for this operation")
)

// Course access token errors
var (
	ErrTokenNotFound      = errors.New("access token not found")
	ErrTokenExpired       = errors.New("access token has expired")
	ErrTokenRevoked       = errors.New("access token has been revoked")
	ErrAlreadyInitialized = errors.New("password already set for this access token")
)

// Upstream marks failures of the store or other collaborators
var ErrUpstream = errors.New("upstream failure")

// ValidationError describes a user-correctable input problem
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap lets errors.Is(err, ErrValidation) match
func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError builds a ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// Upstream wraps err as an upstream failure with context
func Upstream(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUpstream, err)
}

// ErrorKind is the coarse category used to pick a transport status
type ErrorKind string

const (
	KindValidation     ErrorKind = "validation"
	KindAuthentication ErrorKind = "authentication"
	KindAuthorization  ErrorKind = "authorization"
	KindStateConflict  ErrorKind = "state_conflict"
	KindNotFound       ErrorKind = "not_found"
	KindUpstream       ErrorKind = "upstream"
	KindInternal       ErrorKind = "internal"
)

type classified struct {
	err  error
	kind ErrorKind
	code string
}

// ordered: the first match wins, so specific errors come before ErrUpstream
var taxonomy = []classified{
	{ErrValidation, KindValidation, "VALIDATION_ERROR"},

	{ErrCredentialMissing, KindAuthentication, "CREDENTIAL_MISSING"},
	{ErrCredentialInvalid, KindAuthentication, "CREDENTIAL_INVALID"},
	{ErrCredentialExpired, KindAuthentication, "CREDENTIAL_EXPIRED"},
	{ErrCredentialRevoked, KindAuthentication, "CREDENTIAL_REVOKED"},
	{ErrSubjectNotFound, KindAuthentication, "SUBJECT_NOT_FOUND"},
	{ErrInvalidCredentials, KindAuthentication, "INVALID_CREDENTIALS"},

	{ErrForbidden, KindAuthorization, "FORBIDDEN"},
	{ErrNotEnrolled, KindAuthorization, "NOT_ENROLLED"},
	{ErrTokenExpired, KindAuthorization, "TOKEN_EXPIRED"},
	{ErrTokenRevoked, KindAuthorization, "TOKEN_REVOKED"},

	{ErrAlreadyApproved, KindStateConflict, "ALREADY_APPROVED"},
	{ErrCourseNotAssigned, KindStateConflict, "COURSE_NOT_ASSIGNED"},
	{ErrInvalidState, KindStateConflict, "INVALID_STATE"},
	{ErrAlreadyInitialized, KindStateConflict, "ALREADY_INITIALIZED"},
	{ErrUserAlreadyExists, KindStateConflict, "USER_ALREADY_EXISTS"},

	{ErrNotFound, KindNotFound, "NOT_FOUND"},
	{ErrTokenNotFound, KindNotFound, "TOKEN_NOT_FOUND"},
	{ErrUserNotFound, KindNotFound, "USER_NOT_FOUND"},

	{ErrUpstream, KindUpstream, "UPSTREAM_FAILURE"},
}

func classify(err error) (ErrorKind, string) {
	if err == nil {
		return "", ""
	}
	for _, c := range taxonomy {
		if errors.Is(err, c.err) {
			return c.kind, c.code
		}
	}
	return KindInternal, "INTERNAL_ERROR"
}

// Kind returns the taxonomy category of err
func Kind(err error) ErrorKind {
	k, _ := classify(err)
	return k
}

// Code returns the stable machine-readable code of err
func Code(err error) string {
	_, c := classify(err)
	return c
}
