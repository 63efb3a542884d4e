package commonerrors

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error independently of any transport status.
// The HTTP boundary owns the mapping from kinds to response codes.
type Kind string

const (
	KindValidation   Kind = "VALIDATION"
	KindNotFound     Kind = "NOT_FOUND"
	KindConflict     Kind = "CONFLICT"
	KindState        Kind = "STATE"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindConsistency  Kind = "CONSISTENCY"
	KindInternal     Kind = "INTERNAL"
)

type DomainError interface {
	error
	Code() string
	Kind() Kind
	Message() string
	Unwrap() error
	WithCause(cause error) DomainError
}

type domainError struct {
	code    string
	kind    Kind
	message string
	cause   error
}

func (e *domainError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *domainError) Code() string {
	return e.code
}

func (e *domainError) Kind() Kind {
	return e.kind
}

func (e *domainError) Message() string {
	return e.message
}

func (e *domainError) Unwrap() error {
	return e.cause
}

func (e *domainError) WithCause(cause error) DomainError {
	return &domainError{
		code:    e.code,
		kind:    e.kind,
		message: e.message,
		cause:   cause,
	}
}

// Is matches by code, so a sentinel wrapped via WithCause still satisfies
// errors.Is against the bare sentinel.
func (e *domainError) Is(target error) bool {
	var de DomainError
	if errors.As(target, &de) {
		return e.code == de.Code()
	}
	return false
}

func NewDomainError(code string, kind Kind, message string) DomainError {
	return &domainError{
		code:    code,
		kind:    kind,
		message: message,
	}
}

func AsDomainError(err error) (DomainError, bool) {
	var de DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// KindOf returns the kind of err, or KindInternal for anything that is not
// a DomainError.
func KindOf(err error) Kind {
	if de, ok := AsDomainError(err); ok {
		return de.Kind()
	}
	return KindInternal
}
