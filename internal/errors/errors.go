// Package errors defines the stable error kinds surfaced to callers.
// Every error carries a machine-readable code and a human message;
// internal detail never leaks past this package.
package errors

import "errors"

// DomainError is a caller-visible error with a stable code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is matches two domain errors by code so wrapped errors compare correctly.
func (e *DomainError) Is(target error) bool {
	var de *DomainError
	if !errors.As(target, &de) {
		return false
	}
	return e.Code == de.Code
}

// CodeOf extracts the stable code from err, or "INTERNAL" if err is not
// a DomainError.
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return "INTERNAL"
}
