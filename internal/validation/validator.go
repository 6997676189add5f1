// Package validation provides a small aggregating validator: checks record
// every failing rule instead of stopping at the first one.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Validator collects field errors across checks.
type Validator struct {
	Errors map[string]string
}

// New creates a new validator.
func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

// Valid checks if there are any validation errors.
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError adds an error to the validator. The first error per field wins.
func (v *Validator) AddError(field, message string) {
	if _, exists := v.Errors[field]; !exists {
		v.Errors[field] = message
	}
}

// Check adds an error if the condition is false.
func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

// Required checks that a string is not blank.
func (v *Validator) Required(field, value string) {
	v.Check(strings.TrimSpace(value) != "", field, "must not be empty")
}

// Email validates email format.
func (v *Validator) Email(field, email string) {
	v.Check(emailRegex.MatchString(email), field, "must be a valid email address")
}

// Digits checks that a string consists only of decimal digits.
func (v *Validator) Digits(field, value string) {
	for _, r := range value {
		if !unicode.IsDigit(r) {
			v.AddError(field, "must contain only digits")
			return
		}
	}
	v.Check(value != "", field, "must contain only digits")
}

// NoDigits checks that a string contains no decimal digits.
func (v *Validator) NoDigits(field, value string) {
	for _, r := range value {
		if unicode.IsDigit(r) {
			v.AddError(field, "must not contain digits")
			return
		}
	}
}

// Length checks that a string has exactly one of the given lengths.
func (v *Validator) Length(field, value string, lengths ...int) {
	for _, n := range lengths {
		if len(value) == n {
			return
		}
	}
	v.AddError(field, fmt.Sprintf("must be %v characters long", lengths))
}

// Future checks that t lies at least minRemaining after now.
func (v *Validator) Future(field string, t time.Time, minRemaining time.Duration) {
	v.Check(time.Until(t) > minRemaining, field, "expires too soon")
}

// Error implements the error interface so a failed validator can be
// returned directly.
func (v *Validator) Error() string {
	parts := make([]string, 0, len(v.Errors))
	for field, msg := range v.Errors {
		parts = append(parts, field+": "+msg)
	}
	return strings.Join(parts, "; ")
}
