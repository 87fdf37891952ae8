package main

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// store errors
	ErrNotFound = errors.New("not found")

	// auth errors
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrPasswordTooLong    = errors.New("password too long")

	// request validation errors
	ErrMissingData          = errors.New("missing required data")
	ErrMismatchedRecipients = errors.New("friends and friendEmails differ in length")

	ErrUnsupportedSharesVersion = errors.New("unsupported distribution encoding version")
)

type DeliveryFailure struct {
	Friend string
	Email  string
	Err    error
}

// DeliveryError reports every recipient whose email could not be sent.
type DeliveryError struct {
	Failures []DeliveryFailure
}

func (e *DeliveryError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s <%s>: %v", f.Friend, f.Email, f.Err))
	}
	return fmt.Sprintf("failed to deliver %d email(s): %s", len(e.Failures), strings.Join(parts, "; "))
}

func (e *DeliveryError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}
