package services

import "errors"

// Kind is the closed set of failure categories a service operation can
// report. Controllers map kinds to HTTP statuses; messages stay short and
// generic so responses never leak driver errors or reveal which part of a
// credential was wrong.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFoundOrExpired
	KindConflict
	KindUnverified
	KindPersistence
	KindDelivery
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func wrapError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// persistence wraps a raw driver error so it never reaches a response body.
func persistence(err error) *Error {
	return wrapError(KindPersistence, "Something went wrong. Please try again.", err)
}

// KindOf extracts the failure kind from a service error. Unknown errors are
// treated as persistence failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindPersistence
}

// MessageOf returns the user-facing message of a service error.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Something went wrong. Please try again."
}
