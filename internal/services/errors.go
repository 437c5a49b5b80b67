package services

import "errors"

// Kind classifies an operation failure. The set is closed; anything that is
// not an *Error is KindInternal.
type Kind uint8

const (
	KindInternal Kind = iota
	KindInvalidInput
	KindConflict
	KindInvalidCredentials
	KindInvalidOrExpired
	KindNotFound
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindConflict:
		return "conflict"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindInvalidOrExpired:
		return "invalid_or_expired"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// Error is a domain failure with a message that is safe to show to clients.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

var (
	ErrMissingFields      = &Error{Kind: KindInvalidInput, Message: "All fields are required"}
	ErrEmailExists        = &Error{Kind: KindConflict, Message: "User already exists"}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials, Message: "Invalid credentials"}
	ErrInvalidCode        = &Error{Kind: KindInvalidOrExpired, Message: "Invalid or expired verification code"}
	ErrInvalidResetToken  = &Error{Kind: KindInvalidOrExpired, Message: "Invalid or expired reset token"}
	ErrAccountNotFound    = &Error{Kind: KindNotFound, Message: "User not found"}
	ErrUnauthorized       = &Error{Kind: KindUnauthorized, Message: "Unauthorized"}
)

// KindOf classifies err. nil has no kind and reports KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func invalidInput(msg string) *Error {
	return &Error{Kind: KindInvalidInput, Message: msg}
}
