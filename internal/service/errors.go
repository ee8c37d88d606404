// Package service contains the business logic for registration,
// authentication, identity resolution, and contact management.
package service

// ErrorKind classifies a business error for transport mapping. Anything
// that is not one of these kinds is a service fault and surfaces as a
// 5xx-class response.
type ErrorKind int

const (
	// KindUnauthorized covers invalid or expired session tokens, bad
	// credentials, and unconfirmed logins.
	KindUnauthorized ErrorKind = iota
	// KindConflict covers uniqueness violations on registration.
	KindConflict
	// KindBadRequest covers confirmation tokens that decode but
	// reference an unknown identity.
	KindBadRequest
	// KindNotFound covers missing or foreign-owned contacts.
	KindNotFound
	// KindUnprocessable covers malformed or expired confirmation
	// tokens, distinct from a bad session.
	KindUnprocessable
)

// Error is a business error with a stable, machine-checkable message.
// The exact message text is part of the API contract.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Stable business errors. Login failures for unknown usernames and wrong
// passwords share one message so responses do not leak which part was
// wrong.
var (
	ErrCouldNotValidate  = &Error{Kind: KindUnauthorized, Message: "Could not validate credentials"}
	ErrBadCredentials    = &Error{Kind: KindUnauthorized, Message: "Incorrect login or password"}
	ErrEmailNotConfirmed = &Error{Kind: KindUnauthorized, Message: "Email address not confirmed"}

	ErrEmailTaken    = &Error{Kind: KindConflict, Message: "User with such email already exists"}
	ErrUsernameTaken = &Error{Kind: KindConflict, Message: "User with this name already exists"}

	ErrVerification      = &Error{Kind: KindBadRequest, Message: "Verification error"}
	ErrConfirmationToken = &Error{Kind: KindUnprocessable, Message: "Invalid email verification token"}

	ErrContactNotFound = &Error{Kind: KindNotFound, Message: "Not found"}
)
