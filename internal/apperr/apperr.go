package apperr

import "errors"

// ValidationError marks bad or missing request input.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

// Validation builds a ValidationError with a user-facing message.
func Validation(msg string) error {
	return &ValidationError{msg: msg}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var (
	// ErrNotFound covers both "does not exist" and "exists but owned by
	// someone else" so responses never leak row existence.
	ErrNotFound = errors.New("not found or not authorized")

	// ErrLoginRequired signals a request with no resolvable session.
	ErrLoginRequired = errors.New("login required")

	// ErrEmailTaken signals a registration against an existing email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrUnknownEmail and ErrBadCredential are the two distinct login
	// failures. Keeping them separate preserves the original flash
	// messages; note this does reveal account existence.
	ErrUnknownEmail  = errors.New("that email does not exist")
	ErrBadCredential = errors.New("password incorrect")
)
