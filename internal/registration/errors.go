package registration

import "errors"

var (
	// ErrEmailTaken indicates the email already has an account.
	ErrEmailTaken = errors.New("email already registered")
	// ErrUserNotFound indicates no account exists for the given identity.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCode covers both never-issued and wrong codes; the two
	// cases are deliberately indistinguishable to callers.
	ErrInvalidCode = errors.New("invalid email or activation code")
	// ErrCodeExpired indicates the presented code outlived its TTL.
	ErrCodeExpired = errors.New("activation code has expired")
	// ErrDuplicateCode indicates a generated code collided with another live code.
	ErrDuplicateCode = errors.New("activation code already in use")
	// ErrCodeExhausted indicates repeated collisions exhausted the retry budget.
	ErrCodeExhausted = errors.New("activation code generation exhausted")
	// ErrAlreadyActive indicates the account needs no further activation.
	ErrAlreadyActive = errors.New("user account is already active")
	// ErrPasswordPolicy indicates the submitted password fails the configured policy.
	ErrPasswordPolicy = errors.New("password does not meet policy")
)
