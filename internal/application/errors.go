package application

import "errors"

// Outcome kinds resolved at the service boundary. Handlers map these to
// HTTP statuses. Storage failures that are not a missing row stay as the
// repository's error and surface as internal errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrSuperuserDelete    = errors.New("cannot delete superuser accounts")

	ErrPokemonNotFound  = errors.New("pokemon not found")
	ErrPokemonDuplicate = errors.New("pokemon already in collection")
)
