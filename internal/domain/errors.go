package domain

import "errors"

var (
	// ErrNotFound signals that the requested entity does not exist or is not
	// visible to the caller.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateName signals a per-owner unique name collision.
	ErrDuplicateName = errors.New("name already exists")
	// ErrInvalidCredentials signals a failed username/password check. It is
	// deliberately indistinguishable between unknown user and wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrForbidden signals that the entity exists but belongs to another user.
	ErrForbidden = errors.New("forbidden")
)
