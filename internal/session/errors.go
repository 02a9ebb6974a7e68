package session

import (
	"errors"
)

var (
	ErrMissingCredentials = errors.New("username and password are required")
	ErrLoginFailed        = errors.New("login failed")
)

const badCredentials = "wrong username or password"

// LoginError is returned by Login for any remote failure. Transport errors
// and rejections are reported the same way, with a contact link as the
// way to recover access.
type LoginError struct {
	Err        error
	ContactURL string
}

func (e *LoginError) Error() string {
	return "login failed: " + badCredentials
}

func (e *LoginError) Unwrap() []error {
	return []error{ErrLoginFailed, e.Err}
}
