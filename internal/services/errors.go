package services

import "errors"

var (
	// ErrInvalidCredentials is returned by Login for an unknown email and for a
	// wrong password alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserExists is returned by Signup when the email is already registered.
	ErrUserExists = errors.New("user already exists")
)
