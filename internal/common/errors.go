package common

import "errors"

var (
	ErrorNotFound = errors.New("not found")

	// ErrInvalidToken is returned for an empty or malformed token.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired signals that the session token is no longer accepted.
	ErrTokenExpired = errors.New("token expired")
)

// ErrNoSession is returned by the session store when no token is held.
var ErrNoSession = errors.New("no active session")
