package domain

import "errors"

// Error taxonomy shared by services and handlers. Handlers map these to HTTP
// statuses; anything unrecognized becomes a 500 with a generic message so
// storage and hashing internals never reach the client.
var (
	ErrValidation         = errors.New("invalid input")             // 400
	ErrInvalidCredentials = errors.New("invalid credentials")       // 401
	ErrUnauthorized       = errors.New("unauthorized")              // 401, clears session cookie
	ErrForbidden          = errors.New("forbidden")                 // 403
	ErrNotFound           = errors.New("not found")                 // 404
	ErrEmailTaken         = errors.New("email already registered")  // 409
	ErrAccountLocked      = errors.New("account temporarily locked") // 423
)
