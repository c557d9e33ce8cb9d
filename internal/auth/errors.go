package auth

import "errors"

// Authentication errors surfaced to transport middleware. Unknown, malformed
// and disabled-account tokens all map to ErrInvalidCredential so callers
// cannot probe which tokens exist.
var (
	// ErrNoCredentials indicates the request carried no recognized token.
	ErrNoCredentials = errors.New("no credentials")
	// ErrInvalidCredential indicates the token resolved to no active user.
	ErrInvalidCredential = errors.New("invalid credential")
)
