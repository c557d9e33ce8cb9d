package auth

import (
	"context"
	"net/http"

	"github.com/sgvr/sgvr/internal/models"
	log "github.com/sirupsen/logrus"
)

// Authenticator turns inbound request headers into a principal.
type Authenticator struct {
	store *CredentialStore

	// quiet disables diagnostic logging entirely (production mode).
	quiet bool
}

// NewAuthenticator constructs an authenticator over the credential store.
func NewAuthenticator(store *CredentialStore, quiet bool) *Authenticator {
	return &Authenticator{store: store, quiet: quiet}
}

// Authenticate extracts a token from the headers and resolves it to an
// active user. Returns ErrNoCredentials when no token is present and
// ErrInvalidCredential when the token resolves to nothing; the latter never
// distinguishes malformed, unknown or disabled credentials.
func (a *Authenticator) Authenticate(ctx context.Context, headers http.Header) (*models.User, error) {
	if a == nil || a.store == nil {
		return nil, ErrInvalidCredential
	}

	token, found := ExtractToken(headers)
	if !found {
		if !a.quiet {
			log.WithField("headers", ObservedHeaderNames(headers)).Debug("request carried no credentials")
		}
		return nil, ErrNoCredentials
	}

	user, errFind := a.store.FindByToken(ctx, token)
	if errFind != nil {
		if !a.quiet {
			// Presence only. The token value itself is never logged.
			log.WithField("headers", ObservedHeaderNames(headers)).Debug("presented credential did not resolve")
		}
		return nil, errFind
	}

	if !a.quiet {
		log.WithField("user_id", user.ID).Debug("request authenticated")
	}
	return user, nil
}
