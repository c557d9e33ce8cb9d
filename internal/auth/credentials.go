package auth

import (
	"context"
	"errors"
	"time"

	"github.com/sgvr/sgvr/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// lookupTimeout bounds every credential database lookup.
const lookupTimeout = 3 * time.Second

// CredentialStore resolves opaque tokens and login names to active users.
// It is read-only on the request path; inactive and missing users are both
// reported as ErrInvalidCredential.
type CredentialStore struct {
	db    *gorm.DB
	cache *CredentialCache
}

// NewCredentialStore constructs a credential store. cache may be nil.
func NewCredentialStore(db *gorm.DB, cache *CredentialCache) *CredentialStore {
	return &CredentialStore{db: db, cache: cache}
}

// FindByToken resolves a primary token to its active user. The match is
// exact and case-sensitive. Database faults are absorbed into
// ErrInvalidCredential so a degraded backend reads as "no such token".
func (s *CredentialStore) FindByToken(ctx context.Context, token string) (*models.User, error) {
	if s == nil || s.db == nil || token == "" {
		return nil, ErrInvalidCredential
	}

	if cached := s.cache.Get(ctx, token); cached != nil {
		return cached, nil
	}

	lookupCtx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	var user models.User
	errFind := s.db.WithContext(lookupCtx).
		Where("api_token = ? AND status = ?", token, models.StatusActive).
		First(&user).Error
	switch {
	case errFind == nil:
	case errors.Is(errFind, gorm.ErrRecordNotFound):
		return nil, ErrInvalidCredential
	default:
		log.WithError(errFind).Debug("credential lookup failed")
		return nil, ErrInvalidCredential
	}

	s.cache.Set(ctx, token, &user)
	return &user, nil
}

// FindByUsername resolves a login name to its active user.
func (s *CredentialStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if s == nil || s.db == nil || username == "" {
		return nil, ErrInvalidCredential
	}

	lookupCtx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	var user models.User
	errFind := s.db.WithContext(lookupCtx).
		Where("username = ? AND status = ?", username, models.StatusActive).
		First(&user).Error
	switch {
	case errFind == nil:
		return &user, nil
	case errors.Is(errFind, gorm.ErrRecordNotFound):
		return nil, ErrInvalidCredential
	default:
		log.WithError(errFind).Debug("credential lookup failed")
		return nil, ErrInvalidCredential
	}
}

// Cache exposes the underlying cache for token-rotation invalidation.
func (s *CredentialStore) Cache() *CredentialCache {
	if s == nil {
		return nil
	}
	return s.cache
}
