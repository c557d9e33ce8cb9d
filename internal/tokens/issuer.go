package tokens

import (
	"context"
	"errors"
	"fmt"

	"github.com/sgvr/sgvr/internal/auth"
	"github.com/sgvr/sgvr/internal/models"
	"github.com/sgvr/sgvr/internal/security"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrNotFound indicates the target user or document row does not exist.
var ErrNotFound = errors.New("tokens: record not found")

// Issuer creates and persists primary and document-scoped access tokens.
type Issuer struct {
	db    *gorm.DB
	cache *auth.CredentialCache
}

// NewIssuer constructs a token issuer. cache may be nil.
func NewIssuer(db *gorm.DB, cache *auth.CredentialCache) *Issuer {
	return &Issuer{db: db, cache: cache}
}

// IssuePrimaryToken generates a fresh primary token for the user and
// persists it with a single update keyed by user id, replacing any prior
// value. The replaced token stops resolving immediately; concurrent
// re-issuance cannot interleave within the one-statement update, so the
// persisted token always matches exactly one returned value.
func (i *Issuer) IssuePrimaryToken(ctx context.Context, userID uint64) (string, error) {
	if i == nil || i.db == nil {
		return "", fmt.Errorf("tokens: nil issuer")
	}

	var previous struct {
		APIToken *string
	}
	if errFind := i.db.WithContext(ctx).
		Model(&models.User{}).
		Select("api_token").
		Where("id = ?", userID).
		Take(&previous).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("tokens: load user: %w", errFind)
	}

	token, errGenerate := security.GenerateAccessToken()
	if errGenerate != nil {
		return "", errGenerate
	}

	result := i.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("api_token", token)
	if result.Error != nil {
		return "", fmt.Errorf("tokens: persist primary token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return "", ErrNotFound
	}

	if previous.APIToken != nil {
		i.cache.Invalidate(ctx, *previous.APIToken, token)
	} else {
		i.cache.Invalidate(ctx, token)
	}

	log.WithField("user_id", userID).
		WithField("token", security.HideToken(token)).
		Debug("primary token rotated")
	return token, nil
}

// IssueDocumentToken provisions a scoped viewing token for a document. The
// update is guarded so a document that already carries a token keeps it;
// re-running provisioning never rotates a link already handed out. The
// returned bool reports whether a new token was written.
func (i *Issuer) IssueDocumentToken(ctx context.Context, documentID uint64) (string, bool, error) {
	if i == nil || i.db == nil {
		return "", false, fmt.Errorf("tokens: nil issuer")
	}

	token, errGenerate := security.GenerateAccessToken()
	if errGenerate != nil {
		return "", false, errGenerate
	}

	result := i.db.WithContext(ctx).
		Model(&models.Document{}).
		Where("id = ?", documentID).
		Where("access_token IS NULL OR access_token = ''").
		Update("access_token", token)
	if result.Error != nil {
		return "", false, fmt.Errorf("tokens: persist document token: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return token, true, nil
	}

	// Nothing written: either the row is absent or it already has a token.
	var document models.Document
	errFind := i.db.WithContext(ctx).
		Select("id", "access_token").
		First(&document, documentID).Error
	switch {
	case errors.Is(errFind, gorm.ErrRecordNotFound):
		return "", false, ErrNotFound
	case errFind != nil:
		return "", false, fmt.Errorf("tokens: load document: %w", errFind)
	case document.HasAccessToken():
		return *document.AccessToken, false, nil
	default:
		return "", false, fmt.Errorf("tokens: document %d token not persisted", documentID)
	}
}
