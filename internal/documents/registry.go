package documents

import (
	"context"
	"errors"
	"time"

	"github.com/sgvr/sgvr/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrNotFound indicates no document row matches the lookup.
var ErrNotFound = errors.New("documents: not found")

// lookupTimeout bounds registry database lookups.
const lookupTimeout = 3 * time.Second

// Registry resolves document ids and scoped tokens to document records.
type Registry struct {
	db *gorm.DB
}

// NewRegistry constructs a document registry.
func NewRegistry(db *gorm.DB) *Registry {
	return &Registry{db: db}
}

// FindByID loads a document by primary key. Database faults are absorbed
// into ErrNotFound after logging; the request path never blocks on or
// propagates a backend fault.
func (r *Registry) FindByID(ctx context.Context, id uint64) (*models.Document, error) {
	if r == nil || r.db == nil || id == 0 {
		return nil, ErrNotFound
	}

	lookupCtx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	var document models.Document
	errFind := r.db.WithContext(lookupCtx).First(&document, id).Error
	switch {
	case errFind == nil:
		return &document, nil
	case errors.Is(errFind, gorm.ErrRecordNotFound):
		return nil, ErrNotFound
	default:
		log.WithError(errFind).Debug("document lookup failed")
		return nil, ErrNotFound
	}
}

// FindByToken loads a document by its scoped viewing token. Empty tokens
// never match; the comparison is exact and case-sensitive.
func (r *Registry) FindByToken(ctx context.Context, token string) (*models.Document, error) {
	if r == nil || r.db == nil || token == "" {
		return nil, ErrNotFound
	}

	lookupCtx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	var document models.Document
	errFind := r.db.WithContext(lookupCtx).
		Where("access_token = ?", token).
		First(&document).Error
	switch {
	case errFind == nil:
		return &document, nil
	case errors.Is(errFind, gorm.ErrRecordNotFound):
		return nil, ErrNotFound
	default:
		log.WithError(errFind).Debug("document lookup failed")
		return nil, ErrNotFound
	}
}
