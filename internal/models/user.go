package models

import (
	"time"

	"gorm.io/datatypes"
)

// Authority tiers stored in users.nivel_acesso. Legacy rows mix Portuguese
// and English spellings for the top tier; both are listed here and callers
// must treat them as the same tier.
const (
	// NivelAdministrador is the top authority tier.
	NivelAdministrador = "Administrador"
	// NivelAdministradorLegacy is the English spelling found on older rows.
	NivelAdministradorLegacy = "Administrator"
	// NivelAnalista is the analyst tier.
	NivelAnalista = "Analista"
	// NivelOperador is the operator tier.
	NivelOperador = "Operador"
	// NivelVisualizador is the read-only tier.
	NivelVisualizador = "Visualizador"
)

// StatusActive is the only user status allowed to authenticate.
const StatusActive = "active"

// User represents an application account stored in the database.
type User struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Username string `gorm:"type:text;not null;uniqueIndex"` // Unique login name.
	Name     string `gorm:"type:text;not null"`             // Display name.
	Email    string `gorm:"type:text"`                      // Contact e-mail.
	Password string `gorm:"type:text;not null"`             // Hashed password.

	NivelAcesso string `gorm:"type:text;not null;default:'Visualizador'"` // Authority tier.
	Status      string `gorm:"type:text;not null;default:'active'"`       // Account status; only "active" may authenticate.

	APIToken *string `gorm:"type:text;uniqueIndex"` // Current primary token; nil until first issuance.

	Permissions datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'"` // Permission keys in JSON.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// IsAdministrator reports whether the user's authority tier grants blanket
// access, accepting both historical spellings.
func (u *User) IsAdministrator() bool {
	return u.NivelAcesso == NivelAdministrador || u.NivelAcesso == NivelAdministradorLegacy
}

// IsActive reports whether the account may authenticate.
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}
