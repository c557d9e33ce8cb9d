package models

import "time"

// RoleAdministrador is the role name that grants blanket access when
// assigned, independent of the user's authority tier.
const RoleAdministrador = "Administrador"

// UserPrincipalTypes lists the textual variants under which historical
// role-assignment rows stored the user principal type. All three refer to
// the same conceptual type and must be matched as equivalent.
var UserPrincipalTypes = []string{`App\Models\User`, `App\User`, "user"}

// Role represents a named role users can be assigned to.
type Role struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Name string `gorm:"type:text;not null;uniqueIndex"` // Role name.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// RoleAssignment links a principal to a role. The principal type
// discriminator is free text for compatibility with legacy rows.
type RoleAssignment struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	RoleID uint64 `gorm:"not null;index"`    // Assigned role ID.
	Role   *Role  `gorm:"foreignKey:RoleID"` // Associated role record.

	PrincipalID   uint64 `gorm:"not null;index"`     // Principal (user) ID.
	PrincipalType string `gorm:"type:text;not null"` // Principal type discriminator; see UserPrincipalTypes.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
}
