package models

import "time"

// Document represents a protected PDF attached to a record. The access token
// grants viewing access to this one document without exposing any user
// credential; legacy rows are backfilled by the provisioning pass.
type Document struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	RecordID uint64 `gorm:"not null;index"` // Owning record ID.

	Description string `gorm:"type:text;not null"` // Display name, used as the download filename.
	FilePath    string `gorm:"type:text;not null"` // Storage path relative to the upload root.

	AccessToken *string `gorm:"type:text;uniqueIndex"` // Scoped viewing token; nil until provisioned.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// HasAccessToken reports whether a scoped token has been provisioned.
func (d *Document) HasAccessToken() bool {
	return d.AccessToken != nil && *d.AccessToken != ""
}
