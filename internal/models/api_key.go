package models

import (
	"time"

	"github.com/lib/pq"
)

// APIKey is a scoped machine credential. Only the SHA-256 digest of the
// secret is stored; Prefix is the first characters of the secret and is what
// lookups key on. A revoked key keeps its row for audit.
type APIKey struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	UserID      uint           `gorm:"index;not null" json:"user_id"`
	User        *User          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Label       string         `gorm:"not null" json:"label"`
	Prefix      string         `gorm:"uniqueIndex;not null" json:"prefix"`
	KeyHash     string         `gorm:"not null" json:"-"`
	Permissions pq.StringArray `gorm:"type:text[]" json:"permissions"`
	LastUsedAt  *time.Time     `json:"last_used_at,omitempty"`
	RevokedAt   *time.Time     `json:"revoked_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Active reports whether the key may still authenticate requests.
func (k *APIKey) Active() bool {
	return k.RevokedAt == nil
}
