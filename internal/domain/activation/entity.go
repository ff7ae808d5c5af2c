package activation

import (
	"time"

	"github.com/google/uuid"
)

// Token represents the activation_tokens table. Tokens are single-use and
// expire; invalidation flips Used rather than deleting the row.
type Token struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"not null;index:idx_activation_tokens_email" json:"email"`
	Token     string    `gorm:"not null;uniqueIndex:idx_activation_tokens_token" json:"token"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Used      bool      `gorm:"default:false;not null" json:"used"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Token) TableName() string {
	return "activation_tokens"
}

// Expired reports whether the token's validity window has passed.
func (t Token) Expired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}
