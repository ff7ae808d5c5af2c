package user

import (
	"time"

	"github.com/google/uuid"
)

// Platform-wide roles carried on the profile.
const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
	RoleClient   = "client"
)

// Profile statuses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusPending  = "pending"
)

// User represents the users table. Credentials live here; everything
// presentation-facing lives on Profile.
type User struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email           string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash    string     `gorm:"not null" json:"-"`
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`
	CreatedAt       time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// Profile represents the user_profiles table.
type Profile struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;uniqueIndex:idx_profiles_user;not null" json:"user_id"`
	Role       string     `gorm:"not null;index:idx_profiles_role" json:"role"`
	Status     string     `gorm:"not null;default:'pending';index:idx_profiles_status" json:"status"`
	FirstName  string     `gorm:"not null" json:"first_name"`
	LastName   string     `gorm:"not null" json:"last_name"`
	Department *string    `json:"department,omitempty"`
	Phone      *string    `json:"phone,omitempty"`
	AvatarKey  *string    `json:"avatar_key,omitempty"`
	CreatedBy  *uuid.UUID `gorm:"type:uuid" json:"created_by,omitempty"`
	IsOnline   bool       `gorm:"default:false" json:"is_online"`
	LastSeen   *time.Time `json:"last_seen,omitempty"`
	LastLogin  *time.Time `json:"last_login,omitempty"`
	CreatedAt  time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

func (Profile) TableName() string {
	return "user_profiles"
}

// FullName joins first and last name for display purposes.
func (p Profile) FullName() string {
	return p.FirstName + " " + p.LastName
}
