package httpdto

import "time"

type UserProfile struct {
	UserID     string     `json:"user_id"`
	Email      string     `json:"email,omitempty"`
	Role       string     `json:"role"`
	Status     string     `json:"status"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	Department *string    `json:"department,omitempty"`
	Phone      *string    `json:"phone,omitempty"`
	AvatarKey  *string    `json:"avatar_key,omitempty"`
	IsOnline   bool       `json:"is_online"`
	LastSeen   *time.Time `json:"last_seen,omitempty"`
}

type SetOnlineStatusRequest struct {
	IsOnline bool `json:"is_online"`
}

type SetProfileStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
