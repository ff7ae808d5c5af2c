package onboarding

import (
	"time"

	"github.com/google/uuid"
)

// TotalSteps is the number of steps in the client onboarding flow.
const TotalSteps = 6

// Step numbers and the field each one fills.
const (
	StepCompanyName        = 1
	StepBusinessProfile    = 2
	StepCurrentMarketing   = 3
	StepGoals              = 4
	StepServicePreferences = 5
	StepFinalSetup         = 6
)

// Onboarding represents the client_onboardings table. Step payloads beyond the
// company name are stored as raw JSON strings, exactly as submitted.
type Onboarding struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             uuid.UUID  `gorm:"type:uuid;uniqueIndex:idx_onboardings_user;not null" json:"user_id"`
	CurrentStep        int        `gorm:"not null;default:1" json:"current_step"`
	TotalSteps         int        `gorm:"not null" json:"total_steps"`
	IsCompleted        bool       `gorm:"default:false;not null;index:idx_onboardings_completed" json:"is_completed"`
	StartedAt          time.Time  `gorm:"not null" json:"started_at"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	CompanyName        *string    `json:"company_name,omitempty"`
	BusinessProfile    *string    `json:"business_profile,omitempty"`
	CurrentMarketing   *string    `json:"current_marketing,omitempty"`
	Goals              *string    `json:"goals,omitempty"`
	ServicePreferences *string    `json:"service_preferences,omitempty"`
	FinalSetup         *string    `json:"final_setup,omitempty"`
}

// Recommendation represents the service_recommendations table. The generated
// service list and strategy are stored as JSON documents.
type Recommendation struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index:idx_recommendations_user" json:"user_id"`
	OnboardingID   uuid.UUID `gorm:"type:uuid;not null;index:idx_recommendations_onboarding" json:"onboarding_id"`
	Services       string    `gorm:"not null" json:"services"`
	CustomStrategy string    `gorm:"not null" json:"custom_strategy"`
	GeneratedAt    time.Time `gorm:"not null" json:"generated_at"`
}

func (Onboarding) TableName() string {
	return "client_onboardings"
}

func (Recommendation) TableName() string {
	return "service_recommendations"
}
