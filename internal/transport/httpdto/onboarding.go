package httpdto

type UpdateOnboardingStepRequest struct {
	Step int    `json:"step" binding:"required"`
	Data string `json:"data" binding:"required"`
}
