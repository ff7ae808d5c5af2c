package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"teamdesk/internal/domain/onboarding"
	"teamdesk/internal/domain/user"
	"teamdesk/internal/repository"
	deskerrors "teamdesk/pkg/errors"
	"teamdesk/pkg/logger"

	"github.com/google/uuid"
)

type OnboardingService struct {
	store *repository.Store
	log   *logger.Logger
}

func NewOnboardingService(store *repository.Store, log *logger.Logger) *OnboardingService {
	return &OnboardingService{store: store, log: log}
}

// Start creates the actor's onboarding record, returning the existing one if
// already started. Only clients onboard.
func (s *OnboardingService) Start(ctx context.Context, actorID uuid.UUID) (onboarding.Onboarding, error) {
	profile, err := s.store.Users.GetProfileByUserID(ctx, actorID)
	if err != nil {
		return onboarding.Onboarding{}, err
	}
	if profile.Role != user.RoleClient {
		return onboarding.Onboarding{}, deskerrors.ErrForbidden
	}

	existing, err := s.store.Onboardings.GetByUserID(ctx, actorID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, deskerrors.ErrNotFound) {
		return onboarding.Onboarding{}, err
	}

	o := onboarding.Onboarding{
		ID:          uuid.New(),
		UserID:      actorID,
		CurrentStep: onboarding.StepCompanyName,
		TotalSteps:  onboarding.TotalSteps,
		StartedAt:   time.Now(),
	}
	if err := s.store.Onboardings.Create(ctx, &o); err != nil {
		return onboarding.Onboarding{}, err
	}
	return o, nil
}

// Status returns the actor's onboarding record, if any. Non-clients have none.
func (s *OnboardingService) Status(ctx context.Context, actorID uuid.UUID) (onboarding.Onboarding, error) {
	profile, err := s.store.Users.GetProfileByUserID(ctx, actorID)
	if err != nil {
		return onboarding.Onboarding{}, err
	}
	if profile.Role != user.RoleClient {
		return onboarding.Onboarding{}, deskerrors.ErrNotFound
	}
	return s.store.Onboardings.GetByUserID(ctx, actorID)
}

// UpdateStep stores the submitted payload for a step and advances the flow.
// Completing the final step generates the service recommendations.
func (s *OnboardingService) UpdateStep(ctx context.Context, actorID uuid.UUID, step int, data string) (onboarding.Onboarding, error) {
	if step < 1 || step > onboarding.TotalSteps {
		return onboarding.Onboarding{}, deskerrors.ErrInvalidInput
	}

	o, err := s.store.Onboardings.GetByUserID(ctx, actorID)
	if err != nil {
		return onboarding.Onboarding{}, err
	}

	o.CurrentStep = step
	switch step {
	case onboarding.StepCompanyName:
		o.CompanyName = &data
	case onboarding.StepBusinessProfile:
		o.BusinessProfile = &data
	case onboarding.StepCurrentMarketing:
		o.CurrentMarketing = &data
	case onboarding.StepGoals:
		o.Goals = &data
	case onboarding.StepServicePreferences:
		o.ServicePreferences = &data
	case onboarding.StepFinalSetup:
		o.FinalSetup = &data
		o.IsCompleted = true
		o.CompletedAt = deskerrors.NowPtr()
	}

	err = s.store.WithTx(ctx, func(tx *repository.Store) error {
		if err := tx.Onboardings.Update(ctx, o); err != nil {
			return err
		}
		if step == onboarding.StepFinalSetup {
			return s.generateRecommendation(ctx, tx, o)
		}
		return nil
	})
	if err != nil {
		return onboarding.Onboarding{}, err
	}
	return o, nil
}

// Recommendation returns the actor's generated service recommendation.
func (s *OnboardingService) Recommendation(ctx context.Context, actorID uuid.UUID) (onboarding.Recommendation, error) {
	return s.store.Onboardings.GetRecommendationByUserID(ctx, actorID)
}

func (s *OnboardingService) generateRecommendation(ctx context.Context, tx *repository.Store, o onboarding.Onboarding) error {
	// Step payloads are stored as raw JSON; malformed data degrades to
	// empty answers rather than failing completion.
	var profile onboarding.BusinessProfile
	var marketing onboarding.CurrentMarketing
	var goals onboarding.Goals
	parseStep(o.BusinessProfile, &profile)
	parseStep(o.CurrentMarketing, &marketing)
	parseStep(o.Goals, &goals)

	companyName := ""
	if o.CompanyName != nil {
		companyName = *o.CompanyName
	}

	services := onboarding.RecommendServices(profile, marketing, goals)
	strategy := onboarding.BuildStrategy(companyName, profile)

	servicesJSON, err := json.Marshal(services)
	if err != nil {
		return err
	}
	strategyJSON, err := json.Marshal(strategy)
	if err != nil {
		return err
	}

	rec := onboarding.Recommendation{
		ID:             uuid.New(),
		UserID:         o.UserID,
		OnboardingID:   o.ID,
		Services:       string(servicesJSON),
		CustomStrategy: string(strategyJSON),
		GeneratedAt:    time.Now(),
	}
	return tx.Onboardings.CreateRecommendation(ctx, &rec)
}

func parseStep(raw *string, dst interface{}) {
	if raw == nil {
		return
	}
	_ = json.Unmarshal([]byte(*raw), dst)
}
