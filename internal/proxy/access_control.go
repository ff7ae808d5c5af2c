package proxy

import (
	"context"

	"teamdesk/internal/repository"
	deskerrors "teamdesk/pkg/errors"

	"github.com/google/uuid"
)

// AccessControl centralizes the membership checks every chat operation runs
// before touching data.
type AccessControl struct {
	conversationRepo repository.ConversationRepository
	userRepo         repository.UserRepository
}

func NewAccessControl(conversationRepo repository.ConversationRepository, userRepo repository.UserRepository) *AccessControl {
	return &AccessControl{conversationRepo: conversationRepo, userRepo: userRepo}
}

func (a *AccessControl) CanViewConversation(ctx context.Context, userID, conversationID uuid.UUID) error {
	return a.ensureActiveParticipant(ctx, conversationID, userID)
}

func (a *AccessControl) CanSendMessage(ctx context.Context, userID, conversationID uuid.UUID) error {
	return a.ensureActiveParticipant(ctx, conversationID, userID)
}

// RequireAdmin checks the caller's platform-wide role.
func (a *AccessControl) RequireAdmin(ctx context.Context, userID uuid.UUID) error {
	if a.userRepo == nil {
		return deskerrors.ErrForbidden
	}
	profile, err := a.userRepo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return deskerrors.ErrForbidden
	}
	if profile.Role != "admin" {
		return deskerrors.ErrForbidden
	}
	return nil
}

func (a *AccessControl) ensureActiveParticipant(ctx context.Context, conversationID, userID uuid.UUID) error {
	if a.conversationRepo == nil {
		return deskerrors.ErrForbidden
	}
	ok, err := a.conversationRepo.IsActiveParticipant(ctx, conversationID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return deskerrors.ErrForbidden
	}
	return nil
}
