package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"teamdesk/internal/config"
	"teamdesk/internal/domain/activation"
	"teamdesk/internal/domain/user"
	"teamdesk/internal/repository"
	deskerrors "teamdesk/pkg/errors"
	"teamdesk/pkg/logger"

	"github.com/google/uuid"
)

// Mailer delivers activation emails. The production wiring can swap in a real
// provider; LogMailer is the default.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogMailer writes outgoing mail to the log instead of sending it.
type LogMailer struct {
	log *logger.Logger
}

func NewLogMailer(log *logger.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	m.log.InfoCtx(ctx, fmt.Sprintf("mail to=%s subject=%q body=%q", to, subject, body))
	return nil
}

type ActivationService struct {
	store  *repository.Store
	cfg    config.EmailConfig
	mailer Mailer
	log    *logger.Logger
}

func NewActivationService(store *repository.Store, cfg config.EmailConfig, mailer Mailer, log *logger.Logger) *ActivationService {
	return &ActivationService{store: store, cfg: cfg, mailer: mailer, log: log}
}

// Issue invalidates any outstanding tokens for the address and emails a
// fresh one.
func (s *ActivationService) Issue(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return deskerrors.ErrInvalidInput
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return err
	}
	token := activation.Token{
		ID:        uuid.New(),
		Email:     email,
		Token:     hex.EncodeToString(raw),
		ExpiresAt: time.Now().Add(s.cfg.ActivationTTL),
		CreatedAt: time.Now(),
	}

	err := s.store.WithTx(ctx, func(tx *repository.Store) error {
		if _, err := tx.Activations.InvalidateForEmail(ctx, email); err != nil {
			return err
		}
		return tx.Activations.Create(ctx, &token)
	})
	if err != nil {
		return err
	}

	link := s.cfg.ActivationBaseURL + "?token=" + token.Token
	body := "Activate your account: " + link
	if err := s.mailer.Send(ctx, email, "Activate your TeamDesk account", body); err != nil {
		s.log.ErrorCtx(ctx, "failed to send activation email: "+err.Error())
		return err
	}
	return nil
}

// Resend issues a fresh token for an unverified account, invalidating any
// outstanding ones. Verified accounts get ErrInvalidOperation.
func (s *ActivationService) Resend(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.store.Users.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u.EmailVerifiedAt != nil {
		return deskerrors.ErrInvalidOperation
	}
	return s.Issue(ctx, email)
}

// Activate consumes a token, verifies the account's email, and moves a
// pending profile to active. Tokens are single-use.
func (s *ActivationService) Activate(ctx context.Context, tokenString string) error {
	if tokenString == "" {
		return deskerrors.ErrInvalidInput
	}

	t, err := s.store.Activations.GetByToken(ctx, tokenString)
	if err != nil {
		return err
	}
	if t.Used {
		return deskerrors.ErrTokenUsed
	}
	if t.Expired(time.Now()) {
		return deskerrors.ErrTokenExpired
	}

	u, err := s.store.Users.GetUserByEmail(ctx, t.Email)
	if err != nil {
		return err
	}

	return s.store.WithTx(ctx, func(tx *repository.Store) error {
		if err := tx.Activations.MarkUsed(ctx, t.ID); err != nil {
			return err
		}
		if err := tx.Users.MarkEmailVerified(ctx, u.ID, time.Now()); err != nil {
			return err
		}
		profile, err := tx.Users.GetProfileByUserID(ctx, u.ID)
		if err != nil {
			if errors.Is(err, deskerrors.ErrNotFound) {
				return nil
			}
			return err
		}
		if profile.Status == user.StatusPending {
			return tx.Users.SetProfileStatus(ctx, u.ID, user.StatusActive)
		}
		return nil
	})
}
