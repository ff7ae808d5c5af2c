package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"teamdesk/internal/config"
	"teamdesk/internal/domain/activation"
	"teamdesk/internal/domain/user"
	deskerrors "teamdesk/pkg/errors"

	"github.com/google/uuid"
)

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *recordingMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func newActivationFixture(t *testing.T) (*ActivationService, *fakeUserRepo, *fakeActivationRepo, *recordingMailer) {
	t.Helper()
	store, _, _, users := newTestStore()
	activations := store.Activations.(*fakeActivationRepo)
	mailer := &recordingMailer{}
	cfg := config.EmailConfig{
		ActivationBaseURL: "http://localhost:3000/activate",
		ActivationTTL:     time.Hour,
	}
	svc := NewActivationService(store, cfg, mailer, newTestLogger())
	return svc, users, activations, mailer
}

func seedPendingUser(users *fakeUserRepo, email string) uuid.UUID {
	id := uuid.New()
	users.users[id] = user.User{ID: id, Email: email, PasswordHash: "x", CreatedAt: time.Now()}
	users.profiles[id] = user.Profile{
		ID:        uuid.New(),
		UserID:    id,
		Role:      user.RoleEmployee,
		Status:    user.StatusPending,
		FirstName: "Pending",
		LastName:  "User",
		CreatedAt: time.Now(),
	}
	return id
}

func issuedToken(t *testing.T, activations *fakeActivationRepo, email string) activation.Token {
	t.Helper()
	activations.mu.Lock()
	defer activations.mu.Unlock()
	for _, tok := range activations.tokens {
		if strings.EqualFold(tok.Email, email) && !tok.Used {
			return tok
		}
	}
	t.Fatalf("No outstanding token for %s", email)
	return activation.Token{}
}

func TestIssue_SendsMailWithLink(t *testing.T) {
	svc, _, activations, mailer := newActivationFixture(t)

	if err := svc.Issue(context.Background(), "Pending@Example.com"); err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("Expected 1 mail, got %d", len(mailer.sent))
	}
	if mailer.sent[0].To != "pending@example.com" {
		t.Errorf("Expected mail to normalized address, got %q", mailer.sent[0].To)
	}

	tok := issuedToken(t, activations, "pending@example.com")
	if !strings.Contains(mailer.sent[0].Body, "http://localhost:3000/activate?token="+tok.Token) {
		t.Errorf("Mail body missing activation link: %q", mailer.sent[0].Body)
	}
}

func TestIssue_InvalidatesPreviousTokens(t *testing.T) {
	svc, _, activations, _ := newActivationFixture(t)
	ctx := context.Background()

	if err := svc.Issue(ctx, "user@example.com"); err != nil {
		t.Fatalf("First issue failed: %v", err)
	}
	first := issuedToken(t, activations, "user@example.com")

	if err := svc.Issue(ctx, "user@example.com"); err != nil {
		t.Fatalf("Second issue failed: %v", err)
	}

	if err := svc.Activate(ctx, first.Token); !errors.Is(err, deskerrors.ErrTokenUsed) {
		t.Errorf("Expected ErrTokenUsed for superseded token, got %v", err)
	}
}

func TestActivate_VerifiesAndActivates(t *testing.T) {
	svc, users, activations, _ := newActivationFixture(t)
	ctx := context.Background()

	id := seedPendingUser(users, "pending@example.com")
	if err := svc.Issue(ctx, "pending@example.com"); err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	tok := issuedToken(t, activations, "pending@example.com")

	if err := svc.Activate(ctx, tok.Token); err != nil {
		t.Fatalf("Activate failed: %v", err)
	}

	u, _ := users.GetUserByID(ctx, id)
	if u.EmailVerifiedAt == nil {
		t.Error("Expected email verified timestamp")
	}
	profile, _ := users.GetProfileByUserID(ctx, id)
	if profile.Status != user.StatusActive {
		t.Errorf("Expected active profile, got %q", profile.Status)
	}

	// Single use.
	if err := svc.Activate(ctx, tok.Token); !errors.Is(err, deskerrors.ErrTokenUsed) {
		t.Errorf("Expected ErrTokenUsed on reuse, got %v", err)
	}
}

func TestActivate_Expired(t *testing.T) {
	svc, users, activations, _ := newActivationFixture(t)
	ctx := context.Background()

	seedPendingUser(users, "stale@example.com")
	expired := activation.Token{
		ID:        uuid.New(),
		Email:     "stale@example.com",
		Token:     "expired-token",
		ExpiresAt: time.Now().Add(-time.Minute),
		CreatedAt: time.Now().Add(-2 * time.Hour),
	}
	if err := activations.Create(ctx, &expired); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}

	if err := svc.Activate(ctx, "expired-token"); !errors.Is(err, deskerrors.ErrTokenExpired) {
		t.Errorf("Expected ErrTokenExpired, got %v", err)
	}
}

func TestResend_VerifiedAccountRejected(t *testing.T) {
	svc, users, activations, mailer := newActivationFixture(t)
	ctx := context.Background()

	seedPendingUser(users, "pending@example.com")
	if err := svc.Resend(ctx, "pending@example.com"); err != nil {
		t.Fatalf("Resend failed: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("Expected 1 mail, got %d", len(mailer.sent))
	}

	tok := issuedToken(t, activations, "pending@example.com")
	if err := svc.Activate(ctx, tok.Token); err != nil {
		t.Fatalf("Activate failed: %v", err)
	}

	if err := svc.Resend(ctx, "pending@example.com"); !errors.Is(err, deskerrors.ErrInvalidOperation) {
		t.Errorf("Expected ErrInvalidOperation for verified account, got %v", err)
	}
	if err := svc.Resend(ctx, "unknown@example.com"); !errors.Is(err, deskerrors.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown account, got %v", err)
	}
}

func TestActivate_UnknownToken(t *testing.T) {
	svc, _, _, _ := newActivationFixture(t)

	if err := svc.Activate(context.Background(), "no-such-token"); !errors.Is(err, deskerrors.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
