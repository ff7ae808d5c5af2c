package services

import (
	"context"
	"errors"
	"testing"

	"teamdesk/internal/config"
	"teamdesk/internal/domain/user"
	deskerrors "teamdesk/pkg/errors"
)

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserRepo) {
	t.Helper()
	store, _, _, users := newTestStore()
	cfg := config.AuthConfig{JWTSecret: "test-secret", AccessTTLHours: 1}
	return NewAuthService(store, cfg, nil, newTestLogger()), users
}

func TestRegister_CreatesPendingProfile(t *testing.T) {
	svc, users := newAuthFixture(t)

	u, err := svc.Register(context.Background(), RegisterInput{
		Email:     "New.User@Example.com",
		Password:  "secret123",
		FirstName: "New",
		LastName:  "User",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if u.Email != "new.user@example.com" {
		t.Errorf("Expected normalized email, got %q", u.Email)
	}

	profile, err := users.GetProfileByUserID(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("Profile lookup failed: %v", err)
	}
	if profile.Status != user.StatusPending {
		t.Errorf("Expected pending status, got %q", profile.Status)
	}
	if profile.Role != user.RoleEmployee {
		t.Errorf("Expected default role employee, got %q", profile.Role)
	}
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	cases := []RegisterInput{
		{Email: "", Password: "x", FirstName: "A", LastName: "B"},
		{Email: "a@b.com", Password: "", FirstName: "A", LastName: "B"},
		{Email: "a@b.com", Password: "x", FirstName: " ", LastName: "B"},
		{Email: "a@b.com", Password: "x", FirstName: "A", LastName: "B", Role: "superuser"},
	}
	for i, input := range cases {
		if _, err := svc.Register(ctx, input); !errors.Is(err, deskerrors.ErrInvalidInput) {
			t.Errorf("Case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	input := RegisterInput{Email: "dup@example.com", Password: "secret123", FirstName: "A", LastName: "B"}
	if _, err := svc.Register(ctx, input); err != nil {
		t.Fatalf("First register failed: %v", err)
	}
	if _, err := svc.Register(ctx, input); !errors.Is(err, deskerrors.ErrAlreadyExists) {
		t.Errorf("Expected ErrAlreadyExists, got %v", err)
	}
}

func TestLogin_LifecycleAndTokenRoundtrip(t *testing.T) {
	svc, users := newAuthFixture(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{
		Email:     "login@example.com",
		Password:  "secret123",
		FirstName: "Log",
		LastName:  "In",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// Pending accounts cannot log in.
	if _, err := svc.Login(ctx, "login@example.com", "secret123"); !errors.Is(err, deskerrors.ErrForbidden) {
		t.Fatalf("Expected ErrForbidden for pending account, got %v", err)
	}

	if err := users.SetProfileStatus(ctx, u.ID, user.StatusActive); err != nil {
		t.Fatalf("Activation failed: %v", err)
	}

	if _, err := svc.Login(ctx, "login@example.com", "wrong"); !errors.Is(err, deskerrors.ErrNotAuthenticated) {
		t.Errorf("Expected ErrNotAuthenticated for wrong password, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody@example.com", "secret123"); !errors.Is(err, deskerrors.ErrNotAuthenticated) {
		t.Errorf("Expected ErrNotAuthenticated for unknown email, got %v", err)
	}

	result, err := svc.Login(ctx, "Login@Example.com", "secret123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if result.Token == "" {
		t.Fatal("Expected a signed token")
	}

	claims, err := svc.ParseAccessToken(result.Token)
	if err != nil {
		t.Fatalf("ParseAccessToken failed: %v", err)
	}
	if claims.UserID != u.ID.String() {
		t.Errorf("Expected subject %s, got %s", u.ID, claims.UserID)
	}
	if claims.Role != user.RoleEmployee {
		t.Errorf("Expected role employee, got %q", claims.Role)
	}
}

func TestParseAccessToken_RejectsInvalid(t *testing.T) {
	svc, users := newAuthFixture(t)
	ctx := context.Background()

	if _, err := svc.ParseAccessToken("not-a-token"); !errors.Is(err, deskerrors.ErrNotAuthenticated) {
		t.Errorf("Expected ErrNotAuthenticated for garbage, got %v", err)
	}

	// A token signed with a different secret must not verify.
	u, _ := svc.Register(ctx, RegisterInput{Email: "sig@example.com", Password: "secret123", FirstName: "S", LastName: "G"})
	_ = users.SetProfileStatus(ctx, u.ID, user.StatusActive)
	result, err := svc.Login(ctx, "sig@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	store, _, _, _ := newTestStore()
	other := NewAuthService(store, config.AuthConfig{JWTSecret: "different", AccessTTLHours: 1}, nil, newTestLogger())
	if _, err := other.ParseAccessToken(result.Token); !errors.Is(err, deskerrors.ErrNotAuthenticated) {
		t.Errorf("Expected ErrNotAuthenticated for wrong secret, got %v", err)
	}
}
