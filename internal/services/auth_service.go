package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"teamdesk/internal/config"
	"teamdesk/internal/domain/user"
	"teamdesk/internal/repository"
	deskerrors "teamdesk/pkg/errors"
	"teamdesk/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type userCtxKey string

const userIDCtxKey userCtxKey = "auth_user_id"

// WithUserContext stores the authenticated user ID on the context.
func WithUserContext(ctx context.Context, userID uuid.UUID) context.Context {
	ctx = context.WithValue(ctx, userIDCtxKey, userID)
	return context.WithValue(ctx, logger.UserIdKey, userID.String())
}

// UserIDFromContext retrieves the authenticated user ID from the context.
func UserIDFromContext(ctx context.Context) (uuid.UUID, error) {
	id, ok := ctx.Value(userIDCtxKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, deskerrors.ErrNotAuthenticated
	}
	return id, nil
}

// AccessClaims are the JWT claims carried by access tokens.
type AccessClaims struct {
	UserID string `json:"sub"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
	CreatedBy *uuid.UUID
}

type LoginResult struct {
	Token   string
	User    user.User
	Profile user.Profile
}

type AuthService struct {
	store      *repository.Store
	cfg        config.AuthConfig
	activation *ActivationService
	log        *logger.Logger
}

func NewAuthService(store *repository.Store, cfg config.AuthConfig, activation *ActivationService, log *logger.Logger) *AuthService {
	return &AuthService{store: store, cfg: cfg, activation: activation, log: log}
}

// Register creates a user with a pending profile and issues an activation
// token for the address. The account stays pending until the email is
// verified.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (user.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return user.User{}, deskerrors.ErrInvalidInput
	}
	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return user.User{}, deskerrors.ErrInvalidInput
	}
	role := input.Role
	if role == "" {
		role = user.RoleEmployee
	}
	if role != user.RoleAdmin && role != user.RoleEmployee && role != user.RoleClient {
		return user.User{}, deskerrors.ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, err
	}

	newUser := user.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	profile := user.Profile{
		ID:        uuid.New(),
		UserID:    newUser.ID,
		Role:      role,
		Status:    user.StatusPending,
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		CreatedBy: input.CreatedBy,
		CreatedAt: time.Now(),
	}

	err = s.store.WithTx(ctx, func(tx *repository.Store) error {
		if err := tx.Users.CreateUser(ctx, &newUser); err != nil {
			return err
		}
		return tx.Users.CreateProfile(ctx, &profile)
	})
	if err != nil {
		return user.User{}, err
	}

	if s.activation != nil {
		if err := s.activation.Issue(ctx, email); err != nil {
			s.log.ErrorCtx(ctx, "failed to issue activation token: "+err.Error())
		}
	}

	s.log.InfoCtx(ctx, "registered user "+newUser.ID.String())
	return newUser, nil
}

// Login verifies credentials and returns a signed access token. Accounts
// whose profile is not active cannot log in.
func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.store.Users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, deskerrors.ErrNotFound) {
			return LoginResult{}, deskerrors.ErrNotAuthenticated
		}
		return LoginResult{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return LoginResult{}, deskerrors.ErrNotAuthenticated
	}

	profile, err := s.store.Users.GetProfileByUserID(ctx, u.ID)
	if err != nil {
		return LoginResult{}, err
	}
	if profile.Status != user.StatusActive {
		return LoginResult{}, deskerrors.ErrForbidden
	}

	token, err := s.generateToken(u, profile)
	if err != nil {
		return LoginResult{}, err
	}

	if err := s.store.Users.SetLastLogin(ctx, u.ID, time.Now()); err != nil {
		s.log.ErrorCtx(ctx, "failed to record last login: "+err.Error())
	}

	return LoginResult{Token: token, User: u, Profile: profile}, nil
}

func (s *AuthService) generateToken(u user.User, profile user.Profile) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		UserID: u.ID.String(),
		Email:  u.Email,
		Role:   profile.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.cfg.AccessTTLHours) * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// ParseAccessToken validates a signed access token and returns its claims.
func (s *AuthService) ParseAccessToken(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, deskerrors.ErrNotAuthenticated
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, deskerrors.ErrNotAuthenticated
	}
	if _, err := uuid.Parse(claims.UserID); err != nil {
		return nil, deskerrors.ErrNotAuthenticated
	}
	return claims, nil
}
