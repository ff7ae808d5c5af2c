package services

import (
	"context"
	"time"

	"teamdesk/internal/domain/user"
	"teamdesk/internal/redis"
	"teamdesk/internal/repository"
	deskerrors "teamdesk/pkg/errors"
	"teamdesk/pkg/logger"

	"github.com/google/uuid"
)

// DisplayIdentity is the resolved presentation identity of a user, with a
// stable fallback when the profile row is missing.
type DisplayIdentity struct {
	UserID    uuid.UUID
	Name      string
	AvatarKey *string
}

const unknownUserName = "Unknown"

// resolveIdentity looks up a single user's display identity: profile name,
// falling back to the account email, falling back to a placeholder. Missing
// rows never fail the caller so that views stay renderable.
func resolveIdentity(ctx context.Context, users repository.UserRepository, userID uuid.UUID) DisplayIdentity {
	profile, err := users.GetProfileByUserID(ctx, userID)
	if err == nil {
		return DisplayIdentity{UserID: userID, Name: profile.FullName(), AvatarKey: profile.AvatarKey}
	}
	if u, err := users.GetUserByID(ctx, userID); err == nil && u.Email != "" {
		return DisplayIdentity{UserID: userID, Name: u.Email}
	}
	return DisplayIdentity{UserID: userID, Name: unknownUserName}
}

// identityCache memoizes identity lookups within one request.
type identityCache struct {
	users repository.UserRepository
	seen  map[uuid.UUID]DisplayIdentity
}

func newIdentityCache(users repository.UserRepository) *identityCache {
	return &identityCache{users: users, seen: make(map[uuid.UUID]DisplayIdentity)}
}

func (c *identityCache) get(ctx context.Context, userID uuid.UUID) DisplayIdentity {
	if id, ok := c.seen[userID]; ok {
		return id
	}
	id := resolveIdentity(ctx, c.users, userID)
	c.seen[userID] = id
	return id
}

// DirectoryEntry is a profile combined with live presence.
type DirectoryEntry struct {
	Profile  user.Profile
	IsOnline bool
}

type UserService struct {
	store    *repository.Store
	presence *redis.PresenceStore
	log      *logger.Logger
}

func NewUserService(store *repository.Store, presence *redis.PresenceStore, log *logger.Logger) *UserService {
	return &UserService{store: store, presence: presence, log: log}
}

func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (user.Profile, error) {
	return s.store.Users.GetProfileByUserID(ctx, userID)
}

// ListDirectory returns all profiles with presence merged in. Presence
// failures degrade to offline rather than failing the listing.
func (s *UserService) ListDirectory(ctx context.Context) ([]DirectoryEntry, error) {
	profiles, err := s.store.Users.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}

	online := make(map[string]redis.PresenceStatus)
	if s.presence != nil {
		ids := make([]string, 0, len(profiles))
		for _, p := range profiles {
			ids = append(ids, p.UserID.String())
		}
		if statuses, err := s.presence.GetMultiplePresence(ctx, ids); err == nil {
			online = statuses
		} else {
			s.log.ErrorCtx(ctx, "presence lookup failed: "+err.Error())
		}
	}

	entries := make([]DirectoryEntry, 0, len(profiles))
	for _, p := range profiles {
		entries = append(entries, DirectoryEntry{
			Profile:  p,
			IsOnline: online[p.UserID.String()].IsOnline,
		})
	}
	return entries, nil
}

// SetOnlineStatus updates the user's profile and mirrors the state to the
// presence store.
func (s *UserService) SetOnlineStatus(ctx context.Context, userID uuid.UUID, isOnline bool) error {
	if err := s.store.Users.SetOnlineStatus(ctx, userID, isOnline, time.Now()); err != nil {
		return err
	}
	if s.presence != nil {
		var err error
		if isOnline {
			err = s.presence.SetOnline(ctx, userID.String())
		} else {
			err = s.presence.SetOffline(ctx, userID.String())
		}
		if err != nil {
			s.log.ErrorCtx(ctx, "presence update failed: "+err.Error())
		}
	}
	return nil
}

// SetProfileStatus activates or deactivates an account. Admin only.
func (s *UserService) SetProfileStatus(ctx context.Context, actorID, userID uuid.UUID, status string) error {
	if status != user.StatusActive && status != user.StatusInactive && status != user.StatusPending {
		return deskerrors.ErrInvalidInput
	}
	actor, err := s.store.Users.GetProfileByUserID(ctx, actorID)
	if err != nil {
		return err
	}
	if actor.Role != user.RoleAdmin {
		return deskerrors.ErrForbidden
	}
	return s.store.Users.SetProfileStatus(ctx, userID, status)
}
