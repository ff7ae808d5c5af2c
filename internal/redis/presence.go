package redis

import (
	"context"
	"encoding/json"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// PresenceStatus represents a user's online status
type PresenceStatus struct {
	UserID   string     `json:"user_id"`
	IsOnline bool       `json:"is_online"`
	LastSeen *time.Time `json:"last_seen,omitempty"`
}

// PresenceStore handles presence tracking in Redis
type PresenceStore struct {
	client *goredis.Client
	ttl    time.Duration
}

const (
	presenceKeyPrefix = "presence:"       // per-user presence payload
	presenceOnlineSet = "presence:online" // set of online user IDs
)

func NewPresenceStore(client *goredis.Client, ttl time.Duration) *PresenceStore {
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &PresenceStore{client: client, ttl: ttl}
}

// SetOnline marks a user as online.
func (p *PresenceStore) SetOnline(ctx context.Context, userID string) error {
	now := time.Now()
	status := PresenceStatus{UserID: userID, IsOnline: true, LastSeen: &now}

	pipe := p.client.Pipeline()
	data, _ := json.Marshal(status)
	pipe.Set(ctx, presenceKeyPrefix+userID, data, p.ttl)
	pipe.SAdd(ctx, presenceOnlineSet, userID)
	_, err := pipe.Exec(ctx)
	return err
}

// SetOffline marks a user as offline. The payload is kept longer than the
// online TTL so last-seen queries keep working.
func (p *PresenceStore) SetOffline(ctx context.Context, userID string) error {
	now := time.Now()
	status := PresenceStatus{UserID: userID, IsOnline: false, LastSeen: &now}

	pipe := p.client.Pipeline()
	data, _ := json.Marshal(status)
	pipe.Set(ctx, presenceKeyPrefix+userID, data, 24*time.Hour)
	pipe.SRem(ctx, presenceOnlineSet, userID)
	_, err := pipe.Exec(ctx)
	return err
}

// GetPresence gets the presence status of a user, defaulting to offline.
func (p *PresenceStore) GetPresence(ctx context.Context, userID string) (PresenceStatus, error) {
	data, err := p.client.Get(ctx, presenceKeyPrefix+userID).Result()
	if err == goredis.Nil {
		return PresenceStatus{UserID: userID, IsOnline: false}, nil
	}
	if err != nil {
		return PresenceStatus{}, err
	}

	var status PresenceStatus
	if err := json.Unmarshal([]byte(data), &status); err != nil {
		return PresenceStatus{UserID: userID, IsOnline: false}, nil
	}
	return status, nil
}

// GetMultiplePresence gets presence for several users in one round trip.
// Missing or unparsable entries default to offline.
func (p *PresenceStore) GetMultiplePresence(ctx context.Context, userIDs []string) (map[string]PresenceStatus, error) {
	result := make(map[string]PresenceStatus)
	if len(userIDs) == 0 {
		return result, nil
	}

	pipe := p.client.Pipeline()
	cmds := make(map[string]*goredis.StringCmd)
	for _, userID := range userIDs {
		cmds[userID] = pipe.Get(ctx, presenceKeyPrefix+userID)
	}
	// Missing keys surface as redis.Nil on the individual commands below.
	_, _ = pipe.Exec(ctx)

	for userID, cmd := range cmds {
		data, err := cmd.Result()
		if err != nil {
			result[userID] = PresenceStatus{UserID: userID, IsOnline: false}
			continue
		}
		var status PresenceStatus
		if err := json.Unmarshal([]byte(data), &status); err != nil {
			result[userID] = PresenceStatus{UserID: userID, IsOnline: false}
			continue
		}
		result[userID] = status
	}
	return result, nil
}

// IsOnline checks if a user is online.
func (p *PresenceStore) IsOnline(ctx context.Context, userID string) (bool, error) {
	return p.client.SIsMember(ctx, presenceOnlineSet, userID).Result()
}

// GetOnlineUsers returns all online user IDs.
func (p *PresenceStore) GetOnlineUsers(ctx context.Context) ([]string, error) {
	return p.client.SMembers(ctx, presenceOnlineSet).Result()
}
