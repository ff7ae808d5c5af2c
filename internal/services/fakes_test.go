package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"teamdesk/internal/domain/activation"
	"teamdesk/internal/domain/conversation"
	"teamdesk/internal/domain/message"
	"teamdesk/internal/domain/notification"
	"teamdesk/internal/domain/onboarding"
	"teamdesk/internal/domain/task"
	"teamdesk/internal/repository"
	deskerrors "teamdesk/pkg/errors"
	"teamdesk/pkg/logger"

	"teamdesk/internal/domain/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newTestLogger() *logger.Logger {
	return &logger.Logger{Logger: zap.NewNop()}
}

type fakeConversationRepo struct {
	mu            sync.Mutex
	conversations map[uuid.UUID]conversation.Conversation
	participants  map[uuid.UUID]conversation.Participant
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{
		conversations: make(map[uuid.UUID]conversation.Conversation),
		participants:  make(map[uuid.UUID]conversation.Participant),
	}
}

func (r *fakeConversationRepo) Create(_ context.Context, c *conversation.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conversations[c.ID] = *c
	return nil
}

func (r *fakeConversationRepo) GetByID(_ context.Context, id uuid.UUID) (conversation.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conversations[id]
	if !ok {
		return conversation.Conversation{}, deskerrors.ErrNotFound
	}
	return c, nil
}

func (r *fakeConversationRepo) UpdatePreview(_ context.Context, id uuid.UUID, preview string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conversations[id]
	if !ok {
		return deskerrors.ErrNotFound
	}
	c.LastMessage = &preview
	c.LastMessageAt = &at
	r.conversations[id] = c
	return nil
}

func (r *fakeConversationRepo) AddParticipant(_ context.Context, p *conversation.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.participants {
		if existing.ConversationID == p.ConversationID && existing.UserID == p.UserID {
			return deskerrors.ErrAlreadyExists
		}
	}
	r.participants[p.ID] = *p
	return nil
}

func (r *fakeConversationRepo) GetActiveParticipant(_ context.Context, conversationID, userID uuid.UUID) (conversation.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.participants {
		if p.ConversationID == conversationID && p.UserID == userID && p.IsActive {
			return p, nil
		}
	}
	return conversation.Participant{}, deskerrors.ErrNotFound
}

func (r *fakeConversationRepo) GetActiveParticipants(_ context.Context, conversationID uuid.UUID) ([]conversation.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []conversation.Participant
	for _, p := range r.participants {
		if p.ConversationID == conversationID && p.IsActive {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JoinedAt.Before(out[j].JoinedAt) })
	return out, nil
}

func (r *fakeConversationRepo) GetActiveParticipations(_ context.Context, userID uuid.UUID) ([]conversation.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []conversation.Participant
	for _, p := range r.participants {
		if p.UserID == userID && p.IsActive {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JoinedAt.Before(out[j].JoinedAt) })
	return out, nil
}

func (r *fakeConversationRepo) IsActiveParticipant(_ context.Context, conversationID, userID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.participants {
		if p.ConversationID == conversationID && p.UserID == userID && p.IsActive {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeConversationRepo) SetLastReadAt(_ context.Context, participantID uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.participants[participantID]
	if !ok {
		return deskerrors.ErrNotFound
	}
	p.LastReadAt = &at
	r.participants[participantID] = p
	return nil
}

type storedMessage struct {
	message.Message
	seq int
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	nextSeq  int
	messages map[uuid.UUID]storedMessage
	receipts map[uuid.UUID][]message.ReadReceipt
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{
		messages: make(map[uuid.UUID]storedMessage),
		receipts: make(map[uuid.UUID][]message.ReadReceipt),
	}
}

func (r *fakeMessageRepo) Create(_ context.Context, m *message.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextSeq++
	r.messages[m.ID] = storedMessage{Message: *m, seq: r.nextSeq}
	return nil
}

func (r *fakeMessageRepo) GetByID(_ context.Context, id uuid.UUID) (message.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.messages[id]
	if !ok {
		return message.Message{}, deskerrors.ErrNotFound
	}
	return m.Message, nil
}

func (r *fakeMessageRepo) sortedByCreation(conversationID uuid.UUID) []storedMessage {
	var out []storedMessage
	for _, m := range r.messages {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].seq < out[j].seq
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (r *fakeMessageRepo) ListRecent(_ context.Context, conversationID uuid.UUID, limit int) ([]message.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ordered := r.sortedByCreation(conversationID)
	var out []message.Message
	for i := len(ordered) - 1; i >= 0 && len(out) < limit; i-- {
		if ordered[i].IsDeleted {
			continue
		}
		out = append(out, ordered[i].Message)
	}
	return out, nil
}

func (r *fakeMessageRepo) Edit(_ context.Context, id uuid.UUID, content string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.messages[id]
	if !ok {
		return deskerrors.ErrNotFound
	}
	m.Content = &content
	m.IsEdited = true
	m.EditedAt = &at
	r.messages[id] = m
	return nil
}

func (r *fakeMessageRepo) SoftDelete(_ context.Context, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.messages[id]
	if !ok {
		return deskerrors.ErrNotFound
	}
	m.IsDeleted = true
	m.DeletedAt = &at
	r.messages[id] = m
	return nil
}

func (r *fakeMessageRepo) unread(conversationID, userID uuid.UUID, after *time.Time) []message.Message {
	var out []message.Message
	for _, m := range r.sortedByCreation(conversationID) {
		if m.SenderID == userID || m.IsDeleted || m.Type == message.TypeSystem {
			continue
		}
		if after != nil && !m.CreatedAt.After(*after) {
			continue
		}
		out = append(out, m.Message)
	}
	return out
}

func (r *fakeMessageRepo) CountUnread(_ context.Context, conversationID, userID uuid.UUID, after *time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.unread(conversationID, userID, after))), nil
}

func (r *fakeMessageRepo) ListUnread(_ context.Context, conversationID, userID uuid.UUID, after *time.Time) ([]message.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.unread(conversationID, userID, after), nil
}

func (r *fakeMessageRepo) CreateReceipt(_ context.Context, receipt *message.ReadReceipt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.receipts[receipt.MessageID] {
		if existing.UserID == receipt.UserID {
			return deskerrors.ErrAlreadyExists
		}
	}
	r.receipts[receipt.MessageID] = append(r.receipts[receipt.MessageID], *receipt)
	return nil
}

func (r *fakeMessageRepo) HasReceipt(_ context.Context, messageID, userID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.receipts[messageID] {
		if existing.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeMessageRepo) GetReceipts(_ context.Context, messageID uuid.UUID) ([]message.ReadReceipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]message.ReadReceipt(nil), r.receipts[messageID]...), nil
}

type fakeUserRepo struct {
	mu       sync.Mutex
	users    map[uuid.UUID]user.User
	profiles map[uuid.UUID]user.Profile
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:    make(map[uuid.UUID]user.User),
		profiles: make(map[uuid.UUID]user.Profile),
	}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return deskerrors.ErrAlreadyExists
		}
	}
	r.users[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id uuid.UUID) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return user.User{}, deskerrors.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return user.User{}, deskerrors.ErrNotFound
}

func (r *fakeUserRepo) MarkEmailVerified(_ context.Context, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return deskerrors.ErrNotFound
	}
	u.EmailVerifiedAt = &at
	r.users[id] = u
	return nil
}

func (r *fakeUserRepo) CreateProfile(_ context.Context, p *user.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.UserID] = *p
	return nil
}

func (r *fakeUserRepo) GetProfileByUserID(_ context.Context, userID uuid.UUID) (user.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return user.Profile{}, deskerrors.ErrNotFound
	}
	return p, nil
}

func (r *fakeUserRepo) ListProfiles(_ context.Context) ([]user.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []user.Profile
	for _, p := range r.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FirstName < out[j].FirstName })
	return out, nil
}

func (r *fakeUserRepo) SetProfileStatus(_ context.Context, userID uuid.UUID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return deskerrors.ErrNotFound
	}
	p.Status = status
	r.profiles[userID] = p
	return nil
}

func (r *fakeUserRepo) SetOnlineStatus(_ context.Context, userID uuid.UUID, isOnline bool, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return deskerrors.ErrNotFound
	}
	p.IsOnline = isOnline
	p.LastSeen = &at
	r.profiles[userID] = p
	return nil
}

func (r *fakeUserRepo) SetLastLogin(_ context.Context, userID uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return deskerrors.ErrNotFound
	}
	p.LastLogin = &at
	r.profiles[userID] = p
	return nil
}

type fakeTaskRepo struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]task.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[uuid.UUID]task.Task)}
}

func (r *fakeTaskRepo) Create(_ context.Context, t *task.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[t.ID] = *t
	return nil
}

func (r *fakeTaskRepo) GetByID(_ context.Context, id uuid.UUID) (task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return task.Task{}, deskerrors.ErrNotFound
	}
	return t, nil
}

func (r *fakeTaskRepo) Update(_ context.Context, t task.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[t.ID]; !ok {
		return deskerrors.ErrNotFound
	}
	r.tasks[t.ID] = t
	return nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return deskerrors.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *fakeTaskRepo) list(filter func(task.Task) bool) []task.Task {
	var out []task.Task
	for _, t := range r.tasks {
		if filter(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (r *fakeTaskRepo) ListByAssignee(_ context.Context, userID uuid.UUID, status string) ([]task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(func(t task.Task) bool {
		return t.AssignedTo == userID && (status == "" || t.Status == status)
	}), nil
}

func (r *fakeTaskRepo) ListAll(_ context.Context, assignee *uuid.UUID, status string) ([]task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(func(t task.Task) bool {
		if assignee != nil && t.AssignedTo != *assignee {
			return false
		}
		return status == "" || t.Status == status
	}), nil
}

func (r *fakeTaskRepo) ListOverdue(_ context.Context, now time.Time) ([]task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(func(t task.Task) bool {
		return t.DueDate.Before(now) && t.Status != task.StatusCompleted && t.Status != task.StatusOverdue
	}), nil
}

func (r *fakeTaskRepo) Stats(_ context.Context, assignee *uuid.UUID) (task.Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var stats task.Stats
	for _, t := range r.tasks {
		if assignee != nil && t.AssignedTo != *assignee {
			continue
		}
		stats.Total++
		switch t.Status {
		case task.StatusPending:
			stats.Pending++
		case task.StatusInProgress:
			stats.InProgress++
		case task.StatusCompleted:
			stats.Completed++
		case task.StatusOverdue:
			stats.Overdue++
		}
	}
	return stats, nil
}

type fakeActivationRepo struct {
	mu     sync.Mutex
	tokens map[uuid.UUID]activation.Token
}

func newFakeActivationRepo() *fakeActivationRepo {
	return &fakeActivationRepo{tokens: make(map[uuid.UUID]activation.Token)}
}

func (r *fakeActivationRepo) Create(_ context.Context, t *activation.Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[t.ID] = *t
	return nil
}

func (r *fakeActivationRepo) GetByToken(_ context.Context, token string) (activation.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.Token == token {
			return t, nil
		}
	}
	return activation.Token{}, deskerrors.ErrNotFound
}

func (r *fakeActivationRepo) MarkUsed(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[id]
	if !ok {
		return deskerrors.ErrNotFound
	}
	t.Used = true
	r.tokens[id] = t
	return nil
}

func (r *fakeActivationRepo) InvalidateForEmail(_ context.Context, email string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, t := range r.tokens {
		if strings.EqualFold(t.Email, email) && !t.Used {
			t.Used = true
			r.tokens[id] = t
			n++
		}
	}
	return n, nil
}

type fakeOnboardingRepo struct {
	mu              sync.Mutex
	onboardings     map[uuid.UUID]onboarding.Onboarding
	recommendations map[uuid.UUID]onboarding.Recommendation
}

func newFakeOnboardingRepo() *fakeOnboardingRepo {
	return &fakeOnboardingRepo{
		onboardings:     make(map[uuid.UUID]onboarding.Onboarding),
		recommendations: make(map[uuid.UUID]onboarding.Recommendation),
	}
}

func (r *fakeOnboardingRepo) Create(_ context.Context, o *onboarding.Onboarding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onboardings[o.UserID] = *o
	return nil
}

func (r *fakeOnboardingRepo) GetByUserID(_ context.Context, userID uuid.UUID) (onboarding.Onboarding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.onboardings[userID]
	if !ok {
		return onboarding.Onboarding{}, deskerrors.ErrNotFound
	}
	return o, nil
}

func (r *fakeOnboardingRepo) Update(_ context.Context, o onboarding.Onboarding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.onboardings[o.UserID]; !ok {
		return deskerrors.ErrNotFound
	}
	r.onboardings[o.UserID] = o
	return nil
}

func (r *fakeOnboardingRepo) CreateRecommendation(_ context.Context, rec *onboarding.Recommendation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recommendations[rec.UserID] = *rec
	return nil
}

func (r *fakeOnboardingRepo) GetRecommendationByUserID(_ context.Context, userID uuid.UUID) (onboarding.Recommendation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.recommendations[userID]
	if !ok {
		return onboarding.Recommendation{}, deskerrors.ErrNotFound
	}
	return rec, nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications map[uuid.UUID]notification.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{notifications: make(map[uuid.UUID]notification.Notification)}
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications[n.ID] = *n
	return nil
}

func (r *fakeNotificationRepo) GetByID(_ context.Context, id uuid.UUID) (notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notifications[id]
	if !ok {
		return notification.Notification{}, deskerrors.ErrNotFound
	}
	return n, nil
}

func (r *fakeNotificationRepo) ListForUser(_ context.Context, userID uuid.UUID, limit int, unreadOnly bool) ([]notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []notification.Notification
	for _, n := range r.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeNotificationRepo) CountUnread(_ context.Context, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, notif := range r.notifications {
		if notif.UserID == userID && !notif.IsRead {
			n++
		}
	}
	return n, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notifications[id]
	if !ok {
		return deskerrors.ErrNotFound
	}
	n.IsRead = true
	r.notifications[id] = n
	return nil
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for id, n := range r.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			r.notifications[id] = n
			count++
		}
	}
	return count, nil
}

// newTestStore wires the fake repositories into a Store with no database, so
// WithTx runs bodies directly.
func newTestStore() (*repository.Store, *fakeConversationRepo, *fakeMessageRepo, *fakeUserRepo) {
	conversations := newFakeConversationRepo()
	messages := newFakeMessageRepo()
	users := newFakeUserRepo()
	store := &repository.Store{
		Conversations: conversations,
		Messages:      messages,
		Users:         users,
		Tasks:         newFakeTaskRepo(),
		Notifications: newFakeNotificationRepo(),
		Onboardings:   newFakeOnboardingRepo(),
		Activations:   newFakeActivationRepo(),
	}
	return store, conversations, messages, users
}

func seedUser(users *fakeUserRepo, first, last, email string) uuid.UUID {
	id := uuid.New()
	users.users[id] = user.User{ID: id, Email: email, PasswordHash: "x", CreatedAt: time.Now()}
	users.profiles[id] = user.Profile{
		ID:        uuid.New(),
		UserID:    id,
		Role:      user.RoleEmployee,
		Status:    user.StatusActive,
		FirstName: first,
		LastName:  last,
		CreatedAt: time.Now(),
	}
	return id
}
