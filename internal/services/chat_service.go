package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"teamdesk/internal/domain/conversation"
	"teamdesk/internal/domain/message"
	"teamdesk/internal/proxy"
	"teamdesk/internal/redis"
	"teamdesk/internal/repository"
	deskerrors "teamdesk/pkg/errors"
	"teamdesk/pkg/logger"

	"github.com/google/uuid"
)

// FileURLResolver turns a stored object key into a client-usable URL.
// An empty string means the key could not be resolved.
type FileURLResolver interface {
	FileURL(key string) string
}

// EventPublisher broadcasts chat events for live delivery. Best effort.
type EventPublisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// PresenceReader reports live online state for a user ID.
type PresenceReader interface {
	GetPresence(ctx context.Context, userID string) (redis.PresenceStatus, error)
}

const defaultMessageLimit = 50

// ParticipantView is one member of a conversation with resolved identity
// and presence.
type ParticipantView struct {
	UserID    uuid.UUID  `json:"user_id"`
	Role      string     `json:"role"`
	Name      string     `json:"name"`
	AvatarKey *string    `json:"avatar_key,omitempty"`
	IsOnline  bool       `json:"is_online"`
	LastSeen  *time.Time `json:"last_seen,omitempty"`
}

// ConversationView is the assembled per-conversation projection returned by
// ListConversations.
type ConversationView struct {
	ID            uuid.UUID         `json:"id"`
	Kind          conversation.Kind `json:"kind"`
	DisplayName   string            `json:"display_name"`
	DisplayAvatar *string           `json:"display_avatar,omitempty"`
	Description   *string           `json:"description,omitempty"`
	CreatedBy     uuid.UUID         `json:"created_by"`
	Participants  []ParticipantView `json:"participants"`
	UnreadCount   int64             `json:"unread_count"`
	LastMessage   *string           `json:"last_message,omitempty"`
	LastMessageAt *time.Time        `json:"last_message_at,omitempty"`
	LastReadAt    *time.Time        `json:"last_read_at,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

// ReplyPreview is the inline summary of the message a reply points at.
type ReplyPreview struct {
	ID         uuid.UUID    `json:"id"`
	SenderName string       `json:"sender_name"`
	Type       message.Type `json:"type"`
	Content    *string      `json:"content,omitempty"`
}

// ReceiptView is one read receipt on a message.
type ReceiptView struct {
	UserID uuid.UUID `json:"user_id"`
	ReadAt time.Time `json:"read_at"`
}

// MessageView is the assembled per-message projection returned by
// ListMessages.
type MessageView struct {
	ID             uuid.UUID     `json:"id"`
	ConversationID uuid.UUID     `json:"conversation_id"`
	SenderID       uuid.UUID     `json:"sender_id"`
	SenderName     string        `json:"sender_name"`
	SenderAvatar   *string       `json:"sender_avatar,omitempty"`
	Type           message.Type  `json:"type"`
	Content        *string       `json:"content,omitempty"`
	FileURL        *string       `json:"file_url,omitempty"`
	FileName       *string       `json:"file_name,omitempty"`
	FileSize       *int64        `json:"file_size,omitempty"`
	Duration       *int          `json:"duration,omitempty"`
	ReplyTo        *ReplyPreview `json:"reply_to,omitempty"`
	IsEdited       bool          `json:"is_edited"`
	EditedAt       *time.Time    `json:"edited_at,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	ReadBy         []ReceiptView `json:"read_by"`
}

type SendFileInput struct {
	ConversationID uuid.UUID
	Type           message.Type
	FileKey        string
	FileName       *string
	FileSize       *int64
	Duration       *int
	ReplyToID      *uuid.UUID
}

type ChatService struct {
	store    *repository.Store
	access   *proxy.AccessControl
	files    FileURLResolver
	events   EventPublisher
	presence PresenceReader
	log      *logger.Logger
}

func NewChatService(
	store *repository.Store,
	access *proxy.AccessControl,
	files FileURLResolver,
	events EventPublisher,
	presence PresenceReader,
	log *logger.Logger,
) *ChatService {
	return &ChatService{
		store:    store,
		access:   access,
		files:    files,
		events:   events,
		presence: presence,
		log:      log,
	}
}

// CreateDirectConversation returns the existing direct conversation between
// the two users if one exists, creating it otherwise. Two users share at most
// one direct conversation.
func (s *ChatService) CreateDirectConversation(ctx context.Context, actorID, otherID uuid.UUID) (uuid.UUID, error) {
	if actorID == otherID {
		return uuid.Nil, deskerrors.ErrInvalidInput
	}
	if _, err := s.store.Users.GetUserByID(ctx, otherID); err != nil {
		return uuid.Nil, err
	}

	// Linear scan over the actor's active participations. Per-user
	// conversation counts are small; a unique index on the unordered pair
	// would replace this at scale.
	participations, err := s.store.Conversations.GetActiveParticipations(ctx, actorID)
	if err != nil {
		return uuid.Nil, err
	}
	for _, p := range participations {
		conv, err := s.store.Conversations.GetByID(ctx, p.ConversationID)
		if err != nil {
			if errors.Is(err, deskerrors.ErrNotFound) {
				continue
			}
			return uuid.Nil, err
		}
		if conv.Kind != conversation.KindDirect || !conv.IsActive {
			continue
		}
		ok, err := s.store.Conversations.IsActiveParticipant(ctx, conv.ID, otherID)
		if err != nil {
			return uuid.Nil, err
		}
		if ok {
			return conv.ID, nil
		}
	}

	now := time.Now()
	conv := conversation.Conversation{
		ID:        uuid.New(),
		Kind:      conversation.KindDirect,
		CreatedBy: actorID,
		IsActive:  true,
		CreatedAt: now,
	}
	err = s.store.WithTx(ctx, func(tx *repository.Store) error {
		if err := tx.Conversations.Create(ctx, &conv); err != nil {
			return err
		}
		for _, userID := range []uuid.UUID{actorID, otherID} {
			p := conversation.Participant{
				ID:             uuid.New(),
				ConversationID: conv.ID,
				UserID:         userID,
				Role:           conversation.RoleMember,
				JoinedAt:       now,
				IsActive:       true,
			}
			if err := tx.Conversations.AddParticipant(ctx, &p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return conv.ID, nil
}

// CreateGroupConversation creates a group with the actor as admin and the
// given members. A self-reference in memberIDs is silently dropped. The first
// message is a system announcement carrying the group name.
func (s *ChatService) CreateGroupConversation(ctx context.Context, actorID uuid.UUID, name string, description *string, memberIDs []uuid.UUID) (uuid.UUID, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return uuid.Nil, deskerrors.ErrInvalidInput
	}

	now := time.Now()
	conv := conversation.Conversation{
		ID:          uuid.New(),
		Kind:        conversation.KindGroup,
		Name:        &name,
		Description: description,
		CreatedBy:   actorID,
		IsActive:    true,
		CreatedAt:   now,
	}
	err := s.store.WithTx(ctx, func(tx *repository.Store) error {
		if err := tx.Conversations.Create(ctx, &conv); err != nil {
			return err
		}
		creator := conversation.Participant{
			ID:             uuid.New(),
			ConversationID: conv.ID,
			UserID:         actorID,
			Role:           conversation.RoleAdmin,
			JoinedAt:       now,
			IsActive:       true,
		}
		if err := tx.Conversations.AddParticipant(ctx, &creator); err != nil {
			return err
		}
		seen := map[uuid.UUID]bool{actorID: true}
		for _, memberID := range memberIDs {
			if seen[memberID] {
				continue
			}
			seen[memberID] = true
			p := conversation.Participant{
				ID:             uuid.New(),
				ConversationID: conv.ID,
				UserID:         memberID,
				Role:           conversation.RoleMember,
				JoinedAt:       now,
				IsActive:       true,
			}
			if err := tx.Conversations.AddParticipant(ctx, &p); err != nil {
				return err
			}
		}
		announcement := fmt.Sprintf("Group %q was created", name)
		sys := message.Message{
			ID:             uuid.New(),
			ConversationID: conv.ID,
			SenderID:       actorID,
			Type:           message.TypeSystem,
			Content:        &announcement,
			CreatedAt:      now,
		}
		return tx.Messages.Create(ctx, &sys)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return conv.ID, nil
}

// ListConversations assembles the actor's conversation list, newest activity
// first. Conversations with no messages sort last.
func (s *ChatService) ListConversations(ctx context.Context, actorID uuid.UUID) ([]ConversationView, error) {
	participations, err := s.store.Conversations.GetActiveParticipations(ctx, actorID)
	if err != nil {
		return nil, err
	}

	identities := newIdentityCache(s.store.Users)
	views := make([]ConversationView, 0, len(participations))
	for _, p := range participations {
		conv, err := s.store.Conversations.GetByID(ctx, p.ConversationID)
		if err != nil {
			if errors.Is(err, deskerrors.ErrNotFound) {
				continue
			}
			return nil, err
		}
		if !conv.IsActive {
			continue
		}

		members, err := s.store.Conversations.GetActiveParticipants(ctx, conv.ID)
		if err != nil {
			return nil, err
		}
		participants := make([]ParticipantView, 0, len(members))
		for _, m := range members {
			identity := identities.get(ctx, m.UserID)
			pv := ParticipantView{
				UserID:    m.UserID,
				Role:      m.Role,
				Name:      identity.Name,
				AvatarKey: identity.AvatarKey,
			}
			if s.presence != nil {
				if status, err := s.presence.GetPresence(ctx, m.UserID.String()); err == nil {
					pv.IsOnline = status.IsOnline
					pv.LastSeen = status.LastSeen
				}
			}
			participants = append(participants, pv)
		}

		unread, err := s.store.Messages.CountUnread(ctx, conv.ID, actorID, p.LastReadAt)
		if err != nil {
			return nil, err
		}

		view := ConversationView{
			ID:            conv.ID,
			Kind:          conv.Kind,
			Description:   conv.Description,
			CreatedBy:     conv.CreatedBy,
			Participants:  participants,
			UnreadCount:   unread,
			LastMessage:   conv.LastMessage,
			LastMessageAt: conv.LastMessageAt,
			LastReadAt:    p.LastReadAt,
			CreatedAt:     conv.CreatedAt,
		}
		if conv.Name != nil {
			view.DisplayName = *conv.Name
		}
		view.DisplayAvatar = conv.AvatarKey

		// Direct chats borrow the other participant's name and avatar.
		if conv.Kind == conversation.KindDirect {
			for _, pv := range participants {
				if pv.UserID != actorID {
					view.DisplayName = pv.Name
					view.DisplayAvatar = pv.AvatarKey
					break
				}
			}
		}
		views = append(views, view)
	}

	sort.SliceStable(views, func(i, j int) bool {
		var ti, tj time.Time
		if views[i].LastMessageAt != nil {
			ti = *views[i].LastMessageAt
		}
		if views[j].LastMessageAt != nil {
			tj = *views[j].LastMessageAt
		}
		return ti.After(tj)
	})
	return views, nil
}

// SendMessage appends a text message to the conversation and refreshes the
// conversation preview.
func (s *ChatService) SendMessage(ctx context.Context, actorID, conversationID uuid.UUID, content string, replyToID *uuid.UUID) (uuid.UUID, error) {
	if err := s.access.CanSendMessage(ctx, actorID, conversationID); err != nil {
		return uuid.Nil, err
	}
	if strings.TrimSpace(content) == "" {
		return uuid.Nil, deskerrors.ErrInvalidInput
	}
	if err := s.validateReplyTarget(ctx, conversationID, replyToID); err != nil {
		return uuid.Nil, err
	}

	now := time.Now()
	msg := message.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		SenderID:       actorID,
		Type:           message.TypeText,
		Content:        &content,
		ReplyToID:      replyToID,
		CreatedAt:      now,
	}
	err := s.store.WithTx(ctx, func(tx *repository.Store) error {
		if err := tx.Messages.Create(ctx, &msg); err != nil {
			return err
		}
		preview := message.Preview(message.TypeText, content, "", conversation.PreviewLimit)
		return tx.Conversations.UpdatePreview(ctx, conversationID, preview, now)
	})
	if err != nil {
		return uuid.Nil, err
	}

	s.publishEvent(ctx, conversationID, "message", msg.ID)
	return msg.ID, nil
}

// SendFileMessage appends an attachment message. The blob must already be
// uploaded; only its key and metadata are recorded here.
func (s *ChatService) SendFileMessage(ctx context.Context, actorID uuid.UUID, input SendFileInput) (uuid.UUID, error) {
	if err := s.access.CanSendMessage(ctx, actorID, input.ConversationID); err != nil {
		return uuid.Nil, err
	}
	switch input.Type {
	case message.TypeImage, message.TypeVoice, message.TypeFile:
	default:
		return uuid.Nil, deskerrors.ErrInvalidInput
	}
	if input.FileKey == "" {
		return uuid.Nil, deskerrors.ErrInvalidInput
	}
	if err := s.validateReplyTarget(ctx, input.ConversationID, input.ReplyToID); err != nil {
		return uuid.Nil, err
	}

	now := time.Now()
	msg := message.Message{
		ID:             uuid.New(),
		ConversationID: input.ConversationID,
		SenderID:       actorID,
		Type:           input.Type,
		FileKey:        &input.FileKey,
		FileName:       input.FileName,
		FileSize:       input.FileSize,
		Duration:       input.Duration,
		ReplyToID:      input.ReplyToID,
		CreatedAt:      now,
	}
	err := s.store.WithTx(ctx, func(tx *repository.Store) error {
		if err := tx.Messages.Create(ctx, &msg); err != nil {
			return err
		}
		fileName := ""
		if input.FileName != nil {
			fileName = *input.FileName
		}
		preview := message.Preview(input.Type, "", fileName, conversation.PreviewLimit)
		return tx.Conversations.UpdatePreview(ctx, input.ConversationID, preview, now)
	})
	if err != nil {
		return uuid.Nil, err
	}

	s.publishEvent(ctx, input.ConversationID, "message", msg.ID)
	return msg.ID, nil
}

// ListMessages returns up to limit most-recent non-tombstoned messages in
// chronological ascending order, fully assembled for rendering.
func (s *ChatService) ListMessages(ctx context.Context, actorID, conversationID uuid.UUID, limit int) ([]MessageView, error) {
	if err := s.access.CanViewConversation(ctx, actorID, conversationID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultMessageLimit
	}

	messages, err := s.store.Messages.ListRecent(ctx, conversationID, limit)
	if err != nil {
		return nil, err
	}
	// ListRecent is newest-first; clients render oldest-first.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	identities := newIdentityCache(s.store.Users)
	views := make([]MessageView, 0, len(messages))
	for _, m := range messages {
		sender := identities.get(ctx, m.SenderID)
		view := MessageView{
			ID:             m.ID,
			ConversationID: m.ConversationID,
			SenderID:       m.SenderID,
			SenderName:     sender.Name,
			SenderAvatar:   sender.AvatarKey,
			Type:           m.Type,
			Content:        m.Content,
			FileName:       m.FileName,
			FileSize:       m.FileSize,
			Duration:       m.Duration,
			IsEdited:       m.IsEdited,
			EditedAt:       m.EditedAt,
			CreatedAt:      m.CreatedAt,
			ReadBy:         []ReceiptView{},
		}

		if m.FileKey != nil && s.files != nil {
			if url := s.files.FileURL(*m.FileKey); url != "" {
				view.FileURL = &url
			}
		}

		if m.ReplyToID != nil {
			if target, err := s.store.Messages.GetByID(ctx, *m.ReplyToID); err == nil && !target.IsDeleted {
				view.ReplyTo = &ReplyPreview{
					ID:         target.ID,
					SenderName: identities.get(ctx, target.SenderID).Name,
					Type:       target.Type,
					Content:    target.Content,
				}
			}
		}

		receipts, err := s.store.Messages.GetReceipts(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		for _, r := range receipts {
			view.ReadBy = append(view.ReadBy, ReceiptView{UserID: r.UserID, ReadAt: r.ReadAt})
		}

		views = append(views, view)
	}
	return views, nil
}

// EditMessage replaces the content of the actor's own text message. No edit
// history is kept.
func (s *ChatService) EditMessage(ctx context.Context, actorID, messageID uuid.UUID, content string) error {
	m, err := s.store.Messages.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if m.SenderID != actorID {
		return deskerrors.ErrForbidden
	}
	if !m.Editable() || m.IsDeleted {
		return deskerrors.ErrInvalidOperation
	}
	if strings.TrimSpace(content) == "" {
		return deskerrors.ErrInvalidInput
	}
	return s.store.Messages.Edit(ctx, messageID, content, time.Now())
}

// DeleteMessage tombstones the actor's own message. Content is retained.
func (s *ChatService) DeleteMessage(ctx context.Context, actorID, messageID uuid.UUID) error {
	m, err := s.store.Messages.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if m.SenderID != actorID {
		return deskerrors.ErrForbidden
	}
	if m.Type == message.TypeSystem {
		return deskerrors.ErrInvalidOperation
	}
	return s.store.Messages.SoftDelete(ctx, messageID, time.Now())
}

// MarkConversationRead advances the actor's read watermark and records a
// receipt for every message that was unread before the call. Repeated calls
// insert nothing new. Returns the number of receipts inserted.
func (s *ChatService) MarkConversationRead(ctx context.Context, actorID, conversationID uuid.UUID) (int, error) {
	p, err := s.store.Conversations.GetActiveParticipant(ctx, conversationID, actorID)
	if err != nil {
		if errors.Is(err, deskerrors.ErrNotFound) {
			return 0, deskerrors.ErrForbidden
		}
		return 0, err
	}

	previous := p.LastReadAt
	now := time.Now()
	inserted := 0
	err = s.store.WithTx(ctx, func(tx *repository.Store) error {
		if err := tx.Conversations.SetLastReadAt(ctx, p.ID, now); err != nil {
			return err
		}
		unread, err := tx.Messages.ListUnread(ctx, conversationID, actorID, previous)
		if err != nil {
			return err
		}
		for _, m := range unread {
			has, err := tx.Messages.HasReceipt(ctx, m.ID, actorID)
			if err != nil {
				return err
			}
			if has {
				continue
			}
			receipt := message.ReadReceipt{
				ID:        uuid.New(),
				MessageID: m.ID,
				UserID:    actorID,
				ReadAt:    now,
			}
			if err := tx.Messages.CreateReceipt(ctx, &receipt); err != nil {
				if errors.Is(err, deskerrors.ErrAlreadyExists) {
					continue
				}
				return err
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.publishEvent(ctx, conversationID, "read", p.UserID)
	return inserted, nil
}

func (s *ChatService) validateReplyTarget(ctx context.Context, conversationID uuid.UUID, replyToID *uuid.UUID) error {
	if replyToID == nil {
		return nil
	}
	target, err := s.store.Messages.GetByID(ctx, *replyToID)
	if err != nil {
		if errors.Is(err, deskerrors.ErrNotFound) {
			return deskerrors.ErrInvalidInput
		}
		return err
	}
	if target.ConversationID != conversationID {
		return deskerrors.ErrInvalidInput
	}
	return nil
}

type chatEvent struct {
	Kind           string    `json:"kind"`
	ConversationID uuid.UUID `json:"conversation_id"`
	SubjectID      uuid.UUID `json:"subject_id"`
	At             time.Time `json:"at"`
}

func (s *ChatService) publishEvent(ctx context.Context, conversationID uuid.UUID, kind string, subjectID uuid.UUID) {
	if s.events == nil {
		return
	}
	payload, err := json.Marshal(chatEvent{
		Kind:           kind,
		ConversationID: conversationID,
		SubjectID:      subjectID,
		At:             time.Now(),
	})
	if err != nil {
		return
	}
	if err := s.events.Publish(ctx, "chat:"+conversationID.String(), payload); err != nil {
		s.log.ErrorCtx(ctx, "chat event publish failed: "+err.Error())
	}
}
