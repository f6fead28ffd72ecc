package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/CkBu3u/DiplomFinal/internal/listing/domain"
	"github.com/CkBu3u/DiplomFinal/internal/platform/logger"
	"github.com/CkBu3u/DiplomFinal/internal/platform/metrics"
	"go.uber.org/zap"
)

const (
	maxMessageLength = 4000
	previewLength    = 50
	// DefaultUserName labels a counterpart without a display name.
	DefaultUserName = "Пользователь"
)

type MessageUsecase struct {
	messages  domain.MessageRepository
	listings  domain.ListingRepository
	users     domain.UserRepository
	publisher domain.EventPublisher
	metrics   *metrics.MetricsManager
	logger    *logger.Logger
	now       func() time.Time
}

func NewMessageUsecase(
	messages domain.MessageRepository,
	listings domain.ListingRepository,
	users domain.UserRepository,
	pub domain.EventPublisher,
	m *metrics.MetricsManager,
	log *logger.Logger,
) *MessageUsecase {
	return &MessageUsecase{
		messages:  messages,
		listings:  listings,
		users:     users,
		publisher: pub,
		metrics:   m,
		logger:    log.Named("message_uc"),
		now:       time.Now,
	}
}

// Send delivers content from viewer to receiverID. A non-empty listingID must
// name an existing listing.
func (uc *MessageUsecase) Send(ctx context.Context, viewer domain.Viewer, receiverID, content, listingID string) (*domain.Message, error) {
	if viewer.IsAnonymous() {
		return nil, domain.ErrUnauthenticated
	}
	receiverID = strings.TrimSpace(receiverID)
	content = strings.TrimSpace(content)
	switch {
	case receiverID == "":
		return nil, fmt.Errorf("MessageUsecase.Send: %w: receiver is required", domain.ErrInvalidInput)
	case receiverID == viewer.ID:
		return nil, fmt.Errorf("MessageUsecase.Send: %w: cannot message yourself", domain.ErrInvalidInput)
	case content == "":
		return nil, fmt.Errorf("MessageUsecase.Send: %w: message is empty", domain.ErrInvalidInput)
	case utf8.RuneCountInString(content) > maxMessageLength:
		return nil, fmt.Errorf("MessageUsecase.Send: %w: message exceeds %d characters", domain.ErrInvalidInput, maxMessageLength)
	}

	if listingID != "" {
		if _, err := uc.listings.FindByID(ctx, listingID); err != nil {
			if errors.Is(err, domain.ErrListingNotFound) {
				return nil, err
			}
			return nil, fmt.Errorf("MessageUsecase.Send: %w: %w", domain.ErrRemoteQuery, err)
		}
	}

	msg := &domain.Message{
		SenderID:   viewer.ID,
		ReceiverID: receiverID,
		ListingID:  listingID,
		Content:    content,
		CreatedAt:  uc.now().UTC(),
	}
	if err := uc.messages.Create(ctx, msg); err != nil {
		uc.logger.Error("failed to store message", zap.String("sender_id", viewer.ID), zap.String("receiver_id", receiverID), zap.Error(err))
		return nil, fmt.Errorf("MessageUsecase.Send: %w", err)
	}

	uc.metrics.ObserveMessageSent()
	publish(ctx, uc.publisher, uc.logger, SubjectMessageSent, MessageEvent{
		MessageID:  msg.ID,
		SenderID:   msg.SenderID,
		ReceiverID: msg.ReceiverID,
		ListingID:  msg.ListingID,
	})
	return msg, nil
}

// Thread returns the exchange with otherID, oldest first, and marks the
// messages the viewer received in it as read.
func (uc *MessageUsecase) Thread(ctx context.Context, viewer domain.Viewer, otherID string) ([]domain.Message, error) {
	if viewer.IsAnonymous() {
		return nil, domain.ErrUnauthenticated
	}
	if strings.TrimSpace(otherID) == "" {
		return nil, fmt.Errorf("MessageUsecase.Thread: %w: counterpart is required", domain.ErrInvalidInput)
	}

	msgs, err := uc.messages.Between(ctx, viewer.ID, otherID)
	if err != nil {
		uc.logger.Error("failed to load thread", zap.String("user_id", viewer.ID), zap.String("other_id", otherID), zap.Error(err))
		return nil, fmt.Errorf("MessageUsecase.Thread: %w: %w", domain.ErrRemoteQuery, err)
	}
	if n, err := uc.messages.MarkRead(ctx, viewer.ID, otherID); err != nil {
		uc.logger.Warn("failed to mark thread read", zap.String("user_id", viewer.ID), zap.String("other_id", otherID), zap.Error(err))
	} else if n > 0 {
		uc.logger.Debug("thread marked read", zap.String("user_id", viewer.ID), zap.Int64("count", n))
	}
	return msgs, nil
}

// Conversations lists one entry per counterpart, most recent exchange first.
func (uc *MessageUsecase) Conversations(ctx context.Context, viewer domain.Viewer) ([]domain.Conversation, error) {
	if viewer.IsAnonymous() {
		return nil, domain.ErrUnauthenticated
	}
	msgs, err := uc.messages.Involving(ctx, viewer.ID)
	if err != nil {
		uc.logger.Error("failed to load conversations", zap.String("user_id", viewer.ID), zap.Error(err))
		return []domain.Conversation{}, fmt.Errorf("MessageUsecase.Conversations: %w: %w", domain.ErrRemoteQuery, err)
	}

	convs := groupConversations(viewer.ID, msgs)
	uc.attachNames(ctx, convs)
	return convs, nil
}

// groupConversations expects msgs newest first.
func groupConversations(viewerID string, msgs []domain.Message) []domain.Conversation {
	convs := []domain.Conversation{}
	index := make(map[string]int)
	for _, m := range msgs {
		other := m.SenderID
		if other == viewerID {
			other = m.ReceiverID
		}
		i, seen := index[other]
		if !seen {
			i = len(convs)
			index[other] = i
			convs = append(convs, domain.Conversation{
				UserID:        other,
				LastMessage:   preview(m.Content),
				LastMessageAt: m.CreatedAt,
			})
		}
		if m.ReceiverID == viewerID && !m.IsRead {
			convs[i].UnreadCount++
		}
	}
	return convs
}

func (uc *MessageUsecase) attachNames(ctx context.Context, convs []domain.Conversation) {
	var names map[string]string
	if uc.users != nil && len(convs) > 0 {
		ids := make([]string, 0, len(convs))
		for _, c := range convs {
			ids = append(ids, c.UserID)
		}
		var err error
		if names, err = uc.users.DisplayNames(ctx, ids); err != nil {
			uc.logger.Warn("failed to resolve counterpart names", zap.Error(err))
		}
	}
	for i := range convs {
		convs[i].UserName = DefaultUserName
		if name := names[convs[i].UserID]; name != "" {
			convs[i].UserName = name
		}
	}
}

func preview(content string) string {
	if utf8.RuneCountInString(content) <= previewLength {
		return content
	}
	return string([]rune(content)[:previewLength])
}
