package services

import (
	"fmt"

	"github.com/deemkeen/stegodon/domain"
	"github.com/deemkeen/stegodon/pubsub"
	"github.com/google/uuid"
)

// MessageService handles direct messages between two local actors. Remote
// DMs arrive as Create(Note) with a "to"-only audience, which the ingestion
// path (federation/processors.CreateProcessor) already handles generically;
// this service only covers the locally-originated side. Deletion is
// intentionally not exposed here: history is preserved by default per the
// Message deletion Open Question resolution recorded in DESIGN.md.
type MessageService struct {
	store Store
	pub   pubsub.Publisher
}

func NewMessageService(store Store, pub pubsub.Publisher) *MessageService {
	if pub == nil {
		pub = pubsub.NoOpPublisher{}
	}
	return &MessageService{store: store, pub: pub}
}

func (s *MessageService) Send(sender *domain.Account, recipient *domain.Account, text string) (*domain.Message, error) {
	msg := &domain.Message{
		Id:          uuid.New(),
		SenderId:    sender.Id,
		RecipientId: recipient.Id,
		Text:        text,
	}
	if err := s.store.CreateMessage(msg); err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	s.pub.Publish(pubsub.Event{Type: pubsub.DirectMessage, Topic: recipient.Id.String(), Payload: msg})
	return msg, nil
}

func (s *MessageService) Conversation(a, b uuid.UUID, limit int) ([]domain.Message, error) {
	err, msgs := s.store.ReadConversation(a, b, limit)
	if err != nil {
		return nil, err
	}
	return *msgs, nil
}

func (s *MessageService) MarkRead(id uuid.UUID) error {
	return s.store.MarkMessageRead(id)
}

func (s *MessageService) UnreadCount(recipientId uuid.UUID) (int, error) {
	return s.store.CountUnreadMessages(recipientId)
}
