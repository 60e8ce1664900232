package services

import (
	"github.com/deemkeen/stegodon/domain"
	"github.com/google/uuid"
)

// NotificationService generates the "pending notification" (a follow
// request, reaction, or mention arriving) and "reciprocal notification"
// (a follow getting accepted) side effects. Most writers call
// CreateNotification directly (FollowService and the inbound activity
// processors); this service is the read side plus a generic Create
// for callers (mentions, channel posts) that don't have a dedicated
// service of their own.
type NotificationService struct {
	store Store
}

func NewNotificationService(store Store) *NotificationService {
	return &NotificationService{store: store}
}

func (s *NotificationService) Create(accountId uuid.UUID, kind, sourceURI string, noteId *uuid.UUID) error {
	return s.store.CreateNotification(&domain.Notification{
		Id:        uuid.New(),
		AccountId: accountId,
		Type:      kind,
		SourceURI: sourceURI,
		NoteId:    noteId,
	})
}

func (s *NotificationService) Unread(accountId uuid.UUID, limit int) ([]domain.Notification, error) {
	err, list := s.store.ReadNotificationsByAccountId(accountId, limit)
	if err != nil {
		return nil, err
	}
	return *list, nil
}

func (s *NotificationService) UnreadCount(accountId uuid.UUID) (int, error) {
	return s.store.CountUnreadNotifications(accountId)
}

func (s *NotificationService) ClearAll(accountId uuid.UUID) error {
	return s.store.DeleteAllNotifications(accountId)
}
