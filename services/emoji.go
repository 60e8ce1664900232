package services

import (
	"fmt"

	"github.com/deemkeen/stegodon/domain"
	"github.com/google/uuid"
)

// EmojiService is the custom emoji registry backing the `:name@host:`
// rewrite described in C6.6 and the ingestion-side Emoji tag lookup in
// C6.1.
type EmojiService struct {
	store Store
}

func NewEmojiService(store Store) *EmojiService {
	return &EmojiService{store: store}
}

func (s *EmojiService) RegisterLocal(name, imageURL string) (*domain.Emoji, error) {
	e := &domain.Emoji{Id: uuid.New(), Name: name, Host: "", ImageURL: imageURL}
	if err := s.store.CreateEmoji(e); err != nil {
		return nil, fmt.Errorf("register emoji: %w", err)
	}
	return e, nil
}

// RegisterRemote caches a remote emoji definition the first time it's seen
// on an inbound activity's Emoji tag.
func (s *EmojiService) RegisterRemote(name, host, imageURL string) (*domain.Emoji, error) {
	if err, existing := s.store.ReadEmojiByNameAndHost(name, host); err == nil && existing != nil {
		return existing, nil
	}
	e := &domain.Emoji{Id: uuid.New(), Name: name, Host: host, ImageURL: imageURL}
	if err := s.store.CreateEmoji(e); err != nil {
		return nil, fmt.Errorf("cache remote emoji: %w", err)
	}
	return e, nil
}

func (s *EmojiService) Resolve(name, host string) (*domain.Emoji, error) {
	var err error
	var e *domain.Emoji
	if host == "" {
		err, e = s.store.ReadEmojiByShortcode(name)
	} else {
		err, e = s.store.ReadEmojiByNameAndHost(name, host)
	}
	return e, err
}

func (s *EmojiService) ListLocal() ([]domain.Emoji, error) {
	err, list := s.store.ReadAllLocalEmoji()
	if err != nil {
		return nil, err
	}
	return *list, nil
}

func (s *EmojiService) Delete(id uuid.UUID) error {
	return s.store.DeleteEmoji(id)
}
