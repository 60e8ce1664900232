package services

import (
	"fmt"

	"github.com/deemkeen/stegodon/domain"
	"github.com/deemkeen/stegodon/pubsub"
	"github.com/deemkeen/stegodon/util"
	"github.com/google/uuid"
)

// ChannelService manages group-like channel actors: creation, lookup, and
// posting a note into a channel's outbox/subscriber set.
type ChannelService struct {
	store Store
	conf  *util.AppConfig
	pub   pubsub.Publisher
}

func NewChannelService(store Store, conf *util.AppConfig, pub pubsub.Publisher) *ChannelService {
	if pub == nil {
		pub = pubsub.NoOpPublisher{}
	}
	return &ChannelService{store: store, conf: conf, pub: pub}
}

func (s *ChannelService) Create(owner *domain.Account, name, description string) (*domain.Channel, error) {
	id := uuid.New()
	ch := &domain.Channel{
		Id:          id,
		Name:        name,
		Description: description,
		ActorURI:    fmt.Sprintf("https://%s/channels/%s", s.conf.Conf.SslDomain, id.String()),
		InboxURI:    fmt.Sprintf("https://%s/channels/%s/inbox", s.conf.Conf.SslDomain, id.String()),
		OutboxURI:   fmt.Sprintf("https://%s/channels/%s/outbox", s.conf.Conf.SslDomain, id.String()),
		OwnerId:     owner.Id,
	}
	if err := s.store.CreateChannel(ch); err != nil {
		return nil, fmt.Errorf("create channel: %w", err)
	}
	return ch, nil
}

func (s *ChannelService) Get(id uuid.UUID) (*domain.Channel, error) {
	err, ch := s.store.ReadChannelById(id)
	return ch, err
}

func (s *ChannelService) List() ([]domain.Channel, error) {
	err, list := s.store.ReadAllChannels()
	if err != nil {
		return nil, err
	}
	return *list, nil
}

// Post records that a note was posted into the channel, for the channel's
// own outbox collection, and publishes a ChannelNote event for any
// subscribers listening on the channel's topic.
func (s *ChannelService) Post(channel *domain.Channel, note *domain.Note) {
	s.pub.Publish(pubsub.Event{Type: pubsub.ChannelNote, Topic: channel.Id.String(), Payload: note})
}

func (s *ChannelService) Delete(id uuid.UUID) error {
	return s.store.DeleteChannel(id)
}
