package services

import (
	"fmt"
	"strings"

	"github.com/deemkeen/stegodon/activitypub"
	"github.com/deemkeen/stegodon/domain"
	"github.com/deemkeen/stegodon/pubsub"
	"github.com/deemkeen/stegodon/util"
	"github.com/google/uuid"
)

// ReactionService adds/removes a Like/EmojiReact on a note. Custom-emoji
// shortcodes (":blobcat:" local, ":blobcat@remote.example:" for a federated
// emoji) are persisted on Like.Reaction as given, in the same `:name@host:`
// convention C6.6 uses on ingestion.
type ReactionService struct {
	store Store
	conf  *util.AppConfig
	pub   pubsub.Publisher
}

func NewReactionService(store Store, conf *util.AppConfig, pub pubsub.Publisher) *ReactionService {
	if pub == nil {
		pub = pubsub.NoOpPublisher{}
	}
	return &ReactionService{store: store, conf: conf, pub: pub}
}

// normalize looks a shortcode like ":blobcat:" or ":blobcat@remote:" up in
// the emoji registry, but returns the reaction string unchanged whether or
// not a matching emoji is registered; a string that isn't a shortcode (a
// literal emoji codepoint) is returned without a lookup.
func (s *ReactionService) normalize(reaction string) string {
	if !strings.HasPrefix(reaction, ":") || !strings.HasSuffix(reaction, ":") {
		return reaction
	}
	body := strings.TrimSuffix(strings.TrimPrefix(reaction, ":"), ":")
	name, host, _ := strings.Cut(body, "@")

	var err error
	var emoji *domain.Emoji
	if host == "" {
		err, emoji = s.store.ReadEmojiByShortcode(name)
	} else {
		err, emoji = s.store.ReadEmojiByNameAndHost(name, host)
	}
	if err != nil || emoji == nil {
		return reaction
	}
	return reaction
}

func (s *ReactionService) Add(actor *domain.Account, note *domain.Note, reaction string) error {
	reaction = s.normalize(reaction)
	if reaction == "" {
		reaction = "❤️"
	}

	has, err := s.store.HasLike(actor.Id, note.Id)
	if err != nil {
		return err
	}
	if has {
		return fmt.Errorf("already reacted to note %s", note.Id)
	}

	likeURI := fmt.Sprintf("https://%s/activities/%s", s.conf.Conf.SslDomain, uuid.New().String())
	if err := s.store.CreateLike(&domain.Like{
		Id:        uuid.New(),
		AccountId: actor.Id,
		NoteId:    note.Id,
		URI:       likeURI,
		Reaction:  reaction,
	}); err != nil {
		return fmt.Errorf("create like: %w", err)
	}
	if err := s.store.IncrementLikeCountByNoteId(note.Id); err != nil {
		return err
	}

	s.pub.Publish(pubsub.Event{Type: pubsub.ReactionAdded, Topic: note.Id.String(), Payload: reaction})
	return nil
}

func (s *ReactionService) AddToRemote(actor *domain.Account, note *domain.Note, reaction string, targetInboxURI string) error {
	if err := s.Add(actor, note, reaction); err != nil {
		return err
	}
	return activitypub.SendLike(note, reaction, targetInboxURI, actor, s.conf)
}

func (s *ReactionService) Remove(actorId, noteId uuid.UUID) error {
	existing, err := s.store.HasLike(actorId, noteId)
	if err != nil {
		return err
	}
	if !existing {
		return nil
	}
	if err := s.store.DeleteLikeByAccountAndNote(actorId, noteId); err != nil {
		return err
	}
	if err := s.store.DecrementLikeCountByNoteId(noteId); err != nil {
		return err
	}
	s.pub.Publish(pubsub.Event{Type: pubsub.ReactionRemoved, Topic: noteId.String(), Payload: noteId})
	return nil
}
