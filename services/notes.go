package services

import (
	"fmt"

	"github.com/deemkeen/stegodon/activitypub"
	"github.com/deemkeen/stegodon/domain"
	"github.com/deemkeen/stegodon/pubsub"
	"github.com/deemkeen/stegodon/util"
	"github.com/google/uuid"
)

// NoteService implements create/delete/update/pin for the Note entity and
// the federation side effects that ride along with each (Create/Update/
// Delete activities broadcast to followers).
type NoteService struct {
	store Store
	conf  *util.AppConfig
	pub   pubsub.Publisher
}

func NewNoteService(store Store, conf *util.AppConfig, pub pubsub.Publisher) *NoteService {
	if pub == nil {
		pub = pubsub.NoOpPublisher{}
	}
	return &NoteService{store: store, conf: conf, pub: pub}
}

// Create persists a note, stamps its federation object URI, and (when the
// author's account federates) broadcasts a Create activity to followers.
func (s *NoteService) Create(author *domain.Account, message string) (*domain.Note, error) {
	id, err := s.store.CreateNote(author.Id, message)
	if err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	noteId, ok := id.(uuid.UUID)
	if !ok {
		return nil, fmt.Errorf("create note: unexpected id type %T", id)
	}

	objectURI := fmt.Sprintf("https://%s/notes/%s", s.conf.Conf.SslDomain, noteId.String())
	if err := s.store.SetNoteObjectURI(noteId, objectURI); err != nil {
		return nil, fmt.Errorf("set object uri: %w", err)
	}

	err, note := s.store.ReadNoteById(noteId)
	if err != nil {
		return nil, fmt.Errorf("reload created note: %w", err)
	}

	if s.conf.Conf.WithAp {
		if err := activitypub.SendCreate(note, author, s.conf); err != nil {
			fmt.Printf("services: federate create for %s: %v\n", note.Id, err)
		}
	}

	s.pub.Publish(pubsub.Event{Type: pubsub.NoteCreated, Topic: "timeline:local", Payload: note})
	return note, nil
}

func (s *NoteService) Update(noteId uuid.UUID, author *domain.Account, message string) (*domain.Note, error) {
	if err := s.store.UpdateNoteMessage(noteId, message); err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	err, note := s.store.ReadNoteById(noteId)
	if err != nil {
		return nil, err
	}

	if s.conf.Conf.WithAp {
		if err := activitypub.SendUpdate(note, author, s.conf); err != nil {
			fmt.Printf("services: federate update for %s: %v\n", note.Id, err)
		}
	}
	s.pub.Publish(pubsub.Event{Type: pubsub.NoteUpdated, Topic: "timeline:local", Payload: note})
	return note, nil
}

func (s *NoteService) Delete(noteId uuid.UUID, author *domain.Account) error {
	if err := s.store.DeleteNote(noteId); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if s.conf.Conf.WithAp {
		if err := activitypub.SendDelete(noteId, author, s.conf); err != nil {
			fmt.Printf("services: federate delete for %s: %v\n", noteId, err)
		}
	}
	s.pub.Publish(pubsub.Event{Type: pubsub.NoteDeleted, Topic: "timeline:local", Payload: noteId})
	return nil
}

func (s *NoteService) Pin(accountId, noteId uuid.UUID) error {
	return s.store.PinNote(accountId, noteId)
}

func (s *NoteService) Unpin(accountId, noteId uuid.UUID) error {
	return s.store.UnpinNote(accountId, noteId)
}

func (s *NoteService) PinnedNoteIds(accountId uuid.UUID) ([]uuid.UUID, error) {
	err, ids := s.store.ReadPinnedNoteIds(accountId)
	return ids, err
}
