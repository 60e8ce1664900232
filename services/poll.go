package services

import (
	"fmt"
	"time"

	"github.com/deemkeen/stegodon/domain"
	"github.com/deemkeen/stegodon/pubsub"
	"github.com/google/uuid"
)

// PollService attaches a Poll to a note, records votes, and closes polls
// whose expiry has passed. Closing is done by CloseExpired, which no caller
// in this module schedules; ReadExpiredOpenPolls plus CastVote's own transaction give the
// compare-and-set semantics the ScheduledNote Open Question called for —
// sqlite has no SELECT...FOR UPDATE, so the single serialized connection
// (db.Open's SetMaxOpenConns(1)) plus a transaction per vote is the
// substitute safe primitive.
type PollService struct {
	store Store
	pub   pubsub.Publisher
}

func NewPollService(store Store, pub pubsub.Publisher) *PollService {
	if pub == nil {
		pub = pubsub.NoOpPublisher{}
	}
	return &PollService{store: store, pub: pub}
}

func (s *PollService) Create(note *domain.Note, choices []string, expiresAt time.Time, multiple bool) (*domain.Poll, error) {
	p := &domain.Poll{
		Id:        uuid.New(),
		NoteId:    note.Id,
		Choices:   choices,
		Votes:     make([]int, len(choices)),
		ExpiresAt: expiresAt,
		Multiple:  multiple,
	}
	if err := s.store.CreatePoll(p); err != nil {
		return nil, fmt.Errorf("create poll: %w", err)
	}
	return p, nil
}

// Vote looks up the poll attached to noteId and records accountId's vote
// for choice.
func (s *PollService) Vote(noteId, accountId uuid.UUID, choice int) error {
	err, poll := s.store.ReadPollByNoteId(noteId)
	if err != nil || poll == nil {
		return fmt.Errorf("no poll on note %s", noteId)
	}
	if time.Now().After(poll.ExpiresAt) {
		return fmt.Errorf("poll %s has closed", poll.Id)
	}
	if choice < 0 || choice >= len(poll.Choices) {
		return fmt.Errorf("invalid choice %d", choice)
	}

	voted, err := s.store.HasVoted(poll.Id, accountId)
	if err != nil {
		return err
	}
	if voted && !poll.Multiple {
		return fmt.Errorf("account %s already voted on poll %s", accountId, poll.Id)
	}

	if err := s.store.CastVote(poll.Id, accountId, choice); err != nil {
		return fmt.Errorf("cast vote: %w", err)
	}
	return nil
}

// CloseExpired finds polls whose expiry has passed and publishes a close
// notification for each; the
// Poll row itself needs no "closed" flag since ExpiresAt already encodes
// the CAS condition every read checks against.
func (s *PollService) CloseExpired() (int, error) {
	err, polls := s.store.ReadExpiredOpenPolls()
	if err != nil {
		return 0, err
	}
	for _, p := range *polls {
		s.pub.Publish(pubsub.Event{Type: pubsub.Notification, Topic: p.NoteId.String(), Payload: "poll_closed"})
	}
	return len(*polls), nil
}
