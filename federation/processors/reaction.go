package processors

import (
	"fmt"

	"github.com/deemkeen/stegodon/domain"
	"github.com/deemkeen/stegodon/federation"
	"github.com/google/uuid"
)

// ReactionResult reports the outcome of processing an inbound Like/EmojiReact.
type ReactionResult int

const (
	ReactionCreated ReactionResult = iota
	ReactionDuplicate
)

// ReactionProcessor handles inbound Like and EmojiReact activities
// which share one table: plain Like stores an
// empty/heart Reaction string, EmojiReact stores the emoji content.
type ReactionProcessor struct {
	db    Database
	fetch ActorFetcher
}

func NewReactionProcessor(db Database, fetch ActorFetcher) *ReactionProcessor {
	return &ReactionProcessor{db: db, fetch: fetch}
}

func (p *ReactionProcessor) Process(activity Activity, reactionContent string) (ReactionResult, error) {
	if dup, _ := p.db.HasLikeByURI(activity.ID); dup {
		return ReactionDuplicate, nil
	}

	objectURI := ObjectRef(activity.Object)
	if objectURI == "" {
		return 0, federation.NewError(federation.ErrKindBadRequest, fmt.Errorf("reaction missing object"))
	}

	err, note := p.db.ReadNoteByURI(objectURI)
	if err != nil || note == nil {
		return 0, federation.NewError(federation.ErrKindNotFound, fmt.Errorf("note not found: %s", objectURI))
	}

	remoteActor, err := p.fetch(activity.Actor)
	if err != nil {
		return 0, federation.NewError(federation.ErrKindFederation, fmt.Errorf("resolve reacting actor: %w", err))
	}

	reaction := reactionContent
	if reaction == "" {
		reaction = "❤️"
	}

	like := &domain.Like{
		Id:        uuid.New(),
		AccountId: remoteActor.Id,
		NoteId:    note.Id,
		URI:       activity.ID,
		Reaction:  reaction,
	}
	if err := p.db.CreateLike(like); err != nil {
		return 0, federation.NewError(federation.ErrKindDatabase, fmt.Errorf("create like: %w", err))
	}
	if err := p.db.IncrementLikeCountByNoteId(note.Id); err != nil {
		return 0, federation.NewError(federation.ErrKindDatabase, fmt.Errorf("increment like count: %w", err))
	}

	if err, author := p.db.ReadAccByUsername(note.CreatedBy); err == nil && author != nil {
		notification := &domain.Notification{
			Id:        uuid.New(),
			AccountId: author.Id,
			Type:      "reaction",
			SourceURI: activity.Actor,
			NoteId:    &note.Id,
		}
		if err := p.db.CreateNotification(notification); err != nil {
			return 0, federation.NewError(federation.ErrKindDatabase, fmt.Errorf("create notification: %w", err))
		}
	}

	return ReactionCreated, nil
}
