package processors

import (
	"fmt"

	"github.com/deemkeen/stegodon/domain"
	"github.com/deemkeen/stegodon/federation"
	"github.com/google/uuid"
)

// AnnounceResult reports the outcome of processing an inbound Announce (boost).
type AnnounceResult int

const (
	AnnounceCreated AnnounceResult = iota
	AnnounceDuplicate
)

// AnnounceProcessor handles inbound Announce/boost activities.
// Unlike Like, the boosted object is frequently itself remote and not
// locally stored as a Note, so boosts are tracked purely by object URI
// rather than requiring a local Note row.
type AnnounceProcessor struct {
	db    Database
	fetch ActorFetcher
}

func NewAnnounceProcessor(db Database, fetch ActorFetcher) *AnnounceProcessor {
	return &AnnounceProcessor{db: db, fetch: fetch}
}

func (p *AnnounceProcessor) Process(activity Activity) (AnnounceResult, error) {
	objectURI := ObjectRef(activity.Object)
	if objectURI == "" {
		return 0, federation.NewError(federation.ErrKindBadRequest, fmt.Errorf("announce missing object"))
	}

	remoteActor, err := p.fetch(activity.Actor)
	if err != nil {
		return 0, federation.NewError(federation.ErrKindFederation, fmt.Errorf("resolve announcing actor: %w", err))
	}

	if dup, _ := p.db.HasBoostFromRemote(remoteActor.Id, objectURI); dup {
		return AnnounceDuplicate, nil
	}

	boost := &domain.Boost{
		Id:              uuid.New(),
		RemoteAccountId: remoteActor.Id,
		ObjectURI:       objectURI,
	}
	if err := p.db.CreateBoostFromRemote(boost); err != nil {
		return 0, federation.NewError(federation.ErrKindDatabase, fmt.Errorf("create boost: %w", err))
	}

	if err, note := p.db.ReadNoteByURI(objectURI); err == nil && note != nil {
		if err, author := p.db.ReadAccByUsername(note.CreatedBy); err == nil && author != nil {
			notification := &domain.Notification{
				Id:        uuid.New(),
				AccountId: author.Id,
				Type:      "boost",
				SourceURI: activity.Actor,
				NoteId:    &note.Id,
			}
			_ = p.db.CreateNotification(notification)
		}
	}

	return AnnounceCreated, nil
}
