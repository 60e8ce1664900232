package processors

import (
	"fmt"

	"github.com/deemkeen/stegodon/federation"
)

// DeleteResult mirrors misskey-rs's DeleteProcessor outcome set: a Delete
// can target either a note or the actor itself (self-delete/account
// deletion), and an unknown object is reported rather than treated as an
// error, since at-least-once delivery means duplicate Deletes are routine.
type DeleteResult int

const (
	DeleteNotFound DeleteResult = iota
	DeleteActivityRemoved
	DeleteActorRemoved
)

// DeleteProcessor handles inbound Delete activities: deleting a
// cached remote activity/object record, or — when object == actor — the
// remote actor itself.
type DeleteProcessor struct {
	db Database
}

func NewDeleteProcessor(db Database) *DeleteProcessor {
	return &DeleteProcessor{db: db}
}

func (p *DeleteProcessor) Process(activity Activity) (DeleteResult, error) {
	objectURI := ObjectRef(activity.Object)
	if objectURI == "" {
		return 0, federation.NewError(federation.ErrKindBadRequest, fmt.Errorf("delete missing object"))
	}

	if objectURI == activity.Actor {
		err, actor := p.db.ReadRemoteAccountByActorURI(activity.Actor)
		if err != nil || actor == nil {
			return DeleteNotFound, nil
		}
		if err := p.db.DeleteRemoteAccount(actor.Id); err != nil {
			return 0, federation.NewError(federation.ErrKindDatabase, fmt.Errorf("delete remote account: %w", err))
		}
		return DeleteActorRemoved, nil
	}

	err, cached := p.db.ReadActivityByObjectURI(objectURI)
	if err != nil || cached == nil {
		return DeleteNotFound, nil
	}
	if cached.ActorURI != activity.Actor {
		return 0, federation.NewError(federation.ErrKindForbidden, fmt.Errorf("delete actor mismatch for %s", objectURI))
	}
	if err := p.db.DeleteActivity(cached.Id); err != nil {
		return 0, federation.NewError(federation.ErrKindDatabase, fmt.Errorf("delete cached activity: %w", err))
	}
	return DeleteActivityRemoved, nil
}
