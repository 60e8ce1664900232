package processors

import (
	"fmt"

	"github.com/deemkeen/stegodon/federation"
)

// MoveProcessor handles inbound Move activities (account migration):
// marks the old actor's moved_to pointer so follower-side UI can surface
// "this account moved" without unfollowing automatically.
type MoveProcessor struct {
	db Database
}

func NewMoveProcessor(db Database) *MoveProcessor {
	return &MoveProcessor{db: db}
}

func (p *MoveProcessor) Process(activity Activity) error {
	targetURI := ObjectRef(activity.Object)
	if targetURI == "" {
		return federation.NewError(federation.ErrKindBadRequest, fmt.Errorf("move missing target"))
	}

	err, actor := p.db.ReadRemoteAccountByActorURI(activity.Actor)
	if err != nil || actor == nil {
		return federation.NewError(federation.ErrKindNotFound, fmt.Errorf("unknown actor: %s", activity.Actor))
	}

	updated := *actor
	updated.MovedToURI = targetURI
	if err := p.db.UpdateRemoteAccount(&updated); err != nil {
		return federation.NewError(federation.ErrKindDatabase, fmt.Errorf("record move: %w", err))
	}
	return nil
}
