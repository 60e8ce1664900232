package processors

import (
	"fmt"
	"log"

	"github.com/google/uuid"
)

// Dispatcher routes a decoded inbound Activity to the processor for its
// type, one processor per activity type. It is
// the single entry point web/ inbox handlers call after signature
// verification.
type Dispatcher struct {
	follow   *FollowProcessor
	undo     *UndoProcessor
	reaction *ReactionProcessor
	announce *AnnounceProcessor
	create   *CreateProcessor
	delete_  *DeleteProcessor
	update   *UpdateProcessor
	move     *MoveProcessor
}

func NewDispatcher(db Database, fetch ActorFetcher, sendAccept AcceptSender) *Dispatcher {
	return &Dispatcher{
		follow:   NewFollowProcessor(db, fetch, sendAccept),
		undo:     NewUndoProcessor(db),
		reaction: NewReactionProcessor(db, fetch),
		announce: NewAnnounceProcessor(db, fetch),
		create:   NewCreateProcessor(db, fetch),
		delete_:  NewDeleteProcessor(db),
		update:   NewUpdateProcessor(db),
		move:     NewMoveProcessor(db),
	}
}

// Dispatch processes activity, given the local account id addressed by the
// inbox this activity arrived on (used by Follow; ignored by types that
// don't need it).
func (d *Dispatcher) Dispatch(activity Activity, localTargetAccountId uuid.UUID) (string, error) {
	switch activity.Type {
	case "Follow":
		result, err := d.follow.Process(activity, localTargetAccountId)
		return fmt.Sprintf("follow:%d", result), err
	case "Undo":
		result, err := d.undo.Process(activity)
		return fmt.Sprintf("undo:%d", result), err
	case "Like", "EmojiReact":
		content := ""
		if obj, ok := activity.Object.(map[string]any); ok {
			if c, ok := obj["content"].(string); ok {
				content = c
			}
			if c, ok := obj["_misskey_reaction"].(string); ok && c != "" {
				content = c
			}
		}
		result, err := d.reaction.Process(activity, content)
		return fmt.Sprintf("reaction:%d", result), err
	case "Announce":
		result, err := d.announce.Process(activity)
		return fmt.Sprintf("announce:%d", result), err
	case "Create":
		result, err := d.create.Process(activity)
		return fmt.Sprintf("create:%d", result), err
	case "Delete":
		result, err := d.delete_.Process(activity)
		return fmt.Sprintf("delete:%d", result), err
	case "Update":
		result, err := d.update.Process(activity)
		return fmt.Sprintf("update:%d", result), err
	case "Move":
		err := d.move.Process(activity)
		return "move", err
	case "Accept":
		followURI := ObjectRef(activity.Object)
		err := ProcessAccept(d.followDB(), followURI)
		return "accept", err
	default:
		log.Printf("federation: ignoring unsupported activity type %q", activity.Type)
		return "ignored", nil
	}
}

func (d *Dispatcher) followDB() Database {
	return d.follow.db
}
