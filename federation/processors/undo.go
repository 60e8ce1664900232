package processors

import (
	"fmt"
	"log"

	"github.com/deemkeen/stegodon/federation"
)

// UndoResult reports which kind of relationship an Undo reversed.
type UndoResult int

const (
	UndoFollow UndoResult = iota
	UndoLike
	UndoAnnounce
	UndoIgnored
)

// UndoProcessor handles inbound Undo activities, dispatching on the
// wrapped activity's own type since Undo's object is always the original
// activity (or its id).
type UndoProcessor struct {
	db Database
}

func NewUndoProcessor(db Database) *UndoProcessor {
	return &UndoProcessor{db: db}
}

// Process expects activity.Object to be either the original activity's URI
// string, or an embedded object map carrying "type" and "id"/"actor"/
// "object" fields (the two inbound shapes peer servers use).
func (p *UndoProcessor) Process(activity Activity) (UndoResult, error) {
	obj, ok := activity.Object.(map[string]any)
	if !ok {
		// Bare URI form: only a Follow can be matched by its URI here.
		uri := ObjectRef(activity.Object)
		if uri == "" {
			return UndoIgnored, federation.NewError(federation.ErrKindBadRequest, fmt.Errorf("undo missing object"))
		}
		if found, err := p.undoFollowByURI(uri); found {
			if err != nil {
				return UndoIgnored, federation.NewError(federation.ErrKindDatabase, err)
			}
			return UndoFollow, nil
		}
		return UndoIgnored, nil
	}

	innerType, _ := obj["type"].(string)
	switch innerType {
	case "Follow":
		uri, _ := obj["id"].(string)
		if uri == "" {
			return UndoIgnored, federation.NewError(federation.ErrKindBadRequest, fmt.Errorf("undo follow missing id"))
		}
		if _, err := p.undoFollowByURI(uri); err != nil {
			return UndoIgnored, federation.NewError(federation.ErrKindDatabase, err)
		}
		return UndoFollow, nil

	case "Like", "EmojiReact":
		uri, _ := obj["id"].(string)
		err, like := p.db.ReadLikeByURI(uri)
		if err != nil || like == nil {
			return UndoIgnored, nil
		}
		if err := p.db.DeleteLikeByURI(uri); err != nil {
			return UndoIgnored, federation.NewError(federation.ErrKindDatabase, err)
		}
		if err := p.db.DecrementLikeCountByNoteId(like.NoteId); err != nil {
			log.Printf("federation: decrement like count for note %s: %v", like.NoteId, err)
		}
		return UndoLike, nil

	case "Announce":
		objectURI, _ := obj["object"].(string)
		if err := p.db.DecrementBoostCountByObjectURI(objectURI); err != nil {
			return UndoIgnored, federation.NewError(federation.ErrKindDatabase, err)
		}
		return UndoAnnounce, nil

	default:
		return UndoIgnored, nil
	}
}

// undoFollowByURI deletes the Following/FollowRequest identified by uri
// and, if it had been accepted, decrements the reciprocal counter on
// whichever side is the RemoteAccount — AccountId for an inbound follow
// (IsLocal=false, the remote actor's following count), TargetAccountId
// for an outbound one (IsLocal=true, the remote actor's followers count).
// The bool return reports whether a matching Follow row was found at all,
// distinguishing "nothing to undo" from a genuine delete failure.
func (p *UndoProcessor) undoFollowByURI(uri string) (bool, error) {
	err, follow := p.db.ReadFollowByURI(uri)
	if err != nil || follow == nil {
		return false, nil
	}

	if err := p.db.DeleteFollowByURI(uri); err != nil {
		return true, err
	}

	if follow.Accepted {
		var countErr error
		if follow.IsLocal {
			countErr = p.db.DecrementFollowersCnt(follow.TargetAccountId)
		} else {
			countErr = p.db.DecrementFollowingCnt(follow.AccountId)
		}
		if countErr != nil {
			log.Printf("federation: decrement follow count for undo of %s: %v", uri, countErr)
		}
	}

	return true, nil
}
