package processors

import (
	"fmt"

	"github.com/deemkeen/stegodon/domain"
	"github.com/deemkeen/stegodon/federation"
)

// UpdateResult mirrors misskey-rs's UpdateProcessor outcome set.
type UpdateResult int

const (
	UpdateIgnored UpdateResult = iota
	UpdateActorUpdated
	UpdateObjectUpdated
)

// UpdateProcessor handles inbound Update activities, dispatching on
// whether the embedded object is a Person (actor profile refresh) or a
// Note (edited remote post).
type UpdateProcessor struct {
	db Database
}

func NewUpdateProcessor(db Database) *UpdateProcessor {
	return &UpdateProcessor{db: db}
}

func (p *UpdateProcessor) Process(activity Activity) (UpdateResult, error) {
	obj, ok := activity.Object.(map[string]any)
	if !ok {
		return UpdateIgnored, nil
	}

	objType, _ := obj["type"].(string)
	switch objType {
	case "Person", "Service", "Group", "Application", "Organization":
		return p.updateActor(activity.Actor, obj)
	case "Note":
		return p.updateObject(activity.Actor, obj)
	default:
		return UpdateIgnored, nil
	}
}

func (p *UpdateProcessor) updateActor(actorURI string, obj map[string]any) (UpdateResult, error) {
	err, existing := p.db.ReadRemoteAccountByActorURI(actorURI)
	if err != nil || existing == nil {
		return 0, federation.NewError(federation.ErrKindNotFound, fmt.Errorf("unknown actor: %s", actorURI))
	}

	updated := *existing
	if name, ok := obj["name"].(string); ok {
		updated.DisplayName = name
	}
	if summary, ok := obj["summary"].(string); ok {
		updated.Summary = summary
	}
	if locked, ok := obj["manuallyApprovesFollowers"].(bool); ok {
		updated.IsLocked = locked
	}
	if icon, ok := obj["icon"].(map[string]any); ok {
		if url, ok := icon["url"].(string); ok {
			updated.AvatarURL = url
		}
	}

	if err := p.db.UpdateRemoteAccount(&updated); err != nil {
		return 0, federation.NewError(federation.ErrKindDatabase, fmt.Errorf("update remote account: %w", err))
	}
	return UpdateActorUpdated, nil
}

// updateObject handles a remote note edit through the activities cache only.
// When no record exists for the object it caches a new "Update" record;
// when one exists it checks that the updating actor matches and leaves the
// record unchanged. It never modifies notes rows, so a remote note mirrored
// by CreateProcessor keeps its original text, content warning and tags.
func (p *UpdateProcessor) updateObject(actorURI string, obj map[string]any) (UpdateResult, error) {
	objectURI, _ := obj["id"].(string)
	if objectURI == "" {
		return 0, federation.NewError(federation.ErrKindBadRequest, fmt.Errorf("update note missing id"))
	}

	err, cached := p.db.ReadActivityByObjectURI(objectURI)
	if err != nil || cached == nil {
		record := &domain.Activity{
			ActivityURI: objectURI + "#update",
			ObjectURI:   objectURI,
			ActorURI:    actorURI,
			Type:        "Update",
		}
		if err := p.db.CreateActivity(record); err != nil {
			return 0, federation.NewError(federation.ErrKindDatabase, fmt.Errorf("cache updated object: %w", err))
		}
		return UpdateObjectUpdated, nil
	}

	if cached.ActorURI != actorURI {
		return 0, federation.NewError(federation.ErrKindForbidden, fmt.Errorf("update actor mismatch for %s", objectURI))
	}
	return UpdateObjectUpdated, nil
}
