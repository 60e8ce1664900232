package processors

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/deemkeen/stegodon/domain"
	"github.com/deemkeen/stegodon/federation"
	"github.com/deemkeen/stegodon/util"
	"github.com/google/uuid"
)

// CreateResult reports the outcome of processing an inbound Create(Note).
type CreateResult int

const (
	CreateIngested CreateResult = iota
	CreateDuplicate
)

const publicStreamURI = "https://www.w3.org/ns/activitystreams#Public"

// CreateProcessor handles inbound Create(Note) activities: it
// mirrors the remote note into the notes table (decoding visibility from
// to/cc, resolving reply/thread linkage, extracting mentions and hashtags
// from the activity's tag array, and converting the HTML content field to
// plaintext), and bumps the parent's reply count when InReplyTo resolves
// to a known note.
type CreateProcessor struct {
	db    Database
	fetch ActorFetcher
}

func NewCreateProcessor(db Database, fetch ActorFetcher) *CreateProcessor {
	return &CreateProcessor{db: db, fetch: fetch}
}

func (p *CreateProcessor) Process(activity Activity) (CreateResult, error) {
	if err, existing := p.db.ReadActivityByURI(activity.ID); err == nil && existing != nil {
		return CreateDuplicate, nil
	}

	note, ok := activity.Object.(map[string]any)
	if !ok {
		return 0, federation.NewError(federation.ErrKindBadRequest, fmt.Errorf("create activity missing note object"))
	}
	objectURI, _ := note["id"].(string)
	if objectURI == "" {
		return 0, federation.NewError(federation.ErrKindBadRequest, fmt.Errorf("create note missing id"))
	}
	if err, existing := p.db.ReadNoteByURI(objectURI); err == nil && existing != nil {
		return CreateDuplicate, nil
	}

	remoteActor, err := p.fetch(activity.Actor)
	if err != nil {
		return 0, federation.NewError(federation.ErrKindFederation, fmt.Errorf("resolve author actor: %w", err))
	}

	inReplyTo, _ := note["inReplyTo"].(string)
	rawJSON, _ := json.Marshal(activity)

	record := &domain.Activity{
		Id:           uuid.New(),
		ActivityURI:  activity.ID,
		ObjectURI:    objectURI,
		ActorURI:     activity.Actor,
		Type:         "Create",
		InReplyToURI: inReplyTo,
		RawJSON:      string(rawJSON),
	}
	if err := p.db.CreateActivity(record); err != nil {
		return 0, federation.NewError(federation.ErrKindDatabase, fmt.Errorf("cache create activity: %w", err))
	}

	to := stringSlice(note["to"])
	cc := stringSlice(note["cc"])
	mentions, hashtags := extractTags(note["tag"])

	visibility := decodeVisibility(to, cc)
	var visibleUserIds []uuid.UUID
	if visibility == domain.VisibilitySpecified {
		for _, m := range mentions {
			if m.actorURI == "" {
				continue
			}
			if mentioned, err := p.fetch(m.actorURI); err == nil && mentioned != nil {
				visibleUserIds = append(visibleUserIds, mentioned.Id)
			}
		}
	}

	var threadId *uuid.UUID
	if inReplyTo != "" {
		if err := p.db.IncrementReplyCountByURI(inReplyTo); err != nil {
			log.Printf("federation: increment reply count for %s: %v", inReplyTo, err)
		}
		if err, parent := p.db.ReadNoteByURI(inReplyTo); err == nil && parent != nil {
			if parent.ThreadId != nil {
				threadId = parent.ThreadId
			} else {
				threadId = &parent.Id
			}
		}
	}

	content, _ := note["content"].(string)
	summary, _ := note["summary"].(string)
	sensitive, _ := note["sensitive"].(bool)

	remoteNote := &domain.Note{
		CreatedBy:       fmt.Sprintf("%s@%s", remoteActor.Username, remoteActor.Domain),
		Message:         util.HTMLToPlainText(content),
		Visibility:      visibility,
		InReplyToURI:    inReplyTo,
		ObjectURI:       objectURI,
		Federated:       true,
		Sensitive:       sensitive,
		ContentWarning:  summary,
		IsLocal:         false,
		Host:            remoteActor.Domain,
		RemoteAccountId: &remoteActor.Id,
		ThreadId:        threadId,
		Tags:            hashtags,
		Reactions:       map[string]int{},
		VisibleUserIds:  visibleUserIds,
	}
	if err := p.db.CreateRemoteNote(remoteNote); err != nil {
		return 0, federation.NewError(federation.ErrKindDatabase, fmt.Errorf("create remote note: %w", err))
	}

	for _, m := range mentions {
		mention := &domain.NoteMention{
			Id:       uuid.New(),
			NoteId:   remoteNote.Id,
			Username: m.username,
			Domain:   m.domain,
			ActorURI: m.actorURI,
		}
		if err := p.db.CreateNoteMention(mention); err != nil {
			log.Printf("federation: record mention on %s: %v", objectURI, err)
		}
	}

	return CreateIngested, nil
}

type parsedMention struct {
	username string
	domain   string
	actorURI string
}

// extractTags splits an activity's tag[] array into Mention and Hashtag
// entries per AS2: {"type":"Mention","href":"<actor uri>","name":"@user@host"}
// and {"type":"Hashtag","name":"#tag"}.
func extractTags(raw any) ([]parsedMention, []string) {
	items, ok := raw.([]any)
	if !ok {
		return nil, nil
	}

	var mentions []parsedMention
	var hashtags []string
	for _, item := range items {
		tag, ok := item.(map[string]any)
		if !ok {
			continue
		}
		tagType, _ := tag["type"].(string)
		name, _ := tag["name"].(string)
		switch tagType {
		case "Mention":
			href, _ := tag["href"].(string)
			username, domain := splitAcct(name)
			mentions = append(mentions, parsedMention{username: username, domain: domain, actorURI: href})
		case "Hashtag":
			hashtags = append(hashtags, strings.TrimPrefix(name, "#"))
		}
	}
	return mentions, hashtags
}

// splitAcct parses a Mention tag's name field ("@user@host" or "@user") into
// its username and domain parts.
func splitAcct(name string) (string, string) {
	name = strings.TrimPrefix(name, "@")
	parts := strings.SplitN(name, "@", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return parts[0], ""
}

// decodeVisibility applies this system's addressing rules: to=[Public]
// is Public, cc=[Public]-only is Home (unlisted), a bare followers
// collection in to is Followers, and anything else is Specified (scoped to
// the mentioned actors, resolved separately as explicit recipients).
func decodeVisibility(to, cc []string) domain.Visibility {
	if contains(to, publicStreamURI) {
		return domain.VisibilityPublic
	}
	if contains(cc, publicStreamURI) {
		return domain.VisibilityHome
	}
	if hasFollowersCollection(to) {
		return domain.VisibilityFollowers
	}
	return domain.VisibilitySpecified
}

func hasFollowersCollection(addrs []string) bool {
	for _, a := range addrs {
		if strings.HasSuffix(a, "/followers") {
			return true
		}
	}
	return false
}

func contains(list []string, target string) bool {
	for _, v := range list {
		if v == target {
			return true
		}
	}
	return false
}

// stringSlice normalizes an AS2 to/cc field, which may decode as a single
// string or a []any of strings, into a []string.
func stringSlice(raw any) []string {
	switch v := raw.(type) {
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
