package domain

import (
	"fmt"
	"github.com/google/uuid"
	"time"
)

// Visibility is the closed scope enum a Note carries. It is kept as a
// distinct type (rather than a bare string) so invalid scopes can't flow
// through the domain layer from a badly-decoded to/cc pair.
type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityHome      Visibility = "home"
	VisibilityFollowers Visibility = "followers"
	VisibilitySpecified Visibility = "specified"
)

type SaveNote struct {
	UserId       uuid.UUID
	Message      string
	InReplyToURI string // URI of parent post (empty for top-level posts)
}

type Note struct {
	Id        uuid.UUID
	CreatedBy string
	Message   string
	CreatedAt time.Time
	EditedAt  *time.Time // When the note was last edited (nil if never edited)
	// ActivityPub fields
	Visibility     Visibility
	InReplyToURI   string // URI of the note this is replying to
	ObjectURI      string // ActivityPub object URI
	Federated      bool   // Whether to federate this note
	Sensitive      bool   // Contains sensitive content
	ContentWarning string // Content warning text
	// Federation provenance. IsLocal=false notes are mirrored remote notes;
	// Host is the remote author's domain (empty for local notes) and
	// RemoteAccountId identifies the author row in remote_accounts.
	IsLocal         bool
	Host            string
	RemoteAccountId *uuid.UUID
	// RenoteId set with Message empty is a pure boost; set with Message
	// non-empty is a quote. ThreadId groups a reply chain under its root.
	RenoteId *uuid.UUID
	ThreadId *uuid.UUID
	// Tags are hashtags (without the leading '#'); Reactions tallies
	// EmojiReact/Like counts per emoji string, kept in sync with the
	// reactions table by the reaction processor. VisibleUserIds is only
	// populated (and required non-empty) when Visibility is Specified.
	Tags           []string
	Reactions      map[string]int
	VisibleUserIds []uuid.UUID
	// Engagement counters
	ReplyCount int // Number of replies
	LikeCount  int // Number of likes
	BoostCount int // Number of boosts
}

func (note *Note) ToString() string {
	return fmt.Sprintf("\n\tId: %s \n\tCreatedBy: %s \n\tMessage: %s \n\tCreatedAt: %s)", note.Id, note.CreatedBy, note.Message, note.CreatedAt)
}

// HomePost represents a unified post in the home timeline (either local or remote)
type HomePost struct {
	ID         uuid.UUID
	Author     string // @user (local) or @user@domain (remote)
	Content    string
	Time       time.Time
	ObjectURI  string // ActivityPub object id (canonical URI, returns JSON)
	ObjectURL  string // ActivityPub object url (human-readable web UI link, preferred for display)
	IsLocal    bool      // true = local note, false = remote activity
	NoteID     uuid.UUID // id of the notes row (set for local and mirrored remote posts)
	ReplyCount int       // number of replies to this post
	LikeCount  int       // number of likes on this post
	BoostCount int       // number of boosts on this post
}
