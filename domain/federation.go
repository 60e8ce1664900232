package domain

import (
	"time"

	"github.com/google/uuid"
)

// RemoteAccount is the persisted representation of a remote ActivityPub actor.
// It corresponds to the non-local half of the Actor entity: local users live in
// Account (see accounts.go), remote users live here. The two are kept as
// separate tables/types, matching how the rest of the package already splits
// local accounts from federation state, rather than merging them into one
// polymorphic Actor struct.
type RemoteAccount struct {
	Id            uuid.UUID
	Username      string
	Domain        string
	ActorURI      string
	DisplayName   string
	Summary       string
	InboxURI      string
	OutboxURI     string
	SharedInbox   string
	PublicKeyPem  string
	AvatarURL     string
	BannerURL     string
	IsLocked      bool // manuallyApprovesFollowers
	IsBot         bool
	IsCat         bool
	IsSuspended   bool
	IsDeleted     bool
	MovedToURI    string
	FollowersCnt  int
	FollowingCnt  int
	NotesCnt      int
	LastFetchedAt time.Time
	CreatedAt     time.Time
}

// Follow represents a directed follow edge. Accepted=false models a pending
// follow request, collapsed into this one table with a flag rather than a
// separate entity (see DESIGN.md); Accepted=true models an active
// Following. IsLocal marks whether the follower-side account is local,
// letting delivery code skip federation for purely local follows.
type Follow struct {
	Id              uuid.UUID
	AccountId       uuid.UUID // follower (local account id, when follower is local)
	TargetAccountId uuid.UUID // followee (remote account id, when followee is remote)
	URI             string    // the Follow activity's id, used to correlate Accept/Undo
	Accepted        bool
	IsLocal         bool
	CreatedAt       time.Time
}

// Activity is a lightweight cache of a remote activity/object we have
// observed, keyed by both its own URI and the object URI it refers to.
// It backs reply-author resolution (extractAuthorFromURI) and renote/boost
// count tracking for remote notes we don't otherwise store in full.
type Activity struct {
	Id           uuid.UUID
	ActivityURI  string
	ObjectURI    string
	ObjectURL    string // the object's web-facing permalink, when it differs from ObjectURI
	ActorURI     string
	Type         string
	InReplyToURI string // object's inReplyTo, for remote-reply lookups in the web UI
	RawJSON      string // the inbound envelope, for rendering remote content in the web UI
	LikeCount    int
	BoostCount   int
	CreatedAt    time.Time
}

// DeliveryQueueItem is a durable outbound delivery job. ActivityJSON is
// the fully-built, pre-signed-string activity payload; signing happens at
// send time so key rotation between enqueue and send is possible.
type DeliveryQueueItem struct {
	Id           uuid.UUID
	ActorId      uuid.UUID // local account id whose key signs this job
	InboxURI     string
	ActivityJSON string
	Attempts     int
	NextRetryAt  time.Time
	CreatedAt    time.Time
}

// Like is a Reaction row restricted to the common case (emoji codepoint or
// shortcode, one per user per note). Reaction holds the actual emoji string
// so that plain Like and EmojiReact share one table.
type Like struct {
	Id        uuid.UUID
	AccountId uuid.UUID
	NoteId    uuid.UUID
	URI       string
	Reaction  string // "❤️" for plain Like/EmojiReact-with-empty-content
	CreatedAt time.Time
}

// Boost is a renote/Announce edge: AccountId is set for a local actor
// boosting, RemoteAccountId for a remote actor's inbound Announce.
type Boost struct {
	Id              uuid.UUID
	AccountId       uuid.UUID
	NoteId          uuid.UUID
	RemoteAccountId uuid.UUID
	ObjectURI       string // the Announce activity's id, for Undo correlation
	CreatedAt       time.Time
}

// Relay tracks a subscribed LitePub/ActivityPub relay actor.
type Relay struct {
	Id         uuid.UUID
	ActorURI   string
	InboxURI   string
	Status     string // "pending", "active", "rejected"
	Paused     bool
	AcceptedAt *time.Time
	CreatedAt  time.Time
}

// NoteMention records a single @mention on a note, local or remote.
// Username/Domain are denormalized at write time (rather than joined from
// accounts/remote_accounts at read time) so the outbox/actor JSON builders
// can render "@user@host" tags without an extra query per mention.
type NoteMention struct {
	Id              uuid.UUID
	NoteId          uuid.UUID
	AccountId       *uuid.UUID
	RemoteAccountId *uuid.UUID
	Username        string
	Domain          string
	ActorURI        string
	CreatedAt       time.Time
}

// Notification is a user-facing event record (follow request pending, like
// received, mention received, reciprocal follow accepted, etc).
type Notification struct {
	Id         uuid.UUID
	AccountId  uuid.UUID
	Type       string
	SourceURI  string
	NoteId     *uuid.UUID
	Read       bool
	CreatedAt  time.Time
}

// Instance is a per-remote-host record for federation health with a given
// peer. No code in this module stores or reads it; the rate limiter
// (federation/ratelimit.go) keeps its own in-memory per-host state.
type Instance struct {
	Host               string
	SoftwareName       string
	SoftwareVersion    string
	IsBlocked          bool
	IsSilenced         bool
	IsSuspended        bool
	LastCommunicatedAt time.Time
}

// Channel is a group-like actor, reachable at /channels/<id>, that notes can
// be posted to in addition to a user's own timeline.
type Channel struct {
	Id          uuid.UUID
	Name        string
	Description string
	ActorURI    string
	InboxURI    string
	OutboxURI   string
	OwnerId     uuid.UUID
	CreatedAt   time.Time
}

// Emoji is a custom emoji registry entry backing the `:name@host:` rewrite
// and the Emoji tag lookup during Create/EmojiReact ingestion.
type Emoji struct {
	Id       uuid.UUID
	Name     string
	Host     string // empty for local emoji
	ImageURL string
}

// Message is a direct message between two actors.
type Message struct {
	Id          uuid.UUID
	SenderId    uuid.UUID
	RecipientId uuid.UUID
	Text        string
	CreatedAt   time.Time
	ReadAt      *time.Time
}

// Poll attaches to a Note and tracks choices plus their vote counts.
type Poll struct {
	Id        uuid.UUID
	NoteId    uuid.UUID
	Choices   []string
	Votes     []int
	ExpiresAt time.Time
	Multiple  bool
}

// PollVote records one account's vote(s) on a Poll. The poll_votes table is
// unique on (PollId, AccountId, Choice), so the same choice cannot be voted
// twice; whether a second, different choice is allowed is decided by the
// poll's Multiple flag in PollService.Vote.
type PollVote struct {
	Id        uuid.UUID
	PollId    uuid.UUID
	AccountId uuid.UUID
	Choice    int
	CreatedAt time.Time
}
