package processors

import (
	"github.com/deemkeen/stegodon/domain"
	"github.com/google/uuid"
)

// Database is the persistence seam the activity processors need.
// web/inbox.go passes db.GetDB() as this Database.
type Database interface {
	ReadAccByUsername(username string) (error, *domain.Account)
	ReadAccById(id uuid.UUID) (error, *domain.Account)

	ReadRemoteAccountByActorURI(actorURI string) (error, *domain.RemoteAccount)
	CreateRemoteAccount(acc *domain.RemoteAccount) error
	UpdateRemoteAccount(acc *domain.RemoteAccount) error
	DeleteRemoteAccount(id uuid.UUID) error

	ReadNoteByURI(objectURI string) (error, *domain.Note)
	IncrementReplyCountByURI(parentURI string) error
	CreateRemoteNote(n *domain.Note) error

	CreateNoteMention(mention *domain.NoteMention) error

	CreateFollow(follow *domain.Follow) error
	ReadFollowByURI(uri string) (error, *domain.Follow)
	ReadFollowByAccountIds(accountId, targetAccountId uuid.UUID) (error, *domain.Follow)
	DeleteFollowByURI(uri string) error
	AcceptFollowByURI(uri string) error
	IncrementFollowingCnt(id uuid.UUID) error
	DecrementFollowingCnt(id uuid.UUID) error
	IncrementFollowersCnt(id uuid.UUID) error
	DecrementFollowersCnt(id uuid.UUID) error

	CreateActivity(activity *domain.Activity) error
	ReadActivityByURI(uri string) (error, *domain.Activity)
	ReadActivityByObjectURI(objectURI string) (error, *domain.Activity)
	DeleteActivity(id uuid.UUID) error

	CreateLike(like *domain.Like) error
	HasLikeByURI(uri string) (bool, error)
	ReadLikeByURI(uri string) (error, *domain.Like)
	DeleteLikeByURI(uri string) error
	DeleteLikeByAccountAndNote(accountId, noteId uuid.UUID) error
	IncrementLikeCountByNoteId(noteId uuid.UUID) error
	DecrementLikeCountByNoteId(noteId uuid.UUID) error

	CreateBoostFromRemote(boost *domain.Boost) error
	HasBoostFromRemote(remoteAccountId uuid.UUID, objectURI string) (bool, error)
	DeleteBoostByRemoteAccountAndObjectURI(remoteAccountId uuid.UUID, objectURI string) error
	DecrementBoostCountByObjectURI(objectURI string) error

	CreateNotification(notification *domain.Notification) error
}

// ActorFetcher is the C5 seam (activitypub.FetchRemoteActorWithDeps's
// shape) processors call to resolve an actor URI to a cached or freshly
// fetched RemoteAccount.
type ActorFetcher func(actorURI string) (*domain.RemoteAccount, error)

// AcceptSender is the C7 seam (activitypub.SendAccept's shape) the Follow
// processor calls to deliver the automatic Accept for an unlocked target,
// injected so this package never imports activitypub directly.
type AcceptSender func(localAccount *domain.Account, remoteActor *domain.RemoteAccount, followURI string) error
