// Package services implements the domain-facing operations that sit
// above the raw db/ persistence and federation/ delivery layers: note
// lifecycle, follow state machine, reactions, messages, channels, emoji,
// polls, timelines and notifications. Each service is a thin orchestrator
// that combines a Store, outbound federation (via activitypub.Send*) and
// local event fan-out (via pubsub.Publisher).
package services

import (
	"github.com/deemkeen/stegodon/domain"
	"github.com/google/uuid"
)

// Store is the persistence surface every service in this package depends
// on. It is satisfied structurally by *db.DB; services never import db
// directly so they stay testable against a fake Store.
type Store interface {
	ReadAccById(id uuid.UUID) (error, *domain.Account)
	ReadAccByUsername(username string) (error, *domain.Account)

	CreateNote(userId interface{}, message string) (interface{}, error)
	ReadNoteById(id uuid.UUID) (error, *domain.Note)
	ReadNoteByURI(objectURI string) (error, *domain.Note)
	SetNoteObjectURI(id uuid.UUID, objectURI string) error
	UpdateNoteMessage(id uuid.UUID, message string) error
	DeleteNote(id uuid.UUID) error
	ReadTimelinePage(beforeId uuid.UUID, limit int) (error, *[]domain.Note)
	ReadHomeTimelinePosts(accountId interface{}, limit int) (error, *[]domain.HomePost)

	PinNote(accountId, noteId uuid.UUID) error
	UnpinNote(accountId, noteId uuid.UUID) error
	ReadPinnedNoteIds(accountId uuid.UUID) (error, []uuid.UUID)

	ReadRemoteAccountById(id uuid.UUID) (error, *domain.RemoteAccount)
	ReadRemoteAccountByActorURI(actorURI string) (error, *domain.RemoteAccount)

	CreateFollow(follow *domain.Follow) error
	ReadFollowByURI(uri string) (error, *domain.Follow)
	ReadFollowByAccountIds(accountId, targetAccountId uuid.UUID) (error, *domain.Follow)
	DeleteFollowByURI(uri string) error
	AcceptFollowByURI(uri string) error
	ReadFollowersByAccountId(accountId uuid.UUID) (error, *[]domain.Follow)

	CreateLike(like *domain.Like) error
	HasLikeByURI(uri string) (bool, error)
	HasLike(accountId, noteId uuid.UUID) (bool, error)
	ReadLikeByAccountAndNote(accountId, noteId uuid.UUID) (error, *domain.Like)
	DeleteLikeByURI(uri string) error
	DeleteLikeByAccountAndNote(accountId, noteId uuid.UUID) error
	IncrementLikeCountByNoteId(noteId uuid.UUID) error
	DecrementLikeCountByNoteId(noteId uuid.UUID) error

	CreateBoost(boost *domain.Boost) error
	HasBoost(accountId, noteId uuid.UUID) (bool, error)
	DeleteBoostByAccountAndNote(accountId, noteId uuid.UUID) error
	IncrementBoostCountByNoteId(noteId uuid.UUID) error
	DecrementBoostCountByNoteId(noteId uuid.UUID) error

	CreateMessage(m *domain.Message) error
	ReadConversation(accountA, accountB uuid.UUID, limit int) (error, *[]domain.Message)
	MarkMessageRead(id uuid.UUID) error
	CountUnreadMessages(recipientId uuid.UUID) (int, error)

	CreateChannel(ch *domain.Channel) error
	ReadChannelById(id uuid.UUID) (error, *domain.Channel)
	ReadChannelByActorURI(actorURI string) (error, *domain.Channel)
	ReadAllChannels() (error, *[]domain.Channel)
	DeleteChannel(id uuid.UUID) error

	CreateEmoji(e *domain.Emoji) error
	ReadEmojiByShortcode(name string) (error, *domain.Emoji)
	ReadEmojiByNameAndHost(name, host string) (error, *domain.Emoji)
	ReadAllLocalEmoji() (error, *[]domain.Emoji)
	DeleteEmoji(id uuid.UUID) error

	CreatePoll(p *domain.Poll) error
	ReadPollByNoteId(noteId uuid.UUID) (error, *domain.Poll)
	ReadExpiredOpenPolls() (error, *[]domain.Poll)
	HasVoted(pollId, accountId uuid.UUID) (bool, error)
	CastVote(pollId, accountId uuid.UUID, choice int) error

	CreateNotification(n *domain.Notification) error
	ReadNotificationsByAccountId(accountId interface{}, limit int) (error, *[]domain.Notification)
	CountUnreadNotifications(accountId interface{}) (int, error)
	DeleteAllNotifications(accountId interface{}) error
}
