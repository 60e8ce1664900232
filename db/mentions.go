package db

import (
	"time"

	"github.com/deemkeen/stegodon/domain"
	"github.com/google/uuid"
)

const sqlCreateNoteMentionsTable = `
CREATE TABLE IF NOT EXISTS note_mentions (
	id TEXT PRIMARY KEY,
	note_id TEXT NOT NULL,
	account_id TEXT,
	remote_account_id TEXT,
	username TEXT NOT NULL DEFAULT '',
	domain TEXT NOT NULL DEFAULT '',
	actor_uri TEXT NOT NULL,
	created_at DATETIME NOT NULL
)`

const sqlCreateNoteMentionsIndex = `
CREATE INDEX IF NOT EXISTS idx_note_mentions_note_id ON note_mentions(note_id)`

func (d *DB) CreateNoteMention(mention *domain.NoteMention) error {
	if mention.Id == uuid.Nil {
		mention.Id = uuid.New()
	}
	if mention.CreatedAt.IsZero() {
		mention.CreatedAt = time.Now()
	}

	var accountId, remoteAccountId *string
	if mention.AccountId != nil {
		s := mention.AccountId.String()
		accountId = &s
	}
	if mention.RemoteAccountId != nil {
		s := mention.RemoteAccountId.String()
		remoteAccountId = &s
	}

	_, err := d.db.Exec(`
		INSERT INTO note_mentions (id, note_id, account_id, remote_account_id, username, domain, actor_uri, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, mention.Id.String(), mention.NoteId.String(), accountId, remoteAccountId, mention.Username, mention.Domain, mention.ActorURI, mention.CreatedAt)
	return err
}

// ResolvedMention is the outbox/actor JSON builders' view of a stored
// mention: just enough to render an AP Mention tag without a further join.
type ResolvedMention struct {
	MentionedUsername string
	MentionedDomain   string
	MentionedActorURI string
}

func (d *DB) ReadMentionsByNoteId(noteId uuid.UUID) (error, []ResolvedMention) {
	rows, err := d.db.Query(`SELECT username, domain, actor_uri FROM note_mentions WHERE note_id = ?`, noteId.String())
	if err != nil {
		return err, nil
	}
	defer rows.Close()

	var mentions []ResolvedMention
	for rows.Next() {
		var m ResolvedMention
		if err := rows.Scan(&m.MentionedUsername, &m.MentionedDomain, &m.MentionedActorURI); err != nil {
			return err, nil
		}
		mentions = append(mentions, m)
	}
	return rows.Err(), mentions
}
