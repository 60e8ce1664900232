package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/deemkeen/stegodon/domain"
	"github.com/google/uuid"
)

const sqlCreateBoostsTable = `
CREATE TABLE IF NOT EXISTS boosts (
	id TEXT PRIMARY KEY,
	account_id TEXT NOT NULL DEFAULT '',
	note_id TEXT NOT NULL DEFAULT '',
	remote_account_id TEXT NOT NULL DEFAULT '',
	object_uri TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL
)`

func (d *DB) CreateBoost(boost *domain.Boost) error {
	if boost.Id == uuid.Nil {
		boost.Id = uuid.New()
	}
	if boost.CreatedAt.IsZero() {
		boost.CreatedAt = time.Now()
	}
	_, err := d.db.Exec(`
		INSERT INTO boosts (id, account_id, note_id, remote_account_id, object_uri, created_at) VALUES (?, ?, ?, ?, ?, ?)
	`, boost.Id.String(), boost.AccountId.String(), boost.NoteId.String(), boost.RemoteAccountId.String(), boost.ObjectURI, boost.CreatedAt)
	return err
}

func (d *DB) HasBoost(accountId, noteId uuid.UUID) (bool, error) {
	var count int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM boosts WHERE account_id = ? AND note_id = ?`,
		accountId.String(), noteId.String()).Scan(&count)
	return count > 0, err
}

func (d *DB) DeleteBoostByAccountAndNote(accountId, noteId uuid.UUID) error {
	_, err := d.db.Exec(`DELETE FROM boosts WHERE account_id = ? AND note_id = ?`, accountId.String(), noteId.String())
	return err
}

func (d *DB) IncrementBoostCountByNoteId(noteId uuid.UUID) error {
	_, err := d.db.Exec(`UPDATE notes SET boost_count = boost_count + 1 WHERE id = ?`, noteId.String())
	return err
}

func (d *DB) DecrementBoostCountByNoteId(noteId uuid.UUID) error {
	_, err := d.db.Exec(`UPDATE notes SET boost_count = MAX(0, boost_count - 1) WHERE id = ?`, noteId.String())
	return err
}

// IsRemoteAccountFollowed reports whether any local account follows the
// given remote account, gating whether an inbound Announce should surface
// in a home timeline at all.
func (d *DB) IsRemoteAccountFollowed(remoteAccountId uuid.UUID) (bool, error) {
	var count int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM follows WHERE target_account_id = ? AND accepted = 1`,
		remoteAccountId.String()).Scan(&count)
	return count > 0, err
}

func (d *DB) CreateBoostFromRemote(boost *domain.Boost) error {
	return d.CreateBoost(boost)
}

func (d *DB) HasBoostFromRemote(remoteAccountId uuid.UUID, objectURI string) (bool, error) {
	var count int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM boosts WHERE remote_account_id = ? AND object_uri = ?`,
		remoteAccountId.String(), objectURI).Scan(&count)
	return count > 0, err
}

func (d *DB) DeleteBoostByRemoteAccountAndObjectURI(remoteAccountId uuid.UUID, objectURI string) error {
	_, err := d.db.Exec(`DELETE FROM boosts WHERE remote_account_id = ? AND object_uri = ?`,
		remoteAccountId.String(), objectURI)
	return err
}

func (d *DB) DecrementBoostCountByObjectURI(objectURI string) error {
	_, err := d.db.Exec(`
		UPDATE activities SET boost_count = MAX(0, boost_count - 1) WHERE object_uri = ?
	`, objectURI)
	return err
}

// ReadBoostersInfoByNoteId returns the usernames (local "name", remote
// "name@domain") of accounts that boosted a note, oldest boost first.
func (d *DB) ReadBoostersInfoByNoteId(noteId uuid.UUID) ([]string, error) {
	rows, err := d.db.Query(`
		SELECT a.username, r.username, r.domain
		FROM boosts b
		LEFT JOIN accounts a ON a.id = b.account_id
		LEFT JOIN remote_accounts r ON r.id = b.remote_account_id
		WHERE b.note_id = ? ORDER BY b.created_at ASC
	`, noteId.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var usernames []string
	for rows.Next() {
		var localUsername, remoteUsername, remoteDomain sql.NullString
		if err := rows.Scan(&localUsername, &remoteUsername, &remoteDomain); err != nil {
			return nil, err
		}
		switch {
		case localUsername.Valid && localUsername.String != "":
			usernames = append(usernames, localUsername.String)
		case remoteUsername.Valid && remoteUsername.String != "":
			usernames = append(usernames, fmt.Sprintf("%s@%s", remoteUsername.String, remoteDomain.String))
		}
	}
	return usernames, rows.Err()
}
