package db

import (
	"time"

	"github.com/deemkeen/stegodon/domain"
	"github.com/google/uuid"
)

const sqlCreateLikesTable = `
CREATE TABLE IF NOT EXISTS likes (
	id TEXT PRIMARY KEY,
	account_id TEXT NOT NULL,
	note_id TEXT NOT NULL,
	uri TEXT NOT NULL UNIQUE,
	reaction TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	UNIQUE(account_id, note_id)
)`

func (d *DB) CreateLike(like *domain.Like) error {
	if like.Id == uuid.Nil {
		like.Id = uuid.New()
	}
	if like.CreatedAt.IsZero() {
		like.CreatedAt = time.Now()
	}
	_, err := d.db.Exec(`
		INSERT INTO likes (id, account_id, note_id, uri, reaction, created_at) VALUES (?, ?, ?, ?, ?, ?)
	`, like.Id.String(), like.AccountId.String(), like.NoteId.String(), like.URI, like.Reaction, like.CreatedAt)
	return err
}

func (d *DB) HasLikeByURI(uri string) (bool, error) {
	var count int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM likes WHERE uri = ?`, uri).Scan(&count)
	return count > 0, err
}

func (d *DB) HasLike(accountId, noteId uuid.UUID) (bool, error) {
	var count int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM likes WHERE account_id = ? AND note_id = ?`,
		accountId.String(), noteId.String()).Scan(&count)
	return count > 0, err
}

func (d *DB) ReadLikeByAccountAndNote(accountId, noteId uuid.UUID) (error, *domain.Like) {
	row := d.db.QueryRow(`SELECT id, account_id, note_id, uri, reaction, created_at FROM likes WHERE account_id = ? AND note_id = ?`,
		accountId.String(), noteId.String())

	var l domain.Like
	var id, accId, nId string
	err := row.Scan(&id, &accId, &nId, &l.URI, &l.Reaction, &l.CreatedAt)
	if err != nil {
		return err, nil
	}
	l.Id, _ = uuid.Parse(id)
	l.AccountId, _ = uuid.Parse(accId)
	l.NoteId, _ = uuid.Parse(nId)
	return nil, &l
}

// ReadLikeByURI looks a Like up by the originating activity's URI, so Undo
// processing can learn its NoteId before deleting it and decrement that
// note's like_count accordingly.
func (d *DB) ReadLikeByURI(uri string) (error, *domain.Like) {
	row := d.db.QueryRow(`SELECT id, account_id, note_id, uri, reaction, created_at FROM likes WHERE uri = ?`, uri)

	var l domain.Like
	var id, accId, nId string
	err := row.Scan(&id, &accId, &nId, &l.URI, &l.Reaction, &l.CreatedAt)
	if err != nil {
		return err, nil
	}
	l.Id, _ = uuid.Parse(id)
	l.AccountId, _ = uuid.Parse(accId)
	l.NoteId, _ = uuid.Parse(nId)
	return nil, &l
}

func (d *DB) DeleteLikeByURI(uri string) error {
	_, err := d.db.Exec(`DELETE FROM likes WHERE uri = ?`, uri)
	return err
}

func (d *DB) DeleteLikeByAccountAndNote(accountId, noteId uuid.UUID) error {
	_, err := d.db.Exec(`DELETE FROM likes WHERE account_id = ? AND note_id = ?`, accountId.String(), noteId.String())
	return err
}

func (d *DB) IncrementLikeCountByNoteId(noteId uuid.UUID) error {
	_, err := d.db.Exec(`UPDATE notes SET like_count = like_count + 1 WHERE id = ?`, noteId.String())
	return err
}

func (d *DB) DecrementLikeCountByNoteId(noteId uuid.UUID) error {
	_, err := d.db.Exec(`UPDATE notes SET like_count = MAX(0, like_count - 1) WHERE id = ?`, noteId.String())
	return err
}

// ReadLikersInfoByNoteId returns the usernames of local accounts that liked
// a note, oldest like first, for a post's engagement display.
func (d *DB) ReadLikersInfoByNoteId(noteId uuid.UUID) ([]string, error) {
	rows, err := d.db.Query(`
		SELECT a.username FROM likes l JOIN accounts a ON a.id = l.account_id
		WHERE l.note_id = ? ORDER BY l.created_at ASC
	`, noteId.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var usernames []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		usernames = append(usernames, u)
	}
	return usernames, rows.Err()
}
