package db

import (
	"time"

	"github.com/google/uuid"
)

const sqlCreatePinnedNotesTable = `
CREATE TABLE IF NOT EXISTS pinned_notes (
	account_id TEXT NOT NULL,
	note_id TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	PRIMARY KEY (account_id, note_id)
)`

func (d *DB) PinNote(accountId, noteId uuid.UUID) error {
	_, err := d.db.Exec(`INSERT OR IGNORE INTO pinned_notes (account_id, note_id, created_at) VALUES (?, ?, ?)`,
		accountId.String(), noteId.String(), time.Now())
	return err
}

func (d *DB) UnpinNote(accountId, noteId uuid.UUID) error {
	_, err := d.db.Exec(`DELETE FROM pinned_notes WHERE account_id = ? AND note_id = ?`, accountId.String(), noteId.String())
	return err
}

func (d *DB) ReadPinnedNoteIds(accountId uuid.UUID) (error, []uuid.UUID) {
	rows, err := d.db.Query(`SELECT note_id FROM pinned_notes WHERE account_id = ? ORDER BY created_at DESC`, accountId.String())
	if err != nil {
		return err, nil
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var idStr string
		if err := rows.Scan(&idStr); err != nil {
			return err, nil
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return err, nil
		}
		ids = append(ids, id)
	}
	return rows.Err(), ids
}
