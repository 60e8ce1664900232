package db

import (
	"time"

	"github.com/deemkeen/stegodon/domain"
)

const sqlCreateServerMessageTable = `
CREATE TABLE IF NOT EXISTS server_message (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	message TEXT NOT NULL DEFAULT '',
	enabled INTEGER NOT NULL DEFAULT 0,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

func (d *DB) ReadServerMessage() (error, *domain.ServerMessage) {
	row := d.db.QueryRow(`SELECT id, message, enabled, updated_at FROM server_message WHERE id = 1`)

	var msg domain.ServerMessage
	var enabled int
	err := row.Scan(&msg.Id, &msg.Message, &enabled, &msg.UpdatedAt)
	if err != nil {
		return nil, &domain.ServerMessage{Id: 1, UpdatedAt: time.Now()}
	}
	msg.Enabled = enabled != 0
	return nil, &msg
}

// UpdateServerMessage upserts the single server_message row.
func (d *DB) UpdateServerMessage(message string, enabled bool) error {
	_, err := d.db.Exec(`
		INSERT INTO server_message (id, message, enabled, updated_at) VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET message = excluded.message, enabled = excluded.enabled, updated_at = excluded.updated_at
	`, message, enabled, time.Now())
	return err
}
