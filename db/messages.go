package db

import (
	"time"

	"github.com/deemkeen/stegodon/domain"
	"github.com/google/uuid"
)

const sqlCreateMessagesTable = `
CREATE TABLE IF NOT EXISTS messages (
	id TEXT PRIMARY KEY,
	sender_id TEXT NOT NULL,
	recipient_id TEXT NOT NULL,
	text TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	read_at DATETIME
)`

const sqlCreateMessagesIndices = `
CREATE INDEX IF NOT EXISTS idx_messages_recipient ON messages(recipient_id, created_at);
CREATE INDEX IF NOT EXISTS idx_messages_sender ON messages(sender_id, created_at);
`

const messageColumns = `id, sender_id, recipient_id, text, created_at, read_at`

func scanMessage(row interface{ Scan(dest ...any) error }) (*domain.Message, error) {
	var m domain.Message
	var id, senderId, recipientId string
	err := row.Scan(&id, &senderId, &recipientId, &m.Text, &m.CreatedAt, &m.ReadAt)
	if err != nil {
		return nil, err
	}
	if m.Id, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	if m.SenderId, err = uuid.Parse(senderId); err != nil {
		return nil, err
	}
	if m.RecipientId, err = uuid.Parse(recipientId); err != nil {
		return nil, err
	}
	return &m, nil
}

func (d *DB) CreateMessage(m *domain.Message) error {
	if m.Id == uuid.Nil {
		m.Id = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	_, err := d.db.Exec(`INSERT INTO messages (`+messageColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		m.Id.String(), m.SenderId.String(), m.RecipientId.String(), m.Text, m.CreatedAt, m.ReadAt)
	return err
}

// ReadConversation returns messages exchanged between two accounts, oldest first.
func (d *DB) ReadConversation(accountA, accountB uuid.UUID, limit int) (error, *[]domain.Message) {
	rows, err := d.db.Query(`SELECT `+messageColumns+` FROM messages
		WHERE (sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)
		ORDER BY created_at ASC LIMIT ?`,
		accountA.String(), accountB.String(), accountB.String(), accountA.String(), limit)
	if err != nil {
		return err, nil
	}
	defer rows.Close()

	var list []domain.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return err, nil
		}
		list = append(list, *m)
	}
	return rows.Err(), &list
}

func (d *DB) MarkMessageRead(id uuid.UUID) error {
	_, err := d.db.Exec(`UPDATE messages SET read_at = ? WHERE id = ?`, time.Now(), id.String())
	return err
}

func (d *DB) CountUnreadMessages(recipientId uuid.UUID) (int, error) {
	var count int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM messages WHERE recipient_id = ? AND read_at IS NULL`, recipientId.String()).Scan(&count)
	return count, err
}
