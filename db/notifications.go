package db

import (
	"fmt"
	"time"

	"github.com/deemkeen/stegodon/domain"
	"github.com/google/uuid"
)

const sqlCreateNotificationsTable = `
CREATE TABLE IF NOT EXISTS notifications (
	id TEXT PRIMARY KEY,
	account_id TEXT NOT NULL,
	type TEXT NOT NULL,
	source_uri TEXT NOT NULL DEFAULT '',
	note_id TEXT,
	read INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL
)`

func (d *DB) CreateNotification(notification *domain.Notification) error {
	if notification.Id == uuid.Nil {
		notification.Id = uuid.New()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}
	var noteId *string
	if notification.NoteId != nil {
		s := notification.NoteId.String()
		noteId = &s
	}
	_, err := d.db.Exec(`
		INSERT INTO notifications (id, account_id, type, source_uri, note_id, read, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)
	`, notification.Id.String(), notification.AccountId.String(), notification.Type, notification.SourceURI, noteId,
		boolToInt(notification.Read), notification.CreatedAt)
	return err
}

// ReadNotificationsByAccountId returns the most recent unread notifications
// for accountId (boxed uuid.UUID, matching cli.Database's generic signature).
func (d *DB) ReadNotificationsByAccountId(accountId interface{}, limit int) (error, *[]domain.Notification) {
	accId, ok := accountId.(uuid.UUID)
	if !ok {
		return fmt.Errorf("ReadNotificationsByAccountId: accountId must be a uuid.UUID, got %T", accountId), nil
	}

	rows, err := d.db.Query(`
		SELECT id, account_id, type, source_uri, note_id, read, created_at
		FROM notifications WHERE account_id = ? AND read = 0
		ORDER BY created_at DESC LIMIT ?
	`, accId.String(), limit)
	if err != nil {
		return err, nil
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var id, accIdStr string
		var noteId *string
		var read int
		if err := rows.Scan(&id, &accIdStr, &n.Type, &n.SourceURI, &noteId, &read, &n.CreatedAt); err != nil {
			return err, nil
		}
		n.Id, _ = uuid.Parse(id)
		n.AccountId, _ = uuid.Parse(accIdStr)
		n.Read = read != 0
		if noteId != nil {
			if nid, err := uuid.Parse(*noteId); err == nil {
				n.NoteId = &nid
			}
		}
		notifications = append(notifications, n)
	}
	return rows.Err(), &notifications
}

func (d *DB) CountUnreadNotifications(accountId interface{}) (int, error) {
	accId, ok := accountId.(uuid.UUID)
	if !ok {
		return 0, fmt.Errorf("CountUnreadNotifications: accountId must be a uuid.UUID, got %T", accountId)
	}
	var count int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM notifications WHERE account_id = ? AND read = 0`, accId.String()).Scan(&count)
	return count, err
}

func (d *DB) DeleteAllNotifications(accountId interface{}) error {
	accId, ok := accountId.(uuid.UUID)
	if !ok {
		return fmt.Errorf("DeleteAllNotifications: accountId must be a uuid.UUID, got %T", accountId)
	}
	_, err := d.db.Exec(`DELETE FROM notifications WHERE account_id = ?`, accId.String())
	return err
}
