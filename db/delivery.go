package db

import (
	"time"

	"github.com/deemkeen/stegodon/domain"
	"github.com/google/uuid"
)

const sqlCreateDeliveryQueueTable = `
CREATE TABLE IF NOT EXISTS delivery_queue (
	id TEXT PRIMARY KEY,
	actor_id TEXT NOT NULL,
	inbox_uri TEXT NOT NULL,
	activity_json TEXT NOT NULL,
	attempts INTEGER NOT NULL DEFAULT 0,
	next_retry_at DATETIME NOT NULL,
	created_at DATETIME NOT NULL
)`

const deliveryColumns = `id, actor_id, inbox_uri, activity_json, attempts, next_retry_at, created_at`

func scanDeliveryItem(row interface{ Scan(dest ...any) error }) (*domain.DeliveryQueueItem, error) {
	var item domain.DeliveryQueueItem
	var id, actorId string
	err := row.Scan(&id, &actorId, &item.InboxURI, &item.ActivityJSON, &item.Attempts, &item.NextRetryAt, &item.CreatedAt)
	if err != nil {
		return nil, err
	}
	if item.Id, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	if item.ActorId, err = uuid.Parse(actorId); err != nil {
		return nil, err
	}
	return &item, nil
}

func (d *DB) EnqueueDelivery(item *domain.DeliveryQueueItem) error {
	if item.Id == uuid.Nil {
		item.Id = uuid.New()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	if item.NextRetryAt.IsZero() {
		item.NextRetryAt = time.Now()
	}
	_, err := d.db.Exec(`INSERT INTO delivery_queue (`+deliveryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.Id.String(), item.ActorId.String(), item.InboxURI, item.ActivityJSON, item.Attempts, item.NextRetryAt, item.CreatedAt)
	return err
}

// ReadPendingDeliveries returns up to limit jobs whose next_retry_at has
// elapsed, oldest first, for the delivery queue worker pool to claim.
func (d *DB) ReadPendingDeliveries(limit int) (error, *[]domain.DeliveryQueueItem) {
	rows, err := d.db.Query(`
		SELECT `+deliveryColumns+` FROM delivery_queue
		WHERE next_retry_at <= ?
		ORDER BY created_at ASC
		LIMIT ?
	`, time.Now(), limit)
	if err != nil {
		return err, nil
	}
	defer rows.Close()

	var items []domain.DeliveryQueueItem
	for rows.Next() {
		item, err := scanDeliveryItem(rows)
		if err != nil {
			return err, nil
		}
		items = append(items, *item)
	}
	return rows.Err(), &items
}

func (d *DB) UpdateDeliveryAttempt(id uuid.UUID, attempts int, nextRetry time.Time) error {
	_, err := d.db.Exec(`UPDATE delivery_queue SET attempts = ?, next_retry_at = ? WHERE id = ?`,
		attempts, nextRetry, id.String())
	return err
}

func (d *DB) DeleteDelivery(id uuid.UUID) error {
	_, err := d.db.Exec(`DELETE FROM delivery_queue WHERE id = ?`, id.String())
	return err
}
