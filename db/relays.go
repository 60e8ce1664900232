package db

import (
	"time"

	"github.com/deemkeen/stegodon/domain"
	"github.com/google/uuid"
)

const sqlCreateRelaysTable = `
CREATE TABLE IF NOT EXISTS relays (
	id TEXT PRIMARY KEY,
	actor_uri TEXT NOT NULL UNIQUE,
	inbox_uri TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'pending',
	paused INTEGER NOT NULL DEFAULT 0,
	accepted_at DATETIME,
	created_at DATETIME NOT NULL
)`

const relayColumns = `id, actor_uri, inbox_uri, status, paused, accepted_at, created_at`

func scanRelay(row interface{ Scan(dest ...any) error }) (*domain.Relay, error) {
	var r domain.Relay
	var id string
	var paused int
	err := row.Scan(&id, &r.ActorURI, &r.InboxURI, &r.Status, &paused, &r.AcceptedAt, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	if r.Id, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	r.Paused = paused != 0
	return &r, nil
}

func (d *DB) CreateRelay(relay *domain.Relay) error {
	if relay.Id == uuid.Nil {
		relay.Id = uuid.New()
	}
	if relay.CreatedAt.IsZero() {
		relay.CreatedAt = time.Now()
	}
	_, err := d.db.Exec(`INSERT INTO relays (`+relayColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		relay.Id.String(), relay.ActorURI, relay.InboxURI, relay.Status, boolToInt(relay.Paused), relay.AcceptedAt, relay.CreatedAt)
	return err
}

func (d *DB) ReadActiveRelays() (error, *[]domain.Relay) {
	return d.readRelays(`WHERE status = 'active'`)
}

func (d *DB) ReadActiveUnpausedRelays() (error, *[]domain.Relay) {
	return d.readRelays(`WHERE status = 'active' AND paused = 0`)
}

func (d *DB) readRelays(where string) (error, *[]domain.Relay) {
	rows, err := d.db.Query(`SELECT ` + relayColumns + ` FROM relays ` + where)
	if err != nil {
		return err, nil
	}
	defer rows.Close()

	var relays []domain.Relay
	for rows.Next() {
		r, err := scanRelay(rows)
		if err != nil {
			return err, nil
		}
		relays = append(relays, *r)
	}
	return rows.Err(), &relays
}

func (d *DB) ReadRelayByActorURI(actorURI string) (error, *domain.Relay) {
	row := d.db.QueryRow(`SELECT `+relayColumns+` FROM relays WHERE actor_uri = ?`, actorURI)
	r, err := scanRelay(row)
	if err != nil {
		return err, nil
	}
	return nil, r
}

func (d *DB) UpdateRelayStatus(id uuid.UUID, status string, acceptedAt *time.Time) error {
	_, err := d.db.Exec(`UPDATE relays SET status = ?, accepted_at = ? WHERE id = ?`, status, acceptedAt, id.String())
	return err
}

func (d *DB) DeleteRelay(id uuid.UUID) error {
	_, err := d.db.Exec(`DELETE FROM relays WHERE id = ?`, id.String())
	return err
}
