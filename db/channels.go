package db

import (
	"time"

	"github.com/deemkeen/stegodon/domain"
	"github.com/google/uuid"
)

const sqlCreateChannelsTable = `
CREATE TABLE IF NOT EXISTS channels (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT '',
	actor_uri TEXT NOT NULL UNIQUE,
	inbox_uri TEXT NOT NULL,
	outbox_uri TEXT NOT NULL,
	owner_id TEXT NOT NULL,
	created_at DATETIME NOT NULL
)`

const channelColumns = `id, name, description, actor_uri, inbox_uri, outbox_uri, owner_id, created_at`

func scanChannel(row interface{ Scan(dest ...any) error }) (*domain.Channel, error) {
	var c domain.Channel
	var id, ownerId string
	err := row.Scan(&id, &c.Name, &c.Description, &c.ActorURI, &c.InboxURI, &c.OutboxURI, &ownerId, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	if c.Id, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	if c.OwnerId, err = uuid.Parse(ownerId); err != nil {
		return nil, err
	}
	return &c, nil
}

func (d *DB) CreateChannel(ch *domain.Channel) error {
	if ch.Id == uuid.Nil {
		ch.Id = uuid.New()
	}
	if ch.CreatedAt.IsZero() {
		ch.CreatedAt = time.Now()
	}
	_, err := d.db.Exec(`INSERT INTO channels (`+channelColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ch.Id.String(), ch.Name, ch.Description, ch.ActorURI, ch.InboxURI, ch.OutboxURI, ch.OwnerId.String(), ch.CreatedAt)
	return err
}

func (d *DB) ReadChannelById(id uuid.UUID) (error, *domain.Channel) {
	row := d.db.QueryRow(`SELECT `+channelColumns+` FROM channels WHERE id = ?`, id.String())
	c, err := scanChannel(row)
	if err != nil {
		return err, nil
	}
	return nil, c
}

func (d *DB) ReadChannelByActorURI(actorURI string) (error, *domain.Channel) {
	row := d.db.QueryRow(`SELECT `+channelColumns+` FROM channels WHERE actor_uri = ?`, actorURI)
	c, err := scanChannel(row)
	if err != nil {
		return err, nil
	}
	return nil, c
}

func (d *DB) ReadAllChannels() (error, *[]domain.Channel) {
	rows, err := d.db.Query(`SELECT ` + channelColumns + ` FROM channels ORDER BY name ASC`)
	if err != nil {
		return err, nil
	}
	defer rows.Close()

	var channels []domain.Channel
	for rows.Next() {
		c, err := scanChannel(rows)
		if err != nil {
			return err, nil
		}
		channels = append(channels, *c)
	}
	return rows.Err(), &channels
}

func (d *DB) DeleteChannel(id uuid.UUID) error {
	_, err := d.db.Exec(`DELETE FROM channels WHERE id = ?`, id.String())
	return err
}
