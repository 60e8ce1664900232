package db

import (
	"github.com/deemkeen/stegodon/domain"
	"github.com/google/uuid"
)

const sqlCreateEmojiTable = `
CREATE TABLE IF NOT EXISTS emoji (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	host TEXT NOT NULL DEFAULT '',
	image_url TEXT NOT NULL,
	UNIQUE(name, host)
)`

const emojiColumns = `id, name, host, image_url`

func scanEmoji(row interface{ Scan(dest ...any) error }) (*domain.Emoji, error) {
	var e domain.Emoji
	var id string
	err := row.Scan(&id, &e.Name, &e.Host, &e.ImageURL)
	if err != nil {
		return nil, err
	}
	if e.Id, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	return &e, nil
}

func (d *DB) CreateEmoji(e *domain.Emoji) error {
	if e.Id == uuid.Nil {
		e.Id = uuid.New()
	}
	_, err := d.db.Exec(`INSERT INTO emoji (`+emojiColumns+`) VALUES (?, ?, ?, ?)`,
		e.Id.String(), e.Name, e.Host, e.ImageURL)
	return err
}

// ReadEmojiByShortcode looks up local emoji (host == "") by :name:.
func (d *DB) ReadEmojiByShortcode(name string) (error, *domain.Emoji) {
	row := d.db.QueryRow(`SELECT `+emojiColumns+` FROM emoji WHERE name = ? AND host = ''`, name)
	e, err := scanEmoji(row)
	if err != nil {
		return err, nil
	}
	return nil, e
}

// ReadEmojiByNameAndHost looks up remote emoji by :name@host:.
func (d *DB) ReadEmojiByNameAndHost(name, host string) (error, *domain.Emoji) {
	row := d.db.QueryRow(`SELECT `+emojiColumns+` FROM emoji WHERE name = ? AND host = ?`, name, host)
	e, err := scanEmoji(row)
	if err != nil {
		return err, nil
	}
	return nil, e
}

func (d *DB) ReadAllLocalEmoji() (error, *[]domain.Emoji) {
	rows, err := d.db.Query(`SELECT ` + emojiColumns + ` FROM emoji WHERE host = '' ORDER BY name ASC`)
	if err != nil {
		return err, nil
	}
	defer rows.Close()

	var list []domain.Emoji
	for rows.Next() {
		e, err := scanEmoji(rows)
		if err != nil {
			return err, nil
		}
		list = append(list, *e)
	}
	return rows.Err(), &list
}

func (d *DB) DeleteEmoji(id uuid.UUID) error {
	_, err := d.db.Exec(`DELETE FROM emoji WHERE id = ?`, id.String())
	return err
}
