package db

import (
	"time"

	"github.com/deemkeen/stegodon/domain"
	"github.com/google/uuid"
)

const sqlCreateInfoBoxesTable = `
CREATE TABLE IF NOT EXISTS info_boxes (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL DEFAULT '',
	content TEXT NOT NULL DEFAULT '',
	order_num INTEGER NOT NULL DEFAULT 0,
	enabled INTEGER NOT NULL DEFAULT 1,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
)`

const infoBoxColumns = `id, title, content, order_num, enabled, created_at, updated_at`

func scanInfoBox(row interface{ Scan(dest ...any) error }) (*domain.InfoBox, error) {
	var b domain.InfoBox
	var id string
	var enabled int
	err := row.Scan(&id, &b.Title, &b.Content, &b.OrderNum, &enabled, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if b.Id, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	b.Enabled = enabled != 0
	return &b, nil
}

func (d *DB) CreateInfoBox(box *domain.InfoBox) error {
	if box.Id == uuid.Nil {
		box.Id = uuid.New()
	}
	now := time.Now()
	box.CreatedAt, box.UpdatedAt = now, now
	_, err := d.db.Exec(`INSERT INTO info_boxes (`+infoBoxColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		box.Id.String(), box.Title, box.Content, box.OrderNum, boolToInt(box.Enabled), box.CreatedAt, box.UpdatedAt)
	return err
}

func (d *DB) UpdateInfoBox(box *domain.InfoBox) error {
	box.UpdatedAt = time.Now()
	_, err := d.db.Exec(`UPDATE info_boxes SET title = ?, content = ?, order_num = ?, enabled = ?, updated_at = ? WHERE id = ?`,
		box.Title, box.Content, box.OrderNum, boolToInt(box.Enabled), box.UpdatedAt, box.Id.String())
	return err
}

func (d *DB) DeleteInfoBox(id uuid.UUID) error {
	_, err := d.db.Exec(`DELETE FROM info_boxes WHERE id = ?`, id.String())
	return err
}

func (d *DB) ToggleInfoBoxEnabled(id uuid.UUID) error {
	_, err := d.db.Exec(`UPDATE info_boxes SET enabled = 1 - enabled, updated_at = ? WHERE id = ?`, time.Now(), id.String())
	return err
}

func (d *DB) ReadAllInfoBoxes() (error, *[]domain.InfoBox) {
	return d.readInfoBoxes(`ORDER BY order_num ASC`)
}

func (d *DB) ReadEnabledInfoBoxes() (error, *[]domain.InfoBox) {
	return d.readInfoBoxes(`WHERE enabled = 1 ORDER BY order_num ASC`)
}

func (d *DB) readInfoBoxes(where string) (error, *[]domain.InfoBox) {
	rows, err := d.db.Query(`SELECT ` + infoBoxColumns + ` FROM info_boxes ` + where)
	if err != nil {
		return err, nil
	}
	defer rows.Close()

	var boxes []domain.InfoBox
	for rows.Next() {
		b, err := scanInfoBox(rows)
		if err != nil {
			return err, nil
		}
		boxes = append(boxes, *b)
	}
	return rows.Err(), &boxes
}
