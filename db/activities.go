package db

import (
	"time"

	"github.com/deemkeen/stegodon/domain"
	"github.com/google/uuid"
)

const sqlCreateActivitiesTable = `
CREATE TABLE IF NOT EXISTS activities (
	id TEXT PRIMARY KEY,
	activity_uri TEXT NOT NULL UNIQUE,
	object_uri TEXT NOT NULL,
	object_url TEXT NOT NULL DEFAULT '',
	actor_uri TEXT NOT NULL,
	type TEXT NOT NULL,
	in_reply_to_uri TEXT NOT NULL DEFAULT '',
	raw_json TEXT NOT NULL DEFAULT '',
	like_count INTEGER NOT NULL DEFAULT 0,
	boost_count INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL
)`

const activityColumns = `id, activity_uri, object_uri, object_url, actor_uri, type, in_reply_to_uri, raw_json, like_count, boost_count, created_at`

func scanActivity(row interface{ Scan(dest ...any) error }) (*domain.Activity, error) {
	var a domain.Activity
	var id string
	err := row.Scan(&id, &a.ActivityURI, &a.ObjectURI, &a.ObjectURL, &a.ActorURI, &a.Type, &a.InReplyToURI, &a.RawJSON,
		&a.LikeCount, &a.BoostCount, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	if a.Id, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	return &a, nil
}

func (d *DB) CreateActivity(activity *domain.Activity) error {
	if activity.Id == uuid.Nil {
		activity.Id = uuid.New()
	}
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now()
	}
	_, err := d.db.Exec(`INSERT INTO activities (`+activityColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		activity.Id.String(), activity.ActivityURI, activity.ObjectURI, activity.ObjectURL, activity.ActorURI, activity.Type,
		activity.InReplyToURI, activity.RawJSON, activity.LikeCount, activity.BoostCount, activity.CreatedAt)
	return err
}

func (d *DB) UpdateActivity(activity *domain.Activity) error {
	_, err := d.db.Exec(`UPDATE activities SET object_uri = ?, object_url = ?, actor_uri = ?, type = ?, in_reply_to_uri = ?, raw_json = ?, like_count = ?, boost_count = ? WHERE id = ?`,
		activity.ObjectURI, activity.ObjectURL, activity.ActorURI, activity.Type, activity.InReplyToURI, activity.RawJSON,
		activity.LikeCount, activity.BoostCount, activity.Id.String())
	return err
}

func (d *DB) ReadActivityByURI(uri string) (error, *domain.Activity) {
	row := d.db.QueryRow(`SELECT `+activityColumns+` FROM activities WHERE activity_uri = ?`, uri)
	a, err := scanActivity(row)
	if err != nil {
		return err, nil
	}
	return nil, a
}

func (d *DB) ReadActivityByObjectURI(objectURI string) (error, *domain.Activity) {
	row := d.db.QueryRow(`SELECT `+activityColumns+` FROM activities WHERE object_uri = ? ORDER BY created_at DESC LIMIT 1`, objectURI)
	a, err := scanActivity(row)
	if err != nil {
		return err, nil
	}
	return nil, a
}

// ReadActivitiesByInReplyTo returns cached remote activities replying to the
// given object URI, oldest first, for surfacing remote replies under a
// local post in the web UI.
func (d *DB) ReadActivitiesByInReplyTo(objectURI string) (error, *[]domain.Activity) {
	rows, err := d.db.Query(`SELECT `+activityColumns+` FROM activities WHERE in_reply_to_uri = ? ORDER BY created_at ASC`, objectURI)
	if err != nil {
		return err, nil
	}
	defer rows.Close()

	var activities []domain.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return err, nil
		}
		activities = append(activities, *a)
	}
	return rows.Err(), &activities
}

// CountActivitiesByInReplyTo counts cached remote activities replying to the
// given object URI.
func (d *DB) CountActivitiesByInReplyTo(objectURI string) (int, error) {
	var n int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM activities WHERE in_reply_to_uri = ?`, objectURI).Scan(&n)
	return n, err
}

func (d *DB) DeleteActivity(id uuid.UUID) error {
	_, err := d.db.Exec(`DELETE FROM activities WHERE id = ?`, id.String())
	return err
}
