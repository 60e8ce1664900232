package db

import (
	"time"

	"github.com/deemkeen/stegodon/domain"
	"github.com/google/uuid"
)

const sqlCreateFollowsTable = `
CREATE TABLE IF NOT EXISTS follows (
	id TEXT PRIMARY KEY,
	account_id TEXT NOT NULL,
	target_account_id TEXT NOT NULL,
	uri TEXT NOT NULL UNIQUE,
	accepted INTEGER NOT NULL DEFAULT 0,
	is_local INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	UNIQUE(account_id, target_account_id)
)`

const followColumns = `id, account_id, target_account_id, uri, accepted, is_local, created_at`

func scanFollow(row interface{ Scan(dest ...any) error }) (*domain.Follow, error) {
	var f domain.Follow
	var id, accountId, targetId string
	var accepted, isLocal int
	err := row.Scan(&id, &accountId, &targetId, &f.URI, &accepted, &isLocal, &f.CreatedAt)
	if err != nil {
		return nil, err
	}
	if f.Id, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	if f.AccountId, err = uuid.Parse(accountId); err != nil {
		return nil, err
	}
	if f.TargetAccountId, err = uuid.Parse(targetId); err != nil {
		return nil, err
	}
	f.Accepted = accepted != 0
	f.IsLocal = isLocal != 0
	return &f, nil
}

func (d *DB) CreateFollow(follow *domain.Follow) error {
	if follow.Id == uuid.Nil {
		follow.Id = uuid.New()
	}
	if follow.CreatedAt.IsZero() {
		follow.CreatedAt = time.Now()
	}
	_, err := d.db.Exec(`
		INSERT INTO follows (`+followColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
	`, follow.Id.String(), follow.AccountId.String(), follow.TargetAccountId.String(), follow.URI,
		boolToInt(follow.Accepted), boolToInt(follow.IsLocal), follow.CreatedAt)
	return err
}

func (d *DB) ReadFollowByURI(uri string) (error, *domain.Follow) {
	row := d.db.QueryRow(`SELECT `+followColumns+` FROM follows WHERE uri = ?`, uri)
	f, err := scanFollow(row)
	if err != nil {
		return err, nil
	}
	return nil, f
}

func (d *DB) ReadFollowByAccountIds(accountId, targetAccountId uuid.UUID) (error, *domain.Follow) {
	row := d.db.QueryRow(`SELECT `+followColumns+` FROM follows WHERE account_id = ? AND target_account_id = ?`,
		accountId.String(), targetAccountId.String())
	f, err := scanFollow(row)
	if err != nil {
		return err, nil
	}
	return nil, f
}

func (d *DB) DeleteFollowByURI(uri string) error {
	_, err := d.db.Exec(`DELETE FROM follows WHERE uri = ?`, uri)
	return err
}

func (d *DB) AcceptFollowByURI(uri string) error {
	_, err := d.db.Exec(`UPDATE follows SET accepted = 1 WHERE uri = ?`, uri)
	return err
}

func (d *DB) ReadFollowersByAccountId(accountId uuid.UUID) (error, *[]domain.Follow) {
	rows, err := d.db.Query(`SELECT `+followColumns+` FROM follows WHERE target_account_id = ? AND accepted = 1`, accountId.String())
	if err != nil {
		return err, nil
	}
	defer rows.Close()

	var follows []domain.Follow
	for rows.Next() {
		f, err := scanFollow(rows)
		if err != nil {
			return err, nil
		}
		follows = append(follows, *f)
	}
	return rows.Err(), &follows
}

// ReadFollowingByAccountId returns the accounts a local account follows
// (accepted edges only), for rendering /users/:actor/following.
func (d *DB) ReadFollowingByAccountId(accountId uuid.UUID) (error, *[]domain.Follow) {
	rows, err := d.db.Query(`SELECT `+followColumns+` FROM follows WHERE account_id = ? AND accepted = 1`, accountId.String())
	if err != nil {
		return err, nil
	}
	defer rows.Close()

	var follows []domain.Follow
	for rows.Next() {
		f, err := scanFollow(rows)
		if err != nil {
			return err, nil
		}
		follows = append(follows, *f)
	}
	return rows.Err(), &follows
}

func (d *DB) DeleteFollowsByRemoteAccountId(remoteAccountId uuid.UUID) error {
	_, err := d.db.Exec(`DELETE FROM follows WHERE account_id = ? OR target_account_id = ?`,
		remoteAccountId.String(), remoteAccountId.String())
	return err
}
