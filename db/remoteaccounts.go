package db

import (
	"time"

	"github.com/deemkeen/stegodon/domain"
	"github.com/google/uuid"
)

const sqlCreateRemoteAccountsTable = `
CREATE TABLE IF NOT EXISTS remote_accounts (
	id TEXT PRIMARY KEY,
	username TEXT NOT NULL,
	domain TEXT NOT NULL,
	actor_uri TEXT NOT NULL UNIQUE,
	display_name TEXT NOT NULL DEFAULT '',
	summary TEXT NOT NULL DEFAULT '',
	inbox_uri TEXT NOT NULL DEFAULT '',
	outbox_uri TEXT NOT NULL DEFAULT '',
	shared_inbox TEXT NOT NULL DEFAULT '',
	public_key_pem TEXT NOT NULL DEFAULT '',
	avatar_url TEXT NOT NULL DEFAULT '',
	banner_url TEXT NOT NULL DEFAULT '',
	is_locked INTEGER NOT NULL DEFAULT 0,
	is_bot INTEGER NOT NULL DEFAULT 0,
	is_cat INTEGER NOT NULL DEFAULT 0,
	is_suspended INTEGER NOT NULL DEFAULT 0,
	is_deleted INTEGER NOT NULL DEFAULT 0,
	moved_to_uri TEXT NOT NULL DEFAULT '',
	followers_cnt INTEGER NOT NULL DEFAULT 0,
	following_cnt INTEGER NOT NULL DEFAULT 0,
	notes_cnt INTEGER NOT NULL DEFAULT 0,
	last_fetched_at DATETIME NOT NULL,
	created_at DATETIME NOT NULL
)`

const remoteAccountColumns = `id, username, domain, actor_uri, display_name, summary, inbox_uri, outbox_uri, shared_inbox, public_key_pem, avatar_url, banner_url, is_locked, is_bot, is_cat, is_suspended, is_deleted, moved_to_uri, followers_cnt, following_cnt, notes_cnt, last_fetched_at, created_at`

func scanRemoteAccount(row interface{ Scan(dest ...any) error }) (*domain.RemoteAccount, error) {
	var a domain.RemoteAccount
	var id string
	var isLocked, isBot, isCat, isSuspended, isDeleted int
	err := row.Scan(&id, &a.Username, &a.Domain, &a.ActorURI, &a.DisplayName, &a.Summary, &a.InboxURI, &a.OutboxURI,
		&a.SharedInbox, &a.PublicKeyPem, &a.AvatarURL, &a.BannerURL, &isLocked, &isBot, &isCat, &isSuspended, &isDeleted,
		&a.MovedToURI, &a.FollowersCnt, &a.FollowingCnt, &a.NotesCnt, &a.LastFetchedAt, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	a.Id, err = uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	a.IsLocked = isLocked != 0
	a.IsBot = isBot != 0
	a.IsCat = isCat != 0
	a.IsSuspended = isSuspended != 0
	a.IsDeleted = isDeleted != 0
	return &a, nil
}

// ReadRemoteAccountByURI looks a remote account up by its actor id URI — the
// same key FetchRemoteActorWithDeps uses to dedupe a fetch against the cache.
func (d *DB) ReadRemoteAccountByURI(uri string) (error, *domain.RemoteAccount) {
	return d.ReadRemoteAccountByActorURI(uri)
}

func (d *DB) ReadRemoteAccountById(id uuid.UUID) (error, *domain.RemoteAccount) {
	row := d.db.QueryRow(`SELECT `+remoteAccountColumns+` FROM remote_accounts WHERE id = ?`, id.String())
	acc, err := scanRemoteAccount(row)
	if err != nil {
		return err, nil
	}
	return nil, acc
}

func (d *DB) ReadRemoteAccountByActorURI(actorURI string) (error, *domain.RemoteAccount) {
	row := d.db.QueryRow(`SELECT `+remoteAccountColumns+` FROM remote_accounts WHERE actor_uri = ?`, actorURI)
	acc, err := scanRemoteAccount(row)
	if err != nil {
		return err, nil
	}
	return nil, acc
}

func (d *DB) CreateRemoteAccount(acc *domain.RemoteAccount) error {
	if acc.Id == uuid.Nil {
		acc.Id = uuid.New()
	}
	if acc.CreatedAt.IsZero() {
		acc.CreatedAt = time.Now()
	}
	if acc.LastFetchedAt.IsZero() {
		acc.LastFetchedAt = time.Now()
	}
	_, err := d.db.Exec(`
		INSERT INTO remote_accounts (`+remoteAccountColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, acc.Id.String(), acc.Username, acc.Domain, acc.ActorURI, acc.DisplayName, acc.Summary, acc.InboxURI, acc.OutboxURI,
		acc.SharedInbox, acc.PublicKeyPem, acc.AvatarURL, acc.BannerURL, boolToInt(acc.IsLocked), boolToInt(acc.IsBot),
		boolToInt(acc.IsCat), boolToInt(acc.IsSuspended), boolToInt(acc.IsDeleted), acc.MovedToURI, acc.FollowersCnt,
		acc.FollowingCnt, acc.NotesCnt, acc.LastFetchedAt, acc.CreatedAt)
	return err
}

func (d *DB) UpdateRemoteAccount(acc *domain.RemoteAccount) error {
	_, err := d.db.Exec(`
		UPDATE remote_accounts SET username = ?, domain = ?, display_name = ?, summary = ?, inbox_uri = ?, outbox_uri = ?,
			shared_inbox = ?, public_key_pem = ?, avatar_url = ?, banner_url = ?, is_locked = ?, is_bot = ?, is_cat = ?,
			is_suspended = ?, is_deleted = ?, moved_to_uri = ?, followers_cnt = ?, following_cnt = ?, notes_cnt = ?, last_fetched_at = ?
		WHERE id = ?
	`, acc.Username, acc.Domain, acc.DisplayName, acc.Summary, acc.InboxURI, acc.OutboxURI, acc.SharedInbox, acc.PublicKeyPem,
		acc.AvatarURL, acc.BannerURL, boolToInt(acc.IsLocked), boolToInt(acc.IsBot), boolToInt(acc.IsCat), boolToInt(acc.IsSuspended),
		boolToInt(acc.IsDeleted), acc.MovedToURI, acc.FollowersCnt, acc.FollowingCnt, acc.NotesCnt, time.Now(), acc.Id.String())
	return err
}

func (d *DB) DeleteRemoteAccount(id uuid.UUID) error {
	_, err := d.db.Exec(`DELETE FROM remote_accounts WHERE id = ?`, id.String())
	return err
}

// IncrementFollowingCnt and its Decrement/Followers counterparts keep
// remote_accounts' reciprocal follow counters in sync with the follows
// table as Follow/Accept/Undo(Follow) are processed. They mutate the
// counter column directly rather than going through UpdateRemoteAccount's
// full-row write, since that would race with a concurrent counter update
// from another inbox worker.
func (d *DB) IncrementFollowingCnt(id uuid.UUID) error {
	_, err := d.db.Exec(`UPDATE remote_accounts SET following_cnt = following_cnt + 1 WHERE id = ?`, id.String())
	return err
}

func (d *DB) DecrementFollowingCnt(id uuid.UUID) error {
	_, err := d.db.Exec(`UPDATE remote_accounts SET following_cnt = MAX(following_cnt - 1, 0) WHERE id = ?`, id.String())
	return err
}

func (d *DB) IncrementFollowersCnt(id uuid.UUID) error {
	_, err := d.db.Exec(`UPDATE remote_accounts SET followers_cnt = followers_cnt + 1 WHERE id = ?`, id.String())
	return err
}

func (d *DB) DecrementFollowersCnt(id uuid.UUID) error {
	_, err := d.db.Exec(`UPDATE remote_accounts SET followers_cnt = MAX(followers_cnt - 1, 0) WHERE id = ?`, id.String())
	return err
}
