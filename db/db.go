package db

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
)

// DB wraps the sqlite connection and implements the activitypub.Database
// and cli.Database interfaces across the *.go files in this package.
type DB struct {
	db *sql.DB
}

var (
	instanceMu sync.RWMutex
	instance   *DB
)

// Open creates/migrates the sqlite database at path and returns a *DB.
// path may be ":memory:" for tests.
func Open(path string) (*DB, error) {
	sqlDB, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// sqlite does not support concurrent writers; serialize through one
	// connection so "database is locked" errors don't surface under the
	// delivery queue's worker pool.
	sqlDB.SetMaxOpenConns(1)

	d := &DB{db: sqlDB}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return d, nil
}

// Init opens the database at path and installs it as the process-wide
// singleton returned by Get(), for callers (activitypub.NewDBWrapper,
// cli.NewHandler) that don't thread a *DB explicitly.
func Init(path string) (*DB, error) {
	d, err := Open(path)
	if err != nil {
		return nil, err
	}
	instanceMu.Lock()
	instance = d
	instanceMu.Unlock()
	return d, nil
}

// Get returns the process-wide singleton installed by Init. It exits the
// process via log.Fatal if Init was never called, since that indicates a
// startup wiring bug rather than a recoverable runtime condition.
func Get() *DB {
	instanceMu.RLock()
	defer instanceMu.RUnlock()
	if instance == nil {
		log.Fatal("db.Get called before db.Init")
	}
	return instance
}

func (d *DB) Close() error {
	return d.db.Close()
}

// GetDB is an alias of Get kept for call sites written against the
// teacher's original naming.
func GetDB() *DB {
	return Get()
}

func (d *DB) migrate() error {
	statements := []string{
		sqlCreateAccountsTable,
		sqlCreateBansTable,
		sqlCreateBansIndices,
		sqlCreateServerMessageTable,
		sqlCreateNotesTable,
		sqlCreateRemoteAccountsTable,
		sqlCreateFollowsTable,
		sqlCreateActivitiesTable,
		sqlCreateDeliveryQueueTable,
		sqlCreateNoteMentionsTable,
		sqlCreateNoteMentionsIndex,
		sqlCreateLikesTable,
		sqlCreateBoostsTable,
		sqlCreateRelaysTable,
		sqlCreateNotificationsTable,
		sqlCreateChannelsTable,
		sqlCreateEmojiTable,
		sqlCreateMessagesTable,
		sqlCreateMessagesIndices,
		sqlCreatePollsTable,
		sqlCreatePollVotesTable,
		sqlCreatePinnedNotesTable,
		sqlCreateInfoBoxesTable,
		sqlCreateUploadTokensTable,
	}
	for _, stmt := range statements {
		if _, err := d.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

const sqlCreateAccountsTable = `
CREATE TABLE IF NOT EXISTS accounts (
	id TEXT PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	publickey TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	first_time_login INTEGER NOT NULL DEFAULT 1,
	web_public_key TEXT NOT NULL DEFAULT '',
	web_private_key TEXT NOT NULL DEFAULT '',
	display_name TEXT NOT NULL DEFAULT '',
	summary TEXT NOT NULL DEFAULT '',
	avatar_url TEXT NOT NULL DEFAULT '',
	is_admin INTEGER NOT NULL DEFAULT 0,
	muted INTEGER NOT NULL DEFAULT 0,
	banned INTEGER NOT NULL DEFAULT 0,
	is_locked INTEGER NOT NULL DEFAULT 0,
	last_ip TEXT NOT NULL DEFAULT ''
)`
