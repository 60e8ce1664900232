package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const sqlCreateUploadTokensTable = `
CREATE TABLE IF NOT EXISTS upload_tokens (
	token TEXT PRIMARY KEY,
	account_id TEXT NOT NULL,
	token_type TEXT NOT NULL,
	expires_at DATETIME NOT NULL,
	created_at DATETIME NOT NULL
)`

// CreateUploadToken stores a single-use, time-limited link used to hand an
// SSH session's account a browser upload form (avatars can't travel over
// the TUI's terminal session).
func (d *DB) CreateUploadToken(accountId uuid.UUID, token string, tokenType string, expiresIn time.Duration) error {
	now := time.Now()
	_, err := d.db.Exec(`
		INSERT INTO upload_tokens (token, account_id, token_type, expires_at, created_at) VALUES (?, ?, ?, ?, ?)
	`, token, accountId.String(), tokenType, now.Add(expiresIn), now)
	return err
}

// GetExistingUploadToken returns an account's still-valid token of the given
// type, if any, so the TUI can hand back the same link instead of minting a
// new one on every visit.
func (d *DB) GetExistingUploadToken(accountId uuid.UUID, tokenType string) (string, time.Time, error) {
	var token string
	var expiresAt time.Time
	err := d.db.QueryRow(`
		SELECT token, expires_at FROM upload_tokens
		WHERE account_id = ? AND token_type = ? AND expires_at > ?
		ORDER BY expires_at DESC LIMIT 1
	`, accountId.String(), tokenType, time.Now()).Scan(&token, &expiresAt)
	if err == sql.ErrNoRows {
		return "", time.Time{}, nil
	}
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// ValidateUploadToken resolves a token to its owning account, rejecting it
// once expired.
func (d *DB) ValidateUploadToken(token string) (uuid.UUID, string, error) {
	var accountIdStr, tokenType string
	var expiresAt time.Time
	err := d.db.QueryRow(`SELECT account_id, token_type, expires_at FROM upload_tokens WHERE token = ?`, token).
		Scan(&accountIdStr, &tokenType, &expiresAt)
	if err != nil {
		return uuid.Nil, "", err
	}
	if time.Now().After(expiresAt) {
		return uuid.Nil, "", fmt.Errorf("upload token expired")
	}
	accountId, err := uuid.Parse(accountIdStr)
	if err != nil {
		return uuid.Nil, "", err
	}
	return accountId, tokenType, nil
}

func (d *DB) DeleteUploadToken(token string) error {
	_, err := d.db.Exec(`DELETE FROM upload_tokens WHERE token = ?`, token)
	return err
}
