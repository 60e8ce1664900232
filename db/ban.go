package db

import (
	"time"

	"github.com/deemkeen/stegodon/domain"
	"github.com/google/uuid"
)

const sqlCreateBansTable = `
CREATE TABLE IF NOT EXISTS bans (
	id TEXT PRIMARY KEY,
	username TEXT NOT NULL,
	ip_address TEXT NOT NULL DEFAULT '',
	public_key_hash TEXT NOT NULL DEFAULT '',
	reason TEXT NOT NULL DEFAULT '',
	banned_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

const sqlCreateBansIndices = `
CREATE INDEX IF NOT EXISTS idx_bans_ip_address ON bans(ip_address);
CREATE INDEX IF NOT EXISTS idx_bans_public_key_hash ON bans(public_key_hash)`

func (d *DB) CreateBan(id, username, ipAddress, publicKeyHash, reason string) error {
	_, err := d.db.Exec(
		`INSERT INTO bans (id, username, ip_address, public_key_hash, reason, banned_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, username, ipAddress, publicKeyHash, reason, time.Now(),
	)
	return err
}

func (d *DB) ReadAllBans() (error, *[]domain.Ban) {
	rows, err := d.db.Query(`SELECT id, username, ip_address, public_key_hash, reason, banned_at FROM bans ORDER BY banned_at DESC`)
	if err != nil {
		return err, nil
	}
	defer rows.Close()

	var bans []domain.Ban
	for rows.Next() {
		var b domain.Ban
		if err := rows.Scan(&b.Id, &b.Username, &b.IPAddress, &b.PublicKeyHash, &b.Reason, &b.BannedAt); err != nil {
			return err, nil
		}
		bans = append(bans, b)
	}
	return rows.Err(), &bans
}

func (d *DB) IsIPBanned(ip string) bool {
	if ip == "" {
		return false
	}
	var count int
	err := d.db.QueryRow(
		`SELECT COUNT(*) FROM bans WHERE ip_address = ? AND ip_address != '' AND banned_at > datetime('now', '-60 days')`,
		ip,
	).Scan(&count)
	return err == nil && count > 0
}

func (d *DB) IsPublicKeyBanned(hash string) bool {
	if hash == "" {
		return false
	}
	var count int
	err := d.db.QueryRow(
		`SELECT COUNT(*) FROM bans WHERE public_key_hash = ? AND public_key_hash != ''`,
		hash,
	).Scan(&count)
	return err == nil && count > 0
}

func (d *DB) DeleteBan(id string) error {
	_, err := d.db.Exec(`DELETE FROM bans WHERE id = ?`, id)
	return err
}

// CleanupExpiredIPBans clears the ip_address of any ban older than 60 days,
// preserving the public-key-hash ban (which never expires) and the record
// itself. Returns the number of rows cleared.
func (d *DB) CleanupExpiredIPBans() (int, error) {
	res, err := d.db.Exec(
		`UPDATE bans SET ip_address = '' WHERE ip_address != '' AND banned_at <= datetime('now', '-60 days')`,
	)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

func (d *DB) BanAccount(id uuid.UUID) error {
	_, err := d.db.Exec(`UPDATE accounts SET banned = 1 WHERE id = ?`, id.String())
	return err
}

func (d *DB) UnbanAccount(id uuid.UUID) error {
	_, err := d.db.Exec(`UPDATE accounts SET banned = 0 WHERE id = ?`, id.String())
	return err
}

func (d *DB) UpdateAccountLastIP(id uuid.UUID, ip string) error {
	_, err := d.db.Exec(`UPDATE accounts SET last_ip = ? WHERE id = ?`, ip, id.String())
	return err
}

func (d *DB) UpdateAccountLastIPByPkHash(hash, ip string) error {
	_, err := d.db.Exec(`UPDATE accounts SET last_ip = ? WHERE publickey = ?`, ip, hash)
	return err
}
