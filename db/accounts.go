package db

import (
	"time"

	"github.com/deemkeen/stegodon/domain"
	"github.com/google/uuid"
)

const accountColumns = `id, username, publickey, created_at, first_time_login, web_public_key, web_private_key, display_name, summary, avatar_url, is_admin, muted, banned, is_locked, last_ip`

func scanAccount(row interface {
	Scan(dest ...any) error
}) (*domain.Account, error) {
	var a domain.Account
	var id string
	var isAdmin, muted, banned, isLocked int
	err := row.Scan(&id, &a.Username, &a.Publickey, &a.CreatedAt, &a.FirstTimeLogin, &a.WebPublicKey, &a.WebPrivateKey,
		&a.DisplayName, &a.Summary, &a.AvatarURL, &isAdmin, &muted, &banned, &isLocked, &a.LastIP)
	if err != nil {
		return nil, err
	}
	a.Id, err = uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	a.IsAdmin = isAdmin != 0
	a.Muted = muted != 0
	a.Banned = banned != 0
	a.IsLocked = isLocked != 0
	return &a, nil
}

func (d *DB) ReadAccByUsername(username string) (error, *domain.Account) {
	row := d.db.QueryRow(`SELECT `+accountColumns+` FROM accounts WHERE username = ?`, username)
	acc, err := scanAccount(row)
	if err != nil {
		return err, nil
	}
	return nil, acc
}

func (d *DB) ReadAccById(id uuid.UUID) (error, *domain.Account) {
	row := d.db.QueryRow(`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id.String())
	acc, err := scanAccount(row)
	if err != nil {
		return err, nil
	}
	return nil, acc
}

// ReadAllAccounts returns accounts that have completed first-time login,
// the set visible to public-facing listings.
func (d *DB) ReadAllAccounts() (error, *[]domain.Account) {
	return d.readAccounts(`WHERE first_time_login = 0 ORDER BY created_at DESC`)
}

// ReadAllAccountsAdmin returns every account regardless of login state.
func (d *DB) ReadAllAccountsAdmin() (error, *[]domain.Account) {
	return d.readAccounts(`ORDER BY created_at DESC`)
}

// CountLocalUsers reports the instance's registered, logged-in user count
// for nodeinfo's usage.users.total.
func (d *DB) CountLocalUsers() (int, error) {
	var n int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM accounts WHERE first_time_login = 0`).Scan(&n)
	return n, err
}

func (d *DB) readAccounts(where string) (error, *[]domain.Account) {
	rows, err := d.db.Query(`SELECT ` + accountColumns + ` FROM accounts ` + where)
	if err != nil {
		return err, nil
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return err, nil
		}
		accounts = append(accounts, *acc)
	}
	return rows.Err(), &accounts
}

// CreateAccount inserts a new local account, used by the SSH TUI first-login
// flow (middleware/auth.go) to register a new keypair-authenticated user.
func (d *DB) CreateAccount(acc *domain.Account) error {
	if acc.Id == uuid.Nil {
		acc.Id = uuid.New()
	}
	if acc.CreatedAt.IsZero() {
		acc.CreatedAt = time.Now()
	}
	_, err := d.db.Exec(`
		INSERT INTO accounts (id, username, publickey, created_at, first_time_login, web_public_key, web_private_key, display_name, summary, avatar_url, is_admin, muted, banned, is_locked, last_ip)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, acc.Id.String(), acc.Username, acc.Publickey, acc.CreatedAt, acc.FirstTimeLogin, acc.WebPublicKey, acc.WebPrivateKey,
		acc.DisplayName, acc.Summary, acc.AvatarURL, boolToInt(acc.IsAdmin), boolToInt(acc.Muted), boolToInt(acc.Banned), boolToInt(acc.IsLocked), acc.LastIP)
	return err
}

func (d *DB) UpdateAccountProfile(acc *domain.Account) error {
	_, err := d.db.Exec(`
		UPDATE accounts SET display_name = ?, summary = ?, avatar_url = ?, first_time_login = ? WHERE id = ?
	`, acc.DisplayName, acc.Summary, acc.AvatarURL, acc.FirstTimeLogin, acc.Id.String())
	return err
}

// UpdateAccountAvatar sets an account's avatar URL after a successful
// upload, independent of the rest of the profile form.
func (d *DB) UpdateAccountAvatar(accountId uuid.UUID, avatarURL string) error {
	_, err := d.db.Exec(`UPDATE accounts SET avatar_url = ? WHERE id = ?`, avatarURL, accountId.String())
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
