package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/glabrego/lemmy-cli/internal/api"
	"github.com/glabrego/lemmy-cli/internal/settings"
)

// Account is a saved sign-in.
type Account struct {
	Host      string
	Username  string
	Token     string
	Flavor    api.Flavor
	UpdatedAt time.Time
}

type Repository struct {
	db *sql.DB
}

func NewRepository(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Repository) Init(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS accounts (
  host TEXT NOT NULL,
  username TEXT NOT NULL,
  token TEXT NOT NULL,
  flavor TEXT NOT NULL,
  is_current INTEGER NOT NULL DEFAULT 0,
  updated_at TEXT NOT NULL,
  PRIMARY KEY (host, username)
);
CREATE TABLE IF NOT EXISTS preferences (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
`
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// CheckWritable fails early when the database file cannot be written.
func (r *Repository) CheckWritable(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, `INSERT INTO preferences (key, value) VALUES ('__write_check', '1')
ON CONFLICT(key) DO UPDATE SET value=excluded.value`); err != nil {
		return fmt.Errorf("write check: %w", err)
	}
	return nil
}

// SaveAccount stores the account and makes it the current one.
func (r *Repository) SaveAccount(ctx context.Context, account Account) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `UPDATE accounts SET is_current = 0`); err != nil {
		return fmt.Errorf("clear current account: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
INSERT INTO accounts (host, username, token, flavor, is_current, updated_at)
VALUES (?, ?, ?, ?, 1, ?)
ON CONFLICT(host, username) DO UPDATE SET
  token=excluded.token,
  flavor=excluded.flavor,
  is_current=1,
  updated_at=excluded.updated_at
`, account.Host, account.Username, account.Token, string(account.Flavor), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save account %s@%s: %w", account.Username, account.Host, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// CurrentAccount returns the account signed in last, if any.
func (r *Repository) CurrentAccount(ctx context.Context) (Account, bool, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT host, username, token, flavor, updated_at
FROM accounts
WHERE is_current = 1
LIMIT 1
`)
	var (
		account   Account
		flavor    string
		updatedAt string
	)
	if err := row.Scan(&account.Host, &account.Username, &account.Token, &flavor, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Account{}, false, nil
		}
		return Account{}, false, fmt.Errorf("query current account: %w", err)
	}
	account.Flavor = api.Flavor(flavor)
	parsed, err := time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return Account{}, false, fmt.Errorf("parse account updated_at %q: %w", updatedAt, err)
	}
	account.UpdatedAt = parsed
	return account, true, nil
}

func (r *Repository) DeleteAccount(ctx context.Context, host, username string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE host = ? AND username = ?`, host, username); err != nil {
		return fmt.Errorf("delete account %s@%s: %w", username, host, err)
	}
	return nil
}

const (
	prefDefaultSort          = "default_sort"
	prefDefaultCommunitySort = "default_community_sort"
	prefDefaultListingType   = "default_listing_type"
	prefDefaultCommentSort   = "default_comment_sort"
	prefUseReaderMode        = "use_reader_mode"
	prefUseDefaultBrowser    = "use_default_browser"
)

// LoadSettings returns the stored settings layered over the defaults.
func (r *Repository) LoadSettings(ctx context.Context) (settings.Settings, error) {
	out := settings.Defaults()

	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM preferences`)
	if err != nil {
		return out, fmt.Errorf("query preferences: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return out, fmt.Errorf("scan preference: %w", err)
		}
		switch key {
		case prefDefaultSort:
			out.DefaultSort = api.SortType(value)
		case prefDefaultCommunitySort:
			out.DefaultCommunitySort = api.SortType(value)
		case prefDefaultListingType:
			out.DefaultListingType = api.ListingType(value)
		case prefDefaultCommentSort:
			out.DefaultCommentSort = api.CommentSortType(value)
		case prefUseReaderMode:
			out.UseReaderMode = value == "1"
		case prefUseDefaultBrowser:
			out.UseDefaultBrowser = value == "1"
		}
	}
	if err := rows.Err(); err != nil {
		return out, fmt.Errorf("rows iteration: %w", err)
	}
	if err := out.Validate(); err != nil {
		return settings.Defaults(), fmt.Errorf("stored settings: %w", err)
	}
	return out, nil
}

func (r *Repository) SaveSettings(ctx context.Context, s settings.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO preferences (key, value)
VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value=excluded.value
`)
	if err != nil {
		return fmt.Errorf("prepare preference statement: %w", err)
	}
	defer stmt.Close()

	values := [][2]string{
		{prefDefaultSort, string(s.DefaultSort)},
		{prefDefaultCommunitySort, string(s.DefaultCommunitySort)},
		{prefDefaultListingType, string(s.DefaultListingType)},
		{prefDefaultCommentSort, string(s.DefaultCommentSort)},
		{prefUseReaderMode, boolString(s.UseReaderMode)},
		{prefUseDefaultBrowser, boolString(s.UseDefaultBrowser)},
	}
	for _, kv := range values {
		if _, err := stmt.ExecContext(ctx, kv[0], kv[1]); err != nil {
			return fmt.Errorf("save preference %s: %w", kv[0], err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func boolString(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
