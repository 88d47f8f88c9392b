package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/chirchiq/estate-bot/internal/model"
)

// SQLiteStore persists users, ads, subscriptions and payments.
// Timestamps are stored as unix seconds.
type SQLiteStore struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// NewSQLiteStore opens (and creates if needed) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Configure SQLite with WAL mode and busy timeout for better concurrency
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := os.Chmod(dbPath, 0600); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("path", dbPath).Msg("failed to restrict database permissions")
	}

	store := &SQLiteStore{db: db, now: time.Now}
	if err := store.init(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) init() error {
	tables := []struct {
		name  string
		query string
	}{
		{"users", `
		CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY,
			first_name TEXT NOT NULL DEFAULT '',
			username TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL,
			language TEXT NOT NULL,
			currency TEXT NOT NULL,
			subscription_start INTEGER,
			subscription_end INTEGER,
			trial_used INTEGER NOT NULL DEFAULT 0,
			expiry_reminded_for INTEGER,
			created_at INTEGER NOT NULL
		);`},
		{"ads", `
		CREATE TABLE IF NOT EXISTS ads (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			type TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			price REAL NOT NULL,
			currency TEXT NOT NULL,
			location TEXT NOT NULL,
			photos TEXT NOT NULL DEFAULT '[]',
			status TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);`},
		{"subscriptions", `
		CREATE TABLE IF NOT EXISTS subscriptions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			role TEXT NOT NULL,
			kind TEXT NOT NULL,
			starts_at INTEGER NOT NULL,
			ends_at INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		);`},
		{"payments", `
		CREATE TABLE IF NOT EXISTS payments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			role TEXT NOT NULL,
			plan TEXT NOT NULL,
			amount REAL NOT NULL,
			currency TEXT NOT NULL,
			duration_days INTEGER NOT NULL,
			reference TEXT NOT NULL UNIQUE,
			receipt_file_id TEXT NOT NULL DEFAULT '',
			receipt_hash TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);`},
	}
	for _, t := range tables {
		if _, err := s.db.Exec(t.query); err != nil {
			return fmt.Errorf("failed to create %s table: %w", t.name, err)
		}
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_ads_user ON ads(user_id, created_at)",
		"CREATE INDEX IF NOT EXISTS idx_payments_receipt_hash ON payments(receipt_hash)",
		"CREATE INDEX IF NOT EXISTS idx_users_subscription_end ON users(subscription_end)",
	}
	for _, q := range indexes {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const userColumns = `id, first_name, username, role, language, currency,
	subscription_start, subscription_end, trial_used, expiry_reminded_for, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*model.User, error) {
	var u model.User
	var role, lang string
	var start, end, reminded sql.NullInt64
	var createdAt int64
	err := row.Scan(&u.ID, &u.FirstName, &u.Username, &role, &lang, &u.Currency,
		&start, &end, &u.TrialUsed, &reminded, &createdAt)
	if err != nil {
		return nil, err
	}
	u.Role = model.Role(role)
	u.Language = model.Language(lang)
	u.SubscriptionStart = fromUnix(start)
	u.SubscriptionEnd = fromUnix(end)
	u.ExpiryRemindedFor = fromUnix(reminded)
	u.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &u, nil
}

// GetUser returns nil, nil when the user does not exist.
func (s *SQLiteStore) GetUser(ctx context.Context, id int64) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, err := scanUser(s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return u, nil
}

// CreateUser inserts u, refreshing the profile names if it already exists.
func (s *SQLiteStore) CreateUser(ctx context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := u.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, first_name, username, role, language, currency, trial_used, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			first_name = excluded.first_name,
			username = excluded.username
	`, u.ID, u.FirstName, u.Username, string(u.Role), string(u.Language), u.Currency, boolInt(u.TrialUsed), createdAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// UpdateUserRole switches the user's role. A positive trialDays starts a
// trial subscription from now and marks the trial as used.
func (s *SQLiteStore) UpdateUserRole(ctx context.Context, id int64, role model.Role, trialDays int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if trialDays <= 0 {
		res, err := s.db.ExecContext(ctx, "UPDATE users SET role = ? WHERE id = ?", string(role), id)
		if err != nil {
			return fmt.Errorf("failed to update role: %w", err)
		}
		return requireRow(res, "user", id)
	}

	start := s.now()
	end := start.AddDate(0, 0, trialDays)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE users SET role = ?, subscription_start = ?, subscription_end = ?, trial_used = 1
		WHERE id = ?
	`, string(role), start.Unix(), end.Unix(), id)
	if err != nil {
		return fmt.Errorf("failed to start trial: %w", err)
	}
	if err := requireRow(res, "user", id); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO subscriptions (user_id, role, kind, starts_at, ends_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, string(role), string(SubscriptionTrial), start.Unix(), end.Unix(), start.Unix())
	if err != nil {
		return fmt.Errorf("failed to record trial subscription: %w", err)
	}
	return tx.Commit()
}

func (s *SQLiteStore) UpdateUserLanguage(ctx context.Context, id int64, lang model.Language) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "UPDATE users SET language = ? WHERE id = ?", string(lang), id)
	if err != nil {
		return fmt.Errorf("failed to update language: %w", err)
	}
	return requireRow(res, "user", id)
}

// ListExpiringSubscriptions returns paid-role users whose subscription ends
// within the given window and who were not yet reminded about that end date.
func (s *SQLiteStore) ListExpiringSubscriptions(ctx context.Context, now time.Time, within time.Duration) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	roles := make([]string, len(model.PaidRoles))
	args := []any{now.Unix(), now.Add(within).Unix()}
	for i, r := range model.PaidRoles {
		roles[i] = "?"
		args = append(args, string(r))
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE subscription_end > ? AND subscription_end <= ?
			AND role IN (`+strings.Join(roles, ", ")+`)
			AND (expiry_reminded_for IS NULL OR expiry_reminded_for != subscription_end)
		ORDER BY subscription_end
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expiring subscriptions: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// MarkExpiryReminded records that the user was reminded about the given end date.
func (s *SQLiteStore) MarkExpiryReminded(ctx context.Context, userID int64, end time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "UPDATE users SET expiry_reminded_for = ? WHERE id = ?", end.Unix(), userID)
	if err != nil {
		return fmt.Errorf("failed to mark expiry reminded: %w", err)
	}
	return nil
}

// SubscriptionKind tells how a subscription period was obtained. Trial
// periods are granted by the bot; paid periods are written when the admin
// approves a payment outside the bot.
type SubscriptionKind string

const (
	SubscriptionTrial SubscriptionKind = "trial"
	SubscriptionPaid  SubscriptionKind = "paid"
)

// Subscription is one granted period of a paid role.
type Subscription struct {
	ID       int64
	UserID   int64
	Role     model.Role
	Kind     SubscriptionKind
	StartsAt time.Time
	EndsAt   time.Time
}

// GetSubscriptions returns the user's subscription history, newest first.
func (s *SQLiteStore) GetSubscriptions(ctx context.Context, userID int64) ([]Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, role, kind, starts_at, ends_at FROM subscriptions
		WHERE user_id = ? ORDER BY starts_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []Subscription
	for rows.Next() {
		var sub Subscription
		var role, kind string
		var starts, ends int64
		if err := rows.Scan(&sub.ID, &sub.UserID, &role, &kind, &starts, &ends); err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		sub.Role = model.Role(role)
		sub.Kind = SubscriptionKind(kind)
		sub.StartsAt = time.Unix(starts, 0).UTC()
		sub.EndsAt = time.Unix(ends, 0).UTC()
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func fromUnix(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.Unix(v.Int64, 0).UTC()
	return &t
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func requireRow(res sql.Result, what string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d not found", what, id)
	}
	return nil
}
