package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"

	"github.com/antlbn/Timezone-bot/internal/domain"
)

// SQLiteRepo implements Repo using an embedded SQLite database.
type SQLiteRepo struct{ db *sql.DB }

// OpenSQLite opens (or creates) the SQLite database at the given path,
// applies recommended PRAGMAs, runs SQL migrations, and returns a repository.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Reasonable pooling for SQLite; it's a single-writer engine.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &SQLiteRepo{db: db}, nil
}

// applyPragmas configures the SQLite connection for durability and concurrency.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database resources.
func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

// UpsertUser inserts or updates a user's location. The (user_id,
// platform) pair identifies the row; created_at survives updates.
func (r *SQLiteRepo) UpsertUser(ctx context.Context, u *domain.MemberLocation) error {
	if u == nil {
		return errors.New("nil user")
	}

	now := time.Now().UTC().Unix()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (
			user_id, platform, city, timezone, flag, username,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, platform) DO UPDATE SET
			city       = excluded.city,
			timezone   = excluded.timezone,
			flag       = excluded.flag,
			username   = excluded.username,
			updated_at = excluded.updated_at`,
		u.UserID, u.Platform, u.City, u.Timezone, u.Flag,
		toNullString(u.Username), now, now,
	)
	return err
}

// GetUser returns a user's stored location or ErrNotFound.
func (r *SQLiteRepo) GetUser(ctx context.Context, userID int64, platform string) (*domain.MemberLocation, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT user_id, platform, city, timezone, flag, username
		FROM users
		WHERE user_id = ? AND platform = ?`,
		userID, platform,
	)
	u, err := scanMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %d/%s", ErrNotFound, userID, platform)
	}
	return u, err
}

// AddChatMember registers a user as a member of a chat. Re-adding an
// existing member is a no-op.
func (r *SQLiteRepo) AddChatMember(ctx context.Context, chatID, userID int64, platform string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO chat_members (chat_id, user_id, platform, added_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(chat_id, user_id, platform) DO NOTHING`,
		chatID, userID, platform, time.Now().UTC().Unix(),
	)
	return err
}

// RemoveChatMember drops a user from a chat roster.
func (r *SQLiteRepo) RemoveChatMember(ctx context.Context, chatID, userID int64, platform string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM chat_members
		WHERE chat_id = ? AND user_id = ? AND platform = ?`,
		chatID, userID, platform,
	)
	return err
}

// ClearChatMembers drops a chat's whole roster (bot kicked from chat).
func (r *SQLiteRepo) ClearChatMembers(ctx context.Context, chatID int64, platform string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM chat_members
		WHERE chat_id = ? AND platform = ?`,
		chatID, platform,
	)
	return err
}

// ListChatMembers returns the locations of all chat members in
// insertion order.
func (r *SQLiteRepo) ListChatMembers(ctx context.Context, chatID int64, platform string) ([]domain.MemberLocation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT u.user_id, u.platform, u.city, u.timezone, u.flag, u.username
		FROM chat_members cm
		JOIN users u ON u.user_id = cm.user_id AND u.platform = cm.platform
		WHERE cm.chat_id = ? AND cm.platform = ?
		ORDER BY cm.added_at ASC, cm.user_id ASC`,
		chatID, platform,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var res []domain.MemberLocation
	for rows.Next() {
		u, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(row rowScanner) (*domain.MemberLocation, error) {
	var (
		u        domain.MemberLocation
		username sql.NullString
	)
	if err := row.Scan(&u.UserID, &u.Platform, &u.City, &u.Timezone, &u.Flag, &username); err != nil {
		return nil, err
	}
	u.Username = fromNullString(username)
	return &u, nil
}
