package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"friendgraph/internal/social"
	apperrors "friendgraph/pkg/errors"
	"friendgraph/pkg/logger"
)

// SQLiteStore implements Store using SQLite as the storage backend.
type SQLiteStore struct {
	db        *sql.DB
	log       *zap.Logger
	writeLock *sync.Mutex // go-sqlite does not support concurrent writes
}

var _ social.Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the database at path and ensures the
// schema exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	// Pragmas go in the DSN so every pooled connection gets them; a plain
	// PRAGMA exec would only configure whichever connection ran it.
	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := initializeDB(db); err != nil {
		return nil, fmt.Errorf("initialize db: %w", err)
	}

	db.SetConnMaxLifetime(5 * time.Minute)

	return &SQLiteStore{
		db:        db,
		log:       logger.Get(),
		writeLock: new(sync.Mutex),
	}, nil
}

func initializeDB(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id         TEXT    PRIMARY KEY,
			username   TEXT    UNIQUE NOT NULL,
			age        INTEGER NOT NULL,
			hobbies    TEXT    NOT NULL DEFAULT '[]',
			created_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS friendships (
			user_id_a TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			user_id_b TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			PRIMARY KEY (user_id_a, user_id_b),
			CHECK (user_id_a < user_id_b)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_friendships_b ON friendships(user_id_b)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}

	return nil
}

// CreateUser implements Store.CreateUser using SQLite.
func (s *SQLiteStore) CreateUser(ctx context.Context, username string, age int, hobbies []string) (*social.User, error) {
	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	if hobbies == nil {
		hobbies = []string{}
	}

	user := &social.User{
		ID:        uuid.New().String(),
		Username:  username,
		Age:       age,
		Hobbies:   hobbies,
		CreatedAt: time.Now().UTC(),
	}

	hobbiesJSON, err := json.Marshal(hobbies)
	if err != nil {
		return nil, fmt.Errorf("marshal hobbies: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO users (id, username, age, hobbies, created_at) VALUES (?, ?, ?, ?, ?)",
		user.ID, user.Username, user.Age, string(hobbiesJSON), user.CreatedAt.UnixNano(),
	)
	if err != nil {
		if isConstraint(err, sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY) {
			return nil, apperrors.NewDuplicateUsername(username, err)
		}
		return nil, apperrors.NewStoreQueryFailed("insert user", err)
	}

	s.log.Info("User created",
		zap.String("user_id", user.ID),
		zap.String("username", user.Username),
	)
	return user, nil
}

// GetUser implements Store.GetUser using SQLite.
func (s *SQLiteStore) GetUser(ctx context.Context, id string) (*social.User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, username, age, hobbies, created_at FROM users WHERE id = ?", id)

	user, err := scanUser(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewUserNotFound(id)
		}
		return nil, apperrors.NewStoreQueryFailed("query user", err)
	}

	return user, nil
}

// ListUsers implements Store.ListUsers using SQLite.
func (s *SQLiteStore) ListUsers(ctx context.Context) ([]social.User, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, username, age, hobbies, created_at FROM users ORDER BY created_at ASC, rowid ASC")
	if err != nil {
		return nil, apperrors.NewStoreQueryFailed("list users", err)
	}
	defer rows.Close()

	users := make([]social.User, 0)
	for rows.Next() {
		user, err := scanUser(rows.Scan)
		if err != nil {
			return nil, apperrors.NewStoreQueryFailed("scan user", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreQueryFailed("list users", err)
	}

	return users, nil
}

// UpdateUser implements Store.UpdateUser using SQLite.
func (s *SQLiteStore) UpdateUser(ctx context.Context, id, username string, age int, hobbies []string) (*social.User, error) {
	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	if hobbies == nil {
		hobbies = []string{}
	}

	hobbiesJSON, err := json.Marshal(hobbies)
	if err != nil {
		return nil, fmt.Errorf("marshal hobbies: %w", err)
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE users SET username = ?, age = ?, hobbies = ? WHERE id = ?",
		username, age, string(hobbiesJSON), id,
	)
	if err != nil {
		if isConstraint(err, sqlite3.SQLITE_CONSTRAINT_UNIQUE) {
			return nil, apperrors.NewDuplicateUsername(username, err)
		}
		return nil, apperrors.NewStoreQueryFailed("update user", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, apperrors.NewStoreQueryFailed("update user", err)
	}
	if affected == 0 {
		return nil, apperrors.NewUserNotFound(id)
	}

	return s.GetUser(ctx, id)
}

// DeleteUser implements Store.DeleteUser using SQLite.
func (s *SQLiteStore) DeleteUser(ctx context.Context, id string) error {
	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	result, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return apperrors.NewStoreQueryFailed("delete user", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewStoreQueryFailed("delete user", err)
	}
	if affected == 0 {
		return apperrors.NewUserNotFound(id)
	}

	s.log.Info("User deleted", zap.String("user_id", id))
	return nil
}

// ListFriendships implements Store.ListFriendships using SQLite.
func (s *SQLiteStore) ListFriendships(ctx context.Context) ([]social.Friendship, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT user_id_a, user_id_b FROM friendships")
	if err != nil {
		return nil, apperrors.NewStoreQueryFailed("list friendships", err)
	}
	defer rows.Close()

	friendships := make([]social.Friendship, 0)
	for rows.Next() {
		var f social.Friendship
		if err := rows.Scan(&f.UserIDA, &f.UserIDB); err != nil {
			return nil, apperrors.NewStoreQueryFailed("scan friendship", err)
		}
		friendships = append(friendships, f)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreQueryFailed("list friendships", err)
	}

	return friendships, nil
}

// FriendIDs implements Store.FriendIDs using SQLite.
func (s *SQLiteStore) FriendIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id_a, user_id_b FROM friendships WHERE user_id_a = ? OR user_id_b = ?",
		userID, userID,
	)
	if err != nil {
		return nil, apperrors.NewStoreQueryFailed("query friend ids", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var a, b string
		if err := rows.Scan(&a, &b); err != nil {
			return nil, apperrors.NewStoreQueryFailed("scan friend ids", err)
		}
		if a == userID {
			ids = append(ids, b)
		} else {
			ids = append(ids, a)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreQueryFailed("query friend ids", err)
	}

	return ids, nil
}

// HobbiesOf implements Store.HobbiesOf using SQLite.
func (s *SQLiteStore) HobbiesOf(ctx context.Context, userIDs []string) ([][]string, error) {
	if len(userIDs) == 0 {
		return [][]string{}, nil
	}

	placeholders := strings.Repeat("?, ", len(userIDs)-1) + "?"
	args := make([]any, len(userIDs))
	for i, id := range userIDs {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT hobbies FROM users WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return nil, apperrors.NewStoreQueryFailed("query hobbies", err)
	}
	defer rows.Close()

	lists := make([][]string, 0, len(userIDs))
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, apperrors.NewStoreQueryFailed("scan hobbies", err)
		}
		hobbies, err := unmarshalHobbies(raw)
		if err != nil {
			return nil, apperrors.NewStoreQueryFailed("decode hobbies", err)
		}
		lists = append(lists, hobbies)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreQueryFailed("query hobbies", err)
	}

	return lists, nil
}

// CreateFriendship implements Store.CreateFriendship using SQLite. The pair
// must already be in canonical order; the CHECK constraint enforces it.
func (s *SQLiteStore) CreateFriendship(ctx context.Context, idLow, idHigh string) error {
	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO friendships (user_id_a, user_id_b) VALUES (?, ?)",
		idLow, idHigh,
	)
	if err != nil {
		if isConstraint(err, sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY) {
			return apperrors.NewDuplicateFriendship(idLow, idHigh, err)
		}
		if isConstraint(err, sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY) {
			return apperrors.NewUserNotFound(idLow + " or " + idHigh)
		}
		return apperrors.NewStoreQueryFailed("insert friendship", err)
	}

	s.log.Info("Friendship created",
		zap.String("user_id_a", idLow),
		zap.String("user_id_b", idHigh),
	)
	return nil
}

// DeleteFriendship implements Store.DeleteFriendship using SQLite.
func (s *SQLiteStore) DeleteFriendship(ctx context.Context, idLow, idHigh string) error {
	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	result, err := s.db.ExecContext(ctx,
		"DELETE FROM friendships WHERE user_id_a = ? AND user_id_b = ?",
		idLow, idHigh,
	)
	if err != nil {
		return apperrors.NewStoreQueryFailed("delete friendship", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewStoreQueryFailed("delete friendship", err)
	}
	if affected == 0 {
		return apperrors.NewFriendshipNotFound(idLow, idHigh)
	}

	s.log.Info("Friendship removed",
		zap.String("user_id_a", idLow),
		zap.String("user_id_b", idHigh),
	)
	return nil
}

// HasAnyFriendship implements Store.HasAnyFriendship using SQLite.
func (s *SQLiteStore) HasAnyFriendship(ctx context.Context, userID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM friendships WHERE user_id_a = ? OR user_id_b = ? LIMIT 1",
		userID, userID,
	).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, apperrors.NewStoreQueryFailed("check friendships", err)
	}

	return true, nil
}

// Ping implements Store.Ping by pinging the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close implements Store.Close by closing the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}
	return nil
}

// scanUser reads one user row; scan is either sql.Row.Scan or sql.Rows.Scan.
func scanUser(scan func(dest ...any) error) (*social.User, error) {
	var (
		user       social.User
		rawHobbies string
		createdAt  int64
	)
	if err := scan(&user.ID, &user.Username, &user.Age, &rawHobbies, &createdAt); err != nil {
		return nil, err
	}

	hobbies, err := unmarshalHobbies(rawHobbies)
	if err != nil {
		return nil, err
	}
	user.Hobbies = hobbies
	user.CreatedAt = time.Unix(0, createdAt).UTC()

	return &user, nil
}

func unmarshalHobbies(raw string) ([]string, error) {
	hobbies := make([]string, 0)
	if raw == "" {
		return hobbies, nil
	}
	if err := json.Unmarshal([]byte(raw), &hobbies); err != nil {
		return nil, fmt.Errorf("decode hobbies: %w", err)
	}
	return hobbies, nil
}

func isConstraint(err error, codes ...int) bool {
	var liteErr *sqlite.Error
	if !errors.As(err, &liteErr) {
		return false
	}
	for _, code := range codes {
		if liteErr.Code() == code {
			return true
		}
	}
	return false
}
