package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// SQLiteStore persists slots in the app_state table created by the database
// package.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Get(userID int64, slot string) ([]byte, error) {
	var value string
	err := s.db.QueryRow(
		`SELECT value FROM app_state WHERE user_id = ? AND slot = ?`,
		userID, slot,
	).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("reading slot %q for user %d: %w", slot, userID, err)
	}
	return []byte(value), nil
}

func (s *SQLiteStore) Set(userID int64, slot string, value []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO app_state (user_id, slot, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, slot) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		userID, slot, string(value), time.Now(),
	)
	if err != nil {
		return fmt.Errorf("writing slot %q for user %d: %w", slot, userID, err)
	}
	return nil
}

func (s *SQLiteStore) UserIDs() ([]int64, error) {
	rows, err := s.db.Query(`SELECT DISTINCT user_id FROM app_state ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("listing app_state users: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning app_state user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
