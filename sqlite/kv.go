package sqlite

import (
	"database/sql"

	"github.com/pkg/errors"

	"github.com/status-im/walletconnect-core/db"
)

const (
	createKVTableQuery = "CREATE TABLE IF NOT EXISTS kv_store (key TEXT PRIMARY KEY NOT NULL, value BLOB NOT NULL) WITHOUT ROWID"
	upsertKVQuery      = "INSERT OR REPLACE INTO kv_store(key, value) VALUES(?, ?)"
	selectKVQuery      = "SELECT value FROM kv_store WHERE key = ?"
	deleteKVQuery      = "DELETE FROM kv_store WHERE key = ?"
)

// KeyValueStore implements db.KeyValueStore on an encrypted sqlite database.
type KeyValueStore struct {
	db *sql.DB
}

// NewKeyValueStore wraps an open database, creating the backing table if needed.
func NewKeyValueStore(sqlDB *sql.DB) (*KeyValueStore, error) {
	if _, err := sqlDB.Exec(createKVTableQuery); err != nil {
		return nil, errors.Wrap(err, "failed to create kv_store table")
	}
	return &KeyValueStore{db: sqlDB}, nil
}

// OpenKeyValueStore opens the database at path with password and wraps it.
func OpenKeyValueStore(path, password string) (*KeyValueStore, error) {
	sqlDB, err := OpenDB(path, password)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database %s", path)
	}
	store, err := NewKeyValueStore(sqlDB)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return store, nil
}

func (s *KeyValueStore) Get(key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(selectKVQuery, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read key %s", key)
	}
	return value, nil
}

func (s *KeyValueStore) Set(key string, value []byte) error {
	_, err := s.db.Exec(upsertKVQuery, key, value)
	return errors.Wrapf(err, "failed to write key %s", key)
}

func (s *KeyValueStore) Remove(key string) error {
	_, err := s.db.Exec(deleteKVQuery, key)
	return errors.Wrapf(err, "failed to delete key %s", key)
}

// Close closes database.
func (s *KeyValueStore) Close() error {
	return s.db.Close()
}
