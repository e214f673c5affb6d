// Package store implements persistent command history backed by a bbolt
// database.
package store

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/usemam/ledger/pkg/logutil"
	"github.com/usemam/ledger/pkg/store/storedefs"
)

var logger = logutil.GetLogger("[store] ")

var initDB = map[string]func(*bolt.Tx) error{}

// DBStore is the permanent storage backend for the line editor.
type DBStore interface {
	storedefs.Store
	IterateCmds(from, upto int, f func(storedefs.Cmd)) error
	TrimCmds(keep int) (int, error)
	Close() error
}

type dbStore struct {
	db *bolt.DB
}

// NewStore creates a new Store from the given file. The file is created if it
// does not exist. Opening times out if another process holds the database.
func NewStore(dbname string) (DBStore, error) {
	db, err := bolt.Open(dbname, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	return NewStoreFromDB(db)
}

// NewStoreFromDB creates a new Store from a bolt DB.
func NewStoreFromDB(db *bolt.DB) (DBStore, error) {
	logger.Println("initializing store")
	defer logger.Println("initialized store")
	st := &dbStore{db}

	err := db.Update(func(tx *bolt.Tx) error {
		for name, fn := range initDB {
			if err := fn(tx); err != nil {
				return fmt.Errorf("failed to %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

// Close closes the underlying database.
func (s *dbStore) Close() error {
	return s.db.Close()
}
