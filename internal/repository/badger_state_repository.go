package repository

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
)

type badgerStateRepository struct {
	db  *badger.DB
	key []byte
}

// NewBadgerStateRepository stores the document in an embedded badger database.
func NewBadgerStateRepository(db *badger.DB, key string) StateRepository {
	return &badgerStateRepository{db: db, key: []byte(key)}
}

func (r *badgerStateRepository) Load(_ context.Context) ([]byte, error) {
	var document []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(r.key)
		if err != nil {
			return err
		}
		document, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrStateNotFound
	}
	if err != nil {
		return nil, err
	}
	return document, nil
}

func (r *badgerStateRepository) Save(_ context.Context, document []byte) error {
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(r.key, document)
	})
}

func (r *badgerStateRepository) Ping(_ context.Context) error {
	if r.db.IsClosed() {
		return errors.New("badger store closed")
	}
	return nil
}
