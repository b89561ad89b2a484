package history

import (
	"context"
	"encoding/json"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
)

const queryPrefix = "qry:"

// BadgerStore keeps records in an embedded Badger database. Keys embed a
// zero-padded nanosecond timestamp so reverse iteration yields newest first.
type BadgerStore struct {
	db *badger.DB
}

type BadgerConfig struct {
	Path string `envconfig:"PATH" split_words:"true" default:"data/history"`
}

func NewBadgerStore(cfg BadgerConfig) (*BadgerStore, error) {
	opts := badger.DefaultOptions(cfg.Path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("history: open badger at %s: %w", cfg.Path, err)
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Record(ctx context.Context, rec Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("history: marshal record: %w", err)
	}
	key := fmt.Sprintf("%s%019d:%s", queryPrefix, rec.At.UnixNano(), rec.ID)
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), payload)
	})
	if err != nil {
		return fmt.Errorf("history: store record: %w", err)
	}
	return nil
}

func (s *BadgerStore) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		return nil, nil
	}
	records := make([]Record, 0, limit)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(queryPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration must seek past the last key under the prefix.
		seek := append([]byte(queryPrefix), 0xFF)
		for it.Seek(seek); it.Valid() && len(records) < limit; it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var rec Record
				if err := json.Unmarshal(val, &rec); err != nil {
					return fmt.Errorf("history: decode record: %w", err)
				}
				records = append(records, rec)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}
