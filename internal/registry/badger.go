package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	badger "github.com/dgraph-io/badger/v4"
)

// keyPrefix namespaces instance records inside the database.
const keyPrefix = "instance/"

// BadgerRegistry persists records in an embedded BadgerDB database.
//
// The database lives in a user-writable state directory so that the
// non-root invoking user can open it without sudo.
type BadgerRegistry struct {
	db *badger.DB
}

// NewBadgerRegistry opens (or creates) the database at path.
func NewBadgerRegistry(path string) (*BadgerRegistry, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry at %s: %w", path, err)
	}

	return &BadgerRegistry{db: db}, nil
}

func (r *BadgerRegistry) Put(ctx context.Context, record Record) error {
	if record.Identifier == "" {
		return fmt.Errorf("cannot store record without identifier")
	}

	value, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode record for %s: %w", record.Identifier, err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(recordKey(record.Identifier), value)
	})
	if err != nil {
		return fmt.Errorf("failed to store record for %s: %w", record.Identifier, err)
	}
	return nil
}

func (r *BadgerRegistry) Get(ctx context.Context, identifier string) (*Record, error) {
	var record Record

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(recordKey(identifier))
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			return json.Unmarshal(value, &record)
		})
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load record for %s: %w", identifier, err)
	}

	return &record, nil
}

func (r *BadgerRegistry) List(ctx context.Context) ([]Record, error) {
	var records []Record

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var record Record
			err := it.Item().Value(func(value []byte) error {
				return json.Unmarshal(value, &record)
			})
			if err != nil {
				return err
			}
			records = append(records, record)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Identifier < records[j].Identifier
	})
	return records, nil
}

func (r *BadgerRegistry) Close() error {
	return r.db.Close()
}

func recordKey(identifier string) []byte {
	return []byte(keyPrefix + identifier)
}
