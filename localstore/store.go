// Package localstore provides a dynafetch.Gateway backed by BadgerDB, it stores tables on local
// disk (or in memory) so fetch-or-create can run without access to DynamoDB.
package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/mr-tron/base58"
	"github.com/rs/zerolog"

	"github.com/wolfeidau/dynafetch"
)

// Options configure the badger database
type Options struct {
	// Dir is where badger stores its files, ignored when InMemory is set
	Dir string
	// InMemory keeps all data in memory, nothing survives Close
	InMemory bool
	// Logger receives badger's own log output
	Logger zerolog.Logger
}

// Store is a dynafetch.Gateway backed by BadgerDB
type Store struct {
	db *badger.DB
}

var _ dynafetch.Gateway = &Store{}

// Open the database described by opts
func Open(opts Options) (*Store, error) {
	bopts := badger.DefaultOptions(opts.Dir)
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	}

	bopts = bopts.WithLogger(&badgerLogger{logger: opts.Logger})

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	return &Store{db: db}, nil
}

// Close the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Query the records in the table whose keyName attribute equals key
//
// Only the index entries for the key are read and at most ReadOptions.Limit matches are counted.
func (s *Store) Query(ctx context.Context, table, keyName string, key dynafetch.AttributeValue, options ...dynafetch.ReadOption) (*dynafetch.QueryOutcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	readOptions := dynafetch.NewReadOptions(options...)

	outcome := &dynafetch.QueryOutcome{}

	err := s.db.View(func(txn *badger.Txn) error {
		ids, err := scanIndex(txn, table, keyName, key, readOptions.Limit())
		if err != nil {
			return err
		}

		outcome.Count = int64(len(ids))

		if outcome.Count != 1 {
			return nil
		}

		rec, err := getRecord(txn, table, ids[0])
		if err != nil {
			return err
		}

		outcome.Item = rec.item()

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query table: %w", err)
	}

	return outcome, nil
}

// Insert the item as a new record in the table, every field is indexed so it can be queried as a key
//
// With dynafetch.WriteIfNotExists the insert fails with dynafetch.ErrKeyExists if a record with the
// same key exists, or another conditional insert of that key commits first.
func (s *Store) Insert(ctx context.Context, table string, fields map[string]dynafetch.AttributeValue, options ...dynafetch.WriteOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	writeOptions := dynafetch.NewWriteOptions(options...)

	data, err := encodeRecord(fields)
	if err != nil {
		return fmt.Errorf("failed to encode item: %w", err)
	}

	keyName, conditional := writeOptions.IfNotExists()

	err = s.db.Update(func(txn *badger.Txn) error {
		if conditional {
			key, ok := fields[keyName]
			if !ok {
				return fmt.Errorf("item has no key attribute %s", keyName)
			}

			// reading the marker makes concurrent conditional inserts of this key conflict
			marker := markerKey(table, keyName, key)

			_, err := txn.Get(marker)
			switch {
			case err == nil:
				return dynafetch.ErrKeyExists
			case !errors.Is(err, badger.ErrKeyNotFound):
				return err
			}

			ids, err := scanIndex(txn, table, keyName, key, 1)
			if err != nil {
				return err
			}
			if len(ids) > 0 {
				return dynafetch.ErrKeyExists
			}

			if err := txn.Set(marker, []byte{1}); err != nil {
				return err
			}
		}

		id := uuid.New()

		for name, value := range fields {
			if err := txn.Set(indexKey(table, name, value, id), nil); err != nil {
				return err
			}
		}

		return txn.Set(recordKey(table, id), data)
	})
	if err != nil {
		if conditional && errors.Is(err, badger.ErrConflict) {
			return dynafetch.ErrKeyExists
		}
		if errors.Is(err, dynafetch.ErrKeyExists) {
			return err
		}
		return fmt.Errorf("failed to put item: %w", err)
	}

	return nil
}

// scanIndex returns the ids of up to limit records whose keyName attribute equals key
func scanIndex(txn *badger.Txn, table, keyName string, key dynafetch.AttributeValue, limit int64) ([]uuid.UUID, error) {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = indexPrefix(table, keyName, key)

	it := txn.NewIterator(opts)
	defer it.Close()

	var ids []uuid.UUID

	for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
		id, err := uuid.ParseBytes(it.Item().Key()[len(opts.Prefix):])
		if err != nil {
			return nil, fmt.Errorf("invalid index entry %q: %w", it.Item().Key(), err)
		}

		ids = append(ids, id)

		if limit > 0 && int64(len(ids)) >= limit {
			break
		}
	}

	return ids, nil
}

func getRecord(txn *badger.Txn, table string, id uuid.UUID) (record, error) {
	item, err := txn.Get(recordKey(table, id))
	if err != nil {
		return nil, fmt.Errorf("failed to read record %s: %w", id, err)
	}

	data, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}

	return decodeRecord(data)
}

func segment(s string) string {
	return base58.Encode([]byte(s))
}

func valueSegment(av dynafetch.AttributeValue) string {
	return av.Type.String() + segment(canonical(av))
}

func recordKey(table string, id uuid.UUID) []byte {
	return []byte("r/" + segment(table) + "/" + id.String())
}

func indexPrefix(table, keyName string, key dynafetch.AttributeValue) []byte {
	return []byte("i/" + segment(table) + "/" + segment(keyName) + "/" + valueSegment(key) + "/")
}

func indexKey(table, keyName string, key dynafetch.AttributeValue, id uuid.UUID) []byte {
	return append(indexPrefix(table, keyName, key), id.String()...)
}

func markerKey(table, keyName string, key dynafetch.AttributeValue) []byte {
	return []byte("m/" + segment(table) + "/" + segment(keyName) + "/" + valueSegment(key))
}

// canonical renders numbers as <digits>e<exponent> with no leading or trailing zeros, so 42, 42.0
// and 4.2e1 share a key as they do in DynamoDB. Strings are returned as is.
func canonical(av dynafetch.AttributeValue) string {
	if av.Type != dynafetch.AttributeNumber {
		return av.Value
	}

	s := av.Value

	sign := ""
	switch {
	case strings.HasPrefix(s, "-"):
		sign, s = "-", s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}

	var exp int64

	if i := strings.IndexAny(s, "eE"); i >= 0 {
		e, err := strconv.ParseInt(s[i+1:], 10, 64)
		if err != nil {
			return av.Value
		}
		exp, s = e, s[:i]
	}

	if i := strings.IndexByte(s, '.'); i >= 0 {
		exp -= int64(len(s) - i - 1)
		s = s[:i] + s[i+1:]
	}

	if s == "" || strings.Trim(s, "0123456789") != "" {
		return av.Value
	}

	s = strings.TrimLeft(s, "0")
	if s == "" {
		return "0"
	}

	trimmed := strings.TrimRight(s, "0")
	exp += int64(len(s) - len(trimmed))

	return sign + trimmed + "e" + strconv.FormatInt(exp, 10)
}

type record map[string]dynafetch.AttributeValue

type storedValue struct {
	T string `json:"t"`
	V string `json:"v"`
}

func encodeRecord(fields map[string]dynafetch.AttributeValue) ([]byte, error) {
	stored := make(map[string]storedValue, len(fields))

	for k, v := range fields {
		stored[k] = storedValue{T: v.Type.String(), V: v.Value}
	}

	return json.Marshal(stored)
}

func decodeRecord(data []byte) (record, error) {
	var stored map[string]storedValue

	err := json.Unmarshal(data, &stored)
	if err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}

	rec := make(record, len(stored))

	for k, v := range stored {
		switch v.T {
		case dynafetch.AttributeString.String():
			rec[k] = dynafetch.StringValue(v.V)
		case dynafetch.AttributeNumber.String():
			rec[k] = dynafetch.NumberValue(v.V)
		default:
			return nil, fmt.Errorf("unknown attribute type %q for %s", v.T, k)
		}
	}

	return rec, nil
}

func (r record) item() dynafetch.Item {
	item := make(dynafetch.Item, len(r))

	for k, v := range r {
		if v.Type == dynafetch.AttributeNumber {
			item[k] = json.Number(v.Value)
			continue
		}
		item[k] = v.Value
	}

	return item
}
