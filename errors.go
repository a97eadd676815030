package dynafetch

import (
	"errors"
	"fmt"
)

var (
	// ErrKeyExists record already exists in table
	ErrKeyExists = errors.New("key already exists in table")
)

// ParsingError the item text is not a valid JSON object
type ParsingError struct {
	Item string
	Err  error
}

func (e *ParsingError) Error() string {
	return fmt.Sprintf("a parsing error occurred for Item (%s). Error: %s", e.Item, e.Err)
}

func (e *ParsingError) Unwrap() error { return e.Err }

// KeyNotFoundError the partition key field is absent or null in the item
type KeyNotFoundError struct {
	KeyName string
	Item    string
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("cannot find Partition Key (%s) of Item (%s)", e.KeyName, e.Item)
}

// UnsupportedTypeError a field holds a JSON value which can't be stored as a string or number attribute
type UnsupportedTypeError struct {
	Field string
	Kind  Kind
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported type %s for field (%s), only string and number values can be stored", e.Kind, e.Field)
}

// GetItemError the query for the partition key failed
type GetItemError struct {
	KeyName string
	Key     string
	Table   string
	Err     error
}

func (e *GetItemError) Error() string {
	return fmt.Sprintf("not possible to retrieve item with Partition Key (%s = %s) of Table (%s). Error: %s", e.KeyName, e.Key, e.Table, e.Err)
}

func (e *GetItemError) Unwrap() error { return e.Err }

// TooManyRecordsError more than one record shares the partition key
type TooManyRecordsError struct {
	KeyName string
	Key     string
	Table   string
	Count   int64
}

func (e *TooManyRecordsError) Error() string {
	return fmt.Sprintf("query matched %d records with Partition Key (%s = %s) in Table (%s), expected at most one", e.Count, e.KeyName, e.Key, e.Table)
}

// PutItemError the insert of the new item failed
type PutItemError struct {
	Table string
	Err   error
}

func (e *PutItemError) Error() string {
	return fmt.Sprintf("not possible to create item in Table (%s). Error: %s", e.Table, e.Err)
}

func (e *PutItemError) Unwrap() error { return e.Err }
