package dynafetch

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Outcome which branch a successful fetch-or-create took
type Outcome int

const (
	// OutcomeCreated no record existed and the item was inserted
	OutcomeCreated Outcome = 1 + iota
	// OutcomeExisting exactly one record existed and was returned unchanged
	OutcomeExisting
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "item created"
	case OutcomeExisting:
		return "existing item reported"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Result of a successful fetch-or-create
type Result struct {
	Outcome Outcome
	Key     PartitionKey
	// Item the created item, or the existing record which may be nil if the backend
	// reported a match without returning it
	Item Item
}

// EngineOption assign various settings to the engine
type EngineOption func(e *Engine)

// WithLogger logger used to report each step
func WithLogger(logger zerolog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithIfNotExists guard inserts with a conditional write on the partition key
func WithIfNotExists(enabled bool) EngineOption {
	return func(e *Engine) {
		e.ifNotExists = enabled
	}
}

// WithReadOptions read options passed to every query
func WithReadOptions(opts ...ReadOption) EngineOption {
	return func(e *Engine) {
		e.readOptions = append(e.readOptions, opts...)
	}
}

// Engine runs fetch-or-create against a Gateway
type Engine struct {
	gateway     Gateway
	logger      zerolog.Logger
	ifNotExists bool
	readOptions []ReadOption
}

// NewEngine create an engine, by default nothing is logged
func NewEngine(gateway Gateway, opts ...EngineOption) *Engine {
	e := &Engine{
		gateway: gateway,
		logger:  zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// FetchOrCreate look up the record with the item's partition key in the table and insert the
// item if there is none.
//
// The query and insert are separate requests, a concurrent writer may create the key in between
// unless WithIfNotExists is enabled.
func (e *Engine) FetchOrCreate(ctx context.Context, table, raw, keyName string) (*Result, error) {
	logger := e.logger.With().Str("table", table).Str("pk", keyName).Logger()

	logger.Info().Str("item", raw).Msg("parsing item")

	item, err := ParseItem(raw)
	if err != nil {
		return nil, err
	}

	pk, err := ExtractKey(item, keyName, raw)
	if err != nil {
		return nil, err
	}

	logger = logger.With().Str("key", pk.String()).Logger()

	keyAttr, err := ToAttribute(pk.Name, pk.Value)
	if err != nil {
		return nil, err
	}

	logger.Info().Msg("querying by partition key")

	outcome, err := e.gateway.Query(ctx, table, pk.Name, keyAttr, e.readOptions...)
	if err != nil {
		return nil, &GetItemError{KeyName: pk.Name, Key: pk.String(), Table: table, Err: err}
	}

	switch {
	case outcome == nil:
		return nil, &GetItemError{KeyName: pk.Name, Key: pk.String(), Table: table, Err: errors.New("no query outcome returned")}
	case outcome.Count < 0:
		return nil, &GetItemError{KeyName: pk.Name, Key: pk.String(), Table: table, Err: fmt.Errorf("invalid record count %d", outcome.Count)}
	case outcome.Count == 0:
		logger.Info().Msg("no item found, creating a new one")

		return e.insert(ctx, logger, table, pk, item)
	case outcome.Count == 1:
		if outcome.Item == nil {
			logger.Warn().Msg("item found but not returned by the backend")
		} else {
			logger.Info().Interface("found", outcome.Item).Msg("item found")
		}

		return &Result{Outcome: OutcomeExisting, Key: pk, Item: outcome.Item}, nil
	default:
		return nil, &TooManyRecordsError{KeyName: pk.Name, Key: pk.String(), Table: table, Count: outcome.Count}
	}
}

func (e *Engine) insert(ctx context.Context, logger zerolog.Logger, table string, pk PartitionKey, item Item) (*Result, error) {
	// every field is mapped before anything is sent
	fields, err := MapItem(item)
	if err != nil {
		return nil, err
	}

	var writeOpts []WriteOption
	if e.ifNotExists {
		writeOpts = append(writeOpts, WriteIfNotExists(pk.Name))
	}

	err = e.gateway.Insert(ctx, table, fields, writeOpts...)
	if err != nil {
		return nil, &PutItemError{Table: table, Err: err}
	}

	logger.Info().Int("fields", len(fields)).Msg("item created")

	return &Result{Outcome: OutcomeCreated, Key: pk, Item: item}, nil
}
