package dynafetch

import "context"

// QueryLimit the number of records a Gateway reads for a key, two is enough to tell
// a unique key from a duplicated one.
const QueryLimit = 2

// QueryOutcome the result of a partition key query
type QueryOutcome struct {
	// Count of matching records as reported by the backend, capped at QueryLimit
	Count int64
	// Item the matched record, only set when Count is one
	Item Item
}

// Gateway represents the backend storage queried and written by the Engine
type Gateway interface {
	// Query the records in the table whose partition key equals key
	Query(ctx context.Context, table, keyName string, key AttributeValue, options ...ReadOption) (*QueryOutcome, error)

	// Insert a complete item into the table
	Insert(ctx context.Context, table string, fields map[string]AttributeValue, options ...WriteOption) error
}
