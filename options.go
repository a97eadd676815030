package dynafetch

import (
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
)

// WriteOption assign various settings to the write options
type WriteOption func(opts *WriteOptions)

// WriteOptions contains optional request parameters
type WriteOptions struct {
	ifNotExists *string // Optional, key attribute which must be absent for the write to succeed
}

// Append append more options which supports conditional addition
func (wo *WriteOptions) Append(opts ...WriteOption) {
	for _, opt := range opts {
		opt(wo)
	}
}

// IfNotExists returns the key attribute guarded by a conditional write, if any
func (wo *WriteOptions) IfNotExists() (string, bool) {
	if wo.ifNotExists == nil {
		return "", false
	}

	return *wo.ifNotExists, true
}

// NewWriteOptions create write options, assign defaults then accept overrides
func NewWriteOptions(opts ...WriteOption) *WriteOptions {
	writeOpts := &WriteOptions{}

	for _, opt := range opts {
		opt(writeOpts)
	}

	return writeOpts
}

// WriteIfNotExists only write the item if no record with this key attribute exists,
// a failed check is returned as ErrKeyExists
func WriteIfNotExists(keyName string) WriteOption {
	return func(opts *WriteOptions) {
		opts.ifNotExists = aws.String(keyName)
	}
}

// ReadOption assign various settings to the read options
type ReadOption func(opts *ReadOptions)

// ReadOptions contains optional request parameters
type ReadOptions struct {
	consistent bool
	limit      int64
}

// Append append more options which supports conditional addition
func (ro *ReadOptions) Append(opts ...ReadOption) {
	for _, opt := range opts {
		opt(ro)
	}
}

// Consistent reports whether strongly consistent reads are requested
func (ro *ReadOptions) Consistent() bool {
	return ro.consistent
}

// Limit the maximum number of records read
func (ro *ReadOptions) Limit() int64 {
	return ro.limit
}

// NewReadOptions create read options, assign defaults then accept overrides
// enable the read consistent flag by default
func NewReadOptions(opts ...ReadOption) *ReadOptions {
	readOpts := &ReadOptions{
		consistent: true,
		limit:      QueryLimit,
	}

	for _, opt := range opts {
		opt(readOpts)
	}

	return readOpts
}

// ReadConsistentDisable disable consistent reads
func ReadConsistentDisable() ReadOption {
	return func(opts *ReadOptions) {
		opts.consistent = false
	}
}

// SessionOption assign various settings to the session options
type SessionOption func(opts *SessionOptions)

// SessionOptions contains optional session parameters
type SessionOptions struct {
	storeHooks    *StoreHooks
	defaultRegion string
	endpoint      string
	timeout       time.Duration
}

// NewSessionOptions create session options, assign defaults then accept overrides
func NewSessionOptions(opts ...SessionOption) *SessionOptions {
	sessionOpts := &SessionOptions{
		storeHooks:    defaultHooks,
		defaultRegion: DefaultRegion,
	}

	for _, opt := range opts {
		opt(sessionOpts)
	}

	return sessionOpts
}

// SessionWithStoreHooks hooks invoked with each request prior to dispatch
func SessionWithStoreHooks(storeHooks *StoreHooks) SessionOption {
	return func(opts *SessionOptions) {
		opts.storeHooks = storeHooks
	}
}

// SessionWithDefaultRegion region used when neither the config nor the environment supply one
func SessionWithDefaultRegion(region string) SessionOption {
	return func(opts *SessionOptions) {
		opts.defaultRegion = region
	}
}

// SessionWithEndpoint override the DynamoDB endpoint, static credentials are used when none are
// configured so dynamodb-local works out of the box
func SessionWithEndpoint(endpoint string) SessionOption {
	return func(opts *SessionOptions) {
		opts.endpoint = endpoint
	}
}

// SessionWithTimeout timeout applied to each HTTP request made by the session
func SessionWithTimeout(timeout time.Duration) SessionOption {
	return func(opts *SessionOptions) {
		opts.timeout = timeout
	}
}

func (so *SessionOptions) apply(awscfg *aws.Config) *aws.Config {
	cfg := awscfg.Copy()

	if so.endpoint != "" {
		cfg.Endpoint = aws.String(so.endpoint)

		if cfg.Credentials == nil {
			cfg.Credentials = credentials.NewStaticCredentials("local", "local", "")
		}
	}

	if so.timeout > 0 {
		cfg.HTTPClient = &http.Client{Timeout: so.timeout}
	}

	return cfg
}
