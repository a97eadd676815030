package dynafetch

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
)

// DefaultRegion used when neither the configuration nor the environment supply a region
const DefaultRegion = "sa-east-1"

// DynaSession is a Gateway backed by AWS DynamoDB
type DynaSession struct {
	dynamodbiface.DynamoDBAPI
	storeHooks *StoreHooks
	region     string
}

var _ Gateway = &DynaSession{}

func (ds *DynaSession) Table(tableName string) *DynaTable {
	return &DynaTable{session: ds, tableName: tableName}
}

// New construct a DynamoDB backed store with default session / service
func New(cfgs ...*aws.Config) *DynaSession {
	sess := session.Must(session.NewSession(cfgs...))
	dynamoSvc := dynamodb.New(sess)

	return &DynaSession{
		DynamoDBAPI: dynamoSvc,
		storeHooks:  defaultHooks,
		region:      aws.StringValue(sess.Config.Region),
	}
}

// NewWithOptions construct a DynamoDB backed store, the region is resolved from the config,
// then the environment / shared config and finally the default region.
func NewWithOptions(awscfg *aws.Config, options ...SessionOption) (*DynaSession, error) {
	sessionOptions := NewSessionOptions(options...)

	if awscfg == nil {
		awscfg = &aws.Config{}
	}

	sess, err := session.NewSessionWithOptions(session.Options{
		Config:            *sessionOptions.apply(awscfg),
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if aws.StringValue(sess.Config.Region) == "" {
		sess.Config.Region = aws.String(sessionOptions.defaultRegion)
	}

	return &DynaSession{
		DynamoDBAPI: dynamodb.New(sess),
		storeHooks:  sessionOptions.storeHooks,
		region:      aws.StringValue(sess.Config.Region),
	}, nil
}

func NewWithClient(dynamoSvc dynamodbiface.DynamoDBAPI, storeHooks *StoreHooks) *DynaSession {
	if storeHooks == nil {
		storeHooks = defaultHooks
	}

	return &DynaSession{
		DynamoDBAPI: dynamoSvc,
		storeHooks:  storeHooks,
	}
}

// Region the session sends requests to, empty for sessions built from a client
func (ds *DynaSession) Region() string {
	return ds.region
}

// Query the records in the table whose partition key equals key
func (ds *DynaSession) Query(ctx context.Context, table, keyName string, key AttributeValue, options ...ReadOption) (*QueryOutcome, error) {
	return ds.Table(table).QueryKeyWithContext(ctx, keyName, key, options...)
}

// Insert a complete item into the table
func (ds *DynaSession) Insert(ctx context.Context, table string, fields map[string]AttributeValue, options ...WriteOption) error {
	return ds.Table(table).PutItemWithContext(ctx, fields, options...)
}
