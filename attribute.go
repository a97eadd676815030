package dynafetch

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
)

// AttributeType the DynamoDB scalar type of an AttributeValue
type AttributeType int

const (
	AttributeString AttributeType = 1 + iota
	AttributeNumber
)

func (t AttributeType) String() string {
	switch t {
	case AttributeString:
		return dynamodb.ScalarAttributeTypeS
	case AttributeNumber:
		return dynamodb.ScalarAttributeTypeN
	default:
		return fmt.Sprintf("AttributeType(%d)", int(t))
	}
}

// AttributeValue is a scalar DynamoDB value, numbers keep the literal text
// they were decoded from.
type AttributeValue struct {
	Type  AttributeType
	Value string
}

// StringValue build a string attribute
func StringValue(s string) AttributeValue {
	return AttributeValue{Type: AttributeString, Value: s}
}

// NumberValue build a number attribute from a numeric literal
func NumberValue(n string) AttributeValue {
	return AttributeValue{Type: AttributeNumber, Value: n}
}

func (av AttributeValue) String() string {
	return fmt.Sprintf("%s(%s)", av.Type, av.Value)
}

// Dynamo convert to the AWS SDK representation
func (av AttributeValue) Dynamo() *dynamodb.AttributeValue {
	switch av.Type {
	case AttributeNumber:
		return &dynamodb.AttributeValue{N: aws.String(av.Value)}
	default:
		return &dynamodb.AttributeValue{S: aws.String(av.Value)}
	}
}

// MarshalDynamoDBAttributeValue implements dynamodbattribute.Marshaler so values can be passed
// straight to the expression builder.
func (av AttributeValue) MarshalDynamoDBAttributeValue(out *dynamodb.AttributeValue) error {
	switch av.Type {
	case AttributeString:
		out.S = aws.String(av.Value)
	case AttributeNumber:
		out.N = aws.String(av.Value)
	default:
		return fmt.Errorf("attribute value has no type: %q", av.Value)
	}

	return nil
}

// ToAttribute map a decoded JSON value to a DynamoDB attribute, only strings and numbers are supported.
// int, int64, uint64 and finite float64 values from hand built items are accepted as numbers.
func ToAttribute(field string, v interface{}) (AttributeValue, error) {
	switch val := v.(type) {
	case string:
		return StringValue(val), nil
	case json.Number:
		return NumberValue(val.String()), nil
	case int:
		return NumberValue(strconv.Itoa(val)), nil
	case int64:
		return NumberValue(strconv.FormatInt(val, 10)), nil
	case uint64:
		return NumberValue(strconv.FormatUint(val, 10)), nil
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return AttributeValue{}, &UnsupportedTypeError{Field: field, Kind: KindNumber}
		}
		return NumberValue(strconv.FormatFloat(val, 'g', -1, 64)), nil
	default:
		return AttributeValue{}, &UnsupportedTypeError{Field: field, Kind: KindOf(v)}
	}
}

// MapItem map every field of the item, any unsupported field fails the whole item
// and no partial result is returned.
func MapItem(item Item) (map[string]AttributeValue, error) {
	names := make([]string, 0, len(item))
	for k := range item {
		names = append(names, k)
	}

	sort.Strings(names)

	fields := make(map[string]AttributeValue, len(item))

	for _, name := range names {
		av, err := ToAttribute(name, item[name])
		if err != nil {
			return nil, err
		}

		fields[name] = av
	}

	return fields, nil
}

// DynamoItem convert mapped fields to the AWS SDK representation
func DynamoItem(fields map[string]AttributeValue) map[string]*dynamodb.AttributeValue {
	item := make(map[string]*dynamodb.AttributeValue, len(fields))

	for k, v := range fields {
		item[k] = v.Dynamo()
	}

	return item
}
