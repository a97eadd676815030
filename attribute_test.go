package dynafetch

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/stretchr/testify/require"
)

func TestToAttribute(t *testing.T) {
	tests := []struct {
		name    string
		value   interface{}
		want    AttributeValue
		wantErr Kind
	}{
		{name: "integer", value: json.Number("42"), want: NumberValue("42")},
		{name: "decimal keeps trailing zero", value: json.Number("1.50"), want: NumberValue("1.50")},
		{name: "exponent", value: json.Number("6.02e23"), want: NumberValue("6.02e23")},
		{name: "beyond float64 precision", value: json.Number("9007199254740993"), want: NumberValue("9007199254740993")},
		{name: "string", value: "Ana", want: StringValue("Ana")},
		{name: "empty string", value: "", want: StringValue("")},
		{name: "numeric looking string", value: "42", want: StringValue("42")},
		{name: "go int", value: 42, want: NumberValue("42")},
		{name: "go int64", value: int64(-7), want: NumberValue("-7")},
		{name: "go uint64", value: uint64(18446744073709551615), want: NumberValue("18446744073709551615")},
		{name: "go float64", value: 1.5, want: NumberValue("1.5")},
		{name: "go float64 NaN", value: math.NaN(), wantErr: KindNumber},
		{name: "go int32", value: int32(1), wantErr: KindUnknown},
		{name: "bool", value: true, wantErr: KindBool},
		{name: "null", value: nil, wantErr: KindNull},
		{name: "object", value: map[string]interface{}{"a": "b"}, wantErr: KindObject},
		{name: "array", value: []interface{}{"a"}, wantErr: KindArray},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToAttribute("field", tt.value)

			if tt.want.Type == 0 {
				var unsupported *UnsupportedTypeError
				if !errors.As(err, &unsupported) {
					t.Fatalf("ToAttribute() error = %v, want UnsupportedTypeError", err)
				}
				if unsupported.Field != "field" || unsupported.Kind != tt.wantErr {
					t.Errorf("ToAttribute() error = %#v, want field kind %s", unsupported, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("ToAttribute() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ToAttribute() got = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMapItem(t *testing.T) {
	assert := require.New(t)

	item, err := ParseItem(`{"id":42,"name":"Ana","score":0.10}`)
	assert.NoError(err)

	fields, err := MapItem(item)
	assert.NoError(err)
	assert.Equal(map[string]AttributeValue{
		"id":    NumberValue("42"),
		"name":  StringValue("Ana"),
		"score": NumberValue("0.10"),
	}, fields)
}

func TestMapItem_AllOrNothing(t *testing.T) {
	assert := require.New(t)

	item, err := ParseItem(`{"a":"x","b":{"nested":1},"c":"y","d":[1]}`)
	assert.NoError(err)

	fields, err := MapItem(item)
	assert.Nil(fields)

	var unsupported *UnsupportedTypeError
	assert.True(errors.As(err, &unsupported))
	// fields are visited in name order
	assert.Equal("b", unsupported.Field)
	assert.Equal(KindObject, unsupported.Kind)
}

func TestAttributeValue_Dynamo(t *testing.T) {
	assert := require.New(t)

	assert.Equal(&dynamodb.AttributeValue{N: aws.String("42")}, NumberValue("42").Dynamo())
	assert.Equal(&dynamodb.AttributeValue{S: aws.String("Ana")}, StringValue("Ana").Dynamo())

	item := DynamoItem(map[string]AttributeValue{"id": NumberValue("1"), "name": StringValue("x")})
	assert.Equal(map[string]*dynamodb.AttributeValue{
		"id":   {N: aws.String("1")},
		"name": {S: aws.String("x")},
	}, item)
}

func TestAttributeValue_Marshaler(t *testing.T) {
	assert := require.New(t)

	av, err := dynamodbattribute.Marshal(NumberValue("1.50"))
	assert.NoError(err)
	assert.Equal("1.50", aws.StringValue(av.N))

	av, err = dynamodbattribute.Marshal(StringValue("Ana"))
	assert.NoError(err)
	assert.Equal("Ana", aws.StringValue(av.S))

	_, err = dynamodbattribute.Marshal(AttributeValue{Value: "x"})
	assert.Error(err)
}

func TestMapItem_HandBuiltItem(t *testing.T) {
	assert := require.New(t)

	fields, err := MapItem(Item{"id": 42, "name": "Ana"})
	assert.NoError(err)
	assert.Equal(NumberValue("42"), fields["id"])

	_, err = MapItem(Item{"id": []string{"a"}})

	var unsupported *UnsupportedTypeError
	assert.True(errors.As(err, &unsupported))
	assert.Equal(KindUnknown, unsupported.Kind)
	assert.Equal("unsupported type unknown for field (id), only string and number values can be stored", err.Error())
}
