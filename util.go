package dynafetch

import (
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
)

// DecodeItem decode a DDB record into an Item, numbers are kept as json.Number
func DecodeItem(item map[string]*dynamodb.AttributeValue) (Item, error) {
	res := make(Item, len(item))

	for k, v := range item {
		val, err := decodeAttributeValue(v)
		if err != nil {
			return nil, fmt.Errorf("failed to decode attribute %s: %w", k, err)
		}

		res[k] = val
	}

	return res, nil
}

func decodeAttributeValue(av *dynamodb.AttributeValue) (interface{}, error) {
	switch {
	case av == nil:
		return nil, nil
	case av.S != nil:
		return aws.StringValue(av.S), nil
	case av.N != nil:
		return json.Number(aws.StringValue(av.N)), nil
	case av.BOOL != nil:
		return aws.BoolValue(av.BOOL), nil
	case av.NULL != nil:
		return nil, nil
	case av.B != nil:
		return av.B, nil
	case av.SS != nil:
		return aws.StringValueSlice(av.SS), nil
	case av.NS != nil:
		ns := make([]json.Number, len(av.NS))
		for i, n := range av.NS {
			ns[i] = json.Number(aws.StringValue(n))
		}
		return ns, nil
	case av.BS != nil:
		return av.BS, nil
	case av.L != nil:
		list := make([]interface{}, len(av.L))
		for i, elem := range av.L {
			val, err := decodeAttributeValue(elem)
			if err != nil {
				return nil, err
			}
			list[i] = val
		}
		return list, nil
	case av.M != nil:
		m := make(map[string]interface{}, len(av.M))
		for k, elem := range av.M {
			val, err := decodeAttributeValue(elem)
			if err != nil {
				return nil, err
			}
			m[k] = val
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unsupported attribute value: %s", av.String())
	}
}
