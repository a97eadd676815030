package dynafetch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Kind is the JSON type of a decoded item value
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindObject
	KindArray
	// KindUnknown a Go value no JSON decoder produces, only seen in items assembled by hand
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// KindOf classify a value produced by ParseItem, int, int64, uint64 and float64 values in hand
// built items are numbers
func KindOf(v interface{}) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case string:
		return KindString
	case json.Number, int, int64, uint64, float64:
		return KindNumber
	case bool:
		return KindBool
	case map[string]interface{}:
		return KindObject
	case []interface{}:
		return KindArray
	default:
		return KindUnknown
	}
}

// Item is a JSON object keyed by field name, numbers are held as json.Number
// so the literal text is never rounded.
type Item map[string]interface{}

var errNotObject = errors.New("top-level JSON value is not an object")

// ParseItem decode the raw JSON text of an item, the top-level value must be an object
func ParseItem(raw string) (Item, error) {
	dec := json.NewDecoder(bytes.NewBufferString(raw))
	dec.UseNumber()

	var item Item

	err := dec.Decode(&item)
	if err != nil {
		return nil, &ParsingError{Item: raw, Err: err}
	}

	// a literal null decodes into a nil map without error
	if item == nil {
		return nil, &ParsingError{Item: raw, Err: errNotObject}
	}

	if _, err = dec.Token(); err != io.EOF {
		return nil, &ParsingError{Item: raw, Err: errors.New("unexpected data after top-level object")}
	}

	return item, nil
}
