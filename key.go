package dynafetch

import "fmt"

// PartitionKey the partition key field identified within an item
type PartitionKey struct {
	Name  string
	Value interface{}
}

// String render the key value as its literal text
func (pk PartitionKey) String() string {
	return fmt.Sprint(pk.Value)
}

// ExtractKey look up the partition key field in the item, a null value is treated as missing
func ExtractKey(item Item, keyName string, raw string) (PartitionKey, error) {
	if keyName == "" {
		return PartitionKey{}, &KeyNotFoundError{KeyName: keyName, Item: raw}
	}

	v, ok := item[keyName]
	if !ok || v == nil {
		return PartitionKey{}, &KeyNotFoundError{KeyName: keyName, Item: raw}
	}

	switch kind := KindOf(v); kind {
	case KindObject, KindArray:
		return PartitionKey{}, &UnsupportedTypeError{Field: keyName, Kind: kind}
	}

	return PartitionKey{Name: keyName, Value: v}, nil
}
