package dynafetch

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractKey(t *testing.T) {
	raw := `{"id":42,"name":"Ana","owner":null,"obj":{"a":1},"list":[1],"flag":true}`

	item, err := ParseItem(raw)
	require.NoError(t, err)

	tests := []struct {
		name        string
		keyName     string
		want        PartitionKey
		notFound    bool
		unsupported Kind
	}{
		{name: "number key", keyName: "id", want: PartitionKey{Name: "id", Value: json.Number("42")}},
		{name: "string key", keyName: "name", want: PartitionKey{Name: "name", Value: "Ana"}},
		{name: "bool key is left to the mapper", keyName: "flag", want: PartitionKey{Name: "flag", Value: true}},
		{name: "missing key", keyName: "missing", notFound: true},
		{name: "null key", keyName: "owner", notFound: true},
		{name: "empty key name", keyName: "", notFound: true},
		{name: "object key", keyName: "obj", unsupported: KindObject},
		{name: "array key", keyName: "list", unsupported: KindArray},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := require.New(t)

			got, err := ExtractKey(item, tt.keyName, raw)

			switch {
			case tt.notFound:
				var notFound *KeyNotFoundError
				assert.True(errors.As(err, &notFound))
				assert.Equal(tt.keyName, notFound.KeyName)
				assert.Equal(raw, notFound.Item)
			case tt.unsupported != KindNull:
				var unsupported *UnsupportedTypeError
				assert.True(errors.As(err, &unsupported))
				assert.Equal(tt.keyName, unsupported.Field)
				assert.Equal(tt.unsupported, unsupported.Kind)
			default:
				assert.NoError(err)
				assert.Equal(tt.want, got)
			}
		})
	}
}

func TestPartitionKeyString(t *testing.T) {
	assert := require.New(t)

	assert.Equal("1.50", PartitionKey{Name: "id", Value: json.Number("1.50")}.String())
	assert.Equal("user-1", PartitionKey{Name: "id", Value: "user-1"}.String())
}
