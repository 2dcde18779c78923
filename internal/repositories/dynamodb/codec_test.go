package dynamodb

import (
	"encoding/json"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellFromJSON(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  Cell
	}{
		{name: "string", value: "alice", want: StringCell("alice")},
		{name: "empty string", value: "", want: StringCell("")},
		{name: "json number", value: json.Number("12.50"), want: NumberCell("12.50")},
		{name: "float", value: float64(3), want: NumberCell("3")},
		{name: "bool", value: true, want: BoolCell(true)},
		{name: "null", value: nil, want: Cell{Kind: CellUnsupported}},
		{name: "array", value: []any{"a"}, want: Cell{Kind: CellUnsupported}},
		{name: "object", value: map[string]any{"a": "b"}, want: Cell{Kind: CellUnsupported}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CellFromJSON(tt.value))
		})
	}
}

func TestCellAttributeRoundTrip(t *testing.T) {
	for _, c := range []Cell{
		StringCell("x"),
		NumberCell("42"),
		BoolCell(false),
		StringSetCell([]string{"a", "b"}),
	} {
		av, ok := c.Attribute()
		require.True(t, ok, c.Kind.String())
		assert.Equal(t, c, CellFromAttribute(av))
	}

	_, ok := Cell{Kind: CellUnsupported}.Attribute()
	assert.False(t, ok)

	_, ok = StringSetCell(nil).Attribute()
	assert.False(t, ok)
}

func TestCellFromAttribute_Unsupported(t *testing.T) {
	for _, av := range []types.AttributeValue{
		&types.AttributeValueMemberNULL{Value: true},
		&types.AttributeValueMemberL{Value: []types.AttributeValue{&types.AttributeValueMemberS{Value: "a"}}},
		&types.AttributeValueMemberM{Value: map[string]types.AttributeValue{}},
		&types.AttributeValueMemberB{Value: []byte("raw")},
		&types.AttributeValueMemberNS{Value: []string{"1"}},
	} {
		assert.Equal(t, CellUnsupported, CellFromAttribute(av).Kind)
	}
}

func TestItemToRecord(t *testing.T) {
	item := map[string]types.AttributeValue{
		"id":     &types.AttributeValueMemberS{Value: "col-1"},
		"count":  &types.AttributeValueMemberN{Value: "7"},
		"tags":   &types.AttributeValueMemberSS{Value: []string{"rare", "old"}},
		"empty":  &types.AttributeValueMemberSS{Value: []string{}},
		"active": &types.AttributeValueMemberBOOL{Value: true},
		"gone":   &types.AttributeValueMemberNULL{Value: true},
	}

	record := ItemToRecord(item)

	assert.Len(t, record, 3)
	assert.Equal(t, "col-1", record["id"])
	assert.Equal(t, "7", record["count"])
	assert.Equal(t, []string{"rare", "old"}, record["tags"])

	out, err := json.Marshal(record)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"col-1","count":"7","tags":["rare","old"]}`, string(out))
}

func TestItemsToRecords_Empty(t *testing.T) {
	records := ItemsToRecords(nil)
	require.NotNil(t, records)

	out, err := json.Marshal(records)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(out))
}
