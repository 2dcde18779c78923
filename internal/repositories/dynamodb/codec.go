package dynamodb

import (
	"encoding/json"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"collections-api/internal/repositories"
)

// CellKind tags the value held by a Cell
type CellKind int

const (
	CellUnsupported CellKind = iota
	CellString
	CellNumber
	CellBool
	CellStringSet
)

func (k CellKind) String() string {
	switch k {
	case CellString:
		return "S"
	case CellNumber:
		return "N"
	case CellBool:
		return "BOOL"
	case CellStringSet:
		return "SS"
	default:
		return "unsupported"
	}
}

// Cell is the closed set of item values this service reads and writes.
// Only the member matching Kind is meaningful.
type Cell struct {
	Kind    CellKind
	Text    string // S, and the decimal literal of N
	Bool    bool
	Strings []string
}

// StringCell returns an S cell
func StringCell(s string) Cell { return Cell{Kind: CellString, Text: s} }

// NumberCell returns an N cell holding the decimal literal n
func NumberCell(n string) Cell { return Cell{Kind: CellNumber, Text: n} }

// BoolCell returns a BOOL cell
func BoolCell(b bool) Cell { return Cell{Kind: CellBool, Bool: b} }

// StringSetCell returns an SS cell
func StringSetCell(ss []string) Cell { return Cell{Kind: CellStringSet, Strings: ss} }

// CellFromJSON maps a decoded JSON value onto a cell. Strings, numbers and
// booleans are supported; null, arrays and objects are not.
func CellFromJSON(v any) Cell {
	switch val := v.(type) {
	case string:
		return StringCell(val)
	case json.Number:
		return NumberCell(val.String())
	case float64:
		return NumberCell(strconv.FormatFloat(val, 'f', -1, 64))
	case bool:
		return BoolCell(val)
	default:
		return Cell{Kind: CellUnsupported}
	}
}

// CellFromAttribute classifies a stored attribute value
func CellFromAttribute(av types.AttributeValue) Cell {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return StringCell(v.Value)
	case *types.AttributeValueMemberN:
		return NumberCell(v.Value)
	case *types.AttributeValueMemberBOOL:
		return BoolCell(v.Value)
	case *types.AttributeValueMemberSS:
		return StringSetCell(v.Value)
	default:
		return Cell{Kind: CellUnsupported}
	}
}

// Attribute converts the cell to a DynamoDB attribute value.
// ok is false for unsupported cells and empty string sets, which DynamoDB
// cannot store.
func (c Cell) Attribute() (av types.AttributeValue, ok bool) {
	switch c.Kind {
	case CellString:
		return &types.AttributeValueMemberS{Value: c.Text}, true
	case CellNumber:
		return &types.AttributeValueMemberN{Value: c.Text}, true
	case CellBool:
		return &types.AttributeValueMemberBOOL{Value: c.Bool}, true
	case CellStringSet:
		if len(c.Strings) == 0 {
			return nil, false
		}
		return &types.AttributeValueMemberSS{Value: append([]string(nil), c.Strings...)}, true
	default:
		return nil, false
	}
}

// JSONValue converts the cell for a list response. Strings stay strings,
// numbers are emitted as their stored literal inside a JSON string, non-empty
// string sets become string arrays. Everything else, booleans included, is
// left out.
func (c Cell) JSONValue() (v any, ok bool) {
	switch c.Kind {
	case CellString, CellNumber:
		return c.Text, true
	case CellStringSet:
		if len(c.Strings) == 0 {
			return nil, false
		}
		return append([]string(nil), c.Strings...), true
	default:
		return nil, false
	}
}

// ItemToRecord converts a stored item, dropping attributes that have no
// JSON form under JSONValue
func ItemToRecord(item map[string]types.AttributeValue) repositories.Record {
	record := make(repositories.Record, len(item))
	for name, av := range item {
		if v, ok := CellFromAttribute(av).JSONValue(); ok {
			record[name] = v
		}
	}
	return record
}

// ItemsToRecords converts a scan page
func ItemsToRecords(items []map[string]types.AttributeValue) []repositories.Record {
	records := make([]repositories.Record, 0, len(items))
	for _, item := range items {
		records = append(records, ItemToRecord(item))
	}
	return records
}
