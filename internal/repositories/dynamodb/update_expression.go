package dynamodb

import (
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"collections-api/internal/models"
	"collections-api/internal/repositories"
)

// UpdateExpression is a SET clause with its placeholder maps
type UpdateExpression struct {
	Expression string
	Names      map[string]string
	Values     map[string]types.AttributeValue
	// Fields lists the attribute names written, in placeholder order
	Fields []string
}

// BuildUpdateExpression turns patch fields into "SET #field1 = :val1, ...".
// The key attribute is never written. Placeholders are numbered from 1 over
// the fields that were kept, in input order; fields without a storable cell
// are skipped. Attribute names and values only reach DynamoDB through the
// placeholder maps.
func BuildUpdateExpression(keyField string, fields []models.Field) (*UpdateExpression, error) {
	expr := &UpdateExpression{
		Names:  make(map[string]string),
		Values: make(map[string]types.AttributeValue),
	}

	var sb strings.Builder
	sb.WriteString("SET ")

	count := 0
	for _, f := range fields {
		if f.Name == keyField {
			continue
		}
		av, ok := CellFromJSON(f.Value).Attribute()
		if !ok {
			continue
		}

		count++
		n := strconv.Itoa(count)
		nameKey := "#field" + n
		valueKey := ":val" + n

		if count > 1 {
			sb.WriteString(", ")
		}
		sb.WriteString(nameKey)
		sb.WriteString(" = ")
		sb.WriteString(valueKey)

		expr.Names[nameKey] = f.Name
		expr.Values[valueKey] = av
		expr.Fields = append(expr.Fields, f.Name)
	}

	if count == 0 {
		return nil, repositories.ErrNoFieldsToUpdate
	}

	expr.Expression = sb.String()
	return expr, nil
}
