package dynamodb

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	ddb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// MemoryClient is a thread-safe in-memory stand-in for DynamoDB covering the
// calls this service makes. Tables have a single string hash key. Update
// expressions are limited to comma-separated "SET #name = :value" pairs.
type MemoryClient struct {
	mu     sync.RWMutex
	tables map[string]*memoryTable
}

type memoryTable struct {
	hashKey string
	items   map[string]map[string]types.AttributeValue
}

var (
	_ DynamoClient = (*MemoryClient)(nil)
	_ TableAdmin   = (*MemoryClient)(nil)
)

// NewMemoryClient creates a client with the named tables, keyed by "id"
func NewMemoryClient(tableNames ...string) *MemoryClient {
	m := &MemoryClient{tables: make(map[string]*memoryTable)}
	for _, name := range tableNames {
		m.tables[name] = newMemoryTable("id")
	}
	return m
}

func newMemoryTable(hashKey string) *memoryTable {
	return &memoryTable{hashKey: hashKey, items: make(map[string]map[string]types.AttributeValue)}
}

func (m *MemoryClient) table(name *string) (*memoryTable, error) {
	t, ok := m.tables[aws.ToString(name)]
	if !ok {
		return nil, &types.ResourceNotFoundException{
			Message: aws.String(fmt.Sprintf("Requested resource not found: Table: %s not found", aws.ToString(name))),
		}
	}
	return t, nil
}

func (t *memoryTable) keyValue(key map[string]types.AttributeValue) (string, error) {
	s, ok := key[t.hashKey].(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("ValidationException: missing or non-string key attribute %q", t.hashKey)
	}
	if s.Value == "" {
		return "", fmt.Errorf("ValidationException: key attribute %q is an empty string", t.hashKey)
	}
	return s.Value, nil
}

func copyItem(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	out := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}

// PutItem stores a copy of the item, replacing any item with the same key
func (m *MemoryClient) PutItem(_ context.Context, p *ddb.PutItemInput, _ ...func(*ddb.Options)) (*ddb.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.table(p.TableName)
	if err != nil {
		return nil, err
	}
	k, err := t.keyValue(p.Item)
	if err != nil {
		return nil, err
	}
	t.items[k] = copyItem(p.Item)
	return &ddb.PutItemOutput{}, nil
}

// Scan returns every item ordered by key, honouring Limit
func (m *MemoryClient) Scan(_ context.Context, p *ddb.ScanInput, _ ...func(*ddb.Options)) (*ddb.ScanOutput, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, err := m.table(p.TableName)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(t.items))
	for k := range t.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := &ddb.ScanOutput{}
	limit := int(aws.ToInt32(p.Limit))
	for _, k := range keys {
		if limit > 0 && len(out.Items) == limit {
			out.LastEvaluatedKey = map[string]types.AttributeValue{
				t.hashKey: &types.AttributeValueMemberS{Value: keys[len(out.Items)-1]},
			}
			break
		}
		out.Items = append(out.Items, copyItem(t.items[k]))
	}
	out.Count = int32(len(out.Items))
	out.ScannedCount = out.Count
	return out, nil
}

// UpdateItem applies a SET expression, creating the item if it is missing
func (m *MemoryClient) UpdateItem(_ context.Context, p *ddb.UpdateItemInput, _ ...func(*ddb.Options)) (*ddb.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.table(p.TableName)
	if err != nil {
		return nil, err
	}
	k, err := t.keyValue(p.Key)
	if err != nil {
		return nil, err
	}

	assignments, err := parseSetExpression(aws.ToString(p.UpdateExpression), p.ExpressionAttributeNames, p.ExpressionAttributeValues)
	if err != nil {
		return nil, err
	}

	item, ok := t.items[k]
	if !ok {
		item = copyItem(p.Key)
	} else {
		item = copyItem(item)
	}
	for name, av := range assignments {
		if name == t.hashKey {
			return nil, fmt.Errorf("ValidationException: cannot update attribute %s, it is part of the key", name)
		}
		item[name] = av
	}
	t.items[k] = item

	return &ddb.UpdateItemOutput{}, nil
}

// DeleteItem removes the item; with ReturnValues ALL_OLD the prior item is
// returned
func (m *MemoryClient) DeleteItem(_ context.Context, p *ddb.DeleteItemInput, _ ...func(*ddb.Options)) (*ddb.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.table(p.TableName)
	if err != nil {
		return nil, err
	}
	k, err := t.keyValue(p.Key)
	if err != nil {
		return nil, err
	}

	out := &ddb.DeleteItemOutput{}
	if old, ok := t.items[k]; ok {
		if p.ReturnValues == types.ReturnValueAllOld {
			out.Attributes = copyItem(old)
		}
		delete(t.items, k)
	}
	return out, nil
}

// DescribeTable reports an ACTIVE table or ResourceNotFoundException
func (m *MemoryClient) DescribeTable(_ context.Context, p *ddb.DescribeTableInput, _ ...func(*ddb.Options)) (*ddb.DescribeTableOutput, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, err := m.table(p.TableName)
	if err != nil {
		return nil, err
	}
	return &ddb.DescribeTableOutput{
		Table: &types.TableDescription{
			TableName:   p.TableName,
			TableStatus: types.TableStatusActive,
			ItemCount:   aws.Int64(int64(len(t.items))),
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String(t.hashKey), KeyType: types.KeyTypeHash},
			},
		},
	}, nil
}

// CreateTable adds an empty table using the HASH element of the key schema
func (m *MemoryClient) CreateTable(_ context.Context, p *ddb.CreateTableInput, _ ...func(*ddb.Options)) (*ddb.CreateTableOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := aws.ToString(p.TableName)
	if _, exists := m.tables[name]; exists {
		return nil, &types.ResourceInUseException{Message: aws.String("Table already exists: " + name)}
	}

	hashKey := ""
	for _, el := range p.KeySchema {
		if el.KeyType == types.KeyTypeHash {
			hashKey = aws.ToString(el.AttributeName)
		}
	}
	if hashKey == "" {
		return nil, fmt.Errorf("ValidationException: key schema has no HASH element")
	}

	m.tables[name] = newMemoryTable(hashKey)
	return &ddb.CreateTableOutput{
		TableDescription: &types.TableDescription{
			TableName:   p.TableName,
			TableStatus: types.TableStatusActive,
		},
	}, nil
}

// parseSetExpression resolves "SET #a = :a, #b = :b" against the placeholder
// maps. Every placeholder must resolve, as DynamoDB requires.
func parseSetExpression(expr string, names map[string]string, values map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	expr = strings.TrimSpace(expr)
	if len(expr) < 4 || !strings.EqualFold(expr[:4], "set ") {
		return nil, fmt.Errorf("ValidationException: unsupported update expression %q", expr)
	}

	out := make(map[string]types.AttributeValue)
	for _, assignment := range strings.Split(expr[4:], ",") {
		lhs, rhs, found := strings.Cut(assignment, "=")
		if !found {
			return nil, fmt.Errorf("ValidationException: invalid assignment %q", strings.TrimSpace(assignment))
		}
		lhs, rhs = strings.TrimSpace(lhs), strings.TrimSpace(rhs)

		name := lhs
		if strings.HasPrefix(lhs, "#") {
			resolved, ok := names[lhs]
			if !ok {
				return nil, fmt.Errorf("ValidationException: undefined attribute name %s", lhs)
			}
			name = resolved
		}

		av, ok := values[rhs]
		if !ok {
			return nil, fmt.Errorf("ValidationException: undefined attribute value %s", rhs)
		}
		out[name] = av
	}
	return out, nil
}
