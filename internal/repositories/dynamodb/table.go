package dynamodb

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	ddb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sirupsen/logrus"

	"collections-api/internal/models"
	"collections-api/internal/repositories"
)

// TableAdmin is the subset of the DynamoDB API used to manage the table
type TableAdmin interface {
	DescribeTable(ctx context.Context, params *ddb.DescribeTableInput, optFns ...func(*ddb.Options)) (*ddb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, params *ddb.CreateTableInput, optFns ...func(*ddb.Options)) (*ddb.CreateTableOutput, error)
}

// TableStatus summarizes a table description
type TableStatus struct {
	Name      string
	Status    string
	ItemCount int64
}

// DescribeTable returns the table status, or an error wrapping
// repositories.ErrTableNotFound
func DescribeTable(ctx context.Context, admin TableAdmin, tableName string) (*TableStatus, error) {
	out, err := admin.DescribeTable(ctx, &ddb.DescribeTableInput{TableName: aws.String(tableName)})
	if err != nil {
		return nil, repositories.NewRepositoryError("describe", "table", tableName, classify(err))
	}

	status := &TableStatus{Name: tableName}
	if out.Table != nil {
		status.Status = string(out.Table.TableStatus)
		status.ItemCount = aws.ToInt64(out.Table.ItemCount)
	}
	return status, nil
}

// EnsureTable creates the collections table, keyed by the string attribute
// "id" with on-demand billing, when it does not exist yet. It reports
// whether a table was created.
func EnsureTable(ctx context.Context, admin TableAdmin, tableName string, logger *logrus.Logger) (bool, error) {
	if logger == nil {
		logger = logrus.New()
	}

	_, err := DescribeTable(ctx, admin, tableName)
	if err == nil {
		logger.WithField("table", tableName).Info("Table already exists")
		return false, nil
	}
	if !repositories.IsTableNotFound(err) {
		return false, err
	}

	_, err = admin.CreateTable(ctx, &ddb.CreateTableInput{
		TableName: aws.String(tableName),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(models.IDField), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(models.IDField), KeyType: types.KeyTypeHash},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		var inUse *types.ResourceInUseException
		if errors.As(err, &inUse) {
			return false, nil
		}
		return false, repositories.NewRepositoryError("create", "table", tableName, classify(err))
	}

	logger.WithField("table", tableName).Info("Table created")
	return true, nil
}

// Client is everything the service needs from DynamoDB
type Client interface {
	DynamoClient
	TableAdmin
}

var _ Client = (*ddb.Client)(nil)
