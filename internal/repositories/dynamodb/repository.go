package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	ddb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sirupsen/logrus"

	"collections-api/internal/models"
	"collections-api/internal/repositories"
)

const entityName = "collection"

// DynamoClient is the subset of the DynamoDB API the repository calls.
// It is satisfied by *dynamodb.Client and by MemoryClient.
type DynamoClient interface {
	PutItem(ctx context.Context, params *ddb.PutItemInput, optFns ...func(*ddb.Options)) (*ddb.PutItemOutput, error)
	Scan(ctx context.Context, params *ddb.ScanInput, optFns ...func(*ddb.Options)) (*ddb.ScanOutput, error)
	UpdateItem(ctx context.Context, params *ddb.UpdateItemInput, optFns ...func(*ddb.Options)) (*ddb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *ddb.DeleteItemInput, optFns ...func(*ddb.Options)) (*ddb.DeleteItemOutput, error)
}

// CollectionRepository stores collection records in one DynamoDB table
// keyed by the string attribute "id"
type CollectionRepository struct {
	client    DynamoClient
	tableName string
	logger    *logrus.Logger
}

var _ repositories.CollectionRepository = (*CollectionRepository)(nil)

// NewCollectionRepository creates a repository over an existing client.
// The client is shared, not owned.
func NewCollectionRepository(client DynamoClient, tableName string, logger *logrus.Logger) *CollectionRepository {
	if logger == nil {
		logger = logrus.New()
	}
	return &CollectionRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// Put implements repositories.CollectionRepository
func (r *CollectionRepository) Put(ctx context.Context, collection *models.Collection) error {
	item, err := attributevalue.MarshalMap(collection)
	if err != nil {
		return repositories.NewRepositoryError("put", entityName, collection.ID, err)
	}

	_, err = r.client.PutItem(ctx, &ddb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return repositories.NewRepositoryError("put", entityName, collection.ID, classify(err))
	}

	r.logger.WithFields(logrus.Fields{
		"table": r.tableName,
		"id":    collection.ID,
	}).Debug("Collection stored")

	return nil
}

// ScanAll implements repositories.CollectionRepository. Only the first page
// is read; callers with more data than one page see a truncated list.
func (r *CollectionRepository) ScanAll(ctx context.Context) ([]repositories.Record, error) {
	out, err := r.client.Scan(ctx, &ddb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return nil, repositories.NewRepositoryError("scan", entityName, "", classify(err))
	}

	if len(out.LastEvaluatedKey) > 0 {
		r.logger.WithFields(logrus.Fields{
			"table":    r.tableName,
			"returned": len(out.Items),
		}).Warn("Scan result truncated to first page")
	}

	return ItemsToRecords(out.Items), nil
}

// Update implements repositories.CollectionRepository. DynamoDB creates the
// item when no record has the ID yet.
func (r *CollectionRepository) Update(ctx context.Context, id string, fields []models.Field) error {
	expr, err := BuildUpdateExpression(models.IDField, fields)
	if err != nil {
		return repositories.NewRepositoryError("update", entityName, id, err)
	}

	_, err = r.client.UpdateItem(ctx, &ddb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       keyOf(id),
		UpdateExpression:          aws.String(expr.Expression),
		ExpressionAttributeNames:  expr.Names,
		ExpressionAttributeValues: expr.Values,
	})
	if err != nil {
		return repositories.NewRepositoryError("update", entityName, id, classify(err))
	}

	r.logger.WithFields(logrus.Fields{
		"table":  r.tableName,
		"id":     id,
		"fields": expr.Fields,
	}).Debug("Collection updated")

	return nil
}

// Delete implements repositories.CollectionRepository
func (r *CollectionRepository) Delete(ctx context.Context, id string) (repositories.Record, error) {
	out, err := r.client.DeleteItem(ctx, &ddb.DeleteItemInput{
		TableName:    aws.String(r.tableName),
		Key:          keyOf(id),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return nil, repositories.NewRepositoryError("delete", entityName, id, classify(err))
	}

	if len(out.Attributes) == 0 {
		return nil, nil
	}
	return ItemToRecord(out.Attributes), nil
}

func keyOf(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		models.IDField: &types.AttributeValueMemberS{Value: id},
	}
}

// classify tags SDK failures with a repository sentinel while keeping the
// original message
func classify(err error) error {
	var notFound *types.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %v", repositories.ErrTableNotFound, err)
	}
	return fmt.Errorf("%w: %v", repositories.ErrStore, err)
}
