package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/emailotp-api/internal/domain"
)

// EmailLogRepo appends outbound email attempts. PK: log_id
type EmailLogRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewEmailLogRepo(client *dynamodb.Client, tableName string) *EmailLogRepo {
	return &EmailLogRepo{client: client, tableName: tableName}
}

func (r *EmailLogRepo) Put(ctx context.Context, l *domain.EmailLog) error {
	item, err := attributevalue.MarshalMap(l)
	if err != nil {
		return fmt.Errorf("marshal email log: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}
