package contacts

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/contactdesk/contactdesk/pkg/logging"
)

type dynamoAPI interface {
	PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(context.Context, *dynamodb.GetItemInput, ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(context.Context, *dynamodb.DeleteItemInput, ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(context.Context, *dynamodb.ScanInput, ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// DynamoRepository persists contacts to a DynamoDB table keyed by id.
type DynamoRepository struct {
	client    dynamoAPI
	tableName string
	logger    *logging.Logger
}

var _ Repository = (*DynamoRepository)(nil)

// NewDynamoRepository builds a repository backed by the provided DynamoDB
// client.
func NewDynamoRepository(client dynamoAPI, tableName string, logger *logging.Logger) *DynamoRepository {
	if client == nil {
		panic("contacts: dynamodb client cannot be nil")
	}
	if tableName == "" {
		panic("contacts: table name cannot be empty")
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &DynamoRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// Create validates the request and writes a new document. The condition
// expression guards the id-never-reused invariant.
func (r *DynamoRepository) Create(ctx context.Context, req *CreateContactRequest) (*Contact, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	contact := &Contact{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Message:   req.Message,
		CreatedAt: now,
		UpdatedAt: now,
	}

	item, err := attributevalue.MarshalMap(contact)
	if err != nil {
		return nil, fmt.Errorf("contacts: failed to marshal contact: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		return nil, fmt.Errorf("contacts: failed to persist contact: %w", err)
	}
	return contact, nil
}

// List scans the table and orders the result in process. DynamoDB cannot
// sort a scan; with the list capped at 100 documents this stays cheap.
func (r *DynamoRepository) List(ctx context.Context, filter ListFilter) ([]*Contact, error) {
	filter = filter.normalize()

	var out []*Contact
	var startKey map[string]types.AttributeValue
	for {
		page, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(r.tableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("contacts: failed to scan contacts: %w", err)
		}

		var batch []*Contact
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("contacts: failed to decode contacts: %w", err)
		}
		out = append(out, batch...)

		startKey = page.LastEvaluatedKey
		if len(startKey) == 0 {
			break
		}
	}

	SortContacts(out, filter)
	if len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	if out == nil {
		out = []*Contact{}
	}
	return out, nil
}

// GetByID fetches a contact by id.
func (r *DynamoRepository) GetByID(ctx context.Context, id string) (*Contact, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("contacts: failed to fetch contact: %w", err)
	}
	if out.Item == nil {
		return nil, ErrContactNotFound
	}

	var contact Contact
	if err := attributevalue.UnmarshalMap(out.Item, &contact); err != nil {
		return nil, fmt.Errorf("contacts: failed to decode contact: %w", err)
	}
	return &contact, nil
}

// Delete removes a contact and returns the deleted document. ALL_OLD lets
// a single call distinguish a real delete from a missing id.
func (r *DynamoRepository) Delete(ctx context.Context, id string) (*Contact, error) {
	out, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return nil, fmt.Errorf("contacts: failed to delete contact: %w", err)
	}
	if len(out.Attributes) == 0 {
		return nil, ErrContactNotFound
	}

	var contact Contact
	if err := attributevalue.UnmarshalMap(out.Attributes, &contact); err != nil {
		return nil, fmt.Errorf("contacts: failed to decode deleted contact: %w", err)
	}
	return &contact, nil
}
