package contacts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeDynamo records the inputs it receives and serves canned outputs.
type fakeDynamo struct {
	putInput    *dynamodb.PutItemInput
	putErr      error
	getInput    *dynamodb.GetItemInput
	getOutput   *dynamodb.GetItemOutput
	deleteInput *dynamodb.DeleteItemInput
	deleteOut   *dynamodb.DeleteItemOutput
	scanPages   []*dynamodb.ScanOutput
	scanCalls   int
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.putInput = in
	if f.putErr != nil {
		return nil, f.putErr
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.getInput = in
	if f.getOutput != nil {
		return f.getOutput, nil
	}
	return &dynamodb.GetItemOutput{}, nil
}

func (f *fakeDynamo) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.deleteInput = in
	if f.deleteOut != nil {
		return f.deleteOut, nil
	}
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDynamo) Scan(_ context.Context, _ *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	if f.scanCalls >= len(f.scanPages) {
		return &dynamodb.ScanOutput{}, nil
	}
	page := f.scanPages[f.scanCalls]
	f.scanCalls++
	return page, nil
}

func marshalContact(t *testing.T, c *Contact) map[string]types.AttributeValue {
	t.Helper()
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		t.Fatalf("failed to marshal contact: %v", err)
	}
	return item
}

func TestDynamoCreateWritesConditionalPut(t *testing.T) {
	fake := &fakeDynamo{}
	repo := NewDynamoRepository(fake, "contacts-test", nil)

	contact, err := repo.Create(context.Background(), &CreateContactRequest{
		Name:  "Jane Doe",
		Email: "Jane@Example.com",
		Phone: "+1 555-123-4567",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if contact.ID == "" {
		t.Error("expected generated id")
	}
	if contact.Email != "jane@example.com" {
		t.Errorf("expected lowercased email, got %q", contact.Email)
	}
	if !contact.UpdatedAt.Equal(contact.CreatedAt) {
		t.Error("expected updatedAt to equal createdAt on create")
	}

	if fake.putInput == nil {
		t.Fatal("expected PutItem to be called")
	}
	if got := *fake.putInput.TableName; got != "contacts-test" {
		t.Errorf("unexpected table name %q", got)
	}
	if got := *fake.putInput.ConditionExpression; got != "attribute_not_exists(id)" {
		t.Errorf("unexpected condition expression %q", got)
	}
}

func TestDynamoCreateRejectsInvalidRequest(t *testing.T) {
	fake := &fakeDynamo{}
	repo := NewDynamoRepository(fake, "contacts-test", nil)

	_, err := repo.Create(context.Background(), &CreateContactRequest{
		Name:  "J",
		Email: "bad",
		Phone: "555-CALL",
	})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if fake.putInput != nil {
		t.Error("invalid request must not reach the table")
	}
}

func TestDynamoListPaginatesAndSorts(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	older := &Contact{ID: "1", Name: "alice", Email: "alice@example.com", Phone: "1111111111", CreatedAt: base, UpdatedAt: base}
	newer := &Contact{ID: "2", Name: "Bob", Email: "bob@example.com", Phone: "2222222222", CreatedAt: base.Add(time.Hour), UpdatedAt: base.Add(time.Hour)}

	fake := &fakeDynamo{
		scanPages: []*dynamodb.ScanOutput{
			{
				Items:            []map[string]types.AttributeValue{marshalContact(t, older)},
				LastEvaluatedKey: map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: "1"}},
			},
			{
				Items: []map[string]types.AttributeValue{marshalContact(t, newer)},
			},
		},
	}
	repo := NewDynamoRepository(fake, "contacts-test", nil)

	list, err := repo.List(context.Background(), ListFilter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if fake.scanCalls != 2 {
		t.Errorf("expected 2 scan pages, got %d", fake.scanCalls)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 contacts, got %d", len(list))
	}
	if list[0].ID != "2" || list[1].ID != "1" {
		t.Errorf("expected newest first, got %s, %s", list[0].ID, list[1].ID)
	}
}

func TestDynamoGetByIDNotFound(t *testing.T) {
	fake := &fakeDynamo{}
	repo := NewDynamoRepository(fake, "contacts-test", nil)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrContactNotFound) {
		t.Fatalf("expected ErrContactNotFound, got %v", err)
	}
}

func TestDynamoDeleteReturnsOldDocument(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	stored := &Contact{ID: "abc", Name: "Jane Doe", Email: "jane@example.com", Phone: "+1234567890", CreatedAt: now, UpdatedAt: now}

	fake := &fakeDynamo{
		deleteOut: &dynamodb.DeleteItemOutput{Attributes: marshalContact(t, stored)},
	}
	repo := NewDynamoRepository(fake, "contacts-test", nil)

	contact, err := repo.Delete(context.Background(), "abc")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if contact.Name != "Jane Doe" {
		t.Errorf("expected deleted document back, got %+v", contact)
	}

	if fake.deleteInput == nil {
		t.Fatal("expected DeleteItem to be called")
	}
	if fake.deleteInput.ReturnValues != types.ReturnValueAllOld {
		t.Errorf("expected ALL_OLD return values, got %v", fake.deleteInput.ReturnValues)
	}
}

func TestDynamoDeleteMissingIsNotFound(t *testing.T) {
	fake := &fakeDynamo{}
	repo := NewDynamoRepository(fake, "contacts-test", nil)

	_, err := repo.Delete(context.Background(), "missing")
	if !errors.Is(err, ErrContactNotFound) {
		t.Fatalf("expected ErrContactNotFound, got %v", err)
	}
}
