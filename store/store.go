package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	// MainKeyAttr is the table's string hash key attribute name.
	MainKeyAttr = "main_key"

	// DataAttr is the attribute name holding the record's data map.
	DataAttr = "data"

	// VersionAttr is the attribute name of the optimistic-lock counter.
	VersionAttr = "version"
)

// Store provides per-user record access on a single DynamoDB table.
type Store struct {
	client API
	config Config
	logger *slog.Logger
}

// New creates a new Store instance.
func New(client API, config Config) *Store {
	return NewWithLogger(client, config, nil)
}

// NewWithLogger creates a new Store instance with a custom logger.
func NewWithLogger(client API, config Config, logger *slog.Logger) *Store {
	config.validate()
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		client: client,
		config: config,
		logger: logger,
	}
}

// Config returns the store's effective (defaulted) configuration.
func (s *Store) Config() Config {
	return s.config
}

// MainKey binds a main key and returns the record accessor for it. The bind
// itself performs no validation and no I/O.
func (s *Store) MainKey(mainKey string) *Record {
	return &Record{store: s, mainKey: mainKey}
}

// record is the item shape of one row in the record table.
type record struct {
	MainKey string         `dynamodbav:"main_key"`
	Data    map[string]any `dynamodbav:"data"`
	Version int64          `dynamodbav:"version"`
}

// fetch reads the row for mainKey with strong consistency.
// Returns (nil, nil) when the table exists but holds no such row.
func (s *Store) fetch(ctx context.Context, mainKey string) (*record, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.config.TableName),
		ConsistentRead: aws.Bool(true),
		Key: map[string]types.AttributeValue{
			MainKeyAttr: &types.AttributeValueMemberS{Value: mainKey},
		},
	})
	if err != nil {
		return nil, err
	}
	if len(out.Item) == 0 {
		return nil, nil
	}

	var rec record
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal record for main key %q: %w", mainKey, err)
	}
	if rec.Data == nil {
		rec.Data = map[string]any{}
	}
	return &rec, nil
}

// put writes the whole row back, conditional on the version observed by the
// preceding fetch. expectedVersion 0 means the row must not exist yet.
func (s *Store) put(ctx context.Context, mainKey string, data map[string]any, expectedVersion int64) error {
	item, err := attributevalue.MarshalMap(record{
		MainKey: mainKey,
		Data:    data,
		Version: expectedVersion + 1,
	})
	if err != nil {
		return fmt.Errorf("marshal record for main key %q: %w", mainKey, err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(s.config.TableName),
		Item:      item,
	}

	if expectedVersion == 0 {
		input.ConditionExpression = aws.String("attribute_not_exists(main_key)")
	} else {
		input.ConditionExpression = aws.String("#version = :expected_version")
		input.ExpressionAttributeNames = map[string]string{
			"#version": VersionAttr,
		}
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":expected_version": &types.AttributeValueMemberN{
				Value: strconv.FormatInt(expectedVersion, 10),
			},
		}
	}

	_, err = s.client.PutItem(ctx, input)
	return err
}

// deleteRow removes the row for mainKey unconditionally.
func (s *Store) deleteRow(ctx context.Context, mainKey string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.config.TableName),
		Key: map[string]types.AttributeValue{
			MainKeyAttr: &types.AttributeValueMemberS{Value: mainKey},
		},
	})
	return err
}

// EnsureTable creates the record table if it does not exist and waits for it
// to become ACTIVE. Creation uses a single string hash key and the configured
// provisioned throughput. The call is idempotent: a table that already exists
// (or is being created by another writer) is not an error.
func (s *Store) EnsureTable(ctx context.Context) error {
	input := &dynamodb.CreateTableInput{
		TableName: aws.String(s.config.TableName),
		AttributeDefinitions: []types.AttributeDefinition{
			{
				AttributeName: aws.String(MainKeyAttr),
				AttributeType: types.ScalarAttributeTypeS,
			},
		},
		KeySchema: []types.KeySchemaElement{
			{
				AttributeName: aws.String(MainKeyAttr),
				KeyType:       types.KeyTypeHash,
			},
		},
		ProvisionedThroughput: &types.ProvisionedThroughput{
			ReadCapacityUnits:  aws.Int64(s.config.ReadCapacityUnits),
			WriteCapacityUnits: aws.Int64(s.config.WriteCapacityUnits),
		},
	}

	if s.config.EnableStream {
		input.StreamSpecification = &types.StreamSpecification{
			StreamEnabled:  aws.Bool(true),
			StreamViewType: types.StreamViewTypeNewAndOldImages,
		}
	}

	_, err := s.client.CreateTable(ctx, input)
	switch {
	case err == nil:
		s.logger.Info("created record table",
			"table", s.config.TableName,
			"readCapacity", s.config.ReadCapacityUnits,
			"writeCapacity", s.config.WriteCapacityUnits,
		)
	case isTableInUse(err):
		// Another writer got there first; wait for it below.
	default:
		return fmt.Errorf("create table %s: %w", s.config.TableName, err)
	}

	waiter := dynamodb.NewTableExistsWaiter(s.client)
	describeInput := &dynamodb.DescribeTableInput{
		TableName: aws.String(s.config.TableName),
	}
	if err := waiter.Wait(ctx, describeInput, s.config.ProvisionTimeout); err != nil {
		return fmt.Errorf("wait for table %s to become active: %w", s.config.TableName, err)
	}

	return nil
}

// isTableMissing reports whether err is DynamoDB's "resource not found"
// condition, which a missing table surfaces on item operations.
func isTableMissing(err error) bool {
	var notFound *types.ResourceNotFoundException
	return errors.As(err, &notFound)
}

// isTableInUse reports whether err signals a table that already exists or is
// currently being created.
func isTableInUse(err error) bool {
	var inUse *types.ResourceInUseException
	return errors.As(err, &inUse)
}

// isConditionFailed reports whether err is a conditional-write failure.
func isConditionFailed(err error) bool {
	var condErr *types.ConditionalCheckFailedException
	return errors.As(err, &condErr)
}
