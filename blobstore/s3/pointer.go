package s3

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/hupe1980/bitkit/snapshot"
)

// DDBClient is the subset of the DynamoDB API the pointer store uses.
// *dynamodb.Client satisfies it; tests substitute a mock.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// PointerStore implements snapshot.PointerStore on DynamoDB. It provides
// the atomic compare-and-swap that S3 lacks, so concurrent writers can
// safely race on the same snapshot name: conditional writes guarantee that
// exactly one writer commits each version.
//
// Table schema: partition key "name" (string), sort key "version" (number).
// Create with:
//
//	aws dynamodb create-table \
//	  --table-name bitkit-snapshots \
//	  --attribute-definitions AttributeName=name,AttributeType=S AttributeName=version,AttributeType=N \
//	  --key-schema AttributeName=name,KeyType=HASH AttributeName=version,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type PointerStore struct {
	client DDBClient
	table  string
}

// NewPointerStore creates a DynamoDB-backed pointer store using the given
// table.
func NewPointerStore(client DDBClient, table string) *PointerStore {
	return &PointerStore{client: client, table: table}
}

// Latest returns the newest committed version of name, querying the sort
// key in descending order.
func (p *PointerStore) Latest(ctx context.Context, name string) (uint64, error) {
	resp, err := p.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(p.table),
		KeyConditionExpression: aws.String("#n = :name"),
		ExpressionAttributeNames: map[string]string{
			"#n": "name",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":name": &types.AttributeValueMemberS{Value: name},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return 0, fmt.Errorf("s3: query latest version: %w", err)
	}
	if len(resp.Items) == 0 {
		return 0, snapshot.ErrNoSnapshot
	}

	attr, ok := resp.Items[0]["version"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, errors.New("s3: version attribute missing or not a number")
	}
	version, err := strconv.ParseUint(attr.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("s3: parse version %q: %w", attr.Value, err)
	}
	return version, nil
}

// Commit records version as the latest for name. The conditional put fails
// when another writer already committed the same version, which surfaces as
// snapshot.ErrConcurrentModification.
func (p *PointerStore) Commit(ctx context.Context, name string, version uint64) error {
	_, err := p.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(p.table),
		Item: map[string]types.AttributeValue{
			"name":    &types.AttributeValueMemberS{Value: name},
			"version": &types.AttributeValueMemberN{Value: strconv.FormatUint(version, 10)},
		},
		// "version" is a DynamoDB reserved word, hence the placeholder.
		ConditionExpression: aws.String("attribute_not_exists(#v)"),
		ExpressionAttributeNames: map[string]string{
			"#v": "version",
		},
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return snapshot.ErrConcurrentModification
		}
		return fmt.Errorf("s3: commit version: %w", err)
	}
	return nil
}
