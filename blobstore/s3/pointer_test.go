package s3

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/bitkit/snapshot"
)

type mockDDBClient struct {
	mock.Mock
}

func (m *mockDDBClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*dynamodb.PutItemOutput)
	return out, args.Error(1)
}

func (m *mockDDBClient) Query(ctx context.Context, params *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*dynamodb.QueryOutput)
	return out, args.Error(1)
}

func TestPointerStore_Latest(t *testing.T) {
	t.Run("no snapshot", func(t *testing.T) {
		client := new(mockDDBClient)
		ps := NewPointerStore(client, "bitkit-snapshots")

		client.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
			return aws.ToString(in.TableName) == "bitkit-snapshots" && !aws.ToBool(in.ScanIndexForward)
		})).Return(&dynamodb.QueryOutput{}, nil).Once()

		_, err := ps.Latest(context.Background(), "visited")
		assert.ErrorIs(t, err, snapshot.ErrNoSnapshot)
	})

	t.Run("latest version", func(t *testing.T) {
		client := new(mockDDBClient)
		ps := NewPointerStore(client, "bitkit-snapshots")

		client.On("Query", mock.Anything, mock.Anything).Return(&dynamodb.QueryOutput{
			Items: []map[string]types.AttributeValue{
				{
					"name":    &types.AttributeValueMemberS{Value: "visited"},
					"version": &types.AttributeValueMemberN{Value: "42"},
				},
			},
		}, nil).Once()

		version, err := ps.Latest(context.Background(), "visited")
		require.NoError(t, err)
		assert.Equal(t, uint64(42), version)
	})
}

func TestPointerStore_Commit(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client := new(mockDDBClient)
		ps := NewPointerStore(client, "bitkit-snapshots")

		client.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
			name, _ := in.Item["name"].(*types.AttributeValueMemberS)
			version, _ := in.Item["version"].(*types.AttributeValueMemberN)
			return name != nil && name.Value == "visited" &&
				version != nil && version.Value == "7" &&
				in.ConditionExpression != nil
		})).Return(&dynamodb.PutItemOutput{}, nil).Once()

		require.NoError(t, ps.Commit(context.Background(), "visited", 7))
	})

	t.Run("concurrent writer", func(t *testing.T) {
		client := new(mockDDBClient)
		ps := NewPointerStore(client, "bitkit-snapshots")

		client.On("PutItem", mock.Anything, mock.Anything).
			Return(nil, &types.ConditionalCheckFailedException{}).Once()

		err := ps.Commit(context.Background(), "visited", 7)
		assert.ErrorIs(t, err, snapshot.ErrConcurrentModification)
	})
}
