package blogapi

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDynamoDBConfig_Builders(t *testing.T) {
	config := NewDynamoDBConfig()
	assert.Equal(t, "us-east-1", config.Region)
	assert.Equal(t, "posts", config.TableName)
	assert.False(t, config.SkipTableCreation)

	config.WithRegion("eu-central-1").
		WithEndpoint("http://localhost:8000").
		WithTableName("blog").
		WithSkipTableCreation(true)

	assert.Equal(t, &DynamoDBConfig{
		Region:            "eu-central-1",
		Endpoint:          "http://localhost:8000",
		TableName:         "blog",
		SkipTableCreation: true,
	}, config)
}

func TestNewDynamoDBClient_Endpoint(t *testing.T) {
	ctx := context.Background()
	client, err := NewDynamoDBClient(ctx, NewDynamoDBConfig().
		WithRegion("eu-west-1").
		WithEndpoint("http://localhost:8000"))
	require.NoError(t, err)

	opts := client.Options()
	assert.Equal(t, "eu-west-1", opts.Region)
	assert.Equal(t, "http://localhost:8000", aws.ToString(opts.BaseEndpoint))

	creds, err := opts.Credentials.Retrieve(ctx)
	require.NoError(t, err)
	assert.Equal(t, "local", creds.AccessKeyID)
}
