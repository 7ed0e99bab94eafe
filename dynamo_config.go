package blogapi

type DynamoDBConfig struct {
	Region            string
	Endpoint          string
	TableName         string
	SkipTableCreation bool
}

func NewDynamoDBConfig() *DynamoDBConfig {
	return &DynamoDBConfig{
		Region:    "us-east-1",
		TableName: "posts",
	}
}

func (c *DynamoDBConfig) WithRegion(region string) *DynamoDBConfig {
	c.Region = region
	return c
}

// WithEndpoint points the client at a non-AWS endpoint such as DynamoDB Local.
func (c *DynamoDBConfig) WithEndpoint(endpoint string) *DynamoDBConfig {
	c.Endpoint = endpoint
	return c
}

func (c *DynamoDBConfig) WithTableName(name string) *DynamoDBConfig {
	c.TableName = name
	return c
}

func (c *DynamoDBConfig) WithSkipTableCreation(skip bool) *DynamoDBConfig {
	c.SkipTableCreation = skip
	return c
}
