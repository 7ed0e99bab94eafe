package blogapi

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoConfig struct {
	URI      string
	Host     string
	Port     int
	Username string
	Password string
	Database string
	Options  map[string]string
}

func NewMongoConfig() *MongoConfig {
	return &MongoConfig{
		Host:     "localhost",
		Port:     27017,
		Database: "blog",
		Options:  make(map[string]string),
	}
}

// WithURI sets a full connection string. It takes precedence over the
// host, port and credential settings.
func (c *MongoConfig) WithURI(uri string) *MongoConfig {
	c.URI = uri
	return c
}

func (c *MongoConfig) WithCredentials(username, password string) *MongoConfig {
	c.Username = username
	c.Password = password
	return c
}

func (c *MongoConfig) WithHost(host string, port int) *MongoConfig {
	c.Host = host
	c.Port = port
	return c
}

func (c *MongoConfig) WithDatabase(database string) *MongoConfig {
	c.Database = database
	return c
}

func (c *MongoConfig) WithOption(key, value string) *MongoConfig {
	if c.Options == nil {
		c.Options = make(map[string]string)
	}
	c.Options[key] = value
	return c
}

func (c *MongoConfig) BuildURI() string {
	if c.URI != "" {
		return c.URI
	}

	var auth string
	if c.Username != "" && c.Password != "" {
		auth = fmt.Sprintf("%s:%s@", url.QueryEscape(c.Username), url.QueryEscape(c.Password))
	}

	uri := fmt.Sprintf("mongodb://%s%s:%d", auth, c.Host, c.Port)

	if len(c.Options) > 0 {
		keys := make([]string, 0, len(c.Options))
		for key := range c.Options {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		pairs := make([]string, len(keys))
		for i, key := range keys {
			pairs[i] = fmt.Sprintf("%s=%s", key, c.Options[key])
		}
		uri += "/?" + strings.Join(pairs, "&")
	}

	return uri
}

// Connect opens a client, verifies it with a ping and returns the configured
// database. Disconnect through db.Client() when done.
func (c *MongoConfig) Connect(ctx context.Context) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(c.BuildURI())

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client.Database(c.Database), nil
}
