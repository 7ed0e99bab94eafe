package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	blogapi "github.com/klass-lk/blog-api"
)

const (
	StoreMongo    = "mongo"
	StoreDynamoDB = "dynamodb"
	StorePostgres = "postgres"
)

type Config struct {
	Port             int
	PostsPath        string
	GinMode          string
	LambdaRuntime    bool
	CORSAllowOrigins []string
	ShutdownTimeout  time.Duration

	StoreDriver string
	Mongo       *blogapi.MongoConfig
	SQL         *blogapi.SQLConfig
	DynamoDB    *blogapi.DynamoDBConfig
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an integer", key, v)
	}
	return n, nil
}

func getenvBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %q is not a boolean", key, v)
	}
	return b, nil
}

func getenvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment variables
// win over it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		PostsPath:        getenv("BASE_PATH", "/posts"),
		GinMode:          getenv("GIN_MODE", "release"),
		CORSAllowOrigins: getenvList("CORS_ALLOW_ORIGINS"),
		StoreDriver:      strings.ToLower(getenv("STORE_DRIVER", StoreMongo)),
	}

	var err error
	if cfg.Port, err = getenvInt("PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.LambdaRuntime, err = getenvBool("LAMBDA_RUNTIME", false); err != nil {
		return nil, err
	}
	shutdownSeconds, err := getenvInt("SHUTDOWN_TIMEOUT_SECONDS", 10)
	if err != nil {
		return nil, err
	}
	cfg.ShutdownTimeout = time.Duration(shutdownSeconds) * time.Second

	switch cfg.StoreDriver {
	case StoreMongo:
		cfg.Mongo, err = loadMongo()
	case StorePostgres:
		cfg.SQL, err = loadSQL()
	case StoreDynamoDB:
		cfg.DynamoDB, err = loadDynamoDB()
	default:
		err = fmt.Errorf("STORE_DRIVER: unknown store %q", cfg.StoreDriver)
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadMongo() (*blogapi.MongoConfig, error) {
	port, err := getenvInt("MONGO_PORT", 27017)
	if err != nil {
		return nil, err
	}
	return blogapi.NewMongoConfig().
		WithURI(os.Getenv("MONGO_URI")).
		WithHost(getenv("MONGO_HOST", "localhost"), port).
		WithCredentials(os.Getenv("MONGO_USER"), os.Getenv("MONGO_PASSWORD")).
		WithDatabase(getenv("MONGO_DATABASE", "blog")), nil
}

func loadSQL() (*blogapi.SQLConfig, error) {
	port, err := getenvInt("POSTGRES_PORT", 5432)
	if err != nil {
		return nil, err
	}
	return blogapi.NewSQLConfig().
		WithHost(getenv("POSTGRES_HOST", "localhost"), port).
		WithCredentials(getenv("POSTGRES_USER", "postgres"), getenv("POSTGRES_PASSWORD", "postgres")).
		WithDatabase(getenv("POSTGRES_DATABASE", "blog")).
		WithSSLMode(getenv("POSTGRES_SSLMODE", "disable")), nil
}

func loadDynamoDB() (*blogapi.DynamoDBConfig, error) {
	skip, err := getenvBool("DYNAMODB_SKIP_TABLE_CREATION", false)
	if err != nil {
		return nil, err
	}
	return blogapi.NewDynamoDBConfig().
		WithRegion(getenv("DYNAMODB_REGION", "us-east-1")).
		WithEndpoint(os.Getenv("DYNAMODB_ENDPOINT")).
		WithTableName(getenv("DYNAMODB_TABLE", "posts")).
		WithSkipTableCreation(skip), nil
}
