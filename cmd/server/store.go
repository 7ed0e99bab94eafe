package main

import (
	"context"
	"fmt"
	"log"

	blogapi "github.com/klass-lk/blog-api"
	"github.com/klass-lk/blog-api/internal/config"
	"github.com/klass-lk/blog-api/internal/repository"
)

type closeFunc func(ctx context.Context) error

// openStore connects the configured backend once for the life of the
// process. The returned closeFunc releases the connection.
func openStore(ctx context.Context, cfg *config.Config) (repository.PostStore, closeFunc, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		db, err := cfg.Mongo.Connect(ctx)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("connected to MongoDB database %s", cfg.Mongo.Database)
		return repository.NewMongoPostRepository(db), db.Client().Disconnect, nil

	case config.StorePostgres:
		db, err := cfg.SQL.Connect(ctx)
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewSQLPostRepository(db)
		if err := repo.CreateTable(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("create posts table: %w", err)
		}
		log.Printf("connected to PostgreSQL database %s", cfg.SQL.Database)
		return repo, func(context.Context) error { return db.Close() }, nil

	case config.StoreDynamoDB:
		client, err := blogapi.NewDynamoDBClient(ctx, cfg.DynamoDB)
		if err != nil {
			return nil, nil, fmt.Errorf("dynamodb client: %w", err)
		}
		repo, err := repository.NewDynamoDBPostRepository(ctx, client, cfg.DynamoDB)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("using DynamoDB table %s", cfg.DynamoDB.TableName)
		return repo, func(context.Context) error { return nil }, nil
	}
	return nil, nil, fmt.Errorf("unknown store %q", cfg.StoreDriver)
}
