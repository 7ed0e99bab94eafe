package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	blogapi "github.com/klass-lk/blog-api"
	"github.com/klass-lk/blog-api/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoPostRepository struct {
	repo *blogapi.MongoRepository[model.Post]
}

func NewMongoPostRepository(database *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{
		repo: blogapi.NewMongoRepository[model.Post](database),
	}
}

func (r *MongoPostRepository) List(ctx context.Context) ([]model.Post, error) {
	posts, err := r.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (r *MongoPostRepository) FindByID(ctx context.Context, id string) (model.Post, error) {
	post, err := r.repo.FindById(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Post{}, ErrPostNotFound
	}
	if err != nil {
		return model.Post{}, fmt.Errorf("find post %s: %w", id, err)
	}
	return post, nil
}

func (r *MongoPostRepository) Create(ctx context.Context, post model.Post) (model.Post, error) {
	post = post.WithDefaults(primitive.NewObjectID().Hex(), time.Now())
	if err := post.Validate(); err != nil {
		return model.Post{}, err
	}
	if err := r.repo.Save(ctx, post); err != nil {
		return model.Post{}, fmt.Errorf("insert post: %w", err)
	}
	return post, nil
}

func (r *MongoPostRepository) Update(ctx context.Context, id string, update model.PostUpdate) (model.Post, error) {
	if err := update.Validate(); err != nil {
		return model.Post{}, err
	}
	if update.IsEmpty() {
		return r.FindByID(ctx, id)
	}

	fields := bson.M{}
	if update.Title != nil {
		fields["title"] = *update.Title
	}
	if update.Content != nil {
		fields["content"] = *update.Content
	}
	if update.Author != nil {
		fields["author"] = *update.Author
	}

	post, err := r.repo.UpdateFields(ctx, id, fields)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Post{}, ErrPostNotFound
	}
	if err != nil {
		return model.Post{}, fmt.Errorf("update post %s: %w", id, err)
	}
	return post, nil
}

func (r *MongoPostRepository) Delete(ctx context.Context, id string) error {
	if err := r.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete post %s: %w", id, err)
	}
	return nil
}
