package repository

import (
	"context"
	"errors"

	"github.com/klass-lk/blog-api/internal/model"
)

var ErrPostNotFound = errors.New("post not found")

// PostStore is the persistence contract shared by every backend.
//
// Create and Update return model.ValidationError when the result would
// break a post invariant. FindByID and Update return ErrPostNotFound for an
// unknown id. Delete of an unknown id succeeds.
type PostStore interface {
	List(ctx context.Context) ([]model.Post, error)
	FindByID(ctx context.Context, id string) (model.Post, error)
	Create(ctx context.Context, post model.Post) (model.Post, error)
	Update(ctx context.Context, id string, update model.PostUpdate) (model.Post, error)
	Delete(ctx context.Context, id string) error
}
