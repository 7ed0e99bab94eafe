package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	blogapi "github.com/klass-lk/blog-api"
	"github.com/klass-lk/blog-api/internal/model"
	"github.com/klass-lk/blog-api/internal/repository"
)

type PostService struct {
	postStore repository.PostStore
}

func NewPostService(postStore repository.PostStore) *PostService {
	return &PostService{
		postStore: postStore,
	}
}

func (s *PostService) GetPosts(ctx context.Context) ([]model.Post, error) {
	posts, err := s.postStore.List(ctx)
	if err != nil {
		return nil, translate(err, "")
	}
	return posts, nil
}

func (s *PostService) GetPostById(ctx context.Context, id string) (model.Post, error) {
	post, err := s.postStore.FindByID(ctx, id)
	if err != nil {
		return model.Post{}, translate(err, id)
	}
	return post, nil
}

func (s *PostService) CreatePost(ctx context.Context, post model.Post) (model.Post, error) {
	created, err := s.postStore.Create(ctx, post)
	if err != nil {
		return model.Post{}, translate(err, "")
	}
	log.Printf("Created post `%s`", created.ID)
	return created, nil
}

func (s *PostService) UpdatePost(ctx context.Context, id string, update model.PostUpdate) (model.Post, error) {
	log.Printf("Updating post `%s`", id)
	post, err := s.postStore.Update(ctx, id, update)
	if err != nil {
		return model.Post{}, translate(err, id)
	}
	return post, nil
}

// DeletePost removes the post. An unknown id is not an error.
func (s *PostService) DeletePost(ctx context.Context, id string) error {
	if err := s.postStore.Delete(ctx, id); err != nil {
		return translate(err, id)
	}
	log.Printf("Deleted post `%s`", id)
	return nil
}

// translate maps store errors onto API errors. Unknown errors are returned
// wrapped so the handler reports them as internal failures.
func translate(err error, id string) error {
	var validationErr model.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return blogapi.ErrValidationFailed.New(validationErr.Error())
	case errors.Is(err, repository.ErrPostNotFound):
		return blogapi.ErrNotFound.New(fmt.Sprintf("Post `%s`", id))
	default:
		return fmt.Errorf("post store: %w", err)
	}
}
