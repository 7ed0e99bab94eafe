// Package repositorytest provides test doubles for the repository package.
package repositorytest

import (
	"context"

	"github.com/klass-lk/blog-api/internal/model"
	"github.com/stretchr/testify/mock"
)

// MockPostStore is a testify mock of repository.PostStore.
type MockPostStore struct {
	mock.Mock
}

func (m *MockPostStore) List(ctx context.Context) ([]model.Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Post), args.Error(1)
}

func (m *MockPostStore) FindByID(ctx context.Context, id string) (model.Post, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Post), args.Error(1)
}

func (m *MockPostStore) Create(ctx context.Context, post model.Post) (model.Post, error) {
	args := m.Called(ctx, post)
	return args.Get(0).(model.Post), args.Error(1)
}

func (m *MockPostStore) Update(ctx context.Context, id string, update model.PostUpdate) (model.Post, error) {
	args := m.Called(ctx, id, update)
	return args.Get(0).(model.Post), args.Error(1)
}

func (m *MockPostStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
