package repository

import (
	"context"
	"testing"
	"time"

	"github.com/klass-lk/blog-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
)

// requireDocker skips integration tests in short mode or without a Docker
// daemon.
func requireDocker(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping container integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
}

func newTestPost(title string) model.Post {
	return model.Post{
		Title:   title,
		Content: "content of " + title,
		Author:  model.Author{FirstName: "Ada", LastName: "Lovelace"},
	}
}

func assertSamePost(t *testing.T, expected, actual model.Post) {
	t.Helper()
	assert.Equal(t, expected.ID, actual.ID)
	assert.Equal(t, expected.Title, actual.Title)
	assert.Equal(t, expected.Content, actual.Content)
	assert.Equal(t, expected.Author, actual.Author)
	assert.True(t, expected.Created.Equal(actual.Created), "created %s != %s", expected.Created, actual.Created)
}

// runPostStoreContract checks the behaviour every PostStore backend shares.
// reset must leave the store empty.
func runPostStoreContract(t *testing.T, store PostStore, reset func(t *testing.T)) {
	ctx := context.Background()

	t.Run("List empty", func(t *testing.T) {
		reset(t)
		posts, err := store.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, posts)
		assert.Empty(t, posts)
	})

	t.Run("Create assigns id and created", func(t *testing.T) {
		reset(t)
		before := time.Now().Add(-time.Second)

		created, err := store.Create(ctx, newTestPost("first"))
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.True(t, created.Created.After(before))
		assert.Equal(t, "first", created.Title)

		found, err := store.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assertSamePost(t, created, found)
	})

	t.Run("Create keeps supplied created", func(t *testing.T) {
		reset(t)
		post := newTestPost("dated")
		post.Created = time.Date(2021, time.June, 7, 8, 9, 10, 0, time.UTC)

		created, err := store.Create(ctx, post)
		require.NoError(t, err)

		found, err := store.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, post.Created.Equal(found.Created))
	})

	t.Run("Create ignores client id", func(t *testing.T) {
		reset(t)
		post := newTestPost("sneaky")
		post.ID = "client-chosen"

		created, err := store.Create(ctx, post)
		require.NoError(t, err)
		assert.NotEqual(t, "client-chosen", created.ID)
	})

	t.Run("Create allows empty content and author", func(t *testing.T) {
		reset(t)
		created, err := store.Create(ctx, model.Post{Title: "bare"})
		require.NoError(t, err)

		found, err := store.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "", found.Content)
		assert.Equal(t, model.Author{}, found.Author)
	})

	t.Run("Create rejects empty title", func(t *testing.T) {
		reset(t)
		_, err := store.Create(ctx, model.Post{Content: "no title"})

		var validationErr model.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "title", validationErr.Field)

		posts, err := store.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, posts)
	})

	t.Run("List returns every post", func(t *testing.T) {
		reset(t)
		ids := map[string]bool{}
		for _, title := range []string{"a", "b", "c"} {
			created, err := store.Create(ctx, newTestPost(title))
			require.NoError(t, err)
			ids[created.ID] = true
		}

		posts, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, posts, 3)
		for _, p := range posts {
			assert.True(t, ids[p.ID], "unexpected post %s", p.ID)
		}
	})

	t.Run("FindByID unknown", func(t *testing.T) {
		reset(t)
		_, err := store.FindByID(ctx, "does-not-exist")
		assert.ErrorIs(t, err, ErrPostNotFound)
	})

	t.Run("Update replaces supplied fields", func(t *testing.T) {
		reset(t)
		created, err := store.Create(ctx, newTestPost("old"))
		require.NoError(t, err)

		title := "new"
		author := model.Author{FirstName: "Grace", LastName: "Hopper"}
		updated, err := store.Update(ctx, created.ID, model.PostUpdate{Title: &title, Author: &author})
		require.NoError(t, err)
		assert.Equal(t, "new", updated.Title)
		assert.Equal(t, created.Content, updated.Content)
		assert.Equal(t, author, updated.Author)
		assert.True(t, created.Created.Equal(updated.Created))

		found, err := store.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assertSamePost(t, updated, found)
	})

	t.Run("Update with no fields returns post", func(t *testing.T) {
		reset(t)
		created, err := store.Create(ctx, newTestPost("same"))
		require.NoError(t, err)

		updated, err := store.Update(ctx, created.ID, model.PostUpdate{})
		require.NoError(t, err)
		assertSamePost(t, created, updated)
	})

	t.Run("Update rejects empty title", func(t *testing.T) {
		reset(t)
		created, err := store.Create(ctx, newTestPost("keep"))
		require.NoError(t, err)

		empty := ""
		_, err = store.Update(ctx, created.ID, model.PostUpdate{Title: &empty})
		var validationErr model.ValidationError
		require.ErrorAs(t, err, &validationErr)

		found, err := store.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "keep", found.Title)
	})

	t.Run("Update unknown", func(t *testing.T) {
		reset(t)
		title := "x"
		_, err := store.Update(ctx, "does-not-exist", model.PostUpdate{Title: &title})
		assert.ErrorIs(t, err, ErrPostNotFound)

		posts, err := store.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, posts)
	})

	t.Run("Delete", func(t *testing.T) {
		reset(t)
		keep, err := store.Create(ctx, newTestPost("keep"))
		require.NoError(t, err)
		gone, err := store.Create(ctx, newTestPost("gone"))
		require.NoError(t, err)

		require.NoError(t, store.Delete(ctx, gone.ID))

		_, err = store.FindByID(ctx, gone.ID)
		assert.ErrorIs(t, err, ErrPostNotFound)
		_, err = store.FindByID(ctx, keep.ID)
		assert.NoError(t, err)
	})

	t.Run("Delete unknown", func(t *testing.T) {
		reset(t)
		assert.NoError(t, store.Delete(ctx, "does-not-exist"))
	})

	t.Run("cancelled context fails", func(t *testing.T) {
		reset(t)
		stored, err := store.Create(ctx, newTestPost("stored"))
		require.NoError(t, err)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err = store.List(cancelled)
		assert.Error(t, err)

		_, err = store.FindByID(cancelled, stored.ID)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrPostNotFound)

		_, err = store.Create(cancelled, newTestPost("never stored"))
		assert.Error(t, err)

		posts, err := store.List(ctx)
		require.NoError(t, err)
		assert.Len(t, posts, 1)
	})
}
