package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpg "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	blogapi "github.com/klass-lk/blog-api"
	"github.com/klass-lk/blog-api/internal/model"
)

func TestAuthorDocument(t *testing.T) {
	author := authorDocument{FirstName: "Ada", LastName: "Lovelace"}

	value, err := author.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `{"firstName":"Ada","lastName":"Lovelace"}`, value.(string))

	var fromBytes authorDocument
	require.NoError(t, fromBytes.Scan([]byte(`{"firstName":"Grace","lastName":"Hopper"}`)))
	assert.Equal(t, authorDocument{FirstName: "Grace", LastName: "Hopper"}, fromBytes)

	var fromString authorDocument
	require.NoError(t, fromString.Scan(`{"firstName":"X"}`))
	assert.Equal(t, "X", fromString.FirstName)

	fromNil := authorDocument{FirstName: "stale"}
	require.NoError(t, fromNil.Scan(nil))
	assert.Equal(t, authorDocument{}, fromNil)

	assert.Error(t, new(authorDocument).Scan(42))
}

func TestSQLPostRepository(t *testing.T) {
	requireDocker(t)
	ctx := context.Background()

	pgContainer, err := tcpg.Run(ctx,
		"postgres:16-alpine",
		tcpg.WithDatabase("blog"),
		tcpg.WithUsername("postgres"),
		tcpg.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	defer func() {
		if err := pgContainer.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	}()

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	db, err := blogapi.NewSQLConfig().
		WithHost(host, port.Int()).
		WithCredentials("postgres", "password").
		WithDatabase("blog").
		Connect(ctx)
	require.NoError(t, err)
	defer db.Close()

	repo := NewSQLPostRepository(db)
	require.NoError(t, repo.CreateTable(ctx))
	require.NoError(t, repo.CreateTable(ctx), "CreateTable must be idempotent")

	reset := func(t *testing.T) {
		_, err := db.ExecContext(ctx, "DELETE FROM "+model.Post{}.GetCollectionName())
		require.NoError(t, err)
	}

	runPostStoreContract(t, repo, reset)
}
