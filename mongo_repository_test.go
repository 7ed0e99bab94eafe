package blogapi

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type TestDocument struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Age       int       `bson:"age"`
	CreatedAt time.Time `bson:"created_at"`
}

func (TestDocument) GetCollectionName() string {
	return "test_documents"
}

// setupTestContainer creates a MongoDB test container
func setupTestContainer(t *testing.T) (testcontainers.Container, *MongoConfig, error) {
	ctx := context.Background()

	mongoPort := "27017/tcp"
	natPort := nat.Port(mongoPort)

	req := testcontainers.ContainerRequest{
		Image:        "mongo:6",
		ExposedPorts: []string{mongoPort},
		WaitingFor: wait.ForAll(
			wait.ForLog("Waiting for connections"),
			wait.ForListeningPort(natPort),
		),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start container: %v", err)
	}

	mappedPort, err := container.MappedPort(ctx, natPort)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get container external port: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get container host: %v", err)
	}

	config := NewMongoConfig().
		WithHost(host, mappedPort.Int()).
		WithDatabase("test_db")

	return container, config, nil
}

func TestMongoRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping MongoDB integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	container, config, err := setupTestContainer(t)
	require.NoError(t, err)
	defer container.Terminate(context.Background())

	ctx := context.Background()
	db, err := config.Connect(ctx)
	require.NoError(t, err)
	defer db.Client().Disconnect(ctx)

	repo := NewMongoRepository[TestDocument](db)

	clear := func(t *testing.T) {
		_, err := db.Collection(TestDocument{}.GetCollectionName()).DeleteMany(ctx, bson.M{})
		require.NoError(t, err)
	}

	newDoc := func(name string, age int) TestDocument {
		return TestDocument{
			ID:        primitive.NewObjectID().Hex(),
			Name:      name,
			Age:       age,
			CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
		}
	}

	t.Run("Save and FindById", func(t *testing.T) {
		clear(t)
		doc := newDoc("Test User", 25)

		require.NoError(t, repo.Save(ctx, doc))

		found, err := repo.FindById(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, doc, found)
	})

	t.Run("FindById missing", func(t *testing.T) {
		clear(t)
		_, err := repo.FindById(ctx, "does-not-exist")
		assert.ErrorIs(t, err, mongo.ErrNoDocuments)
	})

	t.Run("Save duplicate id", func(t *testing.T) {
		clear(t)
		doc := newDoc("Dup", 1)
		require.NoError(t, repo.Save(ctx, doc))

		err := repo.Save(ctx, doc)
		assert.True(t, mongo.IsDuplicateKeyError(err))
	})

	t.Run("FindAll", func(t *testing.T) {
		clear(t)

		docs, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, docs)
		assert.Empty(t, docs)

		for i, name := range []string{"a", "b", "c"} {
			require.NoError(t, repo.Save(ctx, newDoc(name, i)))
		}

		docs, err = repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, docs, 3)
		sort.Slice(docs, func(i, j int) bool { return docs[i].Age < docs[j].Age })
		assert.Equal(t, "a", docs[0].Name)
		assert.Equal(t, "c", docs[2].Name)
	})

	t.Run("UpdateFields", func(t *testing.T) {
		clear(t)
		doc := newDoc("Before", 30)
		require.NoError(t, repo.Save(ctx, doc))

		updated, err := repo.UpdateFields(ctx, doc.ID, bson.M{"name": "After"})
		require.NoError(t, err)
		assert.Equal(t, "After", updated.Name)
		assert.Equal(t, 30, updated.Age)

		_, err = repo.UpdateFields(ctx, "does-not-exist", bson.M{"name": "x"})
		assert.ErrorIs(t, err, mongo.ErrNoDocuments)
	})

	t.Run("Delete", func(t *testing.T) {
		clear(t)
		doc := newDoc("Gone", 40)
		require.NoError(t, repo.Save(ctx, doc))

		require.NoError(t, repo.Delete(ctx, doc.ID))
		_, err := repo.FindById(ctx, doc.ID)
		assert.ErrorIs(t, err, mongo.ErrNoDocuments)

		assert.NoError(t, repo.Delete(ctx, doc.ID))
	})
}
