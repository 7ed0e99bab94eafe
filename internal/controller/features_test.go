package controller

import (
	"context"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/testcontainers/testcontainers-go"
	tcmongo "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"

	blogapi "github.com/klass-lk/blog-api"
	"github.com/klass-lk/blog-api/internal/middleware"
	"github.com/klass-lk/blog-api/internal/model"
	"github.com/klass-lk/blog-api/internal/repository"
	"github.com/klass-lk/blog-api/internal/service"
)

func TestFeatures(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping feature tests in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	mongoContainer, err := tcmongo.Run(ctx, "mongo:6")
	if err != nil {
		t.Fatalf("failed to start MongoDB container: %v", err)
	}
	defer func() {
		if err := mongoContainer.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate MongoDB container: %v", err)
		}
	}()

	uri, err := mongoContainer.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	db, err := blogapi.NewMongoConfig().WithURI(uri).WithDatabase("blog_features").Connect(ctx)
	if err != nil {
		t.Fatalf("failed to connect to MongoDB: %v", err)
	}
	defer db.Client().Disconnect(context.Background())

	gin.SetMode(gin.TestMode)
	postController := NewPostController(service.NewPostService(repository.NewMongoPostRepository(db)))
	server := blogapi.New().Use(middleware.RequestID())
	server.RegisterController("/posts", postController)

	suite := &blogapi.TestSuite{
		Router: server.Engine(),
		BeforeEach: func() error {
			_, err := db.Collection(model.Post{}.GetCollectionName()).DeleteMany(ctx, bson.M{})
			return err
		},
	}
	blogapi.RunFeatures(t, suite, "features")
}
