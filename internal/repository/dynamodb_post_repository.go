package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	blogapi "github.com/klass-lk/blog-api"
	"github.com/klass-lk/blog-api/internal/model"
)

const dynamoTableWaitTimeout = 30 * time.Second

// DynamoDBPostRepository keeps one item per post in a table whose hash key
// is the string attribute "id".
type DynamoDBPostRepository struct {
	client    blogapi.DynamoDBAPI
	tableName string
}

// NewDynamoDBPostRepository returns a repository over cfg.TableName,
// creating the table first unless cfg.SkipTableCreation is set.
func NewDynamoDBPostRepository(ctx context.Context, client blogapi.DynamoDBAPI, cfg *blogapi.DynamoDBConfig) (*DynamoDBPostRepository, error) {
	repo := &DynamoDBPostRepository{
		client:    client,
		tableName: cfg.TableName,
	}
	if cfg.SkipTableCreation {
		return repo, nil
	}
	if err := repo.ensureTable(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *DynamoDBPostRepository) ensureTable(ctx context.Context) error {
	describeCtx, cancel := context.WithTimeout(ctx, blogapi.SingleDocumentTimeout)
	_, err := r.client.DescribeTable(describeCtx, &dynamodb.DescribeTableInput{
		TableName: aws.String(r.tableName),
	})
	cancel()
	if err == nil {
		return nil
	}
	var notFoundEx *types.ResourceNotFoundException
	if !errors.As(err, &notFoundEx) {
		return fmt.Errorf("describe table %s: %w", r.tableName, err)
	}

	log.Printf("DynamoDB table %s does not exist, creating it...", r.tableName)
	createCtx, cancel := context.WithTimeout(ctx, blogapi.SingleDocumentTimeout)
	defer cancel()
	_, err = r.client.CreateTable(createCtx, &dynamodb.CreateTableInput{
		TableName: aws.String(r.tableName),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		return fmt.Errorf("create table %s: %w", r.tableName, err)
	}

	waiter := dynamodb.NewTableExistsWaiter(r.client)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(r.tableName)}, dynamoTableWaitTimeout); err != nil {
		return fmt.Errorf("wait for table %s: %w", r.tableName, err)
	}
	log.Printf("DynamoDB table %s created successfully.", r.tableName)
	return nil
}

func (r *DynamoDBPostRepository) key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

func (r *DynamoDBPostRepository) List(ctx context.Context) ([]model.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, blogapi.ScanTimeout)
	defer cancel()

	posts := []model.Post{}
	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list posts: %w", err)
		}
		var batch []model.Post
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("decode posts: %w", err)
		}
		posts = append(posts, batch...)
	}
	return posts, nil
}

func (r *DynamoDBPostRepository) FindByID(ctx context.Context, id string) (model.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, blogapi.SingleDocumentTimeout)
	defer cancel()

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            r.key(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return model.Post{}, fmt.Errorf("find post %s: %w", id, err)
	}
	if out.Item == nil {
		return model.Post{}, ErrPostNotFound
	}

	var post model.Post
	if err := attributevalue.UnmarshalMap(out.Item, &post); err != nil {
		return model.Post{}, fmt.Errorf("decode post %s: %w", id, err)
	}
	return post, nil
}

func (r *DynamoDBPostRepository) Create(ctx context.Context, post model.Post) (model.Post, error) {
	post = post.WithDefaults(uuid.NewString(), time.Now())
	if err := post.Validate(); err != nil {
		return model.Post{}, err
	}

	item, err := attributevalue.MarshalMap(post)
	if err != nil {
		return model.Post{}, fmt.Errorf("encode post: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, blogapi.SingleDocumentTimeout)
	defer cancel()
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		return model.Post{}, fmt.Errorf("insert post: %w", err)
	}
	return post, nil
}

func (r *DynamoDBPostRepository) Update(ctx context.Context, id string, update model.PostUpdate) (model.Post, error) {
	if err := update.Validate(); err != nil {
		return model.Post{}, err
	}
	if update.IsEmpty() {
		return r.FindByID(ctx, id)
	}

	names := map[string]string{}
	values := map[string]types.AttributeValue{}
	var sets []string
	set := func(field string, value interface{}) error {
		av, err := attributevalue.Marshal(value)
		if err != nil {
			return err
		}
		names["#"+field] = field
		values[":"+field] = av
		sets = append(sets, fmt.Sprintf("#%s = :%s", field, field))
		return nil
	}

	if update.Title != nil {
		if err := set("title", *update.Title); err != nil {
			return model.Post{}, fmt.Errorf("encode title: %w", err)
		}
	}
	if update.Content != nil {
		if err := set("content", *update.Content); err != nil {
			return model.Post{}, fmt.Errorf("encode content: %w", err)
		}
	}
	if update.Author != nil {
		if err := set("author", *update.Author); err != nil {
			return model.Post{}, fmt.Errorf("encode author: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, blogapi.SingleDocumentTimeout)
	defer cancel()
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       r.key(id),
		UpdateExpression:          aws.String("SET " + strings.Join(sets, ", ")),
		ConditionExpression:       aws.String("attribute_exists(id)"),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return model.Post{}, ErrPostNotFound
		}
		return model.Post{}, fmt.Errorf("update post %s: %w", id, err)
	}

	var post model.Post
	if err := attributevalue.UnmarshalMap(out.Attributes, &post); err != nil {
		return model.Post{}, fmt.Errorf("decode post %s: %w", id, err)
	}
	return post, nil
}

func (r *DynamoDBPostRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, blogapi.SingleDocumentTimeout)
	defer cancel()

	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       r.key(id),
	})
	if err != nil {
		return fmt.Errorf("delete post %s: %w", id, err)
	}
	return nil
}
