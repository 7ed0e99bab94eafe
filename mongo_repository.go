package blogapi

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepository stores documents of type T keyed by a string _id.
// Lookups that match nothing return mongo.ErrNoDocuments.
type MongoRepository[T Document] struct {
	collection *mongo.Collection
}

func NewMongoRepository[T Document](db *mongo.Database) *MongoRepository[T] {
	var doc T
	return &MongoRepository[T]{
		collection: db.Collection(doc.GetCollectionName()),
	}
}

func (r *MongoRepository[T]) FindById(ctx context.Context, id string) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, SingleDocumentTimeout)
	defer cancel()

	var result T
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&result)
	return result, err
}

func (r *MongoRepository[T]) FindAll(ctx context.Context) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, ScanTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	results := []T{}
	if err = cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *MongoRepository[T]) Save(ctx context.Context, doc T) error {
	ctx, cancel := context.WithTimeout(ctx, SingleDocumentTimeout)
	defer cancel()
	_, err := r.collection.InsertOne(ctx, doc)
	return err
}

// UpdateFields applies a $set of fields to the document with the given id
// and returns the document as it is after the update.
func (r *MongoRepository[T]) UpdateFields(ctx context.Context, id string, fields bson.M) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, SingleDocumentTimeout)
	defer cancel()

	var result T
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(&result)
	return result, err
}

// Delete removes the document with the given id. Deleting a missing id is
// not an error.
func (r *MongoRepository[T]) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, SingleDocumentTimeout)
	defer cancel()
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
