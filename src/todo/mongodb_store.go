package todo

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultMongoCollection = "todos"
	mongoCloseTimeout      = 5 * time.Second
)

// MongoStore keeps todos in a MongoDB collection.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	now        func() time.Time
}

type mongoTodoDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Completed bool               `bson:"completed"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// NewMongoStore prepares a client for uri. The driver dials lazily, so an
// unreachable server only surfaces on the first todo operation.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	if uri == "" {
		return nil, errors.New("mongo uri is required")
	}
	if database == "" {
		return nil, errors.New("mongo database name is required")
	}
	if collection == "" {
		collection = DefaultMongoCollection
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	return &MongoStore{
		client:     client,
		collection: client.Database(database).Collection(collection),
		now:        time.Now,
	}, nil
}

func (ms *MongoStore) Create(ctx context.Context, title string) (Todo, error) {
	if strings.TrimSpace(title) == "" {
		return Todo{}, ErrEmptyTitle
	}
	doc := mongoTodoDocument{
		ID:        primitive.NewObjectID(),
		Title:     title,
		CreatedAt: ms.now().UTC().Truncate(time.Millisecond),
	}
	if _, err := ms.collection.InsertOne(ctx, doc); err != nil {
		return Todo{}, err
	}
	return doc.toTodo(), nil
}

func (ms *MongoStore) Find(ctx context.Context, search string) ([]Todo, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := ms.collection.Find(ctx, titleFilter(search), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	todos := []Todo{}
	for cursor.Next(ctx) {
		var doc mongoTodoDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		todos = append(todos, doc.toTodo())
	}
	return todos, cursor.Err()
}

func (ms *MongoStore) DeleteByID(ctx context.Context, id string) (*Todo, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, ErrInvalidID
	}
	return ms.deleteOne(ctx, bson.M{"_id": oid}, options.FindOneAndDelete())
}

func (ms *MongoStore) DeleteByTitle(ctx context.Context, title string) (*Todo, error) {
	opts := options.FindOneAndDelete().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return ms.deleteOne(ctx, titleFilter(title), opts)
}

func (ms *MongoStore) deleteOne(ctx context.Context, filter bson.M, opts *options.FindOneAndDeleteOptions) (*Todo, error) {
	var doc mongoTodoDocument
	err := ms.collection.FindOneAndDelete(ctx, filter, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t := doc.toTodo()
	return &t, nil
}

// titleFilter matches title case-insensitively; the search text is quoted so it is taken literally.
func titleFilter(search string) bson.M {
	if search == "" {
		return bson.M{}
	}
	return bson.M{"title": primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}}
}

func (doc mongoTodoDocument) toTodo() Todo {
	return Todo{
		ID:        doc.ID.Hex(),
		Title:     doc.Title,
		Completed: doc.Completed,
		CreatedAt: doc.CreatedAt.UTC(),
	}
}

// Close releases the underlying MongoDB client.
func (ms *MongoStore) Close() error {
	if ms == nil || ms.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), mongoCloseTimeout)
	defer cancel()
	return ms.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
