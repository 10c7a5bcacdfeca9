package storage

import (
	"context"
	"time"

	"github.com/pagebin/pagebin/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements PageStore using MongoDB
type MongoStore struct {
	client     *mongo.Client
	database   *mongo.Database
	collection *mongo.Collection
}

// NewMongoStore creates a new MongoDB storage backend
func NewMongoStore(url, dbName, collName string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(url))
	if err != nil {
		return nil, err
	}

	// Test the connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	database := client.Database(dbName)
	collection := database.Collection(collName)

	store := &MongoStore{
		client:     client,
		database:   database,
		collection: collection,
	}

	if err := store.createIndexes(); err != nil {
		return nil, err
	}

	return store, nil
}

// createIndexes creates necessary indexes for the collection
func (m *MongoStore) createIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Index on expires_at for the sweep's range query. No TTL index: deletion
	// must run through the expiry engine so asset files are removed with the
	// record.
	expiresAtIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "expires_at", Value: 1}},
	}

	createdAtIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		expiresAtIndex,
		createdAtIndex,
	})

	return err
}

// Insert saves a page to MongoDB
func (m *MongoStore) Insert(page *models.Page) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := m.collection.InsertOne(ctx, page)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateSlug
	}
	return err
}

// Get retrieves a page by its slug. Expired pages are returned as-is; the
// expiry engine decides what to do with them.
func (m *MongoStore) Get(slug string) (*models.Page, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var page models.Page
	err := m.collection.FindOne(ctx, bson.M{"_id": slug}).Decode(&page)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // Not found
		}
		return nil, err
	}

	return &page, nil
}

// Exists checks if a page exists by its slug
func (m *MongoStore) Exists(slug string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := m.collection.CountDocuments(ctx, bson.M{"_id": slug})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Delete removes a page from MongoDB. Deleting an absent slug is a no-op.
func (m *MongoStore) Delete(slug string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := m.collection.DeleteOne(ctx, bson.M{"_id": slug})
	return err
}

// FindExpired returns all pages with expires_at <= before
func (m *MongoStore) FindExpired(before time.Time) ([]*models.Page, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cursor, err := m.collection.Find(ctx, bson.M{"expires_at": bson.M{"$lte": before}})
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	var pages []*models.Page
	if err := cursor.All(ctx, &pages); err != nil {
		return nil, err
	}
	return pages, nil
}

// DeleteMany removes exactly the given slugs
func (m *MongoStore) DeleteMany(slugs []string) error {
	if len(slugs) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := m.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": slugs}})
	return err
}

// Close closes the MongoDB connection
func (m *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return m.client.Disconnect(ctx)
}
