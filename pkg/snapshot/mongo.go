package snapshot

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfig configures a MongoDB-backed snapshot store.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// mongoRecord wraps the serialized snapshot with its key field.
type mongoRecord struct {
	SceneID string `bson:"scene_id"`
	Data    []byte `bson:"data"`
}

// MongoStore implements snapshot storage on MongoDB for the hosted
// platform. Records are upserted by scene ID.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	db := cfg.Database
	if db == "" {
		db = "loomcanvas"
	}
	coll := cfg.Collection
	if coll == "" {
		coll = "snapshots"
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(db).Collection(coll),
	}, nil
}

// Get retrieves a scene's record.
func (s *MongoStore) Get(ctx context.Context, sceneID string) ([]byte, bool, error) {
	var rec mongoRecord
	err := s.coll.FindOne(ctx, bson.M{"scene_id": sceneID}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return rec.Data, true, nil
}

// Set upserts a scene's record.
func (s *MongoStore) Set(ctx context.Context, sceneID string, data []byte) error {
	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"scene_id": sceneID},
		mongoRecord{SceneID: sceneID, Data: data},
		options.Replace().SetUpsert(true),
	)
	return err
}

// Delete removes a scene's record.
func (s *MongoStore) Delete(ctx context.Context, sceneID string) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"scene_id": sceneID})
	return err
}

// Close disconnects the underlying client.
func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
