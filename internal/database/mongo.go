package database

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/aurelia-api/internal/config"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoStore is a Store backed by a MongoDB database.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
	log    *zerolog.Logger
}

// NewMongoStore creates a MongoDB client for cfg.Database.URL and selects
// cfg.Database.Name. The client connects lazily.
func NewMongoStore(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*MongoStore, error) {
	timeout := time.Duration(cfg.Database.ConnectTimeout) * time.Second

	opts := options.Client().
		ApplyURI(cfg.Database.URL).
		SetAppName(config.ServiceName).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)
	if cfg.Database.MaxConns > 0 {
		opts.SetMaxPoolSize(uint64(cfg.Database.MaxConns))
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	return &MongoStore{
		client: client,
		db:     client.Database(cfg.Database.Name),
		log:    logger,
	}, nil
}

func (s *MongoStore) Name() string {
	return s.db.Name()
}

func (s *MongoStore) InsertOne(ctx context.Context, collection string, doc Document) (string, error) {
	res, err := s.db.Collection(collection).InsertOne(ctx, bson.M(stamp(doc, time.Now().UTC())))
	if err != nil {
		return "", err
	}
	return idString(res.InsertedID), nil
}

func (s *MongoStore) Find(ctx context.Context, collection string, limit int64) ([]Document, error) {
	cursor, err := s.db.Collection(collection).Find(ctx, bson.D{}, options.Find().SetLimit(limit))
	if err != nil {
		return nil, err
	}

	var raw []bson.M
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(raw))
	for _, m := range raw {
		doc := Document(m)
		if id, ok := doc["_id"]; ok {
			doc["_id"] = idString(id)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *MongoStore) ListCollectionNames(ctx context.Context) ([]string, error) {
	return s.db.ListCollectionNames(ctx, bson.D{})
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close(ctx context.Context) error {
	s.log.Info().Msg("closing mongo client")
	return s.client.Disconnect(ctx)
}

// idString renders a Mongo id as a string; ObjectIDs use their hex form.
func idString(id any) string {
	switch v := id.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
