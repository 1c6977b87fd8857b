package database

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"crud-benchmark/internal/config"
	"crud-benchmark/internal/dataset"
)

// MongoAdapter is the document-store backend. Records live in the "records"
// collection with the sequence number as _id.
type MongoAdapter struct {
	client     *mongo.Client
	collection *mongo.Collection
}

type mongoRecord struct {
	Seq      int64   `bson:"_id"`
	Name     string  `bson:"name"`
	Price    float64 `bson:"price"`
	Quantity int     `bson:"quantity"`
}

func (a *MongoAdapter) Name() string { return "mongo" }

func (a *MongoAdapter) Connect(ctx context.Context, cfg config.Config) error {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return fmt.Errorf("mongo: connect %s: %w", cfg.Mongo.URI, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return fmt.Errorf("mongo: ping %s: %w", cfg.Mongo.URI, err)
	}
	a.client = client
	a.collection = client.Database(cfg.Mongo.Database).Collection("records")
	return nil
}

func (a *MongoAdapter) Close() error {
	return a.client.Disconnect(context.Background())
}

// Reset drops only the benchmark's records collection.
func (a *MongoAdapter) Reset(ctx context.Context) error {
	if err := a.collection.Drop(ctx); err != nil {
		return fmt.Errorf("mongo: reset: %w", err)
	}
	return nil
}

func (a *MongoAdapter) Create(ctx context.Context, rec dataset.Record) (int64, error) {
	doc := mongoRecord{Seq: rec.Seq, Name: rec.Name, Price: rec.Price, Quantity: rec.Quantity}
	_, err := a.collection.ReplaceOne(ctx,
		bson.M{"_id": rec.Seq}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return 0, fmt.Errorf("mongo: create record %d: %w", rec.Seq, err)
	}
	return rec.Seq, nil
}

func (a *MongoAdapter) Read(ctx context.Context, seq int64) (dataset.Record, error) {
	var doc mongoRecord
	err := a.collection.FindOne(ctx, bson.M{"_id": seq}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return dataset.Record{}, fmt.Errorf("mongo: read record %d: %w", seq, ErrNotFound)
	}
	if err != nil {
		return dataset.Record{}, fmt.Errorf("mongo: read record %d: %w", seq, err)
	}
	return dataset.Record{Seq: doc.Seq, Name: doc.Name, Price: doc.Price, Quantity: doc.Quantity}, nil
}

func (a *MongoAdapter) Update(ctx context.Context, seq int64, patch dataset.Patch) error {
	res, err := a.collection.UpdateOne(ctx, bson.M{"_id": seq},
		bson.M{"$set": bson.M{"name": patch.Name, "price": patch.Price, "quantity": patch.Quantity}})
	if err != nil {
		return fmt.Errorf("mongo: update record %d: %w", seq, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("mongo: update record %d: %w", seq, ErrNotFound)
	}
	return nil
}

func (a *MongoAdapter) Delete(ctx context.Context, seq int64) error {
	res, err := a.collection.DeleteOne(ctx, bson.M{"_id": seq})
	if err != nil {
		return fmt.Errorf("mongo: delete record %d: %w", seq, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("mongo: delete record %d: %w", seq, ErrNotFound)
	}
	return nil
}
