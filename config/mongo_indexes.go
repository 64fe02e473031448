package config

import (
	"context"
	"errors"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func MongoDBName() string {
	if name := os.Getenv("MONGO_DB"); name != "" {
		return name
	}
	return "resumatch"
}

func EnsureMongoIndexes() error {
	if MongoClient == nil {
		return errors.New("MongoClient is nil; call InitMongo() first")
	}
	db := MongoClient.Database(MongoDBName())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	contents := db.Collection("contents")
	_, err := contents.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("by_user_created"),
		},
		{
			Keys:    bson.D{{Key: "platform", Value: 1}},
			Options: options.Index().SetName("by_platform"),
		},
	})
	if err != nil {
		return err
	}

	runs := db.Collection("scrape_runs")
	_, err = runs.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_key", Value: 1}, {Key: "finished_at", Value: -1}},
			Options: options.Index().SetName("by_user_finished"),
		},
		// Runs are debugging history, not a system of record; expire
		// them after 30 days.
		{
			Keys: bson.D{{Key: "finished_at", Value: 1}},
			Options: options.Index().
				SetName("ttl_finished_at").
				SetExpireAfterSeconds(30 * 24 * 3600),
		},
	})
	return err
}
