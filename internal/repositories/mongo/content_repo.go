package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/resumatch/resumatch/internal/models"
	"github.com/resumatch/resumatch/internal/utils"
)

type ContentRepository interface {
	Create(ctx context.Context, c *models.GeneratedContent) error
	GetByID(ctx context.Context, id string) (*models.GeneratedContent, error)
	ListByUser(ctx context.Context, userID string, limit int64) ([]models.GeneratedContent, error)
	SetStatus(ctx context.Context, id string, status models.ContentStatus) error
}

type contentRepo struct {
	col *mongo.Collection
}

func NewContentRepo(db *mongo.Database) ContentRepository {
	return &contentRepo{col: db.Collection("contents")}
}

func (r *contentRepo) Create(ctx context.Context, c *models.GeneratedContent) error {
	if c.ID == "" {
		c.ID = primitive.NewObjectID().Hex()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, c)
	return err
}

func (r *contentRepo) GetByID(ctx context.Context, id string) (*models.GeneratedContent, error) {
	var c models.GeneratedContent
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	return &c, err
}

func (r *contentRepo) ListByUser(ctx context.Context, userID string, limit int64) ([]models.GeneratedContent, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.GeneratedContent
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *contentRepo) SetStatus(ctx context.Context, id string, status models.ContentStatus) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}
