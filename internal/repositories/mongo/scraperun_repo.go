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

type ScrapeRunRepository interface {
	Create(ctx context.Context, run *models.ScrapeRun) error
	LatestByUser(ctx context.Context, userKey string) (*models.ScrapeRun, error)
	ListByUser(ctx context.Context, userKey string, limit int64) ([]models.ScrapeRun, error)
}

type scrapeRunRepo struct {
	col *mongo.Collection
}

func NewScrapeRunRepo(db *mongo.Database) ScrapeRunRepository {
	return &scrapeRunRepo{col: db.Collection("scrape_runs")}
}

func (r *scrapeRunRepo) Create(ctx context.Context, run *models.ScrapeRun) error {
	if run.ID == "" {
		run.ID = primitive.NewObjectID().Hex()
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, run)
	return err
}

func (r *scrapeRunRepo) LatestByUser(ctx context.Context, userKey string) (*models.ScrapeRun, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "finished_at", Value: -1}})
	var run models.ScrapeRun
	err := r.col.FindOne(ctx, bson.M{"user_key": userKey}, opts).Decode(&run)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	return &run, err
}

func (r *scrapeRunRepo) ListByUser(ctx context.Context, userKey string, limit int64) ([]models.ScrapeRun, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "finished_at", Value: -1}}).
		SetLimit(limit)
	cur, err := r.col.Find(ctx, bson.M{"user_key": userKey}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ScrapeRun
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
