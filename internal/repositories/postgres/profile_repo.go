package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/resumatch/resumatch/internal/models"
)

type ProfileRepository interface {
	Upsert(ctx context.Context, p *models.Profile) error
	GetByUser(ctx context.Context, userID string) (*models.Profile, error)
}

type profileRepo struct {
	db *gorm.DB
}

func NewProfileRepo(db *gorm.DB) ProfileRepository {
	return &profileRepo{db: db}
}

// Upsert replaces the whole profile row; each fresh extraction
// supersedes the previous one.
func (r *profileRepo) Upsert(ctx context.Context, p *models.Profile) error {
	p.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(p).Error
}

func (r *profileRepo) GetByUser(ctx context.Context, userID string) (*models.Profile, error) {
	var p models.Profile
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Take(&p).Error
	return &p, err
}
