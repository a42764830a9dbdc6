package repositories

import (
	"context"

	"github.com/anonto42/story-creator/backend/internal/models"
	"gorm.io/gorm"
)

// EngagementRepository records shares and views.
type EngagementRepository interface {
	ShareStory(ctx context.Context, share *models.Share) error
	TrackView(ctx context.Context, view *models.View) error
	ActivityCounts(ctx context.Context, userID uint) (*models.ActivityCounts, error)
}

type PostgresEngagementRepository struct {
	db *gorm.DB
}

func NewPostgresEngagementRepository(db *gorm.DB) *PostgresEngagementRepository {
	return &PostgresEngagementRepository{db: db}
}

func (r *PostgresEngagementRepository) ShareStory(ctx context.Context, share *models.Share) error {
	if share.Platform == "" {
		share.Platform = "other"
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(share).Error; err != nil {
			return err
		}
		return incrementCounter(tx, share.StoryID, "shares")
	})
}

// TrackView is the only path that counts a view.
func (r *PostgresEngagementRepository) TrackView(ctx context.Context, view *models.View) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(view).Error; err != nil {
			return err
		}
		return incrementCounter(tx, view.StoryID, "views")
	})
}

// ActivityCounts counts the engagement actions a user performed.
func (r *PostgresEngagementRepository) ActivityCounts(ctx context.Context, userID uint) (*models.ActivityCounts, error) {
	var counts models.ActivityCounts
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			(SELECT COUNT(*) FROM likes WHERE user_id = @uid) AS likes_given,
			(SELECT COUNT(*) FROM shares WHERE user_id = @uid) AS shares_made,
			(SELECT COUNT(*) FROM comments WHERE user_id = @uid) AS comments_made,
			(SELECT COUNT(*) FROM views WHERE user_id = @uid) AS views_made`,
		map[string]interface{}{"uid": userID},
	).Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return &counts, nil
}
