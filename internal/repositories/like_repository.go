package repositories

import (
	"context"

	"github.com/anonto42/story-creator/backend/internal/models"
	"gorm.io/gorm"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	LikeStory(ctx context.Context, storyID, userID uint) error
	HasUserLikedStory(ctx context.Context, storyID, userID uint) (bool, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

// LikeStory inserts the like and bumps the story counter atomically. The
// unique (user_id, story_id) index turns a second like into ErrAlreadyLiked.
func (r *PostgresLikeRepository) LikeStory(ctx context.Context, storyID, userID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&models.Like{StoryID: storyID, UserID: userID}).Error; err != nil {
			return translate(err, models.ErrAlreadyLiked)
		}
		return incrementCounter(tx, storyID, "likes")
	})
}

// HasUserLikedStory checks if a user has liked a specific story
func (r *PostgresLikeRepository) HasUserLikedStory(ctx context.Context, storyID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("story_id = ? AND user_id = ?", storyID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresLikeRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// incrementCounter adds one to a story counter column. A missing story rolls
// the surrounding transaction back with ErrStoryNotFound.
func incrementCounter(tx *gorm.DB, storyID uint, column string) error {
	res := tx.Model(&models.Story{}).
		Where("id = ?", storyID).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrStoryNotFound
	}
	return nil
}
