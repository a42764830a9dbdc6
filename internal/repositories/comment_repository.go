package repositories

import (
	"context"

	"github.com/anonto42/story-creator/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	AddComment(ctx context.Context, comment *models.Comment) error
	GetCommentsByStoryID(ctx context.Context, storyID uint) ([]models.CommentWithAuthor, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// AddComment inserts the comment and bumps the story's comment counter in one
// transaction.
func (r *PostgresCommentRepository) AddComment(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return incrementCounter(tx, comment.StoryID, "comments")
	})
}

// GetCommentsByStoryID lists a story's comments, newest first.
func (r *PostgresCommentRepository) GetCommentsByStoryID(ctx context.Context, storyID uint) ([]models.CommentWithAuthor, error) {
	var comments []models.CommentWithAuthor
	err := r.db.WithContext(ctx).
		Table("comments AS c").
		Select("c.*, COALESCE(u.username, '') AS username").
		Joins("LEFT JOIN users u ON u.id = c.user_id").
		Where("c.story_id = ?", storyID).
		Order("c.created_at DESC").
		Scan(&comments).Error
	return comments, err
}

func (r *PostgresCommentRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
