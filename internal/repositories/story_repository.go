package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/anonto42/story-creator/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StoryRepository defines the interface for story operations. Methods taking
// an authorID only touch rows owned by that author.
type StoryRepository interface {
	CreateStory(ctx context.Context, story *models.Story) error
	UpdateStory(ctx context.Context, story *models.Story, authorID uint) error
	DeleteStory(ctx context.Context, id, authorID uint) (*models.Story, error)
	DeleteStoryAsAdmin(ctx context.Context, id uint) (*models.Story, error)
	GetStoryByID(ctx context.Context, id uint) (*models.StoryWithAuthor, error)
	GetOwnedStory(ctx context.Context, id, authorID uint) (*models.Story, error)
	Browse(ctx context.Context, filter models.StoryFilter) ([]models.StoryWithAuthor, int64, error)
	ListByAuthor(ctx context.Context, authorID uint, limit int) ([]models.Story, error)
	ListPublished(ctx context.Context) ([]models.StoryWithAuthor, error)
	ListRecent(ctx context.Context, limit int) ([]models.StoryWithAuthor, error)
	ListForExport(ctx context.Context, limit int) ([]models.Story, error)
	TitlesByIDs(ctx context.Context, ids []uint) (map[uint]string, error)
	PublishDue(ctx context.Context, now time.Time) (int64, error)
}

// PostgresStoryRepository implements StoryRepository for PostgreSQL
type PostgresStoryRepository struct {
	db *gorm.DB
}

// NewPostgresStoryRepository creates a new PostgresStoryRepository
func NewPostgresStoryRepository(db *gorm.DB) *PostgresStoryRepository {
	return &PostgresStoryRepository{db: db}
}

const storyWithAuthorColumns = "s.*, u.username AS author_name, u.profile_pic AS author_profile_pic"

func (r *PostgresStoryRepository) withAuthor(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("stories AS s").
		Joins("JOIN users u ON u.id = s.author_id")
}

func (r *PostgresStoryRepository) CreateStory(ctx context.Context, story *models.Story) error {
	return r.db.WithContext(ctx).Create(story).Error
}

// UpdateStory writes the editable columns of story when authorID owns it.
// A nil FeaturedImage clears the column.
func (r *PostgresStoryRepository) UpdateStory(ctx context.Context, story *models.Story, authorID uint) error {
	updates := map[string]interface{}{
		"title":          story.Title,
		"content":        story.Content,
		"status":         story.Status,
		"category":       story.Category,
		"category_id":    story.CategoryID,
		"tags":           story.Tags,
		"publish_date":   story.PublishDate,
		"featured_image": story.FeaturedImage,
		"updated_at":     time.Now(),
	}
	res := r.db.WithContext(ctx).Model(&models.Story{}).
		Where("id = ? AND author_id = ?", story.ID, authorID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrStoryNotFound
	}
	return nil
}

// DeleteStory deletes an owned story and returns the deleted row.
func (r *PostgresStoryRepository) DeleteStory(ctx context.Context, id, authorID uint) (*models.Story, error) {
	return r.deleteReturning(ctx, r.db.Where("id = ? AND author_id = ?", id, authorID))
}

func (r *PostgresStoryRepository) DeleteStoryAsAdmin(ctx context.Context, id uint) (*models.Story, error) {
	return r.deleteReturning(ctx, r.db.Where("id = ?", id))
}

func (r *PostgresStoryRepository) deleteReturning(ctx context.Context, scope *gorm.DB) (*models.Story, error) {
	var deleted []models.Story
	res := scope.WithContext(ctx).Clauses(clause.Returning{}).Delete(&deleted)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 || len(deleted) == 0 {
		return nil, models.ErrStoryNotFound
	}
	return &deleted[0], nil
}

func (r *PostgresStoryRepository) GetStoryByID(ctx context.Context, id uint) (*models.StoryWithAuthor, error) {
	var story models.StoryWithAuthor
	res := r.withAuthor(ctx).Select(storyWithAuthorColumns).Where("s.id = ?", id).Limit(1).Scan(&story)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, models.ErrStoryNotFound
	}
	return &story, nil
}

func (r *PostgresStoryRepository) GetOwnedStory(ctx context.Context, id, authorID uint) (*models.Story, error) {
	var story models.Story
	err := r.db.WithContext(ctx).Where("id = ? AND author_id = ?", id, authorID).First(&story).Error
	if err != nil {
		if err = translate(err, nil); err == models.ErrNotFound {
			return nil, models.ErrStoryNotFound
		}
		return nil, err
	}
	return &story, nil
}

// Browse lists stories visible to the viewer described by filter, newest first.
//
//	reader: published stories only
//	author: own stories of any status, or published stories of others; the
//	        status filter narrows own stories only
//	admin:  every story, optional status filter
func (r *PostgresStoryRepository) Browse(ctx context.Context, filter models.StoryFilter) ([]models.StoryWithAuthor, int64, error) {
	q := r.withAuthor(ctx)

	switch filter.Role {
	case models.RoleAdmin:
		if filter.Status != "" {
			q = q.Where("s.status = ?", filter.Status)
		}
	case models.RoleAuthor:
		q = q.Where("(s.author_id = ? OR s.status = ?)", filter.ViewerID, models.StoryPublished)
		if filter.Status != "" {
			q = q.Where("s.author_id = ? AND s.status = ?", filter.ViewerID, filter.Status)
		}
	default:
		q = q.Where("s.status = ?", models.StoryPublished)
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		q = q.Where("(s.title ILIKE ? OR s.content ILIKE ? OR u.username ILIKE ?)", pattern, pattern, pattern)
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		q = q.Where("s.category = ?", category)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var stories []models.StoryWithAuthor
	err := q.Select(storyWithAuthorColumns).
		Order("s.created_at DESC").
		Limit(filter.PerPage).
		Offset(filter.Offset()).
		Scan(&stories).Error
	if err != nil {
		return nil, 0, err
	}
	return stories, total, nil
}

func (r *PostgresStoryRepository) ListByAuthor(ctx context.Context, authorID uint, limit int) ([]models.Story, error) {
	var stories []models.Story
	q := r.db.WithContext(ctx).Where("author_id = ?", authorID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&stories).Error; err != nil {
		return nil, err
	}
	return stories, nil
}

// ListPublished returns every published story, latest publish date first.
func (r *PostgresStoryRepository) ListPublished(ctx context.Context) ([]models.StoryWithAuthor, error) {
	var stories []models.StoryWithAuthor
	err := r.withAuthor(ctx).Select(storyWithAuthorColumns).
		Where("s.status = ?", models.StoryPublished).
		Order("s.publish_date DESC NULLS LAST").
		Scan(&stories).Error
	return stories, err
}

func (r *PostgresStoryRepository) ListRecent(ctx context.Context, limit int) ([]models.StoryWithAuthor, error) {
	var stories []models.StoryWithAuthor
	err := r.withAuthor(ctx).Select(storyWithAuthorColumns).
		Order("s.created_at DESC").
		Limit(limit).
		Scan(&stories).Error
	return stories, err
}

func (r *PostgresStoryRepository) ListForExport(ctx context.Context, limit int) ([]models.Story, error) {
	var stories []models.Story
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&stories).Error; err != nil {
		return nil, err
	}
	return stories, nil
}

func (r *PostgresStoryRepository) TitlesByIDs(ctx context.Context, ids []uint) (map[uint]string, error) {
	titles := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return titles, nil
	}
	var rows []struct {
		ID    uint
		Title string
	}
	if err := r.db.WithContext(ctx).Model(&models.Story{}).Select("id, title").Where("id IN ?", ids).Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		titles[row.ID] = row.Title
	}
	return titles, nil
}

// PublishDue publishes every scheduled story whose publish date has passed.
func (r *PostgresStoryRepository) PublishDue(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Story{}).
		Where("status = ? AND publish_date IS NOT NULL AND publish_date <= ?", models.StoryScheduled, now).
		Updates(map[string]interface{}{"status": models.StoryPublished, "updated_at": now})
	return res.RowsAffected, res.Error
}
