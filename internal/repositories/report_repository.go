package repositories

import (
	"context"
	"time"

	"github.com/anonto42/story-creator/backend/internal/models"
	"gorm.io/gorm"
)

// ReportRepository runs the aggregate queries behind the dashboards.
type ReportRepository interface {
	EngagementTotals(ctx context.Context, authorID uint) (*models.EngagementTotals, error)
	StatusCounts(ctx context.Context, authorID uint) (*models.StatusCounts, error)
	TopStories(ctx context.Context, limit int) ([]models.TopStory, error)
	TopStoriesByAuthor(ctx context.Context, authorID uint, limit int) ([]models.Story, error)
	AuthorPerformance(ctx context.Context, limit int) ([]models.AuthorPerformance, error)
	CategoryDistribution(ctx context.Context, authorID uint) ([]models.LabelCount, error)
	GenderDistribution(ctx context.Context) ([]models.LabelCount, error)
	TopCountries(ctx context.Context, limit int) ([]models.LabelCount, error)
	DailyTraffic(ctx context.Context, since time.Time) ([]models.DailyTraffic, error)
	RecentUsers(ctx context.Context, limit int) ([]models.User, error)
	ReaderStats(ctx context.Context, userID uint) (*models.ReaderStats, error)
}

type PostgresReportRepository struct {
	db *gorm.DB
}

func NewPostgresReportRepository(db *gorm.DB) *PostgresReportRepository {
	return &PostgresReportRepository{db: db}
}

// byAuthor scopes a stories query to one author; zero means all authors.
func byAuthor(authorID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if authorID == 0 {
			return db
		}
		return db.Where("author_id = ?", authorID)
	}
}

// EngagementTotals sums the story counters, for one author or all (authorID 0).
func (r *PostgresReportRepository) EngagementTotals(ctx context.Context, authorID uint) (*models.EngagementTotals, error) {
	var totals models.EngagementTotals
	err := r.db.WithContext(ctx).Model(&models.Story{}).
		Scopes(byAuthor(authorID)).
		Select(`COALESCE(SUM(views), 0) AS total_views,
			COALESCE(SUM(likes), 0) AS total_likes,
			COALESCE(SUM(comments), 0) AS total_comments,
			COALESCE(SUM(shares), 0) AS total_shares`).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

func (r *PostgresReportRepository) StatusCounts(ctx context.Context, authorID uint) (*models.StatusCounts, error) {
	var counts models.StatusCounts
	err := r.db.WithContext(ctx).Model(&models.Story{}).
		Scopes(byAuthor(authorID)).
		Select(`COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'published') AS published,
			COUNT(*) FILTER (WHERE status = 'scheduled') AS scheduled,
			COUNT(*) FILTER (WHERE status = 'draft') AS draft`).
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return &counts, nil
}

// TopStories ranks all stories by views and attaches their engagement rate.
func (r *PostgresReportRepository) TopStories(ctx context.Context, limit int) ([]models.TopStory, error) {
	var stories []models.TopStory
	err := r.db.WithContext(ctx).
		Table("stories AS s").
		Select("s.id, s.title, u.username AS author, s.views, s.likes, s.comments").
		Joins("JOIN users u ON u.id = s.author_id").
		Order("s.views DESC, s.id ASC").
		Limit(limit).
		Scan(&stories).Error
	if err != nil {
		return nil, err
	}
	for i := range stories {
		stories[i].Engagement = models.EngagementRate(stories[i].Likes, stories[i].Comments, stories[i].Views)
	}
	return stories, nil
}

func (r *PostgresReportRepository) TopStoriesByAuthor(ctx context.Context, authorID uint, limit int) ([]models.Story, error) {
	var stories []models.Story
	err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("views DESC, likes DESC, comments DESC").
		Limit(limit).
		Find(&stories).Error
	return stories, err
}

// AuthorPerformance ranks authors by average views per story.
func (r *PostgresReportRepository) AuthorPerformance(ctx context.Context, limit int) ([]models.AuthorPerformance, error) {
	var rows []models.AuthorPerformance
	err := r.db.WithContext(ctx).Raw(`
		SELECT u.username AS name,
		       u.profile_pic,
		       COUNT(s.id) AS stories,
		       ROUND(AVG(s.views)::numeric, 2)::float8 AS avg_views,
		       ROUND(AVG((s.likes + s.comments)::numeric / GREATEST(s.views, 1)) * 100, 2)::float8 AS avg_engagement
		FROM users u
		JOIN stories s ON s.author_id = u.id
		WHERE u.role = 'author'
		   OR EXISTS (SELECT 1 FROM user_roles ur WHERE ur.user_id = u.id AND ur.role = 'author')
		GROUP BY u.id, u.username, u.profile_pic
		ORDER BY avg_views DESC
		LIMIT ?`, limit).Scan(&rows).Error
	return rows, err
}

// CategoryDistribution counts stories per category text, for one author or all.
func (r *PostgresReportRepository) CategoryDistribution(ctx context.Context, authorID uint) ([]models.LabelCount, error) {
	var rows []models.LabelCount
	err := r.db.WithContext(ctx).Model(&models.Story{}).
		Scopes(byAuthor(authorID)).
		Select("category AS label, COUNT(*) AS count").
		Where("category IS NOT NULL AND category <> ''").
		Group("category").
		Order("count DESC, category ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *PostgresReportRepository) GenderDistribution(ctx context.Context) ([]models.LabelCount, error) {
	var rows []models.LabelCount
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Select("gender AS label, COUNT(*) AS count").
		Where("gender IS NOT NULL AND gender <> ''").
		Group("gender").
		Order("count DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *PostgresReportRepository) TopCountries(ctx context.Context, limit int) ([]models.LabelCount, error) {
	var rows []models.LabelCount
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Select("country AS label, COUNT(*) AS count").
		Where("country IS NOT NULL AND country <> ''").
		Group("country").
		Order("count DESC, country ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// DailyTraffic sums counters of stories grouped by the day they were last updated.
func (r *PostgresReportRepository) DailyTraffic(ctx context.Context, since time.Time) ([]models.DailyTraffic, error) {
	var rows []models.DailyTraffic
	err := r.db.WithContext(ctx).Model(&models.Story{}).
		Select(`DATE(updated_at) AS date,
			COALESCE(SUM(views), 0) AS views,
			COALESCE(SUM(likes), 0) AS likes,
			COALESCE(SUM(comments), 0) AS comments`).
		Where("updated_at >= ?", since).
		Group("DATE(updated_at)").
		Order("date").
		Scan(&rows).Error
	return rows, err
}

func (r *PostgresReportRepository) RecentUsers(ctx context.Context, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Preload("Roles").Order("created_at DESC").Limit(limit).Find(&users).Error
	return users, err
}

// ReaderStats counts a reader's likes and comments; stories_read is the sum of
// distinct stories liked and distinct stories commented on.
func (r *PostgresReportRepository) ReaderStats(ctx context.Context, userID uint) (*models.ReaderStats, error) {
	var stats models.ReaderStats
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			(SELECT COUNT(*) FROM likes WHERE user_id = @uid) AS likes_given,
			(SELECT COUNT(*) FROM comments WHERE user_id = @uid) AS comments_count,
			(SELECT COUNT(DISTINCT story_id) FROM likes WHERE user_id = @uid) +
			(SELECT COUNT(DISTINCT story_id) FROM comments WHERE user_id = @uid) AS stories_read`,
		map[string]interface{}{"uid": userID},
	).Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
