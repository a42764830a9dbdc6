package repositories

import (
	"context"

	"github.com/anonto42/story-creator/backend/internal/models"
	"gorm.io/gorm"
)

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	GetByName(ctx context.Context, name string) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uint) error
	TopByStoryCount(ctx context.Context, limit int) ([]models.CategoryCount, error)
}

type PostgresCategoryRepository struct {
	db *gorm.DB
}

func NewPostgresCategoryRepository(db *gorm.DB) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{db: db}
}

// List returns categories ordered by name.
func (r *PostgresCategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *PostgresCategoryRepository) GetByName(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&category).Error; err != nil {
		return nil, translate(err, nil)
	}
	return &category, nil
}

func (r *PostgresCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	return translate(r.db.WithContext(ctx).Create(category).Error, models.ErrCategoryExists)
}

func (r *PostgresCategoryRepository) Update(ctx context.Context, category *models.Category) error {
	res := r.db.WithContext(ctx).Model(&models.Category{}).
		Where("id = ?", category.ID).
		Updates(map[string]interface{}{"name": category.Name, "description": category.Description})
	if res.Error != nil {
		return translate(res.Error, models.ErrCategoryExists)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *PostgresCategoryRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Category{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// TopByStoryCount ranks categories by the number of stories filed under their name.
func (r *PostgresCategoryRepository) TopByStoryCount(ctx context.Context, limit int) ([]models.CategoryCount, error) {
	var rows []models.CategoryCount
	err := r.db.WithContext(ctx).
		Table("categories AS c").
		Select("c.name AS name, COUNT(s.id) AS total").
		Joins("LEFT JOIN stories s ON s.category = c.name").
		Group("c.name").
		Order("total DESC, c.name ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
