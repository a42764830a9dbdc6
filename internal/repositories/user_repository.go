package repositories

import (
	"context"
	"fmt"

	"github.com/anonto42/story-creator/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	CreateUserWithRoles(ctx context.Context, user *models.User, roles ...string) error
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id uint, hash string) error
	UpdatePasswordByEmail(ctx context.Context, email, hash string) error
	UpdateStatus(ctx context.Context, id uint, status string) error
	UpdateProfilePic(ctx context.Context, id uint, path *string) error
	AddRole(ctx context.Context, id uint, role string) error
	DeleteUser(ctx context.Context, id uint) error
	ListWithStoryCounts(ctx context.Context) ([]models.UserWithStats, error)
	Stats(ctx context.Context) (*models.UserStats, error)
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// CreateUser inserts the user and its initial reader role in one transaction.
// A taken username or email yields models.ErrUserExists.
func (r *PostgresUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	return r.CreateUserWithRoles(ctx, user)
}

// CreateUserWithRoles inserts the user together with its initial role and the
// extra roles. Nothing is written when any insert fails.
func (r *PostgresUserRepository) CreateUserWithRoles(ctx context.Context, user *models.User, roles ...string) error {
	if user.Role == "" {
		user.Role = models.RoleReader
	}
	if user.Status == "" {
		user.Status = models.StatusActive
	}
	granted := models.NewRoleSet(append([]string{user.Role}, roles...)...).Slice()
	if len(granted) == 0 {
		granted = []string{models.RoleReader}
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Roles").Create(user).Error; err != nil {
			return translate(err, models.ErrUserExists)
		}
		rows := make([]models.UserRole, 0, len(granted))
		for _, role := range granted {
			rows = append(rows, models.UserRole{UserID: user.ID, Role: role})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("assign roles: %w", err)
		}
		user.Roles = rows
		return nil
	})
}

func (r *PostgresUserRepository) getBy(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Preload("Roles").Where(query, arg).First(&user).Error
	if err != nil {
		return nil, translate(err, nil)
	}
	return &user, nil
}

// GetUserByID retrieves a user with its roles
func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return r.getBy(ctx, "id = ?", id)
}

func (r *PostgresUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getBy(ctx, "username = ?", username)
}

func (r *PostgresUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getBy(ctx, "email = ?", email)
}

func (r *PostgresUserRepository) GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error) {
	return r.getBy(ctx, "firebase_uid = ?", firebaseUID)
}

// UpdateUser saves profile fields. Role, status and password are never
// written here.
func (r *PostgresUserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Model(&models.User{ID: user.ID}).
		Select("Username", "Email", "Country", "State", "City", "Gender", "FirebaseUID").
		Updates(user).Error
	return translate(err, models.ErrUserExists)
}

func (r *PostgresUserRepository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	return r.updateColumn(ctx, r.db.Where("id = ?", id), "password", hash)
}

func (r *PostgresUserRepository) UpdatePasswordByEmail(ctx context.Context, email, hash string) error {
	return r.updateColumn(ctx, r.db.Where("email = ?", email), "password", hash)
}

// UpdateStatus sets active, blocked or suspended.
func (r *PostgresUserRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	switch status {
	case models.StatusActive, models.StatusBlocked, models.StatusSuspended:
	default:
		return models.ErrInvalidStatus
	}
	return r.updateColumn(ctx, r.db.Where("id = ?", id), "status", status)
}

func (r *PostgresUserRepository) UpdateProfilePic(ctx context.Context, id uint, path *string) error {
	return r.updateColumn(ctx, r.db.Where("id = ?", id), "profile_pic", path)
}

func (r *PostgresUserRepository) updateColumn(ctx context.Context, scope *gorm.DB, column string, value interface{}) error {
	res := scope.WithContext(ctx).Model(&models.User{}).Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// AddRole grants a role; granting a held role is a no-op.
func (r *PostgresUserRepository) AddRole(ctx context.Context, id uint, role string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.UserRole{UserID: id, Role: role}).Error
}

// DeleteUser removes the user and its role rows. Stories and engagement rows
// that reference the user are left in place.
func (r *PostgresUserRepository) DeleteUser(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrNotFound
		}
		return tx.Where("user_id = ?", id).Delete(&models.UserRole{}).Error
	})
}

// ListWithStoryCounts lists users newest first with their story counts.
func (r *PostgresUserRepository) ListWithStoryCounts(ctx context.Context) ([]models.UserWithStats, error) {
	var users []models.UserWithStats
	err := r.db.WithContext(ctx).
		Table("users AS u").
		Select("u.*, (SELECT COUNT(*) FROM stories s WHERE s.author_id = u.id) AS story_count").
		Order("u.created_at DESC").
		Scan(&users).Error
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return users, nil
	}

	ids := make([]uint, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}
	var roles []models.UserRole
	if err := r.db.WithContext(ctx).Where("user_id IN ?", ids).Find(&roles).Error; err != nil {
		return nil, err
	}
	byUser := make(map[uint][]models.UserRole, len(users))
	for _, role := range roles {
		byUser[role.UserID] = append(byUser[role.UserID], role)
	}
	for i := range users {
		users[i].Roles = byUser[users[i].ID]
	}
	return users, nil
}

// Stats counts users for the admin list. Authors are users holding the author
// role or carrying it as their legacy role.
func (r *PostgresUserRepository) Stats(ctx context.Context) (*models.UserStats, error) {
	var stats models.UserStats
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'active') AS active,
			COUNT(*) FILTER (WHERE status IN ('blocked', 'suspended')) AS blocked,
			COUNT(*) FILTER (WHERE role = 'author' OR EXISTS (
				SELECT 1 FROM user_roles ur WHERE ur.user_id = users.id AND ur.role = 'author'
			)) AS authors
		FROM users`).Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
