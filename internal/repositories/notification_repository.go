package repositories

import (
	"context"

	"github.com/anonto42/story-creator/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
	RequestRoleChange(ctx context.Context, userID uint) (*models.Notification, error)
	ApproveRoleChange(ctx context.Context, id uint) (uint, error)
	RejectRoleChange(ctx context.Context, id uint) (bool, error)
	GetByID(ctx context.Context, id uint) (*models.Notification, error)
	GetByUserID(ctx context.Context, userID uint) ([]models.Notification, error)
	GetForAuthor(ctx context.Context, userID uint) ([]models.Notification, error)
	GetAdminInbox(ctx context.Context) (*models.AdminInbox, error)
	HasApprovedRoleChange(ctx context.Context, userID uint) (bool, error)
	GetUnreadCount(ctx context.Context, userID uint) (int64, error)
	MarkAsRead(ctx context.Context, id, userID uint) error
}

type PostgresNotificationRepository struct {
	db *gorm.DB
}

func NewPostgresNotificationRepository(db *gorm.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

func (r *PostgresNotificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

// RequestRoleChange opens a pending promotion request. The partial unique
// index on pending role_change rows makes a second open request fail with
// ErrPendingRequestExists.
func (r *PostgresNotificationRepository) RequestRoleChange(ctx context.Context, userID uint) (*models.Notification, error) {
	n := &models.Notification{
		UserID:  userID,
		Type:    models.NotificationRoleChange,
		Status:  models.NotificationPending,
		Message: "Request to become an Author",
	}
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return nil, translate(err, models.ErrPendingRequestExists)
	}
	return n, nil
}

// ApproveRoleChange moves a pending request to approved and grants the author
// role in the same transaction. It returns the subject user's id, or
// ErrRequestNotFound when no pending request has that id.
func (r *PostgresNotificationRepository) ApproveRoleChange(ctx context.Context, id uint) (uint, error) {
	var userID uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var approved []models.Notification
		res := tx.Model(&approved).
			Clauses(clause.Returning{}).
			Where("id = ? AND type = ? AND status = ?", id, models.NotificationRoleChange, models.NotificationPending).
			Update("status", models.NotificationApproved)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 || len(approved) == 0 {
			return models.ErrRequestNotFound
		}
		userID = approved[0].UserID

		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.UserRole{UserID: userID, Role: models.RoleAuthor}).Error
	})
	if err != nil {
		return 0, err
	}
	return userID, nil
}

// RejectRoleChange rejects a pending request. It reports whether a row changed;
// already handled or unknown ids are a no-op.
func (r *PostgresNotificationRepository) RejectRoleChange(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND type = ? AND status = ?", id, models.NotificationRoleChange, models.NotificationPending).
		Update("status", models.NotificationRejected)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PostgresNotificationRepository) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	var n models.Notification
	if err := r.db.WithContext(ctx).First(&n, id).Error; err != nil {
		return nil, translate(err, nil)
	}
	return &n, nil
}

func (r *PostgresNotificationRepository) GetByUserID(ctx context.Context, userID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&notifications).Error
	return notifications, err
}

// GetForAuthor lists the author's own notifications plus system broadcasts.
func (r *PostgresNotificationRepository) GetForAuthor(ctx context.Context, userID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ? OR type = ?", userID, models.NotificationSystem).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

// GetAdminInbox loads role requests and messages addressed to admins.
func (r *PostgresNotificationRepository) GetAdminInbox(ctx context.Context) (*models.AdminInbox, error) {
	var rows []models.NotificationWithUser
	err := r.db.WithContext(ctx).
		Table("notifications AS n").
		Select("n.*, COALESCE(u.username, '') AS username, COALESCE(u.email, '') AS email").
		Joins("LEFT JOIN users u ON u.id = n.user_id").
		Where("n.type IN ?", []string{models.NotificationRoleChange, models.NotificationReaderMessage, models.NotificationMessage}).
		Order("n.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	inbox := &models.AdminInbox{
		RoleRequests:   []models.NotificationWithUser{},
		ReaderMessages: []models.NotificationWithUser{},
		AuthorMessages: []models.NotificationWithUser{},
	}
	for _, row := range rows {
		switch row.Type {
		case models.NotificationRoleChange:
			inbox.RoleRequests = append(inbox.RoleRequests, row)
		case models.NotificationReaderMessage:
			inbox.ReaderMessages = append(inbox.ReaderMessages, row)
		case models.NotificationMessage:
			inbox.AuthorMessages = append(inbox.AuthorMessages, row)
		}
	}
	return inbox, nil
}

func (r *PostgresNotificationRepository) HasApprovedRoleChange(ctx context.Context, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND type = ? AND status = ?", userID, models.NotificationRoleChange, models.NotificationApproved).
		Count(&count).Error
	return count > 0, err
}

// GetUnreadCount counts unread rows addressed to the user, system broadcasts included.
func (r *PostgresNotificationRepository) GetUnreadCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("(user_id = ? OR type = ?) AND status = ?", userID, models.NotificationSystem, models.NotificationUnread).
		Count(&count).Error
	return count, err
}

// MarkAsRead marks an unread notification of the user as read.
func (r *PostgresNotificationRepository) MarkAsRead(ctx context.Context, id, userID uint) error {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ? AND status = ?", id, userID, models.NotificationUnread).
		Update("status", models.NotificationRead)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}
