package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/anonto42/story-creator/backend/internal/models"
	"github.com/anonto42/story-creator/backend/internal/repositories"
	"github.com/anonto42/story-creator/backend/internal/session"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// NotificationHandler runs the author-role request workflow and the
// reader/author/admin message inboxes.
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
	sessions               *session.Manager
	logger                 *zap.Logger
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifRepo repositories.NotificationRepository, sessions *session.Manager, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationRepository: notifRepo,
		sessions:               sessions,
		logger:                 logger.Named("NotificationHandler"),
	}
}

// RegisterReaderRoutes registers routes under /reader
func (h *NotificationHandler) RegisterReaderRoutes(g *echo.Group) {
	g.POST("/request-author", h.RequestAuthorRole)
	g.POST("/notify-admin", h.notifyAdmin(models.NotificationReaderMessage))
	g.GET("/notifications", h.ReaderNotifications)
}

// RegisterAuthorRoutes registers routes under /author
func (h *NotificationHandler) RegisterAuthorRoutes(g *echo.Group) {
	g.POST("/notify-admin", h.notifyAdmin(models.NotificationMessage))
	g.GET("/notifications", h.AuthorNotifications)
}

// RegisterAdminRoutes registers routes under /admin
func (h *NotificationHandler) RegisterAdminRoutes(g *echo.Group) {
	g.GET("/notifications", h.AdminInbox)
	g.POST("/notifications/:id/approve", h.Approve)
	g.POST("/notifications/:id/reject", h.Reject)
	g.POST("/notifications/:id/reply", h.Reply)
}

// RegisterNotificationRoutes registers the routes shared by every signed-in role
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.POST("/notifications/:id/read", h.MarkAsRead)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
}

func (h *NotificationHandler) RequestAuthorRole(c echo.Context) error {
	auth, err := currentAuth(c)
	if err != nil {
		return err
	}

	n, err := h.notificationRepository.RequestRoleChange(c.Request().Context(), auth.UserID)
	if err != nil {
		if errors.Is(err, models.ErrPendingRequestExists) {
			roleRequestsTotal.WithLabelValues("duplicate").Inc()
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return internalError(h.logger, "Failed to submit request", err)
	}
	roleRequestsTotal.WithLabelValues("requested").Inc()

	h.logger.Info("Author role requested", zap.Uint("user_id", auth.UserID), zap.Uint("notification_id", n.ID))
	return c.JSON(http.StatusCreated, echo.Map{
		"success":      true,
		"message":      "Your request has been sent to the admin.",
		"notification": n,
	})
}

// notifyAdmin stores a message for the admin inbox under the given type.
func (h *NotificationHandler) notifyAdmin(kind string) echo.HandlerFunc {
	return func(c echo.Context) error {
		auth, err := currentAuth(c)
		if err != nil {
			return err
		}
		message, err := bindMessage(c)
		if err != nil {
			return err
		}

		n := &models.Notification{
			UserID:  auth.UserID,
			Type:    kind,
			Status:  models.NotificationPending,
			Message: message,
		}
		if err := h.notificationRepository.CreateNotification(c.Request().Context(), n); err != nil {
			return internalError(h.logger, "Failed to send message", err)
		}
		return c.JSON(http.StatusCreated, echo.Map{"success": true, "notification": n})
	}
}

func bindMessage(c echo.Context) (string, error) {
	var req models.MessageRequest
	if err := c.Bind(&req); err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "Message is required")
	}
	return message, nil
}

// ReaderNotifications lists the reader's rows. Once an approved request exists
// and the author role is granted, the session moves to the author dashboard.
func (h *NotificationHandler) ReaderNotifications(c echo.Context) error {
	auth, err := currentAuth(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	notifications, err := h.notificationRepository.GetByUserID(ctx, auth.UserID)
	if err != nil {
		return internalError(h.logger, "Failed to load notifications", err)
	}
	approved, err := h.notificationRepository.HasApprovedRoleChange(ctx, auth.UserID)
	if err != nil {
		return internalError(h.logger, "Failed to load notifications", err)
	}

	upgraded := approved && auth.Roles.Has(models.RoleAuthor)
	if upgraded {
		if err := h.sessions.SetRole(c, models.RoleAuthor, ""); err != nil {
			return internalError(h.logger, "Failed to update session", err)
		}
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":       true,
		"notifications": notifications,
		"role_upgraded": upgraded,
	})
}

func (h *NotificationHandler) AuthorNotifications(c echo.Context) error {
	auth, err := currentAuth(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	notifications, err := h.notificationRepository.GetForAuthor(ctx, auth.UserID)
	if err != nil {
		return internalError(h.logger, "Failed to load notifications", err)
	}
	unread, err := h.notificationRepository.GetUnreadCount(ctx, auth.UserID)
	if err != nil {
		return internalError(h.logger, "Failed to load notifications", err)
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":       true,
		"notifications": notifications,
		"unread_count":  unread,
	})
}

func (h *NotificationHandler) AdminInbox(c echo.Context) error {
	inbox, err := h.notificationRepository.GetAdminInbox(c.Request().Context())
	if err != nil {
		return internalError(h.logger, "Failed to load notifications", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "inbox": inbox})
}

// Approve grants the author role for a pending request exactly once.
func (h *NotificationHandler) Approve(c echo.Context) error {
	auth, err := currentAuth(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	userID, err := h.notificationRepository.ApproveRoleChange(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrRequestNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return internalError(h.logger, "Failed to approve request", err)
	}
	roleRequestsTotal.WithLabelValues("approved").Inc()

	if userID == auth.UserID {
		original := ""
		if auth.Roles.Has(models.RoleAdmin) {
			original = models.RoleAdmin
		}
		if err := h.sessions.SetRole(c, models.RoleAuthor, original); err != nil {
			return internalError(h.logger, "Failed to update session", err)
		}
	}

	h.logger.Info("Author role approved", zap.Uint("notification_id", id), zap.Uint("user_id", userID), zap.Uint("admin_id", auth.UserID))
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user_id": userID})
}

// Reject is a no-op for requests that are missing or already handled.
func (h *NotificationHandler) Reject(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	updated, err := h.notificationRepository.RejectRoleChange(c.Request().Context(), id)
	if err != nil {
		return internalError(h.logger, "Failed to reject request", err)
	}
	if updated {
		roleRequestsTotal.WithLabelValues("rejected").Inc()
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "updated": updated})
}

// Reply addresses an unread reply to the user behind an inbox row.
func (h *NotificationHandler) Reply(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	message, err := bindMessage(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	original, err := h.notificationRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Notification not found")
		}
		return internalError(h.logger, "Failed to load notification", err)
	}

	reply := &models.Notification{
		UserID:  original.UserID,
		Type:    models.NotificationReply,
		Status:  models.NotificationUnread,
		Message: message,
	}
	if err := h.notificationRepository.CreateNotification(ctx, reply); err != nil {
		return internalError(h.logger, "Failed to send reply", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "notification": reply})
}

func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	auth, err := currentAuth(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.notificationRepository.MarkAsRead(c.Request().Context(), id, auth.UserID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Notification not found")
		}
		return internalError(h.logger, "Failed to mark notification as read", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	auth, err := currentAuth(c)
	if err != nil {
		return err
	}
	count, err := h.notificationRepository.GetUnreadCount(c.Request().Context(), auth.UserID)
	if err != nil {
		return internalError(h.logger, "Failed to count notifications", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "count": count})
}
