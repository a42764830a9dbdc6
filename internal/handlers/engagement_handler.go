package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/anonto42/story-creator/backend/internal/models"
	"github.com/anonto42/story-creator/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// EngagementHandler records views, likes, comments and shares on stories
type EngagementHandler struct {
	likeRepository       repositories.LikeRepository
	commentRepository    repositories.CommentRepository
	engagementRepository repositories.EngagementRepository
	activityRepository   repositories.ActivityRepository
	logger               *zap.Logger
}

// NewEngagementHandler creates a new EngagementHandler
func NewEngagementHandler(
	likeRepo repositories.LikeRepository,
	commentRepo repositories.CommentRepository,
	engagementRepo repositories.EngagementRepository,
	activityRepo repositories.ActivityRepository,
	logger *zap.Logger,
) *EngagementHandler {
	return &EngagementHandler{
		likeRepository:       likeRepo,
		commentRepository:    commentRepo,
		engagementRepository: engagementRepo,
		activityRepository:   activityRepo,
		logger:               logger.Named("EngagementHandler"),
	}
}

// RegisterEngagementRoutes registers the story actions; mounted under both
// /reader and /author.
func (h *EngagementHandler) RegisterEngagementRoutes(g *echo.Group) {
	g.POST("/story1/:id/track_view", h.TrackView)
	g.POST("/story1/:id/like", h.Like)
	g.POST("/story1/:id/comment", h.Comment)
	g.POST("/story1/:id/share", h.Share)
}

func (h *EngagementHandler) Like(c echo.Context) error {
	auth, err := currentAuth(c)
	if err != nil {
		return err
	}
	storyID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.likeRepository.LikeStory(c.Request().Context(), storyID, auth.UserID); err != nil {
		if errors.Is(err, models.ErrAlreadyLiked) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return storyError(h.logger, err)
	}

	h.record(c.Request().Context(), auth.UserID, storyID, models.ActivityLike, "")
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (h *EngagementHandler) Comment(c echo.Context) error {
	auth, err := currentAuth(c)
	if err != nil {
		return err
	}
	storyID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, models.ErrEmptyComment.Error())
	}

	comment := &models.Comment{StoryID: storyID, UserID: auth.UserID, Content: content}
	if err := h.commentRepository.AddComment(c.Request().Context(), comment); err != nil {
		return storyError(h.logger, err)
	}

	h.record(c.Request().Context(), auth.UserID, storyID, models.ActivityComment, content)
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"comment": models.CommentWithAuthor{Comment: *comment, Username: auth.Username},
	})
}

func (h *EngagementHandler) Share(c echo.Context) error {
	auth, err := currentAuth(c)
	if err != nil {
		return err
	}
	storyID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req models.ShareRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	share := &models.Share{StoryID: storyID, UserID: auth.UserID, Platform: strings.TrimSpace(req.Platform)}
	if err := h.engagementRepository.ShareStory(c.Request().Context(), share); err != nil {
		return storyError(h.logger, err)
	}

	h.record(c.Request().Context(), auth.UserID, storyID, models.ActivityShare, share.Platform)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "platform": share.Platform})
}

// TrackView is the only route that counts a view.
func (h *EngagementHandler) TrackView(c echo.Context) error {
	auth, err := currentAuth(c)
	if err != nil {
		return err
	}
	storyID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	viewer := auth.UserID
	if err := h.engagementRepository.TrackView(c.Request().Context(), &models.View{StoryID: storyID, UserID: &viewer}); err != nil {
		return storyError(h.logger, err)
	}

	h.record(c.Request().Context(), auth.UserID, storyID, models.ActivityView, "")
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// record appends to the activity log. Failures are logged, never returned.
func (h *EngagementHandler) record(ctx context.Context, userID, storyID uint, action, detail string) {
	engagementsTotal.WithLabelValues(action).Inc()
	err := h.activityRepository.Record(ctx, &models.Activity{
		UserID:    userID,
		StoryID:   storyID,
		Action:    action,
		Detail:    detail,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		h.logger.Warn("Failed to record activity",
			zap.Uint("user_id", userID),
			zap.Uint("story_id", storyID),
			zap.String("action", action),
			zap.Error(err),
		)
	}
}
