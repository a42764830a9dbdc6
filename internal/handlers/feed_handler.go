package handlers

import (
	"net/http"
	"strings"

	"github.com/anonto42/story-creator/backend/internal/models"
	"github.com/anonto42/story-creator/backend/internal/repositories"
	"github.com/anonto42/story-creator/backend/internal/session"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Page sizes of the browse listings.
const (
	readerPageSize = 9
	authorPageSize = 8
	adminPageSize  = 12
)

// FeedHandler serves story listings and story detail pages
type FeedHandler struct {
	storyRepository    repositories.StoryRepository
	commentRepository  repositories.CommentRepository
	likeRepository     repositories.LikeRepository
	categoryRepository repositories.CategoryRepository
	logger             *zap.Logger
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(
	storyRepo repositories.StoryRepository,
	commentRepo repositories.CommentRepository,
	likeRepo repositories.LikeRepository,
	categoryRepo repositories.CategoryRepository,
	logger *zap.Logger,
) *FeedHandler {
	return &FeedHandler{
		storyRepository:    storyRepo,
		commentRepository:  commentRepo,
		likeRepository:     likeRepo,
		categoryRepository: categoryRepo,
		logger:             logger.Named("FeedHandler"),
	}
}

// RegisterPublicRoutes registers the listing open to everyone
func (h *FeedHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/stories", h.PublishedStories)
}

// RegisterReaderRoutes registers routes under /reader
func (h *FeedHandler) RegisterReaderRoutes(g *echo.Group) {
	g.GET("/browse-stories", h.browse(readerPageSize))
	g.GET("/story1/:id", h.StoryDetail)
}

// RegisterAuthorRoutes registers routes under /author
func (h *FeedHandler) RegisterAuthorRoutes(g *echo.Group) {
	g.GET("/browse-stories", h.browse(authorPageSize))
	g.GET("/story1/:id", h.StoryDetail)
}

// RegisterAdminRoutes registers routes under /admin
func (h *FeedHandler) RegisterAdminRoutes(g *echo.Group) {
	g.GET("/stories", h.browse(adminPageSize))
	g.GET("/stories/:id", h.AdminStoryDetail)
}

// browse lists the stories the caller's active role may see.
func (h *FeedHandler) browse(perPage int) echo.HandlerFunc {
	return func(c echo.Context) error {
		auth, err := currentAuth(c)
		if err != nil {
			return err
		}
		ctx := c.Request().Context()

		search := c.QueryParam("search")
		if search == "" {
			search = c.QueryParam("q")
		}
		filter := models.StoryFilter{
			Role:     auth.Role,
			ViewerID: auth.UserID,
			Search:   strings.TrimSpace(search),
			Category: strings.TrimSpace(c.QueryParam("category")),
			Page:     pageParam(c),
			PerPage:  perPage,
		}
		if auth.Role != models.RoleReader {
			filter.Status = strings.TrimSpace(c.QueryParam("status"))
		}

		stories, total, err := h.storyRepository.Browse(ctx, filter)
		if err != nil {
			return internalError(h.logger, "Failed to load stories", err)
		}
		categories, err := h.categoryRepository.List(ctx)
		if err != nil {
			return internalError(h.logger, "Failed to load categories", err)
		}
		if stories == nil {
			stories = []models.StoryWithAuthor{}
		}

		return c.JSON(http.StatusOK, echo.Map{
			"success":    true,
			"stories":    stories,
			"pagination": models.NewPagination(filter.Page, perPage, total),
			"categories": categories,
			"filters": echo.Map{
				"search":   filter.Search,
				"category": filter.Category,
				"status":   filter.Status,
			},
		})
	}
}

// canView reports whether auth may open story from the reader or author pages.
func canView(auth *session.AuthContext, story *models.StoryWithAuthor) bool {
	if story.Status == models.StoryPublished {
		return true
	}
	return auth.Role == models.RoleAuthor && story.AuthorID == auth.UserID
}

// StoryDetail returns a story with its comments and whether the caller liked it.
func (h *FeedHandler) StoryDetail(c echo.Context) error {
	auth, err := currentAuth(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	story, err := h.storyRepository.GetStoryByID(ctx, id)
	if err != nil {
		return storyError(h.logger, err)
	}
	if !canView(auth, story) {
		return echo.NewHTTPError(http.StatusNotFound, models.ErrStoryNotFound.Error())
	}

	comments, err := h.commentRepository.GetCommentsByStoryID(ctx, id)
	if err != nil {
		return internalError(h.logger, "Failed to load comments", err)
	}
	liked, err := h.likeRepository.HasUserLikedStory(ctx, id, auth.UserID)
	if err != nil {
		return internalError(h.logger, "Failed to load like state", err)
	}
	if comments == nil {
		comments = []models.CommentWithAuthor{}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"story":     story,
		"comments":  comments,
		"liked":     liked,
		"image_url": mediaURL(story.FeaturedImage, ""),
	})
}

func (h *FeedHandler) AdminStoryDetail(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	story, err := h.storyRepository.GetStoryByID(ctx, id)
	if err != nil {
		return storyError(h.logger, err)
	}
	comments, err := h.commentRepository.GetCommentsByStoryID(ctx, id)
	if err != nil {
		return internalError(h.logger, "Failed to load comments", err)
	}
	if comments == nil {
		comments = []models.CommentWithAuthor{}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"story":      story,
		"comments":   comments,
		"engagement": models.EngagementRate(story.Likes, story.Comments, story.Views),
	})
}

// PublishedStories lists every published story, latest publish date first.
func (h *FeedHandler) PublishedStories(c echo.Context) error {
	stories, err := h.storyRepository.ListPublished(c.Request().Context())
	if err != nil {
		return internalError(h.logger, "Failed to load stories", err)
	}
	if stories == nil {
		stories = []models.StoryWithAuthor{}
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "stories": stories})
}
