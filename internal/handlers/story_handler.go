package handlers

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/anonto42/story-creator/backend/internal/models"
	"github.com/anonto42/story-creator/backend/internal/repositories"
	"github.com/anonto42/story-creator/backend/pkg/storage"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// StoryHandler handles an author's own stories
type StoryHandler struct {
	storyRepository    repositories.StoryRepository
	categoryRepository repositories.CategoryRepository
	uploads            *storage.Uploads
	logger             *zap.Logger
	now                func() time.Time
}

// NewStoryHandler creates a new StoryHandler
func NewStoryHandler(storyRepo repositories.StoryRepository, categoryRepo repositories.CategoryRepository, uploads *storage.Uploads, logger *zap.Logger) *StoryHandler {
	return &StoryHandler{
		storyRepository:    storyRepo,
		categoryRepository: categoryRepo,
		uploads:            uploads,
		logger:             logger.Named("StoryHandler"),
		now:                time.Now,
	}
}

// RegisterStoryRoutes registers the author story routes
func (h *StoryHandler) RegisterStoryRoutes(g *echo.Group) {
	g.POST("/stories", h.CreateStory)
	g.GET("/stories/:id", h.GetStory)
	g.POST("/stories/:id", h.UpdateStory)
	g.POST("/stories/:id/delete", h.DeleteStory)
	g.GET("/my_stories", h.MyStories)
}

// bindStoryForm reads and validates the form fields shared by create and update.
func bindStoryForm(c echo.Context) (models.StoryForm, error) {
	var form models.StoryForm
	if err := c.Bind(&form); err != nil {
		return form, echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	form.Title = strings.TrimSpace(form.Title)
	form.Category = strings.TrimSpace(form.Category)
	form.Tags = strings.TrimSpace(form.Tags)
	if err := form.Validate(); err != nil {
		return form, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return form, nil
}

// resolveCategory looks the category name up once and returns both columns.
// Names without a category row keep the text and no id.
func (h *StoryHandler) resolveCategory(ctx context.Context, name string) (*string, *uint, error) {
	if name == "" {
		return nil, nil, nil
	}
	category, err := h.categoryRepository.GetByName(ctx, name)
	if errors.Is(err, models.ErrNotFound) {
		return &name, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return &category.Name, &category.ID, nil
}

// saveFeaturedImage stores the optional featured_image upload. It returns nil
// when no file was sent.
func (h *StoryHandler) saveFeaturedImage(c echo.Context) (*string, error) {
	fh, err := c.FormFile("featured_image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid upload")
	}
	return h.storeUpload(fh)
}

func (h *StoryHandler) storeUpload(fh *multipart.FileHeader) (*string, error) {
	if fh.Filename == "" {
		return nil, nil
	}
	stored, err := h.uploads.SaveMultipart(fh)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidFileType) {
			return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return nil, internalError(h.logger, "Failed to store image", err)
	}
	return &stored, nil
}

func (h *StoryHandler) CreateStory(c echo.Context) error {
	auth, err := currentAuth(c)
	if err != nil {
		return err
	}
	form, err := bindStoryForm(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	status := form.ResolveStatus()
	publishDate, err := models.ResolvePublishDate(status, form.PublishDate, nil, h.now())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	category, categoryID, err := h.resolveCategory(ctx, form.Category)
	if err != nil {
		return internalError(h.logger, "Failed to resolve category", err)
	}
	image, err := h.saveFeaturedImage(c)
	if err != nil {
		return err
	}

	story := &models.Story{
		AuthorID:      auth.UserID,
		Title:         form.Title,
		Content:       form.Content,
		Status:        status,
		Category:      category,
		CategoryID:    categoryID,
		Tags:          form.Tags,
		FeaturedImage: image,
		PublishDate:   publishDate,
	}
	if err := h.storyRepository.CreateStory(ctx, story); err != nil {
		if image != nil {
			removeUpload(h.uploads, h.logger, *image)
		}
		return internalError(h.logger, "Failed to create story", err)
	}
	if status == models.StoryPublished {
		storiesPublishedTotal.Inc()
	}

	h.logger.Info("Story created", zap.Uint("story_id", story.ID), zap.Uint("author_id", auth.UserID), zap.String("status", status))
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "story": story})
}

func (h *StoryHandler) GetStory(c echo.Context) error {
	auth, err := currentAuth(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	story, err := h.storyRepository.GetOwnedStory(c.Request().Context(), id, auth.UserID)
	if err != nil {
		return storyError(h.logger, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "story": story})
}

// UpdateStory edits an owned story. A new featured image replaces the old
// file, remove_image clears it and otherwise the stored image is kept.
func (h *StoryHandler) UpdateStory(c echo.Context) error {
	auth, err := currentAuth(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	form, err := bindStoryForm(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	existing, err := h.storyRepository.GetOwnedStory(ctx, id, auth.UserID)
	if err != nil {
		return storyError(h.logger, err)
	}

	status := form.ResolveStatus()
	publishDate, err := models.ResolvePublishDate(status, form.PublishDate, existing.PublishDate, h.now())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	category, categoryID, err := h.resolveCategory(ctx, form.Category)
	if err != nil {
		return internalError(h.logger, "Failed to resolve category", err)
	}
	image, err := h.saveFeaturedImage(c)
	if err != nil {
		return err
	}

	updated := *existing
	updated.Title = form.Title
	updated.Content = form.Content
	updated.Status = status
	updated.Category = category
	updated.CategoryID = categoryID
	updated.Tags = form.Tags
	updated.PublishDate = publishDate
	switch {
	case image != nil:
		updated.FeaturedImage = image
	case form.ClearsImage():
		updated.FeaturedImage = nil
	}

	if err := h.storyRepository.UpdateStory(ctx, &updated, auth.UserID); err != nil {
		if image != nil {
			removeUpload(h.uploads, h.logger, *image)
		}
		return storyError(h.logger, err)
	}

	// The old file goes only after the row no longer points at it.
	if existing.FeaturedImage != nil && (image != nil || form.ClearsImage()) {
		removeUpload(h.uploads, h.logger, *existing.FeaturedImage)
	}
	if status == models.StoryPublished && existing.Status != models.StoryPublished {
		storiesPublishedTotal.Inc()
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "story": updated})
}

// DeleteStory removes an owned story and then its featured image.
func (h *StoryHandler) DeleteStory(c echo.Context) error {
	auth, err := currentAuth(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	deleted, err := h.storyRepository.DeleteStory(c.Request().Context(), id, auth.UserID)
	if err != nil {
		return storyError(h.logger, err)
	}
	if deleted.FeaturedImage != nil {
		removeUpload(h.uploads, h.logger, *deleted.FeaturedImage)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Story deleted successfully"})
}

func (h *StoryHandler) MyStories(c echo.Context) error {
	auth, err := currentAuth(c)
	if err != nil {
		return err
	}
	stories, err := h.storyRepository.ListByAuthor(c.Request().Context(), auth.UserID, 0)
	if err != nil {
		return internalError(h.logger, "Failed to load stories", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "stories": stories})
}

// storyError maps repository errors of story lookups to HTTP errors.
func storyError(logger *zap.Logger, err error) error {
	if errors.Is(err, models.ErrStoryNotFound) || errors.Is(err, models.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, models.ErrStoryNotFound.Error())
	}
	return internalError(logger, "Story operation failed", err)
}

func removeUpload(uploads *storage.Uploads, logger *zap.Logger, stored string) {
	if err := uploads.Remove(stored); err != nil {
		logger.Warn("Failed to remove upload", zap.String("path", stored), zap.Error(err))
	}
}
