package handlers

import (
	"net/http"
	"time"

	"github.com/anonto42/story-creator/backend/internal/models"
	"github.com/anonto42/story-creator/backend/internal/repositories"
	"github.com/anonto42/story-creator/backend/pkg/export"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	dashboardTopN       = 5
	featuredStories     = 6
	readerTopCategories = 8
	activityFeedLimit   = 50
)

// ReportHandler serves the role dashboards, chart data and story exports
type ReportHandler struct {
	reportRepository     repositories.ReportRepository
	storyRepository      repositories.StoryRepository
	userRepository       repositories.UserRepository
	categoryRepository   repositories.CategoryRepository
	engagementRepository repositories.EngagementRepository
	activityRepository   repositories.ActivityRepository
	logger               *zap.Logger
	now                  func() time.Time
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(
	reportRepo repositories.ReportRepository,
	storyRepo repositories.StoryRepository,
	userRepo repositories.UserRepository,
	categoryRepo repositories.CategoryRepository,
	engagementRepo repositories.EngagementRepository,
	activityRepo repositories.ActivityRepository,
	logger *zap.Logger,
) *ReportHandler {
	return &ReportHandler{
		reportRepository:     reportRepo,
		storyRepository:      storyRepo,
		userRepository:       userRepo,
		categoryRepository:   categoryRepo,
		engagementRepository: engagementRepo,
		activityRepository:   activityRepo,
		logger:               logger.Named("ReportHandler"),
		now:                  time.Now,
	}
}

// RegisterAdminRoutes registers routes under /admin
func (h *ReportHandler) RegisterAdminRoutes(g *echo.Group) {
	g.GET("/dashboard", h.AdminDashboard)
	g.GET("/traffic_data", h.TrafficData)
	g.GET("/top_locations_data", h.TopLocationsData)
	g.GET("/top_stories_data", h.TopStoriesData)
	g.GET("/top_authors_data", h.TopAuthorsData)
	g.GET("/stories/export/csv", h.ExportCSV)
	g.GET("/stories/export/pdf", h.ExportPDF)
}

// RegisterAuthorRoutes registers routes under /author
func (h *ReportHandler) RegisterAuthorRoutes(g *echo.Group) {
	g.GET("/dashboard", h.AuthorDashboard)
	g.GET("/performance", h.AuthorPerformance)
	g.GET("/my-activity", h.MyActivity)
}

// RegisterReaderRoutes registers routes under /reader
func (h *ReportHandler) RegisterReaderRoutes(g *echo.Group) {
	g.GET("/dashboard", h.ReaderDashboard)
}

// topStories returns the most viewed stories; the repository fills Engagement.
func (h *ReportHandler) topStories(c echo.Context) ([]models.TopStory, error) {
	return h.reportRepository.TopStories(c.Request().Context(), dashboardTopN)
}

func (h *ReportHandler) AdminDashboard(c echo.Context) error {
	ctx := c.Request().Context()
	var d models.AdminDashboard

	totals, err := h.reportRepository.EngagementTotals(ctx, 0)
	if err != nil {
		return internalError(h.logger, "Failed to load dashboard", err)
	}
	d.Stats.EngagementTotals = *totals
	d.Stats.AvgEngagement = models.EngagementRate(totals.TotalLikes, totals.TotalComments, totals.TotalViews)

	statuses, err := h.reportRepository.StatusCounts(ctx, 0)
	if err != nil {
		return internalError(h.logger, "Failed to load dashboard", err)
	}
	d.Stories = *statuses

	users, err := h.userRepository.Stats(ctx)
	if err != nil {
		return internalError(h.logger, "Failed to load dashboard", err)
	}
	d.Users = *users

	if d.TopStories, err = h.topStories(c); err != nil {
		return internalError(h.logger, "Failed to load dashboard", err)
	}
	if d.AuthorPerformance, err = h.reportRepository.AuthorPerformance(ctx, dashboardTopN); err != nil {
		return internalError(h.logger, "Failed to load dashboard", err)
	}

	categories, err := h.reportRepository.CategoryDistribution(ctx, 0)
	if err != nil {
		return internalError(h.logger, "Failed to load dashboard", err)
	}
	d.ContentDistribution = models.SeriesFromCounts(categories)

	genders, err := h.reportRepository.GenderDistribution(ctx)
	if err != nil {
		return internalError(h.logger, "Failed to load dashboard", err)
	}
	d.GenderDistribution = models.SeriesFromCounts(genders)

	countries, err := h.reportRepository.TopCountries(ctx, dashboardTopN)
	if err != nil {
		return internalError(h.logger, "Failed to load dashboard", err)
	}
	d.TopLocations = models.LocationShares(countries)

	if d.RecentStories, err = h.storyRepository.ListRecent(ctx, dashboardTopN); err != nil {
		return internalError(h.logger, "Failed to load dashboard", err)
	}
	if d.RecentUsers, err = h.reportRepository.RecentUsers(ctx, dashboardTopN); err != nil {
		return internalError(h.logger, "Failed to load dashboard", err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "dashboard": d})
}

// TrafficData returns the last TrafficDays days of engagement, zero filled.
func (h *ReportHandler) TrafficData(c echo.Context) error {
	now := h.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	since := today.AddDate(0, 0, -(models.TrafficDays - 1))

	rows, err := h.reportRepository.DailyTraffic(c.Request().Context(), since)
	if err != nil {
		return internalError(h.logger, "Failed to load traffic data", err)
	}
	return c.JSON(http.StatusOK, models.BuildTrafficSeries(rows, today))
}

func (h *ReportHandler) TopLocationsData(c echo.Context) error {
	countries, err := h.reportRepository.TopCountries(c.Request().Context(), dashboardTopN)
	if err != nil {
		return internalError(h.logger, "Failed to load locations", err)
	}
	series := models.ChartSeries{Labels: []string{}, Data: []float64{}}
	for _, l := range models.LocationShares(countries) {
		series.Labels = append(series.Labels, l.Country)
		series.Data = append(series.Data, l.Percentage)
	}
	return c.JSON(http.StatusOK, series)
}

func (h *ReportHandler) TopStoriesData(c echo.Context) error {
	stories, err := h.topStories(c)
	if err != nil {
		return internalError(h.logger, "Failed to load top stories", err)
	}
	series := models.ChartSeries{Labels: []string{}, Data: []float64{}}
	for _, s := range stories {
		series.Labels = append(series.Labels, s.Title)
		series.Data = append(series.Data, float64(s.Views))
	}
	return c.JSON(http.StatusOK, series)
}

func (h *ReportHandler) TopAuthorsData(c echo.Context) error {
	authors, err := h.reportRepository.AuthorPerformance(c.Request().Context(), dashboardTopN)
	if err != nil {
		return internalError(h.logger, "Failed to load top authors", err)
	}
	series := models.ChartSeries{Labels: []string{}, Data: []float64{}, Images: []string{}}
	for _, a := range authors {
		series.Labels = append(series.Labels, a.Name)
		series.Data = append(series.Data, models.Round2(a.AvgViews))
		series.Images = append(series.Images, mediaURL(a.ProfilePic, defaultImage))
	}
	return c.JSON(http.StatusOK, series)
}

func exportRows(stories []models.Story) []export.Row {
	rows := make([]export.Row, 0, len(stories))
	for _, s := range stories {
		row := export.Row{ID: s.ID, Title: s.Title, Status: s.Status, CreatedAt: s.CreatedAt}
		if s.Category != nil {
			row.Category = *s.Category
		}
		rows = append(rows, row)
	}
	return rows
}

func (h *ReportHandler) ExportCSV(c echo.Context) error {
	stories, err := h.storyRepository.ListForExport(c.Request().Context(), 0)
	if err != nil {
		return internalError(h.logger, "Failed to export stories", err)
	}
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/csv")
	res.Header().Set(echo.HeaderContentDisposition, "attachment; filename=stories.csv")
	res.WriteHeader(http.StatusOK)
	return export.WriteCSV(res, exportRows(stories))
}

func (h *ReportHandler) ExportPDF(c echo.Context) error {
	stories, err := h.storyRepository.ListForExport(c.Request().Context(), export.MaxPDFRows)
	if err != nil {
		return internalError(h.logger, "Failed to export stories", err)
	}
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "application/pdf")
	res.Header().Set(echo.HeaderContentDisposition, "attachment; filename=stories.pdf")
	res.WriteHeader(http.StatusOK)
	return export.WritePDF(res, exportRows(stories))
}

func (h *ReportHandler) AuthorDashboard(c echo.Context) error {
	auth, err := currentAuth(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	var stats models.AuthorStats
	statuses, err := h.reportRepository.StatusCounts(ctx, auth.UserID)
	if err != nil {
		return internalError(h.logger, "Failed to load dashboard", err)
	}
	stats.StatusCounts = *statuses
	totals, err := h.reportRepository.EngagementTotals(ctx, auth.UserID)
	if err != nil {
		return internalError(h.logger, "Failed to load dashboard", err)
	}
	stats.EngagementTotals = *totals
	if stats.TopStories, err = h.reportRepository.TopStoriesByAuthor(ctx, auth.UserID, dashboardTopN); err != nil {
		return internalError(h.logger, "Failed to load dashboard", err)
	}

	recent, err := h.storyRepository.ListByAuthor(ctx, auth.UserID, dashboardTopN)
	if err != nil {
		return internalError(h.logger, "Failed to load dashboard", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":        true,
		"username":       auth.Username,
		"stats":          stats,
		"recent_stories": recent,
		"switched_admin": auth.IsSwitchedAdmin(),
	})
}

func (h *ReportHandler) AuthorPerformance(c echo.Context) error {
	auth, err := currentAuth(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	totals, err := h.reportRepository.EngagementTotals(ctx, auth.UserID)
	if err != nil {
		return internalError(h.logger, "Failed to load performance", err)
	}
	top, err := h.reportRepository.TopStoriesByAuthor(ctx, auth.UserID, dashboardTopN)
	if err != nil {
		return internalError(h.logger, "Failed to load performance", err)
	}
	all, err := h.storyRepository.ListByAuthor(ctx, auth.UserID, 0)
	if err != nil {
		return internalError(h.logger, "Failed to load performance", err)
	}
	categories, err := h.reportRepository.CategoryDistribution(ctx, auth.UserID)
	if err != nil {
		return internalError(h.logger, "Failed to load performance", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":               true,
		"totals":                totals,
		"top_stories":           top,
		"stories":               all,
		"category_distribution": models.SeriesFromCounts(categories),
		"metrics":               totals.Metrics(),
	})
}

// MyActivity shows engagement received on the author's stories next to the
// actions the author performed, with the latest activity log entries.
func (h *ReportHandler) MyActivity(c echo.Context) error {
	auth, err := currentAuth(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	received, err := h.reportRepository.EngagementTotals(ctx, auth.UserID)
	if err != nil {
		return internalError(h.logger, "Failed to load activity", err)
	}
	performed, err := h.engagementRepository.ActivityCounts(ctx, auth.UserID)
	if err != nil {
		return internalError(h.logger, "Failed to load activity", err)
	}
	activities, err := h.activityRepository.ListByUser(ctx, auth.UserID, activityFeedLimit)
	if err != nil {
		return internalError(h.logger, "Failed to load activity", err)
	}

	ids := make([]uint, 0, len(activities))
	for _, a := range activities {
		ids = append(ids, a.StoryID)
	}
	titles, err := h.storyRepository.TitlesByIDs(ctx, ids)
	if err != nil {
		return internalError(h.logger, "Failed to load activity", err)
	}
	for i := range activities {
		activities[i].StoryTitle = titles[activities[i].StoryID]
	}
	if activities == nil {
		activities = []models.Activity{}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"received":   received,
		"performed":  performed,
		"activities": activities,
	})
}

func (h *ReportHandler) ReaderDashboard(c echo.Context) error {
	auth, err := currentAuth(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	stats, err := h.reportRepository.ReaderStats(ctx, auth.UserID)
	if err != nil {
		return internalError(h.logger, "Failed to load dashboard", err)
	}
	featured, _, err := h.storyRepository.Browse(ctx, models.StoryFilter{
		Role:     models.RoleReader,
		ViewerID: auth.UserID,
		Page:     1,
		PerPage:  featuredStories,
	})
	if err != nil {
		return internalError(h.logger, "Failed to load dashboard", err)
	}
	categories, err := h.categoryRepository.TopByStoryCount(ctx, readerTopCategories)
	if err != nil {
		return internalError(h.logger, "Failed to load dashboard", err)
	}
	if featured == nil {
		featured = []models.StoryWithAuthor{}
	}
	if categories == nil {
		categories = []models.CategoryCount{}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"username": auth.Username,
		"stats":    stats,
		"reading_graph_data": models.ChartSeries{
			Labels: []string{"Stories Read", "Likes Given", "Comments"},
			Data:   []float64{float64(stats.StoriesRead), float64(stats.LikesGiven), float64(stats.CommentsCount)},
		},
		"featured_stories": featured,
		"categories":       categories,
	})
}
