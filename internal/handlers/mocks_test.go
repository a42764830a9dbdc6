package handlers

import (
	"context"
	"time"

	"github.com/anonto42/story-creator/backend/internal/models"
	"github.com/anonto42/story-creator/backend/pkg/firebase"
	"github.com/anonto42/story-creator/backend/pkg/geo"
	"github.com/stretchr/testify/mock"
)

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) user(args mock.Arguments) (*models.User, error) {
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) CreateUser(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *mockUserRepo) CreateUserWithRoles(ctx context.Context, user *models.User, roles ...string) error {
	return m.Called(ctx, user, roles).Error(0)
}
func (m *mockUserRepo) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return m.user(m.Called(ctx, id))
}
func (m *mockUserRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return m.user(m.Called(ctx, username))
}
func (m *mockUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.user(m.Called(ctx, email))
}
func (m *mockUserRepo) GetUserByFirebaseUID(ctx context.Context, uid string) (*models.User, error) {
	return m.user(m.Called(ctx, uid))
}
func (m *mockUserRepo) UpdateUser(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *mockUserRepo) UpdatePassword(ctx context.Context, id uint, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}
func (m *mockUserRepo) UpdatePasswordByEmail(ctx context.Context, email, hash string) error {
	return m.Called(ctx, email, hash).Error(0)
}
func (m *mockUserRepo) UpdateStatus(ctx context.Context, id uint, status string) error {
	return m.Called(ctx, id, status).Error(0)
}
func (m *mockUserRepo) UpdateProfilePic(ctx context.Context, id uint, path *string) error {
	return m.Called(ctx, id, path).Error(0)
}
func (m *mockUserRepo) AddRole(ctx context.Context, id uint, role string) error {
	return m.Called(ctx, id, role).Error(0)
}
func (m *mockUserRepo) DeleteUser(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockUserRepo) ListWithStoryCounts(ctx context.Context) ([]models.UserWithStats, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]models.UserWithStats)
	return users, args.Error(1)
}
func (m *mockUserRepo) Stats(ctx context.Context) (*models.UserStats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(*models.UserStats)
	return stats, args.Error(1)
}

type mockStoryRepo struct{ mock.Mock }

func (m *mockStoryRepo) CreateStory(ctx context.Context, story *models.Story) error {
	return m.Called(ctx, story).Error(0)
}
func (m *mockStoryRepo) UpdateStory(ctx context.Context, story *models.Story, authorID uint) error {
	return m.Called(ctx, story, authorID).Error(0)
}
func (m *mockStoryRepo) DeleteStory(ctx context.Context, id, authorID uint) (*models.Story, error) {
	args := m.Called(ctx, id, authorID)
	s, _ := args.Get(0).(*models.Story)
	return s, args.Error(1)
}
func (m *mockStoryRepo) DeleteStoryAsAdmin(ctx context.Context, id uint) (*models.Story, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*models.Story)
	return s, args.Error(1)
}
func (m *mockStoryRepo) GetStoryByID(ctx context.Context, id uint) (*models.StoryWithAuthor, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*models.StoryWithAuthor)
	return s, args.Error(1)
}
func (m *mockStoryRepo) GetOwnedStory(ctx context.Context, id, authorID uint) (*models.Story, error) {
	args := m.Called(ctx, id, authorID)
	s, _ := args.Get(0).(*models.Story)
	return s, args.Error(1)
}
func (m *mockStoryRepo) Browse(ctx context.Context, filter models.StoryFilter) ([]models.StoryWithAuthor, int64, error) {
	args := m.Called(ctx, filter)
	s, _ := args.Get(0).([]models.StoryWithAuthor)
	return s, args.Get(1).(int64), args.Error(2)
}
func (m *mockStoryRepo) ListByAuthor(ctx context.Context, authorID uint, limit int) ([]models.Story, error) {
	args := m.Called(ctx, authorID, limit)
	s, _ := args.Get(0).([]models.Story)
	return s, args.Error(1)
}
func (m *mockStoryRepo) ListPublished(ctx context.Context) ([]models.StoryWithAuthor, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).([]models.StoryWithAuthor)
	return s, args.Error(1)
}
func (m *mockStoryRepo) ListRecent(ctx context.Context, limit int) ([]models.StoryWithAuthor, error) {
	args := m.Called(ctx, limit)
	s, _ := args.Get(0).([]models.StoryWithAuthor)
	return s, args.Error(1)
}
func (m *mockStoryRepo) ListForExport(ctx context.Context, limit int) ([]models.Story, error) {
	args := m.Called(ctx, limit)
	s, _ := args.Get(0).([]models.Story)
	return s, args.Error(1)
}
func (m *mockStoryRepo) TitlesByIDs(ctx context.Context, ids []uint) (map[uint]string, error) {
	args := m.Called(ctx, ids)
	t, _ := args.Get(0).(map[uint]string)
	return t, args.Error(1)
}
func (m *mockStoryRepo) PublishDue(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type mockLikeRepo struct{ mock.Mock }

func (m *mockLikeRepo) LikeStory(ctx context.Context, storyID, userID uint) error {
	return m.Called(ctx, storyID, userID).Error(0)
}
func (m *mockLikeRepo) HasUserLikedStory(ctx context.Context, storyID, userID uint) (bool, error) {
	args := m.Called(ctx, storyID, userID)
	return args.Bool(0), args.Error(1)
}
func (m *mockLikeRepo) CountByUser(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type mockCommentRepo struct{ mock.Mock }

func (m *mockCommentRepo) AddComment(ctx context.Context, comment *models.Comment) error {
	return m.Called(ctx, comment).Error(0)
}
func (m *mockCommentRepo) GetCommentsByStoryID(ctx context.Context, storyID uint) ([]models.CommentWithAuthor, error) {
	args := m.Called(ctx, storyID)
	c, _ := args.Get(0).([]models.CommentWithAuthor)
	return c, args.Error(1)
}
func (m *mockCommentRepo) CountByUser(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type mockEngagementRepo struct{ mock.Mock }

func (m *mockEngagementRepo) ShareStory(ctx context.Context, share *models.Share) error {
	return m.Called(ctx, share).Error(0)
}
func (m *mockEngagementRepo) TrackView(ctx context.Context, view *models.View) error {
	return m.Called(ctx, view).Error(0)
}
func (m *mockEngagementRepo) ActivityCounts(ctx context.Context, userID uint) (*models.ActivityCounts, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(*models.ActivityCounts)
	return c, args.Error(1)
}

type mockActivityRepo struct{ mock.Mock }

func (m *mockActivityRepo) Record(ctx context.Context, activity *models.Activity) error {
	return m.Called(ctx, activity).Error(0)
}
func (m *mockActivityRepo) ListByUser(ctx context.Context, userID uint, limit int64) ([]models.Activity, error) {
	args := m.Called(ctx, userID, limit)
	a, _ := args.Get(0).([]models.Activity)
	return a, args.Error(1)
}

type mockNotificationRepo struct{ mock.Mock }

func (m *mockNotificationRepo) CreateNotification(ctx context.Context, n *models.Notification) error {
	return m.Called(ctx, n).Error(0)
}
func (m *mockNotificationRepo) RequestRoleChange(ctx context.Context, userID uint) (*models.Notification, error) {
	args := m.Called(ctx, userID)
	n, _ := args.Get(0).(*models.Notification)
	return n, args.Error(1)
}
func (m *mockNotificationRepo) ApproveRoleChange(ctx context.Context, id uint) (uint, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(uint), args.Error(1)
}
func (m *mockNotificationRepo) RejectRoleChange(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
func (m *mockNotificationRepo) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	args := m.Called(ctx, id)
	n, _ := args.Get(0).(*models.Notification)
	return n, args.Error(1)
}
func (m *mockNotificationRepo) GetByUserID(ctx context.Context, userID uint) ([]models.Notification, error) {
	args := m.Called(ctx, userID)
	n, _ := args.Get(0).([]models.Notification)
	return n, args.Error(1)
}
func (m *mockNotificationRepo) GetForAuthor(ctx context.Context, userID uint) ([]models.Notification, error) {
	args := m.Called(ctx, userID)
	n, _ := args.Get(0).([]models.Notification)
	return n, args.Error(1)
}
func (m *mockNotificationRepo) GetAdminInbox(ctx context.Context) (*models.AdminInbox, error) {
	args := m.Called(ctx)
	n, _ := args.Get(0).(*models.AdminInbox)
	return n, args.Error(1)
}
func (m *mockNotificationRepo) HasApprovedRoleChange(ctx context.Context, userID uint) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}
func (m *mockNotificationRepo) GetUnreadCount(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *mockNotificationRepo) MarkAsRead(ctx context.Context, id, userID uint) error {
	return m.Called(ctx, id, userID).Error(0)
}

type mockCategoryRepo struct{ mock.Mock }

func (m *mockCategoryRepo) List(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	c, _ := args.Get(0).([]models.Category)
	return c, args.Error(1)
}
func (m *mockCategoryRepo) GetByName(ctx context.Context, name string) (*models.Category, error) {
	args := m.Called(ctx, name)
	c, _ := args.Get(0).(*models.Category)
	return c, args.Error(1)
}
func (m *mockCategoryRepo) Create(ctx context.Context, category *models.Category) error {
	return m.Called(ctx, category).Error(0)
}
func (m *mockCategoryRepo) Update(ctx context.Context, category *models.Category) error {
	return m.Called(ctx, category).Error(0)
}
func (m *mockCategoryRepo) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockCategoryRepo) TopByStoryCount(ctx context.Context, limit int) ([]models.CategoryCount, error) {
	args := m.Called(ctx, limit)
	c, _ := args.Get(0).([]models.CategoryCount)
	return c, args.Error(1)
}

type mockReportRepo struct{ mock.Mock }

func (m *mockReportRepo) EngagementTotals(ctx context.Context, authorID uint) (*models.EngagementTotals, error) {
	args := m.Called(ctx, authorID)
	t, _ := args.Get(0).(*models.EngagementTotals)
	return t, args.Error(1)
}
func (m *mockReportRepo) StatusCounts(ctx context.Context, authorID uint) (*models.StatusCounts, error) {
	args := m.Called(ctx, authorID)
	s, _ := args.Get(0).(*models.StatusCounts)
	return s, args.Error(1)
}
func (m *mockReportRepo) TopStories(ctx context.Context, limit int) ([]models.TopStory, error) {
	args := m.Called(ctx, limit)
	s, _ := args.Get(0).([]models.TopStory)
	return s, args.Error(1)
}
func (m *mockReportRepo) TopStoriesByAuthor(ctx context.Context, authorID uint, limit int) ([]models.Story, error) {
	args := m.Called(ctx, authorID, limit)
	s, _ := args.Get(0).([]models.Story)
	return s, args.Error(1)
}
func (m *mockReportRepo) AuthorPerformance(ctx context.Context, limit int) ([]models.AuthorPerformance, error) {
	args := m.Called(ctx, limit)
	a, _ := args.Get(0).([]models.AuthorPerformance)
	return a, args.Error(1)
}
func (m *mockReportRepo) CategoryDistribution(ctx context.Context, authorID uint) ([]models.LabelCount, error) {
	args := m.Called(ctx, authorID)
	c, _ := args.Get(0).([]models.LabelCount)
	return c, args.Error(1)
}
func (m *mockReportRepo) GenderDistribution(ctx context.Context) ([]models.LabelCount, error) {
	args := m.Called(ctx)
	c, _ := args.Get(0).([]models.LabelCount)
	return c, args.Error(1)
}
func (m *mockReportRepo) TopCountries(ctx context.Context, limit int) ([]models.LabelCount, error) {
	args := m.Called(ctx, limit)
	c, _ := args.Get(0).([]models.LabelCount)
	return c, args.Error(1)
}
func (m *mockReportRepo) DailyTraffic(ctx context.Context, since time.Time) ([]models.DailyTraffic, error) {
	args := m.Called(ctx, since)
	d, _ := args.Get(0).([]models.DailyTraffic)
	return d, args.Error(1)
}
func (m *mockReportRepo) RecentUsers(ctx context.Context, limit int) ([]models.User, error) {
	args := m.Called(ctx, limit)
	u, _ := args.Get(0).([]models.User)
	return u, args.Error(1)
}
func (m *mockReportRepo) ReaderStats(ctx context.Context, userID uint) (*models.ReaderStats, error) {
	args := m.Called(ctx, userID)
	s, _ := args.Get(0).(*models.ReaderStats)
	return s, args.Error(1)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) Send(to, subject, body string) error {
	return m.Called(to, subject, body).Error(0)
}

type mockVerifier struct{ mock.Mock }

func (m *mockVerifier) Verify(ctx context.Context, idToken string) (*firebase.Identity, error) {
	args := m.Called(ctx, idToken)
	id, _ := args.Get(0).(*firebase.Identity)
	return id, args.Error(1)
}

type mockPlaces struct{ mock.Mock }

func (m *mockPlaces) Countries(ctx context.Context) []geo.Place {
	return m.Called(ctx).Get(0).([]geo.Place)
}
func (m *mockPlaces) States(ctx context.Context, country string) []geo.Place {
	return m.Called(ctx, country).Get(0).([]geo.Place)
}
func (m *mockPlaces) Cities(ctx context.Context, country, state string) []geo.Place {
	return m.Called(ctx, country, state).Get(0).([]geo.Place)
}
