package handlers

import (
	"net/http"
	"testing"

	"github.com/anonto42/story-creator/backend/internal/models"
	"github.com/anonto42/story-creator/backend/internal/session"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type notificationFixture struct {
	e        *echo.Echo
	repo     *mockNotificationRepo
	sessions *session.Manager
}

// newNotificationFixture mounts the role group matching auth.Role.
func newNotificationFixture(t *testing.T, auth *session.AuthContext) *notificationFixture {
	f := &notificationFixture{
		e:        newTestEcho(t),
		repo:     new(mockNotificationRepo),
		sessions: newTestSessions(),
	}
	h := NewNotificationHandler(f.repo, f.sessions, zap.NewNop())
	h.RegisterNotificationRoutes(f.e.Group("", withAuth(auth)))
	g := f.e.Group("/"+auth.Role, withAuth(auth))
	switch auth.Role {
	case models.RoleReader:
		h.RegisterReaderRoutes(g)
	case models.RoleAuthor:
		h.RegisterAuthorRoutes(g)
	case models.RoleAdmin:
		h.RegisterAdminRoutes(g)
	}
	return f
}

func TestRequestAuthorRole(t *testing.T) {
	f := newNotificationFixture(t, readerAuth(4))
	f.repo.On("RequestRoleChange", mock.Anything, uint(4)).
		Return(&models.Notification{ID: 21, UserID: 4, Type: models.NotificationRoleChange, Status: models.NotificationPending}, nil)

	rec := postJSON(f.e, "/reader/request-author", `{}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Your request has been sent to the admin.", decodeJSON(t, rec)["message"])
}

func TestRequestAuthorRoleRejectsDuplicate(t *testing.T) {
	f := newNotificationFixture(t, readerAuth(4))
	f.repo.On("RequestRoleChange", mock.Anything, uint(4)).Return(nil, models.ErrPendingRequestExists)

	rec := postJSON(f.e, "/reader/request-author", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, models.ErrPendingRequestExists.Error(), decodeJSON(t, rec)["error"])
}

func TestNotifyAdminRequiresMessage(t *testing.T) {
	f := newNotificationFixture(t, authorAuth(5))

	rec := postJSON(f.e, "/author/notify-admin", `{"message":"  "}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Message is required", decodeJSON(t, rec)["error"])
	f.repo.AssertNotCalled(t, "CreateNotification", mock.Anything, mock.Anything)
}

func TestNotifyAdminStoresTypedMessage(t *testing.T) {
	f := newNotificationFixture(t, readerAuth(4))
	f.repo.On("CreateNotification", mock.Anything, mock.MatchedBy(func(n *models.Notification) bool {
		return n.UserID == 4 && n.Type == models.NotificationReaderMessage && n.Message == "Hello"
	})).Return(nil)

	rec := postJSON(f.e, "/reader/notify-admin", `{"message":" Hello "}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	f.repo.AssertExpectations(t)
}

func TestApproveOwnRequestSwitchesSession(t *testing.T) {
	auth := adminAuth(1)
	f := newNotificationFixture(t, auth)
	cookies := signIn(t, f.sessions, userWithRoles(1, models.RoleReader, models.RoleAdmin))
	f.repo.On("ApproveRoleChange", mock.Anything, uint(8)).Return(uint(1), nil)

	rec := post(f.e, "/admin/notifications/8/approve", cookies...)

	require.Equal(t, http.StatusOK, rec.Code)
	v, ok := sessionValues(t, f.sessions, rec.Result().Cookies())
	require.True(t, ok)
	assert.Equal(t, models.RoleAuthor, v.Role)
	assert.Equal(t, models.RoleAdmin, v.OriginalRole)
}

func TestApproveOtherUserKeepsSession(t *testing.T) {
	f := newNotificationFixture(t, adminAuth(1))
	f.repo.On("ApproveRoleChange", mock.Anything, uint(8)).Return(uint(4), nil)

	rec := post(f.e, "/admin/notifications/8/approve")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 4, decodeJSON(t, rec)["user_id"])
	assert.Empty(t, rec.Result().Cookies())
}

func TestApproveHandledRequest(t *testing.T) {
	f := newNotificationFixture(t, adminAuth(1))
	f.repo.On("ApproveRoleChange", mock.Anything, uint(8)).Return(uint(0), models.ErrRequestNotFound)

	rec := post(f.e, "/admin/notifications/8/approve")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, models.ErrRequestNotFound.Error(), decodeJSON(t, rec)["error"])
}

func TestRejectIsNoOpWhenHandled(t *testing.T) {
	f := newNotificationFixture(t, adminAuth(1))
	f.repo.On("RejectRoleChange", mock.Anything, uint(8)).Return(false, nil)

	rec := post(f.e, "/admin/notifications/8/reject")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decodeJSON(t, rec)["updated"])
}

func TestReplyAddressesOriginalSender(t *testing.T) {
	f := newNotificationFixture(t, adminAuth(1))
	f.repo.On("GetByID", mock.Anything, uint(9)).Return(&models.Notification{ID: 9, UserID: 6}, nil)
	f.repo.On("CreateNotification", mock.Anything, mock.MatchedBy(func(n *models.Notification) bool {
		return n.UserID == 6 && n.Type == models.NotificationReply && n.Status == models.NotificationUnread
	})).Return(nil)

	rec := postJSON(f.e, "/admin/notifications/9/reply", `{"message":"Thanks"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	f.repo.AssertExpectations(t)
}

func TestReplyToMissingNotification(t *testing.T) {
	f := newNotificationFixture(t, adminAuth(1))
	f.repo.On("GetByID", mock.Anything, uint(9)).Return(nil, models.ErrNotFound)

	rec := postJSON(f.e, "/admin/notifications/9/reply", `{"message":"Thanks"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReaderNotificationsDetectUpgrade(t *testing.T) {
	auth := readerAuth(4)
	auth.Roles = models.NewRoleSet(models.RoleReader, models.RoleAuthor)
	f := newNotificationFixture(t, auth)
	cookies := signIn(t, f.sessions, userWithRoles(4, models.RoleReader))
	f.repo.On("GetByUserID", mock.Anything, uint(4)).Return(nil, nil)
	f.repo.On("HasApprovedRoleChange", mock.Anything, uint(4)).Return(true, nil)

	rec := get(f.e, "/reader/notifications", cookies...)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeJSON(t, rec)
	assert.Equal(t, true, body["role_upgraded"])
	assert.Equal(t, []interface{}{}, body["notifications"])
	v, _ := sessionValues(t, f.sessions, rec.Result().Cookies())
	assert.Equal(t, models.RoleAuthor, v.Role)
}

func TestReaderNotificationsWithoutGrant(t *testing.T) {
	f := newNotificationFixture(t, readerAuth(4))
	f.repo.On("GetByUserID", mock.Anything, uint(4)).Return([]models.Notification{{ID: 1, UserID: 4}}, nil)
	f.repo.On("HasApprovedRoleChange", mock.Anything, uint(4)).Return(true, nil)

	rec := get(f.e, "/reader/notifications")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decodeJSON(t, rec)["role_upgraded"])
}

func TestMarkAsReadScopedToOwner(t *testing.T) {
	f := newNotificationFixture(t, authorAuth(5))
	f.repo.On("MarkAsRead", mock.Anything, uint(3), uint(5)).Return(models.ErrNotFound)

	rec := post(f.e, "/notifications/3/read")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnreadCount(t *testing.T) {
	f := newNotificationFixture(t, authorAuth(5))
	f.repo.On("GetUnreadCount", mock.Anything, uint(5)).Return(int64(2), nil)

	rec := get(f.e, "/notifications/unread-count")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, decodeJSON(t, rec)["count"])
}
