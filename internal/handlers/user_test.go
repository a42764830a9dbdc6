package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/anonto42/story-creator/backend/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newProfileFixture(t *testing.T) (*echo.Echo, *mockUserRepo, *memUploads) {
	uploads := newMemUploads(t)
	users := new(mockUserRepo)
	e := newTestEcho(t)
	NewUserHandler(users, uploads.Uploads, zap.NewNop()).RegisterProfileRoutes(e.Group("", withAuth(authorAuth(2))))
	return e, users, uploads
}

func TestGetProfileDefaultsPicture(t *testing.T) {
	e, users, _ := newProfileFixture(t)
	users.On("GetUserByID", mock.Anything, uint(2)).Return(userWithRoles(2, models.RoleReader, models.RoleAuthor), nil)

	rec := get(e, "/profile")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeJSON(t, rec)
	assert.Equal(t, defaultImage, body["picture_url"])
	assert.Equal(t, models.RoleAuthor, body["active_role"])
	assert.Equal(t, []interface{}{models.RoleReader, models.RoleAuthor}, body["roles"])
}

func TestUpdateProfilePhotoReplacesOld(t *testing.T) {
	e, users, uploads := newProfileFixture(t)
	old, err := uploads.Save("me.png", strings.NewReader("old"))
	require.NoError(t, err)
	user := userWithRoles(2, models.RoleReader)
	user.ProfilePic = &old
	users.On("GetUserByID", mock.Anything, uint(2)).Return(user, nil)
	users.On("UpdateProfilePic", mock.Anything, uint(2), mock.AnythingOfType("*string")).Return(nil)

	rec := postMultipart(t, e, "/profile", map[string]string{"action": "update_photo"}, "profile_pic", "new.jpeg", "new")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.False(t, uploads.has(old))
	assert.True(t, strings.HasPrefix(decodeJSON(t, rec)["picture_url"].(string), "/static/uploads/"))
}

func TestDeleteProfilePhoto(t *testing.T) {
	e, users, uploads := newProfileFixture(t)
	old, err := uploads.Save("me.png", strings.NewReader("old"))
	require.NoError(t, err)
	user := userWithRoles(2, models.RoleReader)
	user.ProfilePic = &old
	users.On("GetUserByID", mock.Anything, uint(2)).Return(user, nil)
	users.On("UpdateProfilePic", mock.Anything, uint(2), (*string)(nil)).Return(nil)

	rec := postMultipart(t, e, "/profile", map[string]string{"action": "delete_photo"}, "", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, uploads.has(old))
	assert.Equal(t, defaultImage, decodeJSON(t, rec)["picture_url"])
}

func TestUpdateProfileRejectsUnknownAction(t *testing.T) {
	e, users, _ := newProfileFixture(t)
	users.On("GetUserByID", mock.Anything, uint(2)).Return(userWithRoles(2), nil)

	rec := postMultipart(t, e, "/profile", map[string]string{"action": "rename"}, "", "", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
