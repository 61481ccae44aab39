package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"tipstock/internal/db"
	"tipstock/internal/middleware"
	"tipstock/internal/models"
	"tipstock/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))

	db.DB = conn
}

// renderedPage captures what a handler asked the template layer to show,
// standing in for the multitemplate renderer.
type renderedPage struct {
	Name string
	Data gin.H
}

type pageRecorder struct {
	page *renderedPage
}

func (r *pageRecorder) Instance(name string, data any) render.Render {
	r.page.Name = name
	if h, ok := data.(gin.H); ok {
		r.page.Data = h
	}
	return &discardRender{}
}

type discardRender struct{}

func (discardRender) Render(http.ResponseWriter) error     { return nil }
func (discardRender) WriteContentType(http.ResponseWriter) {}

// newTestEngine builds a minimal engine with the given user pre-loaded
// into the request context, the way LoadUser would.
func newTestEngine(user *models.User, page *renderedPage) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.HTMLRender = &pageRecorder{page: page}
	r.Use(sessions.Sessions("tipstock_session", cookie.NewStore([]byte("test-secret"))))
	r.Use(func(c *gin.Context) {
		if user != nil {
			c.Set(middleware.CheckUserKey, user)
		}
	})
	return r
}

func postForm(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)
	return w
}

func createUser(t *testing.T, username, email string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: email, Password: "not-a-real-hash", IsActive: true}
	require.NoError(t, db.DB.Create(user).Error)
	return user
}

func createTip(t *testing.T, owner *models.User, title, visibility string) *models.Tip {
	t.Helper()
	tip := &models.Tip{Title: title, Description: "d", Visibility: visibility, CreatedByID: owner.ID}
	require.NoError(t, db.DB.Create(tip).Error)
	return tip
}

func TestWithdrawSurfacesMailFailure(t *testing.T) {
	setupTestDB(t)
	// A header-injecting address makes the mailer reject the notice after
	// the deactivation has committed.
	user := createUser(t, "leaver", "leaver@example.com\r\nBcc: sneak@example.com")

	page := &renderedPage{}
	r := newTestEngine(user, page)
	r.POST("/withdrawal", NewUserHandler().Withdraw)

	w := postForm(t, r, "/withdrawal", "keep_private_tips=1")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user/withdrawal_done.html", page.Name)
	assert.Contains(t, page.Data["Error"], "confirmation mail could not be sent")

	var reloaded models.User
	require.NoError(t, db.DB.First(&reloaded, user.ID).Error)
	assert.False(t, reloaded.IsActive, "the committed deactivation stands")
}

func TestWithdrawRedirectsWhenMailAccepted(t *testing.T) {
	setupTestDB(t)
	user := createUser(t, "leaver", "leaver@example.com")

	page := &renderedPage{}
	r := newTestEngine(user, page)
	r.POST("/withdrawal", NewUserHandler().Withdraw)

	w := postForm(t, r, "/withdrawal", "keep_private_tips=1")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/withdrawal/done", w.Header().Get("Location"))
}

func TestAddLikeRedirectsWithInfo(t *testing.T) {
	setupTestDB(t)
	owner := createUser(t, "owner", "owner@example.com")
	fan := createUser(t, "fan", "fan@example.com")
	tip := createTip(t, owner, "liked", models.TipPublic)
	createTip(t, fan, "fan tip 1", models.TipPrivate)

	page := &renderedPage{}
	r := newTestEngine(fan, page)
	e := NewEngagementHandler()
	r.POST("/tips/:id/like", e.AddLike)

	// One own tip: the business rule refuses, but non-blockingly.
	w := postForm(t, r, fmt.Sprintf("/tips/%d/like", tip.ID), "")
	assert.Equal(t, http.StatusFound, w.Code)
	location := w.Header().Get("Location")
	assert.Contains(t, location, fmt.Sprintf("/tips/%d?info=", tip.ID))

	createTip(t, fan, "fan tip 2", models.TipPrivate)

	w = postForm(t, r, fmt.Sprintf("/tips/%d/like", tip.ID), "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, fmt.Sprintf("/tips/%d", tip.ID), w.Header().Get("Location"))

	// Repeating the like is a no-op reported as info, not an error page.
	w = postForm(t, r, fmt.Sprintf("/tips/%d/like", tip.ID), "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "info=")
}

func TestLikeInvalidatesPublicListCache(t *testing.T) {
	setupTestDB(t)
	owner := createUser(t, "owner", "owner@example.com")
	fan := createUser(t, "fan", "fan@example.com")
	tip := createTip(t, owner, "cached", models.TipPublic)
	createTip(t, fan, "fan tip 1", models.TipPrivate)
	createTip(t, fan, "fan tip 2", models.TipPrivate)

	page := &renderedPage{}
	r := newTestEngine(fan, page)
	e := NewEngagementHandler()
	r.POST("/tips/:id/like", e.AddLike)
	r.POST("/tips/:id/comment", e.AddComment)

	utils.GetCache().Set(publicListCacheKey, "stale", time.Minute)
	w := postForm(t, r, fmt.Sprintf("/tips/%d/like", tip.ID), "")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Nil(t, utils.GetCache().Get(publicListCacheKey), "a like drops the cached first page")

	utils.GetCache().Set(publicListCacheKey, "stale", time.Minute)
	w = postForm(t, r, fmt.Sprintf("/tips/%d/comment", tip.ID), "text=nice&no_recipient=1")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Nil(t, utils.GetCache().Get(publicListCacheKey), "a comment drops the cached first page")
}
