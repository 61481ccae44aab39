package services

import (
	"fmt"
	"strings"
	"testing"
	"tipstock/internal/db"
	"tipstock/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB swaps the global connection for a per-test in-memory
// database. The shared-cache name keeps all pooled connections of one
// test on the same database.
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

var userSeq int

func testUser(t *testing.T, username string) *models.User {
	t.Helper()
	userSeq++
	user := &models.User{
		Username: fmt.Sprintf("%s-%d", username, userSeq),
		Email:    fmt.Sprintf("%s-%d@example.com", username, userSeq),
		Password: "not-a-real-hash",
		IsActive: true,
	}
	require.NoError(t, db.DB.Create(user).Error)
	return user
}

func inactiveUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := testUser(t, username)
	require.NoError(t, db.DB.Model(user).Update("is_active", false).Error)
	user.IsActive = false
	return user
}

func testTip(t *testing.T, owner *models.User, title, visibility string) *models.Tip {
	t.Helper()
	tip := &models.Tip{
		Title:       title,
		Description: "description of " + title,
		Visibility:  visibility,
		CreatedByID: owner.ID,
	}
	require.NoError(t, db.DB.Create(tip).Error)
	require.NoError(t, db.DB.Create(&models.Code{TipID: tip.ID, Filename: "main.go", Content: "package main"}).Error)
	return tip
}

// withOwnTips gives the user enough tips of their own to pass the like
// gate.
func withOwnTips(t *testing.T, user *models.User, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		testTip(t, user, fmt.Sprintf("own tip %d", i), models.TipPrivate)
	}
}

func validInput(visibility string) TipInput {
	return TipInput{
		Title:       "a useful tip",
		Description: "how to do the thing",
		Visibility:  visibility,
		Tags:        []string{"go", "testing"},
		Codes:       []CodeInput{{Filename: "main.go", Content: "package main"}},
	}
}
