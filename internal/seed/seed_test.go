package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tomosu/internal/database"
	"tomosu/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestSeed_PopulatesAllEntityTypes(t *testing.T) {
	db := newTestDB(t)
	s := NewSeeder(db)

	require.NoError(t, s.Seed(Options{NumUsers: 10, NumPosts: 20, NumSurveys: 2}))

	var userCount, postCount, tagCount, joinCount, surveyCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&postCount).Error)
	require.NoError(t, db.Model(&models.Tag{}).Count(&tagCount).Error)
	require.NoError(t, db.Model(&models.PostTag{}).Count(&joinCount).Error)
	require.NoError(t, db.Model(&models.Survey{}).Count(&surveyCount).Error)

	assert.Equal(t, int64(10), userCount)
	assert.Equal(t, int64(20), postCount)
	assert.Equal(t, int64(len(tagNames)), tagCount)
	assert.GreaterOrEqual(t, joinCount, postCount, "every post carries at least one tag")
	assert.Equal(t, int64(2), surveyCount)
}

func TestSeed_ReferentialIntegrity(t *testing.T) {
	db := newTestDB(t)
	s := NewSeeder(db)
	require.NoError(t, s.Seed(Options{NumUsers: 8, NumPosts: 15, NumSurveys: 1}))

	var orphanPosts int64
	require.NoError(t, db.Model(&models.Post{}).
		Where("user_id NOT IN (SELECT id FROM users)").
		Count(&orphanPosts).Error)
	assert.Zero(t, orphanPosts)

	var orphanComments int64
	require.NoError(t, db.Model(&models.Comment{}).
		Where("post_id NOT IN (SELECT id FROM posts) OR user_id NOT IN (SELECT id FROM users)").
		Count(&orphanComments).Error)
	assert.Zero(t, orphanComments)

	var selfFollows int64
	require.NoError(t, db.Model(&models.Follow{}).
		Where("follower_id = followee_id").
		Count(&selfFollows).Error)
	assert.Zero(t, selfFollows)
}

func TestClearAll(t *testing.T) {
	db := newTestDB(t)
	s := NewSeeder(db)
	require.NoError(t, s.Seed(Options{NumUsers: 5, NumPosts: 5, NumSurveys: 1}))
	require.NoError(t, s.ClearAll())

	var userCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	assert.Zero(t, userCount)
}
