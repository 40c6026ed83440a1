package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return db, mock
}

func TestSnapshotRepository_FetchUsers(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSnapshotRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" ORDER BY id ASC`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "display_name", "email", "area", "created_at"}).
			AddRow(1, "taro", "Taro", "taro@example.com", "Shibuya", now).
			AddRow(2, "hana", "Hana", "hana@example.com", "Meguro", now))

	users, err := repo.FetchUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, uint(1), users[0].ID)
	assert.Equal(t, "taro", users[0].Username)
	assert.Equal(t, "Meguro", users[1].Area)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRepository_FetchComments_OrderedAscending(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSnapshotRepository(db)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "comments" ORDER BY created_at ASC, id ASC`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_id", "user_id", "content", "created_at"}).
			AddRow(1, 10, 2, "first", base).
			AddRow(2, 10, 3, "second", base.Add(time.Minute)))

	comments, err := repo.FetchComments(context.Background())
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Content)
	assert.True(t, comments[0].CreatedAt.Before(comments[1].CreatedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRepository_FetchLikes(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSnapshotRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "likes"`)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "post_id"}).
			AddRow(3, 10).
			AddRow(2, 11))

	likes, err := repo.FetchLikes(context.Background())
	require.NoError(t, err)
	require.Len(t, likes, 2)
	assert.Equal(t, uint(3), likes[0].UserID)
	assert.Equal(t, uint(10), likes[0].PostID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRepository_FetchSurveyAnswers_TableName(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSnapshotRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "survey_responses"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "survey_id", "user_id", "choice", "comment"}).
			AddRow(1, 5, 1, "yes", ""))

	answers, err := repo.FetchSurveyAnswers(context.Background())
	require.NoError(t, err)
	require.Len(t, answers, 1)
	assert.Equal(t, "yes", answers[0].Choice)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRepository_FetchPosts_PropagatesError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSnapshotRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "posts" ORDER BY id ASC`)).
		WillReturnError(gorm.ErrInvalidDB)

	_, err := repo.FetchPosts(context.Background())
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
