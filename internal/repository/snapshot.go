// Package repository provides the data access layer between the backing
// relational store and the in-memory cache. The cache manager consumes full
// snapshots only; no filtering or pagination is pushed down.
package repository

import (
	"context"

	"tomosu/internal/models"

	"gorm.io/gorm"
)

// SnapshotSource exposes one fetch-all operation per entity type. Each call
// returns the complete current row set of its table.
type SnapshotSource interface {
	FetchUsers(ctx context.Context) ([]models.User, error)
	FetchTags(ctx context.Context) ([]models.Tag, error)
	FetchPosts(ctx context.Context) ([]models.Post, error)
	FetchPostTags(ctx context.Context) ([]models.PostTag, error)
	FetchComments(ctx context.Context) ([]models.Comment, error)
	FetchLikes(ctx context.Context) ([]models.Like, error)
	FetchBookmarks(ctx context.Context) ([]models.Bookmark, error)
	FetchFollows(ctx context.Context) ([]models.Follow, error)
	FetchSurveys(ctx context.Context) ([]models.Survey, error)
	FetchSurveyAnswers(ctx context.Context) ([]models.SurveyAnswer, error)
}

// snapshotRepository implements SnapshotSource over GORM.
type snapshotRepository struct {
	db *gorm.DB
}

// NewSnapshotRepository creates a SnapshotSource backed by the given database.
func NewSnapshotRepository(db *gorm.DB) SnapshotSource {
	return &snapshotRepository{db: db}
}

func (r *snapshotRepository) FetchUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error
	return users, err
}

func (r *snapshotRepository) FetchTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.WithContext(ctx).Order("id ASC").Find(&tags).Error
	return tags, err
}

func (r *snapshotRepository) FetchPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).Order("id ASC").Find(&posts).Error
	return posts, err
}

func (r *snapshotRepository) FetchPostTags(ctx context.Context) ([]models.PostTag, error) {
	var rows []models.PostTag
	err := r.db.WithContext(ctx).Find(&rows).Error
	return rows, err
}

func (r *snapshotRepository) FetchComments(ctx context.Context) ([]models.Comment, error) {
	var comments []models.Comment
	// Ascending creation order so per-post lists arrive pre-sorted.
	err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&comments).Error
	return comments, err
}

func (r *snapshotRepository) FetchLikes(ctx context.Context) ([]models.Like, error) {
	var likes []models.Like
	err := r.db.WithContext(ctx).Find(&likes).Error
	return likes, err
}

func (r *snapshotRepository) FetchBookmarks(ctx context.Context) ([]models.Bookmark, error) {
	var bookmarks []models.Bookmark
	err := r.db.WithContext(ctx).Find(&bookmarks).Error
	return bookmarks, err
}

func (r *snapshotRepository) FetchFollows(ctx context.Context) ([]models.Follow, error) {
	var follows []models.Follow
	err := r.db.WithContext(ctx).Find(&follows).Error
	return follows, err
}

func (r *snapshotRepository) FetchSurveys(ctx context.Context) ([]models.Survey, error) {
	var surveys []models.Survey
	err := r.db.WithContext(ctx).Order("id ASC").Find(&surveys).Error
	return surveys, err
}

func (r *snapshotRepository) FetchSurveyAnswers(ctx context.Context) ([]models.SurveyAnswer, error) {
	var answers []models.SurveyAnswer
	err := r.db.WithContext(ctx).Find(&answers).Error
	return answers, err
}
