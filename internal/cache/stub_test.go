package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tomosu/internal/models"
)

// stubSource is an in-memory SnapshotSource for tests. Setting failOn to a
// fetch name makes that fetch return an error.
type stubSource struct {
	users     []models.User
	tags      []models.Tag
	posts     []models.Post
	postTags  []models.PostTag
	comments  []models.Comment
	likes     []models.Like
	bookmarks []models.Bookmark
	follows   []models.Follow
	surveys   []models.Survey
	answers   []models.SurveyAnswer

	failOn string
}

var errStubFetch = errors.New("backing store unreachable")

func (s *stubSource) fail(name string) error {
	if s.failOn == name {
		return errStubFetch
	}
	return nil
}

func (s *stubSource) FetchUsers(_ context.Context) ([]models.User, error) {
	return s.users, s.fail("users")
}

func (s *stubSource) FetchTags(_ context.Context) ([]models.Tag, error) {
	return s.tags, s.fail("tags")
}

func (s *stubSource) FetchPosts(_ context.Context) ([]models.Post, error) {
	return s.posts, s.fail("posts")
}

func (s *stubSource) FetchPostTags(_ context.Context) ([]models.PostTag, error) {
	return s.postTags, s.fail("post_tags")
}

func (s *stubSource) FetchComments(_ context.Context) ([]models.Comment, error) {
	return s.comments, s.fail("comments")
}

func (s *stubSource) FetchLikes(_ context.Context) ([]models.Like, error) {
	return s.likes, s.fail("likes")
}

func (s *stubSource) FetchBookmarks(_ context.Context) ([]models.Bookmark, error) {
	return s.bookmarks, s.fail("bookmarks")
}

func (s *stubSource) FetchFollows(_ context.Context) ([]models.Follow, error) {
	return s.follows, s.fail("follows")
}

func (s *stubSource) FetchSurveys(_ context.Context) ([]models.Survey, error) {
	return s.surveys, s.fail("surveys")
}

func (s *stubSource) FetchSurveyAnswers(_ context.Context) ([]models.SurveyAnswer, error) {
	return s.answers, s.fail("survey_responses")
}

var fixtureTime = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

// communitySource builds the reference fixture used across the package:
// three users, two posts with identical timestamps (ordering falls to the id
// tie-break), one like, one bookmark, follows, comments, and one survey.
func communitySource() *stubSource {
	deadline := fixtureTime.AddDate(0, 1, 0)
	return &stubSource{
		users: []models.User{
			{ID: 1, Username: "taro", DisplayName: "Taro", Email: "taro@example.com", Area: "Shibuya", CreatedAt: fixtureTime},
			{ID: 2, Username: "hana", DisplayName: "Hana", Email: "hana@example.com", Area: "Meguro", CreatedAt: fixtureTime},
			{ID: 3, Username: "ken", DisplayName: "Ken", Email: "ken@example.com", Area: "Setagaya", CreatedAt: fixtureTime},
		},
		tags: []models.Tag{
			{ID: 1, Name: "news"},
			{ID: 2, Name: "local"},
		},
		posts: []models.Post{
			{ID: 10, UserID: 1, Content: "morning market this weekend", CreatedAt: fixtureTime, UpdatedAt: fixtureTime},
			{ID: 11, UserID: 2, Content: "road closure on main street", CreatedAt: fixtureTime, UpdatedAt: fixtureTime},
		},
		postTags: []models.PostTag{
			{PostID: 10, TagID: 1},
			{PostID: 11, TagID: 1},
			{PostID: 11, TagID: 2},
		},
		comments: []models.Comment{
			{ID: 1, PostID: 10, UserID: 2, Content: "first", CreatedAt: fixtureTime.Add(1 * time.Minute)},
			{ID: 2, PostID: 10, UserID: 3, Content: "second", CreatedAt: fixtureTime.Add(2 * time.Minute)},
			{ID: 3, PostID: 10, UserID: 1, Content: "third", CreatedAt: fixtureTime.Add(3 * time.Minute)},
		},
		likes: []models.Like{
			{UserID: 3, PostID: 10, CreatedAt: fixtureTime},
		},
		bookmarks: []models.Bookmark{
			{UserID: 2, PostID: 10, CreatedAt: fixtureTime},
		},
		follows: []models.Follow{
			{FollowerID: 2, FolloweeID: 1, CreatedAt: fixtureTime},
			{FollowerID: 3, FolloweeID: 1, CreatedAt: fixtureTime},
			{FollowerID: 1, FolloweeID: 3, CreatedAt: fixtureTime},
		},
		surveys: []models.Survey{
			{ID: 5, Title: "Park renovation", QuestionText: "Do you support the plan?", Points: 10, Deadline: &deadline, TargetAudience: "all", CreatedAt: fixtureTime},
			{ID: 6, Title: "Bus schedule", QuestionText: "Keep the late bus?", Points: 5, TargetAudience: "all", CreatedAt: fixtureTime.Add(time.Hour)},
		},
		answers: []models.SurveyAnswer{
			{ID: 1, SurveyID: 5, UserID: 1, Choice: "yes", Comment: "long overdue", CreatedAt: fixtureTime},
			{ID: 2, SurveyID: 5, UserID: 2, Choice: "yes", CreatedAt: fixtureTime},
			{ID: 3, SurveyID: 5, UserID: 3, Choice: "no", Comment: "too expensive", CreatedAt: fixtureTime},
		},
	}
}

func newLoadedManager(t *testing.T, src *stubSource, opts Options) *Manager {
	t.Helper()
	m := New(opts)
	require.NoError(t, m.Initialize(context.Background(), src))
	return m
}
