package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tomosu/internal/models"
)

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

func TestInitialize_LoadsSnapshot(t *testing.T) {
	m := newLoadedManager(t, communitySource(), Options{})

	assert.True(t, m.Ready())

	status := m.Status()
	assert.True(t, status.Ready)
	assert.NotEmpty(t, status.SnapshotID)
	assert.Equal(t, 3, status.Records.Users)
	assert.Equal(t, 2, status.Records.Posts)
	assert.Equal(t, 3, status.Records.Comments)
	assert.Equal(t, 2, status.Records.Tags)
	assert.Equal(t, 1, status.Records.Likes)
	assert.Equal(t, 1, status.Records.Bookmarks)
	assert.Equal(t, 3, status.Records.Follows)
	assert.Equal(t, 2, status.Records.Surveys)
	assert.Equal(t, 3, status.Records.SurveyResponses)
}

func TestInitialize_FetchErrorAbortsLoad(t *testing.T) {
	for _, fetch := range []string{"users", "posts", "comments", "likes", "surveys"} {
		t.Run(fetch, func(t *testing.T) {
			src := communitySource()
			src.failOn = fetch

			m := New(Options{})
			err := m.Initialize(context.Background(), src)
			assertAppErrorCode(t, err, models.CodeLoadFailure)
			assert.ErrorIs(t, err, errStubFetch)
			assert.False(t, m.Ready())
		})
	}
}

func TestInitialize_IntegrityViolationsAreFatal(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*stubSource)
	}{
		{
			name: "post with unknown author",
			mutate: func(s *stubSource) {
				s.posts = append(s.posts, models.Post{ID: 99, UserID: 42, Content: "orphan", CreatedAt: fixtureTime})
			},
		},
		{
			name: "comment on unknown post",
			mutate: func(s *stubSource) {
				s.comments = append(s.comments, models.Comment{ID: 99, PostID: 404, UserID: 1, Content: "lost"})
			},
		},
		{
			name: "comment by unknown author",
			mutate: func(s *stubSource) {
				s.comments = append(s.comments, models.Comment{ID: 99, PostID: 10, UserID: 42, Content: "ghost"})
			},
		},
		{
			name: "like on unknown post",
			mutate: func(s *stubSource) {
				s.likes = append(s.likes, models.Like{UserID: 1, PostID: 404})
			},
		},
		{
			name: "bookmark by unknown user",
			mutate: func(s *stubSource) {
				s.bookmarks = append(s.bookmarks, models.Bookmark{UserID: 42, PostID: 10})
			},
		},
		{
			name: "follow of unknown followee",
			mutate: func(s *stubSource) {
				s.follows = append(s.follows, models.Follow{FollowerID: 1, FolloweeID: 42})
			},
		},
		{
			name: "tag association to unknown tag",
			mutate: func(s *stubSource) {
				s.postTags = append(s.postTags, models.PostTag{PostID: 10, TagID: 42})
			},
		},
		{
			name: "response to unknown survey",
			mutate: func(s *stubSource) {
				s.answers = append(s.answers, models.SurveyAnswer{ID: 99, SurveyID: 404, UserID: 1, Choice: "yes"})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := communitySource()
			tt.mutate(src)

			m := New(Options{})
			err := m.Initialize(context.Background(), src)
			assertAppErrorCode(t, err, models.CodeLoadFailure)
			assert.False(t, m.Ready())
		})
	}
}

func TestQueries_RejectedBeforeReady(t *testing.T) {
	m := New(Options{})

	_, listErr := m.ListPosts(0, 10, 0)
	assertAppErrorCode(t, listErr, models.CodeServiceUnavailable)

	_, getErr := m.GetPost(10, 0)
	assertAppErrorCode(t, getErr, models.CodeServiceUnavailable)

	_, commentsErr := m.ListComments(10, 0, 10)
	assertAppErrorCode(t, commentsErr, models.CodeServiceUnavailable)

	_, profileErr := m.GetUserProfile(1)
	assertAppErrorCode(t, profileErr, models.CodeServiceUnavailable)

	_, tagsErr := m.ListTags()
	assertAppErrorCode(t, tagsErr, models.CodeServiceUnavailable)

	_, surveysErr := m.ListSurveys()
	assertAppErrorCode(t, surveysErr, models.CodeServiceUnavailable)

	_, createErr := m.CreatePost(1, "hello", nil)
	assertAppErrorCode(t, createErr, models.CodeServiceUnavailable)

	status := m.Status()
	assert.False(t, status.Ready)
	assert.Empty(t, status.SnapshotID)
}

func TestStats_TracksRequestsAndErrors(t *testing.T) {
	m := newLoadedManager(t, communitySource(), Options{})

	_, err := m.ListPosts(0, 10, 0)
	require.NoError(t, err)
	_, err = m.GetPost(404, 0)
	require.Error(t, err)

	stats := m.Stats()
	assert.True(t, stats.Ready)
	assert.Equal(t, uint64(2), stats.Requests)
	assert.Equal(t, uint64(1), stats.Errors)
	assert.Equal(t, uint64(0), stats.PostsCreated)
	assert.GreaterOrEqual(t, stats.MaxLatencyMS, stats.AvgLatencyMS)

	_, err = m.CreatePost(1, "stats check", nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), m.Stats().PostsCreated)
}
