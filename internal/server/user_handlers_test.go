package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tomosu/internal/models"
)

func TestGetUserProfile(t *testing.T) {
	_, app := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/1", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var profile models.UserProfile
	require.NoError(t, json.Unmarshal(body, &profile))
	assert.Equal(t, "taro", profile.Username)
	assert.Equal(t, 1, profile.FollowersCount)
	assert.Equal(t, 0, profile.FollowingCount)
	assert.Equal(t, 1, profile.PostsCount)

	missing := httptest.NewRequest(http.MethodGet, "/api/v1/users/404", nil)
	missingResp, err := app.Test(missing)
	require.NoError(t, err)
	defer func() { _ = missingResp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, missingResp.StatusCode)
}

func TestGetFollowersAndFollowing(t *testing.T) {
	_, app := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/1/followers", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var followers []models.User
	require.NoError(t, json.Unmarshal(body, &followers))
	require.Len(t, followers, 1)
	assert.Equal(t, "hana", followers[0].Username)

	noneReq := httptest.NewRequest(http.MethodGet, "/api/v1/users/3/following", nil)
	noneResp, err := app.Test(noneReq)
	require.NoError(t, err)
	defer func() { _ = noneResp.Body.Close() }()
	require.Equal(t, http.StatusOK, noneResp.StatusCode)

	noneBody, err := io.ReadAll(noneResp.Body)
	require.NoError(t, err)
	var following []models.User
	require.NoError(t, json.Unmarshal(noneBody, &following))
	assert.Empty(t, following)
}

func TestGetBookmarks(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		tokenUserID    uint
		expectedStatus int
	}{
		{name: "own bookmarks", path: "/api/v1/users/2/bookmarks", tokenUserID: 2, expectedStatus: http.StatusOK},
		{name: "someone else's bookmarks", path: "/api/v1/users/2/bookmarks", tokenUserID: 1, expectedStatus: http.StatusForbidden},
		{name: "unauthenticated", path: "/api/v1/users/2/bookmarks", tokenUserID: 0, expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, app := newTestServer(t)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.tokenUserID != 0 {
				req.Header.Set("Authorization", "Bearer "+authToken(t, tt.tokenUserID))
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			require.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == http.StatusOK {
				posts := decodePosts(t, resp)
				require.Len(t, posts, 1)
				assert.Equal(t, uint(10), posts[0].ID)
				assert.True(t, posts[0].IsBookmarked)
			}
		})
	}
}
