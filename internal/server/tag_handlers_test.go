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

func TestGetTags(t *testing.T) {
	_, app := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tags", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var tags []models.Tag
	require.NoError(t, json.Unmarshal(body, &tags))
	require.Len(t, tags, 2)
	assert.Equal(t, "local", tags[0].Name)
	assert.Equal(t, 1, tags[0].PostsCount)
	assert.Equal(t, "news", tags[1].Name)
	assert.Equal(t, 2, tags[1].PostsCount)
}

func TestGetPostsByTag(t *testing.T) {
	_, app := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tags/news/posts", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	posts := decodePosts(t, resp)
	require.Len(t, posts, 2)
	assert.Equal(t, uint(11), posts[0].ID)
	assert.Equal(t, uint(10), posts[1].ID)

	unknown := httptest.NewRequest(http.MethodGet, "/api/v1/tags/nonexistent/posts", nil)
	unknownResp, err := app.Test(unknown)
	require.NoError(t, err)
	defer func() { _ = unknownResp.Body.Close() }()
	require.Equal(t, http.StatusOK, unknownResp.StatusCode)
	assert.Empty(t, decodePosts(t, unknownResp), "unknown tag is an empty list, not 404")
}
