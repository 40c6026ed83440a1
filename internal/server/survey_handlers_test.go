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

func TestGetSurveys(t *testing.T) {
	_, app := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/surveys", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var surveys []models.Survey
	require.NoError(t, json.Unmarshal(body, &surveys))
	require.Len(t, surveys, 1)
	assert.Equal(t, "Park renovation", surveys[0].Title)
	assert.Equal(t, 2, surveys[0].ResponseCount)
}

func TestGetSurveyResponses(t *testing.T) {
	_, app := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/surveys/5/responses", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var results models.SurveyResults
	require.NoError(t, json.Unmarshal(body, &results))
	assert.Equal(t, 2, results.TotalResponses)
	assert.Equal(t, 1, results.ResponsesWithComments)
	assert.Equal(t, 1, results.ChoiceStatistics["yes"].Count)
	assert.InDelta(t, 50.0, results.ChoiceStatistics["yes"].Percentage, 0.01)

	missing := httptest.NewRequest(http.MethodGet, "/api/v1/surveys/404/responses", nil)
	missingResp, err := app.Test(missing)
	require.NoError(t, err)
	defer func() { _ = missingResp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, missingResp.StatusCode)
}

func TestGetSystemStats(t *testing.T) {
	_, app := newTestServer(t)

	// Issue one read first so the counters are non-zero.
	warm := httptest.NewRequest(http.MethodGet, "/api/v1/posts", nil)
	warmResp, err := app.Test(warm)
	require.NoError(t, err)
	_ = warmResp.Body.Close()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/system/stats", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var stats struct {
		Ready    bool   `json:"ready"`
		Requests uint64 `json:"requests_total"`
		Records  struct {
			Posts int `json:"posts"`
			Users int `json:"users"`
		} `json:"records"`
	}
	require.NoError(t, json.Unmarshal(body, &stats))
	assert.True(t, stats.Ready)
	assert.Equal(t, 2, stats.Records.Posts)
	assert.Equal(t, 3, stats.Records.Users)
	assert.GreaterOrEqual(t, stats.Requests, uint64(1))
}
