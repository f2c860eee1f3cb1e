package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinelog/cinelog-go/internal/sentiment"
)

func TestCreateReviewEndpoint(t *testing.T) {
	analyzer := &scriptedAnalyzer{
		fallback: sentiment.Result{Label: sentiment.Positive, Score: 0.8},
	}
	c := setupTestController(t, analyzer)
	movieID := createTestMovie(t, c, "Interstellar")

	rec := doRequest(c, http.MethodPost, "/api/v2/reviews",
		`{"movie_id": `+itoa(movieID)+`, "reviewer_name": "alice", "content": "Loved it."}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp ReviewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "POSITIVE", resp.Sentiment)
	assert.Equal(t, sentiment.DisplayLabel(sentiment.Positive), resp.SentimentLabel)
	assert.InDelta(t, 0.8, resp.Score, 1e-9)
}

func TestCreateReviewValidation(t *testing.T) {
	c := setupTestController(t, nil)

	tests := []struct {
		name string
		body string
		code int
	}{
		{"missing movie id", `{"reviewer_name": "alice", "content": "x"}`, http.StatusBadRequest},
		{"missing reviewer", `{"movie_id": 1, "content": "x"}`, http.StatusBadRequest},
		{"missing content", `{"movie_id": 1, "reviewer_name": "alice"}`, http.StatusBadRequest},
		{"unknown movie", `{"movie_id": 9999, "reviewer_name": "alice", "content": "x"}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(c, http.MethodPost, "/api/v2/reviews", tt.body)
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
		})
	}
}

func TestCreateReviewConflict(t *testing.T) {
	c := setupTestController(t, nil)
	movieID := createTestMovie(t, c, "Heat")

	body := `{"movie_id": ` + itoa(movieID) + `, "reviewer_name": "alice", "content": "First."}`
	rec := doRequest(c, http.MethodPost, "/api/v2/reviews", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(c, http.MethodPost, "/api/v2/reviews", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetReviewsWithAverage(t *testing.T) {
	analyzer := &scriptedAnalyzer{
		results: map[string]sentiment.Result{
			"good": {Label: sentiment.Positive, Score: 0.8},
			"bad":  {Label: sentiment.Negative, Score: 0.4},
		},
	}
	c := setupTestController(t, analyzer)
	movieID := createTestMovie(t, c, "Blade Runner")

	for _, body := range []string{
		`{"movie_id": ` + itoa(movieID) + `, "reviewer_name": "alice", "content": "good"}`,
		`{"movie_id": ` + itoa(movieID) + `, "reviewer_name": "bob", "content": "bad"}`,
	} {
		rec := doRequest(c, http.MethodPost, "/api/v2/reviews", body)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doRequest(c, http.MethodGet, "/api/v2/reviews?movie_id="+itoa(movieID)+"&page=1&page_size=1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ReviewListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp.Total)
	assert.Equal(t, 2, resp.TotalPages)
	require.NotNil(t, resp.AverageScore)
	assert.InDelta(t, 0.35, *resp.AverageScore, 1e-9, "average covers the full set, not just the page")
}

func TestGetReviewsUnknownMovieFilter(t *testing.T) {
	c := setupTestController(t, nil)

	rec := doRequest(c, http.MethodGet, "/api/v2/reviews?movie_id=9999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(c, http.MethodGet, "/api/v2/reviews?movie_id=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetReviewsEmpty(t *testing.T) {
	c := setupTestController(t, nil)

	rec := doRequest(c, http.MethodGet, "/api/v2/reviews", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ReviewListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(0), resp.Total)
	assert.Nil(t, resp.AverageScore)
}

func TestGetAndDeleteReview(t *testing.T) {
	c := setupTestController(t, nil)
	movieID := createTestMovie(t, c, "Seven")

	rec := doRequest(c, http.MethodPost, "/api/v2/reviews",
		`{"movie_id": `+itoa(movieID)+`, "reviewer_name": "alice", "content": "Grim."}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created ReviewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doRequest(c, http.MethodGet, "/api/v2/reviews/"+itoa(created.ID), "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(c, http.MethodDelete, "/api/v2/reviews/"+itoa(created.ID), "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(c, http.MethodGet, "/api/v2/reviews/"+itoa(created.ID), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(c, http.MethodDelete, "/api/v2/reviews/"+itoa(created.ID), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
