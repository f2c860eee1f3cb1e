package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinelog/cinelog-go/internal/catalog"
	"github.com/cinelog/cinelog-go/internal/conf"
	"github.com/cinelog/cinelog-go/internal/datastore"
	"github.com/cinelog/cinelog-go/internal/review"
	"github.com/cinelog/cinelog-go/internal/sentiment"
)

// scriptedAnalyzer returns canned sentiment results keyed by text.
type scriptedAnalyzer struct {
	results  map[string]sentiment.Result
	fallback sentiment.Result
}

func (s *scriptedAnalyzer) Analyze(_ context.Context, text string) (sentiment.Result, error) {
	if r, ok := s.results[text]; ok {
		return r, nil
	}
	return s.fallback, nil
}

// setupTestController builds a controller over a temporary SQLite store with
// all routes registered.
func setupTestController(t *testing.T, analyzer sentiment.Analyzer) *Controller {
	t.Helper()

	settings := &conf.Settings{}
	settings.Output.SQLite.Enabled = true
	settings.Output.SQLite.Path = t.TempDir() + "/test.db"

	ds := datastore.New(settings)
	require.NoError(t, ds.Open(), "Failed to open database")
	t.Cleanup(func() {
		assert.NoError(t, ds.Close(), "Failed to close datastore")
	})

	if analyzer == nil {
		analyzer = &scriptedAnalyzer{fallback: sentiment.Result{Label: sentiment.Neutral, Score: 0.5}}
	}

	catalogSvc := catalog.New(ds)
	reviewSvc := review.New(ds, catalogSvc, analyzer)

	e := echo.New()
	controller := New(e, settings, catalogSvc, reviewSvc, nil, nil)
	t.Cleanup(controller.Shutdown)

	return controller
}

// doRequest performs a request against the controller's echo instance.
func doRequest(c *Controller, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, http.NoBody)
	}
	rec := httptest.NewRecorder()
	c.Echo.ServeHTTP(rec, req)
	return rec
}

func createTestMovie(t *testing.T, c *Controller, title string) uint {
	t.Helper()
	rec := doRequest(c, http.MethodPost, "/api/v2/movies",
		`{"title": "`+title+`", "director": "Director", "release_date": "2020-01-01"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var movie MovieResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &movie))
	return movie.ID
}

func TestHealthCheck(t *testing.T) {
	c := setupTestController(t, nil)

	rec := doRequest(c, http.MethodGet, "/api/v2/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "connected", body["database_status"])
}

func TestCreateMovieEndpoint(t *testing.T) {
	c := setupTestController(t, nil)

	rec := doRequest(c, http.MethodPost, "/api/v2/movies",
		`{"title": "Inception", "director": "Christopher Nolan", "release_date": "2010-07-16",
		  "poster": "https://cdn.example.com/movies/inception.jpg",
		  "genres": [{"genre": "Sci-Fi"}, {"genre": "Thriller"}]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var movie MovieResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &movie))
	assert.Equal(t, "Inception", movie.Title)
	assert.Equal(t, "2010-07-16", movie.ReleaseDate)
	assert.Equal(t, "movies/inception.jpg", movie.Poster, "poster URL is truncated to the movies/ segment")
	assert.Len(t, movie.Genres, 2)
}

func TestCreateMovieValidation(t *testing.T) {
	c := setupTestController(t, nil)

	tests := []struct {
		name string
		body string
	}{
		{"missing title", `{"director": "X", "release_date": "2020-01-01"}`},
		{"missing director", `{"title": "X", "release_date": "2020-01-01"}`},
		{"missing release date", `{"title": "X", "director": "Y"}`},
		{"malformed release date", `{"title": "X", "director": "Y", "release_date": "July 2020"}`},
		{"malformed body", `{not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(c, http.MethodPost, "/api/v2/movies", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var errResp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
			assert.NotEmpty(t, errResp.CorrelationID)
		})
	}
}

func TestCreateMovieConflict(t *testing.T) {
	c := setupTestController(t, nil)
	createTestMovie(t, c, "Heat")

	rec := doRequest(c, http.MethodPost, "/api/v2/movies",
		`{"title": "Heat", "director": "Director", "release_date": "2020-01-01"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetMoviesPagination(t *testing.T) {
	c := setupTestController(t, nil)
	for _, title := range []string{"A", "B", "C"} {
		createTestMovie(t, c, title)
	}

	rec := doRequest(c, http.MethodGet, "/api/v2/movies?page=1&page_size=2", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp PaginatedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(3), resp.Total)
	assert.Equal(t, 2, resp.TotalPages)
	assert.Equal(t, 1, resp.CurrentPage)

	data, ok := resp.Data.([]any)
	require.True(t, ok)
	assert.Len(t, data, 2)
}

func TestGetMoviesPaginationBounds(t *testing.T) {
	c := setupTestController(t, nil)

	for _, target := range []string{
		"/api/v2/movies?page=0",
		"/api/v2/movies?page=-1",
		"/api/v2/movies?page=abc",
		"/api/v2/movies?page_size=0",
		"/api/v2/movies?page_size=101",
	} {
		rec := doRequest(c, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestGetMovieByID(t *testing.T) {
	c := setupTestController(t, nil)
	id := createTestMovie(t, c, "Alien")

	rec := doRequest(c, http.MethodGet, "/api/v2/movies/"+itoa(id), "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(c, http.MethodGet, "/api/v2/movies/9999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(c, http.MethodGet, "/api/v2/movies/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteMovieEndpoint(t *testing.T) {
	c := setupTestController(t, nil)
	id := createTestMovie(t, c, "Memento")

	rec := doRequest(c, http.MethodDelete, "/api/v2/movies/"+itoa(id), "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(c, http.MethodGet, "/api/v2/movies/"+itoa(id), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(c, http.MethodDelete, "/api/v2/movies/"+itoa(id), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetGenres(t *testing.T) {
	c := setupTestController(t, nil)

	rec := doRequest(c, http.MethodPost, "/api/v2/movies",
		`{"title": "Arrival", "director": "Denis Villeneuve", "release_date": "2016-11-11",
		  "genres": [{"genre": "Sci-Fi"}]}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(c, http.MethodGet, "/api/v2/genres", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var genres []GenreResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &genres))
	require.Len(t, genres, 1)
	assert.Equal(t, "Sci-Fi", genres[0].Genre)

	// The cached listing is invalidated when a movie adds a new genre.
	rec = doRequest(c, http.MethodPost, "/api/v2/movies",
		`{"title": "Sicario", "director": "Denis Villeneuve", "release_date": "2015-10-02",
		  "genres": [{"genre": "Thriller"}]}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(c, http.MethodGet, "/api/v2/genres", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &genres))
	assert.Len(t, genres, 2)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
