package review

import (
	"context"
	"testing"
	"time"

	"github.com/cinelog/cinelog-go/internal/catalog"
	"github.com/cinelog/cinelog-go/internal/conf"
	"github.com/cinelog/cinelog-go/internal/datastore"
	"github.com/cinelog/cinelog-go/internal/errors"
	"github.com/cinelog/cinelog-go/internal/pagination"
	"github.com/cinelog/cinelog-go/internal/sentiment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAnalyzer returns canned results keyed by text, or a fixed fallback.
type fakeAnalyzer struct {
	results  map[string]sentiment.Result
	fallback sentiment.Result
	calls    int
}

func (f *fakeAnalyzer) Analyze(_ context.Context, text string) (sentiment.Result, error) {
	f.calls++
	if r, ok := f.results[text]; ok {
		return r, nil
	}
	return f.fallback, nil
}

func newTestService(t *testing.T, analyzer sentiment.Analyzer) (*Service, *catalog.Service, datastore.Interface) {
	t.Helper()

	settings := &conf.Settings{}
	settings.Output.SQLite.Enabled = true
	settings.Output.SQLite.Path = t.TempDir() + "/test.db"

	ds := datastore.New(settings)
	require.NoError(t, ds.Open(), "Failed to open database")
	t.Cleanup(func() {
		assert.NoError(t, ds.Close(), "Failed to close datastore")
	})

	catalogSvc := catalog.New(ds)
	return New(ds, catalogSvc, analyzer), catalogSvc, ds
}

func seedMovie(t *testing.T, catalogSvc *catalog.Service, title string) uint {
	t.Helper()
	movie, err := catalogSvc.Create(context.Background(), &catalog.CreateData{
		Title:       title,
		Director:    "Director",
		ReleaseDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return movie.ID
}

func TestSentimentToRating(t *testing.T) {
	tests := []struct {
		label sentiment.Label
		score float64
		want  float64
	}{
		{sentiment.Positive, 0.8, 0.6},
		{sentiment.VeryNegative, 1.0, 0.0},
		{sentiment.Label("UNKNOWN"), 0.9, 0.45},
		{sentiment.VeryPositive, 0.5, 0.5},
		{sentiment.Neutral, 0.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(string(tt.label), func(t *testing.T) {
			assert.InDelta(t, tt.want, SentimentToRating(tt.label, tt.score), 1e-9)
		})
	}
}

func TestAverageScore(t *testing.T) {
	scores := []datastore.SentimentScore{
		{Sentiment: "POSITIVE", Score: 0.8},
		{Sentiment: "NEGATIVE", Score: 0.4},
	}

	avg := AverageScore(scores)
	require.NotNil(t, avg)
	assert.InDelta(t, 0.35, *avg, 1e-9)
}

func TestAverageScoreEdgeCases(t *testing.T) {
	assert.Nil(t, AverageScore(nil))
	assert.Nil(t, AverageScore([]datastore.SentimentScore{}))

	// Rows without a sentiment are excluded from the mean.
	avg := AverageScore([]datastore.SentimentScore{
		{Sentiment: "", Score: 0.9},
		{Sentiment: "POSITIVE", Score: 0.8},
	})
	require.NotNil(t, avg)
	assert.InDelta(t, 0.6, *avg, 1e-9)
}

func TestCreateReview(t *testing.T) {
	analyzer := &fakeAnalyzer{fallback: sentiment.Result{Label: sentiment.Positive, Score: 0.8}}
	svc, catalogSvc, _ := newTestService(t, analyzer)
	movieID := seedMovie(t, catalogSvc, "Interstellar")

	detail, err := svc.Create(context.Background(), movieID, "alice", "Loved every minute.")
	require.NoError(t, err)
	assert.Equal(t, "POSITIVE", detail.Sentiment)
	assert.InDelta(t, 0.8, detail.Score, 1e-9)
	assert.Equal(t, sentiment.DisplayLabel(sentiment.Positive), detail.SentimentLabel)
	assert.Equal(t, 1, analyzer.calls)
}

func TestCreateReviewMissingMovieWritesNothing(t *testing.T) {
	analyzer := &fakeAnalyzer{fallback: sentiment.Result{Label: sentiment.Neutral, Score: 0.5}}
	svc, _, ds := newTestService(t, analyzer)

	_, err := svc.Create(context.Background(), 9999, "alice", "Ghost review.")
	require.Error(t, err)
	assert.Equal(t, errors.CategoryNotFound, errors.CategoryOf(err))
	assert.Zero(t, analyzer.calls, "analyzer should not run for an invalid movie reference")

	_, total, err := ds.ListReviews(context.Background(), nil, 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total, "no review row may be written")
}

func TestCreateDuplicateReviewConflicts(t *testing.T) {
	analyzer := &fakeAnalyzer{fallback: sentiment.Result{Label: sentiment.Neutral, Score: 0.5}}
	svc, catalogSvc, _ := newTestService(t, analyzer)
	movieID := seedMovie(t, catalogSvc, "Heat")

	ctx := context.Background()
	_, err := svc.Create(ctx, movieID, "alice", "First take.")
	require.NoError(t, err)

	_, err = svc.Create(ctx, movieID, "alice", "Second take.")
	require.Error(t, err)
	assert.Equal(t, errors.CategoryConflict, errors.CategoryOf(err))

	// A different reviewer on the same movie is fine.
	_, err = svc.Create(ctx, movieID, "bob", "My take.")
	assert.NoError(t, err)
}

func TestCreateReviewForDeletedMovie(t *testing.T) {
	analyzer := &fakeAnalyzer{fallback: sentiment.Result{Label: sentiment.Neutral, Score: 0.5}}
	svc, catalogSvc, _ := newTestService(t, analyzer)
	movieID := seedMovie(t, catalogSvc, "Dune")

	_, err := catalogSvc.Delete(context.Background(), movieID)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), movieID, "alice", "Too late.")
	require.Error(t, err)
	assert.Equal(t, errors.CategoryNotFound, errors.CategoryOf(err))
}

func TestFindAllAggregatesOverFullSetNotPage(t *testing.T) {
	analyzer := &fakeAnalyzer{
		results: map[string]sentiment.Result{
			"good": {Label: sentiment.Positive, Score: 0.8},
			"bad":  {Label: sentiment.Negative, Score: 0.4},
		},
	}
	svc, catalogSvc, _ := newTestService(t, analyzer)
	movieID := seedMovie(t, catalogSvc, "Blade Runner")

	ctx := context.Background()
	_, err := svc.Create(ctx, movieID, "alice", "good")
	require.NoError(t, err)
	_, err = svc.Create(ctx, movieID, "bob", "bad")
	require.NoError(t, err)

	p := pagination.New(1, 1)
	details, avg, err := svc.FindAll(ctx, p, &movieID)
	require.NoError(t, err)
	require.Len(t, details, 1, "page holds one row")
	assert.Equal(t, 2, p.TotalCount)
	assert.Equal(t, 2, p.TotalPages)

	require.NotNil(t, avg)
	assert.InDelta(t, 0.35, *avg, 1e-9, "average covers the full filtered set, not the page")
}

func TestFindAllFilterValidation(t *testing.T) {
	analyzer := &fakeAnalyzer{fallback: sentiment.Result{Label: sentiment.Neutral, Score: 0.5}}
	svc, _, _ := newTestService(t, analyzer)

	missing := uint(9999)
	_, _, err := svc.FindAll(context.Background(), pagination.New(1, 10), &missing)
	require.Error(t, err)
	assert.Equal(t, errors.CategoryNotFound, errors.CategoryOf(err))
}

func TestFindAllUnfilteredAttachesMovies(t *testing.T) {
	analyzer := &fakeAnalyzer{fallback: sentiment.Result{Label: sentiment.Positive, Score: 0.9}}
	svc, catalogSvc, _ := newTestService(t, analyzer)
	movieID := seedMovie(t, catalogSvc, "Solaris")

	ctx := context.Background()
	_, err := svc.Create(ctx, movieID, "alice", "Hypnotic.")
	require.NoError(t, err)

	details, avg, err := svc.FindAll(ctx, pagination.New(1, 10), nil)
	require.NoError(t, err)
	require.Len(t, details, 1)
	require.NotNil(t, details[0].Movie)
	assert.Equal(t, "Solaris", details[0].Movie.Title)
	require.NotNil(t, avg)

	// The filtered branch does not attach the parent movie.
	details, _, err = svc.FindAll(ctx, pagination.New(1, 10), &movieID)
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Nil(t, details[0].Movie)
}

func TestFindAllEmptyAverageIsNil(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	svc, _, _ := newTestService(t, analyzer)

	details, avg, err := svc.FindAll(context.Background(), pagination.New(1, 10), nil)
	require.NoError(t, err)
	assert.Empty(t, details)
	assert.Nil(t, avg)
}

func TestFindOneAndDelete(t *testing.T) {
	analyzer := &fakeAnalyzer{fallback: sentiment.Result{Label: sentiment.VeryPositive, Score: 0.95}}
	svc, catalogSvc, _ := newTestService(t, analyzer)
	movieID := seedMovie(t, catalogSvc, "Seven")

	ctx := context.Background()
	created, err := svc.Create(ctx, movieID, "alice", "Stunning.")
	require.NoError(t, err)

	found, err := svc.FindOne(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, sentiment.DisplayLabel(sentiment.VeryPositive), found.SentimentLabel)

	deleted, err := svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, datastore.StateDeleted, deleted.State())

	_, err = svc.FindOne(ctx, created.ID)
	require.Error(t, err)
	assert.Equal(t, errors.CategoryNotFound, errors.CategoryOf(err))

	_, err = svc.Delete(ctx, created.ID)
	require.Error(t, err)
	assert.Equal(t, errors.CategoryNotFound, errors.CategoryOf(err))
}

func TestFindOneNotFound(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeAnalyzer{})

	_, err := svc.FindOne(context.Background(), 123)
	require.Error(t, err)
	assert.Equal(t, errors.CategoryNotFound, errors.CategoryOf(err))
}
