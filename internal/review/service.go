// Package review implements the review service: synchronous sentiment scoring
// at creation, paged listing with a confidence-weighted aggregate score, and
// soft-delete.
package review

import (
	"context"
	"log/slog"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/cinelog/cinelog-go/internal/datastore"
	"github.com/cinelog/cinelog-go/internal/errors"
	"github.com/cinelog/cinelog-go/internal/logging"
	"github.com/cinelog/cinelog-go/internal/pagination"
	"github.com/cinelog/cinelog-go/internal/sentiment"
)

// Catalog is the slice of the catalog service the review service depends on
// for referential checks. The composer wires in the concrete service.
type Catalog interface {
	FindOne(ctx context.Context, id uint) (datastore.Movie, error)
}

// Detail is a review enriched with its display-only sentiment label.
type Detail struct {
	datastore.Review
	SentimentLabel string `json:"sentiment_label"`
}

// Service implements review operations over the datastore, validating movie
// references through the catalog and scoring text through the analyzer.
type Service struct {
	ds       datastore.Interface
	catalog  Catalog
	analyzer sentiment.Analyzer
	logger   *slog.Logger
}

// New creates a review service.
func New(ds datastore.Interface, catalog Catalog, analyzer sentiment.Analyzer) *Service {
	logger := logging.ForService("review")
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		ds:       ds,
		catalog:  catalog,
		analyzer: analyzer,
		logger:   logger,
	}
}

// Create scores content through the sentiment analyzer and persists the
// review. The movie reference is validated first, so a missing or deleted
// movie fails with not-found before anything is written. A second review by
// the same reviewer for the same movie is a conflict.
func (s *Service) Create(ctx context.Context, movieID uint, reviewerName, content string) (*Detail, error) {
	movie, err := s.catalog.FindOne(ctx, movieID)
	if err != nil {
		return nil, err
	}

	exists, err := s.ds.ReviewExists(ctx, movieID, reviewerName)
	if err != nil {
		return nil, errors.New(err).
			Component("review").
			Category(errors.CategoryDatabase).
			Context("operation", "review_exists").
			Build()
	}
	if exists {
		return nil, errors.Newf("review already registered: %s | %s", movie.Title, reviewerName).
			Component("review").
			Category(errors.CategoryConflict).
			Context("movie_id", movieID).
			Context("reviewer_name", reviewerName).
			Build()
	}

	result, err := s.analyzer.Analyze(ctx, content)
	if err != nil {
		return nil, errors.New(err).
			Component("review").
			Category(errors.CategorySentiment).
			Context("movie_id", movieID).
			Build()
	}

	review := &datastore.Review{
		MovieID:      movieID,
		ReviewerName: reviewerName,
		Content:      content,
		Sentiment:    string(result.Label),
		Score:        result.Score,
	}
	if err := s.ds.CreateReview(ctx, review); err != nil {
		return nil, errors.New(err).
			Component("review").
			Category(errors.CategoryDatabase).
			Context("operation", "create_review").
			Build()
	}

	s.logger.Info("review created",
		"review_id", review.ID, "movie_id", movieID,
		"sentiment", review.Sentiment, "score", review.Score)
	return s.detail(review), nil
}

// FindAll returns live reviews newest first, sliced by p, plus the aggregate
// average score over the whole filtered live set. With a movieID the listing
// is restricted to that movie after the reference is validated; without one
// each review carries its parent movie. The average is nil when no scored
// reviews match.
func (s *Service) FindAll(ctx context.Context, p *pagination.Pagination, movieID *uint) ([]Detail, *float64, error) {
	if movieID != nil {
		if _, err := s.catalog.FindOne(ctx, *movieID); err != nil {
			return nil, nil, err
		}
	}

	reviews, total, err := s.ds.ListReviews(ctx, movieID, p.Limit(), p.Offset())
	if err != nil {
		return nil, nil, errors.New(err).
			Component("review").
			Category(errors.CategoryDatabase).
			Context("operation", "list_reviews").
			Build()
	}
	p.SetTotal(int(total))

	scores, err := s.ds.SentimentScores(ctx, movieID)
	if err != nil {
		return nil, nil, errors.New(err).
			Component("review").
			Category(errors.CategoryDatabase).
			Context("operation", "sentiment_scores").
			Build()
	}

	details := make([]Detail, len(reviews))
	for i := range reviews {
		details[i] = *s.detail(&reviews[i])
	}

	return details, AverageScore(scores), nil
}

// FindOne returns the live review with the given ID, display label attached.
func (s *Service) FindOne(ctx context.Context, id uint) (Detail, error) {
	review, err := s.ds.GetReview(ctx, id)
	if err != nil {
		if errors.Is(err, datastore.ErrReviewNotFound) {
			return Detail{}, notFound(err, id)
		}
		return Detail{}, errors.New(err).
			Component("review").
			Category(errors.CategoryDatabase).
			Context("operation", "get_review").
			Build()
	}
	return *s.detail(&review), nil
}

// Delete soft-deletes a live review and returns it. A review that is absent
// or already deleted fails with not-found.
func (s *Service) Delete(ctx context.Context, id uint) (datastore.Review, error) {
	review, err := s.ds.GetReview(ctx, id)
	if err != nil {
		if errors.Is(err, datastore.ErrReviewNotFound) {
			return datastore.Review{}, notFound(err, id)
		}
		return datastore.Review{}, errors.New(err).
			Component("review").
			Category(errors.CategoryDatabase).
			Context("operation", "get_review").
			Build()
	}

	if err := s.ds.SoftDeleteReview(ctx, id); err != nil {
		if errors.Is(err, datastore.ErrReviewNotFound) {
			return datastore.Review{}, notFound(err, id)
		}
		return datastore.Review{}, errors.New(err).
			Component("review").
			Category(errors.CategoryDatabase).
			Context("operation", "soft_delete_review").
			Build()
	}

	review.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}

	s.logger.Info("review deleted", "review_id", id, "movie_id", review.MovieID)
	return review, nil
}

// detail attaches the display label for the review's stored sentiment value.
func (s *Service) detail(review *datastore.Review) *Detail {
	return &Detail{
		Review:         *review,
		SentimentLabel: sentiment.DisplayLabel(sentiment.Label(review.Sentiment)),
	}
}

// SentimentToRating converts one classification into a rating in [0,1]: the
// label's weight scaled by the classifier's confidence.
func SentimentToRating(label sentiment.Label, score float64) float64 {
	return label.Weight() * score
}

// AverageScore computes the mean rating over rows that carry a sentiment,
// rounded to 3 decimal places. Nil when no such rows exist.
func AverageScore(scores []datastore.SentimentScore) *float64 {
	var sum float64
	var count int
	for _, s := range scores {
		if s.Sentiment == "" {
			continue
		}
		sum += SentimentToRating(sentiment.Label(s.Sentiment), s.Score)
		count++
	}
	if count == 0 {
		return nil
	}
	avg := math.Round(sum/float64(count)*1000) / 1000
	return &avg
}

// notFound wraps err as a not-found service error.
func notFound(err error, reviewID uint) error {
	return errors.New(err).
		Component("review").
		Category(errors.CategoryNotFound).
		Context("review_id", reviewID).
		Build()
}
