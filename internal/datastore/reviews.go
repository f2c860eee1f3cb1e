package datastore

import (
	"context"
	"fmt"
)

// CreateReview stores a review. Sentiment and score must already be computed
// by the caller; they are immutable after this point.
func (ds *DataStore) CreateReview(ctx context.Context, review *Review) error {
	if err := ds.DB.WithContext(ctx).Create(review).Error; err != nil {
		return fmt.Errorf("saving review: %w", err)
	}

	getLogger().Debug("review created",
		"review_id", review.ID,
		"movie_id", review.MovieID,
		"sentiment", review.Sentiment)
	return nil
}

// ReviewExists reports whether a live review by the given reviewer exists for
// the movie.
func (ds *DataStore) ReviewExists(ctx context.Context, movieID uint, reviewerName string) (bool, error) {
	var count int64
	err := ds.DB.WithContext(ctx).Model(&Review{}).
		Where("movie_id = ? AND reviewer_name = ?", movieID, reviewerName).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("checking review existence: %w", err)
	}
	return count > 0, nil
}

// GetReview retrieves a live review by its ID.
func (ds *DataStore) GetReview(ctx context.Context, id uint) (Review, error) {
	var review Review
	err := ds.DB.WithContext(ctx).First(&review, id).Error
	if err != nil {
		if isRecordNotFound(err) {
			return Review{}, ErrReviewNotFound
		}
		return Review{}, fmt.Errorf("getting review with ID %d: %w", id, err)
	}
	return review, nil
}

// ListReviews returns live reviews ordered by creation time descending,
// sliced by limit and offset, with the total live count matching the filter.
// With a movie filter only that movie's reviews are returned and the parent
// movie is not loaded; without a filter each review carries its movie.
func (ds *DataStore) ListReviews(ctx context.Context, movieID *uint, limit, offset int) ([]Review, int64, error) {
	countQuery := ds.DB.WithContext(ctx).Model(&Review{})
	listQuery := ds.DB.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset)

	if movieID != nil {
		countQuery = countQuery.Where("movie_id = ?", *movieID)
		listQuery = listQuery.Where("movie_id = ?", *movieID)
	} else {
		listQuery = listQuery.Preload("Movie")
	}

	var totalCount int64
	if err := countQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, fmt.Errorf("counting reviews: %w", err)
	}

	var reviews []Review
	if err := listQuery.Find(&reviews).Error; err != nil {
		return nil, 0, fmt.Errorf("listing reviews: %w", err)
	}

	return reviews, totalCount, nil
}

// SentimentScores returns the sentiment/score projection of every live review
// matching the optional movie filter, independent of any pagination slice.
// Used for aggregate scoring across the full filtered set.
func (ds *DataStore) SentimentScores(ctx context.Context, movieID *uint) ([]SentimentScore, error) {
	query := ds.DB.WithContext(ctx).Model(&Review{}).Select("sentiment", "score")
	if movieID != nil {
		query = query.Where("movie_id = ?", *movieID)
	}

	var scores []SentimentScore
	if err := query.Scan(&scores).Error; err != nil {
		return nil, fmt.Errorf("collecting sentiment scores: %w", err)
	}
	return scores, nil
}

// SoftDeleteReview marks a live review deleted. An absent or already deleted
// review yields ErrReviewNotFound.
func (ds *DataStore) SoftDeleteReview(ctx context.Context, id uint) error {
	var review Review
	if err := ds.DB.WithContext(ctx).First(&review, id).Error; err != nil {
		if isRecordNotFound(err) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("looking up review with ID %d: %w", id, err)
	}

	if err := ds.DB.WithContext(ctx).Delete(&review).Error; err != nil {
		return fmt.Errorf("deleting review with ID %d: %w", id, err)
	}

	getLogger().Debug("review soft-deleted", "review_id", id)
	return nil
}
