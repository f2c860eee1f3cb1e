// internal/api/v2/reviews.go
package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinelog/cinelog-go/internal/datastore"
	"github.com/cinelog/cinelog-go/internal/review"
)

// ReviewCreateRequest is the request body for submitting a review
type ReviewCreateRequest struct {
	MovieID      uint   `json:"movie_id"`
	ReviewerName string `json:"reviewer_name"`
	Content      string `json:"content"`
}

// ReviewResponse is the API representation of a review
type ReviewResponse struct {
	ID             uint           `json:"id"`
	MovieID        uint           `json:"movie_id"`
	ReviewerName   string         `json:"reviewer_name"`
	Content        string         `json:"content"`
	Sentiment      string         `json:"sentiment"`
	SentimentLabel string         `json:"sentiment_label"`
	Score          float64        `json:"score"`
	CreatedAt      time.Time      `json:"created_at"`
	Movie          *MovieResponse `json:"movie,omitempty"`
}

// ReviewListResponse is the paginated review listing plus the aggregate
// average score over the full filtered set.
type ReviewListResponse struct {
	PaginatedResponse
	AverageScore *float64 `json:"average_score"`
}

// initReviewRoutes registers all review-related API endpoints
func (c *Controller) initReviewRoutes() {
	c.Group.POST("/reviews", c.CreateReview)
	c.Group.GET("/reviews", c.GetReviews)
	c.Group.GET("/reviews/:id", c.GetReview)
	c.Group.DELETE("/reviews/:id", c.DeleteReview)
}

// reviewResponse converts a review detail to its API representation
func reviewResponse(detail *review.Detail) ReviewResponse {
	resp := ReviewResponse{
		ID:             detail.ID,
		MovieID:        detail.MovieID,
		ReviewerName:   detail.ReviewerName,
		Content:        detail.Content,
		Sentiment:      detail.Sentiment,
		SentimentLabel: detail.SentimentLabel,
		Score:          detail.Score,
		CreatedAt:      detail.CreatedAt,
	}
	if detail.Movie != nil {
		movie := movieResponse(detail.Movie)
		resp.Movie = &movie
	}
	return resp
}

// CreateReview handles POST /api/v2/reviews
func (c *Controller) CreateReview(ctx echo.Context) error {
	var req ReviewCreateRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}

	if req.MovieID == 0 || req.ReviewerName == "" || req.Content == "" {
		return c.HandleError(ctx, nil, "movie_id, reviewer_name and content are required", http.StatusBadRequest)
	}

	detail, err := c.Review.Create(ctx.Request().Context(), req.MovieID, req.ReviewerName, req.Content)
	if err != nil {
		return c.HandleServiceError(ctx, err, "Failed to create review")
	}

	if c.metrics != nil {
		c.metrics.Review.RecordSentimentOutcome(detail.Sentiment)
		c.metrics.Review.RecordReviewOperation("create", "success")
	}

	c.logAPIRequest(ctx, slog.LevelInfo, "Review created",
		"review_id", detail.ID, "movie_id", detail.MovieID, "sentiment", detail.Sentiment)
	return ctx.JSON(http.StatusCreated, reviewResponse(detail))
}

// GetReviews handles GET /api/v2/reviews with an optional movie_id filter
func (c *Controller) GetReviews(ctx echo.Context) error {
	p, err := parsePagination(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid pagination parameters", http.StatusBadRequest)
	}

	var movieID *uint
	if raw := ctx.QueryParam("movie_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return c.HandleError(ctx, err, "movie_id must be a positive integer", http.StatusBadRequest)
		}
		id := uint(parsed)
		movieID = &id
	}

	details, averageScore, err := c.Review.FindAll(ctx.Request().Context(), p, movieID)
	if err != nil {
		return c.HandleServiceError(ctx, err, "Failed to list reviews")
	}

	data := make([]ReviewResponse, len(details))
	for i := range details {
		data[i] = reviewResponse(&details[i])
	}

	return ctx.JSON(http.StatusOK, ReviewListResponse{
		PaginatedResponse: PaginatedResponse{
			Data:        data,
			Total:       int64(p.TotalCount),
			Limit:       p.Limit(),
			Offset:      p.Offset(),
			CurrentPage: p.Page,
			TotalPages:  p.TotalPages,
		},
		AverageScore: averageScore,
	})
}

// GetReview handles GET /api/v2/reviews/:id
func (c *Controller) GetReview(ctx echo.Context) error {
	id, err := parseID(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid review ID", http.StatusBadRequest)
	}

	detail, err := c.Review.FindOne(ctx.Request().Context(), id)
	if err != nil {
		return c.HandleServiceError(ctx, err, "Failed to get review")
	}

	return ctx.JSON(http.StatusOK, reviewResponse(&detail))
}

// DeleteReview handles DELETE /api/v2/reviews/:id
func (c *Controller) DeleteReview(ctx echo.Context) error {
	id, err := parseID(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid review ID", http.StatusBadRequest)
	}

	deleted, err := c.Review.Delete(ctx.Request().Context(), id)
	if err != nil {
		return c.HandleServiceError(ctx, err, "Failed to delete review")
	}

	if c.metrics != nil {
		c.metrics.Review.RecordReviewOperation("delete", "success")
	}

	c.logAPIRequest(ctx, slog.LevelInfo, "Review deleted", "review_id", id)
	return ctx.JSON(http.StatusOK, deletedReviewResponse(&deleted))
}

// deletedReviewResponse shapes a soft-deleted review row for the delete
// endpoint, which returns the removed entity.
func deletedReviewResponse(r *datastore.Review) ReviewResponse {
	return ReviewResponse{
		ID:           r.ID,
		MovieID:      r.MovieID,
		ReviewerName: r.ReviewerName,
		Content:      r.Content,
		Sentiment:    r.Sentiment,
		Score:        r.Score,
		CreatedAt:    r.CreatedAt,
	}
}
