// interfaces.go: this code defines the interface for the database operations
package datastore

import (
	"context"

	"github.com/cinelog/cinelog-go/internal/conf"
	"github.com/cinelog/cinelog-go/internal/errors"
)

// Sentinel errors returned by the store. Services translate these into the
// API error taxonomy.
var (
	ErrMovieNotFound  = errors.NewStd("movie not found")
	ErrGenreNotFound  = errors.NewStd("genre not found")
	ErrReviewNotFound = errors.NewStd("review not found")
)

// Interface abstracts the underlying database implementation and defines the
// operations the catalog and review services rely on. Every read path sees
// live rows only; soft-deleted rows are filtered at the ORM level.
type Interface interface {
	Open() error
	Close() error

	// Movies
	CreateMovie(ctx context.Context, movie *Movie) error
	MovieExists(ctx context.Context, title, director string) (bool, error)
	GetMovie(ctx context.Context, id uint) (Movie, error)
	ListMovies(ctx context.Context, limit, offset int) ([]Movie, int64, error)
	SoftDeleteMovie(ctx context.Context, id uint) error

	// Genres
	GetGenre(ctx context.Context, id uint) (Genre, error)
	GetOrCreateGenre(ctx context.Context, name string) (Genre, error)
	ListGenres(ctx context.Context) ([]Genre, error)

	// Reviews
	CreateReview(ctx context.Context, review *Review) error
	ReviewExists(ctx context.Context, movieID uint, reviewerName string) (bool, error)
	GetReview(ctx context.Context, id uint) (Review, error)
	ListReviews(ctx context.Context, movieID *uint, limit, offset int) ([]Review, int64, error)
	SentimentScores(ctx context.Context, movieID *uint) ([]SentimentScore, error)
	SoftDeleteReview(ctx context.Context, id uint) error
}

// New creates a new store instance based on the provided configuration.
func New(settings *conf.Settings) Interface {
	switch {
	case settings.Output.SQLite.Enabled:
		return &SQLiteStore{
			Settings: settings,
		}
	case settings.Output.MySQL.Enabled:
		return &MySQLStore{
			Settings: settings,
		}
	default:
		return nil
	}
}
