package datastore

import (
	"context"
	"fmt"

	"github.com/cinelog/cinelog-go/internal/errors"
	"gorm.io/gorm"
)

// DataStore implements Interface using a GORM database.
type DataStore struct {
	DB *gorm.DB // GORM database instance
}

// CreateMovie stores a movie together with its genre associations as a single
// transaction. Genres on the movie must already be resolved to persisted rows.
func (ds *DataStore) CreateMovie(ctx context.Context, movie *Movie) error {
	err := ds.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(movie).Error; err != nil {
			return fmt.Errorf("saving movie: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	getLogger().Debug("movie created", "movie_id", movie.ID, "title", movie.Title)
	return nil
}

// MovieExists reports whether a live movie with the given title and director
// pair exists. The match is exact and case-sensitive.
func (ds *DataStore) MovieExists(ctx context.Context, title, director string) (bool, error) {
	var count int64
	err := ds.DB.WithContext(ctx).Model(&Movie{}).
		Where("title = ? AND director = ?", title, director).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("checking movie existence: %w", err)
	}
	return count > 0, nil
}

// GetMovie retrieves a live movie by its ID with genres attached.
func (ds *DataStore) GetMovie(ctx context.Context, id uint) (Movie, error) {
	var movie Movie
	err := ds.DB.WithContext(ctx).
		Preload("Genres").
		First(&movie, id).Error
	if err != nil {
		if isRecordNotFound(err) {
			return Movie{}, ErrMovieNotFound
		}
		return Movie{}, fmt.Errorf("getting movie with ID %d: %w", id, err)
	}
	return movie, nil
}

// ListMovies returns live movies ordered by release date descending, sliced
// by limit and offset, with genres eagerly attached. The second return value
// is the total live movie count independent of the slice.
func (ds *DataStore) ListMovies(ctx context.Context, limit, offset int) ([]Movie, int64, error) {
	var totalCount int64
	if err := ds.DB.WithContext(ctx).Model(&Movie{}).Count(&totalCount).Error; err != nil {
		return nil, 0, fmt.Errorf("counting movies: %w", err)
	}

	var movies []Movie
	err := ds.DB.WithContext(ctx).
		Preload("Genres").
		Order("release_date DESC").
		Limit(limit).
		Offset(offset).
		Find(&movies).Error
	if err != nil {
		return nil, 0, fmt.Errorf("listing movies: %w", err)
	}

	return movies, totalCount, nil
}

// SoftDeleteMovie marks a live movie deleted and cascades the soft delete to
// every live review of that movie within one transaction. A movie that is
// absent or already deleted yields ErrMovieNotFound.
func (ds *DataStore) SoftDeleteMovie(ctx context.Context, id uint) error {
	err := ds.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var movie Movie
		if err := tx.First(&movie, id).Error; err != nil {
			if isRecordNotFound(err) {
				return ErrMovieNotFound
			}
			return fmt.Errorf("looking up movie with ID %d: %w", id, err)
		}

		if err := tx.Delete(&movie).Error; err != nil {
			return fmt.Errorf("deleting movie with ID %d: %w", id, err)
		}

		if err := tx.Where("movie_id = ?", id).Delete(&Review{}).Error; err != nil {
			return fmt.Errorf("deleting reviews for movie ID %d: %w", id, err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	getLogger().Debug("movie soft-deleted with review cascade", "movie_id", id)
	return nil
}

// isRecordNotFound reports whether err is gorm's record-not-found error.
func isRecordNotFound(err error) bool {
	return err != nil && errors.Is(err, gorm.ErrRecordNotFound)
}
