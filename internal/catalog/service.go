// Package catalog implements the movie catalog service: movie creation with
// genre resolution, paged listing, lookup, soft-delete with review cascade,
// and the genre listing.
package catalog

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/cinelog/cinelog-go/internal/datastore"
	"github.com/cinelog/cinelog-go/internal/errors"
	"github.com/cinelog/cinelog-go/internal/logging"
	"github.com/cinelog/cinelog-go/internal/pagination"
)

// posterPathPrefix is the path segment a full poster URL is truncated to.
const posterPathPrefix = "movies/"

// GenreRef references a genre either by ID or by exact name. A ref with an ID
// must resolve to an existing genre; a ref with only a name is find-or-create.
type GenreRef struct {
	ID   *uint  `json:"id,omitempty"`
	Name string `json:"genre,omitempty"`
}

// CreateData carries the fields needed to register a movie.
type CreateData struct {
	Title       string
	Director    string
	ReleaseDate time.Time
	Poster      string
	Genres      []GenreRef
}

// Service implements catalog operations over the datastore.
type Service struct {
	ds     datastore.Interface
	logger *slog.Logger
}

// New creates a catalog service backed by ds.
func New(ds datastore.Interface) *Service {
	logger := logging.ForService("catalog")
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		ds:     ds,
		logger: logger,
	}
}

// Create registers a movie. It fails with a conflict error when a live movie
// with the same title and director already exists, normalizes the poster
// path, and resolves genre references before persisting.
func (s *Service) Create(ctx context.Context, data *CreateData) (*datastore.Movie, error) {
	exists, err := s.ds.MovieExists(ctx, data.Title, data.Director)
	if err != nil {
		return nil, errors.New(err).
			Component("catalog").
			Category(errors.CategoryDatabase).
			Context("operation", "movie_exists").
			Build()
	}
	if exists {
		return nil, errors.Newf("movie already registered: %s (%s)", data.Title, data.Director).
			Component("catalog").
			Category(errors.CategoryConflict).
			Context("title", data.Title).
			Context("director", data.Director).
			Build()
	}

	genres, err := s.resolveGenres(ctx, data.Genres)
	if err != nil {
		return nil, err
	}

	movie := &datastore.Movie{
		Title:       data.Title,
		Director:    data.Director,
		ReleaseDate: data.ReleaseDate,
		Poster:      normalizePoster(data.Poster),
		Genres:      genres,
	}

	if err := s.ds.CreateMovie(ctx, movie); err != nil {
		return nil, errors.New(err).
			Component("catalog").
			Category(errors.CategoryDatabase).
			Context("operation", "create_movie").
			Build()
	}

	s.logger.Info("movie registered", "movie_id", movie.ID, "title", movie.Title, "genres", len(movie.Genres))
	return movie, nil
}

// FindAll returns live movies sliced by p, newest release first, and fills in
// p's totals from the full live count.
func (s *Service) FindAll(ctx context.Context, p *pagination.Pagination) ([]datastore.Movie, error) {
	movies, total, err := s.ds.ListMovies(ctx, p.Limit(), p.Offset())
	if err != nil {
		return nil, errors.New(err).
			Component("catalog").
			Category(errors.CategoryDatabase).
			Context("operation", "list_movies").
			Build()
	}
	p.SetTotal(int(total))
	return movies, nil
}

// FindOne returns the live movie with the given ID, genres attached.
func (s *Service) FindOne(ctx context.Context, id uint) (datastore.Movie, error) {
	movie, err := s.ds.GetMovie(ctx, id)
	if err != nil {
		if errors.Is(err, datastore.ErrMovieNotFound) {
			return datastore.Movie{}, notFound(err, "movie_id", id)
		}
		return datastore.Movie{}, errors.New(err).
			Component("catalog").
			Category(errors.CategoryDatabase).
			Context("operation", "get_movie").
			Build()
	}
	return movie, nil
}

// Delete soft-deletes a live movie together with its reviews and returns the
// deleted movie. Deleting a movie that is absent or already deleted fails
// with a not-found error.
func (s *Service) Delete(ctx context.Context, id uint) (datastore.Movie, error) {
	movie, err := s.FindOne(ctx, id)
	if err != nil {
		return datastore.Movie{}, err
	}

	if err := s.ds.SoftDeleteMovie(ctx, id); err != nil {
		if errors.Is(err, datastore.ErrMovieNotFound) {
			return datastore.Movie{}, notFound(err, "movie_id", id)
		}
		return datastore.Movie{}, errors.New(err).
			Component("catalog").
			Category(errors.CategoryDatabase).
			Context("operation", "soft_delete_movie").
			Build()
	}

	// Reflect the transition on the returned copy.
	movie.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}

	s.logger.Info("movie deleted", "movie_id", id, "title", movie.Title)
	return movie, nil
}

// FindAllGenres returns every live genre, unpaginated.
func (s *Service) FindAllGenres(ctx context.Context) ([]datastore.Genre, error) {
	genres, err := s.ds.ListGenres(ctx)
	if err != nil {
		return nil, errors.New(err).
			Component("catalog").
			Category(errors.CategoryDatabase).
			Context("operation", "list_genres").
			Build()
	}
	return genres, nil
}

// resolveGenres turns genre references into persisted genre rows. Refs by ID
// must exist; refs by name are find-or-create with exact case-sensitive
// matching. The result is de-duplicated by genre ID, first occurrence wins.
func (s *Service) resolveGenres(ctx context.Context, refs []GenreRef) ([]datastore.Genre, error) {
	genres := make([]datastore.Genre, 0, len(refs))
	seen := make(map[uint]bool, len(refs))

	for _, ref := range refs {
		var (
			genre datastore.Genre
			err   error
		)
		switch {
		case ref.ID != nil:
			genre, err = s.ds.GetGenre(ctx, *ref.ID)
			if err != nil {
				if errors.Is(err, datastore.ErrGenreNotFound) {
					return nil, notFound(err, "genre_id", *ref.ID)
				}
				return nil, errors.New(err).
					Component("catalog").
					Category(errors.CategoryDatabase).
					Context("operation", "get_genre").
					Build()
			}
		case ref.Name != "":
			genre, err = s.ds.GetOrCreateGenre(ctx, ref.Name)
			if err != nil {
				return nil, errors.New(err).
					Component("catalog").
					Category(errors.CategoryDatabase).
					Context("operation", "get_or_create_genre").
					Build()
			}
		default:
			continue
		}

		if !seen[genre.ID] {
			seen[genre.ID] = true
			genres = append(genres, genre)
		}
	}

	return genres, nil
}

// normalizePoster truncates a full poster URL at the "movies/" path segment.
// Anything that does not look like a URL, or lacks the segment, passes
// through unchanged.
func normalizePoster(poster string) string {
	if poster == "" || !strings.Contains(poster, "http") {
		return poster
	}
	if idx := strings.Index(poster, posterPathPrefix); idx >= 0 {
		return poster[idx:]
	}
	return poster
}

// notFound wraps err as a not-found service error with one context pair.
func notFound(err error, key string, value any) error {
	return errors.New(err).
		Component("catalog").
		Category(errors.CategoryNotFound).
		Context(key, value).
		Build()
}
