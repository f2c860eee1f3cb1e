// internal/api/v2/movies.go
package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/patrickmn/go-cache"

	"github.com/cinelog/cinelog-go/internal/catalog"
	"github.com/cinelog/cinelog-go/internal/datastore"
)

// releaseDateLayout is the wire format for movie release dates.
const releaseDateLayout = "2006-01-02"

// genreCacheKey is the single key under which the genre listing is cached.
const genreCacheKey = "genres"

// MovieCreateRequest is the request body for registering a movie
type MovieCreateRequest struct {
	Title       string             `json:"title"`
	Director    string             `json:"director"`
	ReleaseDate string             `json:"release_date"`
	Poster      string             `json:"poster,omitempty"`
	Genres      []catalog.GenreRef `json:"genres,omitempty"`
}

// MovieResponse is the API representation of a movie
type MovieResponse struct {
	ID          uint            `json:"id"`
	Title       string          `json:"title"`
	Director    string          `json:"director"`
	ReleaseDate string          `json:"release_date"`
	Poster      string          `json:"poster,omitempty"`
	Genres      []GenreResponse `json:"genres"`
	CreatedAt   time.Time       `json:"created_at"`
}

// GenreResponse is the API representation of a genre
type GenreResponse struct {
	ID    uint   `json:"id"`
	Genre string `json:"genre"`
}

// initMovieRoutes registers all movie-related API endpoints
func (c *Controller) initMovieRoutes() {
	c.Group.POST("/movies", c.CreateMovie)
	c.Group.GET("/movies", c.GetMovies)
	c.Group.GET("/movies/:id", c.GetMovie)
	c.Group.DELETE("/movies/:id", c.DeleteMovie)
	c.Group.GET("/genres", c.GetGenres)
}

// movieResponse converts a datastore movie to its API representation
func movieResponse(movie *datastore.Movie) MovieResponse {
	genres := make([]GenreResponse, len(movie.Genres))
	for i := range movie.Genres {
		genres[i] = GenreResponse{ID: movie.Genres[i].ID, Genre: movie.Genres[i].Name}
	}
	return MovieResponse{
		ID:          movie.ID,
		Title:       movie.Title,
		Director:    movie.Director,
		ReleaseDate: movie.ReleaseDate.Format(releaseDateLayout),
		Poster:      movie.Poster,
		Genres:      genres,
		CreatedAt:   movie.CreatedAt,
	}
}

// CreateMovie handles POST /api/v2/movies
func (c *Controller) CreateMovie(ctx echo.Context) error {
	var req MovieCreateRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}

	if req.Title == "" || req.Director == "" || req.ReleaseDate == "" {
		return c.HandleError(ctx, nil, "title, director and release_date are required", http.StatusBadRequest)
	}

	releaseDate, err := time.Parse(releaseDateLayout, req.ReleaseDate)
	if err != nil {
		return c.HandleError(ctx, err, "release_date must be formatted as YYYY-MM-DD", http.StatusBadRequest)
	}

	movie, err := c.Catalog.Create(ctx.Request().Context(), &catalog.CreateData{
		Title:       req.Title,
		Director:    req.Director,
		ReleaseDate: releaseDate,
		Poster:      req.Poster,
		Genres:      req.Genres,
	})
	if err != nil {
		return c.HandleServiceError(ctx, err, "Failed to create movie")
	}

	// New genres may have been created while resolving references
	c.genreCache.Delete(genreCacheKey)

	c.logAPIRequest(ctx, slog.LevelInfo, "Movie created", "movie_id", movie.ID, "title", movie.Title)
	return ctx.JSON(http.StatusCreated, movieResponse(movie))
}

// GetMovies handles GET /api/v2/movies
func (c *Controller) GetMovies(ctx echo.Context) error {
	p, err := parsePagination(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid pagination parameters", http.StatusBadRequest)
	}

	movies, err := c.Catalog.FindAll(ctx.Request().Context(), p)
	if err != nil {
		return c.HandleServiceError(ctx, err, "Failed to list movies")
	}

	data := make([]MovieResponse, len(movies))
	for i := range movies {
		data[i] = movieResponse(&movies[i])
	}

	return ctx.JSON(http.StatusOK, PaginatedResponse{
		Data:        data,
		Total:       int64(p.TotalCount),
		Limit:       p.Limit(),
		Offset:      p.Offset(),
		CurrentPage: p.Page,
		TotalPages:  p.TotalPages,
	})
}

// GetMovie handles GET /api/v2/movies/:id
func (c *Controller) GetMovie(ctx echo.Context) error {
	id, err := parseID(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid movie ID", http.StatusBadRequest)
	}

	movie, err := c.Catalog.FindOne(ctx.Request().Context(), id)
	if err != nil {
		return c.HandleServiceError(ctx, err, "Failed to get movie")
	}

	return ctx.JSON(http.StatusOK, movieResponse(&movie))
}

// DeleteMovie handles DELETE /api/v2/movies/:id
func (c *Controller) DeleteMovie(ctx echo.Context) error {
	id, err := parseID(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid movie ID", http.StatusBadRequest)
	}

	movie, err := c.Catalog.Delete(ctx.Request().Context(), id)
	if err != nil {
		return c.HandleServiceError(ctx, err, "Failed to delete movie")
	}

	c.logAPIRequest(ctx, slog.LevelInfo, "Movie deleted", "movie_id", id)
	return ctx.JSON(http.StatusOK, movieResponse(&movie))
}

// GetGenres handles GET /api/v2/genres
func (c *Controller) GetGenres(ctx echo.Context) error {
	if cached, found := c.genreCache.Get(genreCacheKey); found {
		if data, ok := cached.([]GenreResponse); ok {
			return ctx.JSON(http.StatusOK, data)
		}
	}

	genres, err := c.Catalog.FindAllGenres(ctx.Request().Context())
	if err != nil {
		return c.HandleServiceError(ctx, err, "Failed to list genres")
	}

	data := make([]GenreResponse, len(genres))
	for i := range genres {
		data[i] = GenreResponse{ID: genres[i].ID, Genre: genres[i].Name}
	}

	c.genreCache.Set(genreCacheKey, data, cache.DefaultExpiration)
	return ctx.JSON(http.StatusOK, data)
}

// parseID extracts the numeric :id path parameter.
func parseID(ctx echo.Context) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
