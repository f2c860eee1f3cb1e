// model.go this code defines the data model for the application
package datastore

import (
	"time"

	"gorm.io/gorm"
)

// LifecycleState describes whether a row is live or soft-deleted.
// The transition is one-way: once deleted a row is never resurrected.
type LifecycleState string

const (
	StateActive  LifecycleState = "active"
	StateDeleted LifecycleState = "deleted"
)

// stateOf derives the lifecycle state from a gorm soft-delete timestamp.
func stateOf(deletedAt gorm.DeletedAt) LifecycleState {
	if deletedAt.Valid {
		return StateDeleted
	}
	return StateActive
}

// Movie represents a single catalog entry. The (Title, Director) pair is
// unique among live rows, enforced by the catalog service rather than a
// database constraint so soft-deleted rows do not block re-creation.
type Movie struct {
	ID          uint      `gorm:"primaryKey"`
	Title       string    `gorm:"index:idx_movies_title_director"`
	Director    string    `gorm:"index:idx_movies_title_director"`
	ReleaseDate time.Time `gorm:"index:idx_movies_release_date"`
	Poster      string
	Genres      []Genre  `gorm:"many2many:movie_genres"`              // shared ownership, link rows owned by the movie
	Reviews     []Review `gorm:"foreignKey:MovieID"`                  // soft-deleted together with the movie
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

// State returns the lifecycle state of the movie.
func (m *Movie) State() LifecycleState {
	return stateOf(m.DeletedAt)
}

// Genre represents a named genre shared by many movies. Genres are created
// on demand when a movie references an unknown name and are looked up by
// exact, case-sensitive match otherwise.
type Genre struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"index:idx_genres_name"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// State returns the lifecycle state of the genre.
func (g *Genre) State() LifecycleState {
	return stateOf(g.DeletedAt)
}

// Review represents a reviewer's take on a movie together with the sentiment
// classification computed at creation time. Sentiment and Score are immutable
// after creation; the only later mutation is a soft delete.
type Review struct {
	ID           uint   `gorm:"primaryKey"`
	MovieID      uint   `gorm:"index:idx_reviews_movie;index:idx_reviews_movie_reviewer"`
	Movie        *Movie `gorm:"foreignKey:MovieID"`
	ReviewerName string `gorm:"index:idx_reviews_movie_reviewer"`
	Content      string `gorm:"type:text"`
	Sentiment    string `gorm:"type:varchar(20)"` // one of the sentiment label values
	Score        float64
	CreatedAt    time.Time `gorm:"index"`
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

// State returns the lifecycle state of the review.
func (r *Review) State() LifecycleState {
	return stateOf(r.DeletedAt)
}

// SentimentScore is the projection of a review used for aggregate scoring.
type SentimentScore struct {
	Sentiment string
	Score     float64
}
