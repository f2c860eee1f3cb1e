package datastore

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// GetGenre retrieves a live genre by its ID.
func (ds *DataStore) GetGenre(ctx context.Context, id uint) (Genre, error) {
	var genre Genre
	err := ds.DB.WithContext(ctx).First(&genre, id).Error
	if err != nil {
		if isRecordNotFound(err) {
			return Genre{}, ErrGenreNotFound
		}
		return Genre{}, fmt.Errorf("getting genre with ID %d: %w", id, err)
	}
	return genre, nil
}

// GetOrCreateGenre looks up a live genre by exact, case-sensitive name and
// creates it when absent. The create path runs in a transaction so two
// concurrent callers cannot both miss and insert.
func (ds *DataStore) GetOrCreateGenre(ctx context.Context, name string) (Genre, error) {
	var genre Genre

	err := ds.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("name = ?", name).First(&genre).Error
		if err == nil {
			return nil
		}
		if !isRecordNotFound(err) {
			return fmt.Errorf("looking up genre %q: %w", name, err)
		}

		genre = Genre{Name: name}
		if err := tx.Create(&genre).Error; err != nil {
			return fmt.Errorf("creating genre %q: %w", name, err)
		}
		getLogger().Debug("genre created on demand", "genre_id", genre.ID, "name", name)
		return nil
	})
	if err != nil {
		return Genre{}, err
	}

	return genre, nil
}

// ListGenres returns all live genres, unpaginated.
func (ds *DataStore) ListGenres(ctx context.Context) ([]Genre, error) {
	var genres []Genre
	if err := ds.DB.WithContext(ctx).Find(&genres).Error; err != nil {
		return nil, fmt.Errorf("listing genres: %w", err)
	}
	return genres, nil
}
