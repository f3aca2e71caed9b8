package models

import "time"

// FavoriteItem is a durable subset of a Movie saved by the user for quick access.
type FavoriteItem struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Year      string    `json:"year,omitempty"`
	Rating    string    `json:"rating,omitempty"`
	PosterURL string    `json:"posterUrl,omitempty"`
	Overview  string    `json:"overview,omitempty"`
	AddedAt   time.Time `json:"addedAt"`
}

// WatchlistItem is a movie the user intends to watch, with watched-state tracking.
type WatchlistItem struct {
	ID        int        `json:"id"`
	Title     string     `json:"title"`
	Year      string     `json:"year,omitempty"`
	Rating    string     `json:"rating,omitempty"`
	PosterURL string     `json:"posterUrl,omitempty"`
	Overview  string     `json:"overview,omitempty"`
	AddedAt   time.Time  `json:"addedAt"`
	Watched   bool       `json:"watched"`
	WatchedAt *time.Time `json:"watchedAt,omitempty"`
}

// NewFavoriteItem captures the persisted fields of a movie at the time it is saved.
func NewFavoriteItem(m Movie, now time.Time) FavoriteItem {
	return FavoriteItem{
		ID:        m.ID,
		Title:     m.Title,
		Year:      m.Year,
		Rating:    m.Rating,
		PosterURL: m.PosterURL,
		Overview:  m.Overview,
		AddedAt:   now,
	}
}

// NewWatchlistItem captures the persisted fields of a movie at the time it is saved.
func NewWatchlistItem(m Movie, now time.Time) WatchlistItem {
	return WatchlistItem{
		ID:        m.ID,
		Title:     m.Title,
		Year:      m.Year,
		Rating:    m.Rating,
		PosterURL: m.PosterURL,
		Overview:  m.Overview,
		AddedAt:   now,
		Watched:   false,
	}
}
