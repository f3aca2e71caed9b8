// Package catalog coordinates remote catalog fetches, genre name resolution
// and the curated collection previews shown on the collections page.
package catalog

import (
	"context"
	"log"

	"github.com/sourcegraph/conc"

	"moviedeck/models"
	"moviedeck/services/tmdb"
)

// previewSize is how many movies each collection preview shows.
const previewSize = 3

// Fetcher is the slice of the remote catalog client the service consumes.
type Fetcher interface {
	PopularMovies(ctx context.Context, page int) ([]models.Movie, error)
	DiscoverByGenre(ctx context.Context, genreID, page int) ([]models.Movie, error)
	SearchMovies(ctx context.Context, query string, page int) ([]models.Movie, error)
	Genres(ctx context.Context) ([]models.Genre, error)
}

var _ Fetcher = (*tmdb.Client)(nil)

// Service answers catalog queries for the HTTP handlers. It holds no movie
// list of its own; every call returns a fresh snapshot for the caller to own.
type Service struct {
	fetcher Fetcher
}

// NewService creates a catalog service over the given fetcher.
func NewService(fetcher Fetcher) *Service {
	return &Service{fetcher: fetcher}
}

// Popular returns one page of the popular listing.
func (s *Service) Popular(ctx context.Context, page int) ([]models.Movie, error) {
	return s.fetcher.PopularMovies(ctx, page)
}

// Search returns one page of title-search results.
func (s *Service) Search(ctx context.Context, query string, page int) ([]models.Movie, error) {
	return s.fetcher.SearchMovies(ctx, query, page)
}

// ByGenre returns one page of movies tagged with the genre.
func (s *Service) ByGenre(ctx context.Context, genreID, page int) ([]models.Movie, error) {
	return s.fetcher.DiscoverByGenre(ctx, genreID, page)
}

// Genres returns the catalog's genre list.
func (s *Service) Genres(ctx context.Context) ([]models.Genre, error) {
	return s.fetcher.Genres(ctx)
}

// GenreName resolves a genre id to its display name, falling back to
// "Unknown" when the id is absent or the genre list cannot be fetched.
func (s *Service) GenreName(ctx context.Context, id int) string {
	genres, err := s.fetcher.Genres(ctx)
	if err != nil {
		log.Printf("[catalog] error fetching genres: %v", err)
		return "Unknown"
	}
	for _, g := range genres {
		if g.ID == id {
			return g.Name
		}
	}
	return "Unknown"
}

// GenreNames resolves every id in order, one "Unknown" per unresolvable id.
func (s *Service) GenreNames(ctx context.Context, ids []int) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, s.GenreName(ctx, id))
	}
	return names
}

// FindMovie returns the movie with the given id from the supplied snapshot.
func FindMovie(movies []models.Movie, id int) (models.Movie, bool) {
	for _, m := range movies {
		if m.ID == id {
			return m, true
		}
	}
	return models.Movie{}, false
}

// Collection describes one curated collection shown on the collections page.
type Collection struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	GenreID     int    `json:"genreId,omitempty"`
	Decade      string `json:"decade,omitempty"`
	Favorites   bool   `json:"favorites,omitempty"`
}

// CollectionPreview pairs a collection with its first few movies.
type CollectionPreview struct {
	Collection
	Movies []models.Movie `json:"movies"`
}

// Collections returns the fixed curated collection descriptors.
func Collections() []Collection {
	return []Collection{
		{ID: "oscar-winners", Name: "Oscar Winners", Description: "Academy Award winning masterpieces"},
		{ID: "90s-classics", Name: "90s Classics", Decade: "1990s", Description: "Iconic films from the 1990s"},
		{ID: "2000s-hits", Name: "2000s Hits", Decade: "2000s", Description: "Blockbusters from the new millennium"},
		{ID: "sci-fi", Name: "Sci-Fi Adventures", GenreID: 878, Description: "Journey to futuristic worlds"},
		{ID: "comedy", Name: "Comedy Gold", GenreID: 35, Description: "Laugh-out-loud hilarious films"},
		{ID: "favorites", Name: "Your Favorites", Favorites: true, Description: "Movies you've saved and loved"},
	}
}

// CollectionPreviews loads the preview movies for every collection
// concurrently. A failed fetch degrades that collection to an empty preview
// instead of failing the whole set. The favorites snapshot is supplied by the
// caller so this service stays independent of the store.
func (s *Service) CollectionPreviews(ctx context.Context, favorites []models.Movie) []CollectionPreview {
	collections := Collections()
	previews := make([]CollectionPreview, len(collections))

	var wg conc.WaitGroup
	for i, col := range collections {
		i, col := i, col
		wg.Go(func() {
			previews[i] = CollectionPreview{
				Collection: col,
				Movies:     s.loadPreview(ctx, col, favorites),
			}
		})
	}
	wg.Wait()

	return previews
}

func (s *Service) loadPreview(ctx context.Context, col Collection, favorites []models.Movie) []models.Movie {
	var (
		movies []models.Movie
		err    error
	)

	switch {
	case col.Favorites:
		movies = favorites
	case col.GenreID != 0:
		movies, err = s.fetcher.DiscoverByGenre(ctx, col.GenreID, 1)
	default:
		// Decade and award collections preview the popular listing.
		movies, err = s.fetcher.PopularMovies(ctx, 1)
	}

	if err != nil {
		log.Printf("[catalog] error loading %q preview: %v", col.Name, err)
		return []models.Movie{}
	}
	if len(movies) > previewSize {
		movies = movies[:previewSize]
	}
	return movies
}
