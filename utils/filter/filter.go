// Package filter narrows and orders an in-memory movie list according to the
// currently active query. Apply is pure: the input slice and its elements are
// never mutated.
package filter

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"moviedeck/models"
)

// Sort keys accepted by Spec.SortKey. Popularity is the default and keeps the
// incoming order, which already reflects the source ranking.
const (
	SortPopularity  = "popularity"
	SortReleaseDate = "release_date"
	SortVoteAverage = "vote_average"
	SortTitle       = "title"
)

// Spec is the complete query configuration driving one Apply call. Zero
// values disable the corresponding stage.
type Spec struct {
	Search    string  // case-insensitive substring over title and overview
	Genre     int     // exact genre id membership, 0 = any
	Year      string  // exact year match, empty = any
	MinRating float64 // inclusive rating floor, 0 = no floor
	SortKey   string  // one of the Sort* constants
}

// Apply runs the filter stages in fixed order (search, genre, year, rating
// floor) and then sorts the survivors. An empty input yields an empty output.
func Apply(movies []models.Movie, spec Spec) []models.Movie {
	filtered := make([]models.Movie, 0, len(movies))
	filtered = append(filtered, movies...)

	if search := strings.TrimSpace(spec.Search); search != "" {
		term := strings.ToLower(search)
		filtered = keep(filtered, func(m models.Movie) bool {
			return strings.Contains(strings.ToLower(m.Title), term) ||
				strings.Contains(strings.ToLower(m.Overview), term)
		})
	}

	if spec.Genre != 0 {
		filtered = keep(filtered, func(m models.Movie) bool {
			return m.HasGenre(spec.Genre)
		})
	}

	if spec.Year != "" {
		filtered = keep(filtered, func(m models.Movie) bool {
			return m.Year == spec.Year
		})
	}

	if spec.MinRating != 0 {
		filtered = keep(filtered, func(m models.Movie) bool {
			rating, ok := numericRating(m.Rating)
			// Unrated entries ("N/A") never satisfy a rating floor.
			return ok && rating >= spec.MinRating
		})
	}

	return sortMovies(filtered, spec.SortKey)
}

// sortMovies reorders movies by the given key. The sort is stable, so entries
// that compare equal keep their relative filtered order.
func sortMovies(movies []models.Movie, sortKey string) []models.Movie {
	switch sortKey {
	case SortReleaseDate:
		sort.SliceStable(movies, func(i, j int) bool {
			return yearValue(movies[i].Year) > yearValue(movies[j].Year)
		})
	case SortVoteAverage:
		sort.SliceStable(movies, func(i, j int) bool {
			return ratingValue(movies[i].Rating) > ratingValue(movies[j].Rating)
		})
	case SortTitle:
		c := collate.New(language.English)
		sort.SliceStable(movies, func(i, j int) bool {
			return c.CompareString(movies[i].Title, movies[j].Title) < 0
		})
	case SortPopularity:
		// Incoming order already reflects source popularity.
	}
	return movies
}

func keep(movies []models.Movie, pred func(models.Movie) bool) []models.Movie {
	kept := movies[:0]
	for _, m := range movies {
		if pred(m) {
			kept = append(kept, m)
		}
	}
	return kept
}

func numericRating(rating string) (float64, bool) {
	value, err := strconv.ParseFloat(rating, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// ratingValue orders unrated entries below every real rating.
func ratingValue(rating string) float64 {
	value, ok := numericRating(rating)
	if !ok {
		return -1
	}
	return value
}

// yearValue orders entries with an unknown year last in a descending sort.
func yearValue(year string) int {
	value, err := strconv.Atoi(year)
	if err != nil {
		return 0
	}
	return value
}
