package models

// Movie is a normalized, display-ready representation of one remote catalog entry.
type Movie struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Year      string `json:"year"`   // four-digit year or "Unknown"
	Rating    string `json:"rating"` // one-decimal vote average or "N/A"
	PosterURL string `json:"posterUrl"`
	Overview  string `json:"overview"`
	GenreIDs  []int  `json:"genreIds"`
}

// HasGenre reports whether the movie is tagged with the given genre id.
func (m Movie) HasGenre(id int) bool {
	for _, g := range m.GenreIDs {
		if g == id {
			return true
		}
	}
	return false
}

// Genre is one entry of the remote catalog's genre list.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
