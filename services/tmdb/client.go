// Package tmdb wraps the third-party paginated movie catalog API and maps its
// payloads into the internal movie shape.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"moviedeck/models"
)

const (
	defaultBaseURL = "https://api.themoviedb.org/3"
	imageBaseURL   = "https://image.tmdb.org/t/p/w500"

	// PlaceholderPoster is served when the source data omits a poster path.
	PlaceholderPoster = "images/placeholder-poster.jpg"
	// PlaceholderOverview is served when the source data omits a description.
	PlaceholderOverview = "No description available."
)

// Client handles requests against the remote catalog API. It applies no
// retries and caches nothing across calls except the genre list, which
// changes rarely enough to keep for a day.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	genreMu         sync.RWMutex
	genres          []models.Genre
	genresFetchedAt time.Time
	genreTTL        time.Duration
}

// NewClient creates a catalog client for the given API key.
func NewClient(apiKey string) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		genreTTL:   24 * time.Hour,
	}
}

// NewClientWithBaseURL creates a catalog client against a non-default base
// URL. Used by tests to point the client at a local server.
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	c := NewClient(apiKey)
	c.baseURL = baseURL
	return c
}

// apiMovie is one entry of a TMDB list response.
type apiMovie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
	PosterPath  string  `json:"poster_path"`
	Overview    string  `json:"overview"`
	GenreIDs    []int   `json:"genre_ids"`
}

type listResponse struct {
	Page         int        `json:"page"`
	Results      []apiMovie `json:"results"`
	TotalPages   int        `json:"total_pages"`
	TotalResults int        `json:"total_results"`
}

type genreResponse struct {
	Genres []models.Genre `json:"genres"`
}

// PopularMovies fetches one page of the popular-movies listing.
func (c *Client) PopularMovies(ctx context.Context, page int) ([]models.Movie, error) {
	return c.fetchList(ctx, "/movie/popular", url.Values{
		"page": {strconv.Itoa(page)},
	})
}

// DiscoverByGenre fetches one page of movies tagged with the given genre.
func (c *Client) DiscoverByGenre(ctx context.Context, genreID, page int) ([]models.Movie, error) {
	return c.fetchList(ctx, "/discover/movie", url.Values{
		"with_genres": {strconv.Itoa(genreID)},
		"page":        {strconv.Itoa(page)},
	})
}

// SearchMovies fetches one page of title-search results for the query.
func (c *Client) SearchMovies(ctx context.Context, query string, page int) ([]models.Movie, error) {
	return c.fetchList(ctx, "/search/movie", url.Values{
		"query": {query},
		"page":  {strconv.Itoa(page)},
	})
}

// Genres returns the genre list, refreshing the cached copy when it is older
// than the TTL.
func (c *Client) Genres(ctx context.Context) ([]models.Genre, error) {
	c.genreMu.RLock()
	if c.genres != nil && time.Since(c.genresFetchedAt) < c.genreTTL {
		genres := c.genres
		c.genreMu.RUnlock()
		return genres, nil
	}
	c.genreMu.RUnlock()

	body, err := c.doRequest(ctx, "/genre/movie/list", url.Values{})
	if err != nil {
		return nil, err
	}

	var decoded genreResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode genre response: %w", err)
	}

	c.genreMu.Lock()
	c.genres = decoded.Genres
	c.genresFetchedAt = time.Now()
	c.genreMu.Unlock()

	return decoded.Genres, nil
}

func (c *Client) fetchList(ctx context.Context, path string, query url.Values) ([]models.Movie, error) {
	body, err := c.doRequest(ctx, path, query)
	if err != nil {
		return nil, err
	}

	var decoded listResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode list response: %w", err)
	}

	movies := make([]models.Movie, 0, len(decoded.Results))
	for _, raw := range decoded.Results {
		movies = append(movies, mapMovie(raw))
	}
	return movies, nil
}

func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	query.Set("api_key", c.apiKey)
	requestURL := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

// mapMovie normalizes one raw API entry, substituting placeholders where the
// source data is incomplete.
func mapMovie(raw apiMovie) models.Movie {
	year := "Unknown"
	if len(raw.ReleaseDate) >= 4 {
		year = raw.ReleaseDate[:4]
	}

	rating := "N/A"
	if raw.VoteAverage != 0 {
		rating = strconv.FormatFloat(raw.VoteAverage, 'f', 1, 64)
	}

	poster := PlaceholderPoster
	if raw.PosterPath != "" {
		poster = imageBaseURL + raw.PosterPath
	}

	overview := raw.Overview
	if overview == "" {
		overview = PlaceholderOverview
	}

	genreIDs := raw.GenreIDs
	if genreIDs == nil {
		genreIDs = []int{}
	}

	return models.Movie{
		ID:        raw.ID,
		Title:     raw.Title,
		Year:      year,
		Rating:    rating,
		PosterURL: poster,
		Overview:  overview,
		GenreIDs:  genreIDs,
	}
}
