package tmdb_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"moviedeck/services/tmdb"
)

const listBody = `{
	"page": 1,
	"results": [
		{"id": 438631, "title": "Dune", "release_date": "2021-09-15", "vote_average": 7.86, "poster_path": "/dune.jpg", "overview": "A noble family.", "genre_ids": [878, 12]},
		{"id": 999, "title": "Mystery Reel", "release_date": "", "vote_average": 0, "poster_path": "", "overview": ""}
	],
	"total_pages": 10,
	"total_results": 200
}`

func TestPopularMoviesMapsFields(t *testing.T) {
	var gotPath, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("api_key")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(listBody))
	}))
	defer server.Close()

	client := tmdb.NewClientWithBaseURL("test-key", server.URL)
	movies, err := client.PopularMovies(context.Background(), 1)
	if err != nil {
		t.Fatalf("fetch returned error: %v", err)
	}

	if gotPath != "/movie/popular" {
		t.Fatalf("expected popular endpoint, got %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Fatalf("expected api key in query, got %q", gotKey)
	}
	if len(movies) != 2 {
		t.Fatalf("expected 2 movies, got %d", len(movies))
	}

	dune := movies[0]
	if dune.ID != 438631 || dune.Title != "Dune" {
		t.Fatalf("unexpected first movie: %+v", dune)
	}
	if dune.Year != "2021" {
		t.Fatalf("expected year from release date, got %q", dune.Year)
	}
	if dune.Rating != "7.9" {
		t.Fatalf("expected one-decimal rating, got %q", dune.Rating)
	}
	if dune.PosterURL != "https://image.tmdb.org/t/p/w500/dune.jpg" {
		t.Fatalf("expected full poster url, got %q", dune.PosterURL)
	}
	if len(dune.GenreIDs) != 2 {
		t.Fatalf("expected genre ids preserved, got %v", dune.GenreIDs)
	}
}

func TestMapperAppliesPlaceholders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(listBody))
	}))
	defer server.Close()

	client := tmdb.NewClientWithBaseURL("k", server.URL)
	movies, err := client.PopularMovies(context.Background(), 1)
	if err != nil {
		t.Fatalf("fetch returned error: %v", err)
	}

	sparse := movies[1]
	if sparse.Year != "Unknown" {
		t.Fatalf("expected Unknown year, got %q", sparse.Year)
	}
	if sparse.Rating != "N/A" {
		t.Fatalf("expected N/A rating, got %q", sparse.Rating)
	}
	if sparse.PosterURL != tmdb.PlaceholderPoster {
		t.Fatalf("expected placeholder poster, got %q", sparse.PosterURL)
	}
	if sparse.Overview != tmdb.PlaceholderOverview {
		t.Fatalf("expected placeholder overview, got %q", sparse.Overview)
	}
	if sparse.GenreIDs == nil {
		t.Fatalf("expected empty genre slice, got nil")
	}
}

func TestSearchMoviesSendsQuery(t *testing.T) {
	var gotQuery, gotPage string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		gotPage = r.URL.Query().Get("page")
		w.Write([]byte(`{"results": []}`))
	}))
	defer server.Close()

	client := tmdb.NewClientWithBaseURL("k", server.URL)
	movies, err := client.SearchMovies(context.Background(), "blade runner", 2)
	if err != nil {
		t.Fatalf("search returned error: %v", err)
	}
	if len(movies) != 0 {
		t.Fatalf("expected no results, got %d", len(movies))
	}
	if gotQuery != "blade runner" || gotPage != "2" {
		t.Fatalf("unexpected query params: query=%q page=%q", gotQuery, gotPage)
	}
}

func TestDiscoverByGenreSendsGenre(t *testing.T) {
	var gotGenres string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotGenres = r.URL.Query().Get("with_genres")
		w.Write([]byte(`{"results": []}`))
	}))
	defer server.Close()

	client := tmdb.NewClientWithBaseURL("k", server.URL)
	if _, err := client.DiscoverByGenre(context.Background(), 878, 1); err != nil {
		t.Fatalf("discover returned error: %v", err)
	}
	if gotGenres != "878" {
		t.Fatalf("expected genre id in query, got %q", gotGenres)
	}
}

func TestServerErrorIsSignaled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := tmdb.NewClientWithBaseURL("k", server.URL)
	if _, err := client.PopularMovies(context.Background(), 1); err == nil {
		t.Fatalf("expected error for 500 response")
	}
	if _, err := client.Genres(context.Background()); err == nil {
		t.Fatalf("expected error for 500 response")
	}
}

func TestGenresCachedAcrossCalls(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"genres": [{"id": 878, "name": "Science Fiction"}]}`))
	}))
	defer server.Close()

	client := tmdb.NewClientWithBaseURL("k", server.URL)

	for i := 0; i < 3; i++ {
		genres, err := client.Genres(context.Background())
		if err != nil {
			t.Fatalf("genres returned error: %v", err)
		}
		if len(genres) != 1 || genres[0].Name != "Science Fiction" {
			t.Fatalf("unexpected genres: %v", genres)
		}
	}

	if calls != 1 {
		t.Fatalf("expected a single upstream call, got %d", calls)
	}
}
