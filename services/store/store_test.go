package store_test

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"

	"moviedeck/models"
	"moviedeck/services/store"
)

// memoryKV is an in-memory backend with switchable failure injection.
type memoryKV struct {
	entries  map[string]string
	failSets bool
	failGets bool
}

func newMemoryKV() *memoryKV {
	return &memoryKV{entries: make(map[string]string)}
}

func (m *memoryKV) Get(key string) (string, bool, error) {
	if m.failGets {
		return "", false, errors.New("backend unavailable")
	}
	value, ok := m.entries[key]
	return value, ok, nil
}

func (m *memoryKV) Set(key, value string) error {
	if m.failSets {
		return errors.New("backend unavailable")
	}
	m.entries[key] = value
	return nil
}

func (m *memoryKV) Delete(key string) error {
	delete(m.entries, key)
	return nil
}

func (m *memoryKV) Keys(prefix string) ([]string, error) {
	var keys []string
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func sampleMovie(id int) models.Movie {
	return models.Movie{
		ID:        id,
		Title:     fmt.Sprintf("Movie %d", id),
		Year:      "2021",
		Rating:    "7.5",
		PosterURL: "https://image.example/poster.jpg",
		Overview:  "A test movie.",
		GenreIDs:  []int{18},
	}
}

func TestAddToFavoritesThenIsFavorite(t *testing.T) {
	s := store.New(newMemoryKV())

	result := s.AddToFavorites(sampleMovie(42))
	if !result.Success {
		t.Fatalf("expected add to succeed, got %q", result.Message)
	}
	if !s.IsFavorite(42) {
		t.Fatalf("expected movie 42 to be a favorite")
	}
}

func TestAddToFavoritesRejectsDuplicate(t *testing.T) {
	s := store.New(newMemoryKV())

	s.AddToFavorites(sampleMovie(42))
	result := s.AddToFavorites(sampleMovie(42))

	if result.Success {
		t.Fatalf("expected duplicate add to fail")
	}
	if got := len(s.Favorites()); got != 1 {
		t.Fatalf("expected collection size unchanged, got %d", got)
	}
}

func TestRemoveFromFavorites(t *testing.T) {
	s := store.New(newMemoryKV())
	s.AddToFavorites(sampleMovie(1))
	s.AddToFavorites(sampleMovie(2))

	result := s.RemoveFromFavorites(1)
	if !result.Success {
		t.Fatalf("expected remove to succeed, got %q", result.Message)
	}
	if s.IsFavorite(1) {
		t.Fatalf("expected movie 1 to be removed")
	}
	if !s.IsFavorite(2) {
		t.Fatalf("expected movie 2 to remain")
	}

	if result := s.RemoveFromFavorites(99); result.Success {
		t.Fatalf("expected removing an absent id to fail")
	}
}

func TestWatchlistMarkAsWatched(t *testing.T) {
	s := store.New(newMemoryKV())

	if result := s.AddToWatchlist(sampleMovie(7)); !result.Success {
		t.Fatalf("expected add to succeed, got %q", result.Message)
	}
	if result := s.AddToWatchlist(sampleMovie(7)); result.Success {
		t.Fatalf("expected duplicate add to fail")
	}

	if result := s.MarkAsWatched(7); !result.Success {
		t.Fatalf("expected mark as watched to succeed, got %q", result.Message)
	}

	watchlist := s.Watchlist()
	if len(watchlist) != 1 {
		t.Fatalf("expected one watchlist entry, got %d", len(watchlist))
	}
	if !watchlist[0].Watched {
		t.Fatalf("expected entry to be watched")
	}
	if watchlist[0].WatchedAt == nil {
		t.Fatalf("expected watchedAt to be set")
	}

	if result := s.MarkAsWatched(99); result.Success {
		t.Fatalf("expected marking an absent id to fail")
	}
}

func TestRemoveFromWatchlist(t *testing.T) {
	s := store.New(newMemoryKV())
	s.AddToWatchlist(sampleMovie(7))

	if result := s.RemoveFromWatchlist(7); !result.Success {
		t.Fatalf("expected remove to succeed, got %q", result.Message)
	}
	if got := len(s.Watchlist()); got != 0 {
		t.Fatalf("expected empty watchlist, got %d entries", got)
	}
	if result := s.RemoveFromWatchlist(7); result.Success {
		t.Fatalf("expected removing an absent id to fail")
	}
}

func TestSearchHistoryDeduplicatesCaseInsensitively(t *testing.T) {
	s := store.New(newMemoryKV())

	s.AddToSearchHistory("Dune")
	history := s.AddToSearchHistory("dune")

	if len(history) != 1 {
		t.Fatalf("expected exactly one history entry, got %d", len(history))
	}
	if history[0].Query != "dune" {
		t.Fatalf("expected most recent casing to be stored, got %q", history[0].Query)
	}
}

func TestSearchHistoryMovesRepeatToFront(t *testing.T) {
	s := store.New(newMemoryKV())

	s.AddToSearchHistory("alien")
	s.AddToSearchHistory("blade runner")
	history := s.AddToSearchHistory("Alien")

	if len(history) != 2 {
		t.Fatalf("expected two entries, got %d", len(history))
	}
	if history[0].Query != "Alien" || history[1].Query != "blade runner" {
		t.Fatalf("expected repeat moved to front, got %q then %q", history[0].Query, history[1].Query)
	}
}

func TestSearchHistoryCappedAtTen(t *testing.T) {
	s := store.New(newMemoryKV())

	for i := 1; i <= 11; i++ {
		s.AddToSearchHistory(fmt.Sprintf("query %d", i))
	}

	history := s.SearchHistory()
	if len(history) != 10 {
		t.Fatalf("expected history capped at 10, got %d", len(history))
	}
	if history[0].Query != "query 11" {
		t.Fatalf("expected newest first, got %q", history[0].Query)
	}
	for _, entry := range history {
		if entry.Query == "query 1" {
			t.Fatalf("expected oldest entry to be evicted")
		}
	}
}

func TestSearchHistoryIgnoresBlankQueries(t *testing.T) {
	s := store.New(newMemoryKV())
	s.AddToSearchHistory("dune")

	history := s.AddToSearchHistory("   ")
	if len(history) != 1 {
		t.Fatalf("expected blank query to be ignored, got %d entries", len(history))
	}
}

func TestSaveMovieSuggestion(t *testing.T) {
	s := store.New(newMemoryKV())

	suggestion := models.Suggestion{Title: "Stalker", ReleaseYear: 1979, Genre: "sci-fi"}
	stored, result := s.SaveMovieSuggestion(suggestion)

	if !result.Success {
		t.Fatalf("expected save to succeed, got %q", result.Message)
	}
	if !strings.HasPrefix(stored.ID, "SUGGEST-") {
		t.Fatalf("expected generated id with SUGGEST prefix, got %q", stored.ID)
	}
	if stored.ID != strings.ToUpper(stored.ID) {
		t.Fatalf("expected uppercase id, got %q", stored.ID)
	}
	if stored.Status != models.SuggestionStatusPending {
		t.Fatalf("expected pending status, got %q", stored.Status)
	}
	if stored.SubmittedAt.IsZero() {
		t.Fatalf("expected submittedAt to be set")
	}

	// Suggestions are append-only; duplicates are allowed.
	s.SaveMovieSuggestion(suggestion)
	if got := len(s.MovieSuggestions()); got != 2 {
		t.Fatalf("expected two suggestions, got %d", got)
	}
}

func TestPreferencesDefaultsAndMerge(t *testing.T) {
	s := store.New(newMemoryKV())

	prefs := s.Preferences()
	if prefs.Theme != "light" || prefs.ViewMode != "grid" || prefs.ItemsPerPage != 20 || prefs.Language != "en-US" {
		t.Fatalf("unexpected defaults: %+v", prefs)
	}

	if !s.UpdatePreferences(models.Preferences{Theme: "dark"}) {
		t.Fatalf("expected update to succeed")
	}

	prefs = s.Preferences()
	if prefs.Theme != "dark" {
		t.Fatalf("expected theme updated, got %q", prefs.Theme)
	}
	if prefs.ViewMode != "grid" {
		t.Fatalf("expected untouched fields to keep defaults, got %q", prefs.ViewMode)
	}
}

func TestLegacyKeyMigration(t *testing.T) {
	kv := newMemoryKV()
	kv.entries["favorites"] = `[{"id":5,"title":"Old Favorite","addedAt":"2020-01-01T00:00:00Z"}]`

	s := store.New(kv)

	if _, ok := kv.entries["favorites"]; ok {
		t.Fatalf("expected legacy key to be deleted")
	}
	if _, ok := kv.entries[store.Namespace+"favorites"]; !ok {
		t.Fatalf("expected namespaced key to exist")
	}
	if !s.IsFavorite(5) {
		t.Fatalf("expected migrated favorite to be readable")
	}

	// Running the migration again with nothing to migrate is a no-op.
	s = store.New(kv)
	if !s.IsFavorite(5) {
		t.Fatalf("expected favorite to survive a second construction")
	}
}

func TestBackendWriteFailureDegrades(t *testing.T) {
	kv := newMemoryKV()
	s := store.New(kv)

	kv.failSets = true
	result := s.AddToFavorites(sampleMovie(1))
	if result.Success {
		t.Fatalf("expected failure result when the backend rejects writes")
	}

	kv.failSets = false
	if got := len(s.Favorites()); got != 0 {
		t.Fatalf("expected no favorites persisted, got %d", got)
	}
}

func TestBackendReadFailureReturnsDefaults(t *testing.T) {
	kv := newMemoryKV()
	s := store.New(kv)
	s.AddToFavorites(sampleMovie(1))

	kv.failGets = true
	if got := s.Favorites(); len(got) != 0 {
		t.Fatalf("expected empty default on read failure, got %d entries", len(got))
	}
	if s.IsFavorite(1) {
		t.Fatalf("expected membership test to degrade to false")
	}
}

func TestCorruptValueReturnsDefaults(t *testing.T) {
	kv := newMemoryKV()
	kv.entries[store.Namespace+"favorites"] = "{not json"

	s := store.New(kv)
	if got := s.Favorites(); len(got) != 0 {
		t.Fatalf("expected empty default for corrupt value, got %d entries", len(got))
	}
}

func TestClearRemovesOnlyNamespacedKeys(t *testing.T) {
	kv := newMemoryKV()
	kv.entries["unrelated"] = "keep me"

	s := store.New(kv)
	s.AddToFavorites(sampleMovie(1))
	s.AddToSearchHistory("dune")

	if !s.Clear() {
		t.Fatalf("expected clear to succeed")
	}
	if got := len(s.Favorites()); got != 0 {
		t.Fatalf("expected favorites cleared, got %d", got)
	}
	if _, ok := kv.entries["unrelated"]; !ok {
		t.Fatalf("expected unrelated key to survive")
	}
}

func TestStorageStats(t *testing.T) {
	s := store.New(newMemoryKV())
	s.AddToFavorites(sampleMovie(1))
	s.AddToSearchHistory("dune")

	stats := s.StorageStats()
	if stats.ItemCount != 2 {
		t.Fatalf("expected two namespaced entries, got %d", stats.ItemCount)
	}
	if stats.TotalBytes == 0 {
		t.Fatalf("expected non-zero size")
	}
	if stats.TotalSize == "" {
		t.Fatalf("expected formatted size")
	}
}
