// Package store implements the persisted-collection store: a namespaced
// key/value surface over a storage backend, with derived collections for
// favorites, watchlist, search history, suggestions and user preferences.
package store

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"moviedeck/models"
)

// Namespace is prepended to every logical key so the store never collides
// with unrelated data sharing the same backend.
const Namespace = "moviecatalog_"

// Logical keys recognized by the store.
const (
	keyFavorites     = "favorites"
	keyWatchlist     = "watchlist"
	keySearchHistory = "searchHistory"
	keySuggestions   = "movieSuggestions"
	keyPreferences   = "userPreferences"
)

// maxSearchHistory bounds the search history to the most recent entries.
const maxSearchHistory = 10

// KV is the storage backend the store writes through. Implemented by
// database.KVRepository; tests substitute an in-memory map.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
	Keys(prefix string) ([]string, error)
}

// Result reports the outcome of a collection operation. A failed precondition
// (duplicate favorite, unknown id) is signaled here, never as an error.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Store provides the persisted collections over a KV backend. Backend
// failures degrade to defaults on reads and failure results on writes; the
// store never panics or propagates storage errors to callers.
type Store struct {
	kv   KV
	now  func() time.Time
	rand *rand.Rand
}

// New creates a store over the given backend and runs the one-time legacy key
// migration. The migration is idempotent; running it with nothing to migrate
// is a no-op.
func New(kv KV) *Store {
	s := &Store{
		kv:   kv,
		now:  time.Now,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	s.migrateLegacyKeys()
	return s
}

// get reads and decodes the namespaced key into out. Missing keys, backend
// errors and decode errors all leave out untouched and return false.
func (s *Store) get(key string, out any) bool {
	raw, ok, err := s.kv.Get(Namespace + key)
	if err != nil {
		log.Printf("[store] error reading %q: %v", key, err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		log.Printf("[store] error decoding %q: %v", key, err)
		return false
	}
	return true
}

// set encodes value and writes it under the namespaced key.
func (s *Store) set(key string, value any) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		log.Printf("[store] error encoding %q: %v", key, err)
		return false
	}
	if err := s.kv.Set(Namespace+key, string(raw)); err != nil {
		log.Printf("[store] error writing %q: %v", key, err)
		return false
	}
	return true
}

// Remove deletes the namespaced key.
func (s *Store) Remove(key string) bool {
	if err := s.kv.Delete(Namespace + key); err != nil {
		log.Printf("[store] error removing %q: %v", key, err)
		return false
	}
	return true
}

// Clear removes every key under the store's namespace, leaving unrelated
// entries in the backend alone.
func (s *Store) Clear() bool {
	keys, err := s.kv.Keys(Namespace)
	if err != nil {
		log.Printf("[store] error listing keys: %v", err)
		return false
	}
	ok := true
	for _, key := range keys {
		if err := s.kv.Delete(key); err != nil {
			log.Printf("[store] error removing %q: %v", key, err)
			ok = false
		}
	}
	return ok
}

// Favorites returns the saved favorites, oldest first.
func (s *Store) Favorites() []models.FavoriteItem {
	favorites := []models.FavoriteItem{}
	s.get(keyFavorites, &favorites)
	return favorites
}

// AddToFavorites saves the movie unless it is already present.
func (s *Store) AddToFavorites(m models.Movie) Result {
	favorites := s.Favorites()

	for _, fav := range favorites {
		if fav.ID == m.ID {
			return Result{Success: false, Message: "Movie already in favorites"}
		}
	}

	favorites = append(favorites, models.NewFavoriteItem(m, s.now()))

	if !s.set(keyFavorites, favorites) {
		return Result{Success: false, Message: "Failed to add to favorites"}
	}
	return Result{Success: true, Message: "Movie added to favorites"}
}

// RemoveFromFavorites removes the movie with the given id.
func (s *Store) RemoveFromFavorites(id int) Result {
	favorites := s.Favorites()

	kept := favorites[:0]
	for _, fav := range favorites {
		if fav.ID != id {
			kept = append(kept, fav)
		}
	}
	if len(kept) == len(favorites) {
		return Result{Success: false, Message: "Movie not found in favorites"}
	}

	if !s.set(keyFavorites, kept) {
		return Result{Success: false, Message: "Failed to remove from favorites"}
	}
	return Result{Success: true, Message: "Movie removed from favorites"}
}

// IsFavorite reports whether a movie with the given id has been saved.
func (s *Store) IsFavorite(id int) bool {
	for _, fav := range s.Favorites() {
		if fav.ID == id {
			return true
		}
	}
	return false
}

// Watchlist returns the saved watchlist, oldest first.
func (s *Store) Watchlist() []models.WatchlistItem {
	watchlist := []models.WatchlistItem{}
	s.get(keyWatchlist, &watchlist)
	return watchlist
}

// AddToWatchlist saves the movie as unwatched unless it is already present.
func (s *Store) AddToWatchlist(m models.Movie) Result {
	watchlist := s.Watchlist()

	for _, item := range watchlist {
		if item.ID == m.ID {
			return Result{Success: false, Message: "Movie already in watchlist"}
		}
	}

	watchlist = append(watchlist, models.NewWatchlistItem(m, s.now()))

	if !s.set(keyWatchlist, watchlist) {
		return Result{Success: false, Message: "Failed to add to watchlist"}
	}
	return Result{Success: true, Message: "Movie added to watchlist"}
}

// MarkAsWatched flags the watchlist entry with the given id as watched.
func (s *Store) MarkAsWatched(id int) Result {
	watchlist := s.Watchlist()

	index := -1
	for i, item := range watchlist {
		if item.ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return Result{Success: false, Message: "Movie not found in watchlist"}
	}

	watchedAt := s.now()
	watchlist[index].Watched = true
	watchlist[index].WatchedAt = &watchedAt

	if !s.set(keyWatchlist, watchlist) {
		return Result{Success: false, Message: "Failed to update watchlist"}
	}
	return Result{Success: true, Message: "Movie marked as watched"}
}

// RemoveFromWatchlist removes the movie with the given id.
func (s *Store) RemoveFromWatchlist(id int) Result {
	watchlist := s.Watchlist()

	kept := watchlist[:0]
	for _, item := range watchlist {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(watchlist) {
		return Result{Success: false, Message: "Movie not found in watchlist"}
	}

	if !s.set(keyWatchlist, kept) {
		return Result{Success: false, Message: "Failed to remove from watchlist"}
	}
	return Result{Success: true, Message: "Movie removed from watchlist"}
}

// SearchHistory returns the recorded searches, newest first.
func (s *Store) SearchHistory() []models.SearchHistoryEntry {
	history := []models.SearchHistoryEntry{}
	s.get(keySearchHistory, &history)
	return history
}

// AddToSearchHistory records a search. The query is deduplicated
// case-insensitively against existing entries (the stored entry keeps the
// caller's casing), moved to the front, and the history is capped at the ten
// most recent searches. Blank queries are ignored.
func (s *Store) AddToSearchHistory(query string) []models.SearchHistoryEntry {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return s.SearchHistory()
	}

	normalized := strings.ToLower(trimmed)
	history := s.SearchHistory()

	kept := history[:0]
	for _, entry := range history {
		if strings.ToLower(entry.Query) != normalized {
			kept = append(kept, entry)
		}
	}

	updated := append([]models.SearchHistoryEntry{{Query: trimmed, Timestamp: s.now()}}, kept...)
	if len(updated) > maxSearchHistory {
		updated = updated[:maxSearchHistory]
	}

	s.set(keySearchHistory, updated)
	return updated
}

// ClearSearchHistory empties the recorded searches.
func (s *Store) ClearSearchHistory() bool {
	return s.set(keySearchHistory, []models.SearchHistoryEntry{})
}

// MovieSuggestions returns every stored suggestion in submission order.
func (s *Store) MovieSuggestions() []models.Suggestion {
	suggestions := []models.Suggestion{}
	s.get(keySuggestions, &suggestions)
	return suggestions
}

// SaveMovieSuggestion assigns the suggestion an id and pending status,
// appends it (suggestions are never deduplicated) and returns the stored
// record alongside the outcome.
func (s *Store) SaveMovieSuggestion(suggestion models.Suggestion) (models.Suggestion, Result) {
	suggestion.ID = s.generateSuggestionID()
	suggestion.SubmittedAt = s.now()
	suggestion.Status = models.SuggestionStatusPending

	suggestions := append(s.MovieSuggestions(), suggestion)

	if !s.set(keySuggestions, suggestions) {
		return suggestion, Result{Success: false, Message: "Failed to save suggestion"}
	}
	return suggestion, Result{Success: true, Message: "Suggestion saved successfully"}
}

// Preferences returns the stored user preferences merged over the defaults.
func (s *Store) Preferences() models.Preferences {
	prefs := models.DefaultPreferences()
	var stored models.Preferences
	if s.get(keyPreferences, &stored) {
		prefs = prefs.Merge(stored)
	}
	return prefs
}

// UpdatePreferences overlays the non-zero fields of the partial update onto
// the current preferences and persists the result.
func (s *Store) UpdatePreferences(partial models.Preferences) bool {
	return s.set(keyPreferences, s.Preferences().Merge(partial))
}

// Stats summarizes what the store currently holds in its namespace.
type Stats struct {
	ItemCount  int    `json:"itemCount"`
	TotalBytes int    `json:"totalBytes"`
	TotalSize  string `json:"totalSize"`
}

// StorageStats reports the number of namespaced entries and their
// approximate serialized size.
func (s *Store) StorageStats() Stats {
	keys, err := s.kv.Keys(Namespace)
	if err != nil {
		log.Printf("[store] error listing keys: %v", err)
		return Stats{TotalSize: formatBytes(0)}
	}

	stats := Stats{}
	for _, key := range keys {
		value, ok, err := s.kv.Get(key)
		if err != nil || !ok {
			continue
		}
		stats.ItemCount++
		stats.TotalBytes += len(key) + len(value)
	}
	stats.TotalSize = formatBytes(stats.TotalBytes)
	return stats
}

// generateSuggestionID builds ids of the form SUGGEST-<base36 ms timestamp>-<base36 random>.
func (s *Store) generateSuggestionID() string {
	timestamp := strconv.FormatInt(s.now().UnixMilli(), 36)
	random := strconv.FormatInt(s.rand.Int63n(36*36*36*36*36), 36)
	for len(random) < 5 {
		random = "0" + random
	}
	return strings.ToUpper("SUGGEST-" + timestamp + "-" + random)
}

// migrateLegacyKeys copies values stored before the namespace was introduced
// under their namespaced keys and deletes the legacy entries.
func (s *Store) migrateLegacyKeys() {
	legacy := []string{keyFavorites, keyPreferences, keySearchHistory}

	for _, key := range legacy {
		value, ok, err := s.kv.Get(key)
		if err != nil {
			log.Printf("[store] error reading legacy key %q: %v", key, err)
			continue
		}
		if !ok {
			continue
		}
		if err := s.kv.Set(Namespace+key, value); err != nil {
			log.Printf("[store] error migrating legacy key %q: %v", key, err)
			continue
		}
		if err := s.kv.Delete(key); err != nil {
			log.Printf("[store] error deleting legacy key %q: %v", key, err)
		}
	}
}

func formatBytes(n int) string {
	if n <= 0 {
		return "0 Bytes"
	}
	units := []string{"Bytes", "KB", "MB", "GB"}
	value := float64(n)
	unit := 0
	for value >= 1024 && unit < len(units)-1 {
		value /= 1024
		unit++
	}
	if unit == 0 {
		return fmt.Sprintf("%d Bytes", n)
	}
	return fmt.Sprintf("%.2f %s", value, units[unit])
}
