package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"moviedeck/models"
	"moviedeck/services/store"
)

type collectionStore interface {
	Favorites() []models.FavoriteItem
	AddToFavorites(m models.Movie) store.Result
	RemoveFromFavorites(id int) store.Result
	IsFavorite(id int) bool
	Watchlist() []models.WatchlistItem
	AddToWatchlist(m models.Movie) store.Result
	MarkAsWatched(id int) store.Result
	RemoveFromWatchlist(id int) store.Result
	SearchHistory() []models.SearchHistoryEntry
	ClearSearchHistory() bool
	MovieSuggestions() []models.Suggestion
	SaveMovieSuggestion(s models.Suggestion) (models.Suggestion, store.Result)
	Preferences() models.Preferences
	UpdatePreferences(partial models.Preferences) bool
	StorageStats() store.Stats
}

var _ collectionStore = (*store.Store)(nil)

// LibraryHandler serves the user's persisted collections: favorites,
// watchlist, search history, suggestions and preferences.
type LibraryHandler struct {
	Store    collectionStore
	validate *validator.Validate
}

func NewLibraryHandler(s collectionStore) *LibraryHandler {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report validation failures under the field's json name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return &LibraryHandler{Store: s, validate: v}
}

// RegisterRoutes mounts the collection endpoints on the router.
func (h *LibraryHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/favorites", h.ListFavorites).Methods(http.MethodGet)
	r.HandleFunc("/api/favorites", h.AddFavorite).Methods(http.MethodPost)
	r.HandleFunc("/api/favorites/{id}", h.CheckFavorite).Methods(http.MethodGet)
	r.HandleFunc("/api/favorites/{id}", h.RemoveFavorite).Methods(http.MethodDelete)

	r.HandleFunc("/api/watchlist", h.ListWatchlist).Methods(http.MethodGet)
	r.HandleFunc("/api/watchlist", h.AddWatchlist).Methods(http.MethodPost)
	r.HandleFunc("/api/watchlist/{id}/watched", h.MarkWatched).Methods(http.MethodPost)
	r.HandleFunc("/api/watchlist/{id}", h.RemoveWatchlist).Methods(http.MethodDelete)

	r.HandleFunc("/api/search-history", h.ListSearchHistory).Methods(http.MethodGet)
	r.HandleFunc("/api/search-history", h.ClearSearchHistory).Methods(http.MethodDelete)

	r.HandleFunc("/api/suggestions", h.ListSuggestions).Methods(http.MethodGet)
	r.HandleFunc("/api/suggestions", h.SubmitSuggestion).Methods(http.MethodPost)

	r.HandleFunc("/api/preferences", h.GetPreferences).Methods(http.MethodGet)
	r.HandleFunc("/api/preferences", h.UpdatePreferences).Methods(http.MethodPut)

	r.HandleFunc("/api/storage/stats", h.StorageStats).Methods(http.MethodGet)
}

func (h *LibraryHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.Favorites())
}

func (h *LibraryHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	movie, ok := decodeMovie(w, r)
	if !ok {
		return
	}
	writeResult(w, h.Store.AddToFavorites(movie))
}

func (h *LibraryHandler) CheckFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"isFavorite": h.Store.IsFavorite(id)})
}

func (h *LibraryHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	writeResult(w, h.Store.RemoveFromFavorites(id))
}

func (h *LibraryHandler) ListWatchlist(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.Watchlist())
}

func (h *LibraryHandler) AddWatchlist(w http.ResponseWriter, r *http.Request) {
	movie, ok := decodeMovie(w, r)
	if !ok {
		return
	}
	writeResult(w, h.Store.AddToWatchlist(movie))
}

func (h *LibraryHandler) MarkWatched(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	writeResult(w, h.Store.MarkAsWatched(id))
}

func (h *LibraryHandler) RemoveWatchlist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	writeResult(w, h.Store.RemoveFromWatchlist(id))
}

func (h *LibraryHandler) ListSearchHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.SearchHistory())
}

func (h *LibraryHandler) ClearSearchHistory(w http.ResponseWriter, r *http.Request) {
	if !h.Store.ClearSearchHistory() {
		writeError(w, http.StatusInternalServerError, "failed to clear search history")
		return
	}
	writeJSON(w, http.StatusOK, []models.SearchHistoryEntry{})
}

func (h *LibraryHandler) ListSuggestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.MovieSuggestions())
}

// SubmitSuggestion validates the suggestion form and stores it. Constraint
// violations come back as a per-field error map for inline display.
func (h *LibraryHandler) SubmitSuggestion(w http.ResponseWriter, r *http.Request) {
	var suggestion models.Suggestion
	if err := json.NewDecoder(r.Body).Decode(&suggestion); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.validate.Struct(suggestion); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"errors": fieldErrors(invalid),
			})
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	stored, result := h.Store.SaveMovieSuggestion(suggestion)
	if !result.Success {
		writeError(w, http.StatusInternalServerError, result.Message)
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

func (h *LibraryHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.Preferences())
}

func (h *LibraryHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var partial models.Preferences
	if err := json.NewDecoder(r.Body).Decode(&partial); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !h.Store.UpdatePreferences(partial) {
		writeError(w, http.StatusInternalServerError, "failed to update preferences")
		return
	}
	writeJSON(w, http.StatusOK, h.Store.Preferences())
}

func (h *LibraryHandler) StorageStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.StorageStats())
}

// writeResult maps a store result onto a status code: failed preconditions
// show up as 404 (missing id) or 409 (duplicate), everything else as 200.
// The result body is returned either way so clients can show the message.
func writeResult(w http.ResponseWriter, result store.Result) {
	status := http.StatusOK
	if !result.Success {
		switch {
		case strings.Contains(result.Message, "not found"):
			status = http.StatusNotFound
		case strings.Contains(result.Message, "already"):
			status = http.StatusConflict
		default:
			status = http.StatusInternalServerError
		}
	}
	writeJSON(w, status, result)
}

func decodeMovie(w http.ResponseWriter, r *http.Request) (models.Movie, bool) {
	var movie models.Movie
	if err := json.NewDecoder(r.Body).Decode(&movie); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return models.Movie{}, false
	}
	if movie.ID == 0 {
		writeError(w, http.StatusBadRequest, "movie id is required")
		return models.Movie{}, false
	}
	return movie, true
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid movie id")
		return 0, false
	}
	return id, true
}

// fieldErrors converts validation failures into user-facing inline messages.
func fieldErrors(invalid validator.ValidationErrors) map[string]string {
	messages := make(map[string]string, len(invalid))
	for _, fe := range invalid {
		switch fe.Tag() {
		case "required":
			messages[fe.Field()] = "This field is required"
		case "email":
			messages[fe.Field()] = "Enter a valid email address"
		case "min":
			messages[fe.Field()] = "Too short (minimum " + fe.Param() + ")"
		case "max":
			messages[fe.Field()] = "Too long (maximum " + fe.Param() + ")"
		case "gte":
			messages[fe.Field()] = "Must be " + fe.Param() + " or later"
		case "lte":
			messages[fe.Field()] = "Must be " + fe.Param() + " or earlier"
		default:
			messages[fe.Field()] = "Invalid value"
		}
	}
	return messages
}
