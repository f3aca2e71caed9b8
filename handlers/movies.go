package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"moviedeck/models"
	catalogsvc "moviedeck/services/catalog"
	"moviedeck/utils/filter"
)

type catalogService interface {
	Popular(ctx context.Context, page int) ([]models.Movie, error)
	Search(ctx context.Context, query string, page int) ([]models.Movie, error)
	ByGenre(ctx context.Context, genreID, page int) ([]models.Movie, error)
	Genres(ctx context.Context) ([]models.Genre, error)
	CollectionPreviews(ctx context.Context, favorites []models.Movie) []catalogsvc.CollectionPreview
}

var _ catalogService = (*catalogsvc.Service)(nil)

type searchRecorder interface {
	AddToSearchHistory(query string) []models.SearchHistoryEntry
	Favorites() []models.FavoriteItem
}

// MoviesHandler serves catalog listings filtered through the pipeline.
type MoviesHandler struct {
	Catalog catalogService
	Store   searchRecorder
}

func NewMoviesHandler(catalog catalogService, store searchRecorder) *MoviesHandler {
	return &MoviesHandler{Catalog: catalog, Store: store}
}

// RegisterRoutes mounts the catalog endpoints on the router.
func (h *MoviesHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/movies", h.List).Methods(http.MethodGet)
	r.HandleFunc("/api/movies/search", h.Search).Methods(http.MethodGet)
	r.HandleFunc("/api/genres", h.Genres).Methods(http.MethodGet)
	r.HandleFunc("/api/collections/previews", h.CollectionPreviews).Methods(http.MethodGet)
}

// List responds with one popular or by-genre page narrowed by the filter
// query parameters.
func (h *MoviesHandler) List(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	spec := specFromQuery(r)

	var (
		movies []models.Movie
		err    error
	)
	if spec.Genre != 0 {
		movies, err = h.Catalog.ByGenre(r.Context(), spec.Genre, page)
	} else {
		movies, err = h.Catalog.Popular(r.Context(), page)
	}
	if err != nil {
		log.Printf("[movies-handler] error loading movies: %v", err)
		writeError(w, http.StatusBadGateway, "failed to load movies")
		return
	}

	writeJSON(w, http.StatusOK, filter.Apply(movies, spec))
}

// Search responds with title-search results and records the query in the
// search history.
func (h *MoviesHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	h.Store.AddToSearchHistory(query)

	movies, err := h.Catalog.Search(r.Context(), query, queryInt(r, "page", 1))
	if err != nil {
		log.Printf("[movies-handler] error searching movies: %v", err)
		writeError(w, http.StatusBadGateway, "failed to load movies")
		return
	}

	writeJSON(w, http.StatusOK, filter.Apply(movies, specFromQuery(r)))
}

// Genres responds with the remote catalog's genre list.
func (h *MoviesHandler) Genres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.Catalog.Genres(r.Context())
	if err != nil {
		log.Printf("[movies-handler] error loading genres: %v", err)
		writeError(w, http.StatusBadGateway, "failed to load genres")
		return
	}
	writeJSON(w, http.StatusOK, genres)
}

// CollectionPreviews responds with the curated collections and their preview
// movies. Per-collection fetch failures degrade to empty previews.
func (h *MoviesHandler) CollectionPreviews(w http.ResponseWriter, r *http.Request) {
	favorites := h.Store.Favorites()
	movies := make([]models.Movie, 0, len(favorites))
	for _, fav := range favorites {
		movies = append(movies, models.Movie{
			ID:        fav.ID,
			Title:     fav.Title,
			Year:      fav.Year,
			Rating:    fav.Rating,
			PosterURL: fav.PosterURL,
			Overview:  fav.Overview,
			GenreIDs:  []int{},
		})
	}

	writeJSON(w, http.StatusOK, h.Catalog.CollectionPreviews(r.Context(), movies))
}

// specFromQuery builds the filter spec from the request's query parameters.
// Absent parameters leave the corresponding stage disabled.
func specFromQuery(r *http.Request) filter.Spec {
	q := r.URL.Query()
	minRating, _ := strconv.ParseFloat(q.Get("minRating"), 64)
	genre, _ := strconv.Atoi(q.Get("genre"))
	return filter.Spec{
		Search:    q.Get("search"),
		Genre:     genre,
		Year:      q.Get("year"),
		MinRating: minRating,
		SortKey:   q.Get("sort"),
	}
}

func queryInt(r *http.Request, name string, def int) int {
	value, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || value < 1 {
		return def
	}
	return value
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
