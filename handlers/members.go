package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"moviedeck/models"
	memberssvc "moviedeck/services/members"
)

type memberDirectory interface {
	Load(ctx context.Context) []models.Member
}

var _ memberDirectory = (*memberssvc.Service)(nil)

// MembersHandler serves the chamber directory snapshot.
type MembersHandler struct {
	Service memberDirectory
}

func NewMembersHandler(s memberDirectory) *MembersHandler {
	return &MembersHandler{Service: s}
}

// RegisterRoutes mounts the directory endpoint on the router.
func (h *MembersHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/members", h.List).Methods(http.MethodGet)
}

// List responds with the member directory, optionally narrowed to a minimum
// membership level. The directory always loads; snapshot failures fall back
// to the built-in member list.
func (h *MembersHandler) List(w http.ResponseWriter, r *http.Request) {
	members := h.Service.Load(r.Context())

	if raw := r.URL.Query().Get("minLevel"); raw != "" {
		minLevel, err := strconv.Atoi(raw)
		if err != nil || minLevel < models.MembershipLevelStandard || minLevel > models.MembershipLevelGold {
			writeError(w, http.StatusBadRequest, "invalid minLevel")
			return
		}
		members = memberssvc.FilterByLevel(members, minLevel)
	}

	writeJSON(w, http.StatusOK, members)
}
