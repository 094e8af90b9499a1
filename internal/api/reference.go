package api

import (
	"net/http"
	"strings"

	"github.com/nyashahama/dengue-assessment-console/internal/areas"
)

// ─── GET /api/districts ───────────────────────────────────────────────────────

func (s *Server) handleListDistricts(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string][]string{"districts": areas.Districts()})
}

// ─── GET /api/areas?district= ─────────────────────────────────────────────────

type listAreasResponse struct {
	District string   `json:"district"`
	Areas    []string `json:"areas"`
	// Disabled tells the form to grey out the area selector.
	Disabled bool `json:"disabled"`
}

// handleListAreas returns the areas of one district. An empty or unknown
// district is not an error: the list is empty and the selector disabled.
func (s *Server) handleListAreas(w http.ResponseWriter, r *http.Request) {
	district := strings.TrimSpace(r.URL.Query().Get("district"))
	list := areas.AreasFor(district)
	respond(w, http.StatusOK, listAreasResponse{
		District: district,
		Areas:    list,
		Disabled: len(list) == 0,
	})
}
