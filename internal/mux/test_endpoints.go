package mux

import (
	"encoding/hex"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

type seedRequest struct {
	Seed string `json:"seed"`
}

// postTestSeed forces the next hand at a table to use the supplied seed.
// Only routed when test endpoints are enabled.
func (m *Mux) postTestSeed(w http.ResponseWriter, r *http.Request) {
	dealer, ok := m.pitBoss.Dealer(mux.Vars(r)["uuid"])
	if !ok {
		m.writeError(w, http.StatusNotFound, "could not find that table")
		return
	}

	var req seedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		m.writeError(w, http.StatusBadRequest, "could not parse request")
		return
	}

	seed, err := hex.DecodeString(req.Seed)
	if err != nil || len(seed) == 0 {
		m.writeError(w, http.StatusBadRequest, "seed must be a non-empty hex string")
		return
	}

	dealer.ForceNextSeed(seed)
	m.writeJSON(w, http.StatusOK, successResponse{Success: true})
}
