package mux

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"holdemtable-server/pkg/shuffle"
)

// getCardOrder returns the public view of a single hand's card ordering
func (m *Mux) getCardOrder(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	summary, err := m.registry.Summarize(r.Context(), gameID)
	if err == shuffle.ErrGameNotFound {
		m.writeError(w, http.StatusNotFound, err.Error())
		return
	} else if err != nil {
		m.logger.WithError(err).Error("could not load card ordering")
		m.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	m.writeJSON(w, http.StatusOK, summary)
}

// getCardOrdersLatest returns the most recent card orderings, newest first
func (m *Mux) getCardOrdersLatest(w http.ResponseWriter, r *http.Request) {
	count, _ := strconv.Atoi(r.FormValue("count"))

	summaries, err := m.registry.Latest(r.Context(), count)
	if err != nil {
		m.logger.WithError(err).Error("could not list card orderings")
		m.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	m.writeJSON(w, http.StatusOK, summaries)
}

// getCardOrdersExport streams every revealed card ordering as CSV
func (m *Mux) getCardOrdersExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="card-orders.csv"`)

	if err := m.registry.ExportCSV(r.Context(), w); err != nil {
		m.logger.WithError(err).Error("could not export card orderings")
	}
}

type verifyRequest struct {
	GameID       string `json:"gameId"`
	ExpectedHash string `json:"expectedHash"`
}

// postCardOrdersVerify recomputes a hand's commitment hash. A mismatch is a
// 200 with isValid false; only an unknown game is a 404.
func (m *Mux) postCardOrdersVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		m.writeError(w, http.StatusBadRequest, "could not parse request")
		return
	}

	if req.GameID == "" {
		m.writeError(w, http.StatusBadRequest, "gameId is required")
		return
	}

	result, err := m.registry.Verify(r.Context(), req.GameID, req.ExpectedHash)
	if err == shuffle.ErrGameNotFound {
		m.writeError(w, http.StatusNotFound, err.Error())
		return
	} else if err != nil {
		m.logger.WithError(err).Error("could not verify card ordering")
		m.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	m.writeJSON(w, http.StatusOK, result)
}
