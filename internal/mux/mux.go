// Package mux provides the HTTP routes for the table service
package mux

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"holdemtable-server/internal/config"
	"holdemtable-server/internal/jwt"
	"holdemtable-server/pkg/room"
	"holdemtable-server/pkg/shuffle"
)

var started = time.Now()

// Mux is the HTTP handler for the service
type Mux struct {
	*mux.Router
	logger   logrus.FieldLogger
	pitBoss  *room.PitBoss
	registry *shuffle.Registry
}

// New returns a fully routed Mux
func New(logger logrus.FieldLogger, pitBoss *room.PitBoss, registry *shuffle.Registry) *Mux {
	m := &Mux{
		Router:   mux.NewRouter(),
		logger:   logger,
		pitBoss:  pitBoss,
		registry: registry,
	}

	m.HandleFunc("/health", m.getHealth).Methods(http.MethodGet)

	m.HandleFunc("/table", m.getTables).Methods(http.MethodGet)
	m.HandleFunc("/table", m.postTable).Methods(http.MethodPost)
	m.HandleFunc("/table/{uuid}/ws", m.getTableWS).Methods(http.MethodGet)

	m.HandleFunc("/card-orders/latest", m.getCardOrdersLatest).Methods(http.MethodGet)
	m.HandleFunc("/card-orders/export", m.getCardOrdersExport).Methods(http.MethodGet)
	m.HandleFunc("/card-orders/game/{id}", m.getCardOrder).Methods(http.MethodGet)
	m.HandleFunc("/card-orders/verify", m.postCardOrdersVerify).Methods(http.MethodPost)

	if config.Instance().EnableTestEndpoints {
		logger.Warn("test endpoints are enabled")
		m.HandleFunc("/api/test/table/{uuid}/seed", m.postTestSeed).Methods(http.MethodPost)
	}

	return m
}

func (m *Mux) getHealth(w http.ResponseWriter, r *http.Request) {
	m.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "OK",
		"uptime": time.Since(started).String(),
	})
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type successResponse struct {
	Success bool `json:"success"`
}

func (m *Mux) writeJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		m.logger.WithError(err).Error("could not encode response")
	}
}

func (m *Mux) writeError(w http.ResponseWriter, statusCode int, message string) {
	m.writeJSON(w, statusCode, errorResponse{
		Success: false,
		Error:   message,
	})
}

// playerID authenticates the request. The token comes from the
// Authorization header or, for websocket requests, the access_token query
// parameter.
func (m *Mux) playerID(r *http.Request) (int64, error) {
	token := ""
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		token = strings.TrimPrefix(header, "Bearer ")
	} else {
		token = r.FormValue("access_token")
	}

	if token == "" {
		return 0, errors.New("missing access token")
	}

	return jwt.ValidPlayerID(token)
}
