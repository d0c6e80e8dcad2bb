package mux

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"holdemtable-server/pkg/room"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// getTables lists every open table
func (m *Mux) getTables(w http.ResponseWriter, r *http.Request) {
	m.writeJSON(w, http.StatusOK, m.pitBoss.Tables())
}

type createTableRequest struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

// postTable opens a new table
func (m *Mux) postTable(w http.ResponseWriter, r *http.Request) {
	if _, err := m.playerID(r); err != nil {
		m.writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var req createTableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		m.writeError(w, http.StatusBadRequest, "could not parse request")
		return
	}

	if req.Name == "" {
		req.Name = "table"
	}

	dealer, err := m.pitBoss.CreateTable(req.Name, req.Capacity)
	if err != nil {
		m.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	m.writeJSON(w, http.StatusCreated, dealer.Table().State())
}

// getTableWS upgrades the connection and attaches the player to the table
func (m *Mux) getTableWS(w http.ResponseWriter, r *http.Request) {
	playerID, err := m.playerID(r)
	if err != nil {
		m.writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	dealer, ok := m.pitBoss.Dealer(mux.Vars(r)["uuid"])
	if !ok {
		m.writeError(w, http.StatusNotFound, "could not find that table")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.logger.WithError(err).Warn("could not upgrade connection")
		return
	}

	client := room.NewClient(m.logger, conn, playerID, r.FormValue("name"))
	dealer.AddClient(client)
	client.Run(dealer.Receive)
	dealer.RemoveClient(client)
}
