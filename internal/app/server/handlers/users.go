package handlers

import (
	"encoding/json"
	"net/http"

	"snapland/internal/core/contracts"
)

// UsersHandler serves the same roster over HTTP that the hub pushes over the
// socket, for clients that poll before connecting.
type UsersHandler struct {
	presence contracts.PresenceCache
}

func NewUsersHandler(presence contracts.PresenceCache) *UsersHandler {
	return &UsersHandler{presence: presence}
}

func (h *UsersHandler) Status(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.presence.SnapshotAll())
}
