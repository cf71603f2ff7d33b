// Command lookup is the room code lookup service: an HTTP front end over
// internal/lobby for rayserver sessions to advertise a joinable code and
// for rayman clients to resolve one back to a host address.
package main

import (
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mossforge/duskstep/internal/lobby"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Version is set at build time
var Version = "dev"

func main() {
	addr := flag.String("addr", ":8080", "address to listen on")
	ttl := flag.Duration("ttl", 10*time.Minute, "how long an unjoined room code stays valid")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	log.Info().Str("version", Version).Str("addr", *addr).Dur("ttl", *ttl).Msg("lookup: starting")

	store := lobby.NewRoomStore(*ttl)
	go cleanupLoop(store)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /rooms", handleCreate(store))
	mux.HandleFunc("GET /rooms/{code}", handleLookup(store))
	mux.HandleFunc("DELETE /rooms/{code}", handleDelete(store))

	if err := http.ListenAndServe(*addr, mux); err != nil {
		log.Fatal().Err(err).Msg("lookup: server failed")
	}
}

func cleanupLoop(store *lobby.RoomStore) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		store.Cleanup()
	}
}

type createRequest struct {
	Host       string `json:"host"`
	Name       string `json:"name"`
	MaxPlayers int    `json:"max_players"`
}

func handleCreate(store *lobby.RoomStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Host) == "" {
			http.Error(w, "host is required", http.StatusBadRequest)
			return
		}
		if req.MaxPlayers <= 0 {
			req.MaxPlayers = 4
		}

		room, err := store.Create(req.Host, req.Name, req.MaxPlayers)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		log.Info().Str("code", room.Code).Str("host", room.Host).Msg("lookup: room created")
		writeJSON(w, http.StatusCreated, room)
	}
}

func handleLookup(store *lobby.RoomStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.PathValue("code")
		room, err := store.Lookup(code)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, room)
	}
}

func handleDelete(store *lobby.RoomStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store.Delete(r.PathValue("code"))
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("lookup: failed to encode response")
	}
}
