package endpoints

import (
	"net/http"
	"os"
	"strings"

	"github.com/doodlesbykumbi/webauth-in-go/pkg/server"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/unseal"
)

// UnsealersResponse represents the response from /unsealers
type UnsealersResponse struct {
	Installed []string `json:"installed"`
	Enabled   []string `json:"enabled"`
	Active    string   `json:"active"`
}

// StatusResponse represents the JSON form of the status page
type StatusResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	TokenKind string `json:"token_type"`
}

// RegisterStatusEndpoints registers the status and info endpoints
func RegisterStatusEndpoints(s *server.Server) {
	kind := s.Kind.String()

	s.Router.HandleFunc("/", handleStatus(kind)).Methods("GET")
	s.Router.HandleFunc("/status", handleStatus(kind)).Methods("GET")
	s.Router.HandleFunc("/unsealers", handleUnsealers(s.Unsealers, s.Config.Unsealer)).Methods("GET")
}

func handleStatus(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version := os.Getenv("WEBAUTH_VERSION_DISPLAY")
		if version == "" {
			version = "0.1.0"
		}

		accept := r.Header.Get("Accept")
		format := r.URL.Query().Get("format")
		if format == "json" || strings.Contains(accept, "application/json") {
			respondWithJSON(w, http.StatusOK, StatusResponse{
				Status:    "ok",
				Version:   version,
				TokenKind: kind,
			})
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Your WebAuth server is running!\nVersion " + version + "\n"))
	}
}

func handleUnsealers(reg *unseal.Registry, active string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if reg == nil {
			respondWithError(w, http.StatusServiceUnavailable, "no unsealers configured")
			return
		}
		respondWithJSON(w, http.StatusOK, UnsealersResponse{
			Installed: reg.Installed(),
			Enabled:   reg.Enabled(),
			Active:    active,
		})
	}
}
