package endpoints

import (
	"net/http"

	"github.com/doodlesbykumbi/webauth-in-go/pkg/identity"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/server"
)

// WhoamiResponse represents the response from the /whoami endpoint
type WhoamiResponse struct {
	Subject        string `json:"subject"`
	Kind           string `json:"token_type"`
	InitialFactors string `json:"initial_factors,omitempty"`
	SessionFactors string `json:"session_factors,omitempty"`
	LOA            uint32 `json:"loa,omitempty"`
	Created        int64  `json:"creation"`
	Expires        int64  `json:"expiration,omitempty"`
	ClientIP       string `json:"client_ip,omitempty"`
	Transaction    string `json:"transaction"`
}

// RegisterWhoamiEndpoint registers the /whoami endpoint
func RegisterWhoamiEndpoint(s *server.Server) {
	whoamiRouter := s.Router.PathPrefix("/whoami").Subrouter()
	whoamiRouter.Use(s.Authenticator().Middleware)

	whoamiRouter.HandleFunc("", handleWhoami()).Methods("GET")
}

func handleWhoami() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		if !ok {
			http.Error(w, "Unable to determine identity", http.StatusUnauthorized)
			return
		}

		response := WhoamiResponse{
			Subject:        id.Subject,
			Kind:           id.Kind.String(),
			InitialFactors: id.InitialFactors,
			SessionFactors: id.SessionFactors,
			LOA:            id.LOA,
			Created:        id.IssuedAt.Unix(),
			Transaction:    id.TransactionID,
		}
		if !id.ExpiresAt.IsZero() {
			response.Expires = id.ExpiresAt.Unix()
		}
		if id.RemoteIP != nil {
			response.ClientIP = id.RemoteIP.String()
		}

		respondWithJSON(w, http.StatusOK, response)
	}
}
