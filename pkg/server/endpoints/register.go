package endpoints

import (
	"github.com/doodlesbykumbi/webauth-in-go/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterStatusEndpoints(srv)
	RegisterWhoamiEndpoint(srv)
	RegisterMetricsEndpoint(srv)
}
