package middleware

import (
	"net/http"

	"github.com/doodlesbykumbi/webauth-in-go/pkg/diag"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/request"
)

// Transaction attaches a request.Transaction to every request. A request
// that already carries one, such as an internal re-dispatch, runs as a
// sub-operation of it and shares its notes.
func Transaction(sink diag.Sink) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var tx *request.Transaction
			if parent, ok := request.FromContext(r.Context()); ok {
				tx = parent.Sub()
			} else {
				tx = request.New(sink)
			}
			next.ServeHTTP(w, r.WithContext(request.NewContext(r.Context(), tx)))
		})
	}
}
