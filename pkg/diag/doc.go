// Package diag provides the diagnostic sink used by the token pipeline.
//
// Core packages never write to a logger directly. They report through a
// Sink, which the host wires to a go-hclog logger in production and to a
// Recorder in tests:
//
//	logger := diag.NewLogger(diag.Options{Level: "info", Format: "json"})
//	sink := diag.FromLogger(logger)
//
//	rec := &diag.Recorder{}
//	list.GetRequired("s", rec, "parseAppToken")
//	rec.Len() // 1 if "s" was missing
//
// Every line carries the module tag (Tag) as its first component so that
// existing log scrapers keep matching.
package diag
