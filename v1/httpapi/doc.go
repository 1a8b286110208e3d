// Package httpapi exposes the vectors service over HTTP using fiber.
//
// Routes under the configured prefix (default /api/v1):
//
//	GET    /qdrant/collections
//	POST   /qdrant/collections
//	GET    /qdrant/collections/:name
//	DELETE /qdrant/collections/:name
//	POST   /qdrant/collections/:collection/points
//	POST   /qdrant/collections/:collection/points/batch
//	GET    /qdrant/collections/:collection/points/:id?with_vector=true
//	DELETE /qdrant/collections/:collection/points/:id
//	POST   /qdrant/collections/:collection/search
//
// GET /, GET /health and GET /metrics are served at the root.
//
// # Errors
//
// All failures share one envelope:
//
//	{"error": "collection_not_found", "message": "...", "details": {...}}
//
// Domain errors carry their own code and status. Malformed or invalid
// request bodies answer 422 with code request_validation_error and the
// offending field in details. Anything unclassified is a 500 with code
// internal_error; the cause is logged, never returned.
//
// Path ids made only of digits are numeric point ids; anything else is a
// string id.
//
// # FX Integration
//
//	app := fx.New(
//	    config.FXModule,
//	    logger.FXModule,
//	    qdrant.FXModule,
//	    vectors.FXModule,
//	    httpapi.FXModule,
//	)
package httpapi
