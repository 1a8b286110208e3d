// Package qdrant owns the connection to the Qdrant vector database.
//
// The package wraps the official gRPC client (github.com/qdrant/go-client)
// behind a [Manager] that is constructed once per process and handed to
// every consumer. It integrates with the fx dependency injection framework
// and supports builder-style configuration.
//
// # Core Features
//
//   - Three connection modes: Local (embedded store on disk), Server
//     (host/port or URL) and Cloud (URL plus API key)
//   - Idempotent, concurrency-safe Connect with a liveness probe
//   - Health check with latency measurement that never fails
//   - Collection and point passthrough that reports failures as apperr
//     values (NotFound, AlreadyExists, Validation, Connection)
//   - Flat equality filters translated to native Qdrant filters
//   - Per-call timeouts, OpenTelemetry spans and Prometheus timings
//
// # Connection Modes
//
// The mode is chosen from the parameters passed to Connect:
//
//	LocalPath set          -> ModeLocal  (localstore, SQLite under LocalPath)
//	URL set + APIKey set   -> ModeCloud
//	URL set                -> ModeServer
//	otherwise Host/Port    -> ModeServer (default localhost:6334)
//
// The Go client speaks gRPC only. A URL carrying the REST port 6333 is
// dialled on 6334 instead, and an https scheme enables TLS.
//
// # Basic Usage
//
//	cfg := qdrant.DefaultConfig().WithURL("https://xyz.cloud.qdrant.io", apiKey)
//	m := qdrant.NewManager(qdrant.ManagerParams{Config: cfg, Logger: log})
//	if err := m.Connect(ctx, cfg.ConnectParams()); err != nil {
//	    // err is an *apperr.Error of kind KindConnection with details["mode"]
//	}
//	defer m.Close()
//
//	err := m.CreateCollection(ctx, qdrant.CollectionSpec{
//	    Name:       "docs",
//	    VectorSize: 4,
//	    Distance:   qdrant.DistanceCosine,
//	})
//
//	results, err := m.QueryPoints(ctx, qdrant.QueryRequest{
//	    Collection:  "docs",
//	    Vector:      []float32{1, 0, 0, 0},
//	    Limit:       10,
//	    Filter:      qdrant.Filter{"lang": qdrant.String("en")},
//	    WithPayload: true,
//	})
//
// # Absent Points
//
// GetCollectionInfo and DeleteCollection return a CollectionNotFound error
// for a missing collection, but GetPoint returns (nil, nil) for a missing
// point. Deciding whether that absence is an error is left to the caller.
//
// # Filters
//
// [ParseFilter] accepts a decoded JSON object of scalars and rejects lists,
// objects and null with an InvalidFilter error. [BuildFilter] turns the
// result into a conjunction of Must conditions.
//
// # FX Integration
//
//	app := fx.New(
//	    logger.FXModule,
//	    fx.Provide(func() *qdrant.Config { return qdrant.DefaultConfig() }),
//	    qdrant.FXModule,
//	)
//
// The module connects on start (a failed connect aborts startup) and closes
// the connection on stop.
//
// # Thread Safety
//
// All Manager methods are safe for concurrent use.
package qdrant
