// Package localstore is the embedded engine behind Local connection mode.
//
// It persists collections and points in a single SQLite file
// (<path>/storage.sqlite, via modernc.org/sqlite) and answers nearest
// neighbour queries by exhaustive scan. The API mirrors the subset of
// *qdrant.Client used by the gateway, taking and returning the go-client
// protobuf types, and reports failures as gRPC status errors (NotFound,
// AlreadyExists, InvalidArgument, Internal) so callers classify them the
// same way as errors from a real server.
//
// Unlike a server, string point ids need not be UUIDs.
//
//	store, err := localstore.Open(ctx, "./data/qdrant")
//	defer store.Close()
//	err = store.CreateCollection(ctx, &qdrant.CreateCollection{
//	    CollectionName: "docs",
//	    VectorsConfig:  qdrant.NewVectorsConfig(&qdrant.VectorParams{Size: 4, Distance: qdrant.Distance_Cosine}),
//	})
package localstore
