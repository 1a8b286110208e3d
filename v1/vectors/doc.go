// Package vectors implements the collection, point and search operations
// exposed by the gateway on top of a qdrant.Manager.
//
// The Service resolves the target collection before every collection-scoped
// operation, so a missing collection always surfaces as CollectionNotFound.
// It checks vector dimensions against the collection (VectorSizeMismatch
// with details {expected, got}), translates flat payload filters, and
// re-shapes engine results into the JSON types defined here.
//
// Batch upserts are all-or-nothing on validation: every point is checked
// before any is written. ListCollections skips collections that disappear
// while it runs.
//
// Request types carry a Validate method that enforces the request schema
// (lengths, ranges, defaults) and returns a *FieldError.
//
//	svc := vectors.NewService(manager, log)
//	info, err := svc.CreateCollection(ctx, vectors.CollectionCreate{
//	    Name: "docs", VectorSize: 4, Distance: "Cosine",
//	})
//	resp, err := svc.Search(ctx, "docs", vectors.SearchRequest{
//	    Vector: []float32{1, 0, 0, 0},
//	    Limit:  1,
//	})
package vectors
