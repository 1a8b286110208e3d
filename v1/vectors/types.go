package vectors

// Limits enforced on requests before they reach the database. The
// `validate` tags on the request types carry the same numbers.
const (
	MinCollectionNameLength = 1
	MaxCollectionNameLength = 255

	MinVectorSize = 1
	MaxVectorSize = 65536

	DefaultSearchLimit = 10
	MaxSearchLimit     = 100

	MinScoreThreshold = 0.0
	MaxScoreThreshold = 1.0

	MaxBatchSize        = 1000
	MaxPayloadKeyLength = 255
)

// CollectionCreate is the body of a create-collection request.
type CollectionCreate struct {
	// Name is the unique identifier of the collection
	Name string `json:"name" validate:"min=1,max=255"`

	// VectorSize is the dimension every point vector must have
	VectorSize int `json:"vector_size" validate:"min=1,max=65536"`

	// Distance is the similarity metric: "Cosine" (default), "Euclid" or "Dot"
	Distance string `json:"distance" validate:"oneof=Cosine Euclid Dot"`

	// OnDisk stores vectors on disk instead of RAM
	OnDisk bool `json:"on_disk"`
}

// CollectionInfo describes an existing collection.
type CollectionInfo struct {
	// Name is the unique identifier of the collection
	Name string `json:"name"`

	// VectorsCount is the number of stored vectors
	VectorsCount uint64 `json:"vectors_count"`

	// PointsCount is the number of stored points
	PointsCount uint64 `json:"points_count"`

	// Status is the operational state: "green", "yellow" or "red"
	Status string `json:"status"`

	// VectorSize is the dimension of vectors in this collection
	VectorSize uint64 `json:"vector_size"`

	// Distance is the similarity metric
	Distance string `json:"distance"`

	// OnDisk reports whether vectors are kept on disk
	OnDisk bool `json:"on_disk"`
}

// CollectionList is the response of the list-collections operation.
type CollectionList struct {
	Collections []CollectionInfo `json:"collections"`
	Total       int              `json:"total"`
}

// PointCreate is a point submitted for upsert.
type PointCreate struct {
	// ID is the point identifier, an unsigned integer or a string
	ID PointID `json:"id" validate:"required"`

	// Vector is the dense embedding
	Vector []float32 `json:"vector" validate:"min=1"`

	// Payload is optional metadata stored with the vector
	Payload map[string]any `json:"payload" validate:"dive,keys,max=255,endkeys"`
}

// PointsBatchCreate is the body of a batch upsert request.
type PointsBatchCreate struct {
	Points []PointCreate `json:"points" validate:"min=1,max=1000,dive"`
}

// PointResponse is a point as returned to clients.
type PointResponse struct {
	ID PointID `json:"id"`

	// Vector is only populated when requested
	Vector []float32 `json:"vector"`

	// Payload is never null; a point without payload has {}
	Payload map[string]any `json:"payload"`

	// Score is only populated for search hits
	Score *float32 `json:"score"`
}

// BatchResponse is the response of a batch upsert.
type BatchResponse struct {
	Count int `json:"count"`
}

// SearchRequest is a similarity search query.
type SearchRequest struct {
	// Vector is the query embedding; its length must match the collection
	Vector []float32 `json:"vector" validate:"min=1"`

	// Limit is the maximum number of results, 1-100. Zero means DefaultSearchLimit.
	Limit int `json:"limit" validate:"min=1,max=100"`

	// ScoreThreshold drops results scoring below it (0-1, meaningful for Cosine)
	ScoreThreshold *float32 `json:"score_threshold,omitempty" validate:"omitempty,min=0,max=1"`

	// WithPayload includes payloads in the results. Nil means true.
	WithPayload *bool `json:"with_payload,omitempty"`

	// WithVector includes stored vectors in the results
	WithVector bool `json:"with_vector"`

	// Filter is a flat field -> value equality filter, ANDed together
	Filter map[string]any `json:"filter,omitempty"`
}

// SearchResult is a single search hit.
type SearchResult struct {
	ID      PointID        `json:"id"`
	Score   float32        `json:"score"`
	Payload map[string]any `json:"payload"`
	Vector  []float32      `json:"vector"`
}

// SearchResponse is the response of a search.
type SearchResponse struct {
	Results     []SearchResult `json:"results"`
	Total       int            `json:"total"`
	Limit       int            `json:"limit"`
	QueryTimeMs float64        `json:"query_time_ms"`
}

// Health is the result of a health check against Qdrant.
type Health struct {
	Status           string  `json:"status"`
	LatencyMs        float64 `json:"latency_ms"`
	CollectionsCount *int    `json:"collections_count,omitempty"`
	Error            string  `json:"error,omitempty"`
}
