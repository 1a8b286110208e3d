package apperr

type definition struct {
	kind    Kind
	code    string
	message string
}

var (
	collectionNotFound      = definition{KindNotFound, "collection_not_found", "Collection not found"}
	pointNotFound           = definition{KindNotFound, "point_not_found", "Point not found"}
	collectionAlreadyExists = definition{KindAlreadyExists, "collection_already_exists", "Collection already exists"}
	pointAlreadyExists      = definition{KindAlreadyExists, "point_already_exists", "Point already exists"}
	vectorSizeMismatch      = definition{KindValidation, "vector_size_mismatch", "Vector size mismatch"}
	invalidVector           = definition{KindValidation, "invalid_vector", "Invalid vector"}
	invalidFilter           = definition{KindValidation, "invalid_filter", "Invalid filter"}
	invalidPointID          = definition{KindValidation, "invalid_point_id", "Invalid point id"}
	invalidRequest          = definition{KindValidation, "invalid_request", "Request rejected by Qdrant"}
	qdrantConnection        = definition{KindConnection, "qdrant_connection_error", "Failed to connect to Qdrant"}
	qdrantTimeout           = definition{KindConnection, "qdrant_timeout", "Qdrant operation timed out"}
)

func (d definition) build(opts []Option) *Error {
	return New(d.kind, d.code, d.message, opts...)
}

// Sentinels for errors.Is.
var (
	ErrCollectionNotFound      = collectionNotFound.build(nil)
	ErrPointNotFound           = pointNotFound.build(nil)
	ErrCollectionAlreadyExists = collectionAlreadyExists.build(nil)
	ErrPointAlreadyExists      = pointAlreadyExists.build(nil)
	ErrVectorSizeMismatch      = vectorSizeMismatch.build(nil)
	ErrInvalidVector           = invalidVector.build(nil)
	ErrInvalidFilter           = invalidFilter.build(nil)
	ErrInvalidPointID          = invalidPointID.build(nil)
	ErrInvalidRequest          = invalidRequest.build(nil)
	ErrQdrantConnection        = qdrantConnection.build(nil)
	ErrQdrantTimeout           = qdrantTimeout.build(nil)
)

func CollectionNotFound(opts ...Option) *Error      { return collectionNotFound.build(opts) }
func PointNotFound(opts ...Option) *Error           { return pointNotFound.build(opts) }
func CollectionAlreadyExists(opts ...Option) *Error { return collectionAlreadyExists.build(opts) }
func PointAlreadyExists(opts ...Option) *Error      { return pointAlreadyExists.build(opts) }
func VectorSizeMismatch(opts ...Option) *Error      { return vectorSizeMismatch.build(opts) }
func InvalidVector(opts ...Option) *Error           { return invalidVector.build(opts) }
func InvalidFilter(opts ...Option) *Error           { return invalidFilter.build(opts) }
func InvalidPointID(opts ...Option) *Error          { return invalidPointID.build(opts) }

// InvalidRequest wraps an upstream argument rejection.
func InvalidRequest(opts ...Option) *Error { return invalidRequest.build(opts) }

func QdrantConnection(opts ...Option) *Error { return qdrantConnection.build(opts) }
func QdrantTimeout(opts ...Option) *Error    { return qdrantTimeout.build(opts) }
