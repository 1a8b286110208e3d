package vectors

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	qdrant "github.com/qdrant/go-client/qdrant"
	"golang.org/x/sync/errgroup"

	"github.com/Aleph-Alpha/qdrant-gateway/v1/apperr"
	"github.com/Aleph-Alpha/qdrant-gateway/v1/logger"
	qd "github.com/Aleph-Alpha/qdrant-gateway/v1/qdrant"
)

// listConcurrency bounds the per-collection lookups of ListCollections.
const listConcurrency = 8

//
// ──────────────────────────────────────────────────────────────
//   MEDIATION SERVICE
// ──────────────────────────────────────────────────────────────
//
// Service holds the business rules between the HTTP surface and the
// connection manager: collection resolution, vector dimension checks,
// filter translation and re-shaping of engine results.
//
// Every error it returns is either an *apperr.Error or an unclassified
// upstream failure passed through from the manager.
//

// store is the part of *qd.Manager the service drives.
type store interface {
	ListCollections(ctx context.Context) ([]string, error)
	GetCollectionInfo(ctx context.Context, name string) (*qdrant.CollectionInfo, error)
	CreateCollection(ctx context.Context, spec qd.CollectionSpec) error
	DeleteCollection(ctx context.Context, name string) error
	UpsertPoints(ctx context.Context, collection string, points []*qdrant.PointStruct) (int, error)
	GetPoint(ctx context.Context, collection string, id *qdrant.PointId, withVector bool) (*qdrant.RetrievedPoint, error)
	DeletePoints(ctx context.Context, collection string, ids []*qdrant.PointId) (int, error)
	QueryPoints(ctx context.Context, req qd.QueryRequest) ([]*qdrant.ScoredPoint, error)
	HealthCheck(ctx context.Context) qd.HealthStatus
}

// Service is safe for concurrent use; it holds no per-request state.
type Service struct {
	qdrant store
	log    *logger.Logger
}

// NewService creates a service on top of a connected manager.
func NewService(m *qd.Manager, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{qdrant: m, log: log.Named("vectors")}
}

//
// ──────────────────────────────────────────────────────────────
//   COLLECTIONS
// ──────────────────────────────────────────────────────────────
//

// ListCollections resolves every collection in parallel, preserving the
// order of the listing. Collections deleted between listing and lookup are
// left out rather than failing the call.
func (s *Service) ListCollections(ctx context.Context) (CollectionList, error) {
	names, err := s.qdrant.ListCollections(ctx)
	if err != nil {
		return CollectionList{}, err
	}

	resolved := make([]*CollectionInfo, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(listConcurrency)

	for i, name := range names {
		g.Go(func() error {
			info, err := s.GetCollection(gctx, name)
			if apperr.IsNotFound(err) {
				s.log.DebugWithContext(gctx, "collection vanished during listing", nil, map[string]interface{}{"collection": name})
				return nil
			}
			if err != nil {
				return err
			}
			resolved[i] = &info
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return CollectionList{}, err
	}

	out := CollectionList{Collections: make([]CollectionInfo, 0, len(names))}
	for _, info := range resolved {
		if info != nil {
			out.Collections = append(out.Collections, *info)
		}
	}
	out.Total = len(out.Collections)
	return out, nil
}

// GetCollection returns the collection's description, or CollectionNotFound.
func (s *Service) GetCollection(ctx context.Context, name string) (CollectionInfo, error) {
	info, err := s.qdrant.GetCollectionInfo(ctx, name)
	if err != nil {
		return CollectionInfo{}, err
	}

	params := qd.VectorParams(info)
	if params == nil {
		return CollectionInfo{}, fmt.Errorf("[Vectors] collection %q has no dense vector configuration", name)
	}

	points := info.GetPointsCount()
	return CollectionInfo{
		Name:         name,
		VectorsCount: points,
		PointsCount:  points,
		Status:       strings.ToLower(info.GetStatus().String()),
		VectorSize:   params.GetSize(),
		Distance:     params.GetDistance().String(),
		OnDisk:       params.GetOnDisk(),
	}, nil
}

// CreateCollection creates the collection and reads it back.
func (s *Service) CreateCollection(ctx context.Context, req CollectionCreate) (CollectionInfo, error) {
	err := s.qdrant.CreateCollection(ctx, qd.CollectionSpec{
		Name:       req.Name,
		VectorSize: uint64(req.VectorSize),
		Distance:   req.Distance,
		OnDisk:     req.OnDisk,
	})
	if err != nil {
		return CollectionInfo{}, err
	}
	return s.GetCollection(ctx, req.Name)
}

// DeleteCollection removes the collection, or returns CollectionNotFound.
func (s *Service) DeleteCollection(ctx context.Context, name string) error {
	return s.qdrant.DeleteCollection(ctx, name)
}

//
// ──────────────────────────────────────────────────────────────
//   POINTS
// ──────────────────────────────────────────────────────────────
//

// UpsertPoint checks the vector dimension, writes the point and echoes the
// submitted point back. The response reflects the request, not a re-read.
func (s *Service) UpsertPoint(ctx context.Context, collection string, p PointCreate) (PointResponse, error) {
	info, err := s.GetCollection(ctx, collection)
	if err != nil {
		return PointResponse{}, err
	}

	if uint64(len(p.Vector)) != info.VectorSize {
		return PointResponse{}, apperr.VectorSizeMismatch(
			apperr.WithMessage(fmt.Sprintf("Expected %d, got %d", info.VectorSize, len(p.Vector))),
			apperr.WithDetails(map[string]interface{}{
				"expected": info.VectorSize,
				"got":      len(p.Vector),
			}),
		)
	}

	point, err := toPointStruct(p)
	if err != nil {
		return PointResponse{}, err
	}
	if _, err := s.qdrant.UpsertPoints(ctx, collection, []*qdrant.PointStruct{point}); err != nil {
		return PointResponse{}, err
	}

	payload := p.Payload
	if payload == nil {
		payload = map[string]any{}
	}
	return PointResponse{ID: p.ID, Vector: p.Vector, Payload: payload}, nil
}

// UpsertPointsBatch checks every point before writing any of them, then
// writes all of them in one request. It returns the number of points written.
func (s *Service) UpsertPointsBatch(ctx context.Context, collection string, points []PointCreate) (int, error) {
	info, err := s.GetCollection(ctx, collection)
	if err != nil {
		return 0, err
	}

	for _, p := range points {
		if uint64(len(p.Vector)) != info.VectorSize {
			return 0, apperr.VectorSizeMismatch(
				apperr.WithMessage(fmt.Sprintf("Point %s: expected %d, got %d", p.ID, info.VectorSize, len(p.Vector))),
				apperr.WithDetails(map[string]interface{}{
					"expected": info.VectorSize,
					"got":      len(p.Vector),
					"point_id": p.ID.String(),
				}),
			)
		}
	}

	structs := make([]*qdrant.PointStruct, len(points))
	for i, p := range points {
		if structs[i], err = toPointStruct(p); err != nil {
			return 0, err
		}
	}

	return s.qdrant.UpsertPoints(ctx, collection, structs)
}

// GetPoint returns the point, or PointNotFound. The payload is never nil
// and the vector is only set when withVector is true.
func (s *Service) GetPoint(ctx context.Context, collection string, id PointID, withVector bool) (PointResponse, error) {
	if _, err := s.GetCollection(ctx, collection); err != nil {
		return PointResponse{}, err
	}

	record, err := s.qdrant.GetPoint(ctx, collection, id.toQdrant(), withVector)
	if err != nil {
		return PointResponse{}, err
	}
	if record == nil {
		return PointResponse{}, apperr.PointNotFound(
			apperr.WithMessage(fmt.Sprintf("Point '%s' not found", id)),
			apperr.WithDetails(map[string]interface{}{
				"point_id":   id.String(),
				"collection": collection,
			}),
		)
	}

	out := PointResponse{
		ID:      pointIDFrom(record.GetId()),
		Payload: payloadOrEmpty(record.GetPayload()),
	}
	if withVector {
		out.Vector = qd.DenseVector(record.GetVectors())
	}
	return out, nil
}

// DeletePoint removes the point, returning PointNotFound if it does not exist.
func (s *Service) DeletePoint(ctx context.Context, collection string, id PointID) error {
	if _, err := s.GetPoint(ctx, collection, id, false); err != nil {
		return err
	}
	_, err := s.qdrant.DeletePoints(ctx, collection, []*qdrant.PointId{id.toQdrant()})
	return err
}

//
// ──────────────────────────────────────────────────────────────
//   SEARCH
// ──────────────────────────────────────────────────────────────
//

// Search runs a similarity query. req is expected to have been validated,
// so Limit and WithPayload carry their defaults.
func (s *Service) Search(ctx context.Context, collection string, req SearchRequest) (SearchResponse, error) {
	info, err := s.GetCollection(ctx, collection)
	if err != nil {
		return SearchResponse{}, err
	}

	if uint64(len(req.Vector)) != info.VectorSize {
		return SearchResponse{}, apperr.VectorSizeMismatch(
			apperr.WithMessage(fmt.Sprintf("Query vector: expected %d, got %d", info.VectorSize, len(req.Vector))),
			apperr.WithDetails(map[string]interface{}{
				"expected":   info.VectorSize,
				"got":        len(req.Vector),
				"collection": collection,
			}),
		)
	}

	filter, err := qd.ParseFilter(req.Filter)
	if err != nil {
		return SearchResponse{}, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	withPayload := req.WithPayload == nil || *req.WithPayload

	start := time.Now()
	hits, err := s.qdrant.QueryPoints(ctx, qd.QueryRequest{
		Collection:     collection,
		Vector:         req.Vector,
		Limit:          uint64(limit),
		ScoreThreshold: req.ScoreThreshold,
		Filter:         filter,
		WithPayload:    withPayload,
		WithVector:     req.WithVector,
	})
	elapsed := time.Since(start)
	if err != nil {
		return SearchResponse{}, err
	}

	results := make([]SearchResult, 0, len(hits))
	for _, hit := range hits {
		r := SearchResult{
			ID:    pointIDFrom(hit.GetId()),
			Score: hit.GetScore(),
		}
		if withPayload {
			r.Payload = payloadOrEmpty(hit.GetPayload())
		}
		if req.WithVector {
			r.Vector = qd.DenseVector(hit.GetVectors())
		}
		results = append(results, r)
	}

	resp := SearchResponse{
		Results:     results,
		Total:       len(results),
		Limit:       limit,
		QueryTimeMs: roundMillis(elapsed),
	}
	s.log.DebugWithContext(ctx, "search completed", nil, map[string]interface{}{
		"collection":    collection,
		"results":       resp.Total,
		"query_time_ms": resp.QueryTimeMs,
	})
	return resp, nil
}

// HealthCheck reports the state of the Qdrant connection. It never fails.
func (s *Service) HealthCheck(ctx context.Context) Health {
	h := s.qdrant.HealthCheck(ctx)
	return Health{
		Status:           h.Status,
		LatencyMs:        h.LatencyMs,
		CollectionsCount: h.CollectionsCount,
		Error:            h.Error,
	}
}

func toPointStruct(p PointCreate) (*qdrant.PointStruct, error) {
	payload, err := qd.NewPayload(p.Payload)
	if err != nil {
		return nil, apperr.InvalidRequest(
			apperr.WithMessage(fmt.Sprintf("Point %s: %v", p.ID, err)),
			apperr.WithDetails(map[string]interface{}{"point_id": p.ID.String()}),
		)
	}
	return &qdrant.PointStruct{
		Id:      p.ID.toQdrant(),
		Vectors: qdrant.NewVectorsDense(p.Vector),
		Payload: payload,
	}, nil
}

func payloadOrEmpty(payload map[string]*qdrant.Value) map[string]any {
	if m := qd.PayloadMap(payload); m != nil {
		return m
	}
	return map[string]any{}
}

// roundMillis converts d to milliseconds rounded to two decimals.
func roundMillis(d time.Duration) float64 {
	ms := float64(d) / float64(time.Millisecond)
	return math.Round(ms*100) / 100
}
