package qdrant

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	qdrant "github.com/qdrant/go-client/qdrant"

	"github.com/Aleph-Alpha/qdrant-gateway/v1/apperr"
)

// Distance names accepted by CreateCollection.
const (
	DistanceCosine = "Cosine"
	DistanceEuclid = "Euclid"
	DistanceDot    = "Dot"
)

var distances = map[string]qdrant.Distance{
	DistanceCosine: qdrant.Distance_Cosine,
	DistanceEuclid: qdrant.Distance_Euclid,
	DistanceDot:    qdrant.Distance_Dot,
}

// CollectionSpec describes a collection to create.
type CollectionSpec struct {
	Name       string
	VectorSize uint64
	Distance   string
	OnDisk     bool
}

// QueryRequest is a nearest-neighbour query.
type QueryRequest struct {
	Collection     string
	Vector         []float32
	Limit          uint64
	ScoreThreshold *float32
	Filter         Filter
	WithPayload    bool
	WithVector     bool
}

//
// ──────────────────────────────────────────────────────────────
//   COLLECTIONS
// ──────────────────────────────────────────────────────────────
//

// ListCollections returns the names of all collections.
func (m *Manager) ListCollections(ctx context.Context) ([]string, error) {
	var names []string
	err := m.do(ctx, "ListCollections", nil, func(ctx context.Context, c engine) error {
		var err error
		names, err = c.ListCollections(ctx)
		return err
	})
	return names, err
}

// CollectionExists reports whether a collection with that name exists.
func (m *Manager) CollectionExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := m.do(ctx, "CollectionExists", collectionAttrs(name), func(ctx context.Context, c engine) error {
		var err error
		exists, err = c.CollectionExists(ctx, name)
		return err
	})
	return exists, err
}

// GetCollectionInfo returns the raw collection description, or
// CollectionNotFound when the collection does not exist.
func (m *Manager) GetCollectionInfo(ctx context.Context, name string) (*qdrant.CollectionInfo, error) {
	var info *qdrant.CollectionInfo
	err := m.do(ctx, "GetCollectionInfo", collectionAttrs(name), func(ctx context.Context, c engine) error {
		exists, err := c.CollectionExists(ctx, name)
		if err != nil {
			return err
		}
		if !exists {
			return collectionNotFound(name)
		}
		info, err = c.GetCollectionInfo(ctx, name)
		return err
	})
	return info, err
}

// CreateCollection ──────────────────────────────────────────────────────────────
// CreateCollection
// ──────────────────────────────────────────────────────────────
//
// CreateCollection creates a single-vector collection. It fails with
// CollectionAlreadyExists when the name is taken and with a validation
// error for an unknown distance name.
func (m *Manager) CreateCollection(ctx context.Context, spec CollectionSpec) error {
	distance, ok := distances[spec.Distance]
	if !ok {
		return apperr.New(apperr.KindValidation, "", fmt.Sprintf("Unsupported distance '%s'", spec.Distance),
			apperr.WithDetails(map[string]interface{}{"distance": spec.Distance}))
	}

	attrs := collectionAttrs(spec.Name)
	attrs["vector_size"] = spec.VectorSize
	attrs["distance"] = spec.Distance

	return m.do(ctx, "CreateCollection", attrs, func(ctx context.Context, c engine) error {
		exists, err := c.CollectionExists(ctx, spec.Name)
		if err != nil {
			return err
		}
		if exists {
			return apperr.CollectionAlreadyExists(
				apperr.WithMessage(fmt.Sprintf("Collection '%s' already exists", spec.Name)),
				apperr.WithDetails(map[string]interface{}{"collection": spec.Name}),
			)
		}

		params := &qdrant.VectorParams{
			Size:     spec.VectorSize,
			Distance: distance,
		}
		if spec.OnDisk {
			params.OnDisk = qdrant.PtrOf(true)
		}

		err = c.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: spec.Name,
			VectorsConfig:  qdrant.NewVectorsConfig(params),
		})
		if err != nil {
			return err
		}
		m.log.Info("collection created", nil, attrs)
		return nil
	})
}

// DeleteCollection removes a collection and all of its points.
func (m *Manager) DeleteCollection(ctx context.Context, name string) error {
	return m.do(ctx, "DeleteCollection", collectionAttrs(name), func(ctx context.Context, c engine) error {
		exists, err := c.CollectionExists(ctx, name)
		if err != nil {
			return err
		}
		if !exists {
			return collectionNotFound(name)
		}
		if err := c.DeleteCollection(ctx, name); err != nil {
			return err
		}
		m.log.Info("collection deleted", nil, collectionAttrs(name))
		return nil
	})
}

//
// ──────────────────────────────────────────────────────────────
//   POINTS
// ──────────────────────────────────────────────────────────────
//

// UpsertPoints writes all points in one request and waits for the write to
// be applied. It returns the number of points submitted.
func (m *Manager) UpsertPoints(ctx context.Context, collection string, points []*qdrant.PointStruct) (int, error) {
	if len(points) == 0 {
		return 0, nil
	}

	attrs := collectionAttrs(collection)
	attrs["points"] = len(points)

	err := m.do(ctx, "Upsert", attrs, func(ctx context.Context, c engine) error {
		for _, p := range points {
			if err := m.checkID(p.GetId()); err != nil {
				return err
			}
		}
		_, err := c.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: collection,
			Wait:           qdrant.PtrOf(true),
			Points:         points,
		})
		return err
	})
	if err != nil {
		return 0, err
	}
	return len(points), nil
}

// GetPoint fetches one point. A point that does not exist, or that cannot
// exist because the collection is missing or the id is unusable, yields
// (nil, nil) rather than an error.
func (m *Manager) GetPoint(ctx context.Context, collection string, id *qdrant.PointId, withVector bool) (*qdrant.RetrievedPoint, error) {
	if m.checkID(id) != nil {
		return nil, nil
	}

	var point *qdrant.RetrievedPoint
	err := m.do(ctx, "Get", pointAttrs(collection, id), func(ctx context.Context, c engine) error {
		points, err := c.Get(ctx, &qdrant.GetPoints{
			CollectionName: collection,
			Ids:            []*qdrant.PointId{id},
			WithPayload:    qdrant.NewWithPayload(true),
			WithVectors:    qdrant.NewWithVectors(withVector),
		})
		if err != nil {
			if isAbsent(err) {
				return nil
			}
			return err
		}
		if len(points) > 0 {
			point = points[0]
		}
		return nil
	})
	return point, err
}

// DeletePoints removes points by id, waits for the write, and returns the
// number of ids submitted.
func (m *Manager) DeletePoints(ctx context.Context, collection string, ids []*qdrant.PointId) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	attrs := collectionAttrs(collection)
	attrs["points"] = len(ids)

	err := m.do(ctx, "Delete", attrs, func(ctx context.Context, c engine) error {
		_, err := c.Delete(ctx, &qdrant.DeletePoints{
			CollectionName: collection,
			Wait:           qdrant.PtrOf(true),
			Points:         qdrant.NewPointsSelector(ids...),
		})
		return err
	})
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// QueryPoints ──────────────────────────────────────────────────────────────
// QueryPoints
// ──────────────────────────────────────────────────────────────
//
// QueryPoints runs a nearest-neighbour query. Limit, threshold and the
// inclusion flags are passed through unchanged; an empty filter means no
// filtering.
func (m *Manager) QueryPoints(ctx context.Context, req QueryRequest) ([]*qdrant.ScoredPoint, error) {
	query := &qdrant.QueryPoints{
		CollectionName: req.Collection,
		Query:          qdrant.NewQueryDense(req.Vector),
		Limit:          qdrant.PtrOf(req.Limit),
		ScoreThreshold: req.ScoreThreshold,
		WithPayload:    qdrant.NewWithPayload(req.WithPayload),
		WithVectors:    qdrant.NewWithVectors(req.WithVector),
	}
	if len(req.Filter) > 0 {
		query.Filter = BuildFilter(req.Filter)
	}

	attrs := collectionAttrs(req.Collection)
	attrs["limit"] = req.Limit
	attrs["filter_fields"] = len(req.Filter)

	var results []*qdrant.ScoredPoint
	err := m.do(ctx, "Query", attrs, func(ctx context.Context, c engine) error {
		var err error
		results, err = c.Query(ctx, query)
		return err
	})
	return results, err
}

// checkID rejects string ids that are not UUIDs outside Local mode; the
// server would refuse them anyway, this just fails earlier and clearer.
func (m *Manager) checkID(id *qdrant.PointId) error {
	if id == nil {
		return apperr.InvalidPointID(apperr.WithMessage("Point id is required"))
	}
	if _, ok := id.GetPointIdOptions().(*qdrant.PointId_Uuid); !ok {
		return nil
	}
	if _, mode, err := m.current(); err != nil || mode == ModeLocal {
		return nil
	}
	if _, err := uuid.Parse(id.GetUuid()); err != nil {
		return apperr.InvalidPointID(
			apperr.WithMessage(fmt.Sprintf("Point id '%s' must be an unsigned integer or a UUID", id.GetUuid())),
			apperr.WithDetails(map[string]interface{}{"point_id": id.GetUuid()}),
		)
	}
	return nil
}

func collectionNotFound(name string) error {
	return apperr.CollectionNotFound(
		apperr.WithMessage(fmt.Sprintf("Collection '%s' not found", name)),
		apperr.WithDetails(map[string]interface{}{"collection": name}),
	)
}

func collectionAttrs(name string) map[string]interface{} {
	return map[string]interface{}{"collection": name}
}

func pointAttrs(collection string, id *qdrant.PointId) map[string]interface{} {
	attrs := collectionAttrs(collection)
	attrs["point_id"] = PointIDString(id)
	return attrs
}
