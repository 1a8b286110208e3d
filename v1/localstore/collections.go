package localstore

import (
	"context"

	qdrant "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ListCollections returns collection names in lexical order.
func (s *Store) ListCollections(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM collections ORDER BY name`)
	if err != nil {
		return nil, internal(err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, internal(err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, internal(err)
	}
	return names, nil
}

func (s *Store) CollectionExists(ctx context.Context, name string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM collections WHERE name = ?`, name).Scan(&n); err != nil {
		return false, internal(err)
	}
	return n > 0, nil
}

// GetCollectionInfo reports a collection as always green with a single segment.
func (s *Store) GetCollectionInfo(ctx context.Context, name string) (*qdrant.CollectionInfo, error) {
	c, err := s.lookup(ctx, s.db, name)
	if err != nil {
		return nil, err
	}

	var count uint64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM points WHERE collection = ?`, name).Scan(&count); err != nil {
		return nil, internal(err)
	}

	params := &qdrant.VectorParams{
		Size:     c.vectorSize,
		Distance: qdrant.Distance(c.distance),
	}
	if c.onDisk {
		params.OnDisk = qdrant.PtrOf(true)
	}

	return &qdrant.CollectionInfo{
		Status:              qdrant.CollectionStatus_Green,
		SegmentsCount:       1,
		PointsCount:         qdrant.PtrOf(count),
		IndexedVectorsCount: qdrant.PtrOf(uint64(0)),
		Config: &qdrant.CollectionConfig{
			Params: &qdrant.CollectionParams{
				ShardNumber:   1,
				VectorsConfig: qdrant.NewVectorsConfig(params),
			},
		},
	}, nil
}

// CreateCollection supports the single unnamed dense vector layout only.
func (s *Store) CreateCollection(ctx context.Context, req *qdrant.CreateCollection) error {
	params := req.GetVectorsConfig().GetParams()
	if params == nil {
		return invalid("Wrong input: only a single unnamed vector config is supported")
	}
	if params.GetSize() == 0 {
		return invalid("Wrong input: vector size must be greater than 0")
	}
	switch params.GetDistance() {
	case qdrant.Distance_Cosine, qdrant.Distance_Euclid, qdrant.Distance_Dot, qdrant.Distance_Manhattan:
	default:
		return invalid("Wrong input: unknown distance %v", params.GetDistance())
	}

	exists, err := s.CollectionExists(ctx, req.GetCollectionName())
	if err != nil {
		return err
	}
	if exists {
		return status.Errorf(codes.AlreadyExists, "Wrong input: Collection `%s` already exists!", req.GetCollectionName())
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO collections(name, vector_size, distance, on_disk) VALUES(?, ?, ?, ?)`,
		req.GetCollectionName(), int64(params.GetSize()), int32(params.GetDistance()), boolInt(params.GetOnDisk()),
	)
	if err != nil {
		return internal(err)
	}
	return nil
}

// DeleteCollection drops the collection together with its points.
func (s *Store) DeleteCollection(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return internal(err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := s.lookup(ctx, tx, name); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM points WHERE collection = ?`, name); err != nil {
		return internal(err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM collections WHERE name = ?`, name); err != nil {
		return internal(err)
	}
	if err := tx.Commit(); err != nil {
		return internal(err)
	}
	return nil
}
