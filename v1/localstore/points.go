package localstore

import (
	"context"
	"database/sql"
	"sort"

	qdrant "github.com/qdrant/go-client/qdrant"
)

const defaultQueryLimit = 10

// Upsert validates every point against the collection before writing any,
// then writes them in one transaction.
func (s *Store) Upsert(ctx context.Context, req *qdrant.UpsertPoints) (*qdrant.UpdateResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, internal(err)
	}
	defer func() { _ = tx.Rollback() }()

	c, err := s.lookup(ctx, tx, req.GetCollectionName())
	if err != nil {
		return nil, err
	}

	type row struct {
		key     string
		vector  []byte
		payload string
	}
	rows := make([]row, 0, len(req.GetPoints()))

	for _, p := range req.GetPoints() {
		key, err := encodeID(p.GetId())
		if err != nil {
			return nil, invalid("Wrong input: %v", err)
		}
		vec := denseOf(p.GetVectors().GetVector())
		if vec == nil {
			return nil, invalid("Wrong input: point %s has no dense vector", key[2:])
		}
		if uint64(len(vec)) != c.vectorSize {
			return nil, invalid("Wrong input: Vector dimension error: expected dim: %d, got %d", c.vectorSize, len(vec))
		}
		payload, err := encodePayload(p.GetPayload())
		if err != nil {
			return nil, invalid("Wrong input: %v", err)
		}
		rows = append(rows, row{key: key, vector: encodeVector(vec), payload: payload})
	}

	for _, r := range rows {
		_, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO points(collection, key, vector, payload) VALUES(?, ?, ?, ?)`,
			c.name, r.key, r.vector, r.payload,
		)
		if err != nil {
			return nil, internal(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, internal(err)
	}
	return &qdrant.UpdateResult{Status: qdrant.UpdateStatus_Completed}, nil
}

// Get returns the requested points that exist, in request order.
func (s *Store) Get(ctx context.Context, req *qdrant.GetPoints) ([]*qdrant.RetrievedPoint, error) {
	if _, err := s.lookup(ctx, s.db, req.GetCollectionName()); err != nil {
		return nil, err
	}

	withPayload := req.GetWithPayload().GetEnable()
	withVectors := req.GetWithVectors().GetEnable()

	out := make([]*qdrant.RetrievedPoint, 0, len(req.GetIds()))
	for _, id := range req.GetIds() {
		key, err := encodeID(id)
		if err != nil {
			return nil, invalid("Wrong input: %v", err)
		}

		var blob []byte
		var payload string
		err = s.db.QueryRowContext(ctx,
			`SELECT vector, payload FROM points WHERE collection = ? AND key = ?`,
			req.GetCollectionName(), key,
		).Scan(&blob, &payload)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, internal(err)
		}

		p, err := buildPoint(key, blob, payload, withPayload, withVectors)
		if err != nil {
			return nil, internal(err)
		}
		out = append(out, &qdrant.RetrievedPoint{Id: p.id, Payload: p.payload, Vectors: p.vectors})
	}
	return out, nil
}

// Delete removes points selected by id. Filter selectors are not supported.
func (s *Store) Delete(ctx context.Context, req *qdrant.DeletePoints) (*qdrant.UpdateResult, error) {
	ids := req.GetPoints().GetPoints()
	if ids == nil {
		return nil, invalid("Wrong input: only id selectors are supported")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, internal(err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := s.lookup(ctx, tx, req.GetCollectionName()); err != nil {
		return nil, err
	}
	for _, id := range ids.GetIds() {
		key, err := encodeID(id)
		if err != nil {
			return nil, invalid("Wrong input: %v", err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM points WHERE collection = ? AND key = ?`, req.GetCollectionName(), key,
		); err != nil {
			return nil, internal(err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, internal(err)
	}
	return &qdrant.UpdateResult{Status: qdrant.UpdateStatus_Completed}, nil
}

// Query performs an exhaustive nearest-neighbour scan of the collection.
func (s *Store) Query(ctx context.Context, req *qdrant.QueryPoints) ([]*qdrant.ScoredPoint, error) {
	c, err := s.lookup(ctx, s.db, req.GetCollectionName())
	if err != nil {
		return nil, err
	}

	query := req.GetQuery().GetNearest().GetDense().GetData()
	if query == nil {
		return nil, invalid("Wrong input: only dense nearest queries are supported")
	}
	if uint64(len(query)) != c.vectorSize {
		return nil, invalid("Wrong input: Vector dimension error: expected dim: %d, got %d", c.vectorSize, len(query))
	}

	limit := req.GetLimit()
	if req.Limit == nil {
		limit = defaultQueryLimit
	}
	sc := newScorer(qdrant.Distance(c.distance))
	withPayload := req.GetWithPayload().GetEnable()
	withVectors := req.GetWithVectors().GetEnable()

	rows, err := s.db.QueryContext(ctx,
		`SELECT key, vector, payload FROM points WHERE collection = ? ORDER BY key`, c.name)
	if err != nil {
		return nil, internal(err)
	}
	defer rows.Close()

	type hit struct {
		key     string
		score   float64
		blob    []byte
		payload string
	}
	var hits []hit

	for rows.Next() {
		var h hit
		if err := rows.Scan(&h.key, &h.blob, &h.payload); err != nil {
			return nil, internal(err)
		}
		vec, err := decodeVector(h.blob)
		if err != nil {
			return nil, internal(err)
		}
		if req.GetFilter() != nil {
			payload, err := decodePayload(h.payload)
			if err != nil {
				return nil, internal(err)
			}
			ok, err := matches(req.GetFilter(), payload)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		h.score = sc.score(query, vec)
		if !sc.passes(h.score, req.ScoreThreshold) {
			continue
		}
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, internal(err)
	}

	sort.SliceStable(hits, func(i, j int) bool { return sc.better(hits[i].score, hits[j].score) })
	if uint64(len(hits)) > limit {
		hits = hits[:limit]
	}

	out := make([]*qdrant.ScoredPoint, 0, len(hits))
	for _, h := range hits {
		p, err := buildPoint(h.key, h.blob, h.payload, withPayload, withVectors)
		if err != nil {
			return nil, internal(err)
		}
		out = append(out, &qdrant.ScoredPoint{
			Id:      p.id,
			Payload: p.payload,
			Score:   float32(h.score),
			Vectors: p.vectors,
		})
	}
	return out, nil
}

type point struct {
	id      *qdrant.PointId
	payload map[string]*qdrant.Value
	vectors *qdrant.VectorsOutput
}

func buildPoint(key string, blob []byte, payload string, withPayload, withVectors bool) (point, error) {
	id, err := decodeID(key)
	if err != nil {
		return point{}, err
	}
	p := point{id: id}
	if withPayload {
		if p.payload, err = decodePayload(payload); err != nil {
			return point{}, err
		}
	}
	if withVectors {
		vec, err := decodeVector(blob)
		if err != nil {
			return point{}, err
		}
		p.vectors = vectorsOutput(vec)
	}
	return p, nil
}
