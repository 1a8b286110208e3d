package vectors

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	qdrant "github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/qdrant-gateway/v1/apperr"
	qd "github.com/Aleph-Alpha/qdrant-gateway/v1/qdrant"
)

func newLocalService(t *testing.T) *Service {
	t.Helper()
	m := qd.NewManager(qd.ManagerParams{})
	require.NoError(t, m.Connect(context.Background(), qd.ConnectParams{LocalPath: t.TempDir()}))
	t.Cleanup(func() { _ = m.Close() })
	return NewService(m, nil)
}

func createDocs(t *testing.T, s *Service, size int) {
	t.Helper()
	_, err := s.CreateCollection(context.Background(), CollectionCreate{Name: "docs", VectorSize: size, Distance: qd.DistanceCosine})
	require.NoError(t, err)
}

func TestCreateThenGetCollection(t *testing.T) {
	ctx := context.Background()
	s := newLocalService(t)

	for _, distance := range []string{qd.DistanceCosine, qd.DistanceEuclid, qd.DistanceDot} {
		name := "c_" + strings.ToLower(distance)
		created, err := s.CreateCollection(ctx, CollectionCreate{Name: name, VectorSize: 8, Distance: distance, OnDisk: true})
		require.NoError(t, err)

		got, err := s.GetCollection(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, created, got)
		assert.Equal(t, uint64(8), got.VectorSize)
		assert.Equal(t, distance, got.Distance)
		assert.True(t, got.OnDisk)
		assert.Equal(t, "green", got.Status)
		assert.Equal(t, uint64(0), got.PointsCount)
	}
}

func TestCreateCollection_AlreadyExists(t *testing.T) {
	s := newLocalService(t)
	createDocs(t, s, 4)

	_, err := s.CreateCollection(context.Background(), CollectionCreate{Name: "docs", VectorSize: 4, Distance: qd.DistanceCosine})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrCollectionAlreadyExists))
	e, _ := apperr.From(err)
	assert.Equal(t, 409, e.Status())
}

func TestDeleteThenGetCollection(t *testing.T) {
	ctx := context.Background()
	s := newLocalService(t)
	createDocs(t, s, 4)

	require.NoError(t, s.DeleteCollection(ctx, "docs"))

	_, err := s.GetCollection(ctx, "docs")
	assert.True(t, errors.Is(err, apperr.ErrCollectionNotFound))
	assert.True(t, apperr.IsNotFound(s.DeleteCollection(ctx, "docs")))
}

func TestListCollections(t *testing.T) {
	ctx := context.Background()
	s := newLocalService(t)

	list, err := s.ListCollections(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, list.Total)
	assert.NotNil(t, list.Collections)

	for _, name := range []string{"b", "a", "c"} {
		_, err := s.CreateCollection(ctx, CollectionCreate{Name: name, VectorSize: 2, Distance: qd.DistanceDot})
		require.NoError(t, err)
	}

	list, err = s.ListCollections(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, list.Total)
	names := []string{list.Collections[0].Name, list.Collections[1].Name, list.Collections[2].Name}
	assert.Equal(t, []string{"a", "b", "c"}, names)
}

// vanishingStore deletes a collection right before it is looked up, as a
// concurrent client would between listing and lookup.
type vanishingStore struct {
	*qd.Manager
	vanish string
	fail   error
}

func (v *vanishingStore) GetCollectionInfo(ctx context.Context, name string) (*qdrant.CollectionInfo, error) {
	if name == v.vanish {
		if v.fail != nil {
			return nil, v.fail
		}
		if err := v.Manager.DeleteCollection(ctx, name); err != nil {
			return nil, err
		}
	}
	return v.Manager.GetCollectionInfo(ctx, name)
}

func TestListCollections_SkipsVanished(t *testing.T) {
	ctx := context.Background()
	s := newLocalService(t)
	for _, name := range []string{"a", "b", "c"} {
		_, err := s.CreateCollection(ctx, CollectionCreate{Name: name, VectorSize: 2, Distance: qd.DistanceCosine})
		require.NoError(t, err)
	}

	s.qdrant = &vanishingStore{Manager: s.qdrant.(*qd.Manager), vanish: "b"}

	list, err := s.ListCollections(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, list.Total)
	assert.Equal(t, "a", list.Collections[0].Name)
	assert.Equal(t, "c", list.Collections[1].Name)
}

func TestListCollections_OtherLookupErrorsFail(t *testing.T) {
	ctx := context.Background()
	s := newLocalService(t)
	for _, name := range []string{"a", "b"} {
		_, err := s.CreateCollection(ctx, CollectionCreate{Name: name, VectorSize: 2, Distance: qd.DistanceCosine})
		require.NoError(t, err)
	}

	s.qdrant = &vanishingStore{Manager: s.qdrant.(*qd.Manager), vanish: "b", fail: apperr.QdrantConnection()}

	_, err := s.ListCollections(ctx)
	require.Error(t, err)
	assert.True(t, apperr.IsConnection(err))
}

func TestUpsertPoint_EchoesRequest(t *testing.T) {
	s := newLocalService(t)
	createDocs(t, s, 4)

	resp, err := s.UpsertPoint(context.Background(), "docs", PointCreate{
		ID:     NumericID(1),
		Vector: []float32{1, 0, 0, 0},
	})
	require.NoError(t, err)
	assert.Equal(t, NumericID(1), resp.ID)
	assert.Equal(t, []float32{1, 0, 0, 0}, resp.Vector)
	assert.Equal(t, map[string]any{}, resp.Payload)
	assert.Nil(t, resp.Score)
}

func TestUpsertPoint_VectorSizeMismatch(t *testing.T) {
	ctx := context.Background()
	s := newLocalService(t)
	createDocs(t, s, 4)

	_, err := s.UpsertPoint(ctx, "docs", PointCreate{ID: NumericID(1), Vector: []float32{1, 0, 0}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrVectorSizeMismatch))

	e, _ := apperr.From(err)
	assert.Equal(t, 422, e.Status())
	assert.Equal(t, uint64(4), e.Details["expected"])
	assert.Equal(t, 3, e.Details["got"])

	info, err := s.GetCollection(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), info.PointsCount)
}

func TestUpsertPoint_MissingCollection(t *testing.T) {
	s := newLocalService(t)

	_, err := s.UpsertPoint(context.Background(), "ghost", PointCreate{ID: NumericID(1), Vector: []float32{1}})
	assert.True(t, errors.Is(err, apperr.ErrCollectionNotFound))
}

func TestUpsertPointsBatch(t *testing.T) {
	ctx := context.Background()
	s := newLocalService(t)
	createDocs(t, s, 2)

	n, err := s.UpsertPointsBatch(ctx, "docs", []PointCreate{
		{ID: NumericID(1), Vector: []float32{1, 0}},
		{ID: StringID("two"), Vector: []float32{0, 1}, Payload: map[string]any{"n": json.Number("2")}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	info, err := s.GetCollection(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), info.PointsCount)
}

func TestUpsertPointsBatch_AllOrNothing(t *testing.T) {
	ctx := context.Background()
	s := newLocalService(t)
	createDocs(t, s, 2)

	_, err := s.UpsertPointsBatch(ctx, "docs", []PointCreate{
		{ID: NumericID(1), Vector: []float32{1, 0}},
		{ID: NumericID(2), Vector: []float32{1, 0, 0}},
		{ID: NumericID(3), Vector: []float32{0, 1}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrVectorSizeMismatch))
	e, _ := apperr.From(err)
	assert.Equal(t, "2", e.Details["point_id"])

	info, err := s.GetCollection(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), info.PointsCount)
}

func TestGetPoint(t *testing.T) {
	ctx := context.Background()
	s := newLocalService(t)
	createDocs(t, s, 4)

	_, err := s.UpsertPoint(ctx, "docs", PointCreate{
		ID:      StringID("a"),
		Vector:  []float32{0.5, 0.25, 0, 1},
		Payload: map[string]any{"k": "v", "n": json.Number("7")},
	})
	require.NoError(t, err)

	p, err := s.GetPoint(ctx, "docs", StringID("a"), false)
	require.NoError(t, err)
	assert.Equal(t, StringID("a"), p.ID)
	assert.Nil(t, p.Vector)
	assert.Equal(t, map[string]any{"k": "v", "n": int64(7)}, p.Payload)

	p, err = s.GetPoint(ctx, "docs", StringID("a"), true)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.25, 0, 1}, p.Vector)

	_, err = s.GetPoint(ctx, "docs", StringID("missing"), false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrPointNotFound))
	e, _ := apperr.From(err)
	assert.Equal(t, "missing", e.Details["point_id"])
	assert.Equal(t, "docs", e.Details["collection"])
}

func TestGetPoint_EmptyPayloadIsObject(t *testing.T) {
	ctx := context.Background()
	s := newLocalService(t)
	createDocs(t, s, 1)

	_, err := s.UpsertPoint(ctx, "docs", PointCreate{ID: NumericID(9), Vector: []float32{1}})
	require.NoError(t, err)

	p, err := s.GetPoint(ctx, "docs", NumericID(9), false)
	require.NoError(t, err)
	assert.NotNil(t, p.Payload)
	assert.Empty(t, p.Payload)
}

func TestDeletePoint(t *testing.T) {
	ctx := context.Background()
	s := newLocalService(t)
	createDocs(t, s, 1)

	_, err := s.UpsertPoint(ctx, "docs", PointCreate{ID: NumericID(1), Vector: []float32{1}})
	require.NoError(t, err)

	require.NoError(t, s.DeletePoint(ctx, "docs", NumericID(1)))

	_, err = s.GetPoint(ctx, "docs", NumericID(1), false)
	assert.True(t, errors.Is(err, apperr.ErrPointNotFound))

	err = s.DeletePoint(ctx, "docs", NumericID(1))
	assert.True(t, errors.Is(err, apperr.ErrPointNotFound))
}

func TestSearch_EndToEnd(t *testing.T) {
	ctx := context.Background()
	s := newLocalService(t)
	createDocs(t, s, 4)

	_, err := s.UpsertPoint(ctx, "docs", PointCreate{
		ID:      StringID("a"),
		Vector:  []float32{1, 0, 0, 0},
		Payload: map[string]any{"k": "v"},
	})
	require.NoError(t, err)

	req := SearchRequest{Vector: []float32{1, 0, 0, 0}, Limit: 1}
	require.NoError(t, req.Validate())

	resp, err := s.Search(ctx, "docs", req)
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, StringID("a"), resp.Results[0].ID)
	assert.InDelta(t, 1.0, resp.Results[0].Score, 1e-6)
	assert.Equal(t, map[string]any{"k": "v"}, resp.Results[0].Payload)
	assert.Nil(t, resp.Results[0].Vector)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, 1, resp.Limit)
	assert.GreaterOrEqual(t, resp.QueryTimeMs, 0.0)
}

func TestSearch_Filters(t *testing.T) {
	ctx := context.Background()
	s := newLocalService(t)
	createDocs(t, s, 2)

	_, err := s.UpsertPointsBatch(ctx, "docs", []PointCreate{
		{ID: NumericID(1), Vector: []float32{1, 0}, Payload: map[string]any{"lang": "en", "year": json.Number("2024")}},
		{ID: NumericID(2), Vector: []float32{1, 0.1}, Payload: map[string]any{"lang": "en", "year": json.Number("2023")}},
		{ID: NumericID(3), Vector: []float32{1, 0.2}, Payload: map[string]any{"lang": "de", "year": json.Number("2024")}},
	})
	require.NoError(t, err)

	all, err := s.Search(ctx, "docs", SearchRequest{Vector: []float32{1, 0}, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, all.Total)

	en, err := s.Search(ctx, "docs", SearchRequest{Vector: []float32{1, 0}, Limit: 10, Filter: map[string]any{"lang": "en"}})
	require.NoError(t, err)
	assert.Equal(t, 2, en.Total)

	both, err := s.Search(ctx, "docs", SearchRequest{
		Vector: []float32{1, 0},
		Limit:  10,
		Filter: map[string]any{"lang": "en", "year": json.Number("2024")},
	})
	require.NoError(t, err)
	require.Equal(t, 1, both.Total)
	assert.Equal(t, NumericID(1), both.Results[0].ID)
	for _, r := range both.Results {
		assert.Equal(t, "en", r.Payload["lang"])
		assert.Equal(t, int64(2024), r.Payload["year"])
	}
}

func TestSearch_FilterOnWholeFloat(t *testing.T) {
	ctx := context.Background()
	s := newLocalService(t)
	createDocs(t, s, 2)

	_, err := s.UpsertPointsBatch(ctx, "docs", []PointCreate{
		{ID: NumericID(1), Vector: []float32{1, 0}, Payload: map[string]any{"price": json.Number("2.0")}},
		{ID: NumericID(2), Vector: []float32{1, 0.1}, Payload: map[string]any{"price": json.Number("3.5")}},
	})
	require.NoError(t, err)

	resp, err := s.Search(ctx, "docs", SearchRequest{
		Vector: []float32{1, 0},
		Limit:  10,
		Filter: map[string]any{"price": json.Number("2.0")},
	})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, NumericID(1), resp.Results[0].ID)

	_, err = s.UpsertPoint(ctx, "docs", PointCreate{ID: NumericID(3), Vector: []float32{1, 0.2}, Payload: map[string]any{"price": json.Number("2")}})
	require.NoError(t, err)

	resp, err = s.Search(ctx, "docs", SearchRequest{
		Vector: []float32{1, 0},
		Limit:  10,
		Filter: map[string]any{"price": 2.0},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total, "a whole float matches integer and double payloads alike")
}

func TestSearch_InclusionFlags(t *testing.T) {
	ctx := context.Background()
	s := newLocalService(t)
	createDocs(t, s, 2)

	_, err := s.UpsertPoint(ctx, "docs", PointCreate{ID: NumericID(1), Vector: []float32{0, 1}, Payload: map[string]any{"k": "v"}})
	require.NoError(t, err)

	off := false
	resp, err := s.Search(ctx, "docs", SearchRequest{Vector: []float32{0, 1}, Limit: 5, WithPayload: &off, WithVector: true})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Nil(t, resp.Results[0].Payload)
	assert.Equal(t, []float32{0, 1}, resp.Results[0].Vector)
}

func TestSearch_ScoreThreshold(t *testing.T) {
	ctx := context.Background()
	s := newLocalService(t)
	createDocs(t, s, 2)

	_, err := s.UpsertPointsBatch(ctx, "docs", []PointCreate{
		{ID: NumericID(1), Vector: []float32{1, 0}},
		{ID: NumericID(2), Vector: []float32{0, 1}},
	})
	require.NoError(t, err)

	threshold := float32(0.5)
	resp, err := s.Search(ctx, "docs", SearchRequest{Vector: []float32{1, 0}, Limit: 10, ScoreThreshold: &threshold})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, NumericID(1), resp.Results[0].ID)
}

func TestSearch_Errors(t *testing.T) {
	ctx := context.Background()
	s := newLocalService(t)
	createDocs(t, s, 4)

	_, err := s.Search(ctx, "docs", SearchRequest{Vector: []float32{1, 0}, Limit: 10})
	require.True(t, errors.Is(err, apperr.ErrVectorSizeMismatch))
	e, _ := apperr.From(err)
	assert.Equal(t, map[string]interface{}{"expected": uint64(4), "got": 2, "collection": "docs"}, e.Details)

	_, err = s.Search(ctx, "docs", SearchRequest{Vector: []float32{1, 0, 0, 0}, Filter: map[string]any{"tags": []any{"a"}}})
	assert.True(t, errors.Is(err, apperr.ErrInvalidFilter))

	_, err = s.Search(ctx, "ghost", SearchRequest{Vector: []float32{1}})
	assert.True(t, errors.Is(err, apperr.ErrCollectionNotFound))
}

func TestHealthCheck(t *testing.T) {
	s := newLocalService(t)
	createDocs(t, s, 1)

	h := s.HealthCheck(context.Background())
	assert.Equal(t, qd.StatusHealthy, h.Status)
	require.NotNil(t, h.CollectionsCount)
	assert.Equal(t, 1, *h.CollectionsCount)

	unconnected := NewService(qd.NewManager(qd.ManagerParams{}), nil)
	h = unconnected.HealthCheck(context.Background())
	assert.Equal(t, qd.StatusUnhealthy, h.Status)
	assert.NotEmpty(t, h.Error)
}
