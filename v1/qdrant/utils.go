package qdrant

import (
	"sort"
	"strconv"

	qdrant "github.com/qdrant/go-client/qdrant"
)

// VectorParams ──────────────────────────────────────────────────────────────
// VectorParams
// ──────────────────────────────────────────────────────────────
//
// VectorParams digs the vector configuration out of a CollectionInfo.
//
// Qdrant describes vectors either as a single unnamed config or as a map
// of named configs. For the map form the alphabetically first name is used
// so repeated reads agree. Returns nil when nothing usable is present.
func VectorParams(info *qdrant.CollectionInfo) *qdrant.VectorParams {
	vc := info.GetConfig().GetParams().GetVectorsConfig()
	if vc == nil {
		return nil
	}

	if params := vc.GetParams(); params != nil {
		return params
	}

	named := vc.GetParamsMap().GetMap()
	if len(named) == 0 {
		return nil
	}
	names := make([]string, 0, len(named))
	for name := range named {
		names = append(names, name)
	}
	sort.Strings(names)
	return named[names[0]]
}

// PointIDString renders an id the way clients submitted it.
func PointIDString(id *qdrant.PointId) string {
	switch v := id.GetPointIdOptions().(type) {
	case *qdrant.PointId_Num:
		return strconv.FormatUint(v.Num, 10)
	case *qdrant.PointId_Uuid:
		return v.Uuid
	default:
		return ""
	}
}

// DenseVector returns the dense vector of a point read back from Qdrant,
// or nil if the point carries none.
func DenseVector(v *qdrant.VectorsOutput) []float32 {
	if dense := v.GetVector().GetDenseVector(); dense != nil {
		return dense.GetData()
	}
	return nil
}
