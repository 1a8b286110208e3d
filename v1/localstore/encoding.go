package localstore

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	qdrant "github.com/qdrant/go-client/qdrant"
	"google.golang.org/protobuf/encoding/protojson"
)

// encodeVector stores float32 values little-endian, without a length prefix.
func encodeVector(vec []float32) []byte {
	b := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
	return b
}

func decodeVector(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("localstore: invalid vector blob length %d", len(b))
	}
	vec := make([]float32, len(b)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return vec, nil
}

// Payloads are persisted as protojson of qdrant.Struct so integer and
// double values survive the round trip distinctly.
func encodePayload(payload map[string]*qdrant.Value) (string, error) {
	b, err := protojson.Marshal(&qdrant.Struct{Fields: payload})
	if err != nil {
		return "", fmt.Errorf("localstore: encode payload: %w", err)
	}
	return string(b), nil
}

func decodePayload(s string) (map[string]*qdrant.Value, error) {
	var st qdrant.Struct
	if err := protojson.Unmarshal([]byte(s), &st); err != nil {
		return nil, fmt.Errorf("localstore: decode payload: %w", err)
	}
	if st.Fields == nil {
		return map[string]*qdrant.Value{}, nil
	}
	return st.Fields, nil
}

// Point ids are stored as "n:<uint>" or "s:<string>" so a numeric id never
// collides with the same digits submitted as a string. String ids that
// parse as UUIDs are canonicalized like Qdrant does.
func encodeID(id *qdrant.PointId) (string, error) {
	switch v := id.GetPointIdOptions().(type) {
	case *qdrant.PointId_Num:
		return "n:" + strconv.FormatUint(v.Num, 10), nil
	case *qdrant.PointId_Uuid:
		if v.Uuid == "" {
			return "", fmt.Errorf("empty point id")
		}
		if u, err := uuid.Parse(v.Uuid); err == nil {
			return "s:" + u.String(), nil
		}
		return "s:" + v.Uuid, nil
	default:
		return "", fmt.Errorf("point id is missing")
	}
}

func decodeID(key string) (*qdrant.PointId, error) {
	switch {
	case strings.HasPrefix(key, "n:"):
		n, err := strconv.ParseUint(key[2:], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("localstore: corrupt point key %q", key)
		}
		return qdrant.NewIDNum(n), nil
	case strings.HasPrefix(key, "s:"):
		return qdrant.NewID(key[2:]), nil
	default:
		return nil, fmt.Errorf("localstore: corrupt point key %q", key)
	}
}

// denseOf returns the dense data of an input vector, preferring the dense
// oneof over the deprecated flat data field.
func denseOf(v *qdrant.Vector) []float32 {
	if d := v.GetDense(); d != nil {
		return d.GetData()
	}
	return v.GetData()
}

func vectorsOutput(vec []float32) *qdrant.VectorsOutput {
	return &qdrant.VectorsOutput{
		VectorsOptions: &qdrant.VectorsOutput_Vector{
			Vector: &qdrant.VectorOutput{
				Vector: &qdrant.VectorOutput_Dense{
					Dense: &qdrant.DenseVector{Data: vec},
				},
			},
		},
	}
}
