package vectors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	qdrant "github.com/qdrant/go-client/qdrant"

	qd "github.com/Aleph-Alpha/qdrant-gateway/v1/qdrant"
)

type idKind uint8

const (
	idUnset idKind = iota
	idNum
	idStr
)

// PointID identifies a point: either an unsigned integer or a string.
// The zero value is unset, which is how a missing "id" field decodes.
type PointID struct {
	str  string
	num  uint64
	kind idKind
}

// NumericID returns an integer point id.
func NumericID(n uint64) PointID { return PointID{num: n, kind: idNum} }

// StringID returns a string point id.
func StringID(s string) PointID { return PointID{str: s, kind: idStr} }

// ParsePointID interprets a path segment. All-digit values that fit in a
// uint64 are numeric ids, anything else is a string id.
func ParsePointID(s string) PointID {
	if n, err := strconv.ParseUint(s, 10, 64); err == nil {
		return NumericID(n)
	}
	return StringID(s)
}

// IsNumeric reports whether the id is an integer.
func (id PointID) IsNumeric() bool { return id.kind == idNum }

// IsZero reports whether the id was never set.
func (id PointID) IsZero() bool { return id.kind == idUnset }

func (id PointID) String() string {
	switch id.kind {
	case idStr:
		return id.str
	case idNum:
		return strconv.FormatUint(id.num, 10)
	default:
		return ""
	}
}

// MarshalJSON writes numeric ids as JSON numbers and string ids as strings.
// An unset id is written as null.
func (id PointID) MarshalJSON() ([]byte, error) {
	switch id.kind {
	case idStr:
		return json.Marshal(id.str)
	case idNum:
		return []byte(strconv.FormatUint(id.num, 10)), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts a non-negative integer or a non-empty string.
func (id *PointID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			return fmt.Errorf("point id must not be empty")
		}
		*id = StringID(s)
		return nil
	}

	n, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("point id must be a non-negative integer or a string, got %s", data)
	}
	*id = NumericID(n)
	return nil
}

func (id PointID) toQdrant() *qdrant.PointId {
	if id.kind == idStr {
		return qdrant.NewID(id.str)
	}
	return qdrant.NewIDNum(id.num)
}

func pointIDFrom(id *qdrant.PointId) PointID {
	if _, ok := id.GetPointIdOptions().(*qdrant.PointId_Num); ok {
		return NumericID(id.GetNum())
	}
	return StringID(qd.PointIDString(id))
}
