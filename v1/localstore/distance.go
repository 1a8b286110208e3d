package localstore

import (
	"math"

	qdrant "github.com/qdrant/go-client/qdrant"
)

// scorer computes the score of a stored vector against the query.
type scorer struct {
	distance  qdrant.Distance
	ascending bool
}

func newScorer(d qdrant.Distance) scorer {
	return scorer{
		distance:  d,
		ascending: d == qdrant.Distance_Euclid || d == qdrant.Distance_Manhattan,
	}
}

func (s scorer) score(query, vec []float32) float64 {
	switch s.distance {
	case qdrant.Distance_Cosine:
		return cosine(query, vec)
	case qdrant.Distance_Dot:
		return dot(query, vec)
	case qdrant.Distance_Euclid:
		return euclid(query, vec)
	case qdrant.Distance_Manhattan:
		return manhattan(query, vec)
	default:
		return 0
	}
}

// passes applies a score threshold: a minimum for similarities, a maximum
// for distances.
func (s scorer) passes(score float64, threshold *float32) bool {
	if threshold == nil {
		return true
	}
	if s.ascending {
		return score <= float64(*threshold)
	}
	return score >= float64(*threshold)
}

// better reports whether a ranks before b.
func (s scorer) better(a, b float64) bool {
	if s.ascending {
		return a < b
	}
	return a > b
}

// cosine returns 0 when either vector has zero magnitude.
func cosine(a, b []float32) float64 {
	var d, na, nb float64
	for i := range a {
		va, vb := float64(a[i]), float64(b[i])
		d += va * vb
		na += va * va
		nb += vb * vb
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return d / (math.Sqrt(na) * math.Sqrt(nb))
}

func dot(a, b []float32) float64 {
	var d float64
	for i := range a {
		d += float64(a[i]) * float64(b[i])
	}
	return d
}

func euclid(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

func manhattan(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += math.Abs(float64(a[i]) - float64(b[i]))
	}
	return sum
}
