package vector

import (
	"math"
	"strings"
)

// adaptiveFloor resolves the default similarity floor from query length.
// Short queries are more specific and warrant a stricter floor.
func adaptiveFloor(query string) float64 {
	switch words := len(strings.Fields(query)); {
	case words <= 2:
		return 0.6
	case words <= 4:
		return 0.4
	case words <= 8:
		return 0.3
	default:
		return 0.2
	}
}

// l2norm computes the Euclidean norm of a vector.
func l2norm(vec []float32) float64 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum)
}

// cosine computes cosine similarity using precomputed norms, clamped to
// [0,1]. Zero-norm vectors score zero.
func cosine(q []float32, qnorm float64, d []float32, dnorm float64) float64 {
	if qnorm == 0 || dnorm == 0 {
		return 0
	}

	n := len(q)
	if len(d) < n {
		n = len(d)
	}

	var dot float64
	for i := 0; i < n; i++ {
		dot += float64(q[i]) * float64(d[i])
	}

	sim := dot / (qnorm * dnorm)
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}

// lexicalBoost returns the exact/partial match boost in [0,1]: 1.0 for an
// exact phrase occurrence, otherwise the fraction of query words present.
func lexicalBoost(queryLower string, queryWords []string, textLower string) float64 {
	if strings.Contains(textLower, queryLower) {
		return 1.0
	}
	if len(queryWords) == 0 {
		return 0
	}

	var matched int
	for _, w := range queryWords {
		if strings.Contains(textLower, w) {
			matched++
		}
	}
	return float64(matched) / float64(len(queryWords))
}
