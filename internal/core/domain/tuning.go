package domain

// RankingWeights holds the tunable relevance-scoring constants. The defaults
// are empirically chosen; treat them as configuration, not contract.
type RankingWeights struct {
	// Vector is the cosine similarity share of the combined score.
	Vector float64

	// Lexical is the exact/partial lexical boost share.
	Lexical float64

	// ExactPhrase, KeywordOverlap, MetadataMatch and Question weight the
	// four sub-scores of the lexical fallback scorer.
	ExactPhrase    float64
	KeywordOverlap float64
	MetadataMatch  float64
	Question       float64

	// LexicalThreshold is the minimum combined fallback score kept.
	LexicalThreshold float64
}

// DefaultRankingWeights returns the stock weighting constants.
func DefaultRankingWeights() RankingWeights {
	return RankingWeights{
		Vector:           0.9,
		Lexical:          0.1,
		ExactPhrase:      0.3,
		KeywordOverlap:   0.2,
		MetadataMatch:    0.1,
		Question:         0.4,
		LexicalThreshold: 0.15,
	}
}

// ConfidenceAdjustments holds the answer-confidence heuristic deltas.
type ConfidenceAdjustments struct {
	// DataBonus is added when the answer contains numeric or date patterns.
	DataBonus float64

	// CoverageWeight scales the query-word coverage ratio bonus.
	CoverageWeight float64

	// ShortPenalty is subtracted when the answer is under MinAnswerLength.
	ShortPenalty float64

	// HedgePenalty is subtracted when the answer hedges ("couldn't find").
	HedgePenalty float64

	// MinAnswerLength is the answer length below which ShortPenalty applies.
	MinAnswerLength int

	// Floor and Ceiling clamp the final confidence.
	Floor   float64
	Ceiling float64
}

// DefaultConfidenceAdjustments returns the stock confidence heuristics.
func DefaultConfidenceAdjustments() ConfidenceAdjustments {
	return ConfidenceAdjustments{
		DataBonus:       0.1,
		CoverageWeight:  0.1,
		ShortPenalty:    0.2,
		HedgePenalty:    0.3,
		MinAnswerLength: 40,
		Floor:           0.1,
		Ceiling:         0.95,
	}
}
