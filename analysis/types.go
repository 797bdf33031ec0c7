// Package analysis implements the bias-analysis pipeline: sentence
// segmentation, dispatch to remote model providers with failover,
// normalization of loosely-structured replies, and aggregation into a
// scored report.
package analysis

// BiasedSpan marks a biased region within its parent sentence.
// Offsets are positions within the sentence, not the original document.
type BiasedSpan struct {
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Type  string `json:"type"`
}

// SentenceAnalysis is the per-sentence analysis record. Immutable after
// creation.
type SentenceAnalysis struct {
	Sentence    string       `json:"sentence"`
	BiasedSpans []BiasedSpan `json:"biased_spans"`
	Suggestion  string       `json:"suggestion"`
}

// Summary carries the report-level totals.
type Summary struct {
	BiasedCount int     `json:"biased_count"`
	Score       float64 `json:"score"`
}

// Report is the result of analyzing one input text. Sentences appear in
// input order; Summary.BiasedCount equals the sum of span counts across
// all sentences.
type Report struct {
	OriginalText string             `json:"original_text"`
	Summary      Summary            `json:"summary"`
	Sentences    []SentenceAnalysis `json:"sentences"`
}
