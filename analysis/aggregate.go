package analysis

import "math"

// Aggregate combines per-sentence records into one scored report. Pure:
// calling it twice on the same input yields identical reports.
func Aggregate(originalText string, analyses []SentenceAnalysis) *Report {
	biasedCount := 0
	for _, a := range analyses {
		biasedCount += len(a.BiasedSpans)
	}

	score := 0.0
	if len(analyses) > 0 {
		score = math.Min(float64(biasedCount)/float64(len(analyses)), 1.0)
		score = math.Round(score*100) / 100
	}

	return &Report{
		OriginalText: originalText,
		Summary: Summary{
			BiasedCount: biasedCount,
			Score:       score,
		},
		Sentences: analyses,
	}
}
