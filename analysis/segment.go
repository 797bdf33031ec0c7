package analysis

import (
	"regexp"
	"strings"
)

// sentenceBoundary matches a maximal run of sentence terminators. The
// boundary is consumed, not retained.
var sentenceBoundary = regexp.MustCompile(`[.!?]+`)

// Segment splits text into an ordered sequence of non-empty, trimmed
// sentence units. Returns ErrEmptyInput when nothing remains after
// trimming.
func Segment(text string) ([]string, error) {
	pieces := sentenceBoundary.Split(text, -1)

	units := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		piece = strings.TrimSpace(piece)
		if piece != "" {
			units = append(units, piece)
		}
	}

	if len(units) == 0 {
		return nil, ErrEmptyInput
	}
	return units, nil
}
