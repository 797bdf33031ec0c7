package analysis

import (
	"encoding/json"

	"github.com/oratiolabs/oratio/llm"
)

// rawReply is the schema expected inside a model reply. Models are
// prompted to wrap the per-sentence record in a "sentences" array, but
// some flatten it to the top level; both shapes are accepted.
type rawReply struct {
	Sentences []rawSentence `json:"sentences"`
	rawSentence
}

type rawSentence struct {
	Sentence    string       `json:"sentence"`
	BiasedSpans []BiasedSpan `json:"biased_spans"`
	Suggestion  string       `json:"suggestion"`
}

// Normalize converts a provider's raw textual reply into a strict
// SentenceAnalysis. It never fails: when the reply contains no parseable
// JSON object, or the object doesn't match the schema, the result is a
// neutral record asserting no detected bias with the original sentence
// as its own suggestion.
func Normalize(raw string, sentence string) SentenceAnalysis {
	neutral := SentenceAnalysis{
		Sentence:    sentence,
		BiasedSpans: []BiasedSpan{},
		Suggestion:  sentence,
	}

	extracted := llm.ExtractJSON(raw)
	if extracted == "" {
		return neutral
	}

	var reply rawReply
	if err := json.Unmarshal([]byte(extracted), &reply); err != nil {
		return neutral
	}

	record := reply.rawSentence
	if len(reply.Sentences) > 0 {
		record = reply.Sentences[0]
	}

	spans := make([]BiasedSpan, 0, len(record.BiasedSpans))
	for _, span := range record.BiasedSpans {
		// start < end must hold; a span violating it degrades to
		// no-span rather than failing the record.
		if span.Start < 0 || span.Start >= span.End {
			continue
		}
		spans = append(spans, span)
	}

	suggestion := record.Suggestion
	if suggestion == "" {
		suggestion = sentence
	}

	return SentenceAnalysis{
		Sentence:    sentence,
		BiasedSpans: spans,
		Suggestion:  suggestion,
	}
}
