package analysis

import "fmt"

// probePrompt is the lightweight request used to check provider health
// at startup.
const probePrompt = "Hello, this is a connectivity test. Reply with OK."

// biasPromptTemplate instructs the model to return a strict JSON
// analysis for a single sentence.
const biasPromptTemplate = `Analyze the following text for bias and provide a detailed analysis in JSON format.

Text to analyze: %q

Provide your analysis in exactly this JSON format:
{
    "sentences": [
        {
            "sentence": "<the sentence>",
            "biased_spans": [
                {
                    "text": "<biased text>",
                    "start": <start position within the sentence>,
                    "end": <end position within the sentence>,
                    "type": "<bias type: gender_bias, racial_bias, ageist, ableist, religious_bias, socioeconomic_bias, toxic, stereotyping>"
                }
            ],
            "suggestion": "<neutral alternative>"
        }
    ]
}

Guidelines for bias detection:
1. Look for gender bias (stereotypes about men/women abilities)
2. Look for racial/ethnic bias
3. Look for ageist language (discrimination based on age)
4. Look for ableist language (discrimination against disabilities)
5. Look for religious bias
6. Look for socioeconomic bias
7. Look for toxic or offensive language
8. Look for stereotyping or generalizations

Provide neutral, inclusive alternatives for any biased language found.
If no bias is found, return an empty biased_spans array and repeat the sentence as the suggestion.
Return only the JSON object, without commentary.`

// buildPrompt renders the bias-detection prompt for one sentence unit.
func buildPrompt(sentence string) string {
	return fmt.Sprintf(biasPromptTemplate, sentence)
}
