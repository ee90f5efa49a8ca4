package entities

// SentimentLabel is the polarity assigned to an utterance
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
)

// SentimentSource tells which classifier produced a label
type SentimentSource string

const (
	SentimentSourceExternal SentimentSource = "external"
	SentimentSourceLexicon  SentimentSource = "lexicon"
)

// SentimentResult is the outcome of sentiment classification.
// Confidence is only meaningful for the external source; the lexicon reports 1.0.
type SentimentResult struct {
	Label      SentimentLabel  `json:"label"`
	Confidence float64         `json:"confidence"`
	Source     SentimentSource `json:"source"`
}
