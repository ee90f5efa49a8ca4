package entities

import "encoding/json"

// ResponsePackage is the terminal artifact returned to every channel
type ResponsePackage struct {
	Answer      string          `json:"answer"`
	VoiceAnswer string          `json:"voice_answer"`
	Sentiment   SentimentResult `json:"-"`
	Advisory    string          `json:"popup_message"`
	Language    string          `json:"language"`
	Fallback    bool            `json:"fallback"`
}

// MarshalJSON flattens the sentiment label next to the detailed result
func (p ResponsePackage) MarshalJSON() ([]byte, error) {
	type alias ResponsePackage
	return json.Marshal(struct {
		alias
		SentimentLabel  SentimentLabel  `json:"sentiment"`
		SentimentDetail SentimentResult `json:"sentiment_detail"`
	}{
		alias:           alias(p),
		SentimentLabel:  p.Sentiment.Label,
		SentimentDetail: p.Sentiment,
	})
}
