package sentiment

import (
	"strings"

	"github.com/satriahrh/audexa/domain/entities"
)

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

var negativeWords = wordSet(
	"sad", "depressed", "anxious", "worried", "scared", "angry", "hopeless", "lonely",
	"pain", "suicidal", "panic", "stressed", "overwhelmed", "frustrated", "tired",
	"exhausted", "hurt", "upset", "crying", "terrible", "awful", "hate", "can't",
	"won't", "never", "always", "everything", "nothing", "bad", "horrible", "worst",
	"disappointed", "annoyed", "irritated", "mad", "furious", "devastated", "broken",
	"empty", "lost", "confused", "helpless", "worthless", "useless", "failure",
	"sick", "ill", "unwell", "miserable", "suffering", "struggling", "difficult", "hard",
	"impossible", "overwhelming", "nightmare", "disaster",
)

var positiveWords = wordSet(
	"happy", "better", "good", "great", "excited", "hopeful", "proud", "calm",
	"peaceful", "motivated", "confident", "amazing", "wonderful", "fantastic",
	"love", "enjoy", "grateful", "thankful", "blessed", "lucky", "success",
	"accomplished", "relieved", "content", "excellent", "perfect", "awesome",
	"brilliant", "outstanding", "incredible", "marvelous", "delighted", "thrilled",
	"ecstatic", "joyful", "cheerful", "optimistic", "positive", "energetic",
	"refreshed", "renewed", "inspired", "determined", "focused", "clear",
	"satisfied", "fulfilled", "complete", "whole", "healthy", "strong", "powerful",
)

// Lexicon labels text by counting distinct polarity words. Tokens are split on
// whitespace only, so punctuation stays attached ("happy!" is not "happy").
func Lexicon(text string) entities.SentimentLabel {
	words := wordSet(strings.Fields(strings.ToLower(text))...)

	var negative, positive int
	for w := range words {
		if _, ok := negativeWords[w]; ok {
			negative++
		}
		if _, ok := positiveWords[w]; ok {
			positive++
		}
	}

	switch {
	case negative > positive:
		return entities.SentimentNegative
	case positive > negative:
		return entities.SentimentPositive
	default:
		return entities.SentimentNeutral
	}
}
