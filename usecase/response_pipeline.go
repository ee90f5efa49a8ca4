package usecase

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/satriahrh/audexa/domain/entities"
	"github.com/satriahrh/audexa/internal/language"
)

const voiceCharBudget = 200

var popups = map[entities.SentimentLabel]string{
	entities.SentimentPositive: "🎉 I can sense you're feeling good today! I'll keep the positive energy flowing and offer encouragement to maintain your great mood.",
	entities.SentimentNegative: "💙 I notice you might be going through a tough time. I'm here with extra care and support to help you feel better.",
	entities.SentimentNeutral:  "ℹ️ I'm here to help with whatever you need. Let's work together on your health and wellness goals.",
}

// LanguageDetector guesses the language of free text
type LanguageDetector interface {
	Detect(text string) string
}

// SentimentClassifier labels text and never fails
type SentimentClassifier interface {
	Classify(ctx context.Context, text string) entities.SentimentResult
}

// FallbackResponder produces canned guidance for a query
type FallbackResponder interface {
	Respond(query string) string
}

// Generator produces a model reply for a query
type Generator interface {
	Generate(ctx context.Context, query string, history entities.ConversationContext, lang string, detected bool) entities.GenerationOutcome
}

// ResponsePipeline composes detection, classification, generation and fallback
type ResponsePipeline struct {
	detector   LanguageDetector
	classifier SentimentClassifier
	generator  Generator
	fallback   FallbackResponder
	logger     *zap.Logger
}

// NewResponsePipeline creates a new response pipeline
func NewResponsePipeline(
	detector LanguageDetector,
	classifier SentimentClassifier,
	generator Generator,
	fallback FallbackResponder,
	logger *zap.Logger,
) *ResponsePipeline {
	return &ResponsePipeline{
		detector:   detector,
		classifier: classifier,
		generator:  generator,
		fallback:   fallback,
		logger:     logger,
	}
}

// Answer always returns a complete package. explicitLanguage "" or "auto" triggers detection.
func (p *ResponsePipeline) Answer(ctx context.Context, query string, history entities.ConversationContext, explicitLanguage string) entities.ResponsePackage {
	lang := explicitLanguage
	detected := language.IsAuto(explicitLanguage)

	var (
		wg        sync.WaitGroup
		sentiment entities.SentimentResult
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		sentiment = p.classifier.Classify(ctx, query)
	}()
	if detected {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lang = p.detector.Detect(query)
		}()
	}
	wg.Wait()

	p.logger.Info("Query analyzed",
		zap.String("language", lang),
		zap.Bool("detected", detected),
		zap.String("sentiment", string(sentiment.Label)),
		zap.String("sentimentSource", string(sentiment.Source)))

	outcome := p.generator.Generate(ctx, query, history, lang, detected)

	answer := outcome.Text
	advisory := Popup(sentiment.Label)
	usedFallback := false

	switch outcome.Kind {
	case entities.OutcomeFailure:
		answer = p.fallback.Respond(query)
		usedFallback = true
		advisory += "\n\n⚠️ Note: " + ErrorNotice(outcome.ErrorKind)
		p.logger.Info("Using fallback response",
			zap.String("errorKind", string(outcome.ErrorKind)))
	case entities.OutcomeDegraded:
		advisory += "\n\n⚠️ Note: " + DegradedNotice
		p.logger.Info("Answer served in degraded mode", zap.String("reason", outcome.Reason))
	}

	return entities.ResponsePackage{
		Answer:      answer,
		VoiceAnswer: VoiceProjection(answer),
		Sentiment:   sentiment,
		Advisory:    advisory,
		Language:    lang,
		Fallback:    usedFallback,
	}
}

// Popup is the advisory text for a sentiment label
func Popup(label entities.SentimentLabel) string {
	if popup, ok := popups[label]; ok {
		return popup
	}
	return popups[entities.SentimentNeutral]
}

// VoiceProjection shortens an answer for playback: at most two sentences or
// roughly 200 characters, and never longer than the answer itself.
func VoiceProjection(answer string) string {
	runes := []rune(answer)
	if len(runes) <= voiceCharBudget {
		return answer
	}

	sentences := strings.Split(answer, ". ")
	if len(sentences) <= 2 {
		prefix := string(runes[:voiceCharBudget])
		if len(runes) <= voiceCharBudget+3 {
			return prefix
		}
		return prefix + "..."
	}

	joined := []rune(strings.Join(sentences[:2], ". "))
	if len(joined) > voiceCharBudget {
		return string(joined[:voiceCharBudget-3]) + "..."
	}
	return string(joined)
}
