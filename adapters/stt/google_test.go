package stt

import (
	"errors"
	"io"
	"testing"

	"cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type scriptedStream struct {
	responses []*speechpb.StreamingRecognizeResponse
	err       error
}

func (s *scriptedStream) Recv() (*speechpb.StreamingRecognizeResponse, error) {
	if len(s.responses) == 0 {
		if s.err != nil {
			return nil, s.err
		}
		return nil, io.EOF
	}
	resp := s.responses[0]
	s.responses = s.responses[1:]
	return resp, nil
}

func result(text string, final bool) *speechpb.StreamingRecognitionResult {
	return &speechpb.StreamingRecognitionResult{
		IsFinal:      final,
		Alternatives: []*speechpb.SpeechRecognitionAlternative{{Transcript: text}},
	}
}

func TestCollectTranscriptJoinsFinalResults(t *testing.T) {
	stream := &scriptedStream{responses: []*speechpb.StreamingRecognizeResponse{
		{Results: []*speechpb.StreamingRecognitionResult{result("I feel", true)}},
		{Results: []*speechpb.StreamingRecognitionResult{result("ignored", false)}},
		{Results: []*speechpb.StreamingRecognitionResult{result(" anxious today ", true)}},
	}}

	text, err := collectTranscript(stream)
	require.NoError(t, err)
	assert.Equal(t, "I feel anxious today", text)
}

func TestCollectTranscriptEmpty(t *testing.T) {
	text, err := collectTranscript(&scriptedStream{})
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestCollectTranscriptError(t *testing.T) {
	_, err := collectTranscript(&scriptedStream{err: errors.New("deadline exceeded")})
	assert.ErrorContains(t, err, "deadline exceeded")
}

func TestLocale(t *testing.T) {
	assert.Equal(t, "hi-IN", Locale("hi"))
	assert.Equal(t, "en-US", Locale("EN"))
	assert.Equal(t, "sw-KE", Locale("sw-KE"))
}

func TestRecognitionConfig(t *testing.T) {
	g := &GoogleSpeechToText{language: "en-US", alternatives: []string{"hi-IN", "es-ES"}, logger: zaptest.NewLogger(t)}

	auto := g.recognitionConfig("", 16000)
	assert.Equal(t, "en-US", auto.LanguageCode)
	assert.Equal(t, []string{"hi-IN", "es-ES"}, auto.AlternativeLanguageCodes)
	assert.Equal(t, speechpb.RecognitionConfig_LINEAR16, auto.Encoding)

	forced := g.recognitionConfig("ta", 8000)
	assert.Equal(t, "ta-IN", forced.LanguageCode)
	assert.Empty(t, forced.AlternativeLanguageCodes)
	assert.EqualValues(t, 8000, forced.SampleRateHertz)
}
