package usecase

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/satriahrh/audexa/domain/entities"
	"github.com/satriahrh/audexa/domain/repositories"
)

type fakeLLM struct {
	mu       sync.Mutex
	text     string
	err      error
	block    bool
	requests []repositories.GenerationRequest
}

func (f *fakeLLM) Generate(ctx context.Context, req repositories.GenerationRequest) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.text, f.err
}

type fakeDetector struct {
	code  string
	calls int
}

func (f *fakeDetector) Detect(string) string {
	f.calls++
	return f.code
}

type fakeGenerator struct {
	outcome  entities.GenerationOutcome
	lang     string
	detected bool
	history  entities.ConversationContext
}

func (f *fakeGenerator) Generate(_ context.Context, _ string, history entities.ConversationContext, lang string, detected bool) entities.GenerationOutcome {
	f.lang = lang
	f.detected = detected
	f.history = history
	return f.outcome
}

type fakeClassifier struct {
	result entities.SentimentResult
}

func (f *fakeClassifier) Classify(context.Context, string) entities.SentimentResult {
	return f.result
}

type sttCall struct {
	path    string
	samples bool
	lang    string
}

type fakeSTT struct {
	calls      []sttCall
	respond    func(call sttCall) (string, error)
	samplesErr error
}

func (f *fakeSTT) TranscribeFile(_ context.Context, path string, opts repositories.TranscribeOptions) (string, error) {
	call := sttCall{path: path, lang: opts.Language}
	f.calls = append(f.calls, call)
	return f.respond(call)
}

func (f *fakeSTT) TranscribeSamples(_ context.Context, _ []float32, opts repositories.TranscribeOptions) (string, error) {
	call := sttCall{samples: true, lang: opts.Language}
	f.calls = append(f.calls, call)
	if f.samplesErr != nil {
		return "", f.samplesErr
	}
	return f.respond(call)
}

type fakeCodec struct {
	clip      *entities.AudioClip
	err       error
	nativeErr error
	written   *entities.AudioClip
	writeErr  error
}

func (f *fakeCodec) Decode(context.Context, string) (*entities.AudioClip, error) {
	return f.clip, f.err
}

func (f *fakeCodec) DecodeNative(context.Context, string) (*entities.AudioClip, error) {
	if f.nativeErr != nil {
		return nil, f.nativeErr
	}
	return &entities.AudioClip{Samples: make([]float32, 16000), SampleRate: 16000, Channels: 1}, nil
}

func (f *fakeCodec) WriteWAV(path string, clip *entities.AudioClip) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.written = clip
	return os.WriteFile(path, []byte("RIFF"), 0o600)
}

type fakeTTS struct {
	langs []string
	texts []string
	fail  map[string]error
}

func (f *fakeTTS) Synthesize(_ context.Context, text string, opts repositories.SynthesisOptions) ([]byte, error) {
	f.langs = append(f.langs, opts.Language)
	f.texts = append(f.texts, text)
	if err := f.fail[opts.Language]; err != nil {
		return nil, err
	}
	return []byte("mp3"), nil
}

type fakeSessionRepo struct {
	sessions map[string]*entities.Session
	updates  int
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*entities.Session{}}
}

func (f *fakeSessionRepo) Create(_ context.Context, s *entities.Session) error {
	f.sessions[s.ID] = s
	return nil
}

func (f *fakeSessionRepo) Get(_ context.Context, id string) (*entities.Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, repositories.ErrSessionNotFound
	}
	return s, nil
}

func (f *fakeSessionRepo) GetLastByUserID(_ context.Context, userID string) (*entities.Session, error) {
	var last *entities.Session
	for _, s := range f.sessions {
		if s.UserID == userID && (last == nil || s.LastActiveAt.After(last.LastActiveAt)) {
			last = s
		}
	}
	if last == nil {
		return nil, repositories.ErrSessionNotFound
	}
	return last, nil
}

func (f *fakeSessionRepo) Update(_ context.Context, s *entities.Session) error {
	f.updates++
	f.sessions[s.ID] = s
	return nil
}

func (f *fakeSessionRepo) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	var n int64
	for id, s := range f.sessions {
		if s.ExpiresAt.Before(before) {
			delete(f.sessions, id)
			n++
		}
	}
	return n, nil
}
