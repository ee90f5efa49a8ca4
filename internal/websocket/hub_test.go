package websocket

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/satriahrh/audexa/domain/entities"
	"github.com/satriahrh/audexa/usecase"
)

type fakeConversation struct {
	mu        sync.Mutex
	queries   []string
	refs      []usecase.SessionRef
	recording []byte
	format    string
	fail      *entities.TranscriptionFailure
	speech    entities.SpeechResult
	dir       string
}

func (f *fakeConversation) Ask(_ context.Context, ref usecase.SessionRef, query string) (*usecase.Exchange, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	f.refs = append(f.refs, ref)
	return &usecase.Exchange{
		Session:  &entities.Session{ID: ref.SessionID},
		Response: entities.ResponsePackage{Answer: "answer to " + query, VoiceAnswer: "spoken", Language: "en"},
	}, nil
}

func (f *fakeConversation) AskVoice(_ context.Context, ref usecase.SessionRef, asset *entities.AudioAsset) (*usecase.Exchange, *entities.TranscriptionFailure, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, _ := os.ReadFile(asset.Path)
	os.Remove(asset.Path)
	f.recording = data
	f.format = asset.DeclaredFormat
	if f.fail != nil {
		return nil, f.fail, nil
	}
	return &usecase.Exchange{
		Session:    &entities.Session{ID: "replacement"},
		Transcript: "hello from audio",
		Response:   entities.ResponsePackage{Answer: "heard you", Language: ref.Language},
	}, nil, nil
}

func (f *fakeConversation) Speak(_ context.Context, text, lang string) entities.SpeechResult {
	return f.speech
}

func (f *fakeConversation) TempAudioPath(ext string) string {
	return f.dir + "/upload" + ext
}

func startServer(t *testing.T, conv *fakeConversation) *websocket.Conn {
	t.Helper()
	logger := zaptest.NewLogger(t)
	hub := NewHub(conv, logger)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	e := echo.New()
	e.GET("/ws", func(c echo.Context) error {
		return HandleWebSocketWithAuth(hub, c, usecase.SessionRef{SessionID: "s1", UserID: "u1", Channel: "web"}, logger)
	})
	server := httptest.NewServer(e)
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })
	return ws
}

func readJSON(t *testing.T, ws *websocket.Conn) map[string]interface{} {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(5*time.Second)))
	kind, payload, err := ws.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, websocket.TextMessage, kind)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &out))
	return out
}

func TestPingPong(t *testing.T) {
	ws := startServer(t, &fakeConversation{dir: t.TempDir()})

	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping","data":"hi"}`)))
	msg := readJSON(t, ws)
	assert.Equal(t, "pong", msg["type"])
	assert.Equal(t, "hi", msg["data"])
}

func TestQueryWithServerSpeech(t *testing.T) {
	conv := &fakeConversation{
		dir:    t.TempDir(),
		speech: entities.SpeechResult{Audio: []byte("mp3"), MimeType: "audio/mpeg", Language: "en"},
	}
	ws := startServer(t, conv)

	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(`{"type":"query","text":"I can't sleep","language":"en","speak":true}`)))

	msg := readJSON(t, ws)
	assert.Equal(t, "response", msg["type"])
	assert.Equal(t, "s1", msg["session_id"])
	response := msg["response"].(map[string]interface{})
	assert.Equal(t, "answer to I can't sleep", response["answer"])

	start := readJSON(t, ws)
	assert.Equal(t, "speaking_start", start["type"])
	assert.Equal(t, "audio/mpeg", start["mime_type"])

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(5*time.Second)))
	kind, audio, err := ws.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.BinaryMessage, kind)
	assert.Equal(t, []byte("mp3"), audio)

	end := readJSON(t, ws)
	assert.Equal(t, "speaking_end", end["type"])

	conv.mu.Lock()
	defer conv.mu.Unlock()
	require.Len(t, conv.refs, 1)
	assert.Equal(t, "u1", conv.refs[0].UserID)
	assert.Equal(t, "en", conv.refs[0].Language)
}

func TestQueryWithClientSideSpeech(t *testing.T) {
	conv := &fakeConversation{
		dir:    t.TempDir(),
		speech: entities.SpeechResult{Text: "spoken", Language: "en", UseClientSide: true},
	}
	ws := startServer(t, conv)

	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(`{"type":"query","text":"hello","speak":true}`)))
	assert.Equal(t, "response", readJSON(t, ws)["type"])

	end := readJSON(t, ws)
	assert.Equal(t, "speaking_end", end["type"])
	assert.Equal(t, true, end["use_browser_tts"])
	assert.Equal(t, "spoken", end["text"])
}

func TestAudioFramesThenAudioEnd(t *testing.T) {
	conv := &fakeConversation{dir: t.TempDir()}
	ws := startServer(t, conv)

	require.NoError(t, ws.WriteMessage(websocket.BinaryMessage, []byte("OggS")))
	require.NoError(t, ws.WriteMessage(websocket.BinaryMessage, []byte("data")))
	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(`{"type":"audio_end","format":"ogg","language":"hi"}`)))

	msg := readJSON(t, ws)
	assert.Equal(t, "response", msg["type"])
	assert.Equal(t, "hello from audio", msg["transcript"])
	assert.Equal(t, "replacement", msg["session_id"])

	conv.mu.Lock()
	defer conv.mu.Unlock()
	assert.Equal(t, []byte("OggSdata"), conv.recording)
	assert.Equal(t, "ogg", conv.format)
}

func TestAudioRejected(t *testing.T) {
	conv := &fakeConversation{
		dir:  t.TempDir(),
		fail: &entities.TranscriptionFailure{Reason: entities.TranscriptionTooShort, Message: "Recording too short"},
	}
	ws := startServer(t, conv)

	require.NoError(t, ws.WriteMessage(websocket.BinaryMessage, []byte("RIFF")))
	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(`{"type":"audio_end"}`)))

	msg := readJSON(t, ws)
	assert.Equal(t, "error", msg["type"])
	assert.Equal(t, "too_short", msg["error_code"])
	assert.Equal(t, "Recording too short", msg["message"])

	conv.mu.Lock()
	defer conv.mu.Unlock()
	assert.Equal(t, "webm", conv.format)
}

func TestAudioEndWithoutAudio(t *testing.T) {
	ws := startServer(t, &fakeConversation{dir: t.TempDir()})

	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(`{"type":"audio_end","format":"wav"}`)))
	msg := readJSON(t, ws)
	assert.Equal(t, "error", msg["type"])
	assert.Equal(t, "no_audio", msg["error_code"])
}

func TestInvalidMessage(t *testing.T) {
	ws := startServer(t, &fakeConversation{dir: t.TempDir()})

	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(`{"type":"listening_start"}`)))
	msg := readJSON(t, ws)
	assert.Equal(t, "error", msg["type"])
	assert.Equal(t, "invalid_message", msg["error_code"])
}

func TestHubReplacesClientForSameSession(t *testing.T) {
	logger := zaptest.NewLogger(t)
	hub := NewHub(&fakeConversation{}, logger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	ref := usecase.SessionRef{SessionID: "s1"}
	first := newClient(hub, nil, ref, logger)
	second := newClient(hub, nil, ref, logger)

	hub.register <- first
	hub.register <- second
	hub.unregister <- first

	assert.Eventually(t, func() bool {
		first.sendMu.Lock()
		defer first.sendMu.Unlock()
		return first.closed
	}, time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	assert.True(t, second.enqueue(WriteData{Type: websocket.TextMessage}))
}
