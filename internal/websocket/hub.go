// Package websocket streams conversations over a persistent connection: typed
// queries or recorded audio in, answers and optional speech out.
package websocket

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/satriahrh/audexa/domain/entities"
	"github.com/satriahrh/audexa/usecase"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512 * 1024

	// Maximum recording buffered between audio_end messages.
	maxAudioBytes = 10 << 20

	turnTimeout = 90 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Conversation is what the hub needs from the conversation service
type Conversation interface {
	Ask(ctx context.Context, ref usecase.SessionRef, query string) (*usecase.Exchange, error)
	AskVoice(ctx context.Context, ref usecase.SessionRef, asset *entities.AudioAsset) (*usecase.Exchange, *entities.TranscriptionFailure, error)
	Speak(ctx context.Context, text, lang string) entities.SpeechResult
	TempAudioPath(ext string) string
}

// Hub maintains the set of active clients, one per session.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex

	conversation Conversation
	validator    *MessageValidator
	logger       *zap.Logger
}

// NewHub creates a new WebSocket hub
func NewHub(conversation Conversation, logger *zap.Logger) *Hub {
	return &Hub{
		clients:      make(map[string]*Client),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		conversation: conversation,
		validator:    NewMessageValidator(),
		logger:       logger,
	}
}

// Run starts the hub's main loop and returns when ctx is done
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for key, client := range h.clients {
				client.closeSend()
				delete(h.clients, key)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if previous, ok := h.clients[client.key()]; ok {
				previous.closeSend()
			}
			h.clients[client.key()] = client
			h.mu.Unlock()
			h.logger.Info("Client registered", zap.String("sessionID", client.key()))

		case client := <-h.unregister:
			h.mu.Lock()
			if current, ok := h.clients[client.key()]; ok && current == client {
				delete(h.clients, client.key())
			}
			h.mu.Unlock()
			client.closeSend()
			h.logger.Info("Client unregistered", zap.String("sessionID", client.key()))
		}
	}
}

// ClientCount returns the number of connected sessions
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

type WriteData struct {
	// MessageType is the type of the websocket message.
	// Expect websocket.TextMessage or websocket.BinaryMessage
	Type    int
	Payload []byte
}

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan WriteData
	id     string
	logger *zap.Logger

	// ref follows the conversation when an idle session is replaced; guarded by turn
	ref usecase.SessionRef

	sendMu sync.Mutex
	closed bool

	// turn serializes answered turns so history stays ordered
	turn  sync.Mutex
	audio bytes.Buffer
	audMu sync.Mutex
}

func (c *Client) key() string {
	return c.id
}

// HandleWebSocketWithAuth upgrades an authenticated request and starts the pumps
func HandleWebSocketWithAuth(hub *Hub, c echo.Context, ref usecase.SessionRef, logger *zap.Logger) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", zap.Error(err))
		return err
	}

	client := newClient(hub, conn, ref, logger)
	client.hub.register <- client

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.writePump()
	go client.readPump()

	return nil
}

func newClient(hub *Hub, conn *websocket.Conn, ref usecase.SessionRef, logger *zap.Logger) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan WriteData, 256),
		id:     ref.SessionID,
		ref:    ref,
		logger: logger.With(zap.String("sessionID", ref.SessionID)),
	}
}

// readPump pumps messages from the websocket connection to the hub.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", zap.Error(err))
			}
			break
		}
		c.conn.SetReadDeadline(time.Now().Add(pongWait))

		switch messageType {
		case websocket.TextMessage:
			c.processMessage(message)
		case websocket.BinaryMessage:
			c.processBinaryAudioChunk(message)
		default:
			c.logger.Warn("Received unknown message type", zap.Int("type", messageType))
		}
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(message.Type, message.Payload); err != nil {
				c.logger.Error("Failed to write message", zap.Error(err))
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// enqueue drops the frame when the client is gone or too slow to drain its buffer
func (c *Client) enqueue(data WriteData) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		c.logger.Warn("Send buffer full, dropping frame", zap.Int("bytes", len(data.Payload)))
		return false
	}
}

func (c *Client) sendJSON(v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		c.logger.Error("Failed to marshal message", zap.Error(err))
		return
	}
	c.enqueue(WriteData{Type: websocket.TextMessage, Payload: payload})
}

func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// processMessage processes incoming control and query messages
func (c *Client) processMessage(message []byte) {
	msg, err := c.hub.validator.ValidateMessage(message)
	if err != nil {
		c.logger.Warn("Rejected websocket message", zap.Error(err))
		c.sendJSON(CreateErrorMessage("invalid_message", "Message could not be processed", err.Error()))
		return
	}

	switch m := msg.(type) {
	case *PingMessage:
		c.sendJSON(CreatePongMessage(m.Data))
	case *QueryMessage:
		go c.handleQuery(m)
	case *AudioEndMessage:
		recording := c.takeAudio()
		if len(recording) == 0 {
			c.sendJSON(CreateErrorMessage("no_audio", "No audio was received before audio_end", ""))
			return
		}
		go c.handleAudio(m, recording)
	}
}

// processBinaryAudioChunk buffers recorded audio until audio_end arrives
func (c *Client) processBinaryAudioChunk(data []byte) {
	c.audMu.Lock()
	defer c.audMu.Unlock()

	if c.audio.Len()+len(data) > maxAudioBytes {
		c.audio.Reset()
		c.logger.Warn("Audio buffer limit exceeded", zap.Int("limit", maxAudioBytes))
		c.sendJSON(CreateErrorMessage("audio_too_large", "Recording is too long, please send a shorter message", ""))
		return
	}
	c.audio.Write(data)
}

func (c *Client) takeAudio() []byte {
	c.audMu.Lock()
	defer c.audMu.Unlock()
	out := make([]byte, c.audio.Len())
	copy(out, c.audio.Bytes())
	c.audio.Reset()
	return out
}

func (c *Client) handleQuery(msg *QueryMessage) {
	c.turn.Lock()
	defer c.turn.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
	defer cancel()

	ref := c.ref
	ref.Language = msg.Language
	exchange, err := c.hub.conversation.Ask(ctx, ref, msg.Text)
	if err != nil {
		c.logger.Error("Failed to answer query", zap.Error(err))
		c.sendJSON(CreateErrorMessage("session_error", "Could not record the conversation", ""))
		return
	}

	c.deliver(ctx, exchange, msg.Speak)
}

func (c *Client) handleAudio(msg *AudioEndMessage, recording []byte) {
	c.turn.Lock()
	defer c.turn.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
	defer cancel()

	path := c.hub.conversation.TempAudioPath("." + msg.Format)
	if err := os.WriteFile(path, recording, 0o600); err != nil {
		c.logger.Error("Failed to store recording", zap.Error(err))
		c.sendJSON(CreateErrorMessage("upload_failed", "Could not store the recording", ""))
		return
	}

	ref := c.ref
	ref.Language = msg.Language
	asset := &entities.AudioAsset{Path: path, DeclaredFormat: msg.Format, SizeBytes: int64(len(recording))}
	exchange, fail, err := c.hub.conversation.AskVoice(ctx, ref, asset)
	if fail != nil {
		c.sendJSON(CreateErrorMessage(string(fail.Reason), fail.Message, ""))
		return
	}
	if err != nil {
		c.logger.Error("Failed to answer recording", zap.Error(err))
		c.sendJSON(CreateErrorMessage("session_error", "Could not record the conversation", ""))
		return
	}

	c.deliver(ctx, exchange, msg.Speak)
}

// deliver sends the answer, then speech when requested
func (c *Client) deliver(ctx context.Context, exchange *usecase.Exchange, speak bool) {
	sessionID := exchange.Session.ID
	if sessionID != c.ref.SessionID {
		c.logger.Info("Conversation moved to a new session", zap.String("newSessionID", sessionID))
		c.ref.SessionID = sessionID
	}
	pkg := exchange.Response
	c.sendJSON(CreateResponseMessage(sessionID, exchange.Transcript, pkg))

	if !speak || pkg.VoiceAnswer == "" {
		return
	}

	speech := c.hub.conversation.Speak(ctx, pkg.VoiceAnswer, pkg.Language)
	if speech.UseClientSide {
		c.sendJSON(&SpeechMessage{
			BaseMessage:   stamp(MessageTypeSpeakingEnd),
			SessionID:     sessionID,
			Text:          speech.Text,
			Language:      speech.Language,
			UseBrowserTTS: true,
			Message:       speech.Message,
		})
		return
	}

	c.sendJSON(&SpeechMessage{
		BaseMessage: stamp(MessageTypeSpeakingStart),
		SessionID:   sessionID,
		Language:    speech.Language,
		MimeType:    speech.MimeType,
	})
	c.enqueue(WriteData{Type: websocket.BinaryMessage, Payload: speech.Audio})
	c.sendJSON(&SpeechMessage{
		BaseMessage: stamp(MessageTypeSpeakingEnd),
		SessionID:   sessionID,
		Language:    speech.Language,
	})
}
