// Package telegram answers users over a Telegram bot.
package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"github.com/satriahrh/audexa/domain/entities"
	"github.com/satriahrh/audexa/internal/language"
	"github.com/satriahrh/audexa/usecase"
)

const (
	baseContextKey = "base_context"
	channelName    = "telegram"
	replyTimeout   = 90 * time.Second
)

const helpText = `I'm here to listen. Send me a message or a voice note and I'll reply.

/start [language] - start over, optionally in a language such as hi, ta or es
/help - show this message

Ask me to "speak" or reply by "voice" and I'll send audio too.

If you are in crisis, please contact local emergency services right away.`

// Conversation is the slice of the conversation service the bot needs
type Conversation interface {
	StartSession(ctx context.Context, userID, channel, lang string) (*entities.Session, error)
	Ask(ctx context.Context, ref usecase.SessionRef, query string) (*usecase.Exchange, error)
	AskVoice(ctx context.Context, ref usecase.SessionRef, asset *entities.AudioAsset) (*usecase.Exchange, *entities.TranscriptionFailure, error)
	Speak(ctx context.Context, text, lang string) entities.SpeechResult
	TempAudioPath(ext string) string
}

// Bot wires telebot handlers to the conversation service
type Bot struct {
	bot          *tele.Bot
	sender       *sender
	conversation Conversation
	defaultLang  string
	logger       *zap.Logger

	mu        sync.RWMutex
	languages map[int64]string
}

// NewBot creates a long-polling bot. ctx is handed to every handler.
func NewBot(ctx context.Context, token, defaultLang string, conversation Conversation, logger *zap.Logger) (*Bot, error) {
	b, err := tele.NewBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			logger.Error("Telegram handler failed", zap.Error(err))
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	if defaultLang == "" {
		defaultLang = "auto"
	}

	bot := &Bot{
		bot:          b,
		sender:       newSender(b, logger),
		conversation: conversation,
		defaultLang:  defaultLang,
		logger:       logger,
		languages:    make(map[int64]string),
	}

	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	b.Handle("/start", bot.handleStart)
	b.Handle("/help", bot.handleHelp)
	b.Handle(tele.OnText, bot.handleText)
	b.Handle(tele.OnVoice, bot.handleVoice)

	return bot, nil
}

// Start blocks polling for updates until Stop is called
func (b *Bot) Start() {
	b.logger.Info("Starting telegram bot", zap.String("username", b.bot.Me.Username))
	b.bot.Start()
}

func (b *Bot) Stop() {
	b.bot.Stop()
}

func (b *Bot) handleStart(c tele.Context) error {
	ctx := baseContext(c)
	lang := strings.TrimSpace(c.Message().Payload)
	if lang == "" {
		lang = b.defaultLang
	}
	b.setLanguage(c.Sender().ID, lang)

	if _, err := b.conversation.StartSession(ctx, userID(c), channelName, lang); err != nil {
		b.logger.Error("Failed to start telegram session", zap.Int64("telegramID", c.Sender().ID), zap.Error(err))
	}
	return c.Send(language.Welcome(language.Resolve(lang)))
}

func (b *Bot) handleHelp(c tele.Context) error {
	return c.Send(helpText)
}

func (b *Bot) handleText(c tele.Context) error {
	text := strings.TrimSpace(c.Text())
	if text == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(baseContext(c), replyTimeout)
	defer cancel()
	_ = c.Notify(tele.Typing)

	exchange, err := b.conversation.Ask(ctx, b.ref(c), text)
	if err != nil {
		b.logger.Error("Telegram query failed", zap.Int64("telegramID", c.Sender().ID), zap.Error(err))
		return c.Send("Sorry, something went wrong. Please try again.")
	}
	return b.reply(ctx, c, exchange, wantsVoice(text))
}

func (b *Bot) handleVoice(c tele.Context) error {
	voice := c.Message().Voice
	if voice == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(baseContext(c), replyTimeout)
	defer cancel()
	_ = c.Notify(tele.RecordingAudio)

	path := b.conversation.TempAudioPath(".ogg")
	if err := b.bot.Download(&voice.File, path); err != nil {
		b.logger.Error("Failed to download voice note", zap.String("fileID", voice.FileID), zap.Error(err))
		return c.Send("Sorry, I couldn't fetch that voice note.")
	}

	asset := &entities.AudioAsset{
		Path:           path,
		DeclaredFormat: "ogg",
		SizeBytes:      int64(voice.FileSize),
		DurationMs:     int64(voice.Duration) * 1000,
	}
	exchange, fail, err := b.conversation.AskVoice(ctx, b.ref(c), asset)
	if fail != nil {
		return c.Send(fail.Message)
	}
	if err != nil {
		b.logger.Error("Telegram voice query failed", zap.Int64("telegramID", c.Sender().ID), zap.Error(err))
		return c.Send("Sorry, something went wrong. Please try again.")
	}

	if err := c.Send("🎙 " + exchange.Transcript); err != nil {
		return err
	}
	return b.reply(ctx, c, exchange, true)
}

func (b *Bot) reply(ctx context.Context, c tele.Context, exchange *usecase.Exchange, speak bool) error {
	pkg := exchange.Response
	if err := b.sender.sendMarkdown(c.Recipient(), pkg.Answer); err != nil {
		return err
	}
	if pkg.Advisory != "" {
		if err := c.Send(pkg.Advisory); err != nil {
			return err
		}
	}
	if !speak {
		return nil
	}

	_ = c.Notify(tele.RecordingAudio)
	speech := b.conversation.Speak(ctx, pkg.VoiceAnswer, pkg.Language)
	if speech.UseClientSide || len(speech.Audio) == 0 {
		b.logger.Debug("Skipping voice reply", zap.String("reason", speech.Message))
		return nil
	}
	if err := b.sender.sendSpeech(ctx, c.Recipient(), speech, b.conversation.TempAudioPath(".mp3")); err != nil {
		b.logger.Error("Failed to send voice reply", zap.Error(err))
	}
	return nil
}

func (b *Bot) ref(c tele.Context) usecase.SessionRef {
	return usecase.SessionRef{
		UserID:   userID(c),
		Channel:  channelName,
		Language: b.language(c.Sender().ID),
	}
}

func (b *Bot) setLanguage(id int64, lang string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.languages[id] = lang
}

func (b *Bot) language(id int64) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if lang, ok := b.languages[id]; ok {
		return lang
	}
	return b.defaultLang
}

func baseContext(c tele.Context) context.Context {
	if ctx, ok := c.Get(baseContextKey).(context.Context); ok {
		return ctx
	}
	return context.Background()
}

func userID(c tele.Context) string {
	return "tg-" + strconv.FormatInt(c.Sender().ID, 10)
}

// wantsVoice reports whether the user asked for a spoken reply
func wantsVoice(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "voice") || strings.Contains(lower, "speak")
}
