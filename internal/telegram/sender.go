package telegram

import (
	"context"
	"errors"
	"os"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"github.com/satriahrh/audexa/domain/entities"
)

const maxTelegramMsgLen = 4000

type sender struct {
	bot    *tele.Bot
	logger *zap.Logger
}

func newSender(bot *tele.Bot, logger *zap.Logger) *sender {
	return &sender{bot: bot, logger: logger}
}

// sendMarkdown converts Markdown to Telegram HTML and sends it in chunks if needed
func (s *sender) sendMarkdown(to tele.Recipient, md string) error {
	html := MarkdownToTelegramHTML([]byte(md))
	if html == "" {
		return nil
	}

	for i, chunk := range splitHTML(html, maxTelegramMsgLen) {
		if _, err := s.bot.Send(to, chunk, tele.ModeHTML); err != nil {
			s.logger.Error("Failed to send telegram chunk",
				zap.Int("chunk", i),
				zap.Int("len", len(chunk)),
				zap.Error(err))
			return err
		}
	}
	return nil
}

// sendSpeech uploads synthesized audio from a temp file and removes it afterwards.
// Ogg audio goes out as a voice note, anything else as an audio track.
func (s *sender) sendSpeech(_ context.Context, to tele.Recipient, speech entities.SpeechResult, path string) error {
	if err := os.WriteFile(path, speech.Audio, 0o600); err != nil {
		return err
	}
	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("Failed to remove voice reply", zap.String("path", path), zap.Error(err))
		}
	}()

	file := tele.FromDisk(path)
	var what interface{}
	if speech.MimeType == "audio/ogg" {
		what = &tele.Voice{File: file, MIME: speech.MimeType}
	} else {
		what = &tele.Audio{File: file, MIME: speech.MimeType, FileName: "reply.mp3"}
	}
	_, err := s.bot.Send(to, what)
	return err
}
