package handlers

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	maxSendRetries = 3
	retrySleepBase = time.Second
)

// MessageSender provides centralized message sending functionality
type MessageSender struct {
	bot        Sender
	logger     *zap.Logger
	retryDelay time.Duration
}

// NewMessageSender creates a new MessageSender
func NewMessageSender(bot Sender, logger *zap.Logger) *MessageSender {
	return &MessageSender{
		bot:        bot,
		logger:     logger,
		retryDelay: retrySleepBase,
	}
}

// Send sends a message to the specified chat
func (s *MessageSender) Send(chatID int64, text string, markup interface{}) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}

	sent, err := s.bot.Send(msg)
	if err != nil {
		s.logger.Error("failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
		return tgbotapi.Message{}, err
	}

	return sent, nil
}

// SendCritical retries a message that must reach the user, like confirmations
func (s *MessageSender) SendCritical(ctx context.Context, chatID int64, text string, markup interface{}) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}

	sent, err := retry.DoWithData(
		func() (tgbotapi.Message, error) {
			return s.bot.Send(msg)
		},
		retry.Context(ctx),
		retry.Attempts(maxSendRetries),
		retry.Delay(s.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			s.logger.Warn("failed to send message, retrying",
				zap.Error(err),
				zap.Uint("attempt", n+1),
				zap.Int("max_retries", maxSendRetries),
				zap.Int64("chat_id", chatID),
			)
		}),
	)
	if err != nil {
		s.logger.Error("failed to send message after all retries",
			zap.Error(err),
			zap.Int("max_retries", maxSendRetries),
			zap.Int64("chat_id", chatID),
		)
		return tgbotapi.Message{}, err
	}

	return sent, nil
}

// Edit replaces text and keyboard of a message sent earlier
func (s *MessageSender) Edit(chatID int64, messageID int, text string, markup *tgbotapi.InlineKeyboardMarkup) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ReplyMarkup = markup

	if _, err := s.bot.Request(edit); err != nil && !isNotModified(err) {
		s.logger.Warn("failed to edit message",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
			zap.Int("message_id", messageID),
		)
		return err
	}
	return nil
}

// ClearKeyboard removes the inline keyboard from a message
func (s *MessageSender) ClearKeyboard(chatID int64, messageID int) {
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{},
	})
	if _, err := s.bot.Request(edit); err != nil && !isNotModified(err) {
		s.logger.Debug("failed to clear keyboard",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
			zap.Int("message_id", messageID),
		)
	}
}

// SetKeyboard attaches a keyboard to a message already in the chat
func (s *MessageSender) SetKeyboard(chatID int64, messageID int, markup tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, markup)
	if _, err := s.bot.Request(edit); err != nil && !isNotModified(err) {
		s.logger.Warn("failed to set keyboard",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
			zap.Int("message_id", messageID),
		)
	}
}

// SendPhoto uploads an inline data URI or points Telegram at a remote URL
func (s *MessageSender) SendPhoto(chatID int64, imageURL, caption string) error {
	file, err := photoFile(imageURL)
	if err != nil {
		return err
	}

	photo := tgbotapi.NewPhoto(chatID, file)
	photo.Caption = caption
	if _, err := s.bot.Send(photo); err != nil {
		return fmt.Errorf("send photo: %w", err)
	}
	return nil
}

// SendDocument sends a file attachment
func (s *MessageSender) SendDocument(chatID int64, filename string, data []byte) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  filename,
		Bytes: data,
	})
	if _, err := s.bot.Send(doc); err != nil {
		return fmt.Errorf("send document: %w", err)
	}
	return nil
}

// Typing shows the "typing" chat action once
func (s *MessageSender) Typing(chatID int64) {
	action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	if _, err := s.bot.Request(action); err != nil {
		s.logger.Warn("failed to send typing action",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}

func photoFile(imageURL string) (tgbotapi.RequestFileData, error) {
	if !strings.HasPrefix(imageURL, "data:") {
		return tgbotapi.FileURL(imageURL), nil
	}

	meta, payload, ok := strings.Cut(strings.TrimPrefix(imageURL, "data:"), ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("unsupported data uri")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode data uri: %w", err)
	}

	name := "rimedio.png"
	if strings.HasPrefix(meta, "image/jpeg") {
		name = "rimedio.jpg"
	}
	return tgbotapi.FileBytes{Name: name, Bytes: data}, nil
}

func isNotModified(err error) bool {
	return strings.Contains(err.Error(), "message is not modified")
}
