package max

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/lborres/taskpulse"
	"github.com/lborres/taskpulse/core"
)

const (
	DefaultPollTimeout = 30 * time.Second
	DefaultRetryDelay  = 5 * time.Second
)

type Config struct {
	// PollTimeout is the long-poll wait passed to GET /updates
	PollTimeout time.Duration
	// RetryDelay is the pause after a failed poll
	RetryDelay time.Duration
	Logger     *slog.Logger
}

// Bot serves the task tracker over MAX chats
type Bot struct {
	client *Client
	tasks  taskpulse.TaskHandler
	chats  *ChatRegistry
	logger *slog.Logger

	pollTimeout time.Duration
	retryDelay  time.Duration
}

func New(client *Client, tasks taskpulse.TaskHandler, chats *ChatRegistry, cfg Config) *Bot {
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = DefaultPollTimeout
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Bot{
		client:      client,
		tasks:       tasks,
		chats:       chats,
		logger:      cfg.Logger,
		pollTimeout: cfg.PollTimeout,
		retryDelay:  cfg.RetryDelay,
	}
}

// reply is what a command or button produces
type reply struct {
	text     string
	keyboard Keyboard
}

func (r reply) message() NewMessage {
	return NewMessage{Text: r.text, Format: "markdown", Attachments: r.keyboard.attachments()}
}

// Run polls for updates until ctx is cancelled. Updates are handled one at a
// time, in order.
func (b *Bot) Run(ctx context.Context) error {
	var marker *int64
	b.logger.Info("max bot polling started", "timeout", b.pollTimeout)

	for {
		if ctx.Err() != nil {
			stats := b.chats.Stats()
			b.logger.Info("max bot polling stopped",
				"known_chats", stats.Size,
				"chat_evictions", stats.Evictions,
			)
			return nil
		}

		list, err := b.client.GetUpdates(ctx, marker, b.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			b.logger.Error("max poll failed", "error", err)
			select {
			case <-ctx.Done():
			case <-time.After(b.retryDelay):
			}
			continue
		}

		for _, u := range list.Updates {
			b.handleUpdate(ctx, u)
		}
		if list.Marker != nil {
			marker = list.Marker
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, u Update) {
	switch u.UpdateType {
	case UpdateBotStarted:
		if u.User == nil {
			return
		}
		key := core.ChatAccountKey(u.User.UserID)
		b.chats.Remember(key, u.ChatID)
		b.send(ctx, u.ChatID, b.welcome(ctx, key, u.User.Name))

	case UpdateMessageCreated:
		msg := u.Message
		if msg == nil || msg.Sender == nil {
			return
		}
		key := core.ChatAccountKey(msg.Sender.UserID)
		b.chats.Remember(key, msg.Recipient.ChatID)
		b.send(ctx, msg.Recipient.ChatID, b.handleText(ctx, key, msg.Sender.Name, msg.Body.Text))

	case UpdateMessageCallback:
		cb := u.Callback
		if cb == nil {
			return
		}
		key := core.ChatAccountKey(cb.User.UserID)
		if u.Message != nil {
			b.chats.Remember(key, u.Message.Recipient.ChatID)
		}
		b.answer(ctx, cb.CallbackID, b.handleCallback(ctx, key, cb.Payload))

	default:
		b.logger.Debug("max update ignored", "type", u.UpdateType)
	}
}

func (b *Bot) send(ctx context.Context, chatID int64, r reply) {
	if err := b.client.SendMessage(ctx, chatID, r.message()); err != nil {
		b.logger.Error("max send failed", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) answer(ctx context.Context, callbackID string, r reply) {
	msg := r.message()
	if err := b.client.AnswerCallback(ctx, callbackID, &msg, ""); err != nil {
		b.logger.Error("max answer failed", "callback_id", callbackID, "error", err)
	}
}

// fail logs err and turns it into a chat reply
func (b *Bot) fail(key, action string, err error, text string) reply {
	b.logger.Error("max "+action+" failed", "key", key, "error", err)
	return reply{text: "❌ " + text, keyboard: MainKeyboard()}
}

func notFound(err error) bool {
	return errors.Is(err, taskpulse.ErrTaskNotFound) ||
		errors.Is(err, taskpulse.ErrUserNotFound) ||
		errors.Is(err, taskpulse.ErrInvalidTaskID)
}
