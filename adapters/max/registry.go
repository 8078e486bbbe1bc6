package max

import (
	"context"
	"time"

	"github.com/lborres/taskpulse"
	"github.com/lborres/taskpulse/pkg/cache"
)

// DefaultChatTTL is how long an account stays reachable after its last update
const DefaultChatTTL = 7 * 24 * time.Hour

type messageSender interface {
	SendMessage(ctx context.Context, chatID int64, msg NewMessage) error
}

// ChatRegistry remembers the last chat each account wrote from, so the
// service layer can reach chat users outside of a conversation.
type ChatRegistry struct {
	chats  *cache.Memory[string, int64]
	sender messageSender
}

var _ taskpulse.Notifier = (*ChatRegistry)(nil)

func NewChatRegistry(sender messageSender, cfg cache.Config) *ChatRegistry {
	if cfg.TTL == 0 {
		cfg.TTL = DefaultChatTTL
	}
	if cfg.MaxSize == 0 {
		cfg.MaxSize = 10_000
	}
	return &ChatRegistry{
		chats:  cache.NewMemory[string, int64](cfg),
		sender: sender,
	}
}

// Remember records chatID as the active chat of the account key
func (r *ChatRegistry) Remember(key string, chatID int64) {
	r.chats.Set(taskpulse.NormalizeAccountKey(key), chatID)
}

func (r *ChatRegistry) ChatID(key string) (int64, bool) {
	return r.chats.Get(taskpulse.NormalizeAccountKey(key))
}

// Notify sends text to the active chat of key
func (r *ChatRegistry) Notify(ctx context.Context, key, text string) error {
	chatID, ok := r.ChatID(key)
	if !ok {
		return taskpulse.ErrChatUnknown
	}
	return r.sender.SendMessage(ctx, chatID, NewMessage{Text: text, Format: "markdown"})
}

// Stats reports the registry cache counters; Size is the number of reachable accounts
func (r *ChatRegistry) Stats() cache.Stats {
	return r.chats.Stats()
}
