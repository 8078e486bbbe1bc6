package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/lborres/taskpulse/core"
)

// SyncTasks copies every task of source that target lacks by (title, status).
//
// Each copy is an independent insert: a failed insert is logged and reported
// in the joined error but does not undo the copies that succeeded. Running it
// again only retries what is still missing.
func (s *TaskService) SyncTasks(ctx context.Context, sourceKey, targetKey string) (int, error) {
	source, err := s.lookup(ctx, sourceKey)
	if err != nil {
		return 0, err
	}
	target, err := s.lookup(ctx, targetKey)
	if err != nil {
		return 0, err
	}
	n, err := s.syncUsers(ctx, source, target)
	s.notifyCopied(ctx, target.Key, n)
	return n, err
}

func (s *TaskService) syncUsers(ctx context.Context, source, target *core.User) (int, error) {
	from, err := s.tasksOf(ctx, source)
	if err != nil {
		return 0, err
	}
	to, err := s.tasksOf(ctx, target)
	if err != nil {
		return 0, err
	}

	copied := 0
	var errs []error
	for _, t := range core.PlanMerge(from, to) {
		t.UserID = target.ID
		if err := s.db.CreateTask(ctx, t); err != nil {
			s.logger.Warn("task copy failed", "source", source.Key, "target", target.Key, "title", t.Title, "error", err)
			errs = append(errs, fmt.Errorf("copy %q: %w", t.Title, err))
			continue
		}
		copied++
	}

	if len(errs) > 0 {
		return copied, fmt.Errorf("failed to sync tasks: %w", errors.Join(errs...))
	}
	return copied, nil
}

// EnsureUserSync reconciles the bot account of chatID with the web account of
// username and returns the web key the caller should use from now on.
//
// Tasks are merged in both directions only when both accounts already exist
// and are distinct. Merge failures are logged; the key is still returned.
func (s *TaskService) EnsureUserSync(ctx context.Context, chatID, username string) (string, error) {
	if chatID == "" {
		return "", core.ErrExternalIDMissing
	}
	if username == "" {
		return "", core.ErrUsernameRequired
	}

	chatKey := core.NormalizeAccountKey(chatID)
	webKey := core.WebAccountKey(username)

	chatUser, err := s.lookup(ctx, chatKey)
	if err != nil && !errors.Is(err, core.ErrUserNotFound) {
		return "", err
	}
	webUser, err := s.lookup(ctx, webKey)
	if err != nil && !errors.Is(err, core.ErrUserNotFound) {
		return "", err
	}

	if chatUser == nil || webUser == nil || chatUser.ID == webUser.ID {
		return webKey, nil
	}

	if n, err := s.syncUsers(ctx, chatUser, webUser); err != nil {
		s.logger.Error("sync chat -> web", "copied", n, "error", err)
	}
	n, err := s.syncUsers(ctx, webUser, chatUser)
	if err != nil {
		s.logger.Error("sync web -> chat", "copied", n, "error", err)
	}
	s.notifyCopied(ctx, chatKey, n)
	s.logger.Info("accounts reconciled", "chat", chatKey, "web", webKey)

	return webKey, nil
}

// notifyCopied is best effort; accounts without an active chat are skipped
func (s *TaskService) notifyCopied(ctx context.Context, key string, n int) {
	if s.notifier == nil || n == 0 {
		return
	}
	text := fmt.Sprintf("🔄 %d task(s) synced from your other account. /list_tasks to see them.", n)
	if err := s.notifier.Notify(ctx, key, text); err != nil && !errors.Is(err, core.ErrChatUnknown) {
		s.logger.Warn("sync notification failed", "key", key, "error", err)
	}
}
