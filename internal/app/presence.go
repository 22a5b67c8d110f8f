package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"undercover/internal/domain"
)

// PruneInactive removes players of waiting lobbies whose heartbeat is older
// than timeout. It returns how many players were removed.
func (m *Manager) PruneInactive(ctx context.Context, timeout time.Duration) (int, error) {
	codes, err := m.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrStorage, err)
	}

	total := 0
	for _, code := range codes {
		if ctx.Err() != nil {
			return total, ctx.Err()
		}

		var removed []string
		_, err := m.update(ctx, code, domain.EventPlayersPruned, func(l *domain.Lobby) error {
			removed = l.PruneInactive(m.now(), timeout)
			if len(removed) == 0 {
				return errUnchanged
			}
			return nil
		})
		if errors.Is(err, domain.ErrNotFound) {
			// Expired or deleted between List and Get.
			continue
		}
		if err != nil {
			m.logger.Warn("failed to prune lobby", "code", code, "error", err)
			continue
		}

		if len(removed) > 0 {
			m.logger.Info("pruned inactive players", "code", code, "players", removed)
			total += len(removed)
		}
	}

	return total, nil
}

// RunPresence prunes inactive players every interval until ctx is done
func (m *Manager) RunPresence(ctx context.Context, interval, timeout time.Duration) error {
	if interval <= 0 || timeout <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := m.PruneInactive(ctx, timeout); err != nil && ctx.Err() == nil {
				m.logger.Warn("presence sweep failed", "error", err)
			}
		}
	}
}
