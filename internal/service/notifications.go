package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/mmeshcher/inventory-console/internal/access"
	"github.com/mmeshcher/inventory-console/internal/model"
)

// ListNotifications возвращает уведомления пользователя.
func (s *Service) ListNotifications(ctx context.Context, actor model.User) ([]model.Notification, error) {
	return s.repo.ListNotifications(ctx, actor.ID)
}

// MarkNotificationRead отмечает уведомление пользователя прочитанным.
func (s *Service) MarkNotificationRead(ctx context.Context, actor model.User, id string) (model.Notification, error) {
	return s.repo.MarkNotificationRead(ctx, actor.ID, id, s.now().UTC())
}

// DeleteNotification удаляет уведомление пользователя.
func (s *Service) DeleteNotification(ctx context.Context, actor model.User, id string) error {
	return s.repo.DeleteNotification(ctx, actor.ID, id)
}

// notifyRoles рассылает уведомление всем пользователям, чья роль имеет возможность c.
// Ошибки только журналируются.
func (s *Service) notifyRoles(ctx context.Context, n model.Notification, c access.Capability) {
	var roles []model.Role
	for _, role := range model.Roles {
		if access.Allowed(role, c) {
			roles = append(roles, role)
		}
	}

	if len(roles) == 0 {
		return
	}

	users, err := s.repo.ListUsers(ctx, roles...)
	if err != nil {
		s.logger.Warn("list notification recipients", zap.Error(err))
		return
	}

	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}

	if err := s.repo.CreateNotifications(ctx, ids, n); err != nil {
		s.logger.Warn("create notifications", zap.String("title", n.Title), zap.Error(err))
	}
}
