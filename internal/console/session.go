package console

import (
	"context"

	"go.uber.org/zap"

	"github.com/mmeshcher/inventory-console/internal/dashboard"
	"github.com/mmeshcher/inventory-console/internal/model"
	"github.com/mmeshcher/inventory-console/internal/store"
)

// Login открывает сессию и сохраняет текущего пользователя.
func (a *Actions) Login(ctx context.Context, email, password string) (model.User, error) {
	a.begin()
	u, err := a.api.Login(ctx, email, password)
	if err != nil {
		return model.User{}, a.fail(ctx, "login", err)
	}
	a.store.Dispatch(store.SetCurrentUser{User: u})
	a.logger.Info("logged in", zap.String("user", u.ID), zap.String("role", string(u.Role)))
	return u, nil
}

// Logout закрывает сессию. Локальное состояние сбрасывается даже при ошибке сервера.
func (a *Actions) Logout(ctx context.Context) error {
	err := a.api.Logout(ctx)
	a.store.Dispatch(store.Logout{})
	return err
}

// FetchCurrentUser загружает пользователя текущей сессии.
func (a *Actions) FetchCurrentUser(ctx context.Context) (model.User, error) {
	a.begin()
	u, err := a.api.Me(ctx)
	if err != nil {
		return model.User{}, a.fail(ctx, "fetch current user", err)
	}
	a.store.Dispatch(store.SetCurrentUser{User: u})
	return u, nil
}

// FetchDashboardStats загружает статистику склада, посчитанную сервером.
func (a *Actions) FetchDashboardStats(ctx context.Context) (dashboard.Stats, error) {
	a.begin()
	st, err := a.api.DashboardStats(ctx)
	if err != nil {
		return dashboard.Stats{}, a.fail(ctx, "fetch dashboard stats", err)
	}
	a.store.Dispatch(store.SetStats{Stats: st})
	return st, nil
}

// MarkNotificationRead отмечает уведомление прочитанным.
func (a *Actions) MarkNotificationRead(ctx context.Context, id string) (model.Notification, error) {
	a.begin()
	n, err := a.api.MarkNotificationRead(ctx, id)
	if err != nil {
		return model.Notification{}, a.fail(ctx, "mark notification "+id, err)
	}
	a.store.Dispatch(store.Update[model.Notification]{Item: n})
	return n, nil
}
