// Package console содержит асинхронный слой консоли: каждая операция
// выставляет признак загрузки, обращается к API и сохраняет результат
// или ошибку в хранилище состояния.
package console

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/inventory-console/internal/gateway"
	"github.com/mmeshcher/inventory-console/internal/model"
	"github.com/mmeshcher/inventory-console/internal/store"
)

// Actions связывает клиент API и хранилище состояния.
type Actions struct {
	api    *gateway.Client
	store  *store.Store
	logger *zap.Logger
}

// New создаёт слой действий консоли.
func New(api *gateway.Client, st *store.Store, logger *zap.Logger) *Actions {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Actions{api: api, store: st, logger: logger}
}

// Store возвращает хранилище, в которое пишут действия.
func (a *Actions) Store() *store.Store {
	return a.store
}

func (a *Actions) begin() {
	a.store.Dispatch(store.SetLoading{Loading: true})
}

// fail сохраняет ошибку в хранилище. Если запрос отменён вызывающим,
// состояние не меняется, снимается только признак загрузки.
func (a *Actions) fail(ctx context.Context, op string, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		a.store.Dispatch(store.SetLoading{Loading: false})
		return fmt.Errorf("%s: %w", op, err)
	}

	a.store.Dispatch(store.SetError{Message: err.Error(), Status: gateway.StatusOf(err)})
	if errors.Is(err, gateway.ErrUnauthorized) {
		a.logger.Info("session is no longer valid", zap.String("op", op))
	} else {
		a.logger.Warn("request failed", zap.String("op", op), zap.Error(err))
	}
	return fmt.Errorf("%s: %w", op, err)
}

func fetchAll[T model.Entity](ctx context.Context, a *Actions, r *gateway.Resource[T]) ([]T, error) {
	a.begin()
	items, err := r.List(ctx)
	if err != nil {
		var zero T
		return nil, a.fail(ctx, "fetch "+zero.Kind().Collection(), err)
	}
	a.store.Dispatch(store.SetAll[T]{Items: items})
	return items, nil
}

func create[T model.Entity](ctx context.Context, a *Actions, r *gateway.Resource[T], data any) (T, error) {
	a.begin()
	item, err := r.Create(ctx, data)
	if err != nil {
		var zero T
		return zero, a.fail(ctx, "create "+string(zero.Kind()), err)
	}
	a.store.Dispatch(store.Add[T]{Item: item})
	return item, nil
}

func update[T model.Entity](ctx context.Context, a *Actions, r *gateway.Resource[T], id string, patch any) (T, error) {
	a.begin()
	item, err := r.Update(ctx, id, patch)
	if err != nil {
		var zero T
		return zero, a.fail(ctx, "update "+string(zero.Kind())+" "+id, err)
	}
	a.store.Dispatch(store.Update[T]{Item: item})
	return item, nil
}

func remove[T model.Entity](ctx context.Context, a *Actions, r *gateway.Resource[T], id string) error {
	a.begin()
	if err := r.Delete(ctx, id); err != nil {
		var zero T
		return a.fail(ctx, "delete "+string(zero.Kind())+" "+id, err)
	}
	a.store.Dispatch(store.Delete[T]{ID: id})
	return nil
}

// FetchPurchaseOrderPage параллельно загружает поставщиков, товары и заказы поставщикам.
// Каждая коллекция сохраняется по мере получения. Возвращается первая ошибка.
func (a *Actions) FetchPurchaseOrderPage(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		_, err := fetchAll(gctx, a, a.api.Suppliers)
		return err
	})
	g.Go(func() error {
		_, err := fetchAll(gctx, a, a.api.Products)
		return err
	})
	g.Go(func() error {
		_, err := fetchAll(gctx, a, a.api.PurchaseOrders)
		return err
	})

	return g.Wait()
}
