package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mmeshcher/inventory-console/internal/model"
)

// Resource выполняет операции над одной REST-коллекцией.
type Resource[T model.Entity] struct {
	c    *Client
	path string
}

func newResource[T model.Entity](c *Client) *Resource[T] {
	var zero T
	return &Resource[T]{c: c, path: zero.Kind().Collection()}
}

func (r *Resource[T]) itemPath(id string) string {
	return r.path + "/" + url.PathEscape(id)
}

// List возвращает все записи коллекции.
func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	var res []T
	if err := r.c.do(ctx, http.MethodGet, r.path, nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// Get возвращает запись по идентичности.
func (r *Resource[T]) Get(ctx context.Context, id string) (T, error) {
	var res T
	err := r.c.do(ctx, http.MethodGet, r.itemPath(id), nil, &res)
	return res, err
}

// Create создаёт запись и возвращает её в виде, сохранённом сервером.
func (r *Resource[T]) Create(ctx context.Context, data any) (T, error) {
	var res T
	err := r.c.do(ctx, http.MethodPost, r.path, data, &res)
	return res, err
}

// Update частично обновляет запись (PATCH).
func (r *Resource[T]) Update(ctx context.Context, id string, patch any) (T, error) {
	var res T
	err := r.c.do(ctx, http.MethodPatch, r.itemPath(id), patch, &res)
	return res, err
}

// Delete удаляет запись.
func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	return r.c.do(ctx, http.MethodDelete, r.itemPath(id), nil, nil)
}
