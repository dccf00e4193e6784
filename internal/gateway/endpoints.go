package gateway

import (
	"context"
	"net/http"

	"github.com/mmeshcher/inventory-console/internal/dashboard"
	"github.com/mmeshcher/inventory-console/internal/model"
)

// Login открывает сессию. Cookie сессии сохраняется в клиенте.
func (c *Client) Login(ctx context.Context, email, password string) (model.User, error) {
	var u model.User
	err := c.do(ctx, http.MethodPost, "users/login", model.Credentials{Email: email, Password: password}, &u)
	return u, err
}

// Logout закрывает сессию.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "users/logout", nil, nil)
}

// Me возвращает пользователя текущей сессии.
func (c *Client) Me(ctx context.Context) (model.User, error) {
	var u model.User
	err := c.do(ctx, http.MethodGet, "users/me", nil, &u)
	return u, err
}

// DashboardStats возвращает статистику склада, посчитанную сервером.
func (c *Client) DashboardStats(ctx context.Context) (dashboard.Stats, error) {
	var s dashboard.Stats
	err := c.do(ctx, http.MethodGet, "products/dashboard/stats", nil, &s)
	return s, err
}

// GetPurchaseOrder возвращает заказ поставщику.
func (c *Client) GetPurchaseOrder(ctx context.Context, id string) (model.PurchaseOrder, error) {
	return c.PurchaseOrders.Get(ctx, id)
}

// PatchPurchaseOrder частично обновляет заказ поставщику.
func (c *Client) PatchPurchaseOrder(ctx context.Context, id string, patch map[string]any) (model.PurchaseOrder, error) {
	return c.PurchaseOrders.Update(ctx, id, patch)
}

// GetProduct возвращает товар.
func (c *Client) GetProduct(ctx context.Context, id string) (model.Product, error) {
	return c.Products.Get(ctx, id)
}

// PatchProduct частично обновляет товар.
func (c *Client) PatchProduct(ctx context.Context, id string, patch map[string]any) (model.Product, error) {
	return c.Products.Update(ctx, id, patch)
}

// ApprovePurchaseOrder согласует заказ поставщику. Письмо поставщику отправляет сервер.
func (c *Client) ApprovePurchaseOrder(ctx context.Context, id, approvedBy, supplierEmail string) (model.PurchaseOrder, error) {
	var po model.PurchaseOrder
	req := model.ApproveRequest{ApprovedBy: approvedBy, SupplierEmail: supplierEmail}
	err := c.do(ctx, http.MethodPost, c.PurchaseOrders.itemPath(id)+"/approve", req, &po)
	return po, err
}

// DeclinePurchaseOrder отклоняет заказ поставщику.
func (c *Client) DeclinePurchaseOrder(ctx context.Context, id string) (model.PurchaseOrder, error) {
	var po model.PurchaseOrder
	err := c.do(ctx, http.MethodPost, c.PurchaseOrders.itemPath(id)+"/decline", nil, &po)
	return po, err
}

// ReceivePurchaseOrder выполняет приёмку заказа одной транзакцией на сервере.
func (c *Client) ReceivePurchaseOrder(ctx context.Context, id string, items []model.LineItem) (model.ReceiveResult, error) {
	var res model.ReceiveResult
	err := c.do(ctx, http.MethodPost, c.PurchaseOrders.itemPath(id)+"/receive", model.ReceiveRequest{Items: items}, &res)
	return res, err
}

// MarkNotificationRead отмечает уведомление прочитанным.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) (model.Notification, error) {
	var n model.Notification
	err := c.do(ctx, http.MethodPatch, c.Notifications.itemPath(id)+"/read", nil, &n)
	return n, err
}
