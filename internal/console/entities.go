package console

import (
	"context"

	"github.com/mmeshcher/inventory-console/internal/model"
)

// FetchProducts загружает товары и кладёт их в хранилище.
func (a *Actions) FetchProducts(ctx context.Context) ([]model.Product, error) {
	return fetchAll(ctx, a, a.api.Products)
}

// CreateProduct создаёт товар.
func (a *Actions) CreateProduct(ctx context.Context, data any) (model.Product, error) {
	return create(ctx, a, a.api.Products, data)
}

// UpdateProduct частично обновляет товар.
func (a *Actions) UpdateProduct(ctx context.Context, id string, patch any) (model.Product, error) {
	return update(ctx, a, a.api.Products, id, patch)
}

// DeleteProduct удаляет товар.
func (a *Actions) DeleteProduct(ctx context.Context, id string) error {
	return remove(ctx, a, a.api.Products, id)
}

// FetchSuppliers загружает поставщиков и кладёт их в хранилище.
func (a *Actions) FetchSuppliers(ctx context.Context) ([]model.Supplier, error) {
	return fetchAll(ctx, a, a.api.Suppliers)
}

// CreateSupplier создаёт поставщика.
func (a *Actions) CreateSupplier(ctx context.Context, data any) (model.Supplier, error) {
	return create(ctx, a, a.api.Suppliers, data)
}

// UpdateSupplier частично обновляет поставщика.
func (a *Actions) UpdateSupplier(ctx context.Context, id string, patch any) (model.Supplier, error) {
	return update(ctx, a, a.api.Suppliers, id, patch)
}

// DeleteSupplier удаляет поставщика.
func (a *Actions) DeleteSupplier(ctx context.Context, id string) error {
	return remove(ctx, a, a.api.Suppliers, id)
}

// FetchCustomers загружает покупателей и кладёт их в хранилище.
func (a *Actions) FetchCustomers(ctx context.Context) ([]model.Customer, error) {
	return fetchAll(ctx, a, a.api.Customers)
}

// CreateCustomer создаёт покупателя.
func (a *Actions) CreateCustomer(ctx context.Context, data any) (model.Customer, error) {
	return create(ctx, a, a.api.Customers, data)
}

// UpdateCustomer частично обновляет покупателя.
func (a *Actions) UpdateCustomer(ctx context.Context, id string, patch any) (model.Customer, error) {
	return update(ctx, a, a.api.Customers, id, patch)
}

// DeleteCustomer удаляет покупателя.
func (a *Actions) DeleteCustomer(ctx context.Context, id string) error {
	return remove(ctx, a, a.api.Customers, id)
}

// FetchOrders загружает заказы покупателей и кладёт их в хранилище.
func (a *Actions) FetchOrders(ctx context.Context) ([]model.Order, error) {
	return fetchAll(ctx, a, a.api.Orders)
}

// CreateOrder создаёт заказ покупателя.
func (a *Actions) CreateOrder(ctx context.Context, data any) (model.Order, error) {
	return create(ctx, a, a.api.Orders, data)
}

// UpdateOrder частично обновляет заказ покупателя.
func (a *Actions) UpdateOrder(ctx context.Context, id string, patch any) (model.Order, error) {
	return update(ctx, a, a.api.Orders, id, patch)
}

// DeleteOrder удаляет заказ покупателя.
func (a *Actions) DeleteOrder(ctx context.Context, id string) error {
	return remove(ctx, a, a.api.Orders, id)
}

// FetchPurchaseOrders загружает заказы поставщикам и кладёт их в хранилище.
func (a *Actions) FetchPurchaseOrders(ctx context.Context) ([]model.PurchaseOrder, error) {
	return fetchAll(ctx, a, a.api.PurchaseOrders)
}

// CreatePurchaseOrder создаёт заказ поставщику. Статус и номер назначает сервер.
func (a *Actions) CreatePurchaseOrder(ctx context.Context, data any) (model.PurchaseOrder, error) {
	return create(ctx, a, a.api.PurchaseOrders, data)
}

// UpdatePurchaseOrder редактирует заказ. Смена статуса выполняется через purchaseorder.Engine.
func (a *Actions) UpdatePurchaseOrder(ctx context.Context, id string, patch any) (model.PurchaseOrder, error) {
	return update(ctx, a, a.api.PurchaseOrders, id, patch)
}

// DeletePurchaseOrder удаляет заказ поставщику.
func (a *Actions) DeletePurchaseOrder(ctx context.Context, id string) error {
	return remove(ctx, a, a.api.PurchaseOrders, id)
}

// FetchUsers загружает пользователей и кладёт их в хранилище.
func (a *Actions) FetchUsers(ctx context.Context) ([]model.User, error) {
	return fetchAll(ctx, a, a.api.Users)
}

// CreateUser создаёт пользователя.
func (a *Actions) CreateUser(ctx context.Context, req model.SignupRequest) (model.User, error) {
	return create(ctx, a, a.api.Users, req)
}

// UpdateUser частично обновляет пользователя.
func (a *Actions) UpdateUser(ctx context.Context, id string, patch any) (model.User, error) {
	return update(ctx, a, a.api.Users, id, patch)
}

// DeleteUser удаляет пользователя.
func (a *Actions) DeleteUser(ctx context.Context, id string) error {
	return remove(ctx, a, a.api.Users, id)
}

// FetchNotifications загружает уведомления и кладёт их в хранилище.
func (a *Actions) FetchNotifications(ctx context.Context) ([]model.Notification, error) {
	return fetchAll(ctx, a, a.api.Notifications)
}

// DeleteNotification удаляет уведомление.
func (a *Actions) DeleteNotification(ctx context.Context, id string) error {
	return remove(ctx, a, a.api.Notifications, id)
}
