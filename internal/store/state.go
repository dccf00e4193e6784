// Package store реализует единое хранилище состояния консоли.
//
// Состояние изменяется только через закрытый набор действий, а функция Reduce
// не выполняет ввода-вывода. Асинхронные операции живут в пакете console.
package store

import (
	"net/http"

	"github.com/mmeshcher/inventory-console/internal/dashboard"
	"github.com/mmeshcher/inventory-console/internal/model"
)

// Failure описывает последнюю ошибку, показанную пользователю.
type Failure struct {
	Message string
	Status  int
}

// Unauthorized сообщает, что сессия недействительна и нужен повторный вход.
func (f *Failure) Unauthorized() bool {
	return f != nil && f.Status == http.StatusUnauthorized
}

// State описывает снимок состояния консоли.
type State struct {
	Products       Collection[model.Product]
	Suppliers      Collection[model.Supplier]
	Customers      Collection[model.Customer]
	Orders         Collection[model.Order]
	PurchaseOrders Collection[model.PurchaseOrder]
	Users          Collection[model.User]
	Notifications  Collection[model.Notification]

	Stats       *dashboard.Stats
	CurrentUser *model.User

	Loading bool
	Err     *Failure
}

// UnreadNotifications возвращает количество непрочитанных уведомлений.
func UnreadNotifications(s State) int {
	n := 0
	for _, item := range s.Notifications.items {
		if !item.Read() {
			n++
		}
	}
	return n
}

func slot[T model.Entity](s *State) *Collection[T] {
	var target any
	var zero T
	switch any(zero).(type) {
	case model.Product:
		target = &s.Products
	case model.Supplier:
		target = &s.Suppliers
	case model.Customer:
		target = &s.Customers
	case model.Order:
		target = &s.Orders
	case model.PurchaseOrder:
		target = &s.PurchaseOrders
	case model.User:
		target = &s.Users
	case model.Notification:
		target = &s.Notifications
	}
	c, _ := target.(*Collection[T])
	return c
}
