// Package model содержит доменные сущности консоли управления складом.
package model

// Kind обозначает вид сущности и используется в именах действий хранилища.
type Kind string

const (
	KindProduct       Kind = "PRODUCT"
	KindSupplier      Kind = "SUPPLIER"
	KindCustomer      Kind = "CUSTOMER"
	KindOrder         Kind = "ORDER"
	KindPurchaseOrder Kind = "PURCHASEORDER"
	KindUser          Kind = "USER"
	KindNotification  Kind = "NOTIFICATION"
)

// Collection возвращает имя REST-коллекции для вида сущности.
func (k Kind) Collection() string {
	switch k {
	case KindProduct:
		return "products"
	case KindSupplier:
		return "suppliers"
	case KindCustomer:
		return "customers"
	case KindOrder:
		return "orders"
	case KindPurchaseOrder:
		return "purchaseorders"
	case KindUser:
		return "users"
	case KindNotification:
		return "notifications"
	}
	return ""
}

// KindOf возвращает вид сущности по имени REST-коллекции.
func KindOf(collection string) (Kind, bool) {
	for _, k := range []Kind{KindProduct, KindSupplier, KindCustomer, KindOrder, KindPurchaseOrder, KindUser, KindNotification} {
		if k.Collection() == collection {
			return k, true
		}
	}
	return "", false
}

// Entity описывает запись, имеющую идентичность и вид.
type Entity interface {
	EntityID() string
	Kind() Kind
}

// LineItem описывает позицию заказа или заказа поставщику.
type LineItem struct {
	ProductID string `json:"productId" validate:"notblank"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
}

// ContactInfo содержит контактные данные контрагента.
type ContactInfo struct {
	Name     string `json:"name,omitempty"`
	Title    string `json:"title,omitempty"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    string `json:"phone,omitempty"`
	AltPhone string `json:"alt_phone,omitempty"`
	POBox    string `json:"po_box,omitempty"`
}
