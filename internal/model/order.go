package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Order описывает заказ покупателя. Жизненного цикла у заказа нет.
type Order struct {
	ID          string          `json:"_id"`
	OrderNumber string          `json:"order_number"`
	OrderDate   time.Time       `json:"order_date"`
	Customer    string          `json:"customer"`
	Items       []LineItem      `json:"items" validate:"required,min=1,dive"`
	OrderTotal  decimal.Decimal `json:"order_total"`
}

func (o Order) EntityID() string { return o.ID }

func (Order) Kind() Kind { return KindOrder }

// PurchaseOrderStatus описывает статус заказа поставщику.
type PurchaseOrderStatus string

const (
	StatusPending  PurchaseOrderStatus = "pending"
	StatusApproved PurchaseOrderStatus = "approved"
	StatusReceived PurchaseOrderStatus = "received"
	StatusDeclined PurchaseOrderStatus = "declined"
)

// ParseStatus приводит строковое значение статуса к каноническому.
// Значение "rejected" считается синонимом "declined".
func ParseStatus(s string) (PurchaseOrderStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pending":
		return StatusPending, nil
	case "approved":
		return StatusApproved, nil
	case "received":
		return StatusReceived, nil
	case "declined", "rejected":
		return StatusDeclined, nil
	}
	return "", fmt.Errorf("unknown purchase order status %q", s)
}

// Terminal сообщает, что из статуса нет переходов.
func (s PurchaseOrderStatus) Terminal() bool {
	return s == StatusReceived || s == StatusDeclined
}

// UnmarshalJSON нормализует статус при декодировании.
func (s *PurchaseOrderStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// PurchaseOrder описывает заказ поставщику.
type PurchaseOrder struct {
	ID              string              `json:"_id"`
	PONumber        string              `json:"po_number"`
	Supplier        string              `json:"supplier" validate:"notblank"`
	Items           []LineItem          `json:"items" validate:"required,min=1,dive"`
	DeliveryDueDate *time.Time          `json:"delivery_due_date,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	Status          PurchaseOrderStatus `json:"status"`
	ReceivingStatus bool                `json:"receiving_status"`
	ApprovedBy      string              `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time          `json:"approved_at,omitempty"`
	ShippingCost    decimal.Decimal     `json:"shipping_cost"`
}

func (p PurchaseOrder) EntityID() string { return p.ID }

func (PurchaseOrder) Kind() Kind { return KindPurchaseOrder }
