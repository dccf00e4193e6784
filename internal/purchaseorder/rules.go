// Package purchaseorder реализует жизненный цикл заказа поставщику:
// правила переходов статусов и движок операций согласования, отклонения и приёмки.
package purchaseorder

import (
	"errors"
	"fmt"
	"time"

	"github.com/mmeshcher/inventory-console/internal/access"
	"github.com/mmeshcher/inventory-console/internal/model"
)

var (
	// ErrInvalidTransition возвращается при недопустимом переходе статуса.
	ErrInvalidTransition = errors.New("invalid purchase order transition")
	// ErrAlreadyReceived возвращается при повторной приёмке.
	ErrAlreadyReceived = errors.New("purchase order already received")
	// ErrForbidden возвращается, если роль не допускает операцию.
	ErrForbidden = errors.New("operation not permitted for role")
	// ErrInFlight возвращается, если по заказу уже выполняется операция.
	ErrInFlight = errors.New("operation already in progress for purchase order")
	// ErrInvalidEmail возвращается для некорректного адреса поставщика.
	ErrInvalidEmail = errors.New("invalid supplier email")
	// ErrItemMismatch возвращается, если позиции приёмки не совпадают с заказом.
	ErrItemMismatch = errors.New("receipt items do not match purchase order")
)

// Конечные статусы не имеют переходов.
var transitions = map[model.PurchaseOrderStatus][]model.PurchaseOrderStatus{
	model.StatusPending:  {model.StatusApproved, model.StatusDeclined},
	model.StatusApproved: {model.StatusReceived},
}

// CanTransition сообщает, допустим ли переход статуса.
func CanTransition(from, to model.PurchaseOrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// RequiredCapability возвращает возможность, необходимую для перехода в статус.
func RequiredCapability(to model.PurchaseOrderStatus) access.Capability {
	if to == model.StatusReceived {
		return access.ReceivePurchaseOrders
	}
	return access.ApprovePurchaseOrders
}

// Approve согласует заказ. Исходное значение не изменяется.
func Approve(po model.PurchaseOrder, approver string, at time.Time) (model.PurchaseOrder, error) {
	if !CanTransition(po.Status, model.StatusApproved) {
		return po, fmt.Errorf("%w: approve from %s", ErrInvalidTransition, po.Status)
	}
	if approver == "" {
		return po, fmt.Errorf("%w: approver is required", ErrInvalidTransition)
	}

	approvedAt := at.UTC()
	po.Status = model.StatusApproved
	po.ApprovedBy = approver
	po.ApprovedAt = &approvedAt
	return po, nil
}

// Decline отклоняет заказ. Статус declined конечный.
func Decline(po model.PurchaseOrder) (model.PurchaseOrder, error) {
	if !CanTransition(po.Status, model.StatusDeclined) {
		return po, fmt.Errorf("%w: decline from %s", ErrInvalidTransition, po.Status)
	}
	po.Status = model.StatusDeclined
	return po, nil
}

// CheckReceivable проверяет предусловия приёмки.
func CheckReceivable(po model.PurchaseOrder) error {
	if po.ReceivingStatus || po.Status == model.StatusReceived {
		return ErrAlreadyReceived
	}
	if po.Status != model.StatusApproved {
		return fmt.Errorf("%w: receive from %s", ErrInvalidTransition, po.Status)
	}
	return nil
}

// Receive переводит заказ в статус received и выставляет receiving_status.
func Receive(po model.PurchaseOrder) (model.PurchaseOrder, error) {
	if err := CheckReceivable(po); err != nil {
		return po, err
	}
	po.Status = model.StatusReceived
	po.ReceivingStatus = true
	return po, nil
}

// ReceiptItems возвращает позиции для приёмки заказа. Пустой список означает
// приёмку всех позиций заказа. Иначе каждый заказанный товар должен
// присутствовать, посторонние товары не допускаются, а принятое количество
// по товару положительно и не превышает заказанного.
func ReceiptItems(po model.PurchaseOrder, items []model.LineItem) ([]model.LineItem, error) {
	if len(items) == 0 {
		return po.Items, nil
	}

	ordered := make(map[string]int, len(po.Items))
	for _, it := range po.Items {
		ordered[it.ProductID] += it.Quantity
	}

	received := make(map[string]int, len(items))
	for _, it := range items {
		want, ok := ordered[it.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: product %q is not on %s", ErrItemMismatch, it.ProductID, po.ID)
		}
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: product %q quantity %d", ErrItemMismatch, it.ProductID, it.Quantity)
		}
		received[it.ProductID] += it.Quantity
		if received[it.ProductID] > want {
			return nil, fmt.Errorf("%w: product %q received %d, ordered %d",
				ErrItemMismatch, it.ProductID, received[it.ProductID], want)
		}
	}

	for _, it := range po.Items {
		if _, ok := received[it.ProductID]; !ok {
			return nil, fmt.Errorf("%w: product %q is missing from receipt", ErrItemMismatch, it.ProductID)
		}
	}
	return items, nil
}

// ValidateChange проверяет изменение заказа, пришедшее прямым редактированием.
// Статус может меняться только по таблице переходов, а receiving_status
// выставляется только вместе с переходом в received.
func ValidateChange(old, next model.PurchaseOrder) error {
	if old.Status == next.Status {
		if old.ReceivingStatus != next.ReceivingStatus {
			return fmt.Errorf("%w: receiving_status changes only on receive", ErrInvalidTransition)
		}
		return nil
	}

	if !CanTransition(old.Status, next.Status) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, old.Status, next.Status)
	}

	if next.Status == model.StatusReceived {
		if old.ReceivingStatus {
			return ErrAlreadyReceived
		}
		if !next.ReceivingStatus {
			return fmt.Errorf("%w: received requires receiving_status", ErrInvalidTransition)
		}
		return nil
	}

	if next.ReceivingStatus {
		return fmt.Errorf("%w: receiving_status without receive", ErrInvalidTransition)
	}
	return nil
}
