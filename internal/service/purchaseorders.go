package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/mmeshcher/inventory-console/internal/access"
	"github.com/mmeshcher/inventory-console/internal/model"
	"github.com/mmeshcher/inventory-console/internal/notify"
	"github.com/mmeshcher/inventory-console/internal/purchaseorder"
	"github.com/mmeshcher/inventory-console/internal/repository"
	"github.com/mmeshcher/inventory-console/internal/validation"
)

var (
	poCollection      = model.KindPurchaseOrder.Collection()
	productCollection = model.KindProduct.Collection()
)

func (s *Service) authorize(actor model.User, c access.Capability, op, id string) error {
	if !access.Allowed(actor.Role, c) {
		return fmt.Errorf("%s %s as %s: %w", op, id, actor.Role, purchaseorder.ErrForbidden)
	}
	return nil
}

// transition применяет переход статуса к заказу поставщику под блокировкой строки.
func (s *Service) transition(ctx context.Context, id string, apply func(model.PurchaseOrder) (model.PurchaseOrder, error)) (model.PurchaseOrder, error) {
	var res model.PurchaseOrder
	err := s.repo.InTx(ctx, func(tx repository.Tx) error {
		raw, err := tx.GetForUpdate(ctx, poCollection, id)
		if err != nil {
			return err
		}
		doc, err := decodeDocument(raw)
		if err != nil {
			return err
		}
		var po model.PurchaseOrder
		if err := convert(doc, &po); err != nil {
			return err
		}

		next, err := apply(po)
		if err != nil {
			return err
		}

		doc = mergeDocument(doc, toDocument(statusFields(next)))
		out, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("encode document: %w", err)
		}
		if err := tx.Put(ctx, poCollection, id, out); err != nil {
			return err
		}
		return json.Unmarshal(out, &res)
	})
	return res, err
}

type poStatusFields struct {
	Status          model.PurchaseOrderStatus `json:"status"`
	ReceivingStatus bool                      `json:"receiving_status"`
	ApprovedBy      string                    `json:"approved_by,omitempty"`
	ApprovedAt      any                       `json:"approved_at,omitempty"`
}

func statusFields(po model.PurchaseOrder) poStatusFields {
	f := poStatusFields{Status: po.Status, ReceivingStatus: po.ReceivingStatus, ApprovedBy: po.ApprovedBy}
	if po.ApprovedAt != nil {
		f.ApprovedAt = po.ApprovedAt
	}
	return f
}

// ApprovePurchaseOrder согласует заказ поставщику и отправляет письмо поставщику.
func (s *Service) ApprovePurchaseOrder(ctx context.Context, actor model.User, id string, req model.ApproveRequest) (model.PurchaseOrder, error) {
	if err := s.authorize(actor, access.ApprovePurchaseOrders, "approve", id); err != nil {
		return model.PurchaseOrder{}, err
	}
	if req.SupplierEmail != "" && !validation.IsValidEmail(req.SupplierEmail) {
		return model.PurchaseOrder{}, fmt.Errorf("%w: %q", purchaseorder.ErrInvalidEmail, req.SupplierEmail)
	}

	approver := actor.ID
	at := s.now()
	po, err := s.transition(ctx, id, func(po model.PurchaseOrder) (model.PurchaseOrder, error) {
		return purchaseorder.Approve(po, approver, at)
	})
	if err != nil {
		return model.PurchaseOrder{}, err
	}

	s.logger.Info("purchase order approved", zap.String("id", id), zap.String("by", approver))

	s.mailSupplier(ctx, po, req.SupplierEmail)
	s.notifyRoles(ctx, model.Notification{
		Title:   "Purchase order approved",
		Message: fmt.Sprintf("Purchase order %s is approved and awaits receiving", po.PONumber),
		Link:    "/purchaseorders/" + id,
	}, access.ReceivePurchaseOrders)

	return po, nil
}

// DeclinePurchaseOrder отклоняет заказ поставщику.
func (s *Service) DeclinePurchaseOrder(ctx context.Context, actor model.User, id string) (model.PurchaseOrder, error) {
	if err := s.authorize(actor, access.ApprovePurchaseOrders, "decline", id); err != nil {
		return model.PurchaseOrder{}, err
	}

	po, err := s.transition(ctx, id, purchaseorder.Decline)
	if err != nil {
		return model.PurchaseOrder{}, err
	}

	s.logger.Info("purchase order declined", zap.String("id", id), zap.String("by", actor.ID))
	return po, nil
}

// ReceivePurchaseOrder принимает заказ на склад одной транзакцией: остатки всех
// товаров и статус заказа меняются вместе или не меняются вовсе.
func (s *Service) ReceivePurchaseOrder(ctx context.Context, actor model.User, id string, items []model.LineItem) (model.ReceiveResult, error) {
	if err := s.authorize(actor, access.ReceivePurchaseOrders, "receive", id); err != nil {
		return model.ReceiveResult{}, err
	}

	var res model.ReceiveResult
	err := s.repo.InTx(ctx, func(tx repository.Tx) error {
		res = model.ReceiveResult{}

		raw, err := tx.GetForUpdate(ctx, poCollection, id)
		if err != nil {
			return err
		}
		poDoc, err := decodeDocument(raw)
		if err != nil {
			return err
		}
		var po model.PurchaseOrder
		if err := convert(poDoc, &po); err != nil {
			return err
		}

		received, err := purchaseorder.Receive(po)
		if err != nil {
			return err
		}

		lines, err := purchaseorder.ReceiptItems(po, items)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrValidation, err)
		}
		if err := validation.ValidateLineItems(lines); err != nil {
			return fmt.Errorf("%w: %w", ErrValidation, err)
		}

		for _, it := range lines {
			p, err := s.receiveItem(ctx, tx, it)
			if err != nil {
				return fmt.Errorf("receive item %s: %w", it.ProductID, err)
			}
			res.Products = append(res.Products, p)
		}

		poDoc = mergeDocument(poDoc, toDocument(statusFields(received)))
		out, err := json.Marshal(poDoc)
		if err != nil {
			return fmt.Errorf("encode document: %w", err)
		}
		if err := tx.Put(ctx, poCollection, id, out); err != nil {
			return err
		}
		return json.Unmarshal(out, &res.PurchaseOrder)
	})
	if err != nil {
		return model.ReceiveResult{}, err
	}

	s.logger.Info("purchase order received",
		zap.String("id", id), zap.String("by", actor.ID), zap.Int("items", len(res.Products)))

	s.notifyRoles(ctx, model.Notification{
		Title:   "Purchase order received",
		Message: fmt.Sprintf("Purchase order %s is received, stock updated for %d products", res.PurchaseOrder.PONumber, len(res.Products)),
		Link:    "/purchaseorders/" + id,
	}, access.ApprovePurchaseOrders)

	return res, nil
}

func (s *Service) receiveItem(ctx context.Context, tx repository.Tx, it model.LineItem) (model.Product, error) {
	raw, err := tx.GetForUpdate(ctx, productCollection, it.ProductID)
	if err != nil {
		return model.Product{}, err
	}
	doc, err := decodeDocument(raw)
	if err != nil {
		return model.Product{}, err
	}
	var p model.Product
	if err := convert(doc, &p); err != nil {
		return model.Product{}, err
	}

	qty := s.policy.Apply(p.Inventory.QuantityOnHand, it.Quantity)
	if qty < 0 {
		return model.Product{}, fmt.Errorf("%w: quantity_on_hand must not be negative", ErrValidation)
	}

	doc = mergeDocument(doc, document{"inventory": map[string]any{"quantity_on_hand": qty}})
	out, err := json.Marshal(doc)
	if err != nil {
		return model.Product{}, fmt.Errorf("encode document: %w", err)
	}
	if err := tx.Put(ctx, productCollection, it.ProductID, out); err != nil {
		return model.Product{}, err
	}

	p.Inventory.QuantityOnHand = qty
	return p, nil
}

// mailSupplier отправляет поставщику письмо о согласовании. Адрес берётся из
// запроса, а при его отсутствии из контактов поставщика. Ошибка отправки
// не отменяет согласование.
func (s *Service) mailSupplier(ctx context.Context, po model.PurchaseOrder, to string) {
	if to == "" && po.Supplier != "" {
		raw, err := s.repo.GetDocument(ctx, model.KindSupplier.Collection(), po.Supplier)
		if err == nil {
			var sp model.Supplier
			if json.Unmarshal(raw, &sp) == nil {
				to = sp.ContactInfo.Email
			}
		}
	}
	if to == "" {
		return
	}

	msg := notify.Message{
		To:      to,
		Subject: fmt.Sprintf("Purchase order %s approved", po.PONumber),
		Body:    supplierMailBody(po),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Warn("supplier mail failed", zap.String("po", po.ID), zap.Error(err))
	}
}

func supplierMailBody(po model.PurchaseOrder) string {
	body := fmt.Sprintf("Purchase order %s has been approved.\n\nItems:\n", po.PONumber)
	for _, it := range po.Items {
		body += fmt.Sprintf("  %s x %d\n", it.ProductID, it.Quantity)
	}
	if po.DeliveryDueDate != nil {
		body += fmt.Sprintf("\nDelivery due: %s\n", po.DeliveryDueDate.Format("2006-01-02"))
	}
	return body
}
