package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mmeshcher/inventory-console/internal/access"
	"github.com/mmeshcher/inventory-console/internal/model"
	"github.com/mmeshcher/inventory-console/internal/purchaseorder"
	"github.com/mmeshcher/inventory-console/internal/repository"
	"github.com/mmeshcher/inventory-console/internal/validation"
)

// document хранит документ коллекции в разобранном виде.
type document map[string]any

func documentKind(kind model.Kind) error {
	switch kind {
	case model.KindProduct, model.KindSupplier, model.KindCustomer, model.KindOrder, model.KindPurchaseOrder:
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownCollection, kind)
}

func decodeDocument(raw []byte) (document, error) {
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: body must be a JSON object: %v", ErrValidation, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: body must be a JSON object", ErrValidation)
	}
	return doc, nil
}

// convert перекладывает документ в типизированную структуру.
func convert(doc document, out any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// toDocument перекладывает типизированную структуру в документ.
func toDocument(v any) document {
	raw, _ := json.Marshal(v)
	var doc document
	_ = json.Unmarshal(raw, &doc)
	return doc
}

// mergeDocument применяет частичное обновление: вложенные объекты сливаются
// рекурсивно, значение null удаляет поле. dst изменяется на месте.
func mergeDocument(dst, patch document) document {
	if dst == nil {
		dst = document{}
	}
	for k, v := range patch {
		if v == nil {
			delete(dst, k)
			continue
		}
		if pv, ok := v.(map[string]any); ok {
			if dv, ok := dst[k].(map[string]any); ok {
				dst[k] = map[string]any(mergeDocument(dv, pv))
				continue
			}
			dst[k] = map[string]any(mergeDocument(document{}, pv))
			continue
		}
		dst[k] = v
	}
	return dst
}

// ListDocuments возвращает документы коллекции.
func (s *Service) ListDocuments(ctx context.Context, kind model.Kind) ([]json.RawMessage, error) {
	if err := documentKind(kind); err != nil {
		return nil, err
	}
	return s.repo.ListDocuments(ctx, kind.Collection())
}

// GetDocument возвращает документ коллекции.
func (s *Service) GetDocument(ctx context.Context, kind model.Kind, id string) (json.RawMessage, error) {
	if err := documentKind(kind); err != nil {
		return nil, err
	}
	return s.repo.GetDocument(ctx, kind.Collection(), id)
}

// CreateDocument создаёт документ. Идентичность назначает сервер; для заказов
// поставщику и заказов покупателей сервер также заполняет номер, дату и статус.
func (s *Service) CreateDocument(ctx context.Context, actor model.User, kind model.Kind, body []byte) (json.RawMessage, error) {
	if err := documentKind(kind); err != nil {
		return nil, err
	}

	doc, err := decodeDocument(body)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	doc["_id"] = id

	if err := s.prepareNew(ctx, kind, doc); err != nil {
		return nil, err
	}
	if err := s.validate(kind, doc); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}

	if err := s.repo.InsertDocument(ctx, kind.Collection(), id, raw); err != nil {
		return nil, err
	}

	if kind == model.KindPurchaseOrder {
		s.notifyRoles(ctx, model.Notification{
			Title:   "New purchase order",
			Message: fmt.Sprintf("Purchase order %v awaits approval", doc["po_number"]),
			Link:    "/purchaseorders/" + id,
		}, access.ApprovePurchaseOrders)
	}

	s.logger.Info("document created",
		zap.String("collection", kind.Collection()), zap.String("id", id), zap.String("by", actor.ID))
	return raw, nil
}

func (s *Service) prepareNew(ctx context.Context, kind model.Kind, doc document) error {
	now := s.now().UTC()

	switch kind {
	case model.KindPurchaseOrder:
		doc["status"] = string(model.StatusPending)
		doc["receiving_status"] = false
		doc["created_at"] = now
		doc["po_number"] = "PO-" + now.Format("20060102") + "-" + shortID(doc["_id"])
		delete(doc, "approved_by")
		delete(doc, "approved_at")

	case model.KindOrder:
		if _, ok := doc["order_date"]; !ok {
			doc["order_date"] = now
		}
		doc["order_number"] = "ORD-" + now.Format("20060102") + "-" + shortID(doc["_id"])

		var o model.Order
		if err := convert(doc, &o); err != nil {
			return err
		}
		total, err := s.orderTotal(ctx, o.Items)
		if err != nil {
			return err
		}
		doc["order_total"] = total
	}
	return nil
}

func shortID(id any) string {
	s, _ := id.(string)
	s = strings.ReplaceAll(s, "-", "")
	if len(s) > 8 {
		s = s[:8]
	}
	return strings.ToUpper(s)
}

// orderTotal считает сумму заказа по ценам продажи товаров с учётом скидки.
func (s *Service) orderTotal(ctx context.Context, items []model.LineItem) (decimal.Decimal, error) {
	if err := validation.ValidateLineItems(items); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	total := decimal.Zero
	hundred := decimal.NewFromInt(100)
	for _, it := range items {
		raw, err := s.repo.GetDocument(ctx, model.KindProduct.Collection(), it.ProductID)
		if err != nil {
			return decimal.Zero, fmt.Errorf("order item %s: %w", it.ProductID, err)
		}
		var p model.Product
		if err := json.Unmarshal(raw, &p); err != nil {
			return decimal.Zero, fmt.Errorf("decode product %s: %w", it.ProductID, err)
		}

		price := p.Pricing.SellingPrice
		if p.Pricing.DiscountPercentage.IsPositive() {
			price = price.Mul(hundred.Sub(p.Pricing.DiscountPercentage)).Div(hundred)
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total.Round(2), nil
}

// validate проверяет инварианты документа после создания или изменения.
func (s *Service) validate(kind model.Kind, doc document) error {
	var target any
	switch kind {
	case model.KindProduct:
		target = &model.Product{}
	case model.KindSupplier:
		target = &model.Supplier{}
	case model.KindCustomer:
		target = &model.Customer{}
	case model.KindPurchaseOrder:
		target = &model.PurchaseOrder{}
	case model.KindOrder:
		target = &model.Order{}
	default:
		return nil
	}

	if err := convert(doc, target); err != nil {
		return err
	}
	if err := validation.Struct(target); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return nil
}

// PatchDocument частично обновляет документ под блокировкой строки. Для заказов
// поставщику смена статуса проверяется по таблице переходов и правам роли.
func (s *Service) PatchDocument(ctx context.Context, actor model.User, kind model.Kind, id string, body []byte) (json.RawMessage, error) {
	if err := documentKind(kind); err != nil {
		return nil, err
	}

	patch, err := decodeDocument(body)
	if err != nil {
		return nil, err
	}
	delete(patch, "_id")

	var res json.RawMessage
	err = s.repo.InTx(ctx, func(tx repository.Tx) error {
		raw, err := tx.GetForUpdate(ctx, kind.Collection(), id)
		if err != nil {
			return err
		}
		old, err := decodeDocument(raw)
		if err != nil {
			return err
		}

		next := mergeDocument(cloneDocument(old), patch)
		next["_id"] = id

		if err := s.checkChange(ctx, actor, kind, old, next, patch); err != nil {
			return err
		}
		if err := s.validate(kind, next); err != nil {
			return err
		}

		out, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("encode document: %w", err)
		}
		if err := tx.Put(ctx, kind.Collection(), id, out); err != nil {
			return err
		}
		res = out
		return nil
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}

func (s *Service) checkChange(ctx context.Context, actor model.User, kind model.Kind, old, next, patch document) error {
	switch kind {
	case model.KindPurchaseOrder:
		var before, after model.PurchaseOrder
		if err := convert(old, &before); err != nil {
			return err
		}
		if err := convert(next, &after); err != nil {
			return err
		}
		if err := purchaseorder.ValidateChange(before, after); err != nil {
			return err
		}
		if before.Status != after.Status {
			if !access.Allowed(actor.Role, purchaseorder.RequiredCapability(after.Status)) {
				return fmt.Errorf("%s to %s as %s: %w", before.Status, after.Status, actor.Role, purchaseorder.ErrForbidden)
			}
			next["status"] = string(after.Status)
			if after.Status == model.StatusApproved {
				next["approved_by"] = actor.ID
				next["approved_at"] = s.now().UTC()
			}
		}
		if before.PONumber != "" {
			next["po_number"] = before.PONumber
		}

	case model.KindOrder:
		if _, ok := patch["items"]; ok {
			var o model.Order
			if err := convert(next, &o); err != nil {
				return err
			}
			total, err := s.orderTotal(ctx, o.Items)
			if err != nil {
				return err
			}
			next["order_total"] = total
		}
		if n, ok := old["order_number"]; ok {
			next["order_number"] = n
		}
	}
	return nil
}

func cloneDocument(doc document) document {
	raw, _ := json.Marshal(doc)
	var out document
	_ = json.Unmarshal(raw, &out)
	return out
}

// DeleteDocument удаляет документ.
func (s *Service) DeleteDocument(ctx context.Context, kind model.Kind, id string) error {
	if err := documentKind(kind); err != nil {
		return err
	}
	return s.repo.DeleteDocument(ctx, kind.Collection(), id)
}
