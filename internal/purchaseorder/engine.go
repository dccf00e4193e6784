package purchaseorder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/inventory-console/internal/access"
	"github.com/mmeshcher/inventory-console/internal/gateway"
	"github.com/mmeshcher/inventory-console/internal/model"
	"github.com/mmeshcher/inventory-console/internal/store"
	"github.com/mmeshcher/inventory-console/internal/validation"
)

// Gateway описывает вызовы API, которые использует движок.
type Gateway interface {
	GetPurchaseOrder(ctx context.Context, id string) (model.PurchaseOrder, error)
	PatchPurchaseOrder(ctx context.Context, id string, patch map[string]any) (model.PurchaseOrder, error)
	GetProduct(ctx context.Context, id string) (model.Product, error)
	PatchProduct(ctx context.Context, id string, patch map[string]any) (model.Product, error)
	ApprovePurchaseOrder(ctx context.Context, id, approvedBy, supplierEmail string) (model.PurchaseOrder, error)
	DeclinePurchaseOrder(ctx context.Context, id string) (model.PurchaseOrder, error)
	ReceivePurchaseOrder(ctx context.Context, id string, items []model.LineItem) (model.ReceiveResult, error)
}

// Options задаёт режим работы движка.
type Options struct {
	// Policy задаёт политику начисления остатка при пошаговой приёмке.
	// В режиме Atomic остаток начисляет сервер по своей политике.
	Policy StockPolicy
	// Atomic включает приёмку одной транзакцией на сервере.
	// Без него приёмка выполняется пошагово с отчётом по каждой позиции.
	Atomic bool
}

// Engine выполняет операции жизненного цикла заказа поставщику от имени пользователя.
type Engine struct {
	gw     Gateway
	store  *store.Store
	logger *zap.Logger
	opts   Options

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewEngine создаёт движок жизненного цикла.
func NewEngine(gw Gateway, st *store.Store, logger *zap.Logger, opts Options) *Engine {
	if opts.Policy == "" {
		opts.Policy = PolicyReplace
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Atomic && opts.Policy != PolicyReplace {
		logger.Warn("stock policy is ignored in atomic receive, the server applies its own policy",
			zap.String("policy", string(opts.Policy)))
	}
	return &Engine{
		gw:       gw,
		store:    st,
		logger:   logger,
		opts:     opts,
		inFlight: make(map[string]struct{}),
	}
}

// ItemOutcome описывает результат приёмки одной позиции.
type ItemOutcome struct {
	ProductID      string
	Quantity       int
	QuantityOnHand int
	Err            error
}

// ReceiveReport описывает результат приёмки заказа.
type ReceiveReport struct {
	PurchaseOrderID string
	Atomic          bool
	Items           []ItemOutcome
	StatusErr       error
	PurchaseOrder   *model.PurchaseOrder
}

// Failed возвращает позиции, которые не удалось принять.
func (r *ReceiveReport) Failed() []ItemOutcome {
	var res []ItemOutcome
	for _, it := range r.Items {
		if it.Err != nil {
			res = append(res, it)
		}
	}
	return res
}

// OK сообщает, что все шаги приёмки выполнены.
func (r *ReceiveReport) OK() bool {
	return r.StatusErr == nil && len(r.Failed()) == 0
}

// PartialReceiveError возвращается, если часть шагов приёмки завершилась ошибкой.
// Выполненные шаги не откатываются.
type PartialReceiveError struct {
	Report *ReceiveReport
}

func (e *PartialReceiveError) Error() string {
	var b strings.Builder
	failed := e.Report.Failed()
	fmt.Fprintf(&b, "receive %s: %d of %d items failed", e.Report.PurchaseOrderID, len(failed), len(e.Report.Items))
	for _, it := range failed {
		fmt.Fprintf(&b, "; %s: %v", it.ProductID, it.Err)
	}
	if e.Report.StatusErr != nil {
		fmt.Fprintf(&b, "; status update: %v", e.Report.StatusErr)
	}
	return b.String()
}

// Unwrap возвращает ошибки всех неудачных шагов.
func (e *PartialReceiveError) Unwrap() []error {
	var errs []error
	for _, it := range e.Report.Failed() {
		errs = append(errs, it.Err)
	}
	if e.Report.StatusErr != nil {
		errs = append(errs, e.Report.StatusErr)
	}
	return errs
}

// Approve согласует заказ. Разрешено ролям admin и manager, заказ должен быть в pending.
func (e *Engine) Approve(ctx context.Context, actor model.User, id, supplierEmail string) (model.PurchaseOrder, error) {
	if !access.Allowed(actor.Role, access.ApprovePurchaseOrders) {
		return model.PurchaseOrder{}, fmt.Errorf("approve %s as %s: %w", id, actor.Role, ErrForbidden)
	}
	if supplierEmail != "" && !validation.IsValidEmail(supplierEmail) {
		return model.PurchaseOrder{}, fmt.Errorf("approve %s: %w: %q", id, ErrInvalidEmail, supplierEmail)
	}

	release, err := e.acquire(id)
	if err != nil {
		return model.PurchaseOrder{}, err
	}
	defer release()

	po, err := e.load(ctx, id)
	if err != nil {
		return model.PurchaseOrder{}, err
	}
	if _, err := Approve(po, actor.ID, time.Now()); err != nil {
		return po, err
	}

	e.store.Dispatch(store.SetLoading{Loading: true})
	updated, err := e.gw.ApprovePurchaseOrder(ctx, id, actor.ID, supplierEmail)
	if err != nil {
		e.fail(err)
		e.logger.Warn("approve purchase order rejected", zap.String("id", id), zap.Error(err))
		return po, fmt.Errorf("approve %s: %w", id, err)
	}

	e.store.Dispatch(store.Update[model.PurchaseOrder]{Item: updated})
	e.logger.Info("purchase order approved", zap.String("id", id), zap.String("approvedBy", actor.ID))
	return updated, nil
}

// Decline отклоняет заказ в статусе pending. Требует права согласования.
func (e *Engine) Decline(ctx context.Context, actor model.User, id string) (model.PurchaseOrder, error) {
	if !access.Allowed(actor.Role, access.ApprovePurchaseOrders) {
		return model.PurchaseOrder{}, fmt.Errorf("decline %s as %s: %w", id, actor.Role, ErrForbidden)
	}

	release, err := e.acquire(id)
	if err != nil {
		return model.PurchaseOrder{}, err
	}
	defer release()

	po, err := e.load(ctx, id)
	if err != nil {
		return model.PurchaseOrder{}, err
	}
	if _, err := Decline(po); err != nil {
		return po, err
	}

	e.store.Dispatch(store.SetLoading{Loading: true})
	updated, err := e.gw.DeclinePurchaseOrder(ctx, id)
	if err != nil {
		e.fail(err)
		return po, fmt.Errorf("decline %s: %w", id, err)
	}

	e.store.Dispatch(store.Update[model.PurchaseOrder]{Item: updated})
	e.logger.Info("purchase order declined", zap.String("id", id), zap.String("by", actor.ID))
	return updated, nil
}

// Receive принимает заказ на склад: обновляет остатки товаров по позициям
// и переводит заказ в received. Пустой items означает все позиции заказа.
// Разрешено ролям admin и supplyChain, заказ должен быть approved и ещё не принят.
func (e *Engine) Receive(ctx context.Context, actor model.User, id string, items []model.LineItem) (*ReceiveReport, error) {
	if !access.Allowed(actor.Role, access.ReceivePurchaseOrders) {
		return nil, fmt.Errorf("receive %s as %s: %w", id, actor.Role, ErrForbidden)
	}

	release, err := e.acquire(id)
	if err != nil {
		return nil, err
	}
	defer release()

	po, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := CheckReceivable(po); err != nil {
		return nil, err
	}
	items, err = ReceiptItems(po, items)
	if err != nil {
		return nil, fmt.Errorf("receive %s: %w", id, err)
	}

	e.store.Dispatch(store.SetLoading{Loading: true})

	if e.opts.Atomic {
		return e.receiveAtomic(ctx, id, items)
	}
	return e.receiveSteps(ctx, id, items)
}

func (e *Engine) receiveAtomic(ctx context.Context, id string, items []model.LineItem) (*ReceiveReport, error) {
	report := &ReceiveReport{PurchaseOrderID: id, Atomic: true}

	res, err := e.gw.ReceivePurchaseOrder(ctx, id, items)
	if err != nil {
		e.fail(err)
		return report, fmt.Errorf("receive %s: %w", id, err)
	}

	onHand := make(map[string]int, len(res.Products))
	for _, p := range res.Products {
		onHand[p.ID] = p.Inventory.QuantityOnHand
		e.store.Dispatch(store.Update[model.Product]{Item: p})
	}
	for _, it := range items {
		report.Items = append(report.Items, ItemOutcome{
			ProductID:      it.ProductID,
			Quantity:       it.Quantity,
			QuantityOnHand: onHand[it.ProductID],
		})
	}

	po := res.PurchaseOrder
	report.PurchaseOrder = &po
	e.store.Dispatch(store.Update[model.PurchaseOrder]{Item: po})
	e.logger.Info("purchase order received", zap.String("id", id), zap.Int("items", len(items)), zap.Bool("atomic", true))
	return report, nil
}

func (e *Engine) receiveSteps(ctx context.Context, id string, items []model.LineItem) (*ReceiveReport, error) {
	report := &ReceiveReport{PurchaseOrderID: id}

	for _, it := range items {
		outcome := ItemOutcome{ProductID: it.ProductID, Quantity: it.Quantity}

		product, err := e.receiveItem(ctx, it)
		if err != nil {
			outcome.Err = err
			e.logger.Warn("receive item failed",
				zap.String("id", id), zap.String("product", it.ProductID), zap.Error(err))
		} else {
			outcome.QuantityOnHand = product.Inventory.QuantityOnHand
			e.store.Dispatch(store.Update[model.Product]{Item: product})
		}

		report.Items = append(report.Items, outcome)
	}

	updated, err := e.gw.PatchPurchaseOrder(ctx, id, map[string]any{
		"status":           model.StatusReceived,
		"receiving_status": true,
	})
	if err != nil {
		report.StatusErr = err
	} else {
		report.PurchaseOrder = &updated
		e.store.Dispatch(store.Update[model.PurchaseOrder]{Item: updated})
	}

	if report.OK() {
		e.logger.Info("purchase order received", zap.String("id", id), zap.Int("items", len(items)), zap.Bool("atomic", false))
		return report, nil
	}

	partial := &PartialReceiveError{Report: report}
	e.store.Dispatch(store.SetError{Message: partial.Error(), Status: firstStatus(partial.Unwrap())})
	return report, partial
}

func (e *Engine) receiveItem(ctx context.Context, it model.LineItem) (model.Product, error) {
	if it.Quantity < 0 {
		return model.Product{}, fmt.Errorf("quantity %d: %w", it.Quantity, validation.ErrInvalidQuantity)
	}

	current := 0
	if e.opts.Policy.NeedsCurrentStock() {
		p, err := e.gw.GetProduct(ctx, it.ProductID)
		if err != nil {
			return model.Product{}, fmt.Errorf("get product: %w", err)
		}
		current = p.Inventory.QuantityOnHand
	}

	qty := e.opts.Policy.Apply(current, it.Quantity)

	p, err := e.gw.PatchProduct(ctx, it.ProductID, map[string]any{
		"inventory": map[string]any{"quantity_on_hand": qty},
	})
	if err != nil {
		return model.Product{}, fmt.Errorf("update product: %w", err)
	}
	return p, nil
}

// load возвращает заказ из хранилища, а при его отсутствии запрашивает сервер.
func (e *Engine) load(ctx context.Context, id string) (model.PurchaseOrder, error) {
	if po, ok := e.store.State().PurchaseOrders.Get(id); ok {
		return po, nil
	}

	po, err := e.gw.GetPurchaseOrder(ctx, id)
	if err != nil {
		e.fail(err)
		return model.PurchaseOrder{}, fmt.Errorf("load purchase order %s: %w", id, err)
	}
	return po, nil
}

func (e *Engine) acquire(id string) (func(), error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, busy := e.inFlight[id]; busy {
		return nil, fmt.Errorf("%w: %s", ErrInFlight, id)
	}
	e.inFlight[id] = struct{}{}

	return func() {
		e.mu.Lock()
		delete(e.inFlight, id)
		e.mu.Unlock()
	}, nil
}

func (e *Engine) fail(err error) {
	e.store.Dispatch(store.SetError{Message: err.Error(), Status: gateway.StatusOf(err)})
}

func firstStatus(errs []error) int {
	for _, err := range errs {
		if status := gateway.StatusOf(err); status != 0 {
			return status
		}
	}
	return 0
}

// IsRejected сообщает, что операция отклонена до обращения к серверу.
func IsRejected(err error) bool {
	return errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrAlreadyReceived) ||
		errors.Is(err, ErrInFlight) ||
		errors.Is(err, ErrInvalidEmail) ||
		errors.Is(err, ErrItemMismatch)
}
