package purchaseorder

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/inventory-console/internal/access"
	"github.com/mmeshcher/inventory-console/internal/model"
)

func TestCanTransition(t *testing.T) {
	all := []model.PurchaseOrderStatus{model.StatusPending, model.StatusApproved, model.StatusReceived, model.StatusDeclined}
	allowed := map[[2]model.PurchaseOrderStatus]bool{
		{model.StatusPending, model.StatusApproved}:  true,
		{model.StatusPending, model.StatusDeclined}:  true,
		{model.StatusApproved, model.StatusReceived}: true,
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]model.PurchaseOrderStatus{from, to}]
			if got := CanTransition(from, to); got != want {
				t.Fatalf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestRequiredCapability(t *testing.T) {
	assert.Equal(t, access.ReceivePurchaseOrders, RequiredCapability(model.StatusReceived))
	assert.Equal(t, access.ApprovePurchaseOrders, RequiredCapability(model.StatusApproved))
	assert.Equal(t, access.ApprovePurchaseOrders, RequiredCapability(model.StatusDeclined))
}

func TestApproveRule(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	po := model.PurchaseOrder{ID: "PO-1", Status: model.StatusPending}

	got, err := Approve(po, "U1", at)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, got.Status)
	assert.Equal(t, "U1", got.ApprovedBy)
	assert.Equal(t, at, *got.ApprovedAt)
	assert.Equal(t, model.StatusPending, po.Status)

	_, err = Approve(po, "", at)
	require.ErrorIs(t, err, ErrInvalidTransition)

	_, err = Approve(got, "U1", at)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestReceiveRule(t *testing.T) {
	got, err := Receive(model.PurchaseOrder{Status: model.StatusApproved})
	require.NoError(t, err)
	assert.Equal(t, model.StatusReceived, got.Status)
	assert.True(t, got.ReceivingStatus)

	_, err = Receive(got)
	require.ErrorIs(t, err, ErrAlreadyReceived)

	_, err = Receive(model.PurchaseOrder{Status: model.StatusDeclined})
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestReceiptItems(t *testing.T) {
	po := model.PurchaseOrder{
		ID:    "PO-1",
		Items: []model.LineItem{{ProductID: "P1", Quantity: 5}, {ProductID: "P2", Quantity: 3}},
	}

	tests := []struct {
		name    string
		items   []model.LineItem
		want    []model.LineItem
		wantErr error
	}{
		{name: "empty means whole order", items: nil, want: po.Items},
		{
			name:  "short delivery",
			items: []model.LineItem{{ProductID: "P1", Quantity: 2}, {ProductID: "P2", Quantity: 3}},
			want:  []model.LineItem{{ProductID: "P1", Quantity: 2}, {ProductID: "P2", Quantity: 3}},
		},
		{
			name:    "product not on order",
			items:   []model.LineItem{{ProductID: "P3", Quantity: 1}, {ProductID: "P1", Quantity: 5}, {ProductID: "P2", Quantity: 3}},
			wantErr: ErrItemMismatch,
		},
		{
			name:    "more than ordered",
			items:   []model.LineItem{{ProductID: "P1", Quantity: 999}, {ProductID: "P2", Quantity: 3}},
			wantErr: ErrItemMismatch,
		},
		{
			name:    "duplicates over ordered",
			items:   []model.LineItem{{ProductID: "P1", Quantity: 3}, {ProductID: "P1", Quantity: 3}, {ProductID: "P2", Quantity: 3}},
			wantErr: ErrItemMismatch,
		},
		{
			name:    "ordered product skipped",
			items:   []model.LineItem{{ProductID: "P1", Quantity: 5}},
			wantErr: ErrItemMismatch,
		},
		{
			name:    "zero quantity",
			items:   []model.LineItem{{ProductID: "P1", Quantity: 0}, {ProductID: "P2", Quantity: 3}},
			wantErr: ErrItemMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReceiptItems(po, tt.items)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateChange(t *testing.T) {
	tests := []struct {
		name    string
		old     model.PurchaseOrder
		next    model.PurchaseOrder
		wantErr error
	}{
		{
			name: "no status change",
			old:  model.PurchaseOrder{Status: model.StatusPending},
			next: model.PurchaseOrder{Status: model.StatusPending},
		},
		{
			name: "approve",
			old:  model.PurchaseOrder{Status: model.StatusPending},
			next: model.PurchaseOrder{Status: model.StatusApproved},
		},
		{
			name: "receive with flag",
			old:  model.PurchaseOrder{Status: model.StatusApproved},
			next: model.PurchaseOrder{Status: model.StatusReceived, ReceivingStatus: true},
		},
		{
			name:    "receive without flag",
			old:     model.PurchaseOrder{Status: model.StatusApproved},
			next:    model.PurchaseOrder{Status: model.StatusReceived},
			wantErr: ErrInvalidTransition,
		},
		{
			name:    "skip approval",
			old:     model.PurchaseOrder{Status: model.StatusPending},
			next:    model.PurchaseOrder{Status: model.StatusReceived, ReceivingStatus: true},
			wantErr: ErrInvalidTransition,
		},
		{
			name:    "leave terminal",
			old:     model.PurchaseOrder{Status: model.StatusDeclined},
			next:    model.PurchaseOrder{Status: model.StatusPending},
			wantErr: ErrInvalidTransition,
		},
		{
			name:    "flag without receive",
			old:     model.PurchaseOrder{Status: model.StatusApproved},
			next:    model.PurchaseOrder{Status: model.StatusApproved, ReceivingStatus: true},
			wantErr: ErrInvalidTransition,
		},
		{
			name:    "flag with approve",
			old:     model.PurchaseOrder{Status: model.StatusPending},
			next:    model.PurchaseOrder{Status: model.StatusApproved, ReceivingStatus: true},
			wantErr: ErrInvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChange(tt.old, tt.next)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestStockPolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyReplace, p)
	assert.Equal(t, 5, p.Apply(100, 5))
	assert.False(t, p.NeedsCurrentStock())

	p, err = ParsePolicy("increment")
	require.NoError(t, err)
	assert.Equal(t, 105, p.Apply(100, 5))
	assert.True(t, p.NeedsCurrentStock())

	_, err = ParsePolicy("bogus")
	assert.Error(t, err)
}
