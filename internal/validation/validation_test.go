package validation

import (
	"errors"
	"testing"

	"github.com/mmeshcher/inventory-console/internal/model"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		valid bool
	}{
		{name: "plain address", email: "supplier@x.com", valid: true},
		{name: "subdomain", email: "orders@mail.acme.co.ke", valid: true},
		{name: "display name", email: "Acme <orders@acme.com>", valid: false},
		{name: "missing at", email: "supplier.x.com", valid: false},
		{name: "empty string", email: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsValidEmail(tt.email)
			if got != tt.valid {
				t.Fatalf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.valid)
			}
		})
	}
}

func TestValidateLineItems(t *testing.T) {
	tests := []struct {
		name  string
		items []model.LineItem
		want  error
	}{
		{name: "valid", items: []model.LineItem{{ProductID: "P1", Quantity: 5}}, want: nil},
		{name: "empty", items: nil, want: ErrNoItems},
		{name: "zero quantity", items: []model.LineItem{{ProductID: "P1", Quantity: 0}}, want: ErrInvalidQuantity},
		{name: "missing product", items: []model.LineItem{{ProductID: " ", Quantity: 1}}, want: ErrMissingProduct},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLineItems(tt.items)
			if !errors.Is(err, tt.want) {
				t.Fatalf("ValidateLineItems() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		wantMsg string
	}{
		{
			name:  "valid signup",
			value: model.SignupRequest{Email: "a@example.com", Password: "secret1", Role: model.RoleSales},
		},
		{
			name:    "unknown role",
			value:   model.SignupRequest{Email: "a@example.com", Password: "secret1", Role: "owner"},
			wantMsg: `role: failed "role"`,
		},
		{
			name:    "short password",
			value:   model.SignupRequest{Email: "a@example.com", Password: "123", Role: model.RoleSales},
			wantMsg: `password: failed "min"`,
		},
		{
			name:    "blank product name",
			value:   model.Product{Name: "  "},
			wantMsg: `name: failed "notblank"`,
		},
		{
			name:    "negative stock",
			value:   model.Product{Name: "Laptop", Inventory: model.Inventory{QuantityOnHand: -1}},
			wantMsg: `inventory.quantity_on_hand: failed "gte"`,
		},
		{
			name:    "supplier contact email",
			value:   model.Supplier{CompanyName: "Acme", ContactInfo: model.ContactInfo{Email: "nope"}},
			wantMsg: `contact_info.email: failed "email"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.value)
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("Struct() = %v, want nil", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantMsg {
				t.Fatalf("Struct() = %v, want %q", err, tt.wantMsg)
			}
		})
	}
}

func TestStruct_PurchaseOrderItems(t *testing.T) {
	err := Struct(model.PurchaseOrder{Supplier: "S1", Items: []model.LineItem{{ProductID: "P1", Quantity: 0}}})
	if !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("Struct() = %v, want %v", err, ErrInvalidQuantity)
	}
	if got, want := err.Error(), `items[0].quantity: failed "gt": quantity must be positive`; got != want {
		t.Fatalf("Struct() = %q, want %q", got, want)
	}
}
