package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mmeshcher/inventory-console/internal/model"
)

func TestResolveTable(t *testing.T) {
	tests := []struct {
		role model.Role
		want []Capability
	}{
		{
			role: model.RoleAdmin,
			want: []Capability{SeeAnalytics, SeeProducts, SeeSuppliers, SeePurchaseOrders, SeeCustomers, SeeOrders, SeeUsers, ApprovePurchaseOrders, ReceivePurchaseOrders},
		},
		{
			role: model.RoleManager,
			want: []Capability{SeeAnalytics, SeeProducts, SeeSuppliers, SeePurchaseOrders, SeeCustomers, SeeOrders, SeeUsers, ApprovePurchaseOrders},
		},
		{
			role: model.RoleSupplyChain,
			want: []Capability{SeeProducts, SeeSuppliers, SeePurchaseOrders, ReceivePurchaseOrders},
		},
		{
			role: model.RoleSales,
			want: []Capability{SeeProducts, SeeCustomers, SeeOrders},
		},
		{
			role: model.RoleAccounts,
			want: []Capability{SeeProducts},
		},
	}

	all := []Capability{SeeAnalytics, SeeProducts, SeeSuppliers, SeePurchaseOrders, SeeCustomers, SeeOrders, SeeUsers, ApprovePurchaseOrders, ReceivePurchaseOrders}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			granted := make(map[Capability]bool, len(tt.want))
			for _, c := range tt.want {
				granted[c] = true
			}
			for _, c := range all {
				assert.Equal(t, granted[c], Allowed(tt.role, c), "capability %s", c)
			}
		})
	}
}

func TestResolveIsTotalAndDeterministic(t *testing.T) {
	for _, role := range model.Roles {
		first := Resolve(role)
		second := Resolve(role)
		assert.Equal(t, first, second)
		assert.True(t, first.CanSeeProducts, "every known role sees products: %s", role)
	}

	assert.Equal(t, Capabilities{}, Resolve(model.Role("intern")))
}

func TestSectionsFollowCapabilities(t *testing.T) {
	got := Sections(model.RoleSupplyChain)

	titles := make([]string, 0, len(got))
	for _, s := range got {
		titles = append(titles, s.Title)
	}
	assert.Equal(t, []string{"Products", "Suppliers", "Purchase Orders"}, titles)

	assert.Len(t, Sections(model.RoleAdmin), 7)
	assert.Empty(t, Sections(model.Role("")))
}

func TestCollectionCapability(t *testing.T) {
	c, ok := CollectionCapability(model.KindPurchaseOrder)
	assert.True(t, ok)
	assert.Equal(t, SeePurchaseOrders, c)

	_, ok = CollectionCapability(model.KindNotification)
	assert.False(t, ok)
}
