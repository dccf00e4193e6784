package access

import "github.com/mmeshcher/inventory-console/internal/model"

// Section описывает раздел навигации консоли.
type Section struct {
	Title      string
	Path       string
	Capability Capability
}

var sections = []Section{
	{Title: "Analytics", Path: "/", Capability: SeeAnalytics},
	{Title: "Products", Path: "/products", Capability: SeeProducts},
	{Title: "Suppliers", Path: "/suppliers", Capability: SeeSuppliers},
	{Title: "Purchase Orders", Path: "/purchase-orders", Capability: SeePurchaseOrders},
	{Title: "Customers", Path: "/customers", Capability: SeeCustomers},
	{Title: "Orders", Path: "/orders", Capability: SeeOrders},
	{Title: "Users", Path: "/users", Capability: SeeUsers},
}

// Sections возвращает разделы навигации, доступные роли, в порядке отображения.
func Sections(role model.Role) []Section {
	caps := Resolve(role)
	res := make([]Section, 0, len(sections))
	for _, s := range sections {
		if caps.Has(s.Capability) {
			res = append(res, s)
		}
	}
	return res
}
