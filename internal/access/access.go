// Package access вычисляет набор возможностей пользователя по его роли.
//
// Таблица возможностей единственная: её используют навигация консоли,
// движок жизненного цикла заказов поставщику и middleware сервера.
package access

import "github.com/mmeshcher/inventory-console/internal/model"

// Capability обозначает отдельное разрешение.
type Capability int

const (
	SeeAnalytics Capability = iota
	SeeProducts
	SeeSuppliers
	SeePurchaseOrders
	SeeCustomers
	SeeOrders
	SeeUsers
	ApprovePurchaseOrders
	ReceivePurchaseOrders
)

var capabilityNames = map[Capability]string{
	SeeAnalytics:          "analytics",
	SeeProducts:           "products",
	SeeSuppliers:          "suppliers",
	SeePurchaseOrders:     "purchaseOrders",
	SeeCustomers:          "customers",
	SeeOrders:             "orders",
	SeeUsers:              "users",
	ApprovePurchaseOrders: "approvePurchaseOrders",
	ReceivePurchaseOrders: "receivePurchaseOrders",
}

func (c Capability) String() string {
	if name, ok := capabilityNames[c]; ok {
		return name
	}
	return "unknown"
}

// Capabilities содержит разрешения роли в виде флагов.
type Capabilities struct {
	CanSeeAnalytics          bool `json:"canSeeAnalytics"`
	CanSeeProducts           bool `json:"canSeeProducts"`
	CanSeeSuppliers          bool `json:"canSeeSuppliers"`
	CanSeePurchaseOrders     bool `json:"canSeePurchaseOrders"`
	CanSeeCustomers          bool `json:"canSeeCustomers"`
	CanSeeOrders             bool `json:"canSeeOrders"`
	CanSeeUsers              bool `json:"canSeeUsers"`
	CanApprovePurchaseOrders bool `json:"canApprovePurchaseOrders"`
	CanReceivePurchaseOrders bool `json:"canReceivePurchaseOrders"`
}

var table = map[model.Role]Capabilities{
	model.RoleAdmin: {
		CanSeeAnalytics:          true,
		CanSeeProducts:           true,
		CanSeeSuppliers:          true,
		CanSeePurchaseOrders:     true,
		CanSeeCustomers:          true,
		CanSeeOrders:             true,
		CanSeeUsers:              true,
		CanApprovePurchaseOrders: true,
		CanReceivePurchaseOrders: true,
	},
	model.RoleManager: {
		CanSeeAnalytics:          true,
		CanSeeProducts:           true,
		CanSeeSuppliers:          true,
		CanSeePurchaseOrders:     true,
		CanSeeCustomers:          true,
		CanSeeOrders:             true,
		CanSeeUsers:              true,
		CanApprovePurchaseOrders: true,
	},
	model.RoleSupplyChain: {
		CanSeeProducts:           true,
		CanSeeSuppliers:          true,
		CanSeePurchaseOrders:     true,
		CanReceivePurchaseOrders: true,
	},
	model.RoleSales: {
		CanSeeProducts:  true,
		CanSeeCustomers: true,
		CanSeeOrders:    true,
	},
	model.RoleAccounts: {
		CanSeeProducts: true,
	},
}

// Resolve возвращает возможности роли. Для неизвестной роли возвращается пустой набор.
func Resolve(role model.Role) Capabilities {
	return table[role]
}

// Has сообщает, содержит ли набор указанную возможность.
func (c Capabilities) Has(capability Capability) bool {
	switch capability {
	case SeeAnalytics:
		return c.CanSeeAnalytics
	case SeeProducts:
		return c.CanSeeProducts
	case SeeSuppliers:
		return c.CanSeeSuppliers
	case SeePurchaseOrders:
		return c.CanSeePurchaseOrders
	case SeeCustomers:
		return c.CanSeeCustomers
	case SeeOrders:
		return c.CanSeeOrders
	case SeeUsers:
		return c.CanSeeUsers
	case ApprovePurchaseOrders:
		return c.CanApprovePurchaseOrders
	case ReceivePurchaseOrders:
		return c.CanReceivePurchaseOrders
	}
	return false
}

// Allowed сообщает, разрешена ли возможность роли.
func Allowed(role model.Role, capability Capability) bool {
	return Resolve(role).Has(capability)
}

// CollectionCapability возвращает возможность, открывающую доступ к коллекции.
// Уведомления доступны любому аутентифицированному пользователю.
func CollectionCapability(kind model.Kind) (Capability, bool) {
	switch kind {
	case model.KindProduct:
		return SeeProducts, true
	case model.KindSupplier:
		return SeeSuppliers, true
	case model.KindCustomer:
		return SeeCustomers, true
	case model.KindOrder:
		return SeeOrders, true
	case model.KindPurchaseOrder:
		return SeePurchaseOrders, true
	case model.KindUser:
		return SeeUsers, true
	}
	return 0, false
}
