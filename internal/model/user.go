package model

import "time"

// Role определяет роль пользователя консоли.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleManager     Role = "manager"
	RoleSupplyChain Role = "supplyChain"
	RoleSales       Role = "sales"
	RoleAccounts    Role = "accounts"
)

// Roles перечисляет все известные роли.
var Roles = []Role{RoleAdmin, RoleManager, RoleSupplyChain, RoleSales, RoleAccounts}

// Valid сообщает, является ли роль известной.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// User представляет пользователя консоли. Учётные данные в модель не попадают.
type User struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u User) EntityID() string { return u.ID }

func (User) Kind() Kind { return KindUser }

// Notification описывает уведомление пользователя.
type Notification struct {
	ID        string     `json:"_id"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Link      string     `json:"link,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	ReadAt    *time.Time `json:"readAt"`
}

func (n Notification) EntityID() string { return n.ID }

func (Notification) Kind() Kind { return KindNotification }

// Read сообщает, прочитано ли уведомление.
func (n Notification) Read() bool { return n.ReadAt != nil }
