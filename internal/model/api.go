package model

// Credentials содержит email и пароль для входа.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=6"`
}

// SignupRequest описывает запрос регистрации пользователя.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role" validate:"role"`
}

// ApproveRequest описывает запрос согласования заказа поставщику.
type ApproveRequest struct {
	ApprovedBy    string `json:"approved_by"`
	SupplierEmail string `json:"supplier_email,omitempty"`
}

// ReceiveRequest описывает запрос приёмки заказа поставщику.
// Пустой список позиций означает приёмку всех позиций заказа.
type ReceiveRequest struct {
	Items []LineItem `json:"items,omitempty"`
}

// ReceiveResult содержит результат транзакционной приёмки.
type ReceiveResult struct {
	PurchaseOrder PurchaseOrder `json:"purchaseOrder"`
	Products      []Product     `json:"products"`
}

// UserPatch содержит изменяемые поля пользователя. Пустые указатели не меняют поле.
type UserPatch struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Role  *Role   `json:"role,omitempty"`
}
