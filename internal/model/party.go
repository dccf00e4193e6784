package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Financial содержит кредитные условия контрагента.
type Financial struct {
	CreditLimit        decimal.Decimal `json:"credit_limit"`
	CreditUsed         decimal.Decimal `json:"credit_used"`
	CreditAvailable    decimal.Decimal `json:"credit_available"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
}

// Supplier представляет поставщика.
type Supplier struct {
	ID          string      `json:"_id"`
	CompanyName string      `json:"company_name" validate:"notblank"`
	TradingName string      `json:"trading_name,omitempty"`
	ContactInfo ContactInfo `json:"contact_info"`
	Financial   Financial   `json:"financial"`
}

func (s Supplier) EntityID() string { return s.ID }

func (Supplier) Kind() Kind { return KindSupplier }

// PersonalInfo содержит персональные данные покупателя.
type PersonalInfo struct {
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	IDNumber    string     `json:"id_number,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Gender      string     `json:"gender,omitempty"`
}

// Address описывает почтовый адрес.
type Address struct {
	Street     string `json:"street,omitempty"`
	Building   string `json:"building,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

// Customer представляет покупателя.
type Customer struct {
	ID           string       `json:"_id"`
	PersonalInfo PersonalInfo `json:"personal_info"`
	ContactInfo  ContactInfo  `json:"contact_info"`
	Address      Address      `json:"address"`
	Financial    Financial    `json:"financial"`
}

func (c Customer) EntityID() string { return c.ID }

func (Customer) Kind() Kind { return KindCustomer }
