package model

import "github.com/shopspring/decimal"

// Pricing содержит ценовые параметры товара.
type Pricing struct {
	CostPrice          decimal.Decimal `json:"cost_price"`
	SellingPrice       decimal.Decimal `json:"selling_price"`
	VAT                decimal.Decimal `json:"vat"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
}

// Inventory содержит складские остатки товара.
type Inventory struct {
	QuantityOnHand   int    `json:"quantity_on_hand" validate:"gte=0"`
	QuantityReserved int    `json:"quantity_reserved"`
	ReorderLevel     int    `json:"reorder_level"`
	ReorderQuantity  int    `json:"reorder_quantity"`
	UnitOfMeasure    string `json:"unit_of_measure,omitempty"`
}

// Dimensions описывает габариты товара.
type Dimensions struct {
	Length float64 `json:"length,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Unit   string  `json:"unit,omitempty"`
}

// Product представляет товар каталога.
type Product struct {
	ID               string            `json:"_id"`
	Name             string            `json:"name" validate:"notblank"`
	Description      string            `json:"description,omitempty"`
	SKU              string            `json:"sku,omitempty"`
	Brand            string            `json:"brand,omitempty"`
	Model            string            `json:"model,omitempty"`
	Color            string            `json:"color,omitempty"`
	Weight           float64           `json:"weight,omitempty"`
	Pricing          Pricing           `json:"pricing"`
	Inventory        Inventory         `json:"inventory"`
	Dimensions       Dimensions        `json:"dimensions"`
	CustomAttributes map[string]string `json:"custom_attributes,omitempty"`
}

func (p Product) EntityID() string { return p.ID }

func (Product) Kind() Kind { return KindProduct }

// StockValue возвращает стоимость остатка товара по закупочной цене.
func (p Product) StockValue() decimal.Decimal {
	return p.Pricing.CostPrice.Mul(decimal.NewFromInt(int64(p.Inventory.QuantityOnHand)))
}
