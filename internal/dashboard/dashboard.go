// Package dashboard строит сводную статистику склада по списку товаров.
package dashboard

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmeshcher/inventory-console/internal/model"
)

const (
	// DefaultCriticalLevel задаёт остаток, при котором товар считается критическим.
	DefaultCriticalLevel = 5
	// DefaultTopN задаёт размер рейтинга самых дорогих позиций.
	DefaultTopN = 5

	unknownBrand = "Unknown"
)

// Options задаёт параметры агрегации. Неположительные значения заменяются
// значениями по умолчанию.
type Options struct {
	CriticalLevel int
	TopN          int
}

// DefaultOptions возвращает параметры агрегации по умолчанию.
func DefaultOptions() Options {
	return Options{CriticalLevel: DefaultCriticalLevel, TopN: DefaultTopN}
}

// Summary содержит итоговые показатели склада.
type Summary struct {
	TotalValue    decimal.Decimal `json:"totalValue"`
	TotalUnits    int             `json:"totalUnits"`
	LowStockCount int             `json:"lowStockCount"`
	CriticalCount int             `json:"criticalCount"`
	ProductCount  int             `json:"productCount"`
}

// BrandValue описывает долю бренда в стоимости склада.
type BrandValue struct {
	Brand string          `json:"_id"`
	Value decimal.Decimal `json:"value"`
	Units int             `json:"units"`
}

// ItemValue описывает позицию рейтинга по стоимости.
type ItemValue struct {
	ID         string          `json:"_id"`
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	Brand      string          `json:"brand"`
	Quantity   int             `json:"quantity"`
	TotalValue decimal.Decimal `json:"totalValue"`
}

// LowStockItem описывает товар с остатком не выше уровня дозаказа.
type LowStockItem struct {
	ID           string `json:"_id"`
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	Quantity     int    `json:"quantity"`
	ReorderLevel int    `json:"reorderLevel"`
	ReorderQty   int    `json:"reorderQty"`
	Critical     bool   `json:"critical"`
}

// Stats содержит проекцию списка товаров для панели аналитики.
type Stats struct {
	Summary        Summary        `json:"summary"`
	ByBrand        []BrandValue   `json:"byBrand"`
	TopValuedItems []ItemValue    `json:"topValuedItems"`
	LowStockItems  []LowStockItem `json:"lowStockItems"`
}

// Aggregate вычисляет статистику по снимку товаров. Входной срез не изменяется.
func Aggregate(products []model.Product, opts Options) Stats {
	if opts.CriticalLevel <= 0 {
		opts.CriticalLevel = DefaultCriticalLevel
	}
	if opts.TopN <= 0 {
		opts.TopN = DefaultTopN
	}

	stats := Stats{
		Summary:        Summary{TotalValue: decimal.Zero, ProductCount: len(products)},
		ByBrand:        []BrandValue{},
		TopValuedItems: []ItemValue{},
		LowStockItems:  []LowStockItem{},
	}

	brands := make(map[string]int)
	items := make([]ItemValue, 0, len(products))

	for _, p := range products {
		onHand := p.Inventory.QuantityOnHand
		value := p.StockValue()

		stats.Summary.TotalValue = stats.Summary.TotalValue.Add(value)
		stats.Summary.TotalUnits += onHand

		critical := onHand <= opts.CriticalLevel
		if critical {
			stats.Summary.CriticalCount++
		}
		if onHand <= p.Inventory.ReorderLevel {
			stats.Summary.LowStockCount++
			stats.LowStockItems = append(stats.LowStockItems, LowStockItem{
				ID:           p.ID,
				SKU:          p.SKU,
				Name:         p.Name,
				Quantity:     onHand,
				ReorderLevel: p.Inventory.ReorderLevel,
				ReorderQty:   p.Inventory.ReorderQuantity,
				Critical:     critical,
			})
		}

		brand := p.Brand
		if brand == "" {
			brand = unknownBrand
		}
		idx, ok := brands[brand]
		if !ok {
			idx = len(stats.ByBrand)
			brands[brand] = idx
			stats.ByBrand = append(stats.ByBrand, BrandValue{Brand: brand, Value: decimal.Zero})
		}
		stats.ByBrand[idx].Value = stats.ByBrand[idx].Value.Add(value)
		stats.ByBrand[idx].Units += onHand

		items = append(items, ItemValue{
			ID:         p.ID,
			SKU:        p.SKU,
			Name:       p.Name,
			Brand:      p.Brand,
			Quantity:   onHand,
			TotalValue: value,
		})
	}

	sort.SliceStable(stats.ByBrand, func(i, j int) bool {
		return stats.ByBrand[i].Value.GreaterThan(stats.ByBrand[j].Value)
	})

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].TotalValue.GreaterThan(items[j].TotalValue)
	})
	if len(items) > opts.TopN {
		items = items[:opts.TopN]
	}
	stats.TopValuedItems = items

	sort.SliceStable(stats.LowStockItems, func(i, j int) bool {
		return stats.LowStockItems[i].Quantity < stats.LowStockItems[j].Quantity
	})

	return stats
}
