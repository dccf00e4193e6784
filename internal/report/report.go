// Package report выгружает статистику панели аналитики в xlsx.
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/mmeshcher/inventory-console/internal/dashboard"
)

const (
	SheetSummary  = "Summary"
	SheetByBrand  = "By brand"
	SheetTopValue = "Top valued"
	SheetLowStock = "Low stock"
)

// WriteDashboard записывает статистику в книгу xlsx из четырёх листов.
func WriteDashboard(w io.Writer, stats dashboard.Stats) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), SheetSummary); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetByBrand, SheetTopValue, SheetLowStock} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	s := stats.Summary
	summary := [][]interface{}{
		{"metric", "value"},
		{"total_value", s.TotalValue.InexactFloat64()},
		{"total_units", s.TotalUnits},
		{"products", s.ProductCount},
		{"low_stock", s.LowStockCount},
		{"critical", s.CriticalCount},
	}
	if err := writeRows(f, SheetSummary, summary); err != nil {
		return err
	}

	brands := [][]interface{}{{"brand", "value", "units"}}
	for _, b := range stats.ByBrand {
		brands = append(brands, []interface{}{b.Brand, b.Value.InexactFloat64(), b.Units})
	}
	if err := writeRows(f, SheetByBrand, brands); err != nil {
		return err
	}

	top := [][]interface{}{{"id", "sku", "name", "brand", "quantity", "total_value"}}
	for _, it := range stats.TopValuedItems {
		top = append(top, []interface{}{it.ID, it.SKU, it.Name, it.Brand, it.Quantity, it.TotalValue.InexactFloat64()})
	}
	if err := writeRows(f, SheetTopValue, top); err != nil {
		return err
	}

	low := [][]interface{}{{"id", "sku", "name", "quantity", "reorder_level", "reorder_qty", "critical"}}
	for _, it := range stats.LowStockItems {
		low = append(low, []interface{}{it.ID, it.SKU, it.Name, it.Quantity, it.ReorderLevel, it.ReorderQty, it.Critical})
	}
	if err := writeRows(f, SheetLowStock, low); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
