package purchaseorder

import "fmt"

// StockPolicy определяет, как принятое количество влияет на остаток товара.
type StockPolicy string

const (
	// PolicyReplace: принятое количество становится новым остатком.
	PolicyReplace StockPolicy = "replace"
	// PolicyIncrement: принятое количество добавляется к остатку.
	PolicyIncrement StockPolicy = "increment"
)

// ParsePolicy разбирает политику. Пустая строка означает PolicyReplace.
func ParsePolicy(s string) (StockPolicy, error) {
	switch StockPolicy(s) {
	case "", PolicyReplace:
		return PolicyReplace, nil
	case PolicyIncrement:
		return PolicyIncrement, nil
	}
	return "", fmt.Errorf("unknown stock policy %q", s)
}

// Apply возвращает новый остаток товара после приёмки.
func (p StockPolicy) Apply(onHand, received int) int {
	if p == PolicyIncrement {
		return onHand + received
	}
	return received
}

// NeedsCurrentStock сообщает, нужен ли текущий остаток для расчёта.
func (p StockPolicy) NeedsCurrentStock() bool {
	return p == PolicyIncrement
}
