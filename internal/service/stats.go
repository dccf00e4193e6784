package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mmeshcher/inventory-console/internal/dashboard"
	"github.com/mmeshcher/inventory-console/internal/model"
)

// DashboardStats считает статистику склада по текущим товарам.
func (s *Service) DashboardStats(ctx context.Context) (dashboard.Stats, error) {
	raws, err := s.repo.ListDocuments(ctx, productCollection)
	if err != nil {
		return dashboard.Stats{}, err
	}

	products := make([]model.Product, 0, len(raws))
	for _, raw := range raws {
		var p model.Product
		if err := json.Unmarshal(raw, &p); err != nil {
			return dashboard.Stats{}, fmt.Errorf("decode product: %w", err)
		}
		products = append(products, p)
	}

	return dashboard.Aggregate(products, dashboard.DefaultOptions()), nil
}
