package service

import (
	"testing"

	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestStatusForBoundaries(t *testing.T) {
	cases := []struct {
		name      string
		balance   int
		threshold int
		want      string
	}{
		{"well above threshold", 100, 5, model.StockStatusInStock},
		{"one above threshold", 6, 5, model.StockStatusInStock},
		{"exactly at threshold", 5, 5, model.StockStatusLowStock},
		{"below threshold", 3, 5, model.StockStatusLowStock},
		{"zero", 0, 5, model.StockStatusOutOfStock},
		{"negative balance", -1, 5, model.StockStatusOutOfStock},
		{"unset threshold falls back to default", model.DefaultMinThreshold, 0, model.StockStatusLowStock},
		{"unset threshold in stock", model.DefaultMinThreshold + 1, 0, model.StockStatusInStock},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, statusFor(tc.balance, tc.threshold))
		})
	}
}
