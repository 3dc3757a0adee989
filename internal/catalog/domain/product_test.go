package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFullPriceWithoutSale(t *testing.T) {
	p := Product{Price: decimal.RequireFromString("10.00")}

	assert.True(t, p.FullPrice().Equal(p.Price))
	assert.False(t, p.OnSale())
}

func TestFullPriceAppliesSalePercent(t *testing.T) {
	cases := []struct {
		name string
		base string
		sale int
		want string
	}{
		{"twenty percent", "10.00", 20, "8.00"},
		{"rounds to two decimals", "9.99", 33, "6.69"},
		{"full discount", "10.00", 100, "0.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Product{Price: decimal.RequireFromString(tc.base), SalePercent: tc.sale}

			assert.True(t, p.OnSale())
			assert.Equal(t, tc.want, p.FullPrice().StringFixed(2))
		})
	}
}
