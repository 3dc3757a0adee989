package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"-"`
	Name        string          `gorm:"column:name;type:varchar(150);not null" json:"name"`
	Description string          `gorm:"column:description;type:text" json:"description"`
	CategoryID  uint            `gorm:"column:category_id;index;not null" json:"category_id"`
	Price       decimal.Decimal `gorm:"column:price;type:decimal(10,2);not null" json:"price"`
	SalePercent int             `gorm:"column:sale_percent;not null;default:0" json:"sale_percent"`
	Image       string          `gorm:"column:image;type:varchar(255)" json:"image"`
	Stock       int             `gorm:"column:stock;not null;default:0" json:"stock"`
	Slug        string          `gorm:"column:slug;type:varchar(160);index" json:"slug"`
}

func (Product) TableName() string { return "products" }

func (p *Product) OnSale() bool { return p.SalePercent > 0 }

// FullPrice is the price after applying the sale percentage, rounded to two
// decimals. A sale of zero leaves the base price untouched.
func (p *Product) FullPrice() decimal.Decimal {
	if p.SalePercent <= 0 {
		return p.Price
	}
	discount := p.Price.Mul(decimal.NewFromInt(int64(p.SalePercent))).Div(decimal.NewFromInt(100))
	return p.Price.Sub(discount).Round(2)
}
