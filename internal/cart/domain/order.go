package domain

import (
	"time"

	"github.com/shopspring/decimal"
	catalogdomain "github.com/wyfcoding/fruitable/internal/catalog/domain"
)

type Customer struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	UserID    *uint  `gorm:"column:user_id;uniqueIndex" json:"user_id,omitempty"`
	FirstName string `gorm:"column:first_name;type:varchar(50)" json:"first_name,omitempty"`
	LastName  string `gorm:"column:last_name;type:varchar(50)" json:"last_name,omitempty"`
}

func (Customer) TableName() string { return "customers" }

// Order is the persisted container for cart lines. Active marks the open
// cart; completed purchases keep their rows with Active false.
type Order struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	CustomerID uint      `gorm:"column:customer_id;index;not null" json:"customer_id"`
	CreatedAt  time.Time `json:"created_at"`
	Active     bool      `gorm:"column:active;not null;default:true" json:"active"`
}

func (Order) TableName() string { return "orders" }

// OrderProduct is one cart line: a product and its quantity within an order.
type OrderProduct struct {
	ID        uint                  `gorm:"primarykey" json:"id"`
	OrderID   uint                  `gorm:"column:order_id;index;not null" json:"order_id"`
	ProductID uint                  `gorm:"column:product_id;index;not null" json:"product_id"`
	Product   catalogdomain.Product `gorm:"foreignKey:ProductID" json:"product"`
	Quantity  int                   `gorm:"column:quantity;not null" json:"quantity"`
	AddedAt   time.Time             `gorm:"column:added_at;autoCreateTime" json:"added_at"`
}

func (OrderProduct) TableName() string { return "order_products" }

// LineTotal is quantity times the product's base price. Sale percentages
// apply to the displayed price only, not to cart totals.
func (op *OrderProduct) LineTotal() decimal.Decimal {
	return op.Product.Price.Mul(decimal.NewFromInt(int64(op.Quantity)))
}

type ShippingAddress struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	OrderID    uint   `gorm:"column:order_id;index;not null" json:"order_id"`
	CustomerID uint   `gorm:"column:customer_id;index" json:"customer_id"`
	Address    string `gorm:"column:address;type:varchar(255);not null" json:"address"`
	Region     string `gorm:"column:region;type:varchar(150)" json:"region"`
	City       string `gorm:"column:city;type:varchar(255)" json:"city"`
	ZipCode    string `gorm:"column:zip_code;type:varchar(20)" json:"zip_code"`
	Mobile     string `gorm:"column:mobile;type:varchar(255)" json:"mobile"`
	Email      string `gorm:"column:email;type:varchar(255)" json:"email"`
}

func (ShippingAddress) TableName() string { return "shipping_addresses" }
