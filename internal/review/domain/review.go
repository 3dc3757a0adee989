package domain

import "time"

// Review is free-text feedback on a product. Rows are immutable once created;
// the rating value carried here is display-only and independent of the Rating
// aggregate.
type Review struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Text      string    `gorm:"column:text;type:text;not null" json:"text"`
	AuthorID  *uint     `gorm:"column:author_id;index" json:"author_id,omitempty"`
	Name      string    `gorm:"column:name;type:varchar(150)" json:"name,omitempty"`
	Email     string    `gorm:"column:email;type:varchar(255)" json:"email,omitempty"`
	ProductID uint      `gorm:"column:product_id;index;not null" json:"product_id"`
	Rating    int       `gorm:"column:rating;not null;default:0" json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

func (Review) TableName() string { return "reviews" }
