package domain

// Rating is one user's score for one product. At most one row exists per
// (user, product) pair; re-rating replaces the previous row.
type Rating struct {
	ID        uint `gorm:"primarykey" json:"id"`
	UserID    uint `gorm:"column:user_id;index:idx_ratings_user_product;not null" json:"user_id"`
	ProductID uint `gorm:"column:product_id;index:idx_ratings_user_product;index;not null" json:"product_id"`
	Value     int  `gorm:"column:value;not null" json:"value"`
}

func (Rating) TableName() string { return "ratings" }

// AverageRating is the arithmetic mean of the given ratings. An empty set is
// defined as zero, never an error.
func AverageRating(ratings []Rating) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r.Value
	}
	return float64(sum) / float64(len(ratings))
}
