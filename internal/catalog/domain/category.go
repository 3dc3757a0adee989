package domain

type Category struct {
	ID       uint       `gorm:"primarykey" json:"id"`
	Name     string     `gorm:"column:name;type:varchar(50);uniqueIndex;not null" json:"name"`
	Image    string     `gorm:"column:image;type:varchar(255)" json:"image,omitempty"`
	Slug     string     `gorm:"column:slug;type:varchar(60);index" json:"slug"`
	ParentID *uint      `gorm:"column:parent_id;index" json:"parent_id,omitempty"`
	Children []Category `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"children,omitempty"`
}

func (Category) TableName() string { return "categories" }

func (c *Category) IsRoot() bool { return c.ParentID == nil }
