package domain

type Region struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"column:name;type:varchar(150);not null" json:"name"`
}

func (Region) TableName() string { return "regions" }

type City struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	RegionID uint   `gorm:"column:region_id;index;not null" json:"region_id"`
	Name     string `gorm:"column:name;type:varchar(150);not null" json:"name"`
}

func (City) TableName() string { return "cities" }
