package models

type Category struct {
	BaseModel
	Name     string `gorm:"not null;uniqueIndex"`
	IsActive bool   `gorm:"default:true"`
}
