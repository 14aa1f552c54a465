package models

type SeekerProfile struct {
	BaseModel
	UserID      string `gorm:"not null;uniqueIndex"`
	DisplayName string
	City        string
}

type ProviderProfile struct {
	BaseModel
	UserID     string `gorm:"not null;uniqueIndex"`
	Bio        string
	City       string
	IsVerified bool `gorm:"default:false"`
}
