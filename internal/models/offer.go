package models

type Offer struct {
	BaseModel
	JobRequestID string      `gorm:"not null;index;uniqueIndex:idx_offers_job_provider"`
	ProviderID   string      `gorm:"not null;index;uniqueIndex:idx_offers_job_provider"`
	Budget       float64     `gorm:"not null"`
	Message      string
	Status       OfferStatus `gorm:"type:varchar(20);default:'pending';index"`

	// Relations
	JobRequest JobRequest `gorm:"foreignKey:JobRequestID"`
	Provider   User       `gorm:"foreignKey:ProviderID"`
}
