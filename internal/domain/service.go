package domain

import "time"

const (
	ServiceTypeResidential = "residential"
	ServiceTypeCommercial  = "commercial"
	ServiceTypeBoth        = "both"

	PricingFixed  = "fixed"
	PricingHourly = "hourly"
	PricingQuote  = "quote"
)

type Service struct {
	ID          ServiceID  `gorm:"type:uuid;primaryKey" db:"id" json:"id"`
	ProviderID  ProviderID `gorm:"type:uuid;index" db:"provider_id" json:"providerId"`
	Title       string     `gorm:"type:text;not null" db:"title" json:"title"`
	Description string     `gorm:"type:text;not null" db:"description" json:"description"`
	Category    string     `gorm:"type:text;not null" db:"category" json:"category"`
	Type        string     `gorm:"type:text;not null;default:both" db:"type" json:"type"`
	PricingType string     `gorm:"type:text;not null;default:quote" db:"pricing_type" json:"pricingType"`
	Amount      float64    `db:"amount" json:"amount"`
	Currency    string     `gorm:"type:text;not null;default:USD" db:"currency" json:"currency"`
	IsActive    bool       `gorm:"not null;default:true" db:"is_active" json:"isActive"`
	CreatedAt   time.Time  `gorm:"not null" db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"not null" db:"updated_at" json:"updatedAt"`
}

func (Service) TableName() string { return "services" }
