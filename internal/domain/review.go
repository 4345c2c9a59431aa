package domain

import "time"

type Review struct {
	ID         ReviewID   `gorm:"type:uuid;primaryKey" db:"id" json:"id"`
	BookingID  BookingID  `gorm:"type:uuid;uniqueIndex:ux_reviews_booking" db:"booking_id" json:"bookingId"`
	ProviderID ProviderID `gorm:"type:uuid;index" db:"provider_id" json:"providerId"`
	CustomerID UserID     `gorm:"type:uuid;index" db:"customer_id" json:"customerId"`
	Rating     int        `gorm:"not null" db:"rating" json:"rating"`
	Comment    string     `gorm:"type:text" db:"comment" json:"comment,omitempty"`
	CreatedAt  time.Time  `gorm:"not null" db:"created_at" json:"createdAt"`
}

func (Review) TableName() string { return "reviews" }
