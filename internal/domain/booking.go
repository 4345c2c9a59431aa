package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	BookingPending    = "pending"
	BookingAccepted   = "accepted"
	BookingInProgress = "in_progress"
	BookingCompleted  = "completed"
	BookingCancelled  = "cancelled"
	BookingRejected   = "rejected"
)

// bookingTransitions encodes the allowed status machine. Cancellation is
// reachable from every non-terminal state.
var bookingTransitions = map[string][]string{
	BookingPending:    {BookingAccepted, BookingRejected, BookingCancelled},
	BookingAccepted:   {BookingInProgress, BookingCancelled},
	BookingInProgress: {BookingCompleted, BookingCancelled},
}

func ValidBookingTransition(from, to string) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Booking struct {
	ID            BookingID      `gorm:"type:uuid;primaryKey" db:"id" json:"id"`
	CustomerID    UserID         `gorm:"type:uuid;index" db:"customer_id" json:"customerId"`
	ProviderID    ProviderID     `gorm:"type:uuid;index" db:"provider_id" json:"providerId"`
	ServiceID     ServiceID      `gorm:"type:uuid;index" db:"service_id" json:"serviceId"`
	Status        string         `gorm:"type:text;not null;default:pending" db:"status" json:"status"`
	Street        string         `gorm:"type:text;not null" db:"street" json:"street"`
	City          string         `gorm:"type:text;not null" db:"city" json:"city"`
	State         string         `gorm:"type:text" db:"state" json:"state,omitempty"`
	ZipCode       string         `gorm:"type:text" db:"zip_code" json:"zipCode,omitempty"`
	ScheduledDate time.Time      `gorm:"not null" db:"scheduled_date" json:"scheduledDate"`
	Description   string         `gorm:"type:text;not null" db:"description" json:"description"`
	EstimatedCost float64        `db:"estimated_cost" json:"estimatedCost"`
	FinalCost     float64        `db:"final_cost" json:"finalCost"`
	Currency      string         `gorm:"type:text;not null;default:USD" db:"currency" json:"currency"`
	CancelReason  string         `gorm:"type:text" db:"cancel_reason" json:"cancellationReason,omitempty"`
	Timeline      []BookingEvent `gorm:"foreignKey:BookingID" json:"timeline,omitempty"`
	CreatedAt     time.Time      `gorm:"not null" db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time      `gorm:"not null" db:"updated_at" json:"updatedAt"`
}

func (Booking) TableName() string { return "bookings" }

type BookingEvent struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" db:"id" json:"-"`
	BookingID BookingID `gorm:"type:uuid;index" db:"booking_id" json:"-"`
	Status    string    `gorm:"type:text;not null" db:"status" json:"status"`
	Note      string    `gorm:"type:text" db:"note" json:"note,omitempty"`
	CreatedAt time.Time `gorm:"not null" db:"created_at" json:"timestamp"`
}

func (BookingEvent) TableName() string { return "booking_events" }
