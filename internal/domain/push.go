package domain

import (
	"time"

	"github.com/google/uuid"
)

// PushSubscription is the platform-issued credential exactly as the browser
// serializes it. It is immutable once issued; when the push service rotates
// or expires it, a new one supersedes it.
type PushSubscription struct {
	Endpoint       string           `json:"endpoint"`
	ExpirationTime *float64         `json:"expirationTime,omitempty"` // epoch millis, as the browser reports it
	Keys           SubscriptionKeys `json:"keys"`
}

// SubscriptionKeys carries the opaque encryption material the push service
// requires for payload encryption.
type SubscriptionKeys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

// SubscriptionRecord is the server-side row. At most one record exists per
// (endpoint, user_id) pair; the composite unique index makes the upsert the
// concurrency guard when several tabs subscribe at once.
type SubscriptionRecord struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" db:"id" json:"-"`
	UserID    UserID     `gorm:"type:uuid;uniqueIndex:ux_subscriptions_endpoint_user" db:"user_id" json:"userId"`
	Endpoint  string     `gorm:"type:text;uniqueIndex:ux_subscriptions_endpoint_user" db:"endpoint" json:"endpoint"`
	P256dh    string     `gorm:"type:text" db:"p256dh" json:"p256dh"`
	Auth      string     `gorm:"type:text" db:"auth" json:"auth"`
	Raw       JSONMap    `gorm:"type:jsonb" db:"raw" json:"raw,omitempty"`
	ExpiresAt *time.Time `db:"expires_at" json:"expiresAt,omitempty"`
	CreatedAt time.Time  `gorm:"not null" db:"created_at" json:"createdAt"`
	UpdatedAt time.Time  `gorm:"not null" db:"updated_at" json:"updatedAt"`
}

func (SubscriptionRecord) TableName() string { return "push_subscriptions" }

// NotificationPayload is built per incoming push event and never persisted.
type NotificationPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Icon  string `json:"icon"`
	URL   string `json:"url"`
}
