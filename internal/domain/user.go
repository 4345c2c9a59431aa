package domain

import "time"

const (
	RoleCustomer = "customer"
	RoleProvider = "provider"
	RoleAdmin    = "admin"
)

type User struct {
	ID           UserID    `gorm:"type:uuid;primaryKey" db:"id" json:"id"`
	Name         string    `gorm:"type:text;not null" db:"name" json:"name"`
	Email        string    `gorm:"type:text;uniqueIndex:ux_users_email" db:"email" json:"email"`
	PasswordHash []byte    `gorm:"type:bytea;not null" db:"password_hash" json:"-"`
	PasswordSalt []byte    `gorm:"type:bytea;not null" db:"password_salt" json:"-"`
	// Argon2 cost parameters captured at hash time so verification
	// keeps working across policy changes.
	PasswordParams []byte    `gorm:"type:jsonb;not null" db:"password_params" json:"-"`
	Phone          string    `gorm:"type:text;not null" db:"phone" json:"phone"`
	Role           string    `gorm:"type:text;not null;default:customer" db:"role" json:"role"`
	Street         string    `gorm:"type:text" db:"street" json:"street,omitempty"`
	City           string    `gorm:"type:text" db:"city" json:"city,omitempty"`
	State          string    `gorm:"type:text" db:"state" json:"state,omitempty"`
	ZipCode        string    `gorm:"type:text" db:"zip_code" json:"zipCode,omitempty"`
	IsActive       bool      `gorm:"not null;default:true" db:"is_active" json:"isActive"`
	CreatedAt      time.Time `gorm:"not null" db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"not null" db:"updated_at" json:"updatedAt"`
}

func (User) TableName() string { return "users" }
