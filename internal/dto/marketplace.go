package dto

import "time"

type CreateProviderRequest struct {
	BusinessName  string   `json:"businessName"`
	Description   string   `json:"description"`
	Specialties   []string `json:"specialties"`
	ServiceRadius int      `json:"serviceRadiusKm,omitempty"`
	ServiceCities []string `json:"serviceCities,omitempty"`
	HourlyRate    float64  `json:"hourlyRate,omitempty"`
	MinimumCharge float64  `json:"minimumCharge,omitempty"`
}

type UpdateProviderRequest struct {
	BusinessName  *string  `json:"businessName,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Specialties   []string `json:"specialties,omitempty"`
	ServiceRadius *int     `json:"serviceRadiusKm,omitempty"`
	ServiceCities []string `json:"serviceCities,omitempty"`
	HourlyRate    *float64 `json:"hourlyRate,omitempty"`
	MinimumCharge *float64 `json:"minimumCharge,omitempty"`
}

type CreateServiceRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Type        string  `json:"type,omitempty"`
	PricingType string  `json:"pricingType,omitempty"`
	Amount      float64 `json:"amount,omitempty"`
	Currency    string  `json:"currency,omitempty"`
}

type UpdateServiceRequest struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	PricingType *string  `json:"pricingType,omitempty"`
	Amount      *float64 `json:"amount,omitempty"`
	IsActive    *bool    `json:"isActive,omitempty"`
}

type CreateBookingRequest struct {
	ProviderID    string    `json:"providerId"`
	ServiceID     string    `json:"serviceId"`
	Street        string    `json:"street"`
	City          string    `json:"city"`
	State         string    `json:"state,omitempty"`
	ZipCode       string    `json:"zipCode,omitempty"`
	ScheduledDate time.Time `json:"scheduledDate"`
	Description   string    `json:"description"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`
}

type CreateReviewRequest struct {
	BookingID string `json:"bookingId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
}

// Paginated is the envelope for every list endpoint.
type Paginated[T any] struct {
	Items       []T   `json:"items"`
	Total       int64 `json:"total"`
	CurrentPage int   `json:"currentPage"`
	TotalPages  int64 `json:"totalPages"`
}
