package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ArrobaLab/maipro/internal/authz"
	"github.com/ArrobaLab/maipro/internal/domain"
	"github.com/ArrobaLab/maipro/internal/dto"
	"github.com/ArrobaLab/maipro/internal/observability/metrics"
	"github.com/ArrobaLab/maipro/internal/store"

	"github.com/google/uuid"
)

func (m *Marketplace) CreateBooking(ctx context.Context, customerID domain.UserID, req dto.CreateBookingRequest) (*domain.Booking, error) {
	if req.Street == "" || req.City == "" || req.Description == "" {
		return nil, fmt.Errorf("%w: street, city and description are required", ErrInvalidRequest)
	}
	if req.ScheduledDate.IsZero() {
		return nil, fmt.Errorf("%w: scheduledDate is required", ErrInvalidRequest)
	}
	providerID, err := uuid.Parse(req.ProviderID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid providerId", ErrInvalidRequest)
	}
	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid serviceId", ErrInvalidRequest)
	}

	prov, err := m.GetProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}
	svc, err := m.GetService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if svc.ProviderID != prov.ID {
		return nil, fmt.Errorf("%w: service does not belong to that provider", ErrInvalidRequest)
	}

	booking := &domain.Booking{
		CustomerID:    customerID,
		ProviderID:    prov.ID,
		ServiceID:     svc.ID,
		Status:        domain.BookingPending,
		Street:        req.Street,
		City:          req.City,
		State:         req.State,
		ZipCode:       req.ZipCode,
		ScheduledDate: req.ScheduledDate,
		Description:   req.Description,
		EstimatedCost: svc.Amount,
		Currency:      svc.Currency,
		Timeline: []domain.BookingEvent{
			{Status: domain.BookingPending, Note: "Booking created"},
		},
	}
	if err := m.store.Bookings().Create(ctx, booking); err != nil {
		return nil, err
	}

	m.push.NotifyUser(ctx, prov.UserID, domain.NotificationPayload{
		Title: "New booking request",
		Body:  fmt.Sprintf("%s on %s", svc.Title, booking.ScheduledDate.Format("2006-01-02")),
		URL:   "/pwa/bookings/" + booking.ID.String(),
	})
	return booking, nil
}

// GetBooking is visible to the booking's customer, the provider's owner,
// and admins.
func (m *Marketplace) GetBooking(ctx context.Context, p authz.Principal, id domain.BookingID) (*domain.Booking, error) {
	booking, err := m.store.Bookings().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: booking", ErrNotFound)
		}
		return nil, err
	}
	if err := m.authorizeBooking(ctx, p, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func (m *Marketplace) ListMyBookings(ctx context.Context, customerID domain.UserID, f store.BookingFilter) ([]*domain.Booking, int64, error) {
	return m.store.Bookings().ListByCustomer(ctx, customerID, f)
}

func (m *Marketplace) ListProviderBookings(ctx context.Context, userID domain.UserID, f store.BookingFilter) ([]*domain.Booking, int64, error) {
	prov, err := m.store.Providers().GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, 0, fmt.Errorf("%w: provider profile", ErrNotFound)
		}
		return nil, 0, err
	}
	return m.store.Bookings().ListByProvider(ctx, prov.ID, f)
}

// UpdateBookingStatus walks the status machine and notifies the counterparty
// of the change.
func (m *Marketplace) UpdateBookingStatus(ctx context.Context, p authz.Principal, id domain.BookingID, req dto.UpdateBookingStatusRequest) (*domain.Booking, error) {
	booking, err := m.GetBooking(ctx, p, id)
	if err != nil {
		return nil, err
	}

	if !domain.ValidBookingTransition(booking.Status, req.Status) {
		metrics.BookingTransitionsTotal.WithLabelValues(req.Status, "failure").Inc()
		return nil, fmt.Errorf("%w: cannot move booking from %s to %s", ErrInvalidRequest, booking.Status, req.Status)
	}

	// Only the provider side accepts/rejects/starts/completes; either side
	// may cancel.
	prov, err := m.GetProvider(ctx, booking.ProviderID)
	if err != nil {
		return nil, err
	}
	isProvider := prov.UserID == p.UserID
	isCustomer := booking.CustomerID == p.UserID
	if req.Status == domain.BookingCancelled {
		if !isProvider && !isCustomer && p.Role != domain.RoleAdmin {
			return nil, fmt.Errorf("%w: not a party to this booking", ErrForbidden)
		}
	} else if !isProvider && p.Role != domain.RoleAdmin {
		metrics.BookingTransitionsTotal.WithLabelValues(req.Status, "failure").Inc()
		return nil, fmt.Errorf("%w: only the provider can set %s", ErrForbidden, req.Status)
	}

	if err := m.store.Bookings().SetStatus(ctx, booking, req.Status, req.Note); err != nil {
		metrics.BookingTransitionsTotal.WithLabelValues(req.Status, "failure").Inc()
		return nil, err
	}
	metrics.BookingTransitionsTotal.WithLabelValues(req.Status, "success").Inc()

	if req.Status == domain.BookingCompleted {
		if err := m.store.Providers().IncrementCompletedJobs(ctx, prov.ID); err != nil {
			return nil, err
		}
	}

	// Notify whichever side did not make the change.
	target := booking.CustomerID
	if isCustomer {
		target = prov.UserID
	}
	m.push.NotifyUser(ctx, target, domain.NotificationPayload{
		Title: "Booking " + req.Status,
		Body:  req.Note,
		URL:   "/pwa/bookings/" + booking.ID.String(),
	})

	return booking, nil
}

func (m *Marketplace) authorizeBooking(ctx context.Context, p authz.Principal, booking *domain.Booking) error {
	if booking.CustomerID == p.UserID || p.Role == domain.RoleAdmin {
		return nil
	}
	prov, err := m.store.Providers().GetByID(ctx, booking.ProviderID)
	if err == nil && prov.UserID == p.UserID {
		return nil
	}
	return fmt.Errorf("%w: not a party to this booking", ErrForbidden)
}
