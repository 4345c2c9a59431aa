package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ArrobaLab/maipro/internal/domain"
	"github.com/ArrobaLab/maipro/internal/dto"
	"github.com/ArrobaLab/maipro/internal/store"

	"github.com/google/uuid"
)

// CreateReview records one review for a completed booking and recomputes the
// provider's rating aggregate.
func (m *Marketplace) CreateReview(ctx context.Context, customerID domain.UserID, req dto.CreateReviewRequest) (*domain.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidRequest)
	}
	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid bookingId", ErrInvalidRequest)
	}

	booking, err := m.store.Bookings().GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: booking", ErrNotFound)
		}
		return nil, err
	}
	if booking.CustomerID != customerID {
		return nil, fmt.Errorf("%w: only the customer can review a booking", ErrForbidden)
	}
	if booking.Status != domain.BookingCompleted {
		return nil, fmt.Errorf("%w: booking is not completed", ErrInvalidRequest)
	}
	if _, err := m.store.Reviews().GetByBooking(ctx, bookingID); err == nil {
		return nil, fmt.Errorf("%w: booking already reviewed", ErrConflict)
	} else if !errors.Is(err, store.ErrRecordNotFound) {
		return nil, err
	}

	review := &domain.Review{
		BookingID:  bookingID,
		ProviderID: booking.ProviderID,
		CustomerID: customerID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}
	if err := m.store.Reviews().Create(ctx, review); err != nil {
		return nil, err
	}

	average, count, err := m.store.Reviews().Aggregate(ctx, booking.ProviderID)
	if err != nil {
		return nil, err
	}
	if err := m.store.Providers().UpdateRating(ctx, booking.ProviderID, average, int(count)); err != nil {
		return nil, err
	}
	return review, nil
}

func (m *Marketplace) ListProviderReviews(ctx context.Context, providerID domain.ProviderID, page, limit int) ([]*domain.Review, int64, error) {
	if _, err := m.GetProvider(ctx, providerID); err != nil {
		return nil, 0, err
	}
	return m.store.Reviews().ListByProvider(ctx, providerID, page, limit)
}
