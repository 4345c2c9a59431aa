package store

import (
	"context"
	"time"

	"github.com/ArrobaLab/maipro/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingStore struct{ db *gorm.DB }

func (s *Store) Bookings() *BookingStore { return &BookingStore{db: s.DB} }

type BookingFilter struct {
	Status string
	Page   int
	Limit  int
}

func (b *BookingStore) Create(ctx context.Context, booking *domain.Booking) error {
	now := time.Now().UTC()
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	booking.CreatedAt = now
	booking.UpdatedAt = now
	for i := range booking.Timeline {
		if booking.Timeline[i].ID == uuid.Nil {
			booking.Timeline[i].ID = uuid.New()
		}
		booking.Timeline[i].BookingID = booking.ID
		booking.Timeline[i].CreatedAt = now
	}
	return b.db.WithContext(ctx).Create(booking).Error
}

func (b *BookingStore) GetByID(ctx context.Context, id domain.BookingID) (*domain.Booking, error) {
	var booking domain.Booking
	if err := b.db.WithContext(ctx).Preload("Timeline").First(&booking, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (b *BookingStore) ListByCustomer(ctx context.Context, customerID domain.UserID, f BookingFilter) ([]*domain.Booking, int64, error) {
	return b.list(ctx, "customer_id = ?", customerID, f)
}

func (b *BookingStore) ListByProvider(ctx context.Context, providerID domain.ProviderID, f BookingFilter) ([]*domain.Booking, int64, error) {
	return b.list(ctx, "provider_id = ?", providerID, f)
}

func (b *BookingStore) list(ctx context.Context, cond string, id uuid.UUID, f BookingFilter) ([]*domain.Booking, int64, error) {
	q := b.db.WithContext(ctx).Model(&domain.Booking{}).Where(cond, id)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var bookings []*domain.Booking
	if err := q.Preload("Timeline").
		Order("created_at DESC").
		Limit(pageLimit(f.Limit)).
		Offset(pageOffset(f.Page, f.Limit)).
		Find(&bookings).Error; err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// SetStatus updates the booking row and appends the timeline entry in one
// write. Callers validate the transition first.
func (b *BookingStore) SetStatus(ctx context.Context, booking *domain.Booking, status, note string) error {
	now := time.Now().UTC()
	booking.Status = status
	booking.UpdatedAt = now
	if status == domain.BookingCancelled && note != "" {
		booking.CancelReason = note
	}
	event := domain.BookingEvent{
		ID:        uuid.New(),
		BookingID: booking.ID,
		Status:    status,
		Note:      note,
		CreatedAt: now,
	}
	updates := map[string]any{"status": status, "updated_at": now}
	if booking.CancelReason != "" {
		updates["cancel_reason"] = booking.CancelReason
	}
	return b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Booking{}).Where("id = ?", booking.ID).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Create(&event).Error
	})
}
