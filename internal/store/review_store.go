package store

import (
	"context"
	"time"

	"github.com/ArrobaLab/maipro/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewStore struct{ db *gorm.DB }

func (s *Store) Reviews() *ReviewStore { return &ReviewStore{db: s.DB} }

func (r *ReviewStore) Create(ctx context.Context, review *domain.Review) error {
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	review.CreatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *ReviewStore) GetByBooking(ctx context.Context, bookingID domain.BookingID) (*domain.Review, error) {
	var review domain.Review
	if err := r.db.WithContext(ctx).First(&review, "booking_id = ?", bookingID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *ReviewStore) ListByProvider(ctx context.Context, providerID domain.ProviderID, page, limit int) ([]*domain.Review, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Review{}).Where("provider_id = ?", providerID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []*domain.Review
	if err := q.Order("created_at DESC").
		Limit(pageLimit(limit)).
		Offset(pageOffset(page, limit)).
		Find(&reviews).Error; err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// Aggregate recomputes the provider's rating from all stored reviews.
func (r *ReviewStore) Aggregate(ctx context.Context, providerID domain.ProviderID) (average float64, count int64, err error) {
	row := r.db.WithContext(ctx).Model(&domain.Review{}).
		Where("provider_id = ?", providerID).
		Select("COALESCE(AVG(rating), 0), COUNT(*)").
		Row()
	if err := row.Scan(&average, &count); err != nil {
		return 0, 0, err
	}
	return average, count, nil
}
