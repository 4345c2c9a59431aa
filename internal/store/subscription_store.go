package store

import (
	"context"
	"time"

	"github.com/ArrobaLab/maipro/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubscriptionStore struct{ db *gorm.DB }

func (s *Store) Subscriptions() *SubscriptionStore { return &SubscriptionStore{db: s.DB} }

// Upsert replaces the record matching (endpoint, user_id) or inserts a new
// one. The composite unique index is the conflict target, so concurrent
// subscribes from multiple tabs converge on a single row, last writer wins.
func (ss *SubscriptionStore) Upsert(ctx context.Context, rec *domain.SubscriptionRecord) error {
	now := time.Now().UTC()
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	return ss.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "endpoint"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth", "raw", "expires_at", "updated_at"}),
		}).
		Create(rec).Error
}

// Remove deletes by (endpoint, user_id). Deleting a missing record is a
// no-op, not an error.
func (ss *SubscriptionStore) Remove(ctx context.Context, userID domain.UserID, endpoint string) error {
	return ss.db.WithContext(ctx).
		Delete(&domain.SubscriptionRecord{}, "endpoint = ? AND user_id = ?", endpoint, userID).Error
}

func (ss *SubscriptionStore) GetByUser(ctx context.Context, userID domain.UserID) ([]*domain.SubscriptionRecord, error) {
	var recs []*domain.SubscriptionRecord
	if err := ss.db.WithContext(ctx).Where("user_id = ?", userID).Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}
