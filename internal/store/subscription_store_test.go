package store_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/ArrobaLab/maipro/internal/domain"
	"github.com/ArrobaLab/maipro/internal/store"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupStore(t *testing.T) *store.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Provider{},
		&domain.Service{},
		&domain.Booking{},
		&domain.BookingEvent{},
		&domain.Review{},
		&domain.SubscriptionRecord{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return store.New(db)
}

func TestSubscriptionUpsertIdempotent(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()

	userID := uuid.New()
	rec := &domain.SubscriptionRecord{
		UserID:   userID,
		Endpoint: "https://push.example.com/ep-1",
		P256dh:   "p256-1",
		Auth:     "auth-1",
	}
	if err := st.Subscriptions().Upsert(ctx, rec); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	again := &domain.SubscriptionRecord{
		UserID:   userID,
		Endpoint: "https://push.example.com/ep-1",
		P256dh:   "p256-1",
		Auth:     "auth-1",
	}
	if err := st.Subscriptions().Upsert(ctx, again); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	recs, err := st.Subscriptions().GetByUser(ctx, userID)
	if err != nil {
		t.Fatalf("get by user: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if recs[0].P256dh != "p256-1" || recs[0].Auth != "auth-1" {
		t.Fatalf("unexpected keys: %+v", recs[0])
	}
}

func TestSubscriptionUpsertReplacesKeys(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()

	userID := uuid.New()
	endpoint := "https://push.example.com/ep-rotate"

	first := &domain.SubscriptionRecord{UserID: userID, Endpoint: endpoint, P256dh: "old-p256", Auth: "old-auth"}
	if err := st.Subscriptions().Upsert(ctx, first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	second := &domain.SubscriptionRecord{UserID: userID, Endpoint: endpoint, P256dh: "new-p256", Auth: "new-auth"}
	if err := st.Subscriptions().Upsert(ctx, second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	recs, err := st.Subscriptions().GetByUser(ctx, userID)
	if err != nil {
		t.Fatalf("get by user: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record after replacement, got %d", len(recs))
	}
	if recs[0].P256dh != "new-p256" || recs[0].Auth != "new-auth" {
		t.Fatalf("expected second call's keys, got %+v", recs[0])
	}
}

func TestSubscriptionsIsolatedPerUser(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()

	endpoint := "https://push.example.com/shared-device"
	userA := uuid.New()
	userB := uuid.New()

	for _, id := range []uuid.UUID{userA, userB} {
		rec := &domain.SubscriptionRecord{UserID: id, Endpoint: endpoint, P256dh: "p", Auth: "a"}
		if err := st.Subscriptions().Upsert(ctx, rec); err != nil {
			t.Fatalf("upsert for %s: %v", id, err)
		}
	}

	// Same endpoint, two users: two separate records.
	for _, id := range []uuid.UUID{userA, userB} {
		recs, err := st.Subscriptions().GetByUser(ctx, id)
		if err != nil {
			t.Fatalf("get by user: %v", err)
		}
		if len(recs) != 1 {
			t.Fatalf("expected 1 record for %s, got %d", id, len(recs))
		}
	}
}

func TestSubscriptionRemove(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()

	userID := uuid.New()
	endpoint := "https://push.example.com/ep-remove"
	rec := &domain.SubscriptionRecord{UserID: userID, Endpoint: endpoint, P256dh: "p", Auth: "a"}
	if err := st.Subscriptions().Upsert(ctx, rec); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if err := st.Subscriptions().Remove(ctx, userID, endpoint); err != nil {
		t.Fatalf("remove: %v", err)
	}
	recs, err := st.Subscriptions().GetByUser(ctx, userID)
	if err != nil {
		t.Fatalf("get by user: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected 0 records, got %d", len(recs))
	}

	// Removing again is a no-op, not an error.
	if err := st.Subscriptions().Remove(ctx, userID, endpoint); err != nil {
		t.Fatalf("remove missing: %v", err)
	}
}
