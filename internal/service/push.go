package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ArrobaLab/maipro/internal/domain"
	"github.com/ArrobaLab/maipro/internal/observability/metrics"
	"github.com/ArrobaLab/maipro/internal/webpush"
)

// SubscriptionStorage is the persistence capability the push flow needs.
// Anything with an upsert/remove keyed on (endpoint, userID) can back it.
type SubscriptionStorage interface {
	Upsert(ctx context.Context, rec *domain.SubscriptionRecord) error
	Remove(ctx context.Context, userID domain.UserID, endpoint string) error
	GetByUser(ctx context.Context, userID domain.UserID) ([]*domain.SubscriptionRecord, error)
}

// Dispatcher hands one payload to one subscription endpoint. Delivery
// guarantees live behind this boundary, not in the flow logic.
type Dispatcher interface {
	Dispatch(ctx context.Context, rec *domain.SubscriptionRecord, payload domain.NotificationPayload) error
}

type Push struct {
	subs       SubscriptionStorage
	dispatcher Dispatcher
	publicKey  string
}

func NewPush(subs SubscriptionStorage, dispatcher Dispatcher, vapidPublicKey string) *Push {
	return &Push{subs: subs, dispatcher: dispatcher, publicKey: vapidPublicKey}
}

// PublicKey returns the VAPID application-server key clients subscribe with.
func (p *Push) PublicKey() string { return p.publicKey }

// Subscribe upserts the subscription for the authenticated user. Repeated
// calls with the same (endpoint, user) converge to one record.
func (p *Push) Subscribe(ctx context.Context, userID domain.UserID, sub *domain.PushSubscription) error {
	if sub == nil || sub.Endpoint == "" {
		metrics.PushSubscribesTotal.WithLabelValues("failure").Inc()
		return fmt.Errorf("%w: subscription missing", ErrInvalidRequest)
	}

	rec := &domain.SubscriptionRecord{
		UserID:   userID,
		Endpoint: sub.Endpoint,
		P256dh:   sub.Keys.P256dh,
		Auth:     sub.Keys.Auth,
		Raw:      rawSubscription(sub),
	}
	if sub.ExpirationTime != nil {
		t := time.UnixMilli(int64(*sub.ExpirationTime)).UTC()
		rec.ExpiresAt = &t
	}

	if err := p.subs.Upsert(ctx, rec); err != nil {
		metrics.PushSubscribesTotal.WithLabelValues("failure").Inc()
		return err
	}
	metrics.PushSubscribesTotal.WithLabelValues("success").Inc()
	return nil
}

// Unsubscribe removes the record for (endpoint, user). Removing an unknown
// endpoint succeeds.
func (p *Push) Unsubscribe(ctx context.Context, userID domain.UserID, endpoint string) error {
	if endpoint == "" {
		metrics.PushUnsubscribesTotal.WithLabelValues("failure").Inc()
		return fmt.Errorf("%w: endpoint missing", ErrInvalidRequest)
	}
	if err := p.subs.Remove(ctx, userID, endpoint); err != nil {
		metrics.PushUnsubscribesTotal.WithLabelValues("failure").Inc()
		return err
	}
	metrics.PushUnsubscribesTotal.WithLabelValues("success").Inc()
	return nil
}

// NotifyUser fans the payload out to every subscription the user holds.
// Per-endpoint failures are logged and swallowed; endpoints the push service
// reports gone are dropped from storage.
func (p *Push) NotifyUser(ctx context.Context, userID domain.UserID, payload domain.NotificationPayload) {
	recs, err := p.subs.GetByUser(ctx, userID)
	if err != nil {
		slog.Error("push fan-out: listing subscriptions failed", "error", err, "user_id", userID)
		return
	}
	for _, rec := range recs {
		if err := p.dispatcher.Dispatch(ctx, rec, payload); err != nil {
			metrics.PushDispatchesTotal.WithLabelValues("failure").Inc()
			if errors.Is(err, webpush.ErrSubscriptionGone) {
				if rmErr := p.subs.Remove(ctx, userID, rec.Endpoint); rmErr != nil {
					slog.Warn("push fan-out: dropping gone subscription failed", "error", rmErr, "endpoint", rec.Endpoint)
				}
				continue
			}
			slog.Warn("push fan-out: dispatch failed", "error", err, "endpoint", rec.Endpoint)
			continue
		}
		metrics.PushDispatchesTotal.WithLabelValues("success").Inc()
	}
}

func rawSubscription(sub *domain.PushSubscription) domain.JSONMap {
	b, err := json.Marshal(sub)
	if err != nil {
		return nil
	}
	var m domain.JSONMap
	if err := json.Unmarshal(b, &m); err != nil {
		return nil
	}
	return m
}
