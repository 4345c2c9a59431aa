// Package webpush adapts subscription records to the Web Push protocol
// sender. Delivery semantics (retry, queueing, receipt tracking) are owned by
// downstream infrastructure; this package only hands a payload to the push
// service once per subscription.
package webpush

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/ArrobaLab/maipro/internal/domain"

	webpush "github.com/SherClockHolmes/webpush-go"
)

// Sender pushes one payload to one subscription endpoint using VAPID
// authentication.
type Sender struct {
	subscriber string // contact address reported to the push service
	publicKey  string
	privateKey string
	ttl        int
}

func NewSender(subscriber, publicKey, privateKey string) *Sender {
	return &Sender{
		subscriber: subscriber,
		publicKey:  publicKey,
		privateKey: privateKey,
		ttl:        60 * 60 * 24,
	}
}

// Dispatch encrypts and posts the payload to the record's endpoint. A 404 or
// 410 from the push service means the subscription is gone; that is reported
// as ErrSubscriptionGone so the caller can drop the record.
func (s *Sender) Dispatch(ctx context.Context, rec *domain.SubscriptionRecord, payload domain.NotificationPayload) error {
	body, err := json.Marshal(map[string]any{"notification": payload})
	if err != nil {
		return err
	}

	sub := &webpush.Subscription{
		Endpoint: rec.Endpoint,
		Keys: webpush.Keys{
			P256dh: rec.P256dh,
			Auth:   rec.Auth,
		},
	}
	resp, err := webpush.SendNotificationWithContext(ctx, body, sub, &webpush.Options{
		Subscriber:      s.subscriber,
		VAPIDPublicKey:  s.publicKey,
		VAPIDPrivateKey: s.privateKey,
		TTL:             s.ttl,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == 404 || resp.StatusCode == 410 {
		return ErrSubscriptionGone
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Code: resp.StatusCode}
	}
	return nil
}

// LogDispatcher is the default: it records the fan-out intent and does
// nothing else. Real delivery is enabled by configuring VAPID keys and
// swapping in Sender.
type LogDispatcher struct{}

func (LogDispatcher) Dispatch(_ context.Context, rec *domain.SubscriptionRecord, payload domain.NotificationPayload) error {
	slog.Info("push delivery skipped (no sender configured)",
		"endpoint", rec.Endpoint,
		"title", payload.Title,
	)
	return nil
}
