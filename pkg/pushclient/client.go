// Package pushclient drives the "enable push for a logged-in user" flow:
// register the background worker, obtain notification permission, create or
// reuse a platform subscription and hand it to the backend. The host
// platform (worker registration, permission dialog, push manager) is
// injected so the flow runs the same against a browser bridge or a test
// fake.
package pushclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/ArrobaLab/maipro/internal/domain"
	"github.com/ArrobaLab/maipro/internal/vapid"
	"github.com/ArrobaLab/maipro/pkg/pushworker"
)

// placeholderMarker flags a VAPID key that was never replaced at build or
// deploy time; subscribing proceeds without application-server-key material.
const placeholderMarker = "<VAPID"

type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// SubscribeOptions mirror the platform's push-manager subscribe call.
type SubscribeOptions struct {
	UserVisibleOnly      bool
	ApplicationServerKey []byte
}

// Registration is an activated background-worker registration.
type Registration interface {
	// Subscription returns the existing push subscription, or nil when the
	// registration has none.
	Subscription(ctx context.Context) (*domain.PushSubscription, error)
	Subscribe(ctx context.Context, opts SubscribeOptions) (*domain.PushSubscription, error)
}

// Platform is the host environment capability surface.
type Platform interface {
	SupportsServiceWorker() bool
	SupportsNotifications() bool
	RegisterWorker(ctx context.Context, scriptPath, scope string) (Registration, error)
	NotificationPermission() Permission
	RequestNotificationPermission(ctx context.Context) (Permission, error)
}

// Config overrides the documented defaults; zero values keep them.
type Config struct {
	ServiceWorkerPath   string
	Scope               string
	BaseURL             string // server origin; empty means same-origin relative paths
	SubscribeEndpoint   string
	UnsubscribeEndpoint string
	VAPIDPublicKey      string
	HTTPClient          *http.Client
}

func (c Config) withDefaults() Config {
	if c.ServiceWorkerPath == "" {
		c.ServiceWorkerPath = "/pwa/sw.js"
	}
	if c.Scope == "" {
		c.Scope = "/pwa/"
	}
	if c.SubscribeEndpoint == "" {
		c.SubscribeEndpoint = "/api/push/subscribe"
	}
	if c.UnsubscribeEndpoint == "" {
		c.UnsubscribeEndpoint = "/api/push/unsubscribe"
	}
	if c.VAPIDPublicKey == "" {
		c.VAPIDPublicKey = "BHB1xHLc7TinEFzRmV1YJEShBc8Tw9Idjerr7DDNxici3GIm-2OmxdpULg5xCc7kleg93Jcr2dLvd0rEXTBf6a0"
	}
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
	return c
}

type Client struct {
	platform Platform
	cfg      Config

	mu        sync.Mutex
	lastToken string // credential from the most recent Enable, for refresh
}

func New(platform Platform, cfg Config) *Client {
	return &Client{platform: platform, cfg: cfg.withDefaults()}
}

// Enable runs the whole subscribe flow and leaves the backend holding a
// record for the returned subscription. Invoke it after login, never
// automatically. Any step failing aborts the flow with one of the package's
// sentinel errors; there is no partial retry.
func (c *Client) Enable(ctx context.Context, authToken string) (*domain.PushSubscription, error) {
	if !c.platform.SupportsServiceWorker() {
		return nil, fmt.Errorf("%w: service workers unavailable", ErrUnsupported)
	}
	if !c.platform.SupportsNotifications() {
		return nil, fmt.Errorf("%w: notifications unavailable", ErrUnsupported)
	}

	reg, err := c.platform.RegisterWorker(ctx, c.cfg.ServiceWorkerPath, c.cfg.Scope)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRegistration, err)
	}

	// A prior denial is terminal until the user resets it in the platform
	// settings; prompting again would be ignored anyway.
	permission := c.platform.NotificationPermission()
	if permission == PermissionDenied {
		return nil, fmt.Errorf("%w: previously denied", ErrPermissionDenied)
	}
	if permission == PermissionDefault {
		permission, err = c.platform.RequestNotificationPermission(ctx)
		if err != nil {
			return nil, err
		}
	}
	if permission != PermissionGranted {
		return nil, fmt.Errorf("%w: permission %q", ErrPermissionDenied, permission)
	}

	c.mu.Lock()
	c.lastToken = authToken
	c.mu.Unlock()

	existing, err := reg.Subscription(ctx)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		// Re-associate the device's subscription with the current user
		// instead of creating a duplicate platform subscription.
		if err := c.sendSubscription(ctx, existing, authToken); err != nil {
			return nil, err
		}
		return existing, nil
	}

	opts := SubscribeOptions{UserVisibleOnly: true}
	if !strings.Contains(c.cfg.VAPIDPublicKey, placeholderMarker) {
		key, err := vapid.Decode(c.cfg.VAPIDPublicKey)
		if err != nil {
			return nil, fmt.Errorf("decode vapid key: %w", err)
		}
		opts.ApplicationServerKey = key
	}

	sub, err := reg.Subscribe(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := c.sendSubscription(ctx, sub, authToken); err != nil {
		return nil, err
	}
	return sub, nil
}

// Disable removes the current device subscription from the backend. The
// platform-side subscription is left alone; the push service will expire it.
func (c *Client) Disable(ctx context.Context, authToken string) error {
	reg, err := c.platform.RegisterWorker(ctx, c.cfg.ServiceWorkerPath, c.cfg.Scope)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRegistration, err)
	}
	sub, err := reg.Subscription(ctx)
	if err != nil {
		return err
	}
	if sub == nil {
		return nil
	}
	return c.postJSON(ctx, c.cfg.UnsubscribeEndpoint, map[string]string{"endpoint": sub.Endpoint}, authToken)
}

// HandleWorkerMessage reacts to worker→window messages. On a
// refresh-subscription request the whole Enable flow re-runs with the
// credential from the last Enable call.
func (c *Client) HandleWorkerMessage(ctx context.Context, msg pushworker.Message) error {
	if msg.Type != pushworker.MessageRefreshSubscription {
		return nil
	}
	c.mu.Lock()
	token := c.lastToken
	c.mu.Unlock()
	_, err := c.Enable(ctx, token)
	return err
}

func (c *Client) sendSubscription(ctx context.Context, sub *domain.PushSubscription, authToken string) error {
	return c.postJSON(ctx, c.cfg.SubscribeEndpoint, map[string]any{"subscription": sub}, authToken)
}

func (c *Client) postJSON(ctx context.Context, endpoint string, body any, authToken string) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+endpoint, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServer, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", ErrServer, resp.StatusCode)
	}
	return nil
}
