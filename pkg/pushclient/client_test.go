package pushclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ArrobaLab/maipro/internal/domain"
	"github.com/ArrobaLab/maipro/pkg/pushworker"
)

type fakeRegistration struct {
	existing *domain.PushSubscription

	subscribed     *domain.PushSubscription
	subscribeErr   error
	subscribeCalls int
	lastOpts       SubscribeOptions
}

func (f *fakeRegistration) Subscription(_ context.Context) (*domain.PushSubscription, error) {
	return f.existing, nil
}

func (f *fakeRegistration) Subscribe(_ context.Context, opts SubscribeOptions) (*domain.PushSubscription, error) {
	f.subscribeCalls++
	f.lastOpts = opts
	if f.subscribeErr != nil {
		return nil, f.subscribeErr
	}
	return f.subscribed, nil
}

type fakePlatform struct {
	noServiceWorker bool
	noNotifications bool
	permission      Permission
	promptResult    Permission
	registerErr     error
	reg             *fakeRegistration

	promptCalls   int
	registerCalls int
	lastScript    string
	lastScope     string
}

func (f *fakePlatform) SupportsServiceWorker() bool { return !f.noServiceWorker }
func (f *fakePlatform) SupportsNotifications() bool { return !f.noNotifications }

func (f *fakePlatform) RegisterWorker(_ context.Context, scriptPath, scope string) (Registration, error) {
	f.registerCalls++
	f.lastScript = scriptPath
	f.lastScope = scope
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return f.reg, nil
}

func (f *fakePlatform) NotificationPermission() Permission { return f.permission }

func (f *fakePlatform) RequestNotificationPermission(_ context.Context) (Permission, error) {
	f.promptCalls++
	return f.promptResult, nil
}

type recordedRequest struct {
	path string
	auth string
	body map[string]any
}

func newBackend(t *testing.T) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(raw, &body)
		requests = append(requests, recordedRequest{
			path: r.URL.Path,
			auth: r.Header.Get("Authorization"),
			body: body,
		})
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func testSubscription(endpoint string) *domain.PushSubscription {
	return &domain.PushSubscription{
		Endpoint: endpoint,
		Keys:     domain.SubscriptionKeys{P256dh: "p256", Auth: "auth"},
	}
}

func TestEnableHappyPath(t *testing.T) {
	srv, requests := newBackend(t)
	reg := &fakeRegistration{subscribed: testSubscription("https://push.example.com/new")}
	platform := &fakePlatform{permission: PermissionDefault, promptResult: PermissionGranted, reg: reg}

	c := New(platform, Config{BaseURL: srv.URL, HTTPClient: srv.Client()})
	sub, err := c.Enable(context.Background(), "tok-123")
	if err != nil {
		t.Fatalf("enable: %v", err)
	}
	if sub.Endpoint != "https://push.example.com/new" {
		t.Fatalf("unexpected subscription %+v", sub)
	}

	if platform.promptCalls != 1 {
		t.Fatalf("expected one permission prompt, got %d", platform.promptCalls)
	}
	if platform.lastScript != "/pwa/sw.js" || platform.lastScope != "/pwa/" {
		t.Fatalf("worker registered with %q %q", platform.lastScript, platform.lastScope)
	}
	if !reg.lastOpts.UserVisibleOnly {
		t.Fatalf("subscribe must be user visible only")
	}
	// Default key decodes to 65 uncompressed-point bytes.
	if len(reg.lastOpts.ApplicationServerKey) != 65 {
		t.Fatalf("application server key length %d", len(reg.lastOpts.ApplicationServerKey))
	}

	if len(*requests) != 1 {
		t.Fatalf("expected 1 backend call, got %d", len(*requests))
	}
	got := (*requests)[0]
	if got.path != "/api/push/subscribe" {
		t.Fatalf("posted to %q", got.path)
	}
	if got.auth != "Bearer tok-123" {
		t.Fatalf("authorization %q", got.auth)
	}
	if _, ok := got.body["subscription"]; !ok {
		t.Fatalf("subscription missing from body %v", got.body)
	}
}

func TestEnableUnsupportedPlatform(t *testing.T) {
	tests := []struct {
		name     string
		platform *fakePlatform
	}{
		{name: "no service worker", platform: &fakePlatform{noServiceWorker: true}},
		{name: "no notifications", platform: &fakePlatform{noNotifications: true}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := New(tc.platform, Config{})
			if _, err := c.Enable(context.Background(), "tok"); !errors.Is(err, ErrUnsupported) {
				t.Fatalf("expected ErrUnsupported, got %v", err)
			}
		})
	}
}

func TestEnableDeniedPermission(t *testing.T) {
	reg := &fakeRegistration{subscribed: testSubscription("x")}

	// Prior denial: no prompt at all.
	platform := &fakePlatform{permission: PermissionDenied, reg: reg}
	c := New(platform, Config{})
	if _, err := c.Enable(context.Background(), "tok"); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if platform.promptCalls != 0 {
		t.Fatalf("denied permission must not prompt again")
	}
	if reg.subscribeCalls != 0 {
		t.Fatalf("denied permission must not subscribe")
	}

	// Prompt dismissed or refused.
	platform = &fakePlatform{permission: PermissionDefault, promptResult: PermissionDefault, reg: reg}
	c = New(platform, Config{})
	if _, err := c.Enable(context.Background(), "tok"); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied after dismissal, got %v", err)
	}
	if reg.subscribeCalls != 0 {
		t.Fatalf("dismissed prompt must not subscribe")
	}
}

func TestEnableRegistrationFailure(t *testing.T) {
	platform := &fakePlatform{registerErr: errors.New("script 404")}
	c := New(platform, Config{})
	if _, err := c.Enable(context.Background(), "tok"); !errors.Is(err, ErrRegistration) {
		t.Fatalf("expected ErrRegistration, got %v", err)
	}
}

func TestEnableReusesExistingSubscription(t *testing.T) {
	srv, requests := newBackend(t)
	reg := &fakeRegistration{existing: testSubscription("https://push.example.com/existing")}
	platform := &fakePlatform{permission: PermissionGranted, reg: reg}

	c := New(platform, Config{BaseURL: srv.URL, HTTPClient: srv.Client()})
	sub, err := c.Enable(context.Background(), "tok")
	if err != nil {
		t.Fatalf("enable: %v", err)
	}
	if sub.Endpoint != "https://push.example.com/existing" {
		t.Fatalf("expected the existing subscription, got %+v", sub)
	}
	if reg.subscribeCalls != 0 {
		t.Fatalf("existing subscription must be reused, not re-created")
	}
	if len(*requests) != 1 || (*requests)[0].path != "/api/push/subscribe" {
		t.Fatalf("existing subscription must still be forwarded, got %v", *requests)
	}
}

func TestEnablePlaceholderKeySubscribesWithoutKey(t *testing.T) {
	srv, _ := newBackend(t)
	reg := &fakeRegistration{subscribed: testSubscription("y")}
	platform := &fakePlatform{permission: PermissionGranted, reg: reg}

	c := New(platform, Config{
		BaseURL:        srv.URL,
		HTTPClient:     srv.Client(),
		VAPIDPublicKey: "<VAPID_PUBLIC_KEY>",
	})
	if _, err := c.Enable(context.Background(), "tok"); err != nil {
		t.Fatalf("enable: %v", err)
	}
	if reg.lastOpts.ApplicationServerKey != nil {
		t.Fatalf("placeholder key must not be decoded, got %v", reg.lastOpts.ApplicationServerKey)
	}
}

func TestEnableServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	reg := &fakeRegistration{subscribed: testSubscription("z")}
	platform := &fakePlatform{permission: PermissionGranted, reg: reg}
	c := New(platform, Config{BaseURL: srv.URL, HTTPClient: srv.Client()})

	if _, err := c.Enable(context.Background(), "tok"); !errors.Is(err, ErrServer) {
		t.Fatalf("expected ErrServer, got %v", err)
	}
}

func TestDisable(t *testing.T) {
	srv, requests := newBackend(t)
	reg := &fakeRegistration{existing: testSubscription("https://push.example.com/bye")}
	platform := &fakePlatform{permission: PermissionGranted, reg: reg}
	c := New(platform, Config{BaseURL: srv.URL, HTTPClient: srv.Client()})

	if err := c.Disable(context.Background(), "tok"); err != nil {
		t.Fatalf("disable: %v", err)
	}
	if len(*requests) != 1 {
		t.Fatalf("expected 1 backend call, got %d", len(*requests))
	}
	got := (*requests)[0]
	if got.path != "/api/push/unsubscribe" {
		t.Fatalf("posted to %q", got.path)
	}
	if got.body["endpoint"] != "https://push.example.com/bye" {
		t.Fatalf("unexpected body %v", got.body)
	}

	// No subscription on the device: nothing to do.
	reg.existing = nil
	if err := c.Disable(context.Background(), "tok"); err != nil {
		t.Fatalf("disable without subscription: %v", err)
	}
	if len(*requests) != 1 {
		t.Fatalf("no extra backend call expected, got %d", len(*requests))
	}
}

func TestHandleWorkerMessageRefreshesSubscription(t *testing.T) {
	srv, requests := newBackend(t)
	reg := &fakeRegistration{existing: testSubscription("https://push.example.com/rotated")}
	platform := &fakePlatform{permission: PermissionGranted, reg: reg}
	c := New(platform, Config{BaseURL: srv.URL, HTTPClient: srv.Client()})

	if _, err := c.Enable(context.Background(), "tok-original"); err != nil {
		t.Fatalf("enable: %v", err)
	}

	// Unrelated messages are ignored.
	if err := c.HandleWorkerMessage(context.Background(), pushworker.Message{Type: "something-else"}); err != nil {
		t.Fatalf("unrelated message: %v", err)
	}
	if len(*requests) != 1 {
		t.Fatalf("unrelated message must not hit the backend")
	}

	// Refresh re-runs the flow with the remembered credential.
	if err := c.HandleWorkerMessage(context.Background(), pushworker.Message{Type: pushworker.MessageRefreshSubscription}); err != nil {
		t.Fatalf("refresh message: %v", err)
	}
	if len(*requests) != 2 {
		t.Fatalf("expected a second backend call, got %d", len(*requests))
	}
	if (*requests)[1].auth != "Bearer tok-original" {
		t.Fatalf("refresh used %q", (*requests)[1].auth)
	}
}
