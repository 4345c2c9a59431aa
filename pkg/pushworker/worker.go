// Package pushworker implements the background push receiver: the long-lived
// process that renders incoming push payloads, routes notification clicks and
// tells open windows to refresh their subscription when the platform
// invalidates it. The hosting runtime (service-worker shim, test harness) is
// injected through the Registration and ClientHost interfaces.
package pushworker

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
)

const Version = "maipro-pwa-2"

// Defaults applied while extracting a notification from a push payload.
const (
	DefaultTitle     = "Notificación"
	DefaultIcon      = "/icons/icon-192.png"
	DefaultTargetURL = "https://maipro.work/pwa/"

	FallbackTitle = "Ping Maipro"
	FallbackBody  = "(push-fallback)"
)

// MessageRefreshSubscription asks every open window to re-run the
// subscription flow with its in-memory credential.
const MessageRefreshSubscription = "refresh-subscription"

// Message is the worker→window payload.
type Message struct {
	Type string `json:"type"`
}

type State int

const (
	StateInstalling State = iota
	StateActivating
	StateActive
)

func (s State) String() string {
	switch s {
	case StateInstalling:
		return "installing"
	case StateActivating:
		return "activating"
	case StateActive:
		return "active"
	}
	return "unknown"
}

// Notification is what the worker asks the platform to display.
type Notification struct {
	Title     string
	Body      string
	Icon      string
	TargetURL string
}

// Registration is the slice of the platform registration the worker needs.
type Registration interface {
	ShowNotification(ctx context.Context, n Notification) error
}

// WindowClient is one open application window.
type WindowClient interface {
	URL() string
	Focus(ctx context.Context) error
	PostMessage(ctx context.Context, msg Message) error
}

// ClientHost enumerates and opens application windows.
type ClientHost interface {
	// MatchAll lists open windows; includeUncontrolled extends the search
	// to windows not yet controlled by this worker version.
	MatchAll(ctx context.Context, includeUncontrolled bool) ([]WindowClient, error)
	OpenWindow(ctx context.Context, url string) error
	// Claim takes control of all open windows immediately.
	Claim(ctx context.Context) error
}

type Worker struct {
	reg     Registration
	clients ClientHost

	mu    sync.Mutex
	state State
}

func New(reg Registration, clients ClientHost) *Worker {
	return &Worker{reg: reg, clients: clients, state: StateInstalling}
}

func (w *Worker) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Start runs install and activate back to back. A new worker version takes
// over immediately rather than waiting for old instances to wind down, at
// the cost of possibly interrupting their in-flight work.
func (w *Worker) Start(ctx context.Context) error {
	w.setState(StateActivating) // skip the waiting phase
	if err := w.clients.Claim(ctx); err != nil {
		return err
	}
	w.setState(StateActive)
	return nil
}

func (w *Worker) setState(s State) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
}

// payloadEnvelope is the best-effort push payload schema. FCM-style senders
// put fields under notification, plain senders under data; either may be
// missing.
type payloadEnvelope struct {
	Notification *payloadFields `json:"notification"`
	Data         *payloadFields `json:"data"`
	FCMOptions   *fcmOptions    `json:"fcmOptions"`
}

type payloadFields struct {
	Title       string `json:"title"`
	Body        string `json:"body"`
	Icon        string `json:"icon"`
	URL         string `json:"url"`
	ClickAction string `json:"click_action"`
}

type fcmOptions struct {
	Link string `json:"link"`
}

// HandlePush renders one incoming push payload. A payload that does not
// parse still surfaces the fallback notification; an event with no payload
// at all is dropped. The call returns once display has completed.
func (w *Worker) HandlePush(ctx context.Context, data []byte) error {
	if len(data) == 0 {
		return nil
	}

	var env payloadEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return w.reg.ShowNotification(ctx, Notification{
			Title: FallbackTitle,
			Body:  FallbackBody,
			Icon:  DefaultIcon,
		})
	}

	fields := env.Notification
	if fields == nil {
		fields = env.Data
	}
	if fields == nil {
		fields = &payloadFields{}
	}

	n := Notification{
		Title:     orDefault(fields.Title, DefaultTitle),
		Body:      fields.Body,
		Icon:      orDefault(fields.Icon, DefaultIcon),
		TargetURL: targetURL(&env, fields),
	}
	return w.reg.ShowNotification(ctx, n)
}

func targetURL(env *payloadEnvelope, fields *payloadFields) string {
	if env.FCMOptions != nil && env.FCMOptions.Link != "" {
		return env.FCMOptions.Link
	}
	if fields.URL != "" {
		return fields.URL
	}
	if fields.ClickAction != "" {
		return fields.ClickAction
	}
	return DefaultTargetURL
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// HandleNotificationClick focuses the first open window whose URL contains
// the notification's target, or opens a new window when none matches.
func (w *Worker) HandleNotificationClick(ctx context.Context, n Notification) error {
	target := n.TargetURL
	if target == "" {
		target = "/"
	}

	windows, err := w.clients.MatchAll(ctx, true)
	if err != nil {
		return err
	}
	for _, win := range windows {
		if strings.Contains(win.URL(), target) {
			return win.Focus(ctx)
		}
	}
	return w.clients.OpenWindow(ctx, target)
}

// HandleSubscriptionChange reacts to platform-side invalidation by asking
// every open window to re-subscribe. The broadcast is best effort: each
// window gets one attempt and individual failures are swallowed.
func (w *Worker) HandleSubscriptionChange(ctx context.Context) error {
	windows, err := w.clients.MatchAll(ctx, true)
	if err != nil {
		return err
	}
	msg := Message{Type: MessageRefreshSubscription}
	for _, win := range windows {
		_ = win.PostMessage(ctx, msg)
	}
	return nil
}

// FetchAction is what the worker decides to do with an observed request.
type FetchAction int

const (
	// FetchPassThrough lets the network handle the request untouched.
	FetchPassThrough FetchAction = iota
)

// HandleFetch observes requests without intercepting them. GET requests are
// the reserved extension point for asset caching.
func (w *Worker) HandleFetch(r *http.Request) FetchAction {
	if r.Method != http.MethodGet {
		return FetchPassThrough
	}
	return FetchPassThrough
}
