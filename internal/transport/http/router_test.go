package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ArrobaLab/maipro/internal/authz"
	"github.com/ArrobaLab/maipro/internal/domain"
	"github.com/ArrobaLab/maipro/internal/service"
	"github.com/ArrobaLab/maipro/internal/store"
	transport "github.com/ArrobaLab/maipro/internal/transport/http"
	"github.com/ArrobaLab/maipro/internal/webpush"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	testSecret = "router-test-secret"
	testIssuer = "https://maipro.test"
)

func newTestServer(t *testing.T) *httptest.Server {
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
	st := store.New(db)

	auth := service.NewAuth(st, service.TokenConfig{
		Issuer:     testIssuer,
		Audience:   "maipro",
		AccessTTL:  time.Hour,
		SigningKey: []byte(testSecret),
	})
	push := service.NewPush(st.Subscriptions(), webpush.LogDispatcher{}, "test-public-key")
	mp := service.NewMarketplace(st, push)
	validator := authz.NewBearerValidator(testSecret, testIssuer)

	srv := httptest.NewServer(transport.NewRouter(auth, mp, push, validator, transport.RouterConfig{}))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func registerUser(t *testing.T, srv *httptest.Server, email string) string {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/auth/register", "", map[string]any{
		"name":     "Test User",
		"email":    email,
		"password": "long-enough-pw",
		"phone":    "555",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: status %d body %v", resp.StatusCode, body)
	}
	token, _ := body["accessToken"].(string)
	if token == "" {
		t.Fatalf("register: no access token in %v", body)
	}
	return token
}

func TestPublicKeyEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/push/public-key", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if body["publicKey"] != "test-public-key" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestSubscribeContract(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "push@example.com")

	sub := map[string]any{
		"subscription": map[string]any{
			"endpoint": "https://push.example.com/router-test",
			"keys":     map[string]string{"p256dh": "p", "auth": "a"},
		},
	}

	// No token: 401 before the body is even looked at.
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/push/subscribe", "", sub)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unauthenticated subscribe: status %d", resp.StatusCode)
	}

	// Valid subscribe: {"ok": true}.
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/push/subscribe", token, sub)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("subscribe: status %d body %v", resp.StatusCode, body)
	}
	if body["ok"] != true {
		t.Fatalf("expected ok:true, got %v", body)
	}

	// Missing endpoint: 400.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/push/subscribe", token, map[string]any{
		"subscription": map[string]any{"keys": map[string]string{"p256dh": "p", "auth": "a"}},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("subscribe without endpoint: status %d", resp.StatusCode)
	}
}

func TestUnsubscribeContract(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "push2@example.com")

	// Unknown endpoint still succeeds.
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/push/unsubscribe", token, map[string]any{
		"endpoint": "https://push.example.com/never-subscribed",
	})
	if resp.StatusCode != http.StatusOK || body["ok"] != true {
		t.Fatalf("unsubscribe: status %d body %v", resp.StatusCode, body)
	}

	// Missing endpoint: 400.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/push/unsubscribe", token, map[string]any{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unsubscribe without endpoint: status %d", resp.StatusCode)
	}

	// No token: 401.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/push/unsubscribe", "", map[string]any{"endpoint": "x"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unauthenticated unsubscribe: status %d", resp.StatusCode)
	}
}

func TestLoginContract(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "login@example.com")

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", "", map[string]string{
		"email":    "login@example.com",
		"password": "long-enough-pw",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: status %d body %v", resp.StatusCode, body)
	}
	if body["accessToken"] == "" {
		t.Fatalf("no token in %v", body)
	}

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", "", map[string]string{
		"email":    "login@example.com",
		"password": "wrong",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad login: status %d", resp.StatusCode)
	}
	if body["error"] != "invalid credentials" {
		t.Fatalf("unexpected error body %v", body)
	}
}

func TestProviderAndCatalogRoutes(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "prov@example.com")

	resp, provBody := doJSON(t, http.MethodPost, srv.URL+"/api/providers/", token, map[string]any{
		"businessName": "Electricidad MX",
		"description":  "Residential wiring",
		"specialties":  []string{"electrical"},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create provider: status %d body %v", resp.StatusCode, provBody)
	}

	resp, svcBody := doJSON(t, http.MethodPost, srv.URL+"/api/services/", token, map[string]any{
		"title":       "Panel upgrade",
		"description": "Replace breaker panels",
		"category":    "electrical",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create service: status %d body %v", resp.StatusCode, svcBody)
	}

	// Public listing sees the new service.
	resp, list := doJSON(t, http.MethodGet, srv.URL+"/api/services/?category=electrical", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list services: status %d", resp.StatusCode)
	}
	if total, _ := list["total"].(float64); total != 1 {
		t.Fatalf("expected total 1, got %v", list["total"])
	}

	// Unknown category: 400.
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/services/?category=nonsense", "", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad category: status %d", resp.StatusCode)
	}
}

func TestRootAndHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("root: status %d", resp.StatusCode)
	}
	if body["message"] != "Welcome to MaiPro API" {
		t.Fatalf("unexpected root body %v", body)
	}

	health, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	health.Body.Close()
	if health.StatusCode != http.StatusOK {
		t.Fatalf("healthz: status %d", health.StatusCode)
	}
}
