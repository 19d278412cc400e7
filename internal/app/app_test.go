package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/lexiprogress-backend/internal/platform/logger"
	"github.com/yungbote/lexiprogress-backend/internal/services"
)

func newSQLiteApp(t *testing.T) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)
	hash, err := bcrypt.GenerateFromPassword([]byte("bot-key"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "app.db"))
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	t.Setenv("BOT_API_KEY_HASH", string(hash))
	t.Setenv("APP_BASE_URL", "https://app.example.com/login")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("OTEL_ENABLED", "false")

	a, err := New(context.Background(), logger.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(a.Close)
	return a
}

func call(t *testing.T, h http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestBotProvisioningToDashboardFlow(t *testing.T) {
	a := newSQLiteApp(t)
	h := a.Server.Engine

	if rec := call(t, h, http.MethodGet, "/healthcheck", nil, nil); rec.Code != http.StatusOK {
		t.Fatalf("healthcheck: %d", rec.Code)
	}

	rec := call(t, h, http.MethodPost, "/api/bot/users", map[string]any{
		"telegram_id":       4242,
		"telegram_username": "@learner",
	}, map[string]string{"X-Bot-Key": "bot-key"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("provision: %d %s", rec.Code, rec.Body.String())
	}
	var provisioned services.ProvisionedUser
	if err := json.Unmarshal(rec.Body.Bytes(), &provisioned); err != nil {
		t.Fatalf("decode provision: %v", err)
	}
	appURL, err := url.Parse(provisioned.AppURL)
	if err != nil {
		t.Fatalf("app url: %v", err)
	}
	loginToken := appURL.Query().Get("token")
	if loginToken == "" {
		t.Fatalf("app url has no token: %s", provisioned.AppURL)
	}

	rec = call(t, h, http.MethodPost, "/api/auth/token", map[string]string{"token": loginToken}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("exchange: %d %s", rec.Code, rec.Body.String())
	}
	var exchange services.TokenExchange
	if err := json.Unmarshal(rec.Body.Bytes(), &exchange); err != nil {
		t.Fatalf("decode exchange: %v", err)
	}
	if exchange.UserID != provisioned.UserID {
		t.Fatalf("exchange user = %s, want %s", exchange.UserID, provisioned.UserID)
	}

	bearer := map[string]string{"Authorization": "Bearer " + exchange.AccessToken}
	rec = call(t, h, http.MethodGet, "/api/dashboard", nil, bearer)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard: %d %s", rec.Code, rec.Body.String())
	}
	var dash services.Dashboard
	if err := json.Unmarshal(rec.Body.Bytes(), &dash); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}
	if dash.User.ID != provisioned.UserID {
		t.Fatalf("dashboard user = %s", dash.User.ID)
	}

	rec = call(t, h, http.MethodPost, "/api/sessions", nil, bearer)
	if rec.Code != http.StatusCreated {
		t.Fatalf("start session: %d %s", rec.Code, rec.Body.String())
	}
}
