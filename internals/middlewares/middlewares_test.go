package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"bukuku_backend/internals/configs"
	helper "bukuku_backend/internals/helpers"
)

func newTestApp(cfg configs.AppConfig) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	SetupMiddlewares(app, cfg, nil)
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/panic", func(c *fiber.Ctx) error { panic("boom") })
	return app
}

func TestRequestIDAndRecovery(t *testing.T) {
	app := newTestApp(configs.AppConfig{RateLimitMax: 100, CORSOrigins: "*"})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ok", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK || resp.Header.Get(fiber.HeaderXRequestID) == "" {
		t.Fatalf("expected 200 with request id, got %d %q", resp.StatusCode, resp.Header.Get(fiber.HeaderXRequestID))
	}

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(fiber.HeaderXRequestID, "abc-123")
	resp, _ = app.Test(req)
	if got := resp.Header.Get(fiber.HeaderXRequestID); got != "abc-123" {
		t.Fatalf("incoming request id should be kept, got %q", got)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/panic", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("panic should become 500, got %d", resp.StatusCode)
	}
}

func TestRateLimiter(t *testing.T) {
	app := newTestApp(configs.AppConfig{RateLimitMax: 2, CORSOrigins: "*"})

	for i := 0; i < 2; i++ {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/ok", nil))
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, resp.StatusCode)
		}
	}
	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/ok", nil))
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.StatusCode)
	}
}

func TestCorsOrigins(t *testing.T) {
	app := newTestApp(configs.AppConfig{RateLimitMax: 100, CORSOrigins: "https://a.example, https://b.example"})

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(fiber.HeaderOrigin, "https://b.example")
	resp, _ := app.Test(req)
	if got := resp.Header.Get(fiber.HeaderAccessControlAllowOrigin); got != "https://b.example" {
		t.Fatalf("unexpected allow-origin %q", got)
	}
	if resp.Header.Get(fiber.HeaderAccessControlAllowCredentials) != "true" {
		t.Fatal("credentials should be allowed for an explicit origin list")
	}
}

func TestNewRedisStorageDisabled(t *testing.T) {
	s, err := NewRedisStorage(context.Background(), configs.RedisConfig{})
	if err != nil || s != nil {
		t.Fatalf("empty addr should disable redis storage, got %v %v", s, err)
	}
}
