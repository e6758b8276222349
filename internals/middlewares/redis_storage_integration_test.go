//go:build integration

package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"bukuku_backend/internals/configs"
)

func startRedis(t *testing.T) *RedisStorage {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if exec.CommandContext(ctx, "docker", "info").Run() != nil {
		t.Skip("Skipping test: Docker not available")
	}

	bg := context.Background()
	container, err := testcontainers.GenericContainer(bg, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start redis: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(bg)
	if err != nil {
		t.Fatal(err)
	}
	port, err := container.MappedPort(bg, "6379/tcp")
	if err != nil {
		t.Fatal(err)
	}
	s, err := NewRedisStorage(bg, configs.RedisConfig{Addr: host + ":" + port.Port()})
	if err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRedisStorage(t *testing.T) {
	s := startRedis(t)

	if v, err := s.Get("missing"); err != nil || v != nil {
		t.Fatalf("missing key: %v %v", v, err)
	}
	if err := s.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if v, _ := s.Get("k"); string(v) != "v" {
		t.Fatalf("expected v, got %q", v)
	}
	if err := s.Delete("k"); err != nil {
		t.Fatal(err)
	}
	_ = s.Set("a", []byte("1"), time.Minute)
	_ = s.Set("b", []byte("2"), time.Minute)
	if err := s.Reset(); err != nil {
		t.Fatal(err)
	}
	if v, _ := s.Get("a"); v != nil {
		t.Fatalf("reset should remove prefixed keys, got %q", v)
	}
}

func TestRateLimiterWithRedis(t *testing.T) {
	s := startRedis(t)

	app := fiber.New()
	app.Use(GlobalRateLimiter(1, s))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.StatusCode)
	}
}
