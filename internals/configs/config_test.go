package configs

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{
		"PORT", "ALI_OSS_BUCKET", "ALI_OSS_PREFIX", "MODEL_BACKEND", "MODEL_PATH",
		"MODEL_FEATURES", "MODEL_TIMEOUT", "RATE_LIMIT_MAX", "CORS_ORIGINS", "DB_SSLMODE",
	} {
		t.Setenv(k, "")
	}

	cfg := Load()
	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %q", cfg.Port)
	}
	if cfg.OSS.Bucket != "online-book-borrowing" || cfg.OSS.Prefix != "books" {
		t.Errorf("unexpected oss defaults %+v", cfg.OSS)
	}
	if cfg.Model.Backend != "linear" || cfg.Model.Path != "book_recommendation_model.json" {
		t.Errorf("unexpected model defaults %+v", cfg.Model)
	}
	if len(cfg.Model.Features) != 3 || cfg.Model.Features[0] != "feature1" {
		t.Errorf("unexpected feature order %v", cfg.Model.Features)
	}
	if cfg.Model.Timeout != 10*time.Second {
		t.Errorf("unexpected timeout %v", cfg.Model.Timeout)
	}
	if cfg.RateLimitMax != 100 || cfg.CORSOrigins != "*" {
		t.Errorf("unexpected http defaults %d %q", cfg.RateLimitMax, cfg.CORSOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MODEL_BACKEND", " TFServing ")
	t.Setenv("MODEL_FEATURES", "a, b,,c")
	t.Setenv("MODEL_TIMEOUT", "250ms")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("DB_AUTO_MIGRATE", "false")

	cfg := Load()
	if cfg.Model.Backend != "tfserving" {
		t.Errorf("expected lowercased backend, got %q", cfg.Model.Backend)
	}
	if got := cfg.Model.Features; len(got) != 3 || got[2] != "c" {
		t.Errorf("unexpected features %v", got)
	}
	if cfg.Model.Timeout != 250*time.Millisecond {
		t.Errorf("unexpected timeout %v", cfg.Model.Timeout)
	}
	if cfg.Redis.DB != 3 {
		t.Errorf("unexpected redis db %d", cfg.Redis.DB)
	}
	if cfg.DB.AutoMigrate {
		t.Error("expected auto migrate disabled")
	}
}

func TestGetEnvFallbacks(t *testing.T) {
	t.Setenv("X_INT", "nope")
	t.Setenv("X_BOOL", "maybe")
	t.Setenv("X_DUR", "soon")
	if GetEnvInt("X_INT", 7) != 7 {
		t.Error("expected int fallback")
	}
	if !GetEnvBool("X_BOOL", true) {
		t.Error("expected bool fallback")
	}
	if GetEnvDuration("X_DUR", time.Second) != time.Second {
		t.Error("expected duration fallback")
	}
	if GetEnv("X_MISSING_KEY", "d") != "d" {
		t.Error("expected string fallback")
	}
}

func validConfig() AppConfig {
	return AppConfig{
		DB:  DBConfig{Host: "localhost", User: "u", Name: "buku"},
		OSS: OSSConfig{Endpoint: "oss-ap-southeast-5.aliyuncs.com", Bucket: "b", AccessKey: "ak"},
		Model: ModelConfig{
			Backend:  "linear",
			Path:     "model.json",
			Features: []string{"feature1"},
		},
	}
}

func TestValidate(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	cfg := validConfig()
	cfg.DB.Host = ""
	cfg.OSS.AccessKey = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected missing env error")
	}

	cfg = validConfig()
	cfg.OSS.AccessKey = ""
	cfg.OSS.CredentialsFile = "/etc/oss.json"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("credentials file should satisfy oss credentials: %v", err)
	}

	cfg = validConfig()
	cfg.Model.Backend = "tfserving"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected TF_SERVING_ENDPOINT to be required")
	}

	cfg = validConfig()
	cfg.Model.Backend = "onnx"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected unknown backend error")
	}
}

func TestDSNEscapesCredentials(t *testing.T) {
	d := DBConfig{Host: "db", Port: "5432", User: "app", Password: "p@ss word", Name: "buku", SSLMode: "disable"}
	got := d.DSN()
	want := "postgres://app:p%40ss%20word@db:5432/buku?application_name=bukuku&options=-c+statement_timeout%3D5000&sslmode=disable"
	if got != want {
		t.Fatalf("DSN:\n got  %s\n want %s", got, want)
	}
}
