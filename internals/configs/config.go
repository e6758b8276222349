package configs

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// =======================
// APP CONFIG
// =======================

type DBConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	AutoMigrate bool
}

// DSN dipakai driver postgres (statement_timeout selaras dengan timeout request)
func (d DBConfig) DSN() string {
	q := url.Values{}
	q.Set("sslmode", d.SSLMode)
	q.Set("application_name", "bukuku")
	q.Set("options", "-c statement_timeout=5000")
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + d.Port,
		Path:     "/" + d.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}

type OSSConfig struct {
	Endpoint        string
	Bucket          string
	AccessKey       string
	SecretKey       string
	SecurityToken   string
	CredentialsFile string
	PublicBase      string
	Prefix          string
}

type ModelConfig struct {
	Backend   string // linear | tfserving
	URL       string
	Path      string
	Features  []string
	Timeout   time.Duration
	TFServing TFServingConfig
}

type TFServingConfig struct {
	Endpoint string
	Model     string
	Version   string
	Signature string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AppConfig struct {
	Port         string
	DB           DBConfig
	OSS          OSSConfig
	Model        ModelConfig
	Redis        RedisConfig
	RateLimitMax int
	CORSOrigins  string
	LogLevel     string
	LogFormat    string
	MaxUploadMB  int
}

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Info().Msg("⚠️ Tidak menemukan .env file, menggunakan ENV dari sistem")
		} else {
			log.Info().Msg("✅ .env file berhasil dimuat!")
		}
	} else {
		log.Info().Msg("🚀 Running in Railway, menggunakan ENV dari sistem")
	}
}

// Load membaca seluruh konfigurasi dari ENV (panggil LoadEnv dulu).
func Load() AppConfig {
	cfg := AppConfig{
		Port: GetEnv("PORT", "8000"),
		DB: DBConfig{
			Host:        GetEnv("DB_HOST"),
			Port:        GetEnv("DB_PORT", "5432"),
			User:        GetEnv("DB_USER"),
			Password:    GetEnv("DB_PASSWORD"),
			Name:        GetEnv("DB_NAME"),
			SSLMode:     GetEnv("DB_SSLMODE", "require"),
			AutoMigrate: GetEnvBool("DB_AUTO_MIGRATE", true),
		},
		OSS: OSSConfig{
			Endpoint:        GetEnv("ALI_OSS_ENDPOINT"),
			Bucket:          GetEnv("ALI_OSS_BUCKET", "online-book-borrowing"),
			AccessKey:       GetEnv("ALI_OSS_ACCESS_KEY"),
			SecretKey:       GetEnv("ALI_OSS_SECRET_KEY"),
			SecurityToken:   GetEnv("ALI_OSS_SECURITY_TOKEN"),
			CredentialsFile: GetEnv("ALI_OSS_CREDENTIALS_FILE"),
			PublicBase:      GetEnv("ALI_OSS_PUBLIC_BASE"),
			Prefix:          GetEnv("ALI_OSS_PREFIX", "books"),
		},
		Model: ModelConfig{
			Backend:  strings.ToLower(GetEnv("MODEL_BACKEND", "linear")),
			URL:      GetEnv("MODEL_URL"),
			Path:     GetEnv("MODEL_PATH", "book_recommendation_model.json"),
			Features: SplitList(GetEnv("MODEL_FEATURES", "feature1,feature2,feature3")),
			Timeout:  GetEnvDuration("MODEL_TIMEOUT", 10*time.Second),
			TFServing: TFServingConfig{
				Endpoint:  GetEnv("TF_SERVING_ENDPOINT"),
				Model:     GetEnv("TF_SERVING_MODEL", "book_recommendation"),
				Version:   GetEnv("TF_SERVING_VERSION"),
				Signature: GetEnv("TF_SERVING_SIGNATURE", "serving_default"),
			},
		},
		Redis: RedisConfig{
			Addr:     GetEnv("REDIS_ADDR"),
			Password: GetEnv("REDIS_PASSWORD"),
			DB:       GetEnvInt("REDIS_DB", 0),
		},
		RateLimitMax: GetEnvInt("RATE_LIMIT_MAX", 100),
		CORSOrigins:  GetEnv("CORS_ORIGINS", "*"),
		LogLevel:     GetEnv("LOG_LEVEL", "info"),
		LogFormat:    GetEnv("LOG_FORMAT", "console"),
		MaxUploadMB:  GetEnvInt("MAX_UPLOAD_MB", 5),
	}
	return cfg
}

// Validate mengecek setting wajib sebelum server naik.
func (c AppConfig) Validate() error {
	var missing []string
	if c.DB.Host == "" {
		missing = append(missing, "DB_HOST")
	}
	if c.DB.User == "" {
		missing = append(missing, "DB_USER")
	}
	if c.DB.Name == "" {
		missing = append(missing, "DB_NAME")
	}
	if c.OSS.Endpoint == "" {
		missing = append(missing, "ALI_OSS_ENDPOINT")
	}
	if c.OSS.Bucket == "" {
		missing = append(missing, "ALI_OSS_BUCKET")
	}
	if c.OSS.AccessKey == "" && c.OSS.CredentialsFile == "" {
		missing = append(missing, "ALI_OSS_ACCESS_KEY|ALI_OSS_CREDENTIALS_FILE")
	}
	switch c.Model.Backend {
	case "linear":
		if c.Model.URL == "" && c.Model.Path == "" {
			missing = append(missing, "MODEL_URL|MODEL_PATH")
		}
	case "tfserving":
		if c.Model.TFServing.Endpoint == "" {
			missing = append(missing, "TF_SERVING_ENDPOINT")
		}
	default:
		return fmt.Errorf("MODEL_BACKEND tidak dikenal: %q (linear|tfserving)", c.Model.Backend)
	}
	if len(c.Model.Features) == 0 {
		missing = append(missing, "MODEL_FEATURES")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing env: %s", strings.Join(missing, ", "))
	}
	return nil
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	value = strings.TrimSpace(value)
	if (!exists || value == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetEnvInt(key string, def int) int {
	if v := GetEnv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
		log.Warn().Str("key", key).Str("value", v).Msg("[CONFIG] nilai int tidak valid, pakai default")
	}
	return def
}

func GetEnvBool(key string, def bool) bool {
	if v := GetEnv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func GetEnvDuration(key string, def time.Duration) time.Duration {
	if v := GetEnv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}

// SplitList: "a, b,,c" -> [a b c]
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
