package config

import (
	"os"
	"strings"
	"time"
)

// Config dibaca dari environment. godotenv dimuat lebih dulu di main.
// Nilai kosong tidak menggagalkan startup; endpoint yang membutuhkannya
// akan mengembalikan error konfigurasi.
type Config struct {
	Port    string
	GinMode string

	ScriptURL          string
	AllowedScriptHosts []string
	HTTPTimeout        time.Duration

	JWTSecret string
	TokenTTL  time.Duration

	SuperAdminUsername string
	SuperAdminPassword string

	GoogleClientID   string
	OAuthRedirectURL string
	DriveFolderID    string

	CacheDriver string
	CacheDSN    string

	CORSOrigins []string

	ContentSecurityPolicy string
	HSTSMaxAge            time.Duration

	KafkaBrokers    []string
	KafkaOrderTopic string

	LogLevel string
}

var defaultScriptHosts = []string{"script.google.com", "script.googleusercontent.com"}

// API hanya mengembalikan JSON, tidak ada resource yang perlu dimuat.
const defaultCSP = "default-src 'none'; frame-ancestors 'none'"

func Load() *Config {
	return &Config{
		Port:    getEnv("PORT", "8080"),
		GinMode: os.Getenv("GIN_MODE"),

		ScriptURL:          firstEnv("GOOGLE_SCRIPT_URL", "NEXT_PUBLIC_GOOGLE_SCRIPT_URL"),
		AllowedScriptHosts: getList("GOOGLE_SCRIPT_ALLOWED_HOSTS", defaultScriptHosts),
		HTTPTimeout:        getDuration("HTTP_TIMEOUT", 30*time.Second),

		JWTSecret: os.Getenv("JWT_SECRET"),
		TokenTTL:  getDuration("TOKEN_TTL", 7*24*time.Hour),

		SuperAdminUsername: firstEnv("SUPERADMIN_USERNAME", "NEXT_PUBLIC_ADMIN_EMAIL"),
		SuperAdminPassword: firstEnv("SUPERADMIN_PASSWORD", "NEXT_PUBLIC_ADMIN_PASSWORD"),

		GoogleClientID:   firstEnv("GOOGLE_CLIENT_ID", "NEXT_PUBLIC_GOOGLE_CLIENT_ID"),
		OAuthRedirectURL: os.Getenv("OAUTH_REDIRECT_URL"),
		DriveFolderID:    os.Getenv("GOOGLE_DRIVE_FOLDER_ID"),

		CacheDriver: strings.ToLower(getEnv("CACHE_DRIVER", "sqlite")),
		CacheDSN:    getEnv("CACHE_DSN", "ekantin_cache.db"),

		CORSOrigins: getList("CORS_ORIGINS", []string{"*"}),

		ContentSecurityPolicy: getEnv("CONTENT_SECURITY_POLICY", defaultCSP),
		HSTSMaxAge:            getDurationAllowZero("HSTS_MAX_AGE", 365*24*time.Hour),

		KafkaBrokers:    getList("KAFKA_BROKERS", nil),
		KafkaOrderTopic: getEnv("KAFKA_ORDER_TOPIC", "ekantin.orders"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// ScriptHostAllowed mengecek host script terhadap allow list.
// "*" atau list kosong mengizinkan semua host.
func (c *Config) ScriptHostAllowed(host string) bool {
	return HostAllowed(c.AllowedScriptHosts, host)
}

func HostAllowed(allowed []string, host string) bool {
	if len(allowed) == 0 {
		return true
	}
	host = strings.ToLower(host)
	for _, h := range allowed {
		if h == "*" || strings.EqualFold(h, host) {
			return true
		}
		if strings.HasPrefix(h, ".") && strings.HasSuffix(host, strings.ToLower(h)) {
			return true
		}
	}
	return false
}

func (c *Config) SuperAdminConfigured() bool {
	return c.SuperAdminUsername != "" && c.SuperAdminPassword != ""
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// getDurationAllowZero sama dengan getDuration tetapi menerima "0".
func getDurationAllowZero(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

func getList(key string, fallback []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
