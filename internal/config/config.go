package config

import (
	"errors"
	"os"
	"strings"
	"time"
)

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr                 string
	Backend              string
	MongoURI             string
	MongoDatabase        string
	ReviewCollection     string
	MongoConnectTimeout  time.Duration
	LocalStoreDSN        string
	DeviceTokenSecret    []byte
	DeviceCookieSecure   bool
	AdminQueryParam      string
	AdminQueryValue      string
	PurgeTargetName      string
	PurgeTargetText      string
	MarkerFallback       string
	AllowedOrigins       []string
	MessengerEndpoint    string
	MessengerDestination string
	MessengerTimeout     time.Duration
	LogLevel             string
}

// ErrMissingDeviceSecret is returned by Validate when DEVICE_TOKEN_SECRET is unset.
var ErrMissingDeviceSecret = errors.New("DEVICE_TOKEN_SECRET must be configured")

// Load reads environment variables and returns a fully populated Config.
// Remote backend settings are taken as-is; the backend selector decides
// whether they are usable.
func Load() Config {
	return Config{
		Addr:                 envOrDefault("HTTP_ADDR", ":8080"),
		Backend:              strings.ToLower(strings.TrimSpace(envOrDefault("REVIEW_BACKEND", "local"))),
		MongoURI:             strings.TrimSpace(os.Getenv("MONGO_URI")),
		MongoDatabase:        envOrDefault("MONGO_DB", "review-wall"),
		ReviewCollection:     envOrDefault("REVIEW_COLLECTION", "reviews"),
		MongoConnectTimeout:  durationOrDefault("MONGO_CONNECT_TIMEOUT", 10*time.Second),
		LocalStoreDSN:        envOrDefault("LOCAL_STORE_DSN", "file:review-wall.db"),
		DeviceTokenSecret:    []byte(strings.TrimSpace(os.Getenv("DEVICE_TOKEN_SECRET"))),
		DeviceCookieSecure:   strings.EqualFold(strings.TrimSpace(os.Getenv("DEVICE_COOKIE_SECURE")), "true"),
		AdminQueryParam:      envOrDefault("ADMIN_QUERY_PARAM", "admin"),
		AdminQueryValue:      envOrDefault("ADMIN_QUERY_VALUE", "1"),
		PurgeTargetName:      envOrDefault("PURGE_TARGET_NAME", "Anh Thư"),
		PurgeTargetText:      envOrDefault("PURGE_TARGET_TEXT", "Khùng"),
		MarkerFallback:       envOrDefault("MARKER_FALLBACK", "none"),
		AllowedOrigins:       parseList("API_ALLOWED_ORIGINS", []string{"*"}),
		MessengerEndpoint:    strings.TrimRight(strings.TrimSpace(os.Getenv("MESSENGER_GATEWAY_URL")), "/"),
		MessengerDestination: strings.TrimSpace(os.Getenv("MESSENGER_ADMIN_DESTINATION")),
		MessengerTimeout:     durationOrDefault("MESSENGER_GATEWAY_TIMEOUT", 3*time.Second),
		LogLevel:             envOrDefault("LOG_LEVEL", "info"),
	}
}

// Validate reports settings the service cannot start without.
func (c Config) Validate() error {
	if len(c.DeviceTokenSecret) == 0 {
		return ErrMissingDeviceSecret
	}
	return nil
}

// NotificationsEnabled reports whether both messenger settings are present.
func (c Config) NotificationsEnabled() bool {
	return c.MessengerEndpoint != "" && c.MessengerDestination != ""
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOrDefault(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func parseList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
