package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Location sources understood by LOCATION_SOURCE.
const (
	LocationSourceStatic = "static"
	LocationSourceIP     = "ip"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string `validate:"required"`
	LogLevel        string `validate:"oneof=debug info warn warning error"`
	LogFormat       string `validate:"oneof=json text"`
	ShutdownTimeout time.Duration

	// OpenWeatherMap settings. The API key is deliberately not required:
	// a missing key surfaces as a decode failure on the first request.
	OpenWeatherAPIKey   string
	OpenWeatherBaseURL  string        `validate:"required,url"`
	OpenWeatherIconURL  string        `validate:"required,url"`
	HTTPTimeout         time.Duration `validate:"gt=0"`
	IconCacheDir        string        `validate:"required"`
	RefreshInterval     time.Duration `validate:"gt=0"`
	RandomCitiesEnabled bool

	// Device location settings.
	LocationEnabled bool
	LocationSource  string  `validate:"oneof=static ip"`
	LocationLat     float64 `validate:"gte=-90,lte=90"`
	LocationLon     float64 `validate:"gte=-180,lte=180"`
	IPAPIURL        string  `validate:"required,url"`

	// Mapbox geocoding configuration.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration `validate:"gt=0"`
	MapboxCacheSize int           `validate:"gt=0"`

	// Kafka view sink; disabled when no brokers are configured.
	KafkaBrokers []string
	KafkaTopic   string `validate:"required_with=KafkaBrokers"`
}

var validate = validator.New()

// Load reads configuration from environment variables, applying defaults where
// unset. A .env file in the working directory is applied first when present;
// variables already set in the environment win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	httpTimeout, err := parsePositiveDuration("HTTP_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	mapboxTimeout, err := parsePositiveDuration("MAPBOX_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	refreshInterval, err := parsePositiveDuration("REFRESH_INTERVAL", "1h")
	if err != nil {
		return nil, err
	}
	mapboxCacheSize, err := parsePositiveInt("MAPBOX_CACHE_SIZE", "1000")
	if err != nil {
		return nil, err
	}

	lat, err := parseFloat("LOCATION_LAT", "37.966667")
	if err != nil {
		return nil, err
	}
	lon, err := parseFloat("LOCATION_LON", "23.716667")
	if err != nil {
		return nil, err
	}

	iconDir, err := iconCacheDir()
	if err != nil {
		return nil, err
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        strings.ToLower(sharedcfg.EnvOrDefault("LOG_LEVEL", "info")),
		LogFormat:       strings.ToLower(sharedcfg.EnvOrDefault("LOG_FORMAT", "json")),
		ShutdownTimeout: shutdownTimeout,

		OpenWeatherAPIKey:   os.Getenv("OPENWEATHER_API_KEY"),
		OpenWeatherBaseURL:  strings.TrimRight(sharedcfg.EnvOrDefault("OPENWEATHER_BASE_URL", "https://api.openweathermap.org"), "/"),
		OpenWeatherIconURL:  strings.TrimRight(sharedcfg.EnvOrDefault("OPENWEATHER_ICON_BASE_URL", "https://openweathermap.org"), "/"),
		HTTPTimeout:         httpTimeout,
		IconCacheDir:        iconDir,
		RefreshInterval:     refreshInterval,
		RandomCitiesEnabled: os.Getenv("RANDOM_CITIES_ENABLED") != "false",

		LocationEnabled: os.Getenv("LOCATION_ENABLED") != "false",
		LocationSource:  strings.ToLower(sharedcfg.EnvOrDefault("LOCATION_SOURCE", LocationSourceStatic)),
		LocationLat:     lat,
		LocationLon:     lon,
		IPAPIURL:        sharedcfg.EnvOrDefault("IPAPI_URL", "http://ip-api.com/json"),

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: mapboxCacheSize,

		KafkaBrokers: parseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "weather-views"),
	}

	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", describe(err))
	}

	return cfg, nil
}

// envNames maps struct fields to the variables that populate them so
// validation errors point at something the operator can change.
var envNames = map[string]string{
	"HTTPAddr":           "HTTP_ADDR",
	"LogLevel":           "LOG_LEVEL",
	"LogFormat":          "LOG_FORMAT",
	"OpenWeatherBaseURL": "OPENWEATHER_BASE_URL",
	"OpenWeatherIconURL": "OPENWEATHER_ICON_BASE_URL",
	"IconCacheDir":       "ICON_CACHE_DIR",
	"LocationSource":     "LOCATION_SOURCE",
	"LocationLat":        "LOCATION_LAT",
	"LocationLon":        "LOCATION_LON",
	"IPAPIURL":           "IPAPI_URL",
	"MapboxCacheSize":    "MAPBOX_CACHE_SIZE",
	"KafkaTopic":         "KAFKA_TOPIC",
}

func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		if env, ok := envNames[name]; ok {
			name = env
		}
		msgs = append(msgs, fmt.Sprintf("%s failed %q", name, fe.Tag()))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseFloat(key, def string) (float64, error) {
	f, err := strconv.ParseFloat(sharedcfg.EnvOrDefault(key, def), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func iconCacheDir() (string, error) {
	if dir := os.Getenv("ICON_CACHE_DIR"); dir != "" {
		return dir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("ICON_CACHE_DIR unset and no user cache dir: %w", err)
	}
	return filepath.Join(base, "weather-client", "icons"), nil
}

func parsePositiveInt(key, def string) (int, error) {
	n, err := strconv.Atoi(sharedcfg.EnvOrDefault(key, def))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func parseBrokers(s string) []string {
	brokers := sharedcfg.ParseBrokers(s)
	if len(brokers) == 0 {
		return nil
	}
	return brokers
}
