package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
)

type Config struct {
	HTTPAddr       string
	Mode           string
	UseMockInDev   bool
	MapsAPIKey     string
	SubmissionsDir string
	HTTPTimeout    time.Duration
	LogLevel       string
	GelfAddr       string

	Geocoder     string
	NominatimURL string
	PlacesURL    string
	UserAgent    string

	JWTSecret  string
	AdminEmail string
	AdminPass  string

	KafkaBroker string
	KafkaTopic  string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	MinioBucket    string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment
// variables take precedence over it.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		HTTPAddr:       ":" + getEnv("PORT", "3000"),
		Mode:           getEnv("APP_MODE", getEnv("NODE_ENV", ModeDevelopment)),
		UseMockInDev:   getEnvBool("USE_MOCK_IN_DEVELOPMENT", true),
		MapsAPIKey:     getEnv("GOOGLE_MAPS_API_KEY", "your-api-key-here"),
		SubmissionsDir: getEnv("SUBMISSIONS_DIR", "submissions"),
		HTTPTimeout:    getEnvDuration("HTTP_TIMEOUT", 10*time.Second),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		GelfAddr:       os.Getenv("GELF_ADDR"),

		Geocoder:     getEnv("GEOCODER", "nominatim"),
		NominatimURL: getEnv("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		PlacesURL:    getEnv("PLACES_URL", "https://maps.googleapis.com/maps/api/place/add/json"),
		UserAgent:    getEnv("USER_AGENT", "putmeonmap/1.0"),

		JWTSecret:  os.Getenv("JWT_SECRET"),
		AdminEmail: getEnv("ADMIN_EMAIL", "admin@putmeonmap.local"),
		AdminPass:  os.Getenv("ADMIN_PASSWORD"),

		KafkaBroker: os.Getenv("KAFKA_BROKER"),
		KafkaTopic:  getEnv("KAFKA_TOPIC", "place-submissions"),

		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioUseSSL:    getEnvBool("MINIO_USE_SSL", false),
		MinioBucket:    getEnv("MINIO_BUCKET", "place-submissions"),
	}
}

// MockMode reports whether submissions skip the places API.
func (c *Config) MockMode() bool {
	return c.Mode == ModeDevelopment && c.UseMockInDev
}

// AuthEnabled reports whether the listing routes require a token.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
