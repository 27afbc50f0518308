package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ReservationModeSequential    = "sequential"
	ReservationModeTransactional = "transactional"

	DataBackendFirestore = "firestore"
	DataBackendMemory    = "memory"
)

type Config struct {
	ServerPort  string
	Environment string

	FirebaseProject            string
	FirebaseApiKey             string
	FirebaseServiceAccountJSON string
	FirebaseServiceAccountPath string
	StorageBucket              string

	DataBackend     string
	ReservationMode string
	RedisURL        string

	CORSAllowedOrigins []string

	// Per-user action limits.
	ReserveEvery     time.Duration
	ReserveBurst     int
	SendMessageEvery time.Duration
	SendMessageBurst int

	// Per-IP limit on the public auth endpoints.
	AuthRequestsPerMinute int
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		FirebaseProject:            getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseApiKey:             getEnv("FIREBASE_API_KEY", ""),
		FirebaseServiceAccountJSON: getEnv("FIREBASE_SERVICE_ACCOUNT_JSON", ""),
		FirebaseServiceAccountPath: getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", ""),
		StorageBucket:              getEnv("STORAGE_BUCKET", ""),

		DataBackend:     strings.ToLower(getEnv("DATA_BACKEND", DataBackendFirestore)),
		ReservationMode: strings.ToLower(getEnv("RESERVATION_MODE", ReservationModeSequential)),
		RedisURL:        getEnv("REDIS_URL", ""),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),

		ReserveEvery:     getEnvAsDuration("RATE_RESERVE_EVERY", 10*time.Second),
		ReserveBurst:     getEnvAsInt("RATE_RESERVE_BURST", 5),
		SendMessageEvery: getEnvAsDuration("RATE_SEND_MESSAGE_EVERY", 2*time.Second),
		SendMessageBurst: getEnvAsInt("RATE_SEND_MESSAGE_BURST", 10),

		AuthRequestsPerMinute: getEnvAsInt("RATE_AUTH_PER_MINUTE", 30),
	}

	return config, nil
}

// TransactionalReservations reports whether reservations run as a single
// store transaction instead of the default sequence of independent writes.
func (c *Config) TransactionalReservations() bool {
	return c.ReservationMode == ReservationModeTransactional
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.Atoi(value)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
