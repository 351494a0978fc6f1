package config

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/linesmerrill/pet-health-api/models"
)

const (
	defaultPort         = "8080"
	defaultEnv          = "local"
	defaultScanSchedule = "0 * * * *"
	defaultEmailFrom    = "no-reply@pethealth.app"
)

// Config holds the project config values
type Config struct {
	URL              string
	DatabaseName     string
	BaseURL          string
	Port             string
	Env              string
	JWTSecret        string
	SendgridAPIKey   string
	EmailFrom        string
	CloudinaryURL    string
	ScanSchedule     string
	SchedulerEnabled bool
	InstanceID       string
}

// New sets up all config related services
func New() *Config {
	// a missing .env is fine, the platform sets real env vars
	_ = godotenv.Load()

	env := getEnv("ENV", defaultEnv)

	//setup zap logger and replace default logger
	logger, err := setLogger(env)
	if err != nil {
		logger = zap.NewExample()
	}
	defer logger.Sync()
	_ = zap.ReplaceGlobals(logger)

	return &Config{
		URL:              os.Getenv("DB_URI"),
		DatabaseName:     os.Getenv("DB_NAME"),
		BaseURL:          os.Getenv("BASE_URL"),
		Port:             getEnv("PORT", defaultPort),
		Env:              env,
		JWTSecret:        os.Getenv("JWT_SECRET"),
		SendgridAPIKey:   os.Getenv("SENDGRID_API_KEY"),
		EmailFrom:        getEnv("EMAIL_FROM", defaultEmailFrom),
		CloudinaryURL:    os.Getenv("CLOUDINARY_URL"),
		ScanSchedule:     getEnv("SCAN_SCHEDULE", defaultScanSchedule),
		SchedulerEnabled: getBool("SCHEDULER_ENABLED", true),
		InstanceID:       os.Getenv("DYNO"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		zap.S().Warnw("invalid boolean env value, using default", "key", key, "value", v)
		return fallback
	}
	return b
}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	zap.S().Errorw(message, "error", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatusCode)
	b, _ := json.Marshal(models.ErrorMessageResponse{Response: fmt.Sprintf("%s, %v", message, err)})
	w.Write(b)
}
