package utils

import (
	"Pantry-Planner/domain"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gopkg.in/yaml.v2"
)

type Config struct {
	// Server configuration
	AppPort  string `yaml:"APP_PORT"`
	Timezone string `yaml:"TIMEZONE"`

	// Database configuration
	DBDriver   string `yaml:"DB_DRIVER"`
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`
	SQLitePath string `yaml:"SQLITE_PATH"`

	// Mailing configuration
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`
	AlertMailTo      string `yaml:"ALERT_MAIL_TO"`

	// AWS S3 configuration
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`

	// Pantry alerts
	LowStockThresholds  map[string]float64 `yaml:"LOW_STOCK_THRESHOLDS"`
	ExpiryWindowDays    *int               `yaml:"EXPIRY_WINDOW_DAYS"`
	AlertBufferCapacity int                `yaml:"ALERT_BUFFER_CAPACITY"`
	ScanIntervalMinutes int                `yaml:"SCAN_INTERVAL_MINUTES"`
}

var config Config

func LoadConfig() {
	if err := LoadConfigFile("config.yaml"); err != nil {
		log.Warnw("config file not loaded, using defaults", "error", err)
	}
}

// LoadConfigFile replaces the active configuration with the contents of path.
func LoadConfigFile(path string) error {
	file, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var parsed Config
	if err := yaml.Unmarshal(file, &parsed); err != nil {
		return err
	}
	config = parsed
	return nil
}

func GetConfig(key string) string {
	switch key {
	case "APP_PORT":
		if config.AppPort == "" {
			return "8080"
		}
		return config.AppPort
	case "TIMEZONE":
		return config.Timezone
	case "DB_DRIVER":
		if config.DBDriver == "" {
			return "postgres"
		}
		return config.DBDriver
	case "DB_USER":
		return config.DBUser
	case "DB_NAME":
		return config.DBName
	case "DB_PASSWORD":
		return config.DBPassword
	case "DB_PORT":
		return config.DBPort
	case "DB_HOST":
		return config.DBHost
	case "SQLITE_PATH":
		if config.SQLitePath == "" {
			return "pantry.db"
		}
		return config.SQLitePath
	case "SMTP_HOST":
		return config.SMTPHost
	case "SMTP_PORT":
		return config.SMTPPort
	case "SMTP_SENDER_NAME":
		return config.SMTPSenderName
	case "SMTP_AUTH_EMAIL":
		return config.SMTPAuthEmail
	case "SMTP_AUTH_PASSWORD":
		return config.SMTPAuthPassword
	case "ALERT_MAIL_TO":
		return config.AlertMailTo
	case "AWS_S3_BUCKET":
		return config.AWSS3Bucket
	case "AWS_S3_REGION":
		return config.AWSS3Region
	case "AWS_ACCESS_KEY":
		return config.AWSAccessKey
	case "AWS_SECRET_KEY":
		return config.AWSSecretKey
	case "SCAN_INTERVAL_MINUTES":
		return strconv.Itoa(config.ScanIntervalMinutes)
	default:
		return ""
	}
}

// GetAlertConfig returns the alert settings with defaults filled in. The
// threshold map is a private copy.
func GetAlertConfig() domain.AlertConfig {
	thresholds := config.LowStockThresholds
	if len(thresholds) == 0 {
		thresholds = domain.DefaultLowStockThresholds()
	}
	copied := make(map[string]float64, len(thresholds))
	for unit, t := range thresholds {
		copied[unit] = t
	}

	window := domain.DefaultExpiryWindowDays
	if config.ExpiryWindowDays != nil && *config.ExpiryWindowDays >= 0 {
		window = *config.ExpiryWindowDays
	}

	capacity := config.AlertBufferCapacity
	if capacity <= 0 {
		capacity = domain.DefaultBufferCapacity
	}

	return domain.AlertConfig{
		LowStockThresholds: copied,
		ExpiryWindowDays:   window,
		BufferCapacity:     capacity,
	}
}

// GetLocation resolves TIMEZONE, falling back to the local zone.
func GetLocation() *time.Location {
	if config.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(config.Timezone)
	if err != nil {
		log.Warnw("unknown timezone, using local", "timezone", config.Timezone, "error", err)
		return time.Local
	}
	return loc
}

func GetScanInterval() time.Duration {
	if config.ScanIntervalMinutes <= 0 {
		return 0
	}
	return time.Duration(config.ScanIntervalMinutes) * time.Minute
}
