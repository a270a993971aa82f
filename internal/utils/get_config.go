package utils

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	// Application
	AppPort  string `yaml:"APP_PORT"`
	AppEnv   string `yaml:"APP_ENV"`
	AppURL   string `yaml:"APP_URL"`
	TimeZone string `yaml:"TIMEZONE"`

	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`

	// JWT
	JWTSecret string `yaml:"JWT_SECRET"`

	// Mailing configuration
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`

	// AWS S3 configuration
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`

	// Redis (analytics cache), empty address disables caching
	RedisAddr         string `yaml:"REDIS_ADDR"`
	RedisPassword     string `yaml:"REDIS_PASSWORD"`
	RedisDB           string `yaml:"REDIS_DB"`
	AnalyticsCacheTTL string `yaml:"ANALYTICS_CACHE_TTL"`
}

var config Config

// LoadConfig reads config.yaml, then lets environment variables (optionally
// from a .env file) override any key.
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	file, err := os.ReadFile("config.yaml")
	if err != nil {
		log.Printf("Error reading YAML file: %s\n", err)
	} else if err := yaml.Unmarshal(file, &config); err != nil {
		log.Printf("Error parsing YAML file: %s\n", err)
	}

	for key, field := range config.fields() {
		if v, ok := os.LookupEnv(key); ok {
			*field = v
		}
	}
}

func (c *Config) fields() map[string]*string {
	return map[string]*string{
		"APP_PORT":            &c.AppPort,
		"APP_ENV":             &c.AppEnv,
		"APP_URL":             &c.AppURL,
		"TIMEZONE":            &c.TimeZone,
		"DB_USER":             &c.DBUser,
		"DB_NAME":             &c.DBName,
		"DB_PASSWORD":         &c.DBPassword,
		"DB_PORT":             &c.DBPort,
		"DB_HOST":             &c.DBHost,
		"JWT_SECRET":          &c.JWTSecret,
		"SMTP_HOST":           &c.SMTPHost,
		"SMTP_PORT":           &c.SMTPPort,
		"SMTP_SENDER_NAME":    &c.SMTPSenderName,
		"SMTP_AUTH_EMAIL":     &c.SMTPAuthEmail,
		"SMTP_AUTH_PASSWORD":  &c.SMTPAuthPassword,
		"AWS_S3_BUCKET":       &c.AWSS3Bucket,
		"AWS_S3_REGION":       &c.AWSS3Region,
		"AWS_ACCESS_KEY":      &c.AWSAccessKey,
		"AWS_SECRET_KEY":      &c.AWSSecretKey,
		"REDIS_ADDR":          &c.RedisAddr,
		"REDIS_PASSWORD":      &c.RedisPassword,
		"REDIS_DB":            &c.RedisDB,
		"ANALYTICS_CACHE_TTL": &c.AnalyticsCacheTTL,
	}
}

func GetConfig(key string) string {
	if field, ok := config.fields()[key]; ok {
		return *field
	}
	return ""
}

// GetConfigOr returns the configured value for key, or fallback when unset.
func GetConfigOr(key, fallback string) string {
	if v := GetConfig(key); v != "" {
		return v
	}
	return fallback
}
