// Package config loads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Storage drivers
const (
	StorageMemory   = "memory"
	StorageMongo    = "mongo"
	StoragePostgres = "postgres"
)

// Image hosts
const (
	ImageHostCloudinary = "cloudinary"
	ImageHostGridFS     = "gridfs"
)

// Auth modes
const (
	AuthJWT    = "jwt"
	AuthRemote = "remote"
)

// Config holds the whole service configuration
type Config struct {
	Port     string
	LogLevel string
	AppName  string

	StorageDriver string
	MongoURI      string
	MongoDatabase string
	PostgresURL   string

	ImageHost     string
	Cloudinary    CloudinaryConfig
	UploadFolder  string
	PublicBaseURL string

	AuthMode            string
	JWTSecret           string
	JWTIssuer           string
	IdentityValidateURL string

	CORSAllowedOrigins []string

	FluentBit FluentBitConfig
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	BaseURL   string
}

type FluentBitConfig struct {
	Enabled bool
	Host    string
	Port    int
}

// Load reads an optional .env file and the environment, then validates the result
func Load(envPath ...string) (*Config, error) {
	if err := godotenv.Load(envPath...); err != nil {
		log.Debug("no .env file found, using environment variables")
	}

	cfg := &Config{
		Port:     getEnv("PORT", "3000"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		AppName:  getEnv("APP_NAME", "listing-marketplace"),

		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", StorageMemory)),
		MongoURI:      getEnv("MONGODB_URI", ""),
		MongoDatabase: getEnv("MONGODB_DATABASE", "marketplace"),
		PostgresURL:   getEnv("DATABASE_URL", ""),

		ImageHost: strings.ToLower(getEnv("IMAGE_HOST", ImageHostCloudinary)),
		Cloudinary: CloudinaryConfig{
			CloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:    getEnv("CLOUDINARY_API_KEY", ""),
			APISecret: getEnv("CLOUDINARY_API_SECRET", ""),
			BaseURL:   getEnv("CLOUDINARY_BASE_URL", ""),
		},
		UploadFolder:  getEnv("UPLOAD_FOLDER", "sitestate"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),

		AuthMode:            strings.ToLower(getEnv("AUTH_MODE", AuthJWT)),
		JWTSecret:           getEnv("JWT_SECRET", ""),
		JWTIssuer:           getEnv("JWT_ISSUER", ""),
		IdentityValidateURL: getEnv("IDENTITY_VALIDATE_URL", ""),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
	}

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = getEnv("FLUENTBIT_HOST", "")
		if cfg.FluentBit.Host == "" {
			log.Warn("FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}
		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
	}

	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = "http://localhost:" + cfg.Port
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that every selected backend has what it needs
func (c *Config) Validate() error {
	var errs []error

	switch c.StorageDriver {
	case StorageMemory:
	case StorageMongo:
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGODB_URI is required for the mongo storage driver"))
		}
	case StoragePostgres:
		if c.PostgresURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres storage driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver))
	}

	switch c.ImageHost {
	case ImageHostCloudinary:
		if c.Cloudinary.CloudName == "" || c.Cloudinary.APIKey == "" || c.Cloudinary.APISecret == "" {
			errs = append(errs, errors.New("CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required for the cloudinary image host"))
		}
	case ImageHostGridFS:
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGODB_URI is required for the gridfs image host"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown IMAGE_HOST %q", c.ImageHost))
	}

	switch c.AuthMode {
	case AuthJWT:
		if c.JWTSecret == "" {
			errs = append(errs, errors.New("JWT_SECRET is required for jwt auth"))
		}
	case AuthRemote:
		if c.IdentityValidateURL == "" {
			errs = append(errs, errors.New("IDENTITY_VALIDATE_URL is required for remote auth"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown AUTH_MODE %q", c.AuthMode))
	}

	return errors.Join(errs...)
}

// getEnv reads an environment variable with a fallback
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.WithFields(log.Fields{"key": key, "value": valueStr}).Warn("could not parse env var as int, using default")
		return defaultValue
	}
	return valueInt
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueBool, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.WithFields(log.Fields{"key": key, "value": valueStr}).Warn("could not parse env var as bool, using default")
		return defaultValue
	}
	return valueBool
}

// getEnvAsList splits a comma separated variable, dropping empty entries
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
