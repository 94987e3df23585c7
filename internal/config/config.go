package config

import (
	"fmt"
	"os"
	"strings"
)

type Config struct {
	Port                string
	MongoDBURI          string
	MongoDBPassword     string
	MongoDBName         string
	JWTSecret           string
	Environment         string
	LogLevel            string
	AllowedOrigins      []string
	TicketBaseURL       string
	SuperAdminEmail     string
	SuperAdminPassword  string
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:                getEnvWithDefault("PORT", "5000"),
		MongoDBURI:          getEnvWithDefault("MONGODB_URI", os.Getenv("MONGO_URI")),
		MongoDBPassword:     os.Getenv("MONGODB_PASSWORD"),
		MongoDBName:         getEnvWithDefault("MONGODB_DB", "eventx"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		Environment:         getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:            getEnvWithDefault("LOG_LEVEL", "info"),
		AllowedOrigins:      splitList(getEnvWithDefault("FRONTEND_URL", "http://localhost:5173")),
		TicketBaseURL:       getEnvWithDefault("TICKET_BASE_URL", "http://localhost:5173/dashboard/tickets/details"),
		SuperAdminEmail:     os.Getenv("SUPER_ADMIN_EMAIL"),
		SuperAdminPassword:  os.Getenv("SUPER_ADMIN_PASSWORD"),
		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),
	}

	// Validate required fields
	if cfg.MongoDBURI == "" {
		return nil, fmt.Errorf("MONGODB_URI is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// CloudinaryEnabled reports whether image uploads can be served.
func (c *Config) CloudinaryEnabled() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}
