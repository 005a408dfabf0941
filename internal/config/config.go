package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	Neo4j   Neo4jConfig
	Influx  InfluxConfig
	Ollama  OllamaConfig
	Audit   AuditConfig
	Sensor  SensorConfig
	Toolkit ToolkitConfig
	Logging LoggingConfig
}

// ServerConfig holds the HTTP tool-server configuration
type ServerConfig struct {
	Host           string
	Port           int
	GinMode        string
	AllowedOrigins string
}

// Neo4jConfig holds graph store connection settings
type Neo4jConfig struct {
	URI      string
	User     string
	Password string
}

// InfluxConfig holds time-series store connection settings
type InfluxConfig struct {
	Host   string
	Token  string
	Org    string
	Bucket string
}

// OllamaConfig holds the inference endpoint settings
type OllamaConfig struct {
	URL         string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// AuditConfig holds the optional query-audit trail settings. Auditing is
// disabled when DSN is empty.
type AuditConfig struct {
	DSN     string
	Enabled bool
}

// SensorConfig holds the sensor-config file settings
type SensorConfig struct {
	Path     string
	CacheTTL time.Duration
}

// ToolkitConfig holds caps for the canned tool operations
type ToolkitConfig struct {
	RowLimit       int
	RoomCandidates int
	DefaultRange   string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Neo4j: Neo4jConfig{
			URI:      getEnv("NEO4J_URI", "bolt://neo4j:7687"),
			User:     getEnv("NEO4J_USER", "neo4j"),
			Password: getEnv("NEO4J_PASSWORD", "test"),
		},
		Influx: InfluxConfig{
			Host:   getEnv("INFLUX_HOST", "http://influxdb:8086"),
			Token:  getEnv("INFLUX_TOKEN", ""),
			Org:    getEnv("INFLUX_ORG", ""),
			Bucket: getEnv("INFLUX_BUCKET", "building"),
		},
		Ollama: OllamaConfig{
			URL:         getEnv("OLLAMA_URL", "http://ollama:11434"),
			Model:       getEnv("OLLAMA_MODEL", "qwen2.5-coder:1.5b"),
			MaxTokens:   getEnvAsInt("OLLAMA_MAX_TOKENS", 1024),
			Temperature: getEnvAsFloat("OLLAMA_TEMPERATURE", 0.0),
			Timeout:     time.Duration(getEnvAsInt("OLLAMA_TIMEOUT", 60)) * time.Second,
		},
		Audit: AuditConfig{
			DSN: getEnv("AUDIT_PG_DSN", ""),
		},
		Sensor: SensorConfig{
			Path:     getEnv("SENSOR_CONFIG_PATH", "sensor_config.json"),
			CacheTTL: time.Duration(getEnvAsInt("SENSOR_CONFIG_TTL", 60)) * time.Second,
		},
		Toolkit: ToolkitConfig{
			RowLimit:       getEnvAsInt("TOOLKIT_ROW_LIMIT", 50),
			RoomCandidates: getEnvAsInt("TOOLKIT_ROOM_CANDIDATES", 5),
			DefaultRange:   getEnv("TOOLKIT_DEFAULT_RANGE", "24h"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
	cfg.Audit.Enabled = cfg.Audit.DSN != ""

	return cfg, nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float value for %s, using default %f", key, defaultValue)
		return defaultValue
	}
	return value
}
