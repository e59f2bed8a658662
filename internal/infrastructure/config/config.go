package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	config     *Config
	configOnce sync.Once
)

// Config stores all configuration of the application
type Config struct {
	// Environment type
	EnvType string

	// Database
	DBDriver        string // mysql, postgres, sqlite
	DBHost          string
	DBUser          string
	DBPassword      string
	DBName          string
	DBPort          string
	DBPath          string // sqlite file path
	DBMigrationMode string // "auto"(default) or "drop"
	DBLogLevel      string // silent, error, warn, info

	// Server
	ServerPort  string
	CORSOrigin  string
	GinMode     string
	MaxUploadMB int64

	// Redis session store; empty host keeps sessions in memory
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Sessions
	JWTSecretKey string
	SessionTTL   time.Duration

	// Blob storage for resident ID documents
	BlobDriver        string // s3 or memory
	BlobS3Bucket      string
	BlobS3Region      string
	BlobS3Endpoint    string
	BlobS3PathStyle   bool
	BlobPublicBaseURL string

	// MQTT blotter events; empty broker disables publishing
	MQTTBrokerURL   string
	MQTTClientID    string
	MQTTUsername    string
	MQTTPassword    string
	MQTTQoS         int
	MQTTTopicPrefix string

	// Admin
	DefaultAdminUsername string
	DefaultAdminPassword string
}

// Load reads the configuration from the environment based on ENV_TYPE.
func Load() (*Config, error) {
	envType := strings.ToUpper(getEnv("ENV_TYPE", "LOCAL"))
	var prefix string
	switch envType {
	case "LOCAL":
		prefix = "LOCAL_"
	case "SERVER":
		prefix = "SERVER_"
	default:
		fmt.Printf("Warning: Unknown ENV_TYPE '%s', defaulting to LOCAL environment\n", envType)
		prefix = "LOCAL_"
		envType = "LOCAL"
	}

	cfg := &Config{
		EnvType: envType,

		DBDriver:        strings.ToLower(getEnv(prefix+"DB_DRIVER", getEnv("DB_DRIVER", "mysql"))),
		DBHost:          getEnv(prefix+"DB_HOST", "localhost"),
		DBUser:          getEnv(prefix+"DB_USER", ""),
		DBPassword:      getEnv(prefix+"DB_PASSWORD", ""),
		DBName:          getEnv(prefix+"DB_NAME", "barangay"),
		DBPort:          getEnv(prefix+"DB_PORT", "3306"),
		DBPath:          getEnv(prefix+"DB_PATH", "barangay.db"),
		DBMigrationMode: getEnv(prefix+"DB_MIGRATION_MODE", "auto"),
		DBLogLevel:      getEnv("DB_LOG_LEVEL", "warn"),

		ServerPort:  getEnv(prefix+"SERVER_PORT", getEnv("SERVER_PORT", "8080")),
		CORSOrigin:  getEnv("CORS_ORIGIN", "http://localhost:5173"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		MaxUploadMB: int64(getEnvAsInt("MAX_UPLOAD_MB", 5)),

		RedisHost:     getEnv(prefix+"REDIS_HOST", getEnv("REDIS_HOST", "")),
		RedisPort:     getEnv(prefix+"REDIS_PORT", getEnv("REDIS_PORT", "6379")),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		JWTSecretKey: getEnv("JWT_SECRET_KEY", ""),
		SessionTTL:   getEnvAsDuration("SESSION_TTL", 12*time.Hour),

		BlobDriver:        strings.ToLower(getEnv("BLOB_DRIVER", "memory")),
		BlobS3Bucket:      getEnv("BLOB_S3_BUCKET", ""),
		BlobS3Region:      getEnv("BLOB_S3_REGION", "us-east-1"),
		BlobS3Endpoint:    getEnv("BLOB_S3_ENDPOINT", ""),
		BlobS3PathStyle:   getEnvAsBool("BLOB_S3_PATH_STYLE", false),
		BlobPublicBaseURL: getEnv("BLOB_PUBLIC_BASE_URL", ""),

		MQTTBrokerURL:   getEnv("MQTT_BROKER_URL", ""),
		MQTTClientID:    getEnv("MQTT_CLIENT_ID", "bps_server"),
		MQTTUsername:    getEnv("MQTT_USERNAME", ""),
		MQTTPassword:    getEnv("MQTT_PASSWORD", ""),
		MQTTQoS:         getEnvAsInt("MQTT_QOS", 1),
		MQTTTopicPrefix: getEnv("MQTT_TOPIC_PREFIX", "barangay"),

		DefaultAdminUsername: getEnv("DEFAULT_ADMIN_USERNAME", "admin"),
		DefaultAdminPassword: getEnv("DEFAULT_ADMIN_PASSWORD", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that have no usable default.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "mysql", "postgres":
		if c.DBUser == "" {
			return fmt.Errorf("database user is required for driver %s", c.DBDriver)
		}
	case "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.JWTSecretKey == "" {
		return fmt.Errorf("required environment variable JWT_SECRET_KEY is not set")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	switch c.BlobDriver {
	case "memory":
	case "s3":
		if c.BlobS3Bucket == "" {
			return fmt.Errorf("BLOB_S3_BUCKET required for s3 blob driver")
		}
	default:
		return fmt.Errorf("unsupported BLOB_DRIVER %q", c.BlobDriver)
	}
	return nil
}

// GetConfig returns the application configuration as a singleton
func GetConfig() *Config {
	configOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			panic(err)
		}
		config = cfg
	})
	return config
}

// GetDSN returns the database connection string for the configured driver
func (c *Config) GetDSN() string {
	switch c.DBDriver {
	case "postgres":
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=Asia/Manila",
			c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
	case "sqlite":
		return c.DBPath
	default:
		return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?charset=utf8mb4&parseTime=True&loc=Local&allowNativePasswords=true"
	}
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

// MaxUploadBytes returns the upload size limit for ID documents
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
