package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	Port        string
	Env         string
	APIUrl      string
	FrontendURL string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Object storage (S3-compatible). All three of Endpoint, AccessKeyID and
	// SecretAccessKey must be set for the S3 backend to be selected; otherwise
	// uploads go to the local disk backend.
	StorageS3Endpoint        string
	StorageS3Region          string
	StorageS3AccessKeyID     string
	StorageS3SecretAccessKey string
	StorageS3UsePathStyle    bool
	ImagesBucket             string
	VideosBucket             string
	DocumentsBucket          string

	// Local storage
	LocalUploadRoot     string
	PublicUploadBaseURL string

	// Upload limits
	UploadMaxSize         int64
	UploadMaxImageSize    int64
	UploadMaxDocumentSize int64
	ThumbnailMaxEdge      int
	StorageWriteTimeout   time.Duration

	// Seeding
	SeedRoot    string
	SeedWorkers int
	SeedOnStart bool

	// Security
	RateLimitRequests int
	RateLimitDuration time.Duration
	UploadMaxPerDay   int

	// CORS
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

func New() *Config {
	return &Config{
		// Server
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		APIUrl:      getEnv("API_URL", "http://localhost:8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "portico"),
		DBPassword: getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "portico_db"),
		DBSSLMode:  getEnv("DB_SSL_MODE", "disable"),

		// Redis
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		// Object storage
		StorageS3Endpoint:        getEnv("STORAGE_S3_ENDPOINT", ""),
		StorageS3Region:          getEnv("STORAGE_S3_REGION", "us-east-1"),
		StorageS3AccessKeyID:     getEnv("STORAGE_S3_ACCESS_KEY_ID", ""),
		StorageS3SecretAccessKey: getEnv("STORAGE_S3_SECRET_ACCESS_KEY", ""),
		StorageS3UsePathStyle:    getEnv("STORAGE_S3_USE_PATH_STYLE", "true") == "true",
		ImagesBucket:             getEnv("IMAGES_BUCKET", "portico-images"),
		VideosBucket:             getEnv("VIDEOS_BUCKET", "portico-videos"),
		DocumentsBucket:          getEnv("DOCUMENTS_BUCKET", "portico-documents"),

		// Local storage
		LocalUploadRoot:     getEnv("LOCAL_UPLOAD_ROOT", "/data/uploads"),
		PublicUploadBaseURL: getEnv("PUBLIC_UPLOAD_BASE_URL", "/uploads"),

		// Upload limits
		UploadMaxSize:         getEnvAsInt64("UPLOAD_MAX_SIZE", 50*1024*1024),
		UploadMaxImageSize:    getEnvAsInt64("UPLOAD_MAX_IMAGE_SIZE", 10*1024*1024),
		UploadMaxDocumentSize: getEnvAsInt64("UPLOAD_MAX_DOCUMENT_SIZE", 20*1024*1024),
		ThumbnailMaxEdge:      getEnvAsInt("THUMBNAIL_MAX_EDGE", 400),
		StorageWriteTimeout:   getEnvAsDuration("STORAGE_WRITE_TIMEOUT", "30s"),

		// Seeding
		SeedRoot:    getEnv("SEED_ROOT", "seeds"),
		SeedWorkers: getEnvAsInt("SEED_WORKERS", 4),
		SeedOnStart: getEnv("SEED_ON_START", "false") == "true",

		// Security
		RateLimitRequests: getEnvAsInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitDuration: getEnvAsDuration("RATE_LIMIT_DURATION", "1m"),
		UploadMaxPerDay:   getEnvAsInt("UPLOAD_MAX_PER_DAY", 200),

		// CORS
		AllowedOrigins: getEnvAsSlice("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		AllowedMethods: getEnvAsSlice("ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		AllowedHeaders: getEnvAsSlice("ALLOWED_HEADERS", []string{"Content-Type", "Authorization"}),
	}
}

// ObjectStorageConfigured reports whether the full S3 credential set is present.
// The backend selector treats any missing value as "use local disk".
func (c *Config) ObjectStorageConfigured() bool {
	return c.StorageS3Endpoint != "" && c.StorageS3AccessKeyID != "" && c.StorageS3SecretAccessKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
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

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	if duration, err := time.ParseDuration(defaultValue); err == nil {
		return duration
	}
	return time.Minute
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
