package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Storage backend selectors.
const (
	StorageBackendLocal = "local"
	StorageBackendS3    = "s3"
)

type Config struct {
	Port        string        `env:"PORT,        default=8080"`
	Env         string        `env:"ENV,         default=development"`
	JWTSecret   string        `env:"JWT_SECRET"`
	TokenTTL    time.Duration `env:"TOKEN_TTL,   default=5h"`
	LogLevel    string        `env:"LOG_LEVEL,   default=info"`
	CORSOrigins []string      `env:"CORS_ORIGINS, default=http://localhost:3000"`

	Mongo   MongoConfig
	Storage StorageConfig
	Upload  UploadConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=carhub"`
}

type StorageConfig struct {
	// Backend selects the blob store implementation: "local" or "s3".
	Backend string `env:"STORAGE_BACKEND, default=local"`

	// Local backend: files land in LocalDir and are served statically
	// under PublicPrefix.
	LocalDir     string `env:"UPLOAD_DIR,           default=uploads"`
	PublicPrefix string `env:"UPLOAD_PUBLIC_PREFIX, default=/uploads"`

	S3 S3Config
}

type S3Config struct {
	Bucket    string `env:"S3_BUCKET"`
	Region    string `env:"S3_REGION, default=us-east-1"`
	AccessKey string `env:"S3_ACCESS_KEY"`
	SecretKey string `env:"S3_SECRET_KEY"`
	// Endpoint overrides the AWS endpoint for S3-compatible stores (MinIO).
	Endpoint string `env:"S3_ENDPOINT"`
}

type UploadConfig struct {
	// RequireImage makes listing creation fail without at least one file.
	RequireImage bool `env:"UPLOAD_REQUIRE_IMAGE, default=true"`
	MaxImages    int  `env:"UPLOAD_MAX_IMAGES,    default=10"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
