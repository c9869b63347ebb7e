package config

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	AssetStoreCloudinary = "cloudinary"
	AssetStoreMinio      = "minio"
)

type Config struct {
	// WebServer Configuration
	WebServerPort int    `mapstructure:"WEBSERVER_PORT" validate:"gt=0,lt=65536"`
	SessionSecret string `mapstructure:"SESSION_SECRET"`

	// Database Configuration
	DatabaseDSN     string `mapstructure:"DATABASE_DSN" validate:"required"`
	DatabaseRetries int    `mapstructure:"DATABASE_RETRIES"`

	// Remote asset store
	AssetStoreDriver string `mapstructure:"ASSET_STORE_DRIVER" validate:"oneof=cloudinary minio"`
	AssetStoreFolder string `mapstructure:"ASSET_STORE_FOLDER" validate:"required"`
	CloudinaryURL    string `mapstructure:"CLOUDINARY_URL" validate:"required_if=AssetStoreDriver cloudinary"`

	MinioEndpoint      string `mapstructure:"MINIO_ENDPOINT" validate:"required_if=AssetStoreDriver minio"`
	MinioAccessKey     string `mapstructure:"MINIO_ACCESS_KEY" validate:"required_if=AssetStoreDriver minio"`
	MinioSecretKey     string `mapstructure:"MINIO_SECRET_KEY" validate:"required_if=AssetStoreDriver minio"`
	MinioBucket        string `mapstructure:"MINIO_BUCKET" validate:"required_if=AssetStoreDriver minio"`
	MinioUseSSL        bool   `mapstructure:"MINIO_USE_SSL"`
	MinioPublicBaseURL string `mapstructure:"MINIO_PUBLIC_BASE_URL" validate:"required_if=AssetStoreDriver minio"`

	// Ingest pipeline
	MaxUploadSize    string        `mapstructure:"MAX_UPLOAD_SIZE" validate:"required"`
	UploadTimeout    time.Duration `mapstructure:"UPLOAD_TIMEOUT" validate:"gt=0"`
	ProbeTimeout     time.Duration `mapstructure:"PROBE_TIMEOUT" validate:"gt=0"`
	DefaultFrameRate float64       `mapstructure:"DEFAULT_FRAME_RATE" validate:"gt=0"`
	FFProbePath      string        `mapstructure:"FFPROBE_PATH" validate:"required"`

	// Derived from MaxUploadSize.
	MaxUploadBytes int64 `mapstructure:"-"`
}

// use reflect to bind environment variables based on mapstructure tags
func bindEnv(c Config) {
	val := reflect.ValueOf(c)
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := typ.Field(i)
		tag := field.Tag.Get("mapstructure")

		if tag != "" && tag != "-" {
			viper.BindEnv(tag)
		}
	}
	slog.Info("Environment variables bound", "fields", typ.NumField())
}

func LoadConfig(ctx context.Context) (*Config, error) {
	bindEnv(Config{})
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("WEBSERVER_PORT", 3000)
	viper.SetDefault("DATABASE_RETRIES", 10)
	viper.SetDefault("ASSET_STORE_DRIVER", AssetStoreCloudinary)
	viper.SetDefault("ASSET_STORE_FOLDER", "openvidreview")
	viper.SetDefault("MAX_UPLOAD_SIZE", "2GB")
	viper.SetDefault("UPLOAD_TIMEOUT", "10m")
	viper.SetDefault("PROBE_TIMEOUT", "20s")
	viper.SetDefault("DEFAULT_FRAME_RATE", 24.0)
	viper.SetDefault("FFPROBE_PATH", "ffprobe")

	cfg := Config{}
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	size, err := humanize.ParseBytes(cfg.MaxUploadSize)
	if err != nil {
		return nil, fmt.Errorf("parse MAX_UPLOAD_SIZE: %w", err)
	}
	if size == 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_SIZE must be positive")
	}
	cfg.MaxUploadBytes = int64(size)

	slog.Info("Loaded configuration",
		"port", cfg.WebServerPort,
		"asset_store", cfg.AssetStoreDriver,
		"folder", cfg.AssetStoreFolder,
		"max_upload", humanize.Bytes(size),
		"upload_timeout", cfg.UploadTimeout,
		"probe_timeout", cfg.ProbeTimeout,
	)

	return &cfg, nil
}
