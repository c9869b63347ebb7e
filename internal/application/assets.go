package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"thirdcoast.systems/openvidreview/internal/config"
	"thirdcoast.systems/openvidreview/pkg/assetstore"
	"thirdcoast.systems/openvidreview/pkg/ffmpeg"
)

const bucketCheckTimeout = 30 * time.Second

// NewUploader builds the remote asset store selected by ASSET_STORE_DRIVER.
func NewUploader(ctx context.Context, conf config.Config) (assetstore.Uploader, error) {
	switch conf.AssetStoreDriver {
	case config.AssetStoreCloudinary:
		u, err := assetstore.NewCloudinaryUploader(conf.CloudinaryURL, conf.MaxUploadBytes)
		if err != nil {
			return nil, fmt.Errorf("cloudinary: %w", err)
		}
		slog.Info("Asset store ready", "driver", u.Name())
		return u, nil

	case config.AssetStoreMinio:
		u, err := assetstore.NewMinioUploader(assetstore.MinioConfig{
			Endpoint:      conf.MinioEndpoint,
			AccessKey:     conf.MinioAccessKey,
			SecretKey:     conf.MinioSecretKey,
			Bucket:        conf.MinioBucket,
			UseSSL:        conf.MinioUseSSL,
			PublicBaseURL: conf.MinioPublicBaseURL,
			MaxBytes:      conf.MaxUploadBytes,
		})
		if err != nil {
			return nil, fmt.Errorf("minio: %w", err)
		}

		checkCtx, cancel := context.WithTimeout(ctx, bucketCheckTimeout)
		defer cancel()
		if err := u.EnsureBucket(checkCtx); err != nil {
			return nil, fmt.Errorf("minio: %w", err)
		}
		slog.Info("Asset store ready", "driver", u.Name(), "bucket", conf.MinioBucket)
		return u, nil
	}
	return nil, fmt.Errorf("unknown asset store driver %q", conf.AssetStoreDriver)
}

// DeleterFor returns u as a Deleter when the driver supports removal.
func DeleterFor(u assetstore.Uploader) assetstore.Deleter {
	if d, ok := u.(assetstore.Deleter); ok {
		return d
	}
	return nil
}

func NewFrameRateProber(conf config.Config) *ffmpeg.FrameRateProber {
	return ffmpeg.NewFrameRateProber(conf.FFProbePath, conf.ProbeTimeout, conf.DefaultFrameRate)
}
