package assetstore

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const providerMinio = "minio"

// MinioConfig points at any S3-compatible endpoint.
type MinioConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	Region        string
	UseSSL        bool
	PublicBaseURL string // objects resolve at PublicBaseURL/<bucket>/<key>
	MaxBytes      int64
}

type MinioUploader struct {
	client  *minio.Client
	bucket  string
	baseURL string
	max     int64
}

func NewMinioUploader(cfg MinioConfig) (*MinioUploader, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return newMinioUploader(client, cfg), nil
}

func newMinioUploader(client *minio.Client, cfg MinioConfig) *MinioUploader {
	return &MinioUploader{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		max:     cfg.MaxBytes,
	}
}

// EnsureBucket creates the bucket when it does not exist yet.
func (u *MinioUploader) EnsureBucket(ctx context.Context) error {
	exists, err := u.client.BucketExists(ctx, u.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", u.bucket, err)
	}
	if exists {
		return nil
	}
	if err := u.client.MakeBucket(ctx, u.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", u.bucket, err)
	}
	slog.Info("Created asset bucket", "bucket", u.bucket)
	return nil
}

func (u *MinioUploader) Name() string {
	return providerMinio
}

// ObjectKey is the key an upload with meta is stored under.
func ObjectKey(meta Metadata) string {
	return path.Join(meta.Folder, meta.PublicID) + strings.ToLower(path.Ext(meta.FileName))
}

func (u *MinioUploader) Upload(ctx context.Context, body []byte, meta Metadata, progress ProgressFunc) (*Asset, error) {
	if err := checkPayload(providerMinio, body, u.max); err != nil {
		return nil, err
	}

	key := ObjectKey(meta)
	total := int64(len(body))
	contentType := meta.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	reader := newProgressReader(bytes.NewReader(body), total, progress)
	info, err := u.client.PutObject(ctx, u.bucket, key, reader, total, minio.PutObjectOptions{
		ContentType: contentType,
		UserMetadata: map[string]string{
			"resource-type": meta.ResourceType,
		},
	})
	if err != nil {
		if resp := minio.ToErrorResponse(err); resp.Code != "" {
			return nil, uploadErr(providerMinio, resp.Code+": "+resp.Message, err)
		}
		return nil, uploadErr(providerMinio, "request failed", err)
	}

	assetURL, err := url.JoinPath(u.baseURL, u.bucket, key)
	if err != nil {
		return nil, uploadErr(providerMinio, "could not build asset URL", err)
	}

	return &Asset{
		URL:        assetURL,
		ProviderID: info.Key,
		Bytes:      info.Size,
	}, nil
}

func (u *MinioUploader) Delete(ctx context.Context, providerID, _ string) error {
	if err := u.client.RemoveObject(ctx, u.bucket, providerID, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", providerID, err)
	}
	return nil
}
