// Copyright (c) 2026 Clipstream. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/taibuivan/clipstream/internal/platform/config"
	"github.com/taibuivan/clipstream/pkg/uuid"
)

// MinioStore implements [Store] against a MinIO / S3-compatible endpoint.
type MinioStore struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
}

// NewMinioStore creates the production media store and verifies the target
// bucket exists, creating it on first boot.
func NewMinioStore(context context.Context, cfg *config.Config) (*MinioStore, error) {
	endpoint := cfg.MediaEndpoint
	useSSL := cfg.MediaUseSSL

	// Accept both bare host:port and full http(s):// endpoints.
	if strings.HasPrefix(endpoint, "http") {
		parsed, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("media: invalid endpoint: %w", err)
		}
		endpoint = parsed.Host
		useSSL = parsed.Scheme == "https"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MediaAccessKey, cfg.MediaSecretKey, ""),
		Secure: useSSL,
		Region: cfg.MediaRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("media: init client: %w", err)
	}

	store := &MinioStore{
		client:        client,
		bucket:        cfg.MediaBucket,
		publicBaseURL: strings.TrimRight(cfg.MediaPublicURL, "/"),
	}

	if err := store.ensureBucket(context, cfg.MediaRegion); err != nil {
		return nil, err
	}

	return store, nil
}

// ensureBucket creates the media bucket if it does not already exist.
func (store *MinioStore) ensureBucket(context context.Context, region string) error {
	exists, err := store.client.BucketExists(context, store.bucket)
	if err != nil {
		return fmt.Errorf("media: bucket exists %s: %w", store.bucket, err)
	}

	if !exists {
		if err := store.client.MakeBucket(context, store.bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return fmt.Errorf("media: create bucket %s: %w", store.bucket, err)
		}
	}

	return nil
}

/*
Upload pushes the asset stream to the bucket and returns its public URL.

Description: Object keys are "<folder>/<uuidv7><ext>" so retries of the same
logical upload never overwrite an earlier object.

Parameters:
  - context: context.Context
  - folder: string
  - asset: Asset

Returns:
  - string: Public URL of the stored object
  - error: Storage or connectivity failures
*/
func (store *MinioStore) Upload(context context.Context, folder string, asset Asset) (string, error) {

	// Time-sortable object key; keep the original extension for content sniffing
	objectName := folder + "/" + uuid.New() + strings.ToLower(path.Ext(asset.Name))

	_, err := store.client.PutObject(context, store.bucket, objectName, asset.Content, asset.Size, minio.PutObjectOptions{
		ContentType: asset.ContentType,
	})
	if err != nil {
		return "", fmt.Errorf("media: put object %s: %w", objectName, err)
	}

	return store.publicBaseURL + "/" + store.bucket + "/" + objectName, nil
}
