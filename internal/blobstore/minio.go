// minio.go
//
// An admin console for real-estate property listings and blog posts
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of realty-admin.
// realty-admin is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// realty-admin is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with realty-admin.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

// Package blobstore keeps uploaded images in S3 compatible object storage,
// one bucket per record kind, each readable through a public URL.
package blobstore

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"strings"

	"github.com/localnerve/realty-admin/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var operations = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "console_blob_operations_total",
	Help: "Blob store operations by bucket, operation and result.",
}, []string{"bucket", "op", "result"})

// publicReadPolicy lets anonymous clients GET objects so public URLs resolve
const publicReadPolicy = `{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`

// Store is the MinIO backed blob store
type Store struct {
	client    *minio.Client
	publicURL string
}

// New creates a blob store from the storage configuration
func New(cfg *config.Config) (*Store, error) {
	client, err := minio.New(cfg.StorageEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.StorageAccessKeyID, cfg.StorageSecretAccessKey, ""),
		Secure: cfg.StorageUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO client: %w", err)
	}
	return NewWithClient(client, cfg.StoragePublicURL), nil
}

// NewWithClient wraps an existing MinIO client. publicURL is the origin
// that serves bucket/key paths to browsers.
func NewWithClient(client *minio.Client, publicURL string) *Store {
	return &Store{
		client:    client,
		publicURL: strings.TrimSuffix(publicURL, "/"),
	}
}

// EnsureBuckets creates any missing bucket and makes its objects publicly readable
func (s *Store) EnsureBuckets(ctx context.Context, buckets ...string) error {
	for _, bucket := range buckets {
		exists, err := s.client.BucketExists(ctx, bucket)
		if err != nil {
			return fmt.Errorf("failed to check if bucket '%s' exists: %w", bucket, err)
		}
		if !exists {
			log.Printf("Bucket '%s' does not exist. Attempting to create it.", bucket)
			if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
				return fmt.Errorf("failed to create bucket '%s': %w", bucket, err)
			}
		}
		if err := s.client.SetBucketPolicy(ctx, bucket, fmt.Sprintf(publicReadPolicy, bucket)); err != nil {
			return fmt.Errorf("failed to set public read policy on bucket '%s': %w", bucket, err)
		}
	}
	return nil
}

// Upload stores body under key in bucket
func (s *Store) Upload(ctx context.Context, bucket, key string, body io.Reader, size int64, contentType string) error {
	info, err := s.client.PutObject(ctx, bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		operations.WithLabelValues(bucket, "upload", "error").Inc()
		return err
	}
	operations.WithLabelValues(bucket, "upload", "ok").Inc()
	log.Printf("Uploaded '%s' (%d bytes) to bucket '%s'", key, info.Size, bucket)
	return nil
}

// PublicURL returns the browser facing URL for key. It does not check that
// the object exists.
func (s *Store) PublicURL(bucket, key string) string {
	return s.publicURL + "/" + bucket + "/" + url.PathEscape(key)
}

// Remove deletes keys from bucket. Missing keys are not an error.
func (s *Store) Remove(ctx context.Context, bucket string, keys []string) error {
	objects := make(chan minio.ObjectInfo, len(keys))
	for _, key := range keys {
		objects <- minio.ObjectInfo{Key: key}
	}
	close(objects)

	var firstErr error
	for removeErr := range s.client.RemoveObjects(ctx, bucket, objects, minio.RemoveObjectsOptions{}) {
		if firstErr == nil {
			firstErr = removeErr.Err
		}
		log.Printf("Failed to remove '%s' from bucket '%s': %v", removeErr.ObjectName, bucket, removeErr.Err)
	}
	if firstErr != nil {
		operations.WithLabelValues(bucket, "remove", "error").Inc()
		return firstErr
	}
	operations.WithLabelValues(bucket, "remove", "ok").Inc()
	return nil
}

// Endpoint returns the storage API endpoint URL, used by health checks
func (s *Store) Endpoint() string {
	return s.client.EndpointURL().String()
}
