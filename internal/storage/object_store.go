package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"vidtube/internal/config"
	"vidtube/internal/ids"
	"vidtube/internal/media/sniffer"
	"vidtube/internal/media/svg"
)

var (
	ErrEmptyPath        = errors.New("local path is empty")
	ErrUnsupportedMedia = errors.New("unsupported media type")
	ErrInvalidAssetURL  = errors.New("invalid asset url")
)

// Asset describes an object that has just been stored.
type Asset struct {
	URL       string
	Bucket    string
	Key       string
	Kind      sniffer.Kind
	MIME      string
	SizeBytes int64
	Duration  float64
}

// AssetRef is what can be recovered from a stored asset's public URL.
type AssetRef struct {
	Bucket string
	Key    string
	ID     string
	Kind   sniffer.Kind
}

// ParseAssetRef derives the bucket, object key, identifier and resource kind
// from a URL of the form <publicBase>/<bucket>/<key>.
func ParseAssetRef(rawURL string) (AssetRef, error) {
	if strings.TrimSpace(rawURL) == "" {
		return AssetRef{}, ErrInvalidAssetURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return AssetRef{}, fmt.Errorf("%w: %v", ErrInvalidAssetURL, err)
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) < 2 || segments[len(segments)-1] == "" || segments[len(segments)-2] == "" {
		return AssetRef{}, fmt.Errorf("%w: %s", ErrInvalidAssetURL, rawURL)
	}

	key := segments[len(segments)-1]
	return AssetRef{
		Bucket: segments[len(segments)-2],
		Key:    key,
		ID:     strings.TrimSuffix(key, path.Ext(key)),
		Kind:   sniffer.KindFromExt(key),
	}, nil
}

type ObjectStore struct {
	client     *minio.Client
	cfg        config.StorageConfig
	publicBase string
}

func NewObjectStore(cfg config.StorageConfig) (*ObjectStore, error) {
	endpoint := cfg.Endpoint
	useSSL := cfg.UseSSL

	if strings.HasPrefix(endpoint, "http") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("parse endpoint: %w", err)
		}
		endpoint = u.Host
		useSSL = u.Scheme == "https"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}

	return &ObjectStore{
		client:     client,
		cfg:        cfg,
		publicBase: publicBaseURL(cfg.PublicBaseURL, endpoint, useSSL),
	}, nil
}

func publicBaseURL(configured, endpoint string, useSSL bool) string {
	if configured != "" {
		return strings.TrimRight(configured, "/")
	}
	scheme := "http"
	if useSSL {
		scheme = "https"
	}
	return scheme + "://" + endpoint
}

func (s *ObjectStore) EnsureBuckets(ctx context.Context) error {
	for _, bucket := range []string{s.cfg.BucketImages, s.cfg.BucketVideos} {
		exists, err := s.client.BucketExists(ctx, bucket)
		if err != nil {
			return fmt.Errorf("bucket exists %s: %w", bucket, err)
		}
		if !exists {
			if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: s.cfg.Region}); err != nil {
				return fmt.Errorf("create bucket %s: %w", bucket, err)
			}
		}
	}
	return nil
}

func (s *ObjectStore) Client() *minio.Client {
	return s.client
}

// Upload stores the file at localPath and returns its public reference.
// The local file is removed whether or not the upload succeeds.
func (s *ObjectStore) Upload(ctx context.Context, localPath string) (Asset, error) {
	if localPath == "" {
		return Asset{}, ErrEmptyPath
	}
	defer os.Remove(localPath)

	file, err := os.Open(localPath)
	if err != nil {
		return Asset{}, fmt.Errorf("open staged file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return Asset{}, fmt.Errorf("stat staged file: %w", err)
	}

	detected, _, err := sniffer.Detect(file)
	if err != nil {
		if errors.Is(err, sniffer.ErrUnknownType) {
			return Asset{}, ErrUnsupportedMedia
		}
		return Asset{}, fmt.Errorf("detect media type: %w", err)
	}

	asset := Asset{
		Bucket:    s.bucketFor(detected.Kind),
		Key:       ids.New() + "." + detected.Ext(),
		Kind:      detected.Kind,
		MIME:      detected.MIME,
		SizeBytes: info.Size(),
	}

	if detected.Type == sniffer.TypeMP4 || detected.Type == sniffer.TypeMOV {
		// Files without a movie header still upload; the caller may supply a duration.
		if seconds, err := sniffer.MP4Duration(file); err == nil {
			asset.Duration = seconds
		}
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return Asset{}, fmt.Errorf("rewind staged file: %w", err)
	}

	var body io.Reader = file
	if detected.Type == sniffer.TypeSVG {
		raw, err := io.ReadAll(file)
		if err != nil {
			return Asset{}, fmt.Errorf("read svg: %w", err)
		}
		clean, err := svg.Sanitize(raw)
		if err != nil {
			return Asset{}, fmt.Errorf("%w: %v", ErrUnsupportedMedia, err)
		}
		body = bytes.NewReader(clean)
		asset.SizeBytes = int64(len(clean))
	}

	if _, err := s.client.PutObject(ctx, asset.Bucket, asset.Key, body, asset.SizeBytes, minio.PutObjectOptions{
		ContentType: asset.MIME,
	}); err != nil {
		return Asset{}, fmt.Errorf("put object %s/%s: %w", asset.Bucket, asset.Key, err)
	}

	asset.URL = s.URLFor(asset.Bucket, asset.Key)
	return asset, nil
}

// Destroy removes the object referenced by a public URL.
func (s *ObjectStore) Destroy(ctx context.Context, assetURL string) error {
	ref, err := ParseAssetRef(assetURL)
	if err != nil {
		return err
	}
	if err := s.client.RemoveObject(ctx, ref.Bucket, ref.Key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s/%s: %w", ref.Bucket, ref.Key, err)
	}
	return nil
}

func (s *ObjectStore) URLFor(bucket, key string) string {
	return s.publicBase + "/" + bucket + "/" + key
}

func (s *ObjectStore) bucketFor(kind sniffer.Kind) string {
	if kind == sniffer.KindVideo {
		return s.cfg.BucketVideos
	}
	return s.cfg.BucketImages
}
