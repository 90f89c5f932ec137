// Package storage grava logos, imagens enviadas e banners gerados num
// bucket compatível com S3 (MinIO) e devolve a URL pública do objeto.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Pastas por tipo de objeto. A chave final é {pasta}/{uid}/{ms}-{id}.{ext}.
const (
	FolderLogos       = "logos"
	FolderBanners     = "banners"
	FolderAIGenerated = "ai-generated"
)

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	// PublicBaseURL é o prefixo servido ao navegador. Vazio usa o endpoint.
	PublicBaseURL string
}

type Object struct {
	Key string
	URL string
}

type MinIOStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
	now     func() time.Time
}

func NewMinIOStore(cfg Config) (*MinIOStore, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("storage: endpoint and bucket are required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: new minio client: %w", err)
	}

	base := strings.TrimRight(cfg.PublicBaseURL, "/")
	if base == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		base = scheme + "://" + cfg.Endpoint
	}

	return &MinIOStore{client: client, bucket: cfg.Bucket, baseURL: base, now: time.Now}, nil
}

// EnsureBucket cria o bucket se ainda não existir.
func (s *MinIOStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("storage: check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("storage: create bucket %s: %w", s.bucket, err)
	}
	return nil
}

// Put grava r sob folder/ownerID e devolve a chave e a URL pública.
func (s *MinIOStore) Put(ctx context.Context, folder, ownerID, originalName, contentType string, r io.Reader, size int64) (Object, error) {
	key := ObjectKey(folder, ownerID, originalName, s.now())

	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "public, max-age=31536000",
		UserMetadata: map[string]string{
			"uploaded-by": ownerID,
			"uploaded-at": s.now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return Object{}, fmt.Errorf("storage: put %s: %w", key, err)
	}
	return Object{Key: key, URL: s.PublicURL(key)}, nil
}

func (s *MinIOStore) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("storage: delete %s: %w", key, err)
	}
	return nil
}

func (s *MinIOStore) PublicURL(key string) string {
	return s.baseURL + "/" + s.bucket + "/" + key
}

// ObjectKey monta a chave do objeto. O nome original só contribui com a
// extensão, reduzida a [a-z0-9]; sem extensão usa png.
func ObjectKey(folder, ownerID, originalName string, now time.Time) string {
	ext := extension(originalName)
	id := uuid.New().String()[:8]
	return path.Join(folder, ownerID, strconv.FormatInt(now.UnixMilli(), 10)+"-"+id+"."+ext)
}

func extension(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	clean := make([]byte, 0, len(ext))
	for i := 0; i < len(ext); i++ {
		c := ext[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			clean = append(clean, c)
		}
	}
	if len(clean) == 0 || len(clean) > 5 {
		return "png"
	}
	return string(clean)
}
