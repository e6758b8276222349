// internals/helpers/oss/oss_client.go
package helper

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/rs/zerolog/log"

	"bukuku_backend/internals/configs"
)

/* =======================================================================
   OSS Service
======================================================================= */

type OSSService struct {
	Client     *oss.Client
	Bucket     *oss.Bucket
	Endpoint   string
	BucketName string
	Prefix     string // optional: "books"
	PublicBase string // optional: CDN / custom domain
}

func NewOSSService(cfg configs.OSSConfig) (*OSSService, error) {
	creds, err := resolveCredentials(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("missing env: ALI_OSS_ENDPOINT/ALI_OSS_BUCKET")
	}

	var client *oss.Client
	if creds.SecurityToken != "" {
		client, err = oss.New(cfg.Endpoint, creds.AccessKeyID, creds.AccessKeySecret, oss.SecurityToken(creds.SecurityToken))
	} else {
		client, err = oss.New(cfg.Endpoint, creds.AccessKeyID, creds.AccessKeySecret)
	}
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}

	bkt, err := client.Bucket(cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket: %w", err)
	}

	// Verifikasi ringan lokasi bucket
	if loc, err := client.GetBucketLocation(cfg.Bucket); err != nil {
		if se, ok := err.(oss.ServiceError); ok && se.StatusCode == 403 && se.Code == "AccessDenied" {
			log.Warn().Str("bucket", cfg.Bucket).Msg("[OSS] skip location check due to AccessDenied")
		} else {
			return nil, fmt.Errorf("verify bucket: %w", err)
		}
	} else {
		log.Info().Str("bucket", cfg.Bucket).Str("location", loc).Msg("[OSS] bucket siap")
	}

	return &OSSService{
		Client:     client,
		Bucket:     bkt,
		Endpoint:   cfg.Endpoint,
		BucketName: cfg.Bucket,
		Prefix:     strings.Trim(cfg.Prefix, "/"),
		PublicBase: strings.TrimRight(strings.TrimSpace(cfg.PublicBase), "/"),
	}, nil
}

/* =======================================================================
   Upload & Delete
======================================================================= */

// UploadStream: upload apa adanya (tanpa recompress)
func (s *OSSService) UploadStream(ctx context.Context, key string, r io.Reader, contentType string) error {
	if key == "" {
		return fmt.Errorf("empty key")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	opts := []oss.Option{
		oss.WithContext(ctx),
		oss.ContentType(contentType),
		oss.ContentDisposition("inline"),
		oss.CacheControl("public, max-age=31536000, immutable"),
	}
	return s.Bucket.PutObject(key, r, opts...)
}

func (s *OSSService) DeleteObject(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("empty key")
	}
	return s.Bucket.DeleteObject(key, oss.WithContext(ctx))
}

/* =======================================================================
   Public URL & Key utils
======================================================================= */

func (s *OSSService) PublicURL(key string) string {
	return PublicURLFor(s.PublicBase, s.Endpoint, s.BucketName, key)
}

// PublicURLFor: {base}/{key} kalau base diset, selain itu virtual-hosted style.
func PublicURLFor(base, endpoint, bucket, key string) string {
	if key == "" {
		return ""
	}
	if base != "" {
		return strings.TrimRight(base, "/") + "/" + key
	}
	if endpoint == "" || bucket == "" {
		return ""
	}
	end := strings.TrimPrefix(strings.TrimPrefix(endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", bucket, strings.TrimRight(end, "/"), key)
}

// buildObjectKey: {prefix}/{nama-aman}_{ts}_{rand}{ext}
func buildObjectKey(prefix, safeName string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(safeName))
	base := strings.TrimSuffix(safeName, filepath.Ext(safeName))
	if base == "" {
		base = "file"
	}
	key := fmt.Sprintf("%s_%s_%s%s", base, now.Format("20060102_150405"), randHex(3), ext)
	if prefix = strings.Trim(prefix, "/"); prefix != "" {
		key = prefix + "/" + key
	}
	return key
}

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// detectContentType: contentType dari ekstensi, fallback sniff 512B.
func detectContentType(head []byte, filename string) string {
	ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	if (ct == "" || ct == "application/octet-stream") && len(head) > 0 {
		ct = http.DetectContentType(head)
	}
	if ct == "" {
		ct = "application/octet-stream"
	}
	return ct
}

// sniff membaca max 512B pertama lalu mengembalikan reader utuh.
func sniff(r io.Reader) ([]byte, io.Reader, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, nil, fmt.Errorf("read file: %w", err)
	}
	head = head[:n]
	return head, io.MultiReader(bytes.NewReader(head), r), nil
}
