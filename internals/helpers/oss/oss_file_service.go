package helper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"
)

/*
BlobService adalah facade upload/hapus yang seragam untuk service layer.
Implementasi produksi: OSSBlobService (Aliyun OSS). Untuk test/dev: MemoryBlobService.
*/

type UploadResult struct {
	PublicURL   string `json:"public_url"`
	ObjectKey   string `json:"object_key"`
	ContentType string `json:"content_type"`
}

type BlobService interface {
	UploadImage(ctx context.Context, filename string, r io.Reader) (UploadResult, error)
	DeleteObject(ctx context.Context, key string) error
}

var ErrInvalidImageType = errors.New("invalid file type. Only image files are allowed")

// --------------------------------------------------
// Implementasi berbasis Aliyun OSS (OSSService)
// --------------------------------------------------

type OSSBlobService struct {
	svc *OSSService
	now func() time.Time
}

func NewOSSBlobService(svc *OSSService) *OSSBlobService {
	return &OSSBlobService{svc: svc, now: time.Now}
}

func (b *OSSBlobService) UploadImage(ctx context.Context, filename string, r io.Reader) (UploadResult, error) {
	if !IsImageFile(filename) {
		return UploadResult{}, ErrInvalidImageType
	}
	safe := SecureFilename(filename)
	key := buildObjectKey(b.svc.Prefix, safe, b.now())

	head, body, err := sniff(r)
	if err != nil {
		return UploadResult{}, err
	}
	ct := detectContentType(head, safe)

	if err := b.svc.UploadStream(ctx, key, body, ct); err != nil {
		return UploadResult{}, fmt.Errorf("upload ke OSS gagal: %w", err)
	}
	return UploadResult{PublicURL: b.svc.PublicURL(key), ObjectKey: key, ContentType: ct}, nil
}

func (b *OSSBlobService) DeleteObject(ctx context.Context, key string) error {
	return b.svc.DeleteObject(ctx, key)
}

// --------------------------------------------------
// In-memory (unit test / dev lokal)
// --------------------------------------------------

type MemoryBlobService struct {
	PublicBase string
	Prefix     string
	// FailUpload / FailDelete memaksa error untuk skenario gagal
	FailUpload error
	FailDelete error

	mu      sync.Mutex
	objects map[string][]byte
	calls   int
}

func NewMemoryBlobService(publicBase string) *MemoryBlobService {
	return &MemoryBlobService{
		PublicBase: publicBase,
		Prefix:     "books",
		objects:    map[string][]byte{},
	}
}

func (m *MemoryBlobService) UploadImage(ctx context.Context, filename string, r io.Reader) (UploadResult, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.FailUpload != nil {
		return UploadResult{}, m.FailUpload
	}
	if !IsImageFile(filename) {
		return UploadResult{}, ErrInvalidImageType
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return UploadResult{}, err
	}
	safe := SecureFilename(filename)
	key := buildObjectKey(m.Prefix, safe, time.Now())
	head := data
	if len(head) > 512 {
		head = head[:512]
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.objects == nil {
		m.objects = map[string][]byte{}
	}
	m.objects[key] = bytes.Clone(data)
	return UploadResult{
		PublicURL:   PublicURLFor(m.PublicBase, "", "", key),
		ObjectKey:   key,
		ContentType: detectContentType(head, safe),
	}, nil
}

func (m *MemoryBlobService) DeleteObject(ctx context.Context, key string) error {
	if m.FailDelete != nil {
		return m.FailDelete
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// Calls: jumlah pemanggilan UploadImage (termasuk yang gagal)
func (m *MemoryBlobService) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MemoryBlobService) Object(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.objects[key]
	return b, ok
}

func (m *MemoryBlobService) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var (
	_ BlobService = (*OSSBlobService)(nil)
	_ BlobService = (*MemoryBlobService)(nil)
)
