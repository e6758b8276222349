package helper

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bukuku_backend/internals/configs"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestMemoryBlobServiceUpload(t *testing.T) {
	blob := NewMemoryBlobService("https://cdn.example.com")

	res, err := blob.UploadImage(context.Background(), "My Cover.png", bytes.NewReader(pngHeader))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(res.ObjectKey, "books/My_Cover_") {
		t.Errorf("unexpected object key %q", res.ObjectKey)
	}
	if res.PublicURL != "https://cdn.example.com/"+res.ObjectKey {
		t.Errorf("public url %q does not point at key %q", res.PublicURL, res.ObjectKey)
	}
	if res.ContentType != "image/png" {
		t.Errorf("expected image/png, got %q", res.ContentType)
	}

	data, ok := blob.Object(res.ObjectKey)
	if !ok || !bytes.Equal(data, pngHeader) {
		t.Fatalf("stored bytes mismatch: ok=%v data=%v", ok, data)
	}

	if err := blob.DeleteObject(context.Background(), res.ObjectKey); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(blob.Keys()) != 0 {
		t.Fatalf("expected no objects after delete, got %v", blob.Keys())
	}
}

func TestMemoryBlobServiceRejectsNonImage(t *testing.T) {
	blob := NewMemoryBlobService("")
	_, err := blob.UploadImage(context.Background(), "notes.txt", strings.NewReader("hi"))
	if !errors.Is(err, ErrInvalidImageType) {
		t.Fatalf("expected ErrInvalidImageType, got %v", err)
	}
	if len(blob.Keys()) != 0 {
		t.Fatal("expected nothing stored")
	}
}

func TestMemoryBlobServiceForcedFailure(t *testing.T) {
	blob := NewMemoryBlobService("")
	blob.FailUpload = errors.New("bucket down")

	if _, err := blob.UploadImage(context.Background(), "a.png", bytes.NewReader(pngHeader)); err == nil {
		t.Fatal("expected forced failure")
	}
	if blob.Calls() != 1 {
		t.Fatalf("expected 1 call, got %d", blob.Calls())
	}
}

func TestSniffKeepsFullStream(t *testing.T) {
	payload := bytes.Repeat([]byte("a"), 2048)
	head, r, err := sniff(bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("sniff: %v", err)
	}
	if len(head) != 512 {
		t.Fatalf("expected 512 byte head, got %d", len(head))
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != len(payload) {
		t.Fatalf("expected %d bytes, got %d", len(payload), buf.Len())
	}
}

func TestResolveCredentials(t *testing.T) {
	t.Run("env wins", func(t *testing.T) {
		c, err := resolveCredentials(configs.OSSConfig{AccessKey: "ak", SecretKey: "sk", CredentialsFile: "/nope"})
		if err != nil {
			t.Fatal(err)
		}
		if c.AccessKeyID != "ak" || c.AccessKeySecret != "sk" {
			t.Fatalf("unexpected credentials %+v", c)
		}
	})

	t.Run("file fallback", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "creds.json")
		raw := `{"access_key_id":" fileak ","access_key_secret":"filesk","security_token":"tok"}`
		if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
			t.Fatal(err)
		}
		c, err := resolveCredentials(configs.OSSConfig{CredentialsFile: path})
		if err != nil {
			t.Fatal(err)
		}
		if c.AccessKeyID != "fileak" || c.SecurityToken != "tok" {
			t.Fatalf("unexpected credentials %+v", c)
		}
	})

	t.Run("missing", func(t *testing.T) {
		if _, err := resolveCredentials(configs.OSSConfig{}); err == nil {
			t.Fatal("expected error without env or file")
		}
	})

	t.Run("empty keys in file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "creds.json")
		if err := os.WriteFile(path, []byte(`{"access_key_id":""}`), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadCredentialsFile(path); err == nil {
			t.Fatal("expected error for empty keys")
		}
	})
}
