package helper

import (
	"fmt"
	"os"
	"strings"

	"github.com/bytedance/sonic"

	"bukuku_backend/internals/configs"
)

// Credentials: isi file ALI_OSS_CREDENTIALS_FILE
//
//	{"access_key_id": "...", "access_key_secret": "...", "security_token": ""}
type Credentials struct {
	AccessKeyID     string `json:"access_key_id"`
	AccessKeySecret string `json:"access_key_secret"`
	SecurityToken   string `json:"security_token,omitempty"`
}

// resolveCredentials: ENV menang, file jadi fallback.
func resolveCredentials(cfg configs.OSSConfig) (Credentials, error) {
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		return Credentials{
			AccessKeyID:     cfg.AccessKey,
			AccessKeySecret: cfg.SecretKey,
			SecurityToken:   cfg.SecurityToken,
		}, nil
	}
	if cfg.CredentialsFile == "" {
		return Credentials{}, fmt.Errorf("missing env: ALI_OSS_ACCESS_KEY/ALI_OSS_SECRET_KEY atau ALI_OSS_CREDENTIALS_FILE")
	}
	return LoadCredentialsFile(cfg.CredentialsFile)
}

func LoadCredentialsFile(path string) (Credentials, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Credentials{}, fmt.Errorf("read credentials file: %w", err)
	}
	var c Credentials
	if err := sonic.Unmarshal(raw, &c); err != nil {
		return Credentials{}, fmt.Errorf("parse credentials file %s: %w", path, err)
	}
	c.AccessKeyID = strings.TrimSpace(c.AccessKeyID)
	c.AccessKeySecret = strings.TrimSpace(c.AccessKeySecret)
	c.SecurityToken = strings.TrimSpace(c.SecurityToken)
	if c.AccessKeyID == "" || c.AccessKeySecret == "" {
		return Credentials{}, fmt.Errorf("credentials file %s: access_key_id/access_key_secret kosong", path)
	}
	return c, nil
}
