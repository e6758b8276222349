package ml

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"bukuku_backend/internals/configs"
)

// DownloadArtifact mengunduh file model dari URL publik lalu menyimpannya di dest.
func DownloadArtifact(ctx context.Context, hc *http.Client, url, dest string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download model: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("download model: status=%d, body=%s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}

	if dest != "" {
		if dir := filepath.Dir(dest); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("mkdir %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			return nil, fmt.Errorf("write model %s: %w", dest, err)
		}
	}
	return data, nil
}

// NewPredictor membangun Model Service sesuai MODEL_BACKEND.
func NewPredictor(ctx context.Context, cfg configs.ModelConfig) (Predictor, error) {
	switch cfg.Backend {
	case "", "linear":
		var (
			m   *LinearModel
			err error
		)
		if cfg.URL != "" {
			log.Info().Str("url", cfg.URL).Str("path", cfg.Path).Msg("[MODEL] mengunduh artefak model")
			data, derr := DownloadArtifact(ctx, &http.Client{Timeout: cfg.Timeout}, cfg.URL, cfg.Path)
			if derr != nil {
				return nil, derr
			}
			m, err = ParseLinearModel(data)
		} else {
			m, err = LoadLinearModel(cfg.Path)
		}
		if err != nil {
			return nil, err
		}
		if err := m.CheckFeatures(cfg.Features); err != nil {
			return nil, err
		}
		log.Info().Int("features", len(m.Weights)).Msg("[MODEL] linear model siap")
		return m, nil

	case "tfserving":
		c := NewTFServingClient(cfg.TFServing.Endpoint, cfg.TFServing.Model, cfg.Timeout,
			WithTFServingVersion(cfg.TFServing.Version),
			WithTFServingSignature(cfg.TFServing.Signature))
		if err := c.Health(ctx); err != nil {
			log.Warn().Err(err).Str("endpoint", c.Endpoint).Msg("[MODEL] tf serving belum sehat, lanjut")
		}
		return c, nil

	default:
		return nil, fmt.Errorf("MODEL_BACKEND tidak dikenal: %q", cfg.Backend)
	}
}
