package ml

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
)

// TFServingClient memanggil TensorFlow Serving lewat REST API (port 8501).
// Model Keras .h5 di-export ke SavedModel lalu di-serve di sana.
type TFServingClient struct {
	Endpoint      string // "http://localhost:8501"
	ModelName     string
	ModelVersion  string // kosong = versi terbaru
	SignatureName string

	httpClient *http.Client
}

type TFServingOption func(*TFServingClient)

func WithTFServingVersion(version string) TFServingOption {
	return func(c *TFServingClient) { c.ModelVersion = version }
}

func WithTFServingSignature(name string) TFServingOption {
	return func(c *TFServingClient) { c.SignatureName = name }
}

func WithTFServingHTTPClient(hc *http.Client) TFServingOption {
	return func(c *TFServingClient) { c.httpClient = hc }
}

func NewTFServingClient(endpoint, modelName string, timeout time.Duration, opts ...TFServingOption) *TFServingClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &TFServingClient{
		Endpoint:      strings.TrimRight(endpoint, "/"),
		ModelName:     modelName,
		SignatureName: "serving_default",
		httpClient:    &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *TFServingClient) Name() string { return "tfserving" }

func (c *TFServingClient) modelURL() string {
	if c.ModelVersion != "" {
		return fmt.Sprintf("%s/v1/models/%s/versions/%s", c.Endpoint, c.ModelName, c.ModelVersion)
	}
	return fmt.Sprintf("%s/v1/models/%s", c.Endpoint, c.ModelName)
}

func (c *TFServingClient) Predict(ctx context.Context, instances [][]float64) ([][]float64, error) {
	if len(instances) == 0 {
		return nil, ErrEmptyInput
	}

	body := map[string]any{"instances": instances}
	if c.SignatureName != "" {
		body["signature_name"] = c.SignatureName
	}
	payload, err := sonic.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.modelURL()+":predict", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tf serving request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tf serving error: status=%d, body=%s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var result struct {
		Predictions []any  `json:"predictions"`
		Error       string `json:"error,omitempty"`
	}
	if err := sonic.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if result.Error != "" {
		return nil, fmt.Errorf("tf serving error: %s", result.Error)
	}

	rows := make([][]float64, 0, len(result.Predictions))
	for _, pred := range result.Predictions {
		row, err := toRow(pred)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// toRow: prediksi bisa skalar (regresi 1 output) atau array (multi-output / nested).
func toRow(v any) ([]float64, error) {
	switch t := v.(type) {
	case []any:
		out := make([]float64, 0, len(t))
		for _, e := range t {
			sub, err := toRow(e)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
		}
		return out, nil
	default:
		f, ok := ToFloat(t)
		if !ok {
			return nil, fmt.Errorf("unexpected prediction type: %T", v)
		}
		return []float64{f}, nil
	}
}

// Health: GET status model
func (c *TFServingClient) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.modelURL(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("health check failed: status=%d, body=%s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return nil
}

var _ Predictor = (*TFServingClient)(nil)
