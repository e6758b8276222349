package ml

import (
	"context"
	"fmt"
	"os"

	"github.com/bytedance/sonic"
)

// LinearModel: artefak regresi linier hasil export training.
//
//	y = Bias + sum(Weights[i] * x[i])
//
// Format file:
//
//	{"feature_names": ["feature1","feature2","feature3"], "weights": [0.4, 0.1, 0.2], "bias": 1.5}
type LinearModel struct {
	FeatureNames []string  `json:"feature_names,omitempty"`
	Weights      []float64 `json:"weights"`
	Bias         float64   `json:"bias"`
}

func ParseLinearModel(data []byte) (*LinearModel, error) {
	var m LinearModel
	if err := sonic.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse linear model: %w", err)
	}
	if len(m.Weights) == 0 {
		return nil, fmt.Errorf("parse linear model: weights kosong")
	}
	if len(m.FeatureNames) > 0 && len(m.FeatureNames) != len(m.Weights) {
		return nil, fmt.Errorf("parse linear model: %d feature_names vs %d weights", len(m.FeatureNames), len(m.Weights))
	}
	return &m, nil
}

func LoadLinearModel(path string) (*LinearModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model %s: %w", path, err)
	}
	return ParseLinearModel(data)
}

func (m *LinearModel) Name() string { return "linear" }

func (m *LinearModel) Predict(_ context.Context, instances [][]float64) ([][]float64, error) {
	if len(instances) == 0 {
		return nil, ErrEmptyInput
	}
	out := make([][]float64, len(instances))
	for i, x := range instances {
		if len(x) != len(m.Weights) {
			return nil, fmt.Errorf("%w: got %d, want %d", ErrShapeMismatch, len(x), len(m.Weights))
		}
		y := m.Bias
		for j, w := range m.Weights {
			y += w * x[j]
		}
		out[i] = []float64{y}
	}
	return out, nil
}

// CheckFeatures memastikan urutan fitur config sama dengan artefak (kalau artefak mencantumkan).
func (m *LinearModel) CheckFeatures(names []string) error {
	if len(names) != len(m.Weights) {
		return fmt.Errorf("%w: MODEL_FEATURES=%d, weights=%d", ErrShapeMismatch, len(names), len(m.Weights))
	}
	if len(m.FeatureNames) == 0 {
		return nil
	}
	for i := range names {
		if names[i] != m.FeatureNames[i] {
			return fmt.Errorf("urutan fitur beda di posisi %d: config=%q model=%q", i, names[i], m.FeatureNames[i])
		}
	}
	return nil
}

var _ Predictor = (*LinearModel)(nil)
