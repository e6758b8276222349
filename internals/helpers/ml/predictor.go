// Package ml membungkus model rekomendasi yang sudah dilatih di luar sistem ini.
// Model hanya dipakai untuk inferensi, tidak pernah dilatih ulang.
package ml

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
)

// Predictor: satu baris instance (feature vector) → satu baris output.
type Predictor interface {
	Name() string
	Predict(ctx context.Context, instances [][]float64) ([][]float64, error)
}

var (
	ErrShapeMismatch = errors.New("feature vector shape tidak cocok dengan input model")
	ErrEmptyInput    = errors.New("instances kosong")
	ErrEmptyOutput   = errors.New("model tidak mengembalikan prediksi")
)

// BuildVector menyusun feature vector sesuai urutan names.
// Fitur yang tidak ada (atau bukan angka) dianggap 0.
func BuildVector(features map[string]any, names []string) []float64 {
	out := make([]float64, len(names))
	for i, name := range names {
		if v, ok := ToFloat(features[name]); ok {
			out[i] = v
		}
	}
	return out
}

// HasAnyFeature: true kalau minimal satu nama fitur punya nilai angka.
func HasAnyFeature(features map[string]any, names []string) bool {
	for _, name := range names {
		if _, ok := ToFloat(features[name]); ok {
			return true
		}
	}
	return false
}

// ToFloat menerima angka dari JSON (float64), int, atau string numerik.
func ToFloat(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int32:
		f = float64(t)
	case int64:
		f = float64(t)
	case interface{ Float64() (float64, error) }: // json.Number
		n, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Flatten meratakan output model jadi satu slice (mirip predictions.flatten()).
func Flatten(rows [][]float64) []float64 {
	n := 0
	for _, r := range rows {
		n += len(r)
	}
	out := make([]float64, 0, n)
	for _, r := range rows {
		out = append(out, r...)
	}
	return out
}

// PredictOne: helper untuk satu vector; mengembalikan output yang sudah diratakan.
func PredictOne(ctx context.Context, p Predictor, vector []float64) ([]float64, error) {
	rows, err := p.Predict(ctx, [][]float64{vector})
	if err != nil {
		return nil, err
	}
	flat := Flatten(rows)
	if len(flat) == 0 {
		return nil, ErrEmptyOutput
	}
	return flat, nil
}
