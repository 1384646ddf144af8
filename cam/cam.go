// Copyright 2025 The camsim authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cam exposes the content-addressable memory simulation engine:
// array construction, cell programming, parallel search and batched
// multi-array dispatch, with optional device non-ideality injection.
//
// Example:
//
//	backend := cpu.New()
//	arr, _ := cam.NewArray(cam.Ternary, 4, 3, backend)
//	rows, _ := tensor.FromSlice([]float32{1, 0, cam.DontCare}, tensor.Shape{1, 3}, backend)
//	_ = arr.Write([]int{0}, rows, nil)
//	q, _ := tensor.FromSlice([]float32{1, 0, 1}, tensor.Shape{1, 3}, backend)
//	res, _ := arr.Match(q, cam.Exact)
package cam

import (
	"math/rand"

	"github.com/camsim-dev/camsim/internal/cam"
	"github.com/camsim-dev/camsim/internal/tensor"
)

// Variant selects the cell technology an array simulates.
type Variant = cam.Variant

// Supported array variants.
const (
	Binary  = cam.Binary
	Ternary = cam.Ternary
	Analog  = cam.Analog
)

// Metric selects how queries are scored against stored rows.
type Metric = cam.Metric

// Supported match metrics.
const (
	Exact     = cam.Exact
	Euclidean = cam.Euclidean
	Manhattan = cam.Manhattan
	Dot       = cam.Dot
)

// DontCare marks a ternary cell that matches any query value.
const DontCare = cam.DontCare

// ParseVariant maps a variant name to its Variant.
func ParseVariant(name string) (Variant, error) {
	return cam.ParseVariant(name)
}

// ParseMetric maps a metric name to its Metric.
func ParseMetric(name string) (Metric, error) {
	return cam.ParseMetric(name)
}

// Sentinel errors returned by engine operations. Wrap-aware: test with
// errors.Is.
var (
	ErrShape   = cam.ErrShape
	ErrIndex   = cam.ErrIndex
	ErrConfig  = cam.ErrConfig
	ErrVariant = cam.ErrVariant
)

// Array is a simulated CAM array bound to a compute backend.
type Array[B tensor.Backend] = cam.Array[B]

// NewArray creates an array of the given variant and geometry.
func NewArray[B tensor.Backend](variant Variant, rows, columns int, b B) (*Array[B], error) {
	return cam.NewArray[B](variant, rows, columns, b)
}

// MatchResult holds the outcome of a search over one array.
type MatchResult[B tensor.Backend] = cam.MatchResult[B]

// BatchMatch searches many arrays with their paired query sets in one
// call, fusing same-geometry arrays into stacked kernels.
func BatchMatch[B tensor.Backend](arrays []*Array[B], queries []*tensor.Tensor[float32, B], metric Metric) ([]*MatchResult[B], error) {
	return cam.BatchMatch[B](arrays, queries, metric)
}

// ReduceSum sums per-row values over the rows each query matches.
func ReduceSum[T tensor.DType, B tensor.Backend](a *Array[B], queries *tensor.Tensor[float32, B], values *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], error) {
	return cam.ReduceSum[T, B](a, queries, values)
}

// NoiseModel names an analog perturbation model.
type NoiseModel = cam.NoiseModel

// Supported noise models.
const (
	NoiseNone      = cam.NoiseNone
	NoiseGaussian  = cam.NoiseGaussian
	NoiseLognormal = cam.NoiseLognormal
	NoiseBitflip   = cam.NoiseBitflip
)

// DeviceProfile bundles the non-ideality parameters applied during cell
// programming.
type DeviceProfile = cam.DeviceProfile

// LoadProfile reads a DeviceProfile from a YAML or JSON file.
func LoadProfile(path string) (*DeviceProfile, error) {
	return cam.LoadProfile(path)
}

// Quantize snaps tensor values onto a uniform grid of levels spanning the
// tensor's own value range.
func Quantize[T tensor.DType, B tensor.Backend](t *tensor.Tensor[T, B], levels int) (*tensor.Tensor[T, B], error) {
	return cam.Quantize[T, B](t, levels)
}

// ApplyNoise perturbs a tensor with the named noise model, drawing from
// the supplied source.
func ApplyNoise[T tensor.DType, B tensor.Backend](t *tensor.Tensor[T, B], model NoiseModel, scale float64, rng *rand.Rand) (*tensor.Tensor[T, B], error) {
	return cam.ApplyNoise[T, B](t, model, scale, rng)
}

// GenerateDefectMask samples a stuck-cell mask. The same seed and rate
// always produce the same mask.
func GenerateDefectMask[B tensor.Backend](rows, columns int, rate float64, seed int64, b B) (*tensor.Tensor[bool, B], error) {
	return cam.GenerateDefectMask[B](rows, columns, rate, seed, b)
}

// ApplyDefects overrides masked cells with a stuck value.
func ApplyDefects[T tensor.DType, B tensor.Backend](t *tensor.Tensor[T, B], mask *tensor.Tensor[bool, B], stuck T) (*tensor.Tensor[T, B], error) {
	return cam.ApplyDefects[T, B](t, mask, stuck)
}
