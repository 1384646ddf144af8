// Copyright 2025 The camsim authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor exposes the backend-neutral tensor contract used by the
// CAM engine: shapes, data types, the RawTensor storage type, the generic
// Tensor wrapper and the Backend capability interface.
package tensor

import "github.com/camsim-dev/camsim/internal/tensor"

// Shape represents the dimensions of a tensor.
type Shape = tensor.Shape

// DataType carries runtime type information for tensors.
type DataType = tensor.DataType

// Supported data types.
const (
	Float32 = tensor.Float32
	Float64 = tensor.Float64
	Int32   = tensor.Int32
	Int64   = tensor.Int64
	Uint8   = tensor.Uint8
	Bool    = tensor.Bool
)

// Device represents the compute device a tensor lives on.
type Device = tensor.Device

// Supported devices.
const (
	CPU = tensor.CPU
	GPU = tensor.GPU
)

// RawTensor is the low-level tensor representation: a dtype-tagged,
// row-major buffer with shape and stride metadata and copy-on-write
// cloning. Most users should use the high-level Tensor[T, B] type instead.
type RawTensor = tensor.RawTensor

// NewRaw creates a new zero-initialized RawTensor.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}

// DType is a constraint for tensor element types.
type DType = tensor.DType

// Backend is the array-compute capability the engine programs against.
// Concrete implementations (host-vectorized CPU, GPU) are swappable
// without the engine knowing which is in use.
type Backend = tensor.Backend

// Tensor is a generic tensor with element type T computed by backend B.
//
// Example:
//
//	backend := cpu.New()
//	q := tensor.Zeros[float32](tensor.Shape{8, 64}, backend)
type Tensor[T DType, B Backend] = tensor.Tensor[T, B]

// New creates a Tensor from a RawTensor and backend.
func New[T DType, B Backend](raw *RawTensor, b B) *Tensor[T, B] {
	return tensor.New[T, B](raw, b)
}

// FromSlice creates a tensor from a Go slice, copying the data.
func FromSlice[T DType, B Backend](data []T, shape Shape, b B) (*Tensor[T, B], error) {
	return tensor.FromSlice[T, B](data, shape, b)
}

// Zeros creates a tensor filled with zeros.
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Zeros[T, B](shape, b)
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Ones[T, B](shape, b)
}

// Full creates a tensor filled with a specific value.
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	return tensor.Full[T, B](shape, value, b)
}

// BroadcastShapes implements NumPy-style broadcasting rules.
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	return tensor.BroadcastShapes(a, b)
}
