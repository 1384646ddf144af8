// Copyright 2025 The camsim authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu exposes the host-vectorized CPU backend.
package cpu

import (
	"github.com/camsim-dev/camsim/internal/backend/cpu"
	"github.com/camsim-dev/camsim/internal/tensor"
)

// Backend is the CPU implementation of the tensor.Backend capability.
type Backend = cpu.CPUBackend

// New creates a CPU backend.
func New() *Backend {
	return cpu.New()
}

var _ tensor.Backend = (*Backend)(nil)
