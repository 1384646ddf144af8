package cpu

import (
	"testing"

	"github.com/camsim-dev/camsim/internal/tensor"
)

func TestUnsqueezeSqueeze(t *testing.T) {
	backend := New()
	x := rawFloat32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})

	up := backend.Unsqueeze(x, 0)
	if !up.Shape().Equal(tensor.Shape{1, 2, 3}) {
		t.Fatalf("Unsqueeze(0) shape = %v, want [1 2 3]", up.Shape())
	}

	neg := backend.Unsqueeze(x, -2)
	if !neg.Shape().Equal(tensor.Shape{2, 1, 3}) {
		t.Fatalf("Unsqueeze(-2) shape = %v, want [2 1 3]", neg.Shape())
	}

	down := backend.Squeeze(up, 0)
	if !down.Shape().Equal(tensor.Shape{2, 3}) {
		t.Fatalf("Squeeze(0) shape = %v, want [2 3]", down.Shape())
	}

	// Views share storage with the source.
	assertFloat32Slice(t, x.AsFloat32(), down.AsFloat32(), "squeeze roundtrip data")
}

func TestSqueezeNonUnitPanics(t *testing.T) {
	backend := New()
	x := rawFloat32(t, tensor.Shape{2, 3}, make([]float32, 6))

	defer func() {
		if recover() == nil {
			t.Error("Squeeze of a non-unit dimension should panic")
		}
	}()
	_ = backend.Squeeze(x, 0)
}

func TestExpand(t *testing.T) {
	backend := New()
	x := rawFloat32(t, tensor.Shape{1, 3}, []float32{1, 2, 3})

	out := backend.Expand(x, tensor.Shape{2, 3})
	if !out.Shape().Equal(tensor.Shape{2, 3}) {
		t.Fatalf("Expand shape = %v, want [2 3]", out.Shape())
	}
	assertFloat32Slice(t, []float32{1, 2, 3, 1, 2, 3}, out.AsFloat32(), "Expand")
}

func TestStack(t *testing.T) {
	backend := New()
	a := rawFloat32(t, tensor.Shape{2, 2}, []float32{1, 2, 3, 4})
	b := rawFloat32(t, tensor.Shape{2, 2}, []float32{5, 6, 7, 8})

	out := backend.Stack([]*tensor.RawTensor{a, b}, 0)
	if !out.Shape().Equal(tensor.Shape{2, 2, 2}) {
		t.Fatalf("Stack shape = %v, want [2 2 2]", out.Shape())
	}
	assertFloat32Slice(t, []float32{1, 2, 3, 4, 5, 6, 7, 8}, out.AsFloat32(), "Stack")
}

func TestChunk(t *testing.T) {
	backend := New()
	x := rawFloat32(t, tensor.Shape{4, 2}, []float32{1, 2, 3, 4, 5, 6, 7, 8})

	parts := backend.Chunk(x, 2, 0)
	if len(parts) != 2 {
		t.Fatalf("Chunk returned %d parts, want 2", len(parts))
	}
	if !parts[0].Shape().Equal(tensor.Shape{2, 2}) {
		t.Fatalf("part shape = %v, want [2 2]", parts[0].Shape())
	}
	assertFloat32Slice(t, []float32{1, 2, 3, 4}, parts[0].AsFloat32(), "Chunk part 0")
	assertFloat32Slice(t, []float32{5, 6, 7, 8}, parts[1].AsFloat32(), "Chunk part 1")
}

func TestStackChunkRoundtrip(t *testing.T) {
	backend := New()
	a := rawFloat32(t, tensor.Shape{3}, []float32{1, 2, 3})
	b := rawFloat32(t, tensor.Shape{3}, []float32{4, 5, 6})

	stacked := backend.Stack([]*tensor.RawTensor{a, b}, 0)
	parts := backend.Chunk(stacked, 2, 0)

	back := backend.Squeeze(parts[1], 0)
	assertFloat32Slice(t, []float32{4, 5, 6}, back.AsFloat32(), "stack/chunk roundtrip")
}
