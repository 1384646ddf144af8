package cpu

import (
	"testing"

	"github.com/camsim-dev/camsim/internal/tensor"
)

func TestSumDim(t *testing.T) {
	backend := New()
	// [[1, 2, 3],
	//  [4, 5, 6]]
	x := rawFloat32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})

	result := backend.SumDim(x, -1, false)
	if !result.Shape().Equal(tensor.Shape{2}) {
		t.Fatalf("shape = %v, want [2]", result.Shape())
	}
	assertFloat32Slice(t, []float32{6, 15}, result.AsFloat32(), "SumDim(-1)")

	kept := backend.SumDim(x, 1, true)
	if !kept.Shape().Equal(tensor.Shape{2, 1}) {
		t.Fatalf("keepDim shape = %v, want [2 1]", kept.Shape())
	}

	cols := backend.SumDim(x, 0, false)
	assertFloat32Slice(t, []float32{5, 7, 9}, cols.AsFloat32(), "SumDim(0)")
}

func TestSumDimInt64(t *testing.T) {
	backend := New()
	x, _ := tensor.NewRaw(tensor.Shape{2, 2}, tensor.Int64, tensor.CPU)
	copy(x.AsInt64(), []int64{1, 2, 3, 4})

	result := backend.SumDim(x, -1, false)
	got := result.AsInt64()
	if got[0] != 3 || got[1] != 7 {
		t.Errorf("SumDim int64 = %v, want [3 7]", got)
	}
}

func TestMinMaxDim(t *testing.T) {
	backend := New()
	x := rawFloat32(t, tensor.Shape{2, 3}, []float32{3, 1, 2, -1, 5, 0})

	minRes := backend.MinDim(x, -1, false)
	assertFloat32Slice(t, []float32{1, -1}, minRes.AsFloat32(), "MinDim")

	maxRes := backend.MaxDim(x, -1, false)
	assertFloat32Slice(t, []float32{3, 5}, maxRes.AsFloat32(), "MaxDim")
}

func TestArgminArgmaxDim(t *testing.T) {
	backend := New()
	x := rawFloat32(t, tensor.Shape{2, 3}, []float32{3, 1, 2, -1, 5, 0})

	argmin := backend.ArgminDim(x, -1)
	if argmin.DType() != tensor.Int64 {
		t.Fatalf("ArgminDim dtype = %v, want Int64", argmin.DType())
	}
	got := argmin.AsInt64()
	if got[0] != 1 || got[1] != 0 {
		t.Errorf("ArgminDim = %v, want [1 0]", got)
	}

	argmax := backend.ArgmaxDim(x, -1)
	gotMax := argmax.AsInt64()
	if gotMax[0] != 0 || gotMax[1] != 1 {
		t.Errorf("ArgmaxDim = %v, want [0 1]", gotMax)
	}
}

func TestArgminTiesPickFirst(t *testing.T) {
	backend := New()
	x := rawFloat32(t, tensor.Shape{1, 4}, []float32{2, 1, 1, 2})

	got := backend.ArgminDim(x, -1).AsInt64()
	if got[0] != 1 {
		t.Errorf("ArgminDim with ties = %d, want 1 (first winner)", got[0])
	}
}

func TestAllAnyDim(t *testing.T) {
	backend := New()
	x := rawBool(t, tensor.Shape{2, 3}, []bool{true, true, true, true, false, true})

	all := backend.AllDim(x, -1, false).AsBool()
	if !all[0] || all[1] {
		t.Errorf("AllDim = %v, want [true false]", all)
	}

	any := backend.AnyDim(x, -1, false).AsBool()
	if !any[0] || !any[1] {
		t.Errorf("AnyDim = %v, want [true true]", any)
	}
}

func TestAllDimEmptyIsVacuouslyTrue(t *testing.T) {
	backend := New()
	x, _ := tensor.NewRaw(tensor.Shape{2, 0}, tensor.Bool, tensor.CPU)

	all := backend.AllDim(x, -1, false).AsBool()
	if !all[0] || !all[1] {
		t.Errorf("AllDim over an empty dimension = %v, want [true true]", all)
	}

	any := backend.AnyDim(x, -1, false).AsBool()
	if any[0] || any[1] {
		t.Errorf("AnyDim over an empty dimension = %v, want [false false]", any)
	}
}

func TestMinDimEmptyPanics(t *testing.T) {
	backend := New()
	x, _ := tensor.NewRaw(tensor.Shape{2, 0}, tensor.Float32, tensor.CPU)

	defer func() {
		if recover() == nil {
			t.Error("MinDim over an empty dimension should panic")
		}
	}()
	_ = backend.MinDim(x, -1, false)
}
