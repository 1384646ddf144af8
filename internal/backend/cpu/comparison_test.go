package cpu

import (
	"math"
	"testing"

	"github.com/camsim-dev/camsim/internal/tensor"
)

func assertBoolSlice(t *testing.T, expected, actual []bool, msg string) {
	t.Helper()
	if len(expected) != len(actual) {
		t.Fatalf("%s: expected %d elements, got %d", msg, len(expected), len(actual))
	}
	for i := range expected {
		if expected[i] != actual[i] {
			t.Errorf("%s: element %d = %v, want %v", msg, i, actual[i], expected[i])
		}
	}
}

func TestComparisons(t *testing.T) {
	backend := New()
	a := rawFloat32(t, tensor.Shape{3}, []float32{1, 2, 3})
	b := rawFloat32(t, tensor.Shape{3}, []float32{2, 2, 2})

	assertBoolSlice(t, []bool{false, false, true}, backend.Greater(a, b).AsBool(), "Greater")
	assertBoolSlice(t, []bool{true, false, false}, backend.Lower(a, b).AsBool(), "Lower")
	assertBoolSlice(t, []bool{false, true, true}, backend.GreaterEqual(a, b).AsBool(), "GreaterEqual")
	assertBoolSlice(t, []bool{true, true, false}, backend.LowerEqual(a, b).AsBool(), "LowerEqual")
	assertBoolSlice(t, []bool{false, true, false}, backend.Equal(a, b).AsBool(), "Equal")
	assertBoolSlice(t, []bool{true, false, true}, backend.NotEqual(a, b).AsBool(), "NotEqual")
}

func TestEqualBroadcast(t *testing.T) {
	backend := New()
	a := rawFloat32(t, tensor.Shape{2, 2}, []float32{1, 2, 3, 2})
	b := rawFloat32(t, tensor.Shape{1}, []float32{2})

	eq := backend.Equal(a, b)
	if !eq.Shape().Equal(tensor.Shape{2, 2}) {
		t.Fatalf("shape = %v, want [2 2]", eq.Shape())
	}
	assertBoolSlice(t, []bool{false, true, false, true}, eq.AsBool(), "broadcast Equal")
}

func TestEqualNaN(t *testing.T) {
	backend := New()
	nan := float32(math.NaN())
	a := rawFloat32(t, tensor.Shape{2}, []float32{nan, 1})
	b := rawFloat32(t, tensor.Shape{2}, []float32{nan, 1})

	assertBoolSlice(t, []bool{false, true}, backend.Equal(a, b).AsBool(), "NaN never equals NaN")
}

func TestBooleanOps(t *testing.T) {
	backend := New()
	a := rawBool(t, tensor.Shape{4}, []bool{true, true, false, false})
	b := rawBool(t, tensor.Shape{4}, []bool{true, false, true, false})

	assertBoolSlice(t, []bool{true, false, false, false}, backend.And(a, b).AsBool(), "And")
	assertBoolSlice(t, []bool{true, true, true, false}, backend.Or(a, b).AsBool(), "Or")
	assertBoolSlice(t, []bool{false, true, true, false}, backend.Xor(a, b).AsBool(), "Xor")
	assertBoolSlice(t, []bool{false, false, true, true}, backend.Not(a).AsBool(), "Not")
}

func TestBooleanBroadcast(t *testing.T) {
	backend := New()
	a := rawBool(t, tensor.Shape{2, 2}, []bool{true, false, true, false})
	b := rawBool(t, tensor.Shape{1, 2}, []bool{true, true})

	assertBoolSlice(t, []bool{true, false, true, false}, backend.And(a, b).AsBool(), "broadcast And")
}
