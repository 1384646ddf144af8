package tensor

import (
	"fmt"
	"testing"
)

func TestTensorFromSlice(t *testing.T) {
	backend := NewMockBackend()
	x, err := FromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3}, backend)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}

	assertEqualShape(t, Shape{2, 3}, x.Shape(), "FromSlice shape")
	assertEqualFloat32(t, 1, x.At(0, 0), "At(0,0)")
	assertEqualFloat32(t, 6, x.At(1, 2), "At(1,2)")
}

func TestTensorFromSliceWrongCount(t *testing.T) {
	backend := NewMockBackend()
	if _, err := FromSlice([]float32{1, 2, 3}, Shape{2, 3}, backend); err == nil {
		t.Error("FromSlice with a short slice should fail")
	}
}

func TestTensorSet(t *testing.T) {
	backend := NewMockBackend()
	x := Zeros[float32](Shape{2, 2}, backend)
	x.Set(3.5, 1, 0)
	assertEqualFloat32(t, 3.5, x.At(1, 0), "Set then At")
	assertEqualFloat32(t, 0, x.At(0, 1), "untouched element")
}

func TestTensorAdd(t *testing.T) {
	backend := NewMockBackend()
	a, _ := FromSlice([]float32{1, 2, 3, 4}, Shape{2, 2}, backend)
	b, _ := FromSlice([]float32{10, 20, 30, 40}, Shape{2, 2}, backend)

	c := a.Add(b)

	expected := []float32{11, 22, 33, 44}
	for i, want := range expected {
		assertEqualFloat32(t, want, c.Data()[i], fmt.Sprintf("Add[%d]", i))
	}
}

func TestTensorSubBroadcast(t *testing.T) {
	backend := NewMockBackend()
	a, _ := FromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3}, backend)
	b, _ := FromSlice([]float32{1, 1, 1}, Shape{1, 3}, backend)

	c := a.Sub(b)

	assertEqualShape(t, Shape{2, 3}, c.Shape(), "broadcast Sub shape")
	expected := []float32{0, 1, 2, 3, 4, 5}
	for i, want := range expected {
		assertEqualFloat32(t, want, c.Data()[i], fmt.Sprintf("Sub[%d]", i))
	}
}

func TestTensorMulScalar(t *testing.T) {
	backend := NewMockBackend()
	a, _ := FromSlice([]float32{1, -2, 3}, Shape{3}, backend)

	c := a.MulScalar(2)

	expected := []float32{2, -4, 6}
	for i, want := range expected {
		assertEqualFloat32(t, want, c.Data()[i], fmt.Sprintf("MulScalar[%d]", i))
	}
}

func TestTensorAbs(t *testing.T) {
	backend := NewMockBackend()
	a, _ := FromSlice([]float32{-1, 2, -3}, Shape{3}, backend)

	c := a.Abs()

	expected := []float32{1, 2, 3}
	for i, want := range expected {
		assertEqualFloat32(t, want, c.Data()[i], fmt.Sprintf("Abs[%d]", i))
	}
}

func TestTensorSumDim(t *testing.T) {
	backend := NewMockBackend()
	// [[1, 2, 3],
	//  [4, 5, 6]]
	x, _ := FromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3}, backend)

	sum := x.SumDim(-1, false)
	assertEqualShape(t, Shape{2}, sum.Shape(), "SumDim(-1) shape")
	assertEqualFloat32(t, 6, sum.Data()[0], "row 0 sum")
	assertEqualFloat32(t, 15, sum.Data()[1], "row 1 sum")
}

func TestTensorEqual(t *testing.T) {
	backend := NewMockBackend()
	a, _ := FromSlice([]float32{1, 2, 3}, Shape{3}, backend)
	b, _ := FromSlice([]float32{1, 0, 3}, Shape{3}, backend)

	eq := Equal(a, b)

	want := []bool{true, false, true}
	for i, w := range want {
		if eq.Data()[i] != w {
			t.Errorf("Equal[%d] = %v, want %v", i, eq.Data()[i], w)
		}
	}
}

func TestTensorWhere(t *testing.T) {
	backend := NewMockBackend()
	cond, _ := FromSlice([]bool{true, false, true}, Shape{3}, backend)
	x, _ := FromSlice([]float32{1, 1, 1}, Shape{3}, backend)
	y, _ := FromSlice([]float32{9, 9, 9}, Shape{3}, backend)

	out := Where(cond, x, y)

	expected := []float32{1, 9, 1}
	for i, want := range expected {
		assertEqualFloat32(t, want, out.Data()[i], fmt.Sprintf("Where[%d]", i))
	}
}

func TestTensorClone(t *testing.T) {
	backend := NewMockBackend()
	a, _ := FromSlice([]float32{1, 2}, Shape{2}, backend)

	b := a.Clone()
	b.Set(99, 0)

	assertEqualFloat32(t, 1, a.At(0), "original after clone mutation")
}
