package cpu

import (
	"math"
	"math/rand"
	"testing"

	"github.com/camsim-dev/camsim/internal/tensor"
)

func TestRandUniformRange(t *testing.T) {
	backend := New()
	rng := rand.New(rand.NewSource(7))

	x := backend.RandUniform(tensor.Shape{1000}, tensor.Float32, rng)
	for i, v := range x.AsFloat32() {
		if v < 0 || v >= 1 {
			t.Fatalf("element %d = %v, want [0, 1)", i, v)
		}
	}
}

func TestRandUniformDeterministic(t *testing.T) {
	backend := New()

	a := backend.RandUniform(tensor.Shape{64}, tensor.Float32, rand.New(rand.NewSource(42)))
	b := backend.RandUniform(tensor.Shape{64}, tensor.Float32, rand.New(rand.NewSource(42)))

	assertFloat32Slice(t, a.AsFloat32(), b.AsFloat32(), "same seed, same samples")
}

func TestRandNormalMoments(t *testing.T) {
	backend := New()
	rng := rand.New(rand.NewSource(1))

	x := backend.RandNormal(tensor.Shape{10000}, 2.0, 0.5, tensor.Float64, rng)
	data := x.AsFloat64()

	var sum float64
	for _, v := range data {
		sum += v
	}
	mean := sum / float64(len(data))
	if math.Abs(mean-2.0) > 0.05 {
		t.Errorf("sample mean = %v, want about 2.0", mean)
	}

	var sq float64
	for _, v := range data {
		sq += (v - mean) * (v - mean)
	}
	std := math.Sqrt(sq / float64(len(data)))
	if math.Abs(std-0.5) > 0.05 {
		t.Errorf("sample std = %v, want about 0.5", std)
	}
}

func TestRandBernoulli(t *testing.T) {
	backend := New()
	rng := rand.New(rand.NewSource(3))

	x := backend.RandBernoulli(tensor.Shape{10000}, 0.25, rng)
	if x.DType() != tensor.Bool {
		t.Fatalf("dtype = %v, want Bool", x.DType())
	}

	count := 0
	for _, v := range x.AsBool() {
		if v {
			count++
		}
	}
	rate := float64(count) / 10000
	if math.Abs(rate-0.25) > 0.02 {
		t.Errorf("hit rate = %v, want about 0.25", rate)
	}
}

func TestRandBernoulliExtremes(t *testing.T) {
	backend := New()

	zeros := backend.RandBernoulli(tensor.Shape{100}, 0, rand.New(rand.NewSource(1)))
	for i, v := range zeros.AsBool() {
		if v {
			t.Fatalf("p=0: element %d is true", i)
		}
	}

	ones := backend.RandBernoulli(tensor.Shape{100}, 1, rand.New(rand.NewSource(1)))
	for i, v := range ones.AsBool() {
		if !v {
			t.Fatalf("p=1: element %d is false", i)
		}
	}
}

func TestRandBernoulliBadProbabilityPanics(t *testing.T) {
	backend := New()
	defer func() {
		if recover() == nil {
			t.Error("p outside [0, 1] should panic")
		}
	}()
	_ = backend.RandBernoulli(tensor.Shape{2}, 1.5, rand.New(rand.NewSource(1)))
}
