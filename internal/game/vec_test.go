package game

import (
	"math"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestVec3_NormalizeUnit(t *testing.T) {
	v, ok := Vec3{3, 0, 4}.Normalize()
	if !ok {
		t.Fatal("expected non-zero vector to normalize")
	}
	if !approx(v.Len(), 1) || !approx(v.X, 0.6) || !approx(v.Z, 0.8) {
		t.Fatalf("unexpected unit vector %v", v)
	}
}

func TestVec3_NormalizeZero(t *testing.T) {
	if _, ok := (Vec3{}).Normalize(); ok {
		t.Fatal("zero vector must not normalize")
	}
	if _, ok := (Vec3{X: math.NaN()}).Normalize(); ok {
		t.Fatal("NaN vector must not normalize")
	}
}

func TestVec3_CrossRightHanded(t *testing.T) {
	fwd := Vec3{Z: -1}
	r := fwd.Cross(Up)
	if !approx(r.X, 1) || !approx(r.Y, 0) || !approx(r.Z, 0) {
		t.Fatalf("-Z × Up should be +X, got %v", r)
	}
}

func TestVec3_DistXZIgnoresHeight(t *testing.T) {
	a := Vec3{0, 0, 0}
	b := Vec3{3, 100, 4}
	if !approx(a.DistXZ(b), 5) {
		t.Fatalf("DistXZ=%v, want 5", a.DistXZ(b))
	}
}

func TestVec3_LerpEndpoints(t *testing.T) {
	a, b := Vec3{0, 0, 0}, Vec3{10, 2, -4}
	if a.Lerp(b, 0) != a {
		t.Fatal("lerp t=0 should return start")
	}
	if got := a.Lerp(b, 1); !approx(got.X, 10) || !approx(got.Y, 2) || !approx(got.Z, -4) {
		t.Fatalf("lerp t=1 = %v, want %v", got, b)
	}
	if got := a.Lerp(b, 0.5); !approx(got.X, 5) {
		t.Fatalf("lerp t=0.5 X=%v, want 5", got.X)
	}
}
