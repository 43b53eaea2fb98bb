package linalg

import (
	"math"
	"testing"
)

func TestSdotAgainstBuiltin(t *testing.T) {
	x := []float32{1, 2, 3, 4}
	y := []float32{4, 3, 2, 1}
	want := Builtin().Sdot(4, x, 1, y, 1)
	got := Gonum().Sdot(4, x, 1, y, 1)
	if want != 20 {
		t.Errorf("Expecting builtin dot 20, got %f", want)
	}
	if got != want {
		t.Errorf("Expecting gonum dot %f, got %f", want, got)
	}
}

func TestSdotStrided(t *testing.T) {
	// Columns of a 2x2 row-major matrix.
	a := []float32{1, 2, 3, 4}
	got := Gonum().Sdot(2, a, 2, a[1:], 2)
	if got != 1*2+3*4 {
		t.Errorf("Expecting 14, got %f", got)
	}
}

func TestSaxpy(t *testing.T) {
	for _, b := range []Blas{Builtin(), Gonum()} {
		y := []float32{1, 1, 1}
		b.Saxpy(3, 2, []float32{1, 2, 3}, 1, y, 1)
		if y[0] != 3 || y[1] != 5 || y[2] != 7 {
			t.Errorf("Expecting [3 5 7], got %v", y)
		}
	}
}

func TestSgemm(t *testing.T) {
	// A = [1 2; 3 4], B = [5 6; 7 8], C = A * B = [19 22; 43 50].
	a := []float32{1, 2, 3, 4}
	b := []float32{5, 6, 7, 8}
	want := []float32{19, 22, 43, 50}
	for _, impl := range []Blas{Builtin(), Gonum()} {
		c := make([]float32, 4)
		impl.Sgemm(false, false, 2, 2, 2, 1, a, 2, b, 2, 0, c, 2)
		for i := range want {
			if c[i] != want[i] {
				t.Errorf("Expecting C = %v, got %v", want, c)
				break
			}
		}
	}
}

func TestSgemmTransposed(t *testing.T) {
	// A = [1 2; 3 4]; A' * A = [10 14; 14 20].
	a := []float32{1, 2, 3, 4}
	want := []float32{10, 14, 14, 20}
	for _, impl := range []Blas{Builtin(), Gonum()} {
		c := make([]float32, 4)
		impl.Sgemm(true, false, 2, 2, 2, 1, a, 2, a, 2, 0, c, 2)
		for i := range want {
			if math.Abs(float64(c[i]-want[i])) > 1e-6 {
				t.Errorf("Expecting A'A = %v, got %v", want, c)
				break
			}
		}
	}

	// A * A' = [5 11; 11 25].
	want = []float32{5, 11, 11, 25}
	for _, impl := range []Blas{Builtin(), Gonum()} {
		c := make([]float32, 4)
		impl.Sgemm(false, true, 2, 2, 2, 1, a, 2, a, 2, 0, c, 2)
		for i := range want {
			if math.Abs(float64(c[i]-want[i])) > 1e-6 {
				t.Errorf("Expecting AA' = %v, got %v", want, c)
				break
			}
		}
	}
}

func TestScsr2csc(t *testing.T) {
	// [1 0 2; 0 3 0] in CSR.
	val := []float32{1, 2, 3}
	rowPtr := []int{0, 2, 3}
	colInd := []int{0, 2, 1}

	cscVal := make([]float32, 3)
	cscRowInd := make([]int, 3)
	cscColPtr := make([]int, 4)
	Gonum().Scsr2csc(2, 3, 3, val, rowPtr, colInd, cscVal, cscRowInd, cscColPtr)

	wantVal := []float32{1, 3, 2}
	wantRowInd := []int{0, 1, 0}
	wantColPtr := []int{0, 1, 2, 3}
	for i := range wantVal {
		if cscVal[i] != wantVal[i] || cscRowInd[i] != wantRowInd[i] {
			t.Errorf("Expecting (%v, %v), got (%v, %v)",
				wantVal, wantRowInd, cscVal, cscRowInd)
			break
		}
	}
	for i := range wantColPtr {
		if cscColPtr[i] != wantColPtr[i] {
			t.Errorf("Expecting column pointers %v, got %v", wantColPtr, cscColPtr)
			break
		}
	}
}

func TestProbe(t *testing.T) {
	if Probe() == nil {
		t.Errorf("Probe must always return a binding")
	}
}
