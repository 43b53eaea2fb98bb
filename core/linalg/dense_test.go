package linalg

import (
	"testing"
)

func TestNewDenseShape(t *testing.T) {
	m := NewDense(3, 2)
	if m.Rows() != 3 || m.Cols() != 2 {
		t.Errorf("Expecting shape 3x2, got %dx%d", m.Rows(), m.Cols())
	}
	if !m.ByRows() {
		t.Errorf("Expecting row-major storage")
	}
	if m.LD() != 2 {
		t.Errorf("Expecting leading dimension 2, got %d", m.LD())
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 2; j++ {
			if m.At(i, j) != 0 {
				t.Errorf("Expecting zero initialization at (%d, %d)", i, j)
			}
		}
	}
}

func TestDenseOrientation(t *testing.T) {
	r := NewDense(2, 3)
	c := NewDenseColMajor(2, 3)
	r.Set(1, 2, 7)
	c.Set(1, 2, 7)

	if r.At(1, 2) != 7 || c.At(1, 2) != 7 {
		t.Errorf("Element access must not depend on orientation")
	}
	if r.Data()[1*3+2] != 7 {
		t.Errorf("Row-major buffer layout is wrong")
	}
	if c.Data()[2*2+1] != 7 {
		t.Errorf("Column-major buffer layout is wrong")
	}
	if c.LD() != 2 {
		t.Errorf("Expecting column-major leading dimension 2, got %d", c.LD())
	}
}

func TestDenseRowColVectors(t *testing.T) {
	m := NewDense(2, 3)
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			m.Set(i, j, float32(10*i+j))
		}
	}

	row, inc := m.Row(1)
	if inc != 1 {
		t.Errorf("Expecting contiguous row in row-major storage")
	}
	for j := 0; j < 3; j++ {
		if row[j*inc] != float32(10+j) {
			t.Errorf("Row(1)[%d] = %f", j, row[j*inc])
		}
	}

	col, inc := m.Col(2)
	if inc != 3 {
		t.Errorf("Expecting column stride 3, got %d", inc)
	}
	for i := 0; i < 2; i++ {
		if col[i*inc] != float32(10*i+2) {
			t.Errorf("Col(2)[%d] = %f", i, col[i*inc])
		}
	}
}

func TestDenseClone(t *testing.T) {
	m := NewDenseColMajor(2, 2)
	m.Set(0, 1, 5)
	n := m.Clone()
	n.Set(0, 1, 9)
	if m.At(0, 1) != 5 {
		t.Errorf("Clone must copy deeply")
	}
	if n.ByRows() != m.ByRows() {
		t.Errorf("Clone must preserve orientation")
	}
}

func TestDenseZero(t *testing.T) {
	m := NewDense(2, 2)
	m.Set(1, 1, 3)
	m.Zero()
	if m.At(1, 1) != 0 {
		t.Errorf("Zero must reset every element")
	}
}

func TestMulElem(t *testing.T) {
	a := NewDense(1, 3)
	b := NewDense(1, 3)
	for j := 0; j < 3; j++ {
		a.Set(0, j, float32(j+1))
		b.Set(0, j, 2)
	}
	MulElem(a, a, b)
	for j := 0; j < 3; j++ {
		if a.At(0, j) != float32(2*(j+1)) {
			t.Errorf("MulElem at (0, %d): %f", j, a.At(0, j))
		}
	}
}

func TestDivElemZero(t *testing.T) {
	a := NewDense(1, 3)
	b := NewDense(1, 3)
	a.Set(0, 0, 6)
	b.Set(0, 0, 2)
	a.Set(0, 1, 6) // b is 0 here
	b.Set(0, 2, 2) // a is 0 here

	dst := NewDense(1, 3)
	DivElemZero(dst, a, b)
	if dst.At(0, 0) != 3 {
		t.Errorf("Expecting 6/2 = 3, got %f", dst.At(0, 0))
	}
	if dst.At(0, 1) != 0 || dst.At(0, 2) != 0 {
		t.Errorf("Division involving a zero operand must yield 0")
	}
}

func TestDenseBoundsPanic(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Expecting panic on out of range access")
		}
	}()
	NewDense(2, 2).At(2, 0)
}
