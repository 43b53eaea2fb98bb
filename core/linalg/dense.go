package linalg

import (
	"fmt"
)

// Dense is a two-dimensional float32 buffer.  The storage orientation
// (row-major or column-major) is fixed at construction; it decides the
// BLAS leading dimension and which of Row/Col returns a contiguous
// vector, but not the element access contract.
type Dense struct {
	rows   int
	cols   int
	byRows bool
	data   []float32
}

// NewDense creates a zeroed rows x cols matrix stored by rows.
func NewDense(rows, cols int) *Dense {
	return newDense(rows, cols, true)
}

// NewDenseColMajor creates a zeroed rows x cols matrix stored by
// columns, so that Col returns contiguous slices.
func NewDenseColMajor(rows, cols int) *Dense {
	return newDense(rows, cols, false)
}

func newDense(rows, cols int, byRows bool) *Dense {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("invalid shape %dx%d", rows, cols))
	}
	return &Dense{
		rows:   rows,
		cols:   cols,
		byRows: byRows,
		data:   make([]float32, rows*cols),
	}
}

func (m *Dense) Rows() int { return m.rows }
func (m *Dense) Cols() int { return m.cols }

// ByRows reports whether the matrix is stored row-major.
func (m *Dense) ByRows() bool { return m.byRows }

// LD returns the BLAS leading dimension of the underlying buffer.
func (m *Dense) LD() int {
	if m.byRows {
		return m.cols
	}
	return m.rows
}

// Data exposes the raw buffer for BLAS calls.  Hot loops index it
// directly and skip the bounds checks of At and Set.
func (m *Dense) Data() []float32 { return m.data }

func (m *Dense) index(r, c int) int {
	if r < 0 || r >= m.rows || c < 0 || c >= m.cols {
		panic(fmt.Sprintf("index (%d, %d) out of %dx%d", r, c, m.rows, m.cols))
	}
	if m.byRows {
		return r*m.cols + c
	}
	return c*m.rows + r
}

func (m *Dense) At(r, c int) float32 { return m.data[m.index(r, c)] }

func (m *Dense) Set(r, c int, v float32) { m.data[m.index(r, c)] = v }

// Zero resets every element to 0.
func (m *Dense) Zero() {
	for i := range m.data {
		m.data[i] = 0
	}
}

// Clone returns a deep copy with the same shape and orientation.
func (m *Dense) Clone() *Dense {
	n := &Dense{
		rows:   m.rows,
		cols:   m.cols,
		byRows: m.byRows,
		data:   make([]float32, len(m.data)),
	}
	copy(n.data, m.data)
	return n
}

// Row returns the vector of row r as a slice plus a stride, suitable
// for Sdot and Saxpy.  The slice is contiguous iff the matrix is
// stored by rows.
func (m *Dense) Row(r int) ([]float32, int) {
	if m.byRows {
		return m.data[r*m.cols : (r+1)*m.cols], 1
	}
	return m.data[r:], m.rows
}

// Col returns the vector of column c as a slice plus a stride.
func (m *Dense) Col(c int) ([]float32, int) {
	if m.byRows {
		return m.data[c:], m.cols
	}
	return m.data[c*m.rows : (c+1)*m.rows], 1
}

func sameLayout(a, b *Dense) {
	if a.rows != b.rows || a.cols != b.cols {
		panic(fmt.Sprintf("shape mismatch %dx%d vs %dx%d",
			a.rows, a.cols, b.rows, b.cols))
	}
	if a.byRows != b.byRows {
		panic("orientation mismatch")
	}
}

// MulElem stores a .* b into dst.  All three matrices must share shape
// and orientation; dst may alias a or b.
func MulElem(dst, a, b *Dense) {
	sameLayout(a, b)
	sameLayout(dst, a)
	for i := range dst.data {
		dst.data[i] = a.data[i] * b.data[i]
	}
}

// DivElemZero stores a ./ b into dst, with the convention that the
// quotient is 0 whenever either operand is 0.
func DivElemZero(dst, a, b *Dense) {
	sameLayout(a, b)
	sameLayout(dst, a)
	for i := range dst.data {
		if a.data[i] == 0 || b.data[i] == 0 {
			dst.data[i] = 0
		} else {
			dst.data[i] = a.data[i] / b.data[i]
		}
	}
}
