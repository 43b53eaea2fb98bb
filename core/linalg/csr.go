package linalg

import (
	"fmt"
)

// CSR is a compressed-row float32 matrix: m rows, n columns and nnz
// stored values.  val and colInd run over the non-zeros in row order;
// rowPtr[i]:rowPtr[i+1] delimits row i.
type CSR struct {
	m      int
	n      int
	val    []float32
	rowPtr []int
	colInd []int
}

// NewCSR builds a CSR matrix taking ownership of the three parallel
// slices.  The column count n cannot be deduced from them and must be
// given explicitly.
func NewCSR(n int, val []float32, rowPtr, colInd []int) *CSR {
	if len(rowPtr) < 1 {
		panic("rowPtr must hold at least one element")
	}
	if len(val) != len(colInd) {
		panic(fmt.Sprintf("len(val)=%d != len(colInd)=%d", len(val), len(colInd)))
	}
	return &CSR{
		m:      len(rowPtr) - 1,
		n:      n,
		val:    val,
		rowPtr: rowPtr,
		colInd: colInd,
	}
}

func (a *CSR) M() int   { return a.m }
func (a *CSR) N() int   { return a.n }
func (a *CSR) NNZ() int { return len(a.val) }

func (a *CSR) Val() []float32 { return a.val }
func (a *CSR) RowPtr() []int  { return a.rowPtr }
func (a *CSR) ColInd() []int  { return a.colInd }

// Clone returns a deep copy.
func (a *CSR) Clone() *CSR {
	val := make([]float32, len(a.val))
	rowPtr := make([]int, len(a.rowPtr))
	colInd := make([]int, len(a.colInd))
	copy(val, a.val)
	copy(rowPtr, a.rowPtr)
	copy(colInd, a.colInd)
	return &CSR{m: a.m, n: a.n, val: val, rowPtr: rowPtr, colInd: colInd}
}

// Transpose converts the matrix to its transpose in place, using the
// Scsr2csc kernel of blas.  m and n swap.
func (a *CSR) Transpose(blas Blas) {
	val := make([]float32, len(a.val))
	rowInd := make([]int, len(a.colInd))
	colPtr := make([]int, a.n+1)
	blas.Scsr2csc(a.m, a.n, len(a.val), a.val, a.rowPtr, a.colInd,
		val, rowInd, colPtr)
	a.m, a.n = a.n, a.m
	a.val = val
	a.rowPtr = colPtr
	a.colInd = rowInd
}
