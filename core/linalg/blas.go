package linalg

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/gonum"
)

// Blas is the set of kernels the EM loops need.  Matrices passed to
// Sgemm are row-major, gonum's storage convention.  Scsr2csc converts
// a CSR triple to CSC; output slices must not alias the inputs.
type Blas interface {
	Sdot(n int, x []float32, incX int, y []float32, incY int) float32
	Saxpy(n int, alpha float32, x []float32, incX int, y []float32, incY int)
	Sgemm(transA, transB bool, m, n, k int,
		alpha float32, a []float32, lda int, b []float32, ldb int,
		beta float32, c []float32, ldc int)
	Scsr2csc(m, n, nnz int,
		val []float32, rowPtr, colInd []int,
		cscVal []float32, cscRowInd, cscColPtr []int)
}

// Gonum returns the accelerated binding, backed by
// gonum.org/v1/gonum/blas/gonum.
func Gonum() Blas { return gonumBlas{} }

// Builtin returns the reference implementation with plain loops.
func Builtin() Blas { return builtinBlas{} }

// Probe picks the preferred binding available on this host.  A worker
// holds the returned value for its whole lifetime.
func Probe() Blas { return Gonum() }

type gonumBlas struct {
	impl gonum.Implementation
}

func (g gonumBlas) Sdot(n int, x []float32, incX int, y []float32, incY int) float32 {
	return g.impl.Sdot(n, x, incX, y, incY)
}

func (g gonumBlas) Saxpy(n int, alpha float32, x []float32, incX int, y []float32, incY int) {
	g.impl.Saxpy(n, alpha, x, incX, y, incY)
}

func (g gonumBlas) Sgemm(transA, transB bool, m, n, k int,
	alpha float32, a []float32, lda int, b []float32, ldb int,
	beta float32, c []float32, ldc int) {
	tA, tB := blas.NoTrans, blas.NoTrans
	if transA {
		tA = blas.Trans
	}
	if transB {
		tB = blas.Trans
	}
	g.impl.Sgemm(tA, tB, m, n, k, alpha, a, lda, b, ldb, beta, c, ldc)
}

func (g gonumBlas) Scsr2csc(m, n, nnz int,
	val []float32, rowPtr, colInd []int,
	cscVal []float32, cscRowInd, cscColPtr []int) {
	scsr2csc(m, n, nnz, val, rowPtr, colInd, cscVal, cscRowInd, cscColPtr)
}

type builtinBlas struct{}

func (builtinBlas) Sdot(n int, x []float32, incX int, y []float32, incY int) float32 {
	var sum float32
	ix, iy := 0, 0
	for i := 0; i < n; i++ {
		sum += x[ix] * y[iy]
		ix += incX
		iy += incY
	}
	return sum
}

func (builtinBlas) Saxpy(n int, alpha float32, x []float32, incX int, y []float32, incY int) {
	ix, iy := 0, 0
	for i := 0; i < n; i++ {
		y[iy] += alpha * x[ix]
		ix += incX
		iy += incY
	}
}

func (builtinBlas) Sgemm(transA, transB bool, m, n, k int,
	alpha float32, a []float32, lda int, b []float32, ldb int,
	beta float32, c []float32, ldc int) {
	at := func(i, j int) float32 {
		if transA {
			return a[j*lda+i]
		}
		return a[i*lda+j]
	}
	bt := func(i, j int) float32 {
		if transB {
			return b[j*ldb+i]
		}
		return b[i*ldb+j]
	}
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			var sum float32
			for l := 0; l < k; l++ {
				sum += at(i, l) * bt(l, j)
			}
			c[i*ldc+j] = alpha*sum + beta*c[i*ldc+j]
		}
	}
}

func (builtinBlas) Scsr2csc(m, n, nnz int,
	val []float32, rowPtr, colInd []int,
	cscVal []float32, cscRowInd, cscColPtr []int) {
	scsr2csc(m, n, nnz, val, rowPtr, colInd, cscVal, cscRowInd, cscColPtr)
}

// scsr2csc is a counting-sort conversion from CSR to CSC.
func scsr2csc(m, n, nnz int,
	val []float32, rowPtr, colInd []int,
	cscVal []float32, cscRowInd, cscColPtr []int) {
	for i := 0; i <= n; i++ {
		cscColPtr[i] = 0
	}
	for i := 0; i < nnz; i++ {
		cscColPtr[colInd[i]+1]++
	}
	for i := 0; i < n; i++ {
		cscColPtr[i+1] += cscColPtr[i]
	}
	next := make([]int, n)
	copy(next, cscColPtr[:n])
	for r := 0; r < m; r++ {
		for i := rowPtr[r]; i < rowPtr[r+1]; i++ {
			c := colInd[i]
			dst := next[c]
			cscVal[dst] = val[i]
			cscRowInd[dst] = r
			next[c]++
		}
	}
}
