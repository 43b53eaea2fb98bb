package artm

import (
	"github.com/godist/goartm/core/linalg"
)

// CalcNwtSparse runs the sparse-BOW EM inner loop: refines theta in
// place over config.InnerIterationsCount iterations and returns the
// n_wt increment, shaped like phi.  The stream mask filters only the
// n_wt accumulation, never the theta refinement.
func CalcNwtSparse(config *ModelConfig, batch *Batch, mask Mask,
	schema *InstanceSchema, sparseNdw *linalg.CSR,
	phi, theta *linalg.Dense, blas linalg.Blas) *linalg.Dense {
	nwt := linalg.NewDense(phi.Rows(), phi.Cols())

	topicsCount := phi.Cols()
	docsCount := theta.Cols()

	val := sparseNdw.Val()
	rowPtr := sparseNdw.RowPtr()
	colInd := sparseNdw.ColInd()

	for innerIter := 0; innerIter < config.InnerIterationsCount; innerIter++ {
		ntd := linalg.NewDenseColMajor(theta.Rows(), theta.Cols())

		for d := 0; d < docsCount; d++ {
			thetaCol, thetaInc := theta.Col(d)
			ntdCol, ntdInc := ntd.Col(d)
			for i := rowPtr[d]; i < rowPtr[d+1]; i++ {
				w := colInd[i]
				phiRow, phiInc := phi.Row(w)
				pdw := blas.Sdot(topicsCount, phiRow, phiInc, thetaCol, thetaInc)
				if pdw == 0 {
					continue
				}
				blas.Saxpy(topicsCount, val[i]/pdw, phiRow, phiInc, ntdCol, ntdInc)
			}
		}

		linalg.MulElem(theta, theta, ntd)
		RegularizeAndNormalizeTheta(innerIter, batch, config, schema, theta)
	}

	sparseNwd := sparseNdw.Clone()
	sparseNwd.Transpose(blas)

	// n_wt counts only items with a true flag in the stream mask, or
	// every item when there is no mask.
	nwdVal := sparseNwd.Val()
	nwdRowPtr := sparseNwd.RowPtr()
	nwdColInd := sparseNwd.ColInd()
	for w := 0; w < phi.Rows(); w++ {
		phiRow, phiInc := phi.Row(w)
		nwtRow, nwtInc := nwt.Row(w)
		for i := nwdRowPtr[w]; i < nwdRowPtr[w+1]; i++ {
			d := nwdColInd[i]
			if mask != nil && !mask[d] {
				continue
			}
			thetaCol, thetaInc := theta.Col(d)
			pwd := blas.Sdot(topicsCount, phiRow, phiInc, thetaCol, thetaInc)
			if pwd == 0 {
				continue
			}
			blas.Saxpy(topicsCount, nwdVal[i]/pwd, thetaCol, thetaInc, nwtRow, nwtInc)
		}
	}

	linalg.MulElem(nwt, nwt, phi)
	return nwt
}

// CalcNwtDense is the dense-BOW variant of CalcNwtSparse, built on
// GEMM.  phi, theta and denseNdw must all be row-major.
func CalcNwtDense(config *ModelConfig, batch *Batch, mask Mask,
	schema *InstanceSchema, denseNdw *linalg.Dense,
	phi, theta *linalg.Dense, blas linalg.Blas) *linalg.Dense {
	nwt := linalg.NewDense(phi.Rows(), phi.Cols())

	tokens := phi.Rows()
	topics := phi.Cols()
	docs := theta.Cols()
	if docs == 0 {
		return nwt
	}

	z := linalg.NewDense(tokens, docs)
	mulPhiTheta := func() {
		blas.Sgemm(false, false, tokens, docs, topics,
			1, phi.Data(), phi.LD(), theta.Data(), theta.LD(),
			0, z.Data(), z.LD())
	}

	for innerIter := 0; innerIter < config.InnerIterationsCount; innerIter++ {
		mulPhiTheta()
		linalg.DivElemZero(z, denseNdw, z)

		prod := linalg.NewDense(topics, docs)
		blas.Sgemm(true, false, topics, docs, tokens,
			1, phi.Data(), phi.LD(), z.Data(), z.LD(),
			0, prod.Data(), prod.LD())

		linalg.MulElem(theta, theta, prod)
		RegularizeAndNormalizeTheta(innerIter, batch, config, schema, theta)
	}

	mulPhiTheta()
	linalg.DivElemZero(z, denseNdw, z)

	zm, tm := z, theta
	if mask != nil {
		// Compact z and theta to the masked-in columns before the
		// final product.
		kept := 0
		for _, ok := range mask {
			if ok {
				kept++
			}
		}
		zm = linalg.NewDense(tokens, kept)
		tm = linalg.NewDense(topics, kept)
		col := 0
		for d, ok := range mask {
			if !ok {
				continue
			}
			for w := 0; w < tokens; w++ {
				zm.Set(w, col, z.At(w, d))
			}
			for k := 0; k < topics; k++ {
				tm.Set(k, col, theta.At(k, d))
			}
			col++
		}
	}

	if zm.Cols() == 0 {
		return nwt
	}

	prod := linalg.NewDense(tokens, topics)
	blas.Sgemm(false, true, tokens, topics, zm.Cols(),
		1, zm.Data(), zm.LD(), tm.Data(), tm.LD(),
		0, prod.Data(), prod.LD())

	linalg.MulElem(nwt, prod, phi)
	return nwt
}
