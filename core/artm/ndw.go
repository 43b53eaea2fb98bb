package artm

import (
	"github.com/godist/goartm/core/linalg"
)

// BuildSparseNdw builds the document-word count matrix in CSR form:
// one row per item, columns are batch token indices, values are
// class_weight * token_count.  Unknown class ids weigh 0; with no
// classes enumerated in config every class weighs 1.
func BuildSparseNdw(batch *Batch, config *ModelConfig) *linalg.CSR {
	weights := config.classWeights()

	var val []float32
	var colInd []int
	rowPtr := make([]int, 0, len(batch.Items)+1)

	for i := range batch.Items {
		rowPtr = append(rowPtr, len(val))
		for _, field := range batch.Items[i].Fields {
			for j, tokenID := range field.TokenID {
				w := float32(1)
				if weights != nil {
					w = weights[batch.ClassID[tokenID]]
				}
				val = append(val, w*float32(field.TokenCount[j]))
				colInd = append(colInd, tokenID)
			}
		}
	}
	rowPtr = append(rowPtr, len(val))

	return linalg.NewCSR(len(batch.Token), val, rowPtr, colInd)
}

// BuildDenseNdw builds the dense token x item count matrix,
// accumulating class_weight * token_count into (token, item).  Class
// weights follow the same rules as in the sparse path.
func BuildDenseNdw(batch *Batch, config *ModelConfig) *linalg.Dense {
	weights := config.classWeights()

	ndw := linalg.NewDense(len(batch.Token), len(batch.Items))
	data := ndw.Data()
	cols := ndw.Cols()
	for i := range batch.Items {
		for _, field := range batch.Items[i].Fields {
			for j, tokenID := range field.TokenID {
				w := float32(1)
				if weights != nil {
					w = weights[batch.ClassID[tokenID]]
				}
				data[tokenID*cols+i] += w * float32(field.TokenCount[j])
			}
		}
	}
	return ndw
}
