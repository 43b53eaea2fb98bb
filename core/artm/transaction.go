package artm

import (
	"math"

	"github.com/godist/goartm/core/linalg"
)

// epsTransaction guards the transaction probability denominator.
const epsTransaction = 1e-100

// computePdx returns init * prod_{i in [start, end)} p_wt[global(token_i), k].
// A transaction containing a token unknown to the model contributes 0.
func computePdx(item *Item, init float64, start, end, topic int,
	localToGlobal []int, model *TopicModel) float64 {
	v := init
	for i := start; i < end; i++ {
		global := localToGlobal[item.TokenID[i]]
		if global == -1 {
			return 0
		}
		v *= float64(model.WeightAt(global, topic))
	}
	return v
}

// CalcNwtTransaction runs the transaction inner loop: per document,
// config.InnerIterationsCount+1 passes of the multiplicative update
// over whole transactions (the last pass feeds the n_wt computation),
// then writes the n_wt contributions through writer.  theta is
// refined in place.
func CalcNwtTransaction(config *ModelConfig, batch *Batch, batchWeight float32,
	model *TopicModel, schema *InstanceSchema,
	theta *linalg.Dense, writer NwtWriter) {
	topics := model.TopicSize()
	docs := theta.Cols()

	localToGlobal := make([]int, len(batch.Token))
	for i := range batch.Token {
		token := Token{ClassID: batch.ClassID[i], Keyword: batch.Token[i]}
		localToGlobal[i] = model.TokenIndex(token)
	}

	weights := config.transactionWeights()
	typeWeight := func(t int) float32 {
		if weights == nil {
			return 1
		}
		return weights[batch.TransactionTypename[t]]
	}

	h := make([]float64, topics)
	ntd := make([]float32, topics)
	thetaCol := make([]float32, topics)

	for d := 0; d < docs; d++ {
		item := &batch.Items[d]

		for innerIter := 0; innerIter <= config.InnerIterationsCount; innerIter++ {
			for k := range ntd {
				ntd[k] = 0
			}

			for t := 0; t+1 < len(item.TransactionStartIndex); t++ {
				start := item.TransactionStartIndex[t]
				end := item.TransactionStartIndex[t+1]
				tokenWeight := float64(item.TokenWeight[start])
				ttWeight := typeWeight(item.TransactionTypenameID[t])

				pdx := 0.0
				for k := 0; k < topics; k++ {
					h[k] = computePdx(item, float64(theta.At(k, d)), start, end,
						k, localToGlobal, model)
					pdx += h[k]
				}
				if math.Abs(pdx) < epsTransaction {
					continue
				}

				for k := 0; k < topics; k++ {
					ntd[k] += float32(float64(ttWeight) * tokenWeight * h[k] / pdx)
				}
			}

			for k := 0; k < topics; k++ {
				theta.Set(k, d, ntd[k])
			}

			for k := range thetaCol {
				thetaCol[k] = theta.At(k, d)
			}
			applyThetaRegularizers(item, thetaCol, config, schema, innerIter)
			normalizeThetaColumn(thetaCol)
			for k := range thetaCol {
				theta.Set(k, d, thetaCol[k])
			}
		}
	}

	if writer == nil {
		return
	}

	values := make([]float32, topics)
	for d := 0; d < docs; d++ {
		item := &batch.Items[d]

		for t := 0; t+1 < len(item.TransactionStartIndex); t++ {
			start := item.TransactionStartIndex[t]
			end := item.TransactionStartIndex[t+1]
			tokenWeight := float64(item.TokenWeight[start])
			ttWeight := typeWeight(item.TransactionTypenameID[t])

			pdx := 0.0
			for k := 0; k < topics; k++ {
				h[k] = computePdx(item, float64(theta.At(k, d)), start, end,
					k, localToGlobal, model)
				pdx += h[k]
			}
			if math.Abs(pdx) < epsTransaction {
				continue
			}

			for k := 0; k < topics; k++ {
				values[k] = float32(float64(ttWeight) * h[k] * tokenWeight *
					float64(batchWeight) / pdx)
			}

			for i := start; i < end; i++ {
				writer.Store(item.TokenID[i], values)
			}
		}
	}
}
