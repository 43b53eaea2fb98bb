package artm

import (
	"github.com/godist/goartm/core/linalg"
)

// epsWeight is the threshold below which loaded weights and
// normalized theta entries snap to 0, keeping denormals off the hot
// loops.
const epsWeight = 1e-16

// InitPhi extracts the batch's slice of the global topic model: a
// token x topics matrix whose rows are the model's weight vectors for
// the batch tokens it knows, zeros elsewhere.  Returns nil when no
// batch token is known to the model; the caller logs and skips the
// model for this batch.
func InitPhi(batch *Batch, model *TopicModel) *linalg.Dense {
	topicSize := model.TopicSize()
	phi := linalg.NewDense(len(batch.Token), topicSize)

	empty := true
	data := phi.Data()
	for i := range batch.Token {
		token := Token{ClassID: batch.ClassID[i], Keyword: batch.Token[i]}
		weights := model.TokenWeights(token)
		if weights == nil {
			continue
		}
		empty = false
		row := data[i*topicSize : (i+1)*topicSize]
		for k, v := range weights {
			if v < epsWeight {
				v = 0
			}
			row[k] = v
		}
	}

	if empty {
		return nil
	}
	return phi
}
