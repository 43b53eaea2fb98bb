package artm

import (
	"math/rand"

	"github.com/godist/goartm/core/linalg"
)

// InitTheta builds the topics x items theta matrix.  Items covered by
// cache are copied from it when config.ReuseTheta is set; the rest
// start at 1/topicsCount, or at fresh uniform values in [0, 1) when
// config.UseRandomTheta is set.  The matrix is column-major for the
// sparse BOW representation, where per-item columns are the hot
// vectors, and row-major otherwise.
func InitTheta(batch *Batch, config *ModelConfig, cache *CacheEntry, rng *rand.Rand) *linalg.Dense {
	topicsCount := config.TopicsCount

	var theta *linalg.Dense
	if config.UseSparseBow {
		theta = linalg.NewDenseColMajor(topicsCount, len(batch.Items))
	} else {
		theta = linalg.NewDense(topicsCount, len(batch.Items))
	}

	for i := range batch.Items {
		cached := -1
		if cache != nil && config.ReuseTheta {
			for j, id := range cache.ItemID {
				if id == batch.Items[i].ID {
					cached = j
					break
				}
			}
		}

		if cached != -1 {
			old := cache.Theta[cached]
			for k := 0; k < topicsCount; k++ {
				theta.Set(k, i, old[k])
			}
			continue
		}

		defaultTheta := 1.0 / float32(topicsCount)
		for k := 0; k < topicsCount; k++ {
			v := defaultTheta
			if config.UseRandomTheta {
				v = rng.Float32()
			}
			theta.Set(k, i, v)
		}
	}
	return theta
}

// NewCacheEntry snapshots theta into a cache record for this batch
// and model.
func NewCacheEntry(batchUUID, modelName string, topicName []string,
	batch *Batch, theta *linalg.Dense) *CacheEntry {
	entry := &CacheEntry{
		BatchUUID: batchUUID,
		ModelName: modelName,
		TopicName: append([]string(nil), topicName...),
	}
	for i := range batch.Items {
		entry.ItemID = append(entry.ItemID, batch.Items[i].ID)
		col := make([]float32, theta.Rows())
		for k := range col {
			col[k] = theta.At(k, i)
		}
		entry.Theta = append(entry.Theta, col)
	}
	return entry
}

// ThetaMatrix is the result of the one-shot FindThetaMatrix query.
type ThetaMatrix struct {
	ModelName   string
	TopicName   []string
	ItemID      []int
	ItemWeights [][]float32
}

// NewThetaMatrix converts a cache-shaped snapshot into the query
// result form.
func NewThetaMatrix(entry *CacheEntry) *ThetaMatrix {
	return &ThetaMatrix{
		ModelName:   entry.ModelName,
		TopicName:   entry.TopicName,
		ItemID:      entry.ItemID,
		ItemWeights: entry.Theta,
	}
}
