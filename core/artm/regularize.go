package artm

import (
	"github.com/golang/glog"

	"github.com/godist/goartm/core/linalg"
)

// Regularizer adjusts an item's topic distribution between inner
// iterations.  It may modify thetaNext in place; returning false
// signals misconfiguration, which the caller logs before moving on
// with thetaNext untouched by that regularizer.
type Regularizer interface {
	RegularizeTheta(item *Item, thetaNext []float32,
		topicName []string, innerIter int, tau float64) bool
}

// RegularizeAndNormalizeTheta runs the configured theta regularizers
// and renormalizes every item column: negatives clip to 0, a positive
// column divides by its sum, a drained column becomes all zeros, and
// entries below 1e-16 snap to 0.
func RegularizeAndNormalizeTheta(innerIter int, batch *Batch, config *ModelConfig,
	schema *InstanceSchema, theta *linalg.Dense) {
	topicsCount := config.TopicsCount
	thetaNext := make([]float32, topicsCount)

	for i := range batch.Items {
		for k := 0; k < topicsCount; k++ {
			thetaNext[k] = theta.At(k, i)
		}

		applyThetaRegularizers(&batch.Items[i], thetaNext, config, schema, innerIter)
		normalizeThetaColumn(thetaNext)

		for k := 0; k < topicsCount; k++ {
			theta.Set(k, i, thetaNext[k])
		}
	}
}

func applyThetaRegularizers(item *Item, thetaNext []float32,
	config *ModelConfig, schema *InstanceSchema, innerIter int) {
	backup := make([]float32, len(thetaNext))
	for i, name := range config.RegularizerName {
		reg := schema.Regularizer(name)
		if reg == nil {
			glog.Errorf("Theta regularizer %q does not exist", name)
			continue
		}
		tau := config.RegularizerTau[i]
		copy(backup, thetaNext)
		if !reg.RegularizeTheta(item, thetaNext, config.TopicName, innerIter, tau) {
			copy(thetaNext, backup)
			glog.Errorf("Theta regularizer %q failed and was turned off "+
				"for this iteration", name)
		}
	}
}

func normalizeThetaColumn(thetaNext []float32) {
	var sum float32
	for k, v := range thetaNext {
		if v < 0 {
			thetaNext[k] = 0
			continue
		}
		sum += v
	}

	for k := range thetaNext {
		v := float32(0)
		if sum > 0 {
			v = thetaNext[k] / sum
		}
		if v < epsWeight {
			v = 0
		}
		thetaNext[k] = v
	}
}
