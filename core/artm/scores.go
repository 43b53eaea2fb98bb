package artm

import (
	"github.com/golang/glog"

	"github.com/godist/goartm/core/linalg"
)

// ScoreAccumulator is the per-batch state of one cumulative score.
// Its concrete type belongs to the calculator that created it.
type ScoreAccumulator interface{}

// ScoreCalculator is the plug-in contract for scores.  Only
// cumulative calculators take part in batch processing; the rest are
// computed elsewhere from the final model.
type ScoreCalculator interface {
	IsCumulative() bool
	CreateScore() ScoreAccumulator
	// StreamName names the stream whose items feed the score; an
	// empty name means every item.
	StreamName() string
	AppendScore(item *Item, tokenDict []Token, model *TopicModel,
		thetaVec []float32, score ScoreAccumulator)
	Serialize(score ScoreAccumulator) ([]byte, error)
}

// ComputeScores evaluates every cumulative score the config names
// over the in-stream items and attaches the serialized accumulators
// to inc.  A missing calculator is logged and skipped.
func ComputeScores(part *ProcessorInput, config *ModelConfig,
	schema *InstanceSchema, model *TopicModel,
	theta *linalg.Dense, inc *ModelIncrement) {
	type namedScore struct {
		name string
		calc ScoreCalculator
		acc  ScoreAccumulator
	}
	var scores []namedScore
	for _, name := range config.ScoreName {
		calc := schema.ScoreCalculator(name)
		if calc == nil {
			glog.Errorf("Unable to find score calculator %q, referenced by model %q",
				name, config.Name)
			continue
		}
		if !calc.IsCumulative() {
			continue
		}
		scores = append(scores, namedScore{name: name, calc: calc, acc: calc.CreateScore()})
	}
	if len(scores) == 0 {
		return
	}

	batch := part.Batch
	tokenDict := make([]Token, len(batch.Token))
	for i := range batch.Token {
		tokenDict[i] = Token{ClassID: batch.ClassID[i], Keyword: batch.Token[i]}
	}

	topicSize := model.TopicSize()
	iter := NewStreamIterator(part)
	for item := iter.Next(); item != nil; item = iter.Next() {
		for _, s := range scores {
			if !iter.InStream(s.calc.StreamName()) {
				continue
			}
			thetaVec := make([]float32, topicSize)
			for k := 0; k < topicSize; k++ {
				thetaVec[k] = theta.At(k, iter.ItemIndex())
			}
			s.calc.AppendScore(item, tokenDict, model, thetaVec, s.acc)
		}
	}

	for _, s := range scores {
		data, err := s.calc.Serialize(s.acc)
		if err != nil {
			glog.Errorf("Failed serializing score %q: %v", s.name, err)
			continue
		}
		inc.ScoreName = append(inc.ScoreName, s.name)
		inc.Score = append(inc.Score, data)
	}
}
