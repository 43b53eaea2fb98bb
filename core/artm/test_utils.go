package artm

import (
	"math/rand"
)

const (
	testingTopics = 2
	testingClass  = "@default_class"
)

// CreateTestingBatch builds a batch of two items over the tokens
// apple and orange: item 0 holds apple x2 and orange x1, item 1
// holds orange x3.
func CreateTestingBatch() *Batch {
	return &Batch{
		Token:   []string{"apple", "orange"},
		ClassID: []string{testingClass, testingClass},
		Items: []Item{
			{
				ID: 100,
				Fields: []Field{{
					Name:       testingClass,
					TokenID:    []int{0, 1},
					TokenCount: []int{2, 1},
				}},
			},
			{
				ID: 101,
				Fields: []Field{{
					Name:       testingClass,
					TokenID:    []int{1},
					TokenCount: []int{3},
				}},
			},
		},
	}
}

// CreateTestingConfig returns an enabled two-topic sparse-BOW config
// with one inner iteration.
func CreateTestingConfig() *ModelConfig {
	return NewModelConfig("testmodel", testingTopics)
}

// CreateTestingTopicModel builds a snapshot that knows every token of
// batch with uniform per-topic weights.
func CreateTestingTopicModel(batch *Batch, config *ModelConfig) *TopicModel {
	m := NewTopicModel(config.Name, config.TopicName)
	w := 1.0 / float32(config.TopicsCount)
	for i := range batch.Token {
		weights := make([]float32, config.TopicsCount)
		for k := range weights {
			weights[k] = w
		}
		m.AddToken(Token{ClassID: batch.ClassID[i], Keyword: batch.Token[i]}, weights)
	}
	return m
}

// CreateTestingInput wraps batch into a ProcessorInput with no
// streams and no cache.
func CreateTestingInput(batch *Batch) *ProcessorInput {
	return &ProcessorInput{
		Batch:       batch,
		BatchUUID:   "00000000-0000-0000-0000-000000000001",
		BatchWeight: 1,
	}
}

// CreateTestingSchema returns a schema holding config and no
// regularizers or scores.
func CreateTestingSchema(config *ModelConfig) *InstanceSchema {
	s := NewInstanceSchema(InstanceConfig{})
	s.AddModelConfig(config)
	return s
}

func testingRand() *rand.Rand {
	return rand.New(rand.NewSource(1))
}
