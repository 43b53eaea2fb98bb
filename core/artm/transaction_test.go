package artm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// transactionBatch holds one item made of two single-token
// transactions: (apple) typed "buy" and (orange) typed "view".
func transactionBatch() *Batch {
	return &Batch{
		Token:               []string{"apple", "orange"},
		ClassID:             []string{testingClass, testingClass},
		TransactionTypename: []string{"buy", "view"},
		Items: []Item{{
			ID:                    1,
			TokenID:               []int{0, 1},
			TokenWeight:           []float32{1, 1},
			TransactionStartIndex: []int{0, 1, 2},
			TransactionTypenameID: []int{0, 1},
		}},
	}
}

func TestBatchHasTransactions(t *testing.T) {
	if CreateTestingBatch().HasTransactions() {
		t.Errorf("Expecting plain BOW batch without transactions")
	}
	if !transactionBatch().HasTransactions() {
		t.Errorf("Expecting transaction batch to report transactions")
	}
}

func TestCalcNwtTransactionSingleTopic(t *testing.T) {
	batch := transactionBatch()
	config := NewModelConfig("m", 1)
	schema := CreateTestingSchema(config)

	model := NewTopicModel(config.Name, config.TopicName)
	model.AddToken(Token{ClassID: testingClass, Keyword: "apple"}, []float32{0.5})
	model.AddToken(Token{ClassID: testingClass, Keyword: "orange"}, []float32{0.25})

	part := CreateTestingInput(batch)
	theta := InitTheta(batch, config, nil, testingRand())
	inc := NewModelIncrement(part, config, model)

	CalcNwtTransaction(config, batch, 1, model, schema, theta,
		NewIncrementWriter(inc))

	// With one topic every transaction resolves fully to it.
	if theta.At(0, 0) != 1 {
		t.Errorf("Expecting theta = 1 for the only topic, got %f", theta.At(0, 0))
	}
	// Each transaction contributes h / p_dx = 1 times its weights.
	assert.InDelta(t, 1.0, float64(inc.TokenIncrement[0][0]), 1e-6)
	assert.InDelta(t, 1.0, float64(inc.TokenIncrement[1][0]), 1e-6)
}

func TestCalcNwtTransactionBatchWeight(t *testing.T) {
	batch := transactionBatch()
	config := NewModelConfig("m", 1)
	schema := CreateTestingSchema(config)

	model := NewTopicModel(config.Name, config.TopicName)
	model.AddToken(Token{ClassID: testingClass, Keyword: "apple"}, []float32{0.5})
	model.AddToken(Token{ClassID: testingClass, Keyword: "orange"}, []float32{0.25})

	part := CreateTestingInput(batch)
	theta := InitTheta(batch, config, nil, testingRand())
	inc := NewModelIncrement(part, config, model)

	CalcNwtTransaction(config, batch, 0.5, model, schema, theta,
		NewIncrementWriter(inc))

	assert.InDelta(t, 0.5, float64(inc.TokenIncrement[0][0]), 1e-6)
	assert.InDelta(t, 0.5, float64(inc.TokenIncrement[1][0]), 1e-6)
}

func TestCalcNwtTransactionTypenameWeights(t *testing.T) {
	batch := transactionBatch()
	config := NewModelConfig("m", 1)
	config.TransactionTypename = []string{"buy"}
	config.TransactionWeight = []float32{2}
	schema := CreateTestingSchema(config)

	model := NewTopicModel(config.Name, config.TopicName)
	model.AddToken(Token{ClassID: testingClass, Keyword: "apple"}, []float32{0.5})
	model.AddToken(Token{ClassID: testingClass, Keyword: "orange"}, []float32{0.25})

	part := CreateTestingInput(batch)
	theta := InitTheta(batch, config, nil, testingRand())
	inc := NewModelIncrement(part, config, model)

	CalcNwtTransaction(config, batch, 1, model, schema, theta,
		NewIncrementWriter(inc))

	// buy weighs 2; view is unlisted and weighs 0.
	assert.InDelta(t, 2.0, float64(inc.TokenIncrement[0][0]), 1e-6)
	assert.InDelta(t, 0.0, float64(inc.TokenIncrement[1][0]), 1e-6)
}

func TestCalcNwtTransactionTwoTopics(t *testing.T) {
	batch := transactionBatch()
	config := NewModelConfig("m", testingTopics)
	schema := CreateTestingSchema(config)

	model := NewTopicModel(config.Name, config.TopicName)
	model.AddToken(Token{ClassID: testingClass, Keyword: "apple"}, []float32{0.6, 0.2})
	model.AddToken(Token{ClassID: testingClass, Keyword: "orange"}, []float32{0.1, 0.3})

	part := CreateTestingInput(batch)
	theta := InitTheta(batch, config, nil, testingRand())
	inc := NewModelIncrement(part, config, model)

	CalcNwtTransaction(config, batch, 1, model, schema, theta,
		NewIncrementWriter(inc))

	// Theta stays a distribution.
	var sum float64
	for k := 0; k < testingTopics; k++ {
		v := float64(theta.At(k, 0))
		if v < 0 {
			t.Errorf("Expecting non-negative theta, got %f", v)
		}
		sum += v
	}
	if math.Abs(sum-1) > 1e-6 {
		t.Errorf("Expecting theta column to sum to 1, got %f", sum)
	}

	// Every stored vector is finite and each transaction's topic
	// contributions sum to its token weight.
	for i := range inc.TokenIncrement {
		var rowSum float64
		for _, v := range inc.TokenIncrement[i] {
			if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
				t.Fatalf("Expecting finite increments, got %f", v)
			}
			rowSum += float64(v)
		}
		assert.InDelta(t, 1.0, rowSum, 1e-5,
			"increments of token %d must sum to the transaction mass", i)
	}
}

func TestCalcNwtTransactionUnknownTokenSkipped(t *testing.T) {
	batch := transactionBatch()
	config := NewModelConfig("m", 1)
	schema := CreateTestingSchema(config)

	// orange is unknown: its transaction's p_dx collapses to 0 and is
	// skipped everywhere.
	model := NewTopicModel(config.Name, config.TopicName)
	model.AddToken(Token{ClassID: testingClass, Keyword: "apple"}, []float32{0.5})

	part := CreateTestingInput(batch)
	theta := InitTheta(batch, config, nil, testingRand())
	inc := NewModelIncrement(part, config, model)

	CalcNwtTransaction(config, batch, 1, model, schema, theta,
		NewIncrementWriter(inc))

	assert.InDelta(t, 1.0, float64(inc.TokenIncrement[0][0]), 1e-6)
	if len(inc.TokenIncrement[1]) != 0 {
		t.Errorf("Expecting CreateIfNotExist row for the unknown token")
	}
}
