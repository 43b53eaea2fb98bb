package artm

// OperationType tells the merger what to do with a token row of an
// increment.
type OperationType int

const (
	// CreateIfNotExist registers the token in the model with zero
	// counts; the row carries no values.
	CreateIfNotExist OperationType = iota
	// IncrementValue adds the row's TopicsCount values into the
	// token's counts.
	IncrementValue
)

// ModelIncrement is the unit of merger input: one record per
// (batch, enabled model) pair.  Token, ClassID, TokenIncrement and
// OperationType are parallel over the batch's tokens.
type ModelIncrement struct {
	ModelName   string
	TopicsCount int
	TopicName   []string
	BatchUUID   []string

	Token          []string
	ClassID        []string
	TokenIncrement [][]float32
	OperationType  []OperationType

	Cache []*CacheEntry

	ScoreName []string
	Score     [][]byte
}

// NewModelIncrement builds the skeleton increment for a batch and
// model: per-token IncrementValue rows pre-sized with zeros for tokens
// the model knows, CreateIfNotExist rows with empty bodies otherwise.
func NewModelIncrement(part *ProcessorInput, config *ModelConfig, model *TopicModel) *ModelIncrement {
	batch := part.Batch
	inc := &ModelIncrement{
		ModelName:   config.Name,
		TopicsCount: config.TopicsCount,
		TopicName:   append([]string(nil), model.TopicName()...),
		BatchUUID:   []string{part.BatchUUID},
	}
	for i := range batch.Token {
		token := Token{ClassID: batch.ClassID[i], Keyword: batch.Token[i]}
		inc.Token = append(inc.Token, token.Keyword)
		inc.ClassID = append(inc.ClassID, token.ClassID)
		if model.HasToken(token) {
			inc.OperationType = append(inc.OperationType, IncrementValue)
			inc.TokenIncrement = append(inc.TokenIncrement,
				make([]float32, config.TopicsCount))
		} else {
			inc.OperationType = append(inc.OperationType, CreateIfNotExist)
			inc.TokenIncrement = append(inc.TokenIncrement, nil)
		}
	}
	return inc
}

// NwtWriter receives per-token topic count contributions from an
// inner loop.
type NwtWriter interface {
	// Store accumulates values into the row of the batch-local token
	// index.  values has TopicsCount elements.
	Store(tokenIndex int, values []float32)
}

// incrementWriter accumulates into the IncrementValue rows of a
// ModelIncrement and ignores tokens the model did not know.
type incrementWriter struct {
	inc *ModelIncrement
}

// NewIncrementWriter adapts inc into an NwtWriter.
func NewIncrementWriter(inc *ModelIncrement) NwtWriter {
	return &incrementWriter{inc: inc}
}

func (w *incrementWriter) Store(tokenIndex int, values []float32) {
	if w.inc.OperationType[tokenIndex] != IncrementValue {
		return
	}
	row := w.inc.TokenIncrement[tokenIndex]
	for k := range row {
		row[k] += values[k]
	}
}
