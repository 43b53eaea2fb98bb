package artm

import "fmt"

// TopicModel is a read-only snapshot mapping tokens to dense per-topic
// weight vectors.  The merger builds a new snapshot per revision and
// publishes it atomically; workers keep the reference they fetched for
// the remainder of a batch.
type TopicModel struct {
	name      string
	topicName []string
	tokens    []Token
	index     map[Token]int
	weights   [][]float32
}

func NewTopicModel(name string, topicName []string) *TopicModel {
	if len(topicName) < 1 {
		panic(fmt.Sprintf("model %s has no topics", name))
	}
	return &TopicModel{
		name:      name,
		topicName: topicName,
		index:     make(map[Token]int),
	}
}

func (m *TopicModel) Name() string { return m.name }

// TopicSize returns the number of topics.
func (m *TopicModel) TopicSize() int { return len(m.topicName) }

func (m *TopicModel) TopicName() []string { return m.topicName }

func (m *TopicModel) HasToken(t Token) bool {
	_, ok := m.index[t]
	return ok
}

// TokenIndex returns the model-level index of t, or -1.
func (m *TopicModel) TokenIndex(t Token) int {
	if i, ok := m.index[t]; ok {
		return i
	}
	return -1
}

// TokenWeights returns the per-topic weight vector of t, or nil when
// the model does not know the token.  Callers must not modify it.
func (m *TopicModel) TokenWeights(t Token) []float32 {
	if i, ok := m.index[t]; ok {
		return m.weights[i]
	}
	return nil
}

// WeightAt returns the weight of topic k for the token at model index
// i.  Used by the transaction loop, which resolves indices up front.
func (m *TopicModel) WeightAt(i, k int) float32 { return m.weights[i][k] }

// TokenSize returns the number of known tokens.
func (m *TopicModel) TokenSize() int { return len(m.tokens) }

// Tokens lists the known tokens in registration order.  Callers must
// not modify the returned slice.
func (m *TopicModel) Tokens() []Token { return m.tokens }

// AddToken registers t with the given weights, which must have
// TopicSize elements, or zeros when weights is nil.  Adding to a
// published snapshot is a bug; only the merger and tests call this,
// on a fresh clone.
func (m *TopicModel) AddToken(t Token, weights []float32) {
	if weights == nil {
		weights = make([]float32, m.TopicSize())
	}
	if len(weights) != m.TopicSize() {
		panic(fmt.Sprintf("token %v: %d weights for %d topics",
			t, len(weights), m.TopicSize()))
	}
	if i, ok := m.index[t]; ok {
		m.weights[i] = weights
		return
	}
	m.index[t] = len(m.tokens)
	m.tokens = append(m.tokens, t)
	m.weights = append(m.weights, weights)
}

// IncrementToken adds delta into the weights of t, registering the
// token first when absent.
func (m *TopicModel) IncrementToken(t Token, delta []float32) {
	if len(delta) != m.TopicSize() {
		panic(fmt.Sprintf("token %v: %d increments for %d topics",
			t, len(delta), m.TopicSize()))
	}
	i, ok := m.index[t]
	if !ok {
		m.AddToken(t, nil)
		i = m.index[t]
	}
	w := m.weights[i]
	for k := range w {
		w[k] += delta[k]
	}
}

// Clone returns a deep copy the merger can mutate before publishing.
func (m *TopicModel) Clone() *TopicModel {
	n := NewTopicModel(m.name, m.topicName)
	for i, t := range m.tokens {
		w := make([]float32, len(m.weights[i]))
		copy(w, m.weights[i])
		n.AddToken(t, w)
	}
	return n
}
