package artm

import "fmt"

// ModelConfig holds the recognized per-model options.  ClassID and
// ClassWeight are parallel, as are RegularizerName/RegularizerTau and
// TransactionTypename/TransactionWeight.
type ModelConfig struct {
	Name        string
	TopicsCount int
	TopicName   []string
	Enabled     bool

	InnerIterationsCount int
	UseSparseBow         bool
	ReuseTheta           bool
	UseRandomTheta       bool
	StreamName           string

	ClassID     []string
	ClassWeight []float32

	RegularizerName []string
	RegularizerTau  []float64

	ScoreName []string

	TransactionTypename []string
	TransactionWeight   []float32
}

// NewModelConfig returns an enabled config with topics named
// "topic_0".."topic_{n-1}", one inner iteration and the sparse BOW
// representation.
func NewModelConfig(name string, topicsCount int) *ModelConfig {
	if topicsCount < 1 {
		panic(fmt.Sprintf("topicsCount = %d, less than 1", topicsCount))
	}
	names := make([]string, topicsCount)
	for i := range names {
		names[i] = fmt.Sprintf("topic_%d", i)
	}
	return &ModelConfig{
		Name:                 name,
		TopicsCount:          topicsCount,
		TopicName:            names,
		Enabled:              true,
		InnerIterationsCount: 1,
		UseSparseBow:         true,
	}
}

// classWeights returns the class to weight mapping, or nil when the
// config enumerates no classes, in which case every class weighs 1.
func (c *ModelConfig) classWeights() map[string]float32 {
	if len(c.ClassID) == 0 {
		return nil
	}
	m := make(map[string]float32, len(c.ClassID))
	for i, id := range c.ClassID {
		m[id] = c.ClassWeight[i]
	}
	return m
}

// transactionWeights returns the typename to weight mapping, or nil
// when the config enumerates no typenames (all weights 1).  Unlisted
// typenames weigh 0 when the mapping exists.
func (c *ModelConfig) transactionWeights() map[string]float32 {
	if len(c.TransactionTypename) == 0 {
		return nil
	}
	m := make(map[string]float32, len(c.TransactionTypename))
	for i, n := range c.TransactionTypename {
		m[n] = c.TransactionWeight[i]
	}
	return m
}

// InstanceConfig is the process-wide configuration embedded in the
// schema.
type InstanceConfig struct {
	ProcessorQueueMaxSize int
	MergerQueueMaxSize    int
	CacheTheta            bool
	DiskCachePath         string
}

// InstanceSchema is a read-only registry snapshot: model configs in
// registration order, regularizers and score calculators by name, and
// the process-wide config.  Build it fully, publish it through a
// holder, and never mutate a published snapshot.
type InstanceSchema struct {
	Config InstanceConfig

	modelNames   []string
	models       map[string]*ModelConfig
	regularizers map[string]Regularizer
	scores       map[string]ScoreCalculator
}

func NewInstanceSchema(config InstanceConfig) *InstanceSchema {
	return &InstanceSchema{
		Config:       config,
		models:       make(map[string]*ModelConfig),
		regularizers: make(map[string]Regularizer),
		scores:       make(map[string]ScoreCalculator),
	}
}

// AddModelConfig registers or replaces a model config.
func (s *InstanceSchema) AddModelConfig(c *ModelConfig) {
	if _, ok := s.models[c.Name]; !ok {
		s.modelNames = append(s.modelNames, c.Name)
	}
	s.models[c.Name] = c
}

// ModelConfig returns the config registered under name, or nil.
func (s *InstanceSchema) ModelConfig(name string) *ModelConfig {
	return s.models[name]
}

// ModelNames lists registered model names in registration order.
func (s *InstanceSchema) ModelNames() []string { return s.modelNames }

func (s *InstanceSchema) AddRegularizer(name string, r Regularizer) {
	s.regularizers[name] = r
}

// Regularizer returns the regularizer registered under name, or nil.
func (s *InstanceSchema) Regularizer(name string) Regularizer {
	return s.regularizers[name]
}

func (s *InstanceSchema) AddScoreCalculator(name string, c ScoreCalculator) {
	s.scores[name] = c
}

// ScoreCalculator returns the calculator registered under name, or nil.
func (s *InstanceSchema) ScoreCalculator(name string) ScoreCalculator {
	return s.scores[name]
}
