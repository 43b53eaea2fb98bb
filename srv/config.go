package srv

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"strings"

	file "github.com/wangkuiyi/file"

	"github.com/godist/goartm/core/artm"
)

// Config is the process-wide configuration of a processing job.
type Config struct {
	// JobName names the job; Validate requires it to be set.
	JobName string

	// BatchDir is the directory holding the batch files to process.
	BatchDir string

	// Processors is the number of worker instances sharing the two
	// queues.
	Processors int

	// Queue bounds.  MergerQueueMaxSize bounds the merger queue, zero
	// meaning unbounded.  ProcessorQueueMaxSize is carried into the
	// schema config, but no component enforces it.
	ProcessorQueueMaxSize int
	MergerQueueMaxSize    int

	// CacheTheta emits per-item theta cache entries with every
	// increment; DiskCachePath, when set, spills them to
	// <DiskCachePath>/<uuid>.cache files.
	CacheTheta    bool
	DiskCachePath string

	// Models are the model configs registered into the schema.
	Models []*artm.ModelConfig
}

func (c *Config) Validate() error {
	if len(c.JobName) <= 0 {
		return errors.New("c.JobName must be specified")
	}
	if c.Processors <= 0 {
		return errors.New("c.Processors must be a positive value")
	}
	if len(c.Models) <= 0 {
		return errors.New("c.Models must not be empty")
	}

	msg := ""
	for i, m := range c.Models {
		if len(m.Name) <= 0 {
			msg += fmt.Sprintf("Models[%d]: Name must be specified\n", i)
		}
		if m.TopicsCount <= 0 {
			msg += fmt.Sprintf("Models[%d]: TopicsCount must be positive\n", i)
		}
		if len(m.TopicName) != m.TopicsCount {
			msg += fmt.Sprintf("Models[%d]: #TopicName != TopicsCount\n", i)
		}
		if m.InnerIterationsCount < 1 {
			msg += fmt.Sprintf("Models[%d]: InnerIterationsCount must be >= 1\n", i)
		}
		if len(m.ClassID) != len(m.ClassWeight) {
			msg += fmt.Sprintf("Models[%d]: #ClassID != #ClassWeight\n", i)
		}
		if len(m.RegularizerName) != len(m.RegularizerTau) {
			msg += fmt.Sprintf("Models[%d]: #RegularizerName != #RegularizerTau\n", i)
		}
		if len(m.TransactionTypename) != len(m.TransactionWeight) {
			msg += fmt.Sprintf("Models[%d]: #TransactionTypename != #TransactionWeight\n", i)
		}
	}
	if len(msg) > 0 {
		return errors.New(msg)
	}
	return nil
}

// InstanceConfig projects the process-wide options the schema embeds.
func (c *Config) InstanceConfig() artm.InstanceConfig {
	return artm.InstanceConfig{
		ProcessorQueueMaxSize: c.ProcessorQueueMaxSize,
		MergerQueueMaxSize:    c.MergerQueueMaxSize,
		CacheTheta:            c.CacheTheta,
		DiskCachePath:         c.DiskCachePath,
	}
}

// Schema builds a fresh InstanceSchema snapshot from the config.
// Regularizers and score calculators are registered by the caller.
func (c *Config) Schema() *artm.InstanceSchema {
	s := artm.NewInstanceSchema(c.InstanceConfig())
	for _, m := range c.Models {
		s.AddModelConfig(m)
	}
	return s
}

// Encode returns the JSON-encoded Config, usable as a command line
// flag value to pass information to sub-processes.
func (c *Config) Encode() (string, error) {
	var buf bytes.Buffer
	if e := json.NewEncoder(&buf).Encode(c); e != nil {
		return "", fmt.Errorf("JSON encoding failed: %v", e)
	}
	return buf.String(), nil
}

// String is required by interface flag.Var.
func (c *Config) String() string {
	if b, e := json.MarshalIndent(c, " ", "  "); e == nil {
		return string(b)
	}
	return ""
}

// Set is required by interface flag.Var.  It decodes a JSON encoded
// Config value.
func (c *Config) Set(value string) error {
	if e := json.NewDecoder(strings.NewReader(value)).Decode(c); e != nil {
		return fmt.Errorf("Error decoding JSON: %v", e)
	}
	return nil
}

// RegisterAsFlag registers a flag named config accepting a JSON
// encoded Config value.  Must be called before flag.Parse().
func (c *Config) RegisterAsFlag() {
	flag.Var(c, "config", "JSON encoded configuration")
}

func LoadConfig(filename string) (*Config, error) {
	f, e := file.Open(filename)
	if e != nil {
		return nil, fmt.Errorf("Cannot open config file %s: %v", filename, e)
	}
	defer f.Close()

	cfg := new(Config)
	if e = json.NewDecoder(f).Decode(cfg); e != nil {
		return nil, fmt.Errorf("Parse JSON config file: %v", e)
	}

	if e := cfg.Validate(); e != nil {
		return nil, fmt.Errorf("Invalid configuration: %v", e)
	}
	return cfg, nil
}
