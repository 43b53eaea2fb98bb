// process is a single-process command line driver.  It feeds every
// batch in a directory through a pool of processor workers for a
// number of collection passes and prints the top tokens of each
// topic.
// Usage:
/*
  $GOPATH/bin/process \
    -config_file=./testdata/config.json \
    -passes=10
*/

package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/profile"
	"github.com/wangkuiyi/parallel"

	"github.com/godist/goartm/core/artm"
	"github.com/godist/goartm/core/utils"
	"github.com/godist/goartm/srv"
)

func main() {
	cfg := new(srv.Config)
	cfg.RegisterAsFlag()
	flagConfigFile := flag.String("config_file", "", "JSON config file; overrides -config")
	flagPasses := flag.Int("passes", 1, "Passes over the batch collection")
	flagTopWords := flag.Int("topwords", 10, "Top tokens to print per topic")
	flagProfile := flag.Bool("profile", false, "Write a CPU profile")
	flag.Parse()

	if *flagProfile {
		defer profile.Start(profile.ProfilePath(".")).Stop()
	}

	if len(*flagConfigFile) > 0 {
		c, e := srv.LoadConfig(*flagConfigFile)
		if e != nil {
			glog.Fatal(e)
		}
		cfg = c
	} else if e := cfg.Validate(); e != nil {
		glog.Fatalf("Invalid configuration: %v", e)
	}

	parts, e := loadBatches(cfg.BatchDir)
	if e != nil {
		glog.Fatal(e)
	}
	glog.Infof("Loaded %d batches from %s", len(parts), cfg.BatchDir)

	schema := srv.NewSchemaHolder(cfg.Schema())
	processorQueue := srv.NewQueue[*artm.ProcessorInput]()
	mergerQueue := srv.NewQueue[*artm.ModelIncrement]()

	merger := srv.NewMerger(mergerQueue)
	for _, m := range cfg.Models {
		merger.InitializeModel(m.Name, m.TopicName)
	}
	merger.Start()

	processors := make([]*srv.Processor, cfg.Processors)
	for i := range processors {
		processors[i] = srv.NewProcessor(processorQueue, mergerQueue, merger, schema)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)

Passes:
	for pass := 0; pass < *flagPasses; pass++ {
		start := time.Now()
		for _, part := range parts {
			processorQueue.Push(part)
		}
		for processorQueue.Size() > 0 || mergerQueue.Size() > 0 {
			select {
			case <-sig:
				glog.Warning("Early terminated by signal.")
				break Passes
			case <-time.After(100 * time.Millisecond):
			}
		}
		glog.Infof("Pass %04d done in %v", pass, time.Since(start))
	}

	for _, p := range processors {
		p.Stop()
	}
	merger.Stop()

	for _, m := range cfg.Models {
		printTopics(merger.GetLatestTopicModel(m.Name), *flagTopWords)
	}
}

// loadBatches reads every batch file in dir concurrently and wraps
// each into a ProcessorInput whose UUID is the file basename.
func loadBatches(dir string) ([]*artm.ProcessorInput, error) {
	entries, e := os.ReadDir(dir)
	if e != nil {
		return nil, fmt.Errorf("cannot list batch dir %s: %v", dir, e)
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}

	parts := make([]*artm.ProcessorInput, len(names))
	if e := parallel.For(0, len(names), 1, func(i int) error {
		b, e := utils.LoadBatch(path.Join(dir, names[i]))
		if e != nil {
			return e
		}
		uuid := strings.TrimSuffix(names[i], path.Ext(names[i]))
		uuid = strings.TrimSuffix(uuid, ".batch")
		parts[i] = &artm.ProcessorInput{
			Batch:       b,
			BatchUUID:   uuid,
			BatchWeight: 1,
		}
		return nil
	}); e != nil {
		return nil, e
	}
	return parts, nil
}

// printTopics prints each topic as its topWords heaviest tokens.
func printTopics(m *artm.TopicModel, topWords int) {
	if m == nil {
		return
	}
	type weighted struct {
		keyword string
		weight  float32
	}
	for k, name := range m.TopicName() {
		ws := make([]weighted, 0, m.TokenSize())
		for i, t := range m.Tokens() {
			if w := m.WeightAt(i, k); w > 0 {
				ws = append(ws, weighted{keyword: t.Keyword, weight: w})
			}
		}
		sort.Slice(ws, func(i, j int) bool { return ws[i].weight > ws[j].weight })
		if len(ws) > topWords {
			ws = ws[:topWords]
		}
		var b strings.Builder
		fmt.Fprintf(&b, "Model %s topic %s:", m.Name(), name)
		for _, w := range ws {
			fmt.Fprintf(&b, " %s (%.4f)", w.keyword, w.weight)
		}
		fmt.Println(b.String())
	}
}
