// mkbatch converts a plain text corpus, one item per line, into batch
// files consumable by the processor.  Tokens come from whitespace
// splitting, or from sego dictionary segmentation when -dict is
// given.
// Usage:
/*
  $GOPATH/bin/mkbatch \
    -in=./corpus.txt -out=./batches -batch_size=1000 -gz
*/

package main

import (
	"bufio"
	"flag"
	"path"
	"strings"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/huichen/sego"
	file "github.com/wangkuiyi/file"
	"github.com/wangkuiyi/parallel"

	"github.com/godist/goartm/core/artm"
	"github.com/godist/goartm/core/utils"
)

const defaultClass = "@default_class"

func main() {
	flagIn := flag.String("in", "", "Input text file, one item per line")
	flagOut := flag.String("out", ".", "Output directory for batch files")
	flagBatchSize := flag.Int("batch_size", 1000, "Items per batch")
	flagDict := flag.String("dict", "", "sego dictionary; whitespace splitting if empty")
	flagGz := flag.Bool("gz", false, "gzip batch files")
	flag.Parse()

	if len(*flagIn) == 0 {
		glog.Fatal("-in must be specified")
	}
	if *flagBatchSize <= 0 {
		glog.Fatal("-batch_size must be a positive value")
	}

	tokenize := strings.Fields
	if len(*flagDict) > 0 {
		var seg sego.Segmenter
		seg.LoadDictionary(*flagDict)
		tokenize = func(line string) []string {
			return sego.SegmentsToSlice(seg.Segment([]byte(line)), false)
		}
	}

	in, e := file.Open(*flagIn)
	if e != nil {
		glog.Fatalf("Cannot open input %s: %v", *flagIn, e)
	}
	defer in.Close()

	ext := ".batch"
	if *flagGz {
		ext = ".batch.gz"
	}

	var batches []*artm.Batch
	b := newBatch()
	itemID := 0
	s := bufio.NewScanner(in)
	s.Buffer(make([]byte, 1024*1024), 1024*1024)
	for s.Scan() {
		tokens := tokenize(s.Text())
		if len(tokens) == 0 {
			continue
		}
		b.addItem(itemID, tokens)
		itemID++
		if len(b.batch.Items) >= *flagBatchSize {
			batches = append(batches, b.batch)
			b = newBatch()
		}
	}
	if e := s.Err(); e != nil {
		glog.Fatalf("Reading %s error: %v", *flagIn, e)
	}
	if len(b.batch.Items) > 0 {
		batches = append(batches, b.batch)
	}

	if e := parallel.For(0, len(batches), 1, func(i int) error {
		return utils.SaveBatch(batches[i],
			path.Join(*flagOut, uuid.NewString()+ext))
	}); e != nil {
		glog.Fatal(e)
	}
	glog.Infof("Wrote %d batches with %d items to %s",
		len(batches), itemID, *flagOut)
}

// batchBuilder interns tokens per batch while items accumulate.
type batchBuilder struct {
	batch *artm.Batch
	ids   map[string]int
}

func newBatch() *batchBuilder {
	return &batchBuilder{
		batch: &artm.Batch{},
		ids:   make(map[string]int),
	}
}

func (b *batchBuilder) tokenID(token string) int {
	if id, ok := b.ids[token]; ok {
		return id
	}
	id := len(b.batch.Token)
	b.ids[token] = id
	b.batch.Token = append(b.batch.Token, token)
	b.batch.ClassID = append(b.batch.ClassID, defaultClass)
	return id
}

func (b *batchBuilder) addItem(id int, tokens []string) {
	counts := make(map[int]int)
	var order []int
	for _, t := range tokens {
		tid := b.tokenID(t)
		if counts[tid] == 0 {
			order = append(order, tid)
		}
		counts[tid]++
	}

	field := artm.Field{Name: defaultClass}
	for _, tid := range order {
		field.TokenID = append(field.TokenID, tid)
		field.TokenCount = append(field.TokenCount, counts[tid])
	}
	b.batch.Items = append(b.batch.Items, artm.Item{
		ID:     id,
		Fields: []artm.Field{field},
	})
}
