package utils

import (
	"encoding/gob"
	"fmt"
	"path"

	"github.com/golang/glog"
	cmprs "github.com/wangkuiyi/compress_io"
	file "github.com/wangkuiyi/file"

	"github.com/godist/goartm/core/artm"
)

// Batches and theta cache entries travel as gob streams, optionally
// compressed according to the file extension.

// compression returns the compress_io format for filename: ".gz" and
// ".bz2" select a compressor, any other extension means plain gob.
func compression(filename string) string {
	switch ext := path.Ext(filename); ext {
	case ".gz", ".bz2":
		return ext
	}
	return ""
}

// SaveBatch writes b to filename.
func SaveBatch(b *artm.Batch, filename string) error {
	f, e := file.Create(filename)
	w := cmprs.NewWriter(f, e, compression(filename))
	if w == nil {
		return fmt.Errorf("cannot create batch file %s: %v", filename, e)
	}
	defer w.Close()
	if e := gob.NewEncoder(w).Encode(b); e != nil {
		return fmt.Errorf("failed encoding batch to %s: %v", filename, e)
	}
	return nil
}

// LoadBatch reads the batch stored at filename.
func LoadBatch(filename string) (*artm.Batch, error) {
	f, e := file.Open(filename)
	r := cmprs.NewReader(f, e, compression(filename))
	if r == nil {
		return nil, fmt.Errorf("cannot open batch file %s: %v", filename, e)
	}
	defer r.Close()
	b := new(artm.Batch)
	if e := gob.NewDecoder(r).Decode(b); e != nil {
		return nil, fmt.Errorf("failed decoding batch %s: %v", filename, e)
	}
	return b, nil
}

func LoadBatchOrDie(filename string) *artm.Batch {
	b, e := LoadBatch(filename)
	if e != nil {
		glog.Fatal(e)
	}
	return b
}

// SaveCacheEntry writes a theta cache entry to filename.
func SaveCacheEntry(entry *artm.CacheEntry, filename string) error {
	f, e := file.Create(filename)
	w := cmprs.NewWriter(f, e, compression(filename))
	if w == nil {
		return fmt.Errorf("cannot create cache file %s: %v", filename, e)
	}
	defer w.Close()
	if e := gob.NewEncoder(w).Encode(entry); e != nil {
		return fmt.Errorf("failed encoding cache entry to %s: %v", filename, e)
	}
	return nil
}

// LoadCacheEntry reads the theta cache entry stored at filename.
func LoadCacheEntry(filename string) (*artm.CacheEntry, error) {
	f, e := file.Open(filename)
	r := cmprs.NewReader(f, e, compression(filename))
	if r == nil {
		return nil, fmt.Errorf("cannot open cache file %s: %v", filename, e)
	}
	defer r.Close()
	entry := new(artm.CacheEntry)
	if e := gob.NewDecoder(r).Decode(entry); e != nil {
		return nil, fmt.Errorf("failed decoding cache entry %s: %v", filename, e)
	}
	return entry, nil
}
