package artm

// Token identifies a modality class and a surface form.  Tokens are
// interned at the model level; a batch carries its own parallel
// Token/ClassID arrays and items refer to tokens by batch-local index.
type Token struct {
	ClassID string
	Keyword string
}

// Field is one named group of (token, count) pairs inside an item.
type Field struct {
	Name       string
	TokenID    []int
	TokenCount []int
}

// Item is one document.  The bag-of-words content lives in Fields.
// The transaction extension describes the same item as a sequence of
// transactions: TransactionStartIndex is a CSR-style cut over the
// TokenID stream and TransactionTypenameID indexes the batch-level
// typename table.
type Item struct {
	ID     int
	Fields []Field

	TokenID               []int
	TokenWeight           []float32
	TransactionStartIndex []int
	TransactionTypenameID []int
}

// Batch is an ordered bundle of items processed as one unit by one
// worker invocation.  Token and ClassID are parallel.
type Batch struct {
	Token               []string
	ClassID             []string
	TransactionTypename []string
	Items               []Item
}

// HasTransactions reports whether any item carries transaction cuts,
// which routes the batch to the transaction inner loop.
func (b *Batch) HasTransactions() bool {
	for i := range b.Items {
		if len(b.Items[i].TransactionStartIndex) > 0 {
			return true
		}
	}
	return false
}

// Mask is a bit-vector over the item indices of a batch.
type Mask []bool

// CacheEntry is a theta cache record keyed by (BatchUUID, ModelName).
// When spilled to disk only Filename and the key fields remain set.
type CacheEntry struct {
	BatchUUID string
	ModelName string
	TopicName []string
	ItemID    []int
	Theta     [][]float32
	Filename  string
}

// ProcessorInput is a batch plus named stream masks and any theta
// cache entries the loader decided to attach.  It is created upstream,
// consumed once by a worker and dropped.
type ProcessorInput struct {
	Batch       *Batch
	BatchUUID   string
	BatchWeight float32
	StreamName  []string
	StreamMask  []Mask
	CachedTheta []*CacheEntry
}

// StreamIndex returns the position of name in StreamName, or -1.
func (p *ProcessorInput) StreamIndex(name string) int {
	for i, s := range p.StreamName {
		if s == name {
			return i
		}
	}
	return -1
}

// FindCacheEntry locates the cached theta for this batch and model,
// or nil.
func (p *ProcessorInput) FindCacheEntry(modelName string) *CacheEntry {
	for _, c := range p.CachedTheta {
		if c.BatchUUID == p.BatchUUID && c.ModelName == modelName {
			return c
		}
	}
	return nil
}
